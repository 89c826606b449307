package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potatbotat/potat-tui/internal/api"
)

func accountServer(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer good" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"statusCode":401,"data":[],"duration":0,"errors":[{"message":"invalid token"}]}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

const accountBody = `{"statusCode":200,"duration":0,"data":[{"id":"1","login":"potato","name":"Potato","stv_id":"s1","is_channel":true}]}`

func TestAccountService_Get(t *testing.T) {
	url := accountServer(t, http.StatusOK, accountBody)
	c := api.NewClient(api.Params{BaseURL: url, Tokens: api.StaticToken("good")})

	state, err := api.NewAccountService(c).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "potato", state.Login)
	assert.Equal(t, "Potato", state.Name)
	assert.True(t, state.IsChannel)
}

func TestAccountService_RejectedToken(t *testing.T) {
	url := accountServer(t, http.StatusOK, accountBody)
	c := api.NewClient(api.Params{BaseURL: url, Tokens: api.StaticToken("bad")})

	_, err := api.NewAccountService(c).Get(context.Background())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, []string{"invalid token"}, apiErr.Messages)
}

func TestAccountService_NonSuccessWithoutErrors(t *testing.T) {
	url := accountServer(t, http.StatusForbidden, `{"statusCode":403,"data":[],"duration":0}`)
	c := api.NewClient(api.Params{BaseURL: url, Tokens: api.StaticToken("good")})

	_, err := api.NewAccountService(c).Get(context.Background())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, []string{"Forbidden"}, apiErr.Messages)
}

func TestAccountService_NoToken(t *testing.T) {
	url := accountServer(t, http.StatusOK, accountBody)
	c := api.NewClient(api.Params{BaseURL: url, Tokens: api.StaticToken("")})

	_, err := api.NewAccountService(c).Get(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}
