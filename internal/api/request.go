// Package api talks to the PotatBotat backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"golang.org/x/time/rate"
)

// ErrUnauthorized is returned when an authenticated request is made without
// a stored token.
var ErrUnauthorized = errors.New("no token stored, run `potat login`")

// TokenSource provides the bearer token for authenticated requests.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource holding a single token.
type StaticToken string

func (t StaticToken) Token() (string, error) {
	if t == "" {
		return "", ErrUnauthorized
	}
	return string(t), nil
}

// Options configures a single request.
type Options struct {
	Method string
	Header http.Header
	Body   io.Reader

	// Params is encoded into the query string. Nil values are dropped.
	Params map[string]any

	// Auth adds an "authorization: Bearer <token>" header from the client's
	// TokenSource.
	Auth bool
}

// Result is a decoded response. StatusCode is always the transport status.
// When the body is not valid JSON for T, JSON is false and Text holds the raw
// body.
type Result[T any] struct {
	StatusCode int
	Value      T
	JSON       bool
	Text       string
}

// Params holds configuration for creating a Client.
type Params struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Limiter    *rate.Limiter
	Logger     *log.Logger
}

// Client issues requests against the backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewClient creates a Client from the given params.
func NewClient(p Params) *Client {
	if p.HTTPClient == nil {
		p.HTTPClient = http.DefaultClient
	}
	if p.Logger == nil {
		p.Logger = log.Default()
	}
	if p.BaseURL != "" && !strings.HasSuffix(p.BaseURL, "/") {
		p.BaseURL += "/"
	}
	return &Client{
		baseURL: p.BaseURL,
		http:    p.HTTPClient,
		tokens:  p.Tokens,
		limiter: p.Limiter,
		logger:  p.Logger,
	}
}

// BaseURL returns the backend origin prefixed by FetchBackend.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// EncodeParams serializes params into a query string, skipping nil values
// and nil pointers. Pointers are dereferenced.
func EncodeParams(params map[string]any) string {
	q := url.Values{}
	for k, v := range params {
		if v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				continue
			}
			v = rv.Elem().Interface()
		}
		q.Set(k, fmt.Sprint(v))
	}
	return q.Encode()
}

// WithParams appends the encoded params to rawURL.
func WithParams(rawURL string, params map[string]any) string {
	qs := EncodeParams(params)
	if qs == "" {
		return rawURL
	}
	if strings.Contains(rawURL, "?") {
		return rawURL + "&" + qs
	}
	return rawURL + "?" + qs
}

func (c *Client) newRequest(ctx context.Context, rawURL string, opts *Options) (*http.Request, error) {
	if opts == nil {
		opts = &Options{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, WithParams(rawURL, opts.Params), opts.Body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if opts.Auth {
		token, err := c.token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) token() (string, error) {
	if c.tokens == nil {
		return "", ErrUnauthorized
	}
	token, err := c.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	if token == "" {
		return "", ErrUnauthorized
	}
	return token, nil
}

// MakeRequest performs a request and decodes the body as JSON into T,
// falling back to raw text. Only transport failures are returned as errors.
func MakeRequest[T any](ctx context.Context, c *Client, rawURL string, opts *Options) (*Result[T], error) {
	req, err := c.newRequest(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	res := &Result[T]{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(bytes.TrimSpace(body), &res.Value); err != nil {
		var zero T
		res.Value = zero
		res.Text = string(body)
		return res, nil
	}
	res.JSON = true
	return res, nil
}
