package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CommandServiceAPI lists the bot's commands.
type CommandServiceAPI interface {
	List(ctx context.Context) ([]Command, error)
}

// PartnerServiceAPI lists partner channels.
type PartnerServiceAPI interface {
	List(ctx context.Context) ([]Partner, error)
}

// UserServiceAPI looks up Twitch users.
type UserServiceAPI interface {
	Get(ctx context.Context, login string) (*TwitchUser, error)
}

// HistoryServiceAPI fetches a channel's emote history.
type HistoryServiceAPI interface {
	Get(ctx context.Context, login string) (*HistoryResponse, error)
}

// AccountServiceAPI resolves the account of the client's bearer token.
type AccountServiceAPI interface {
	Get(ctx context.Context) (*UserState, error)
}

// data fetches path and returns the envelope's data, turning non-JSON bodies
// and server-reported errors into errors.
func data[T any](ctx context.Context, c *Client, path string, opts *Options) ([]T, error) {
	res, err := FetchBackend[T](ctx, c, path, opts)
	if err != nil {
		return nil, err
	}
	if !res.JSON {
		return nil, fmt.Errorf("%s: unexpected response (%d): %.80s", path, res.StatusCode, res.Text)
	}
	if err := res.Value.Err(); err != nil {
		return nil, err
	}
	return res.Value.Data, nil
}

func first[T any](items []T, what string) (*T, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: not found", what)
	}
	return &items[0], nil
}

type CommandService struct{ c *Client }

func NewCommandService(c *Client) *CommandService { return &CommandService{c: c} }

func (s *CommandService) List(ctx context.Context) ([]Command, error) {
	return data[Command](ctx, s.c, "help", nil)
}

type PartnerService struct{ c *Client }

func NewPartnerService(c *Client) *PartnerService { return &PartnerService{c: c} }

func (s *PartnerService) List(ctx context.Context) ([]Partner, error) {
	return data[Partner](ctx, s.c, "partners", nil)
}

type UserService struct{ c *Client }

func NewUserService(c *Client) *UserService { return &UserService{c: c} }

func (s *UserService) Get(ctx context.Context, login string) (*TwitchUser, error) {
	users, err := data[TwitchUser](ctx, s.c, "users/"+url.PathEscape(login), nil)
	if err != nil {
		return nil, err
	}
	return first(users, "user "+login)
}

type HistoryService struct{ c *Client }

func NewHistoryService(c *Client) *HistoryService { return &HistoryService{c: c} }

func (s *HistoryService) Get(ctx context.Context, login string) (*HistoryResponse, error) {
	resp, err := data[HistoryResponse](ctx, s.c, "emotes/history/"+url.PathEscape(login), nil)
	if err != nil {
		return nil, err
	}
	return first(resp, "history for "+login)
}

type AccountService struct{ c *Client }

func NewAccountService(c *Client) *AccountService { return &AccountService{c: c} }

// Get fetches the token's account. Any non-2xx status rejects the token.
func (s *AccountService) Get(ctx context.Context) (*UserState, error) {
	res, err := FetchBackend[UserState](ctx, s.c, "account", &Options{Auth: true})
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		if res.JSON {
			if err := res.Value.Err(); err != nil {
				return nil, err
			}
		}
		return nil, &Error{StatusCode: res.StatusCode, Messages: []string{http.StatusText(res.StatusCode)}}
	}
	if !res.JSON {
		return nil, fmt.Errorf("account: unexpected response (%d): %.80s", res.StatusCode, res.Text)
	}
	if err := res.Value.Err(); err != nil {
		return nil, err
	}
	return first(res.Value.Data, "account")
}

var (
	_ AccountServiceAPI = (*AccountService)(nil)
	_ CommandServiceAPI = (*CommandService)(nil)
	_ PartnerServiceAPI = (*PartnerService)(nil)
	_ UserServiceAPI    = (*UserService)(nil)
	_ HistoryServiceAPI = (*HistoryService)(nil)
)
