package api

import (
	"context"
	"strconv"
	"strings"
)

// Pagination is the cursor block of a paged backend response.
type Pagination struct {
	Cursor      string `json:"cursor"`
	HasNextPage bool   `json:"hasNextPage"`
}

// ErrorMessage is one server-reported error.
type ErrorMessage struct {
	Message string `json:"message"`
}

// Envelope is the shape of every backend response.
type Envelope[T any] struct {
	StatusCode int            `json:"statusCode"`
	Data       []T            `json:"data"`
	Duration   float64        `json:"duration"`
	Pagination *Pagination    `json:"pagination,omitempty"`
	Errors     []ErrorMessage `json:"errors,omitempty"`
}

// Error is a non-empty server-reported error list.
type Error struct {
	StatusCode int
	Messages   []string
}

func (e *Error) Error() string {
	return "backend error (" + strconv.Itoa(e.StatusCode) + "): " + strings.Join(e.Messages, "; ")
}

// Err returns the envelope's errors as an *Error, or nil when there are none.
func (e *Envelope[T]) Err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	msgs := make([]string, len(e.Errors))
	for i, m := range e.Errors {
		msgs[i] = m.Message
	}
	return &Error{StatusCode: e.StatusCode, Messages: msgs}
}

// FetchBackend requests path relative to the backend origin and decodes the
// response envelope. Server-reported errors are logged; the result is
// returned unchanged.
func FetchBackend[T any](ctx context.Context, c *Client, path string, opts *Options) (*Result[Envelope[T]], error) {
	res, err := MakeRequest[Envelope[T]](ctx, c, c.baseURL+strings.TrimPrefix(path, "/"), opts)
	if err != nil {
		return nil, err
	}
	if res.JSON && len(res.Value.Errors) > 0 {
		c.logger.Printf("api: %s: %v", path, res.Value.Err())
	}
	return res, nil
}
