package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrBackendUnavailable is returned for any failed call to the backend:
// transport errors, timeouts, non-2xx statuses and unreadable bodies.
var ErrBackendUnavailable = errors.New("backend unavailable")

// StatusError reports a non-2xx backend response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded with status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrBackendUnavailable
}

// Client fetches the message body from a fixed backend URL.
type Client struct {
	url    *url.URL
	client *http.Client
}

// New creates a Client for the given URL. A zero timeout leaves the call
// bounded only by the caller's context.
func New(u *url.URL, timeout time.Duration) *Client {
	return &Client{
		url: u,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// URL returns the backend URL.
func (c *Client) URL() *url.URL {
	return c.url
}

// Fetch issues a GET to the backend and returns the raw response body.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		return "", &StatusError{StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %w", ErrBackendUnavailable, err)
	}

	return string(body), nil
}
