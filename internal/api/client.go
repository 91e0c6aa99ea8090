package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Meta is the pagination block some list endpoints attach to the envelope.
type Meta struct {
	Page          int      `json:"page"`
	Limit         int      `json:"limit"`
	Total         int      `json:"total"`
	TotalPage     int      `json:"totalPage"`
	AverageRating *float64 `json:"averageRating,omitempty"`
}

// Response is the backend's response envelope, identical on every endpoint.
type Response[T any] struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       T      `json:"data"`
	Meta       *Meta  `json:"meta,omitempty"`
}

// Client is the single choke point for all REST calls against the backend.
// It is stateless between calls except for the cookie jar, which keeps the
// backend's session cookies flowing on every request.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a client for the backend API rooted at baseURL. Cookies are
// always included, mirroring the browser client this replaces.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
	}
}

// do issues one JSON request. A bearer header is added only when token is
// non-empty. The body of the response is returned raw so typed helpers can
// decode the envelope with their own Data type.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Message: "failed to encode request body", cause: err}
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, newNetworkError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The backend reports errors inside the same envelope; decode it even
		// on failure to surface the server's message.
		var envelope Response[json.RawMessage]
		_ = json.Unmarshal(raw, &envelope)
		return nil, newStatusError(resp.StatusCode, envelope.Message)
	}
	return raw, nil
}

// Get issues a GET request and returns the decoded envelope.
func Get[T any](ctx context.Context, c *Client, path, token string) (*Response[T], error) {
	return decode[T](c.do(ctx, http.MethodGet, path, token, nil))
}

// Post issues a POST request with an optional JSON body.
func Post[T any](ctx context.Context, c *Client, path string, body any, token string) (*Response[T], error) {
	return decode[T](c.do(ctx, http.MethodPost, path, token, body))
}

// Patch issues a PATCH request with an optional JSON body.
func Patch[T any](ctx context.Context, c *Client, path string, body any, token string) (*Response[T], error) {
	return decode[T](c.do(ctx, http.MethodPatch, path, token, body))
}

// Delete issues a DELETE request.
func Delete[T any](ctx context.Context, c *Client, path, token string) (*Response[T], error) {
	return decode[T](c.do(ctx, http.MethodDelete, path, token, nil))
}

func decode[T any](raw json.RawMessage, err error) (*Response[T], error) {
	if err != nil {
		return nil, err
	}
	var envelope Response[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &Error{Kind: KindServer, Message: "invalid response from backend", cause: err}
	}
	return &envelope, nil
}
