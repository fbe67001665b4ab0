// Package sdk provides a Go client for the notification API.
//
// Usage:
//
//	client := sdk.New("https://notifications.example.com", token)
//
//	err := client.Send(ctx, sdk.SendRequest{
//	    Email:   "user@example.com",
//	    Subject: "Hello",
//	    Content: "World",
//	})
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client is the authenticated notification API client.
type Client struct {
	baseURL    string
	credential string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a notification API client. credential is the bearer token
// forwarded to the identity service (or the service's admin token).
func New(baseURL, credential string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		credential: credential,
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Send delivers a raw-content notification.
func (c *Client) Send(ctx context.Context, req SendRequest) error {
	_, err := doRequest[SendResponse](ctx, c, http.MethodPost, "/", req, http.StatusOK)
	return err
}

// SendStatus delivers a notification rendered through the status template.
func (c *Client) SendStatus(ctx context.Context, req SendRequest) error {
	_, err := doRequest[SendResponse](ctx, c, http.MethodPost, "/status", req, http.StatusOK)
	return err
}

// List returns the caller's own sent-notification records.
func (c *Client) List(ctx context.Context) ([]Notification, error) {
	resp, err := doRequest[ListResponse](ctx, c, http.MethodGet, "/", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return resp.Emails, nil
}

// ListAll returns every record. The credential must resolve to an admin.
func (c *Client) ListAll(ctx context.Context) ([]Notification, error) {
	resp, err := doRequest[ListResponse](ctx, c, http.MethodGet, "/admin", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return resp.Emails, nil
}

// Health checks that the server is reachable. It sends no credential so it
// hits the liveness branch of GET /.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseError(resp)
	}
	return nil
}

// --- internal helpers ---

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("notifier: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.credential)
	return req, nil
}

func doRequest[T any](ctx context.Context, c *Client, method, path string, body any, expectedStatus int) (*T, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		return nil, parseError(resp)
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("notifier: decode response: %w", err)
	}
	return &out, nil
}

func parseError(resp *http.Response) *APIError {
	e := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		e.Message = body.Error
	} else {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
