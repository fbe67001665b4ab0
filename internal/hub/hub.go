package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrAuth is returned when a credential cannot be resolved to an identity.
var ErrAuth = errors.New("identity resolution failed")

// Identity is the resolved caller of a request. It is derived per request
// and never persisted.
type Identity struct {
	Email string
	Admin bool
}

// Client resolves bearer credentials against the hub identity service.
type Client struct {
	// adminToken short-circuits resolution for trusted system callers.
	adminToken string
	// emailFrom is the identity assigned to admin-token callers.
	emailFrom  string
	baseURL    string
	httpClient *http.Client
}

// New creates a hub client. host is the identity service hostname
// (e.g. "app.naas.ai").
func New(host, adminToken, emailFrom string) *Client {
	return &Client{
		adminToken: adminToken,
		emailFrom:  emailFrom,
		baseURL:    "https://" + host,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client (tests point it at a
// local server).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithBaseURL overrides the hub base URL, scheme included.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// userResponse is the hub's answer to GET /hub/api/user.
type userResponse struct {
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

// Resolve validates credential and returns the caller identity.
//
// The admin token is matched first and never leaves the process. Any other
// credential is passed through to the hub verbatim; the hub owns the token
// format. The call blocks the request — no caching, no retry.
func (c *Client) Resolve(ctx context.Context, credential string) (Identity, error) {
	if credential != "" && credential == c.adminToken {
		return Identity{Email: c.emailFrom, Admin: true}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/hub/api/user", nil)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Identity{}, fmt.Errorf("%w: hub returned status %d", ErrAuth, resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if user.Name == "" {
		return Identity{}, fmt.Errorf("%w: user not found", ErrAuth)
	}

	return Identity{Email: user.Name, Admin: user.Admin}, nil
}
