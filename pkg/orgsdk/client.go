package orgsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client talks to an orgflow server. It provides the public operations and
// creates authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service and its storage are ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// Signup registers an account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*UserInfo, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/signup", "", req)
	if err != nil {
		return nil, err
	}

	var user UserInfo
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for an authenticated Session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/login", "", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var login LoginResponse
	if err := decodeJSON(resp, &login, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, &login), nil
}

// NewSessionFromToken wraps an access token obtained earlier.
func (c *Client) NewSessionFromToken(accessToken string) *Session {
	return &Session{client: c, accessToken: accessToken}
}

// ListDomains returns the catalog. It needs no authentication.
func (c *Client) ListDomains(ctx context.Context) (*DomainsResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/domains", "", nil)
	if err != nil {
		return nil, err
	}

	var domains DomainsResponse
	if err := decodeJSON(resp, &domains, http.StatusOK); err != nil {
		return nil, err
	}
	return &domains, nil
}
