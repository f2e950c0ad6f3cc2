package orgsdk

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Session is an authenticated connection to the API. Tokens are not
// refreshed; log in again once ExpiresAt has passed.
type Session struct {
	client *Client

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
	user        UserInfo
}

func newSession(client *Client, login *LoginResponse) *Session {
	return &Session{
		client:      client,
		accessToken: login.AccessToken,
		expiresAt:   time.Now().Add(time.Duration(login.ExpiresIn) * time.Second),
		user:        login.User,
	}
}

// AccessToken returns the bearer token sent with every request.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// ExpiresAt is zero for sessions built with NewSessionFromToken.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// User is the account the session was opened for.
func (s *Session) User() UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	return s.client.doRequest(ctx, method, path, s.AccessToken(), payload)
}

// get decodes a 200 response into target.
func (s *Session) get(ctx context.Context, path string, target any) error {
	resp, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}

// send issues a request with a JSON body and decodes the expected status.
func (s *Session) send(ctx context.Context, method, path string, payload, target any, expected int) error {
	resp, err := s.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expected)
}

func (s *Session) delete(ctx context.Context, path string) error {
	resp, err := s.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// AdminOnly calls the admin area probe. It fails with 403 unless the
// session's role is privileged.
func (s *Session) AdminOnly(ctx context.Context) (*MessageResponse, error) {
	var msg MessageResponse
	if err := s.get(ctx, "/admin-only", &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
