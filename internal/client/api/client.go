// Package api is the thin HTTP client the CLI uses to talk to the backend
// auth endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lucasmnd/toile/backend/internal/apperrors"
	"github.com/lucasmnd/toile/backend/internal/client/accounts"
	"github.com/lucasmnd/toile/backend/internal/models"
)

// Client calls the backend REST API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a Client against baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// AuthResponse is the body returned by every auth endpoint.
type AuthResponse struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message,omitempty"`
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      models.UserCompact `json:"user"`
}

// SignIn authenticates with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.postAuth(ctx, "/api/v1/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, name, username, email, password string) (*AuthResponse, error) {
	return c.postAuth(ctx, "/api/v1/auth/signup", map[string]string{
		"name":     name,
		"username": username,
		"email":    email,
		"password": password,
	})
}

// Exchange trades a stored session token for a fresh session. It implements
// accounts.SessionExchanger.
func (c *Client) Exchange(ctx context.Context, token string) (*accounts.ExchangedSession, error) {
	resp, err := c.postAuth(ctx, "/api/v1/auth/exchange", map[string]string{"token": token})
	if err != nil {
		return nil, err
	}
	return &accounts.ExchangedSession{Token: resp.Token, ExpiresAt: resp.ExpiresAt}, nil
}

func (c *Client) postAuth(ctx context.Context, path string, payload any) (*AuthResponse, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstream("request failed", err)
	}
	defer resp.Body.Close()

	var out AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.NewUpstream("invalid server response", err)
	}
	if !out.Success {
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, apperrors.NewAuth("%s", out.Message)
		}
		return nil, fmt.Errorf("server refused request: %s", out.Message)
	}
	return &out, nil
}
