package api

import (
	"context"
	"fmt"
	"net/http"
)

// Account describes the authenticated user.
type Account struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Login exchanges credentials for a bearer token. The token is installed on
// the client and returned so the caller can persist it.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}
	c.token = out.Token
	return out.Token, nil
}

// WhoAmI validates the current token and returns the account behind it.
func (c *Client) WhoAmI(ctx context.Context) (*Account, error) {
	var out Account
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, fmt.Errorf("checking session: %w", err)
	}
	return &out, nil
}
