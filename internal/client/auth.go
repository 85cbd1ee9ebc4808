package client

import (
	"context"
	"net/http"

	"github.com/shopcraft/storefront/internal/application/identity"
)

// Register creates an account and returns its first token pair.
func (c *Client) Register(ctx context.Context, username, password string) (*identity.AuthResult, error) {
	var result identity.AuthResult
	body := identity.RegisterInput{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "auth/register", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*identity.AuthResult, error) {
	var result identity.AuthResult
	body := identity.LoginInput{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "auth/login", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout revokes the current access token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "auth/logout", nil, nil, nil)
}

// Profile returns the token holder.
func (c *Client) Profile(ctx context.Context) (*identity.UserInfo, error) {
	var user identity.UserInfo
	if err := c.do(ctx, http.MethodGet, "auth/profile", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
