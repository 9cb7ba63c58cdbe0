package backend

import (
	"context"
	"net/http"

	"rentals-dashboard/app/models"
)

type Credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginResult is the credential provider's answer to a successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var out LoginResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", nil, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the backend token carried by ctx.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil, nil)
}
