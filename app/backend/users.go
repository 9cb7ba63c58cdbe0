package backend

import (
	"context"
	"net/http"

	"rentals-dashboard/app/models"
)

// UserInput is the account payload accepted by the user endpoints.
type UserInput struct {
	Nom       string   `json:"nom"`
	Prenom    string   `json:"prenom"`
	Email     string   `json:"email"`
	Password  string   `json:"password,omitempty"`
	Telephone string   `json:"telephone"`
	Revenu    int64    `json:"revenu"`
	Documents []string `json:"documents,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := c.getJSON(ctx, "/api/users", nil, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var out models.User
	if err := c.getJSON(ctx, idPath("/api/users", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	var out models.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/users", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a prospect account; no session is required.
func (c *Client) Register(ctx context.Context, in UserInput) (*models.User, error) {
	var out models.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/register", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in UserInput) (*models.User, error) {
	var out models.User
	if err := c.doJSON(ctx, http.MethodPut, idPath("/api/users", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/api/users", id), nil, nil, nil)
}
