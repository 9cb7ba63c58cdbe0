package backend

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"rentals-dashboard/app/models"
)

type EstateInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	Price       decimal.Decimal `json:"price"`
	Surface     int             `json:"surface"`
	Rooms       int             `json:"rooms"`
	IsAvailable bool            `json:"is_available"`
}

func (c *Client) ListEstates(ctx context.Context) ([]models.Estate, error) {
	var out []models.Estate
	err := c.getJSON(ctx, "/api/estates", nil, &out)
	return out, err
}

func (c *Client) GetEstate(ctx context.Context, id int64) (*models.Estate, error) {
	var out models.Estate
	if err := c.getJSON(ctx, idPath("/api/estates", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateEstate(ctx context.Context, in EstateInput) (*models.Estate, error) {
	var out models.Estate
	if err := c.doJSON(ctx, http.MethodPost, "/api/estates", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEstate(ctx context.Context, id int64, in EstateInput) (*models.Estate, error) {
	var out models.Estate
	if err := c.doJSON(ctx, http.MethodPut, idPath("/api/estates", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEstate(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/api/estates", id), nil, nil, nil)
}
