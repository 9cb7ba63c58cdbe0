package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"rentals-dashboard/app/models"
)

type RentalRequestInput struct {
	EstateID int64  `json:"estate_id"`
	Message  string `json:"message"`
}

// ListRentalRequests returns the requests visible to the caller. A nil status lists all of them.
func (c *Client) ListRentalRequests(ctx context.Context, status *models.RequestStatus) ([]models.RentalRequest, error) {
	var query url.Values
	if status != nil {
		query = url.Values{"status": {strconv.Itoa(int(*status))}}
	}
	var out []models.RentalRequest
	err := c.getJSON(ctx, "/api/rental-requests", query, &out)
	return out, err
}

func (c *Client) GetRentalRequest(ctx context.Context, id int64) (*models.RentalRequest, error) {
	var out models.RentalRequest
	if err := c.getJSON(ctx, idPath("/api/rental-requests", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRentalRequest(ctx context.Context, in RentalRequestInput) (*models.RentalRequest, error) {
	var out models.RentalRequest
	if err := c.doJSON(ctx, http.MethodPost, "/api/rental-requests", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveRentalRequest approves a pending request. Transition rules are enforced by the backend.
func (c *Client) ApproveRentalRequest(ctx context.Context, id int64, notes string) error {
	body := struct {
		AdminNotes string `json:"admin_notes,omitempty"`
	}{notes}
	return c.doJSON(ctx, http.MethodPost, idPath("/api/rental-requests", id, "approve"), nil, body, nil)
}

func (c *Client) RejectRentalRequest(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPost, idPath("/api/rental-requests", id, "reject"), nil, nil, nil)
}

func (c *Client) DeleteRentalRequest(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/api/rental-requests", id), nil, nil, nil)
}
