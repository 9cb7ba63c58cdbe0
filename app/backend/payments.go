package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"rentals-dashboard/app/models"
)

type PaymentInput struct {
	EstateID    int64                `json:"estate_id"`
	TenantName  string               `json:"tenant_name"`
	MonthlyRent decimal.Decimal      `json:"monthly_rent"`
	DueDate     models.Date          `json:"due_date"`
	Status      models.PaymentStatus `json:"status"`
}

func (c *Client) ListPayments(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {string(status)}}
	}
	var out []models.Payment
	err := c.getJSON(ctx, "/api/payments", query, &out)
	return out, err
}

// PaymentCalendar returns the payments due in the given month.
func (c *Client) PaymentCalendar(ctx context.Context, year int, month time.Month) ([]models.Payment, error) {
	query := url.Values{
		"year":  {strconv.Itoa(year)},
		"month": {strconv.Itoa(int(month))},
	}
	var out []models.Payment
	err := c.getJSON(ctx, "/api/payments/calendar", query, &out)
	return out, err
}

func (c *Client) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	var out models.Payment
	if err := c.getJSON(ctx, idPath("/api/payments", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePayment(ctx context.Context, in PaymentInput) (*models.Payment, error) {
	var out models.Payment
	if err := c.doJSON(ctx, http.MethodPost, "/api/payments", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkPaymentPaid(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPost, idPath("/api/payments", id, "mark-paid"), nil, nil, nil)
}

func (c *Client) MarkPaymentLate(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPost, idPath("/api/payments", id, "mark-late"), nil, nil, nil)
}

func (c *Client) DeletePayment(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/api/payments", id), nil, nil, nil)
}
