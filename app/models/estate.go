package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estate is a property listing. It is read-mostly from this application's point of view.
type Estate struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	Price       decimal.Decimal `json:"price"`
	Surface     int             `json:"surface"`
	Rooms       int             `json:"rooms"`
	IsAvailable bool            `json:"is_available"`
	Images      []string        `json:"images"`
	Documents   []string        `json:"documents"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Cover returns the first image URL, if any.
func (e *Estate) Cover() string {
	if e == nil || len(e.Images) == 0 {
		return ""
	}
	return e.Images[0]
}
