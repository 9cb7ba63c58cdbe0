package models

import (
	"github.com/shopspring/decimal"
)

// PaymentStatus defines the status of a rent payment
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentLate    PaymentStatus = "late"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentLate:
		return true
	}
	return false
}

// Label is the French status name. Unknown values read as pending.
func (s PaymentStatus) Label() string {
	switch s {
	case PaymentPaid:
		return "Payé"
	case PaymentLate:
		return "En retard"
	default:
		return "En attente"
	}
}

func (s PaymentStatus) Color() string {
	switch s {
	case PaymentPaid:
		return "green"
	case PaymentLate:
		return "red"
	default:
		return "yellow"
	}
}

// Payment is one monthly rent due for an estate.
type Payment struct {
	ID          int64           `json:"id"`
	EstateID    int64           `json:"estate_id"`
	Estate      *Estate         `json:"estate,omitempty"`
	TenantName  string          `json:"tenant_name"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	DueDate     Date            `json:"due_date"`
	Status      PaymentStatus   `json:"status"`
}
