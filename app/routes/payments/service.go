package payments

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/models"
	"rentals-dashboard/app/validation"
	"rentals-dashboard/app/views"
)

const (
	paymentsPath = "/dashboard/payments"

	msgValidation = "Veuillez corriger les erreurs de validation."
	msgCreateErr  = "Echec de la création du paiement"
)

// PaymentForm is the creation form opened from a calendar day.
type PaymentForm struct {
	EstateID    int64  `form:"estate_id" json:"estate_id"`
	TenantName  string `form:"tenant_name" json:"tenant_name"`
	MonthlyRent string `form:"monthly_rent" json:"monthly_rent"`
	Day         int    `form:"day" json:"day"`
	Month       int    `form:"month" json:"month"`
	Year        int    `form:"year" json:"year"`
	Status      string `form:"status" json:"status"`
}

type paymentFields struct {
	EstateID   int64  `form:"estate_id" validate:"required,gt=0"`
	TenantName string `form:"tenant_name" validate:"min=2,max=100"`
	Month      int    `form:"month" validate:"gte=1,lte=12"`
	Year       int    `form:"year" validate:"gte=2000,lte=2100"`
	Status     string `form:"status" validate:"oneof=pending paid late"`
}

func (f PaymentForm) parse() (backend.PaymentInput, validation.FieldErrors) {
	status := strings.TrimSpace(f.Status)
	if status == "" {
		status = string(models.PaymentPending)
	}
	fields := paymentFields{
		EstateID:   f.EstateID,
		TenantName: strings.TrimSpace(f.TenantName),
		Month:      f.Month,
		Year:       f.Year,
		Status:     status,
	}
	errs := validation.FieldErrors{}
	errs.Merge(validation.Struct(fields))

	rent, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(f.MonthlyRent), ",", ".", 1))
	switch {
	case err != nil:
		errs.Add("monthly_rent", "Montant invalide.")
	case !rent.IsPositive():
		errs.Add("monthly_rent", "Doit être supérieur à 0.")
	}

	if _, bad := errs["month"]; !bad {
		if m := NewMonth(f.Year, time.Month(f.Month)); f.Day < 1 || f.Day > m.DaysInMonth {
			errs.Add("day", fmt.Sprintf("Doit être compris entre 1 et %d.", m.DaysInMonth))
		}
	}

	return backend.PaymentInput{
		EstateID:    fields.EstateID,
		TenantName:  fields.TenantName,
		MonthlyRent: rent,
		DueDate:     models.NewDate(f.Year, time.Month(f.Month), f.Day),
		Status:      models.PaymentStatus(status),
	}, errs
}

type Service struct {
	api *backend.Client
	log *zap.Logger
}

func NewService(api *backend.Client, log *zap.Logger) *Service {
	return &Service{api: api, log: log}
}

// Calendar fetches the payments of m. Calendar pages are never cached.
// Calendar returns the payments due in m. Rows the backend returns for adjacent
// months are dropped so the grid and the summary cover the same set.
func (s *Service) Calendar(ctx context.Context, m Month) ([]models.Payment, error) {
	payments, err := s.api.PaymentCalendar(ctx, m.Year, m.Month)
	if err != nil {
		return nil, err
	}
	return InMonth(payments, m), nil
}

func (s *Service) List(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	if !status.Valid() {
		status = ""
	}
	return s.api.ListPayments(ctx, status)
}

func (s *Service) Create(ctx context.Context, form PaymentForm) (views.FormState, error) {
	input, errs := form.parse()
	if errs.Any() {
		return views.FormState{Message: msgValidation, Errors: errs}, nil
	}

	if _, err := s.api.CreatePayment(ctx, input); err != nil {
		if backend.IsAuthFailure(err) {
			return views.FormState{}, err
		}
		if msg, fieldErrs, ok := backend.ValidationErrors(err); ok {
			errs.Merge(fieldErrs)
			if msg == "" {
				msg = msgValidation
			}
			return views.FormState{Message: msg, Errors: errs}, nil
		}
		s.log.Error("payment creation failed", zap.Int64("estate_id", input.EstateID), zap.Stringer("due_date", input.DueDate), zap.Error(err))
		return views.FormState{Message: msgCreateErr, Errors: validation.FieldErrors{}}, nil
	}
	return views.FormState{Redirect: CalendarURL(NewMonth(form.Year, time.Month(form.Month)))}, nil
}

func (s *Service) MarkPaid(ctx context.Context, id int64) error {
	return s.api.MarkPaymentPaid(ctx, id)
}

func (s *Service) MarkLate(ctx context.Context, id int64) error {
	return s.api.MarkPaymentLate(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.api.DeletePayment(ctx, id)
}

func CalendarURL(m Month) string {
	return paymentsPath + "?year=" + strconv.Itoa(m.Year) + "&month=" + strconv.Itoa(int(m.Month))
}
