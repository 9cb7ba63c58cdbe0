package requests

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/models"
	"rentals-dashboard/app/validation"
	"rentals-dashboard/app/views"
)

const (
	requestsPath = "/dashboard/requests"

	msgValidation = "Veuillez corriger les erreurs de validation."
	msgCreateErr  = "Echec de l'envoi de la demande"
)

type RequestForm struct {
	EstateID int64  `form:"estate_id" json:"estate_id"`
	Message  string `form:"message" json:"message"`
}

type requestFields struct {
	EstateID int64  `form:"estate_id" validate:"required,gt=0"`
	Message  string `form:"message" validate:"min=10,max=1000"`
}

// Row is a request prepared for display.
type Row struct {
	models.RentalRequest
	Config     StatusConfig
	Actionable bool
}

type Service struct {
	api *backend.Client
	log *zap.Logger
}

func NewService(api *backend.Client, log *zap.Logger) *Service {
	return &Service{api: api, log: log}
}

func (s *Service) List(ctx context.Context, status *models.RequestStatus) ([]models.RentalRequest, error) {
	return s.api.ListRentalRequests(ctx, status)
}

func (s *Service) Create(ctx context.Context, form RequestForm) (views.FormState, error) {
	fields := requestFields{EstateID: form.EstateID, Message: strings.TrimSpace(form.Message)}
	if errs := validation.Struct(fields); errs.Any() {
		return views.FormState{Message: msgValidation, Errors: errs}, nil
	}

	if _, err := s.api.CreateRentalRequest(ctx, backend.RentalRequestInput{EstateID: fields.EstateID, Message: fields.Message}); err != nil {
		if backend.IsAuthFailure(err) {
			return views.FormState{}, err
		}
		if msg, fieldErrs, ok := backend.ValidationErrors(err); ok {
			errs := validation.FieldErrors{}
			errs.Merge(fieldErrs)
			if msg == "" {
				msg = msgValidation
			}
			return views.FormState{Message: msg, Errors: errs}, nil
		}
		s.log.Error("rental request creation failed", zap.Int64("estate_id", form.EstateID), zap.Error(err))
		return views.FormState{Message: msgCreateErr, Errors: validation.FieldErrors{}}, nil
	}
	return views.FormState{Redirect: requestsPath}, nil
}

// Approve asks the backend to approve id with the trimmed notes.
func (s *Service) Approve(ctx context.Context, id int64, notes string) error {
	notes = strings.TrimSpace(notes)
	if err := s.api.ApproveRentalRequest(ctx, id, notes); err != nil {
		return err
	}
	s.log.Info("rental request approved", zap.Int64("request_id", id), zap.Int("notes_length", utf8.RuneCountInString(notes)))
	return nil
}

func (s *Service) Reject(ctx context.Context, id int64) error {
	if err := s.api.RejectRentalRequest(ctx, id); err != nil {
		return err
	}
	s.log.Info("rental request rejected", zap.Int64("request_id", id))
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.api.DeleteRentalRequest(ctx, id)
}

// Rows decorates requests with their presentation. Only pending requests are
// actionable, and only for a role allowed to decide.
func Rows(reqs []models.RentalRequest, canDecide bool) []Row {
	rows := make([]Row, 0, len(reqs))
	for _, r := range reqs {
		rows = append(rows, Row{
			RentalRequest: r,
			Config:        ConfigFor(r.Status),
			Actionable:    canDecide && r.Status == models.RequestPending,
		})
	}
	return rows
}

// Tally counts requests per known status.
type Tally struct {
	Pending  int
	Approved int
	Rejected int
}

func Counts(reqs []models.RentalRequest) Tally {
	var t Tally
	for _, r := range reqs {
		switch r.Status {
		case models.RequestPending:
			t.Pending++
		case models.RequestApproved:
			t.Approved++
		case models.RequestRejected:
			t.Rejected++
		}
	}
	return t
}

// ParseStatus reads the ?status= filter. Empty or invalid values mean no filter.
func ParseStatus(raw string) *models.RequestStatus {
	var s models.RequestStatus
	switch raw {
	case "0":
		s = models.RequestPending
	case "1":
		s = models.RequestApproved
	case "2":
		s = models.RequestRejected
	default:
		return nil
	}
	return &s
}
