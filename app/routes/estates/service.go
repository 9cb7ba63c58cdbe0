package estates

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/cache"
	"rentals-dashboard/app/models"
	"rentals-dashboard/app/validation"
	"rentals-dashboard/app/views"
)

const (
	estatesPath = "/dashboard/estates"

	msgValidation = "Veuillez corriger les erreurs de validation."
	msgSaveError  = "Echec de l'enregistrement du bien"
)

type EstateForm struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Address     string `form:"address" json:"address"`
	City        string `form:"city" json:"city"`
	Price       string `form:"price" json:"price"`
	Surface     string `form:"surface" json:"surface"`
	Rooms       string `form:"rooms" json:"rooms"`
	IsAvailable string `form:"is_available" json:"is_available"`
}

type estateFields struct {
	Title       string `form:"title" validate:"min=3,max=100"`
	Description string `form:"description" validate:"max=2000"`
	Address     string `form:"address" validate:"required,max=200"`
	City        string `form:"city" validate:"min=2,max=80"`
	Surface     int    `form:"surface" validate:"gte=1,lte=10000"`
	Rooms       int    `form:"rooms" validate:"gte=1,lte=50"`
}

func (f EstateForm) parse() (backend.EstateInput, validation.FieldErrors) {
	errs := validation.FieldErrors{}
	fields := estateFields{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Address:     strings.TrimSpace(f.Address),
		City:        strings.TrimSpace(f.City),
	}
	fields.Surface = parseInt(f.Surface, "surface", errs)
	fields.Rooms = parseInt(f.Rooms, "rooms", errs)

	price, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(f.Price), ",", ".", 1))
	switch {
	case err != nil:
		errs.Add("price", "Montant invalide.")
	case !price.IsPositive():
		errs.Add("price", "Doit être supérieur à 0.")
	}

	for field, msgs := range validation.Struct(fields) {
		if _, seen := errs[field]; !seen {
			errs[field] = msgs
		}
	}

	return backend.EstateInput{
		Title:       fields.Title,
		Description: fields.Description,
		Address:     fields.Address,
		City:        fields.City,
		Price:       price,
		Surface:     fields.Surface,
		Rooms:       fields.Rooms,
		IsAvailable: f.IsAvailable == "on" || f.IsAvailable == "true",
	}, errs
}

func parseInt(raw, field string, errs validation.FieldErrors) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(field, "Doit être un nombre entier.")
	}
	return v
}

func formFromEstate(e *models.Estate) EstateForm {
	available := ""
	if e.IsAvailable {
		available = "on"
	}
	return EstateForm{
		Title:       e.Title,
		Description: e.Description,
		Address:     e.Address,
		City:        e.City,
		Price:       e.Price.StringFixed(2),
		Surface:     strconv.Itoa(e.Surface),
		Rooms:       strconv.Itoa(e.Rooms),
		IsAvailable: available,
	}
}

type Service struct {
	api   *backend.Client
	cache cache.Store
	log   *zap.Logger
}

func NewService(api *backend.Client, store cache.Store, log *zap.Logger) *Service {
	return &Service{api: api, cache: store, log: log}
}

func (s *Service) List(ctx context.Context) ([]models.Estate, error) {
	return cache.Remember(ctx, s.cache, s.log, estatesPath, s.api.ListEstates)
}

func (s *Service) Create(ctx context.Context, form EstateForm) (views.FormState, error) {
	input, errs := form.parse()
	if errs.Any() {
		return views.FormState{Message: msgValidation, Errors: errs}, nil
	}
	estate, err := s.api.CreateEstate(ctx, input)
	if err != nil {
		return s.failure(err)
	}
	s.revalidate(ctx)
	return views.FormState{Redirect: estatePath(estate.ID)}, nil
}

func (s *Service) Update(ctx context.Context, id int64, form EstateForm) (views.FormState, error) {
	input, errs := form.parse()
	if errs.Any() {
		return views.FormState{Message: msgValidation, Errors: errs}, nil
	}
	if _, err := s.api.UpdateEstate(ctx, id, input); err != nil {
		return s.failure(err)
	}
	s.revalidate(ctx)
	return views.FormState{Redirect: estatePath(id)}, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteEstate(ctx, id); err != nil {
		return err
	}
	s.revalidate(ctx)
	return nil
}

// Upload stores already checked images or documents for an estate.
func (s *Service) Upload(ctx context.Context, id int64, folder backend.Folder, files []backend.File) ([]string, error) {
	urls, err := s.api.UploadFiles(ctx, folder, id, files)
	if err != nil {
		return nil, err
	}
	s.log.Info("estate files uploaded", zap.Int64("estate_id", id), zap.String("folder", string(folder)), zap.Int("count", len(urls)))
	s.revalidate(ctx)
	return urls, nil
}

func (s *Service) DeleteFile(ctx context.Context, id int64, folder backend.Folder, url string) error {
	if err := s.api.DeleteFile(ctx, folder, id, url); err != nil {
		return err
	}
	s.revalidate(ctx)
	return nil
}

func (s *Service) failure(err error) (views.FormState, error) {
	if backend.IsAuthFailure(err) {
		return views.FormState{}, err
	}
	if msg, fields, ok := backend.ValidationErrors(err); ok {
		errs := validation.FieldErrors{}
		errs.Merge(fields)
		if msg == "" {
			msg = msgValidation
		}
		return views.FormState{Message: msg, Errors: errs}, nil
	}
	s.log.Error("estate action failed", zap.Error(err))
	return views.FormState{Message: msgSaveError, Errors: validation.FieldErrors{}}, nil
}

func (s *Service) revalidate(ctx context.Context) {
	if err := s.cache.Revalidate(ctx, estatesPath); err != nil {
		s.log.Warn("revalidate failed", zap.String("path", estatesPath), zap.Error(err))
	}
}

// Filter keeps estates whose title or city contains q, optionally only available ones.
func Filter(estates []models.Estate, q string, onlyAvailable bool) []models.Estate {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]models.Estate, 0, len(estates))
	for _, e := range estates {
		if onlyAvailable && !e.IsAvailable {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(e.Title), q) &&
			!strings.Contains(strings.ToLower(e.City), q) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func estatePath(id int64) string {
	return estatesPath + "/" + strconv.FormatInt(id, 10)
}
