package users

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/cache"
	"rentals-dashboard/app/models"
	"rentals-dashboard/app/validation"
	"rentals-dashboard/app/views"
)

const (
	usersPath = "/dashboard/users"

	msgValidation  = "Veuillez corriger les erreurs de validation."
	msgCreateError = "Echec de l'ajout d'utilisateur"
	msgUpdateError = "Echec de la modification de l'utilisateur"
	msgRegisterErr = "Echec de la création du compte"
)

// UserForm is the account form as submitted by the browser.
type UserForm struct {
	Nom       string `form:"nom" json:"nom"`
	Prenom    string `form:"prenom" json:"prenom"`
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	Telephone string `form:"telephone" json:"telephone"`
	Revenu    string `form:"revenu" json:"revenu"`
	// Documents are URLs of files already uploaded to the user's document folder.
	Documents []string `form:"documents" json:"documents"`
}

type account struct {
	Nom       string   `form:"nom" validate:"min=2,max=50"`
	Prenom    string   `form:"prenom" validate:"min=2,max=50"`
	Email     string   `form:"email" validate:"required,email,max=255"`
	Password  string   `form:"password" validate:"omitempty,password"`
	Telephone string   `form:"telephone" validate:"required,phone"`
	Revenu    int64    `form:"revenu" validate:"gte=0,lte=100000000"`
	Documents []string `form:"documents" validate:"omitempty,dive,url"`
}

// parse validates the form. With requirePassword unset an empty password keeps the current one.
func (f UserForm) parse(requirePassword bool) (backend.UserInput, validation.FieldErrors) {
	errs := validation.FieldErrors{}

	acc := account{
		Nom:       strings.TrimSpace(f.Nom),
		Prenom:    strings.TrimSpace(f.Prenom),
		Email:     strings.TrimSpace(f.Email),
		Telephone: strings.TrimSpace(f.Telephone),
	}
	for _, d := range f.Documents {
		if d = strings.TrimSpace(d); d != "" {
			acc.Documents = append(acc.Documents, d)
		}
	}
	if raw := strings.TrimSpace(f.Revenu); raw != "" {
		revenu, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs.Add("revenu", "Doit être un nombre entier.")
		}
		acc.Revenu = revenu
	}

	acc.Password = f.Password
	if requirePassword && acc.Password == "" {
		errs.Add("password", "Ce champ est requis.")
	}

	fieldErrs := validation.Struct(acc)
	if _, bad := errs["revenu"]; bad {
		delete(fieldErrs, "revenu")
	}
	errs.Merge(fieldErrs)

	return backend.UserInput{
		Nom:       acc.Nom,
		Prenom:    acc.Prenom,
		Email:     acc.Email,
		Password:  f.Password,
		Telephone: acc.Telephone,
		Revenu:    acc.Revenu,
		Documents: acc.Documents,
	}, errs
}

type Service struct {
	api   *backend.Client
	cache cache.Store
	log   *zap.Logger
}

func NewService(api *backend.Client, store cache.Store, log *zap.Logger) *Service {
	return &Service{api: api, cache: store, log: log}
}

// Create validates the form, creates the account and revalidates the users list.
// The returned error is non-nil only when the backend rejected the session.
func (s *Service) Create(ctx context.Context, form UserForm) (views.FormState, error) {
	input, errs := form.parse(true)
	if errs.Any() {
		return views.FormState{Message: msgValidation, Errors: errs}, nil
	}
	// Documents are attached after creation through the upload endpoint.
	input.Documents = nil

	if _, err := s.api.CreateUser(ctx, input); err != nil {
		return s.failure(err, msgCreateError)
	}

	s.revalidate(ctx, usersPath)
	return views.FormState{Redirect: usersPath}, nil
}

func (s *Service) Update(ctx context.Context, id int64, form UserForm) (views.FormState, error) {
	input, errs := form.parse(false)
	if errs.Any() {
		return views.FormState{Message: msgValidation, Errors: errs}, nil
	}

	if _, err := s.api.UpdateUser(ctx, id, input); err != nil {
		return s.failure(err, msgUpdateError)
	}

	s.revalidate(ctx, usersPath)
	return views.FormState{Redirect: userPath(id)}, nil
}

// Register creates a prospect account from the public sign-up page.
func (s *Service) Register(ctx context.Context, form UserForm) (views.FormState, error) {
	input, errs := form.parse(true)
	if errs.Any() {
		return views.FormState{Message: msgValidation, Errors: errs}, nil
	}
	input.Documents = nil

	if _, err := s.api.Register(ctx, input); err != nil {
		return s.failure(err, msgRegisterErr)
	}

	s.revalidate(ctx, usersPath)
	return views.FormState{Redirect: "/auth/login"}, nil
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return cache.Remember(ctx, s.cache, s.log, usersPath, s.api.ListUsers)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.revalidate(ctx, usersPath)
	return nil
}

func (s *Service) failure(err error, generic string) (views.FormState, error) {
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
	s.log.Error("user action failed", zap.Error(err))
	return views.FormState{Message: generic, Errors: validation.FieldErrors{}}, nil
}

func (s *Service) revalidate(ctx context.Context, path string) {
	if err := s.cache.Revalidate(ctx, path); err != nil {
		s.log.Warn("revalidate failed", zap.String("path", path), zap.Error(err))
	}
}

// Filter keeps users matching role (when set) and whose name or email contains q.
func Filter(users []models.User, role models.Role, q string) []models.User {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if role != "" && u.Role != role {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(u.FullName()), q) &&
			!strings.Contains(strings.ToLower(u.Email), q) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func userPath(id int64) string {
	return usersPath + "/" + strconv.FormatInt(id, 10)
}
