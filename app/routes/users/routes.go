package users

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/models"
	"rentals-dashboard/app/routes/auth"
	"rentals-dashboard/app/session"
	"rentals-dashboard/app/views"
)

type Handler struct {
	svc *Service
	api *backend.Client
	log *zap.Logger
}

func NewHandler(svc *Service, api *backend.Client, log *zap.Logger) *Handler {
	return &Handler{svc: svc, api: api, log: log}
}

// SetupUsersRoutes registers the public sign-up pages on app and the account
// management pages under the authenticated web and api groups.
func SetupUsersRoutes(app *fiber.App, web, api fiber.Router, h *Handler) {
	app.Get("/auth/register", h.ShowRegisterPage)
	app.Post("/auth/register", h.RegisterAPI)

	manage := auth.RequireCapability(session.ManageUsers)

	users := web.Group("/users", manage)
	users.Get("/", h.ListPage)
	users.Get("/new", h.NewPage)
	users.Post("/", h.CreateUserAPI)
	users.Get("/:id", h.ShowPage)
	users.Get("/:id/edit", h.EditPage)
	users.Post("/:id", h.UpdateUserAPI)
	users.Post("/:id/delete", h.DeleteUserAPI)
	users.Post("/:id/documents", h.UploadDocumentsAPI)
	users.Post("/:id/documents/delete", h.DeleteDocumentAPI)

	usersAPI := api.Group("/users", manage)
	usersAPI.Get("/", h.ListUsersAPI)
	usersAPI.Post("/", h.CreateUserAPI)
	usersAPI.Put("/:id", h.UpdateUserAPI)
	usersAPI.Delete("/:id", h.DeleteUserAPI)
}

func (h *Handler) ListPage(c *fiber.Ctx) error {
	all, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	role := models.Role(c.Query("role"))
	return views.Render(c, "users/index", "Utilisateurs", "users", fiber.Map{
		"Users": Filter(all, role, c.Query("q")),
		"Query": c.Query("q"),
		"Role":  string(role),
		"Roles": []models.Role{models.RoleAdmin, models.RoleTenant, models.RoleProspect},
	})
}

func (h *Handler) NewPage(c *fiber.Ctx) error {
	return h.renderForm(c, UserForm{}, views.FormState{}, 0)
}

func (h *Handler) ShowPage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	user, err := h.api.GetUser(c.UserContext(), int64(id))
	if err != nil {
		return err
	}
	return views.Render(c, "users/show", user.FullName(), "users", fiber.Map{"User": user})
}

func (h *Handler) EditPage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	user, err := h.api.GetUser(c.UserContext(), int64(id))
	if err != nil {
		return err
	}
	form := UserForm{
		Nom:       user.Nom,
		Prenom:    user.Prenom,
		Email:     user.Email,
		Telephone: user.Telephone,
		Documents: user.Documents,
	}
	if user.Revenu > 0 {
		form.Revenu = fmtInt(user.Revenu)
	}
	return h.renderForm(c, form, views.FormState{}, user.ID)
}

func (h *Handler) renderForm(c *fiber.Ctx, form UserForm, state views.FormState, id int64) error {
	title, action := "Nouvel utilisateur", usersPath
	if id != 0 {
		title, action = "Modifier l'utilisateur", userPath(id)
	}
	return views.Render(c, "users/form", title, "users", fiber.Map{
		"Form":    form,
		"State":   state,
		"Editing": id != 0,
		"Action":  action,
	})
}

func (h *Handler) ShowRegisterPage(c *fiber.Ctx) error {
	return views.RenderBare(c, "auth/register", "Créer un compte", fiber.Map{
		"Form":  UserForm{},
		"State": views.FormState{},
	})
}
