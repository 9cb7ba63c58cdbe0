package estates

import (
	"github.com/gofiber/fiber/v2"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/routes/auth"
	"rentals-dashboard/app/session"
	"rentals-dashboard/app/views"
)

type Handler struct {
	svc *Service
	api *backend.Client
}

func NewHandler(svc *Service, api *backend.Client) *Handler {
	return &Handler{svc: svc, api: api}
}

func SetupEstatesRoutes(web, api fiber.Router, h *Handler) {
	manage := auth.RequireCapability(session.ManageEstates)

	estates := web.Group("/estates")
	estates.Get("/", h.ListPage)
	estates.Get("/new", manage, h.NewPage)
	estates.Post("/", manage, h.CreateEstateAPI)
	estates.Get("/:id", h.ShowPage)
	estates.Get("/:id/edit", manage, h.EditPage)
	estates.Post("/:id", manage, h.UpdateEstateAPI)
	estates.Post("/:id/delete", manage, h.DeleteEstateAPI)
	estates.Post("/:id/images", manage, h.UploadAPI(backend.FolderEstateImages))
	estates.Post("/:id/documents", manage, h.UploadAPI(backend.FolderEstateDocuments))
	estates.Post("/:id/files/delete", manage, h.DeleteFileAPI)

	estatesAPI := api.Group("/estates")
	estatesAPI.Get("/", h.ListEstatesAPI)
	estatesAPI.Post("/", manage, h.CreateEstateAPI)
	estatesAPI.Put("/:id", manage, h.UpdateEstateAPI)
	estatesAPI.Delete("/:id", manage, h.DeleteEstateAPI)
}

func (h *Handler) ListPage(c *fiber.Ctx) error {
	all, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	s := auth.Current(c)
	return views.Render(c, "estates/index", "Biens", "estates", fiber.Map{
		"Estates":       Filter(all, c.Query("q"), c.QueryBool("available")),
		"Query":         c.Query("q"),
		"OnlyAvailable": c.QueryBool("available"),
		"CanManage":     session.CanManageEstates(s.Role),
		"CanRequest":    session.CanRequestRental(s.Role),
	})
}

func (h *Handler) ShowPage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	estate, err := h.api.GetEstate(c.UserContext(), int64(id))
	if err != nil {
		return err
	}
	s := auth.Current(c)
	return views.Render(c, "estates/show", estate.Title, "estates", fiber.Map{
		"Estate":     estate,
		"CanManage":  session.CanManageEstates(s.Role),
		"CanRequest": session.CanRequestRental(s.Role) && estate.IsAvailable,
	})
}

func (h *Handler) NewPage(c *fiber.Ctx) error {
	return h.renderForm(c, EstateForm{IsAvailable: "on"}, views.FormState{}, 0)
}

func (h *Handler) EditPage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	estate, err := h.api.GetEstate(c.UserContext(), int64(id))
	if err != nil {
		return err
	}
	return h.renderForm(c, formFromEstate(estate), views.FormState{}, estate.ID)
}

func (h *Handler) renderForm(c *fiber.Ctx, form EstateForm, state views.FormState, id int64) error {
	title, action := "Nouveau bien", estatesPath
	if id != 0 {
		title, action = "Modifier le bien", estatePath(id)
	}
	return views.Render(c, "estates/form", title, "estates", fiber.Map{
		"Form":    form,
		"State":   state,
		"Editing": id != 0,
		"Action":  action,
	})
}
