package requests

import (
	"github.com/gofiber/fiber/v2"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/models"
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

func SetupRequestsRoutes(web, api fiber.Router, h *Handler) {
	request := auth.RequireCapability(session.RequestRental)
	approve := auth.RequireCapability(session.ApproveRequests)
	reject := auth.RequireCapability(session.RejectRequests)
	remove := auth.RequireCapability(session.DeleteRecords)

	requests := web.Group("/requests")
	requests.Get("/", h.ListPage)
	requests.Get("/new", request, h.NewPage)
	requests.Post("/", request, h.CreateRequestAPI)
	requests.Get("/:id", h.ShowPage)
	requests.Post("/:id/approve", approve, h.ApproveAPI)
	requests.Post("/:id/reject", reject, h.RejectAPI)
	requests.Post("/:id/delete", remove, h.DeleteAPI)

	requestsAPI := api.Group("/rental-requests")
	requestsAPI.Get("/", h.ListRequestsAPI)
	requestsAPI.Post("/", request, h.CreateRequestAPI)
	requestsAPI.Post("/:id/approve", approve, h.ApproveAPI)
	requestsAPI.Post("/:id/reject", reject, h.RejectAPI)
	requestsAPI.Delete("/:id", remove, h.DeleteAPI)
}

func (h *Handler) ListPage(c *fiber.Ctx) error {
	status := ParseStatus(c.Query("status"))
	reqs, err := h.svc.List(c.UserContext(), status)
	if err != nil {
		return err
	}
	s := auth.Current(c)
	return views.Render(c, "requests/index", "Demandes de location", "requests", fiber.Map{
		"Rows":       Rows(reqs, session.CanApprove(s.Role)),
		"Counts":     Counts(reqs),
		"Status":     c.Query("status"),
		"CanRequest": session.CanRequestRental(s.Role),
	})
}

func (h *Handler) ShowPage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	req, err := h.api.GetRentalRequest(c.UserContext(), int64(id))
	if err != nil {
		return err
	}
	s := auth.Current(c)
	return views.Render(c, "requests/show", "Demande de location", "requests", fiber.Map{
		"Request":    req,
		"Config":     ConfigFor(req.Status),
		"CanApprove": session.CanApprove(s.Role) && !IsFinal(req.Status),
		"CanReject":  session.CanReject(s.Role) && !IsFinal(req.Status),
		"CanDelete":  session.CanDelete(s.Role),
	})
}

func (h *Handler) NewPage(c *fiber.Ctx) error {
	form := RequestForm{EstateID: int64(c.QueryInt("estate_id"))}
	return h.renderForm(c, form, views.FormState{})
}

func (h *Handler) renderForm(c *fiber.Ctx, form RequestForm, state views.FormState) error {
	var estate *models.Estate
	if form.EstateID > 0 {
		e, err := h.api.GetEstate(c.UserContext(), form.EstateID)
		if err != nil && backend.IsAuthFailure(err) {
			return err
		}
		estate = e
	}
	return views.Render(c, "requests/new", "Nouvelle demande", "requests", fiber.Map{
		"Form":   form,
		"State":  state,
		"Estate": estate,
	})
}
