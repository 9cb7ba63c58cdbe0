package requests

import (
	"github.com/gofiber/fiber/v2"

	"rentals-dashboard/app/views"
)

func (h *Handler) ListRequestsAPI(c *fiber.Ctx) error {
	reqs, err := h.svc.List(c.UserContext(), ParseStatus(c.Query("status")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "requests": reqs})
}

func (h *Handler) CreateRequestAPI(c *fiber.Ctx) error {
	var form RequestForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Requête invalide")
	}
	state, err := h.svc.Create(c.UserContext(), form)
	if err != nil {
		return err
	}
	return views.RespondForm(c, state, "Votre demande a été envoyée.", func(state views.FormState) error {
		return h.renderForm(c, form, state)
	})
}

func (h *Handler) ApproveAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	if err := h.svc.Approve(c.UserContext(), int64(id), c.FormValue("admin_notes")); err != nil {
		return err
	}
	return done(c, "Demande approuvée avec succès.")
}

func (h *Handler) RejectAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	if err := h.svc.Reject(c.UserContext(), int64(id)); err != nil {
		return err
	}
	return done(c, "Demande rejetée.")
}

func (h *Handler) DeleteAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	if err := h.svc.Delete(c.UserContext(), int64(id)); err != nil {
		return err
	}
	return done(c, "Demande supprimée.")
}

// done leaves the detail view after a successful action.
func done(c *fiber.Ctx, message string) error {
	if views.WantsJSON(c) {
		return c.JSON(fiber.Map{"success": true, "message": message})
	}
	views.SetFlash(c, "success", message)
	return c.Redirect(requestsPath, fiber.StatusSeeOther)
}
