package messages

import (
	"github.com/gofiber/fiber/v2"

	"rentals-dashboard/app/views"
)

func (h *Handler) ListMessagesAPI(c *fiber.Ctx) error {
	page, err := h.svc.Inbox(c.UserContext(), queryFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"messages": page.Messages,
		"page":     page.Number,
		"pages":    page.Pages,
		"total":    page.Total,
	})
}

func (h *Handler) UnreadCountAPI(c *fiber.Ctx) error {
	n, err := h.api.UnreadCount(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "count": n})
}

func (h *Handler) SendMessageAPI(c *fiber.Ctx) error {
	var form MessageForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Requête invalide")
	}
	state, err := h.svc.Send(c.UserContext(), form, attachments(c), nil)
	if err != nil {
		return err
	}
	return views.RespondForm(c, state, "Message envoyé.", func(state views.FormState) error {
		return h.renderCompose(c, form, state)
	})
}

func (h *Handler) ReplyAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	parent := int64(id)

	var form MessageForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Requête invalide")
	}
	state, err := h.svc.Send(c.UserContext(), form, attachments(c), &parent)
	if err != nil {
		return err
	}
	return views.RespondForm(c, state, "Réponse envoyée.", func(state views.FormState) error {
		msg, replies, err := h.svc.Open(c.UserContext(), parent)
		if err != nil {
			return err
		}
		return h.renderThread(c, msg, replies, form, state)
	})
}

func (h *Handler) DeleteMessageAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	if err := h.svc.Delete(c.UserContext(), int64(id)); err != nil {
		return err
	}
	if views.WantsJSON(c) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	views.SetFlash(c, "success", "Message supprimé.")
	return c.Redirect(messagesPath, fiber.StatusSeeOther)
}
