package payments

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"rentals-dashboard/app/models"
	"rentals-dashboard/app/views"
)

func (h *Handler) ListPaymentsAPI(c *fiber.Ctx) error {
	payments, err := h.svc.List(c.UserContext(), models.PaymentStatus(c.Query("status")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "payments": payments, "summary": Summarize(payments)})
}

func (h *Handler) CalendarAPI(c *fiber.Ctx) error {
	m := h.month(c)
	payments, err := h.svc.Calendar(c.UserContext(), m)
	if err != nil {
		return err
	}
	days := make(map[string][]models.Payment)
	for day, bucket := range BucketByDay(payments, m) {
		days[strconv.Itoa(day)] = bucket
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"year":          m.Year,
		"month":         int(m.Month),
		"first_weekday": m.FirstWeekday,
		"days_in_month": m.DaysInMonth,
		"days":          days,
		"summary":       Summarize(payments),
	})
}

func (h *Handler) CreatePaymentAPI(c *fiber.Ctx) error {
	var form PaymentForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Requête invalide")
	}
	state, err := h.svc.Create(c.UserContext(), form)
	if err != nil {
		return err
	}
	return views.RespondForm(c, state, "Paiement créé avec succès.", func(state views.FormState) error {
		m := NewMonth(form.Year, time.Month(form.Month))
		if form.Month < 1 || form.Month > 12 {
			m = h.month(c)
		}
		payments, err := h.svc.Calendar(c.UserContext(), m)
		if err != nil {
			return err
		}
		return h.renderCalendar(c, m, payments, form, state)
	})
}

func (h *Handler) MarkPaidAPI(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.MarkPaid(c.UserContext(), id); err != nil {
		return err
	}
	return done(c, "Paiement marqué comme payé.")
}

func (h *Handler) MarkLateAPI(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.MarkLate(c.UserContext(), id); err != nil {
		return err
	}
	return done(c, "Paiement marqué en retard.")
}

func (h *Handler) DeletePaymentAPI(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return done(c, "Paiement supprimé.")
}

func done(c *fiber.Ctx, message string) error {
	if views.WantsJSON(c) {
		return c.JSON(fiber.Map{"success": true, "message": message})
	}
	views.SetFlash(c, "success", message)
	return c.Redirect(backTo(c), fiber.StatusSeeOther)
}
