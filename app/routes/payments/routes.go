package payments

import (
	"strconv"
	"strings"
	"time"

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
	now func() time.Time
}

func NewHandler(svc *Service, api *backend.Client) *Handler {
	return &Handler{svc: svc, api: api, now: time.Now}
}

func SetupPaymentsRoutes(web, api fiber.Router, h *Handler) {
	view := auth.RequireCapability(session.ViewPayments)
	manage := auth.RequireCapability(session.ManagePayments)

	payments := web.Group("/payments", view)
	payments.Get("/", h.CalendarPage)
	payments.Get("/list", h.ListPage)
	payments.Post("/", manage, h.CreatePaymentAPI)
	payments.Post("/:id/paid", manage, h.MarkPaidAPI)
	payments.Post("/:id/late", manage, h.MarkLateAPI)
	payments.Post("/:id/delete", manage, h.DeletePaymentAPI)

	paymentsAPI := api.Group("/payments", view)
	paymentsAPI.Get("/", h.ListPaymentsAPI)
	paymentsAPI.Get("/calendar", h.CalendarAPI)
	paymentsAPI.Post("/", manage, h.CreatePaymentAPI)
	paymentsAPI.Post("/:id/mark-paid", manage, h.MarkPaidAPI)
	paymentsAPI.Post("/:id/mark-late", manage, h.MarkLateAPI)
	paymentsAPI.Delete("/:id", manage, h.DeletePaymentAPI)
}

// month reads ?year=&month=, defaulting to the current month.
func (h *Handler) month(c *fiber.Ctx) Month {
	now := h.now()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	return NewMonth(year, time.Month(month))
}

func (h *Handler) CalendarPage(c *fiber.Ctx) error {
	m := h.month(c)
	payments, err := h.svc.Calendar(c.UserContext(), m)
	if err != nil {
		return err
	}
	return h.renderCalendar(c, m, payments, PaymentForm{}, views.FormState{})
}

func (h *Handler) renderCalendar(c *fiber.Ctx, m Month, payments []models.Payment, form PaymentForm, state views.FormState) error {
	canManage := session.CanManagePayments(auth.Current(c).Role)
	data := fiber.Map{
		"Month":     m,
		"PrevURL":   CalendarURL(m.Prev()),
		"NextURL":   CalendarURL(m.Next()),
		"Weekdays":  WeekdayLabels,
		"Grid":      Grid(m, BucketByDay(payments, m), h.now()),
		"Summary":   Summarize(payments),
		"CanManage": canManage,
		"State":     state,
	}

	// ?day= pins the creation form to a day of the displayed month.
	day := form.Day
	if day == 0 {
		day = c.QueryInt("day")
	}
	if canManage && day >= 1 && day <= m.DaysInMonth {
		if form.Day == 0 {
			form = PaymentForm{Day: day, Month: int(m.Month), Year: m.Year, Status: string(models.PaymentPending)}
		}
		estates, err := h.api.ListEstates(c.UserContext())
		if err != nil {
			return err
		}
		data["Form"] = form
		data["Estates"] = estates
		data["DueDate"] = models.NewDate(form.Year, time.Month(form.Month), form.Day)
	}
	return views.Render(c, "payments/calendar", "Calendrier des paiements", "payments", data)
}

func (h *Handler) ListPage(c *fiber.Ctx) error {
	status := models.PaymentStatus(c.Query("status"))
	payments, err := h.svc.List(c.UserContext(), status)
	if err != nil {
		return err
	}
	return views.Render(c, "payments/index", "Paiements", "payments", fiber.Map{
		"Payments":  payments,
		"Summary":   Summarize(payments),
		"Status":    string(status),
		"Statuses":  []models.PaymentStatus{models.PaymentPending, models.PaymentPaid, models.PaymentLate},
		"CanManage": session.CanManagePayments(auth.Current(c).Role),
	})
}

// backTo returns the page a status action was posted from, limited to payment pages.
func backTo(c *fiber.Ctx) string {
	if back := c.FormValue("back"); strings.HasPrefix(back, paymentsPath) && !strings.Contains(back, "//") {
		return back
	}
	return paymentsPath
}

func idParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return id, nil
}
