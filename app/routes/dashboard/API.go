package dashboard

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/models"
	"rentals-dashboard/app/routes/auth"
	"rentals-dashboard/app/views"
)

// Stat is one figure of the dashboard. Value is nil when the backend could not provide it.
type Stat struct {
	Key   string `json:"key"`
	Value *int   `json:"value"`
}

type Handler struct {
	api *backend.Client
	log *zap.Logger
	now func() time.Time
}

func NewHandler(api *backend.Client, log *zap.Logger) *Handler {
	return &Handler{api: api, log: log, now: time.Now}
}

func SetupDashboardRoutes(web, api fiber.Router, h *Handler) {
	web.Get("/", h.GetDashboard)
	api.Get("/dashboard/stats", h.GetDashboardStatsAPI)
}

// GetDashboard handles dashboard page
func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	s := auth.Current(c)
	stats, err := h.collect(c.UserContext(), s.Role)
	if err != nil {
		return err
	}
	return views.Render(c, "dashboard/index", "Tableau de bord", "dashboard", fiber.Map{
		"Cards": Cards(stats),
	})
}

// GetDashboardStatsAPI returns dashboard statistics as JSON
func (h *Handler) GetDashboardStatsAPI(c *fiber.Ctx) error {
	s := auth.Current(c)
	stats, err := h.collect(c.UserContext(), s.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

type source struct {
	key   string
	count func(ctx context.Context) (int, error)
}

// sources lists what each role sees, in display order.
func (h *Handler) sources(role models.Role) []source {
	switch role {
	case models.RoleAdmin:
		return []source{
			{"users", h.countUsers},
			{"estates", h.countEstates(false)},
			{"pending_requests", h.countRequests(true)},
			{"monthly_payments", h.countMonthlyPayments},
		}
	case models.RoleTenant:
		return []source{
			{"my_payments", h.countPayments},
			{"unread_messages", h.api.UnreadCount},
		}
	case models.RoleProspect:
		return []source{
			{"my_requests", h.countRequests(false)},
			{"available_estates", h.countEstates(true)},
		}
	}
	return nil
}

// collect fetches the role's figures. A failing figure is left empty unless the
// session itself was rejected.
func (h *Handler) collect(ctx context.Context, role models.Role) ([]Stat, error) {
	var stats []Stat
	for _, src := range h.sources(role) {
		n, err := src.count(ctx)
		if err != nil {
			if backend.IsAuthFailure(err) {
				return nil, err
			}
			h.log.Warn("dashboard stat unavailable", zap.String("stat", src.key), zap.Error(err))
			stats = append(stats, Stat{Key: src.key})
			continue
		}
		stats = append(stats, Stat{Key: src.key, Value: &n})
	}
	return stats, nil
}

func (h *Handler) countUsers(ctx context.Context) (int, error) {
	users, err := h.api.ListUsers(ctx)
	return len(users), err
}

func (h *Handler) countEstates(onlyAvailable bool) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		estates, err := h.api.ListEstates(ctx)
		if err != nil {
			return 0, err
		}
		n := 0
		for _, e := range estates {
			if !onlyAvailable || e.IsAvailable {
				n++
			}
		}
		return n, nil
	}
}

func (h *Handler) countRequests(onlyPending bool) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		var status *models.RequestStatus
		if onlyPending {
			pending := models.RequestPending
			status = &pending
		}
		reqs, err := h.api.ListRentalRequests(ctx, status)
		return len(reqs), err
	}
}

func (h *Handler) countPayments(ctx context.Context) (int, error) {
	payments, err := h.api.ListPayments(ctx, "")
	return len(payments), err
}

func (h *Handler) countMonthlyPayments(ctx context.Context) (int, error) {
	now := h.now()
	payments, err := h.api.PaymentCalendar(ctx, now.Year(), now.Month())
	return len(payments), err
}

var cardStyles = map[string]views.StatCard{
	"users":             {Title: "Utilisateurs", Icon: "users", Color: "blue", Href: "/dashboard/users"},
	"estates":           {Title: "Biens", Icon: "home", Color: "green", Href: "/dashboard/estates"},
	"pending_requests":  {Title: "Demandes en attente", Icon: "inbox", Color: "yellow", Href: "/dashboard/requests?status=0"},
	"monthly_payments":  {Title: "Paiements du mois", Icon: "calendar", Color: "purple", Href: "/dashboard/payments"},
	"my_payments":       {Title: "Mes paiements", Icon: "credit-card", Color: "purple", Href: "/dashboard/payments/list"},
	"unread_messages":   {Title: "Messages non lus", Icon: "mail", Color: "red", Href: "/dashboard/messages"},
	"my_requests":       {Title: "Mes demandes", Icon: "file-text", Color: "yellow", Href: "/dashboard/requests"},
	"available_estates": {Title: "Biens disponibles", Icon: "home", Color: "green", Href: "/dashboard/estates?available=true"},
}

// Cards turns stats into the shared stat card data.
func Cards(stats []Stat) []views.StatCard {
	cards := make([]views.StatCard, 0, len(stats))
	for _, st := range stats {
		card, ok := cardStyles[st.Key]
		if !ok {
			card = views.StatCard{Title: st.Key, Icon: "bar-chart", Color: "gray"}
		}
		card.Value = "-"
		if st.Value != nil {
			card.Value = strconv.Itoa(*st.Value)
		}
		cards = append(cards, card)
	}
	return cards
}
