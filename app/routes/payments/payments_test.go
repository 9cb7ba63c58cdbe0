package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/models"
	"rentals-dashboard/app/session"
)

func payment(id int64, year int, month time.Month, day int, status models.PaymentStatus, rent string) models.Payment {
	return models.Payment{
		ID:          id,
		TenantName:  "Locataire",
		MonthlyRent: decimal.RequireFromString(rent),
		DueDate:     models.NewDate(year, month, day),
		Status:      status,
	}
}

func TestNewMonth(t *testing.T) {
	tests := []struct {
		year      int
		month     time.Month
		wantYear  int
		wantMonth time.Month
		weekday   int
		days      int
	}{
		{2024, time.February, 2024, time.February, 4, 29},
		{2023, time.February, 2023, time.February, 3, 28},
		{2024, time.September, 2024, time.September, 0, 30},
		{2024, 13, 2025, time.January, 3, 31},
		{2024, 0, 2023, time.December, 5, 31},
	}
	for _, tt := range tests {
		m := NewMonth(tt.year, tt.month)
		assert.Equal(t, tt.wantYear, m.Year)
		assert.Equal(t, tt.wantMonth, m.Month)
		assert.Equal(t, tt.weekday, m.FirstWeekday, "%d-%d", tt.year, tt.month)
		assert.Equal(t, tt.days, m.DaysInMonth, "%d-%d", tt.year, tt.month)
	}
}

func TestMonthNavigation(t *testing.T) {
	jan := NewMonth(2024, time.January)
	assert.Equal(t, NewMonth(2023, time.December), jan.Prev())
	assert.Equal(t, NewMonth(2024, time.February), jan.Next())
	assert.Equal(t, NewMonth(2025, time.January), NewMonth(2024, time.December).Next())
	assert.Equal(t, "Janvier", jan.Name())
}

func TestSlots(t *testing.T) {
	m := NewMonth(2024, time.February)
	slots := m.Slots()
	require.Len(t, slots, 4+29)
	for _, s := range slots[:4] {
		assert.Nil(t, s)
	}
	require.NotNil(t, slots[4])
	assert.Equal(t, 1, *slots[4])
	assert.Equal(t, 29, *slots[len(slots)-1])

	weeks := m.Weeks()
	require.Len(t, weeks, 5)
	for _, w := range weeks {
		assert.Len(t, w, 7)
	}
	assert.Nil(t, weeks[4][6])
}

func TestBucketByDay(t *testing.T) {
	m := NewMonth(2024, time.March)
	payments := []models.Payment{
		payment(1, 2024, time.March, 5, models.PaymentPaid, "700"),
		payment(2, 2024, time.March, 5, models.PaymentPending, "650"),
		payment(3, 2024, time.March, 31, models.PaymentLate, "800"),
		payment(4, 2024, time.February, 5, models.PaymentPending, "500"),
		payment(5, 2023, time.March, 5, models.PaymentPending, "500"),
	}

	buckets := BucketByDay(payments, m)
	require.Len(t, buckets, 2)
	require.Len(t, buckets[5], 2)
	assert.Equal(t, int64(1), buckets[5][0].ID)
	assert.Equal(t, int64(2), buckets[5][1].ID)
	assert.Equal(t, int64(3), buckets[31][0].ID)

	// every in-month payment lands in exactly one bucket
	n := 0
	for day, bucket := range buckets {
		for _, p := range bucket {
			assert.Equal(t, day, p.DueDate.Day())
			n++
		}
	}
	assert.Equal(t, 3, n)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]models.Payment{
		payment(1, 2024, time.March, 1, models.PaymentPaid, "700.50"),
		payment(2, 2024, time.March, 2, models.PaymentPending, "650"),
		payment(3, 2024, time.March, 3, models.PaymentLate, "800"),
		payment(4, 2024, time.March, 4, "refunded", "100"),
	})
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Paid)
	assert.Equal(t, 2, s.Pending)
	assert.Equal(t, 1, s.Late)
	assert.Equal(t, s.Total, s.Paid+s.Pending+s.Late)
	assert.True(t, decimal.RequireFromString("2250.50").Equal(s.TotalRent))

	empty := Summarize(nil)
	assert.Zero(t, empty.Total)
	assert.True(t, empty.TotalRent.IsZero())
	assert.Equal(t, "0,00 €", empty.Cards()[4].Value)
}

func TestGridMarksToday(t *testing.T) {
	m := NewMonth(2024, time.March)
	buckets := BucketByDay([]models.Payment{payment(1, 2024, time.March, 15, models.PaymentPaid, "1")}, m)
	grid := Grid(m, buckets, time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC))

	var today []Cell
	for _, week := range grid {
		for _, cell := range week {
			if cell.Today {
				today = append(today, cell)
			}
		}
	}
	require.Len(t, today, 1)
	assert.Equal(t, 15, today[0].Day)
	assert.Len(t, today[0].Payments, 1)
	assert.Zero(t, grid[0][0].Day)
}

func TestPaymentFormParse(t *testing.T) {
	form := PaymentForm{EstateID: 2, TenantName: "Léa Martin", MonthlyRent: "950,50", Day: 29, Month: 2, Year: 2024}
	input, errs := form.parse()
	require.False(t, errs.Any(), errs)
	assert.Equal(t, "2024-02-29", input.DueDate.String())
	assert.Equal(t, models.PaymentPending, input.Status)
	assert.Equal(t, "950.5", input.MonthlyRent.String())

	form.Year = 2023
	_, errs = form.parse()
	assert.Equal(t, "Doit être compris entre 1 et 28.", errs.First("day"))

	_, errs = PaymentForm{MonthlyRent: "-3", Month: 13, Year: 2024, Status: "cancelled"}.parse()
	assert.NotEmpty(t, errs["estate_id"])
	assert.NotEmpty(t, errs["tenant_name"])
	assert.NotEmpty(t, errs["month"])
	assert.NotEmpty(t, errs["status"])
	assert.Equal(t, "Doit être supérieur à 0.", errs.First("monthly_rent"))
	assert.Empty(t, errs["day"])
}

func newTestApp(t *testing.T, role models.Role, h http.HandlerFunc) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	api := backend.New(srv.URL)
	handler := NewHandler(NewService(api, zap.NewNop()), api)
	handler.now = func() time.Time { return time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC) }
	app := fiber.New()
	as := func(c *fiber.Ctx) error {
		c.SetUserContext(session.WithContext(c.UserContext(), &session.Session{UserID: 1, Role: role, Token: "t"}))
		return c.Next()
	}
	SetupPaymentsRoutes(app.Group("/dashboard", as), app.Group("/api", as), handler)
	return app
}

func TestCalendarAPI(t *testing.T) {
	app := newTestApp(t, models.RoleTenant, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		assert.Equal(t, "3", r.URL.Query().Get("month"))
		w.Write([]byte(`[
			{"id":1,"monthly_rent":"700","due_date":"2024-03-05","status":"paid"},
			{"id":2,"monthly_rent":"650","due_date":"2024-03-05T00:00:00Z","status":"late"},
			{"id":3,"monthly_rent":"900","due_date":"2024-04-01","status":"pending"}
		]`))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/payments/calendar", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		DaysInMonth int                         `json:"days_in_month"`
		Days        map[string][]models.Payment `json:"days"`
		Summary     Summary                     `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 31, body.DaysInMonth)
	assert.Len(t, body.Days["5"], 2)
	assert.Len(t, body.Days, 1)
	assert.Equal(t, 2, body.Summary.Total)
	assert.Equal(t, 1, body.Summary.Late)
	assert.Zero(t, body.Summary.Pending)
	assert.Equal(t, "1350", body.Summary.TotalRent.String())
}

func TestCreateRejectsInvalidFormWithoutBackendCall(t *testing.T) {
	calls := 0
	app := newTestApp(t, models.RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"id":1}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(`{"estate_id":2,"tenant_name":"L","monthly_rent":"900","day":31,"month":4,"year":2024}`))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Zero(t, calls)

	var state struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Contains(t, state.Errors, "tenant_name")
	assert.Contains(t, state.Errors, "day")
}

func TestCreateRedirectsToMonth(t *testing.T) {
	var got backend.PaymentInput
	app := newTestApp(t, models.RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":9}`))
	})

	form := url.Values{
		"estate_id":    {"2"},
		"tenant_name":  {"Léa Martin"},
		"monthly_rent": {"900"},
		"day":          {"30"},
		"month":        {"4"},
		"year":         {"2024"},
		"status":       {"pending"},
	}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/payments", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/payments?year=2024&month=4", resp.Header.Get("Location"))
	assert.Equal(t, "2024-04-30", got.DueDate.String())
}

func TestMarkActions(t *testing.T) {
	var paths []string
	app := newTestApp(t, models.RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	post := func(path, back string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(url.Values{"back": {back}}.Encode()))
		req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := post("/dashboard/payments/7/paid", "/dashboard/payments/list")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/payments/list", resp.Header.Get("Location"))

	resp = post("/dashboard/payments/7/late", "https://evil.example/")
	assert.Equal(t, "/dashboard/payments", resp.Header.Get("Location"))

	assert.Equal(t, []string{"/api/payments/7/mark-paid", "/api/payments/7/mark-late"}, paths)
}

func TestPaymentsCapabilities(t *testing.T) {
	app := newTestApp(t, models.RoleProspect, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("backend must not be called")
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/payments", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	tenant := newTestApp(t, models.RoleTenant, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("backend must not be called")
	})
	resp, err = tenant.Test(httptest.NewRequest(http.MethodPost, "/api/payments/3/mark-paid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServiceListIgnoresUnknownStatus(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	svc := NewService(backend.New(srv.URL), zap.NewNop())

	_, err := svc.List(context.Background(), "bogus")
	require.NoError(t, err)
	assert.Empty(t, query)

	_, err = svc.List(context.Background(), models.PaymentLate)
	require.NoError(t, err)
	assert.Equal(t, "status=late", query)
}
