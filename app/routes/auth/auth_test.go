package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/models"
	"rentals-dashboard/app/session"
)

var tenant = models.User{ID: 42, Nom: "Martin", Prenom: "Léa", Email: "lea@example.fr", Role: models.RoleTenant}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	raw, err := tokens.Issue(tenant, "backend-token")
	require.NoError(t, err)

	s, err := tokens.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), s.UserID)
	assert.Equal(t, models.RoleTenant, s.Role)
	assert.Equal(t, "backend-token", s.Token)
	assert.Equal(t, "Léa Martin", s.FullName())
	assert.NotEmpty(t, s.ID)
}

func TestTokensRejects(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		raw, err := NewTokens("other", time.Hour).Issue(tenant, "x")
		require.NoError(t, err)
		_, err = tokens.Validate(raw)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		raw, err := tokens.Issue(tenant, "x")
		require.NoError(t, err)
		later := NewTokens("secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.Validate(raw)
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		u := tenant
		u.Role = "owner"
		raw, err := tokens.Issue(u, "x")
		require.NoError(t, err)
		_, err = tokens.Validate(raw)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Validate("not.a.jwt")
		assert.Error(t, err)
	})
}

func buildTestApp(t *testing.T, backendURL string) (*fiber.App, *Tokens) {
	t.Helper()
	tokens := NewTokens("testsecret", time.Hour)
	h := NewHandler(backend.New(backendURL), tokens, zap.NewNop())

	app := fiber.New()
	app.Post("/auth/login", h.LoginAPI)

	whoami := func(c *fiber.Ctx) error {
		s := session.FromContext(c.UserContext())
		return c.JSON(fiber.Map{"user_id": s.UserID, "role": s.Role})
	}
	app.Get("/dashboard", h.AuthMiddleware, whoami)
	app.Get("/api/me", h.AuthMiddleware, whoami)
	app.Get("/api/admin", h.AuthMiddleware, RequireCapability(session.ManageUsers), whoami)
	return app, tokens
}

func TestAuthMiddleware(t *testing.T) {
	app, tokens := buildTestApp(t, "http://127.0.0.1:1")

	t.Run("page without cookie redirects to login", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
	})

	t.Run("api without token is 401", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/me", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("cookie session reaches the handler", func(t *testing.T) {
		raw, err := tokens.Issue(tenant, "bt")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: cookieName, Value: raw})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bearer header works for api", func(t *testing.T) {
		raw, err := tokens.Issue(tenant, "bt")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+raw)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("capability check", func(t *testing.T) {
		raw, err := tokens.Issue(tenant, "bt")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		admin := tenant
		admin.Role = models.RoleAdmin
		raw, err = tokens.Issue(admin, "bt")
		require.NoError(t, err)
		req = httptest.NewRequest(http.MethodGet, "/api/admin", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		resp, err = app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestLoginAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), `"password":"bad"`) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("non authentifié"))
			return
		}
		w.Write([]byte(`{"token":"backend-token","user":{"id":42,"nom":"Martin","prenom":"Léa","role":"locataire"}}`))
	}))
	defer srv.Close()

	app, tokens := buildTestApp(t, srv.URL)

	login := func(password string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"lea@example.fr","password":"`+password+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := login("good")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == cookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	s, err := tokens.Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "backend-token", s.Token)

	resp = login("bad")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
