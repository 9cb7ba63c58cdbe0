package estates

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/cache"
	"rentals-dashboard/app/models"
	"rentals-dashboard/app/session"
)

func validForm() EstateForm {
	return EstateForm{
		Title:       "T3 lumineux",
		Address:     "12 rue des Lilas",
		City:        "Lyon",
		Price:       "950,50",
		Surface:     "68",
		Rooms:       "3",
		IsAvailable: "on",
	}
}

func TestParse(t *testing.T) {
	input, errs := validForm().parse()
	require.False(t, errs.Any(), errs)
	assert.Equal(t, "950.5", input.Price.String())
	assert.Equal(t, 68, input.Surface)
	assert.True(t, input.IsAvailable)

	f := validForm()
	f.Title = "T3"
	f.Price = "0"
	f.Rooms = "trois"
	f.City = ""
	_, errs = f.parse()
	assert.Equal(t, "Doit contenir au moins 3 caractères.", errs.First("title"))
	assert.Equal(t, "Doit être supérieur à 0.", errs.First("price"))
	assert.Equal(t, []string{"Doit être un nombre entier."}, []string(errs["rooms"]))
	assert.NotEmpty(t, errs["city"])
}

func TestFilter(t *testing.T) {
	all := []models.Estate{
		{ID: 1, Title: "Studio centre", City: "Paris", IsAvailable: true},
		{ID: 2, Title: "Maison jardin", City: "Nantes", IsAvailable: false},
		{ID: 3, Title: "T2 Croix-Rousse", City: "Lyon", IsAvailable: true},
	}
	assert.Len(t, Filter(all, "", false), 3)
	assert.Len(t, Filter(all, "", true), 2)
	assert.Equal(t, int64(2), Filter(all, "nantes", false)[0].ID)
	assert.Empty(t, Filter(all, "nantes", true))
	assert.Equal(t, int64(3), Filter(all, "croix", true)[0].ID)
}

func TestCreateRevalidatesList(t *testing.T) {
	listCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listCalls++
			w.Write([]byte(`[]`))
		case http.MethodPost:
			w.Write([]byte(`{"id":17}`))
		}
	}))
	defer srv.Close()

	svc := NewService(backend.New(srv.URL), cache.NewMemory(time.Hour), zap.NewNop())
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, listCalls)

	state, err := svc.Create(ctx, validForm())
	require.NoError(t, err)
	assert.Equal(t, "/dashboard/estates/17", state.Redirect)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, listCalls)
}

func TestUploadRejectsWrongTypeWithoutBackendCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"urls":["http://files/a.png"]}`))
	}))
	defer srv.Close()

	api := backend.New(srv.URL)
	h := NewHandler(NewService(api, cache.NewMemory(time.Hour), zap.NewNop()), api)
	app := fiber.New()
	admin := func(c *fiber.Ctx) error {
		c.SetUserContext(session.WithContext(c.UserContext(), &session.Session{Role: models.RoleAdmin}))
		return c.Next()
	}
	SetupEstatesRoutes(app.Group("/dashboard", admin), app.Group("/api", admin), h)

	upload := func(name, contentType string) *http.Response {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		part.Write([]byte("data"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/dashboard/estates/5/images", &body)
		req.Header.Set("Content-Type", w.FormDataContentType())
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := upload("plan.pdf", "application/pdf")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Zero(t, calls)

	resp = upload("salon.png", "image/png")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/estates/5", resp.Header.Get("Location"))
	assert.Equal(t, 1, calls)
}

func TestListCacheIsPerSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[{"id":1,"title":"Studio centre","city":"Paris"}]`))
	}))
	defer srv.Close()

	svc := NewService(backend.New(srv.URL), cache.NewMemory(time.Hour), zap.NewNop())
	valid := session.WithContext(context.Background(), &session.Session{ID: "a", Role: models.RoleAdmin, Token: "good"})
	revoked := session.WithContext(context.Background(), &session.Session{ID: "b", Role: models.RoleProspect, Token: "revoked"})

	list, err := svc.List(valid)
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = svc.List(revoked)
	require.Error(t, err)
	assert.True(t, backend.IsAuthFailure(err))
	assert.Empty(t, list)
}
