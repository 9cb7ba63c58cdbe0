package messages

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
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

var base = time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

func msg(id int64, hoursAfter int, typ models.MessageType, subject string) models.Message {
	return models.Message{
		ID:        id,
		Subject:   subject,
		Content:   "Contenu du message " + subject,
		Type:      typ,
		CreatedAt: base.Add(time.Duration(hoursAfter) * time.Hour),
	}
}

func reply(id, parent int64, hoursAfter int) models.Message {
	m := msg(id, hoursAfter, models.MessageGeneral, "Re")
	m.ParentID = &parent
	return m
}

func TestInboxOrdersAndFilters(t *testing.T) {
	all := []models.Message{
		msg(1, 1, models.MessageGeneral, "Bienvenue"),
		msg(2, 5, models.MessageIncident, "Fuite d'eau"),
		reply(3, 2, 6),
		msg(4, 3, models.MessagePaymentReminder, "Loyer de mai"),
	}

	page := Inbox(all, Query{})
	require.Len(t, page.Messages, 3)
	assert.Equal(t, []int64{2, 4, 1}, ids(page.Messages))

	page = Inbox(all, Query{Type: models.MessageIncident})
	assert.Equal(t, []int64{2}, ids(page.Messages))

	page = Inbox(all, Query{Search: "LOYER"})
	assert.Equal(t, []int64{4}, ids(page.Messages))

	page = Inbox(all, Query{Search: "contenu du message bienvenue"})
	assert.Equal(t, []int64{1}, ids(page.Messages))

	page = Inbox(all, Query{Search: "inconnu"})
	assert.Empty(t, page.Messages)
	assert.Equal(t, 1, page.Pages)
}

func TestInboxPagination(t *testing.T) {
	var all []models.Message
	for i := 1; i <= 23; i++ {
		all = append(all, msg(int64(i), i, models.MessageGeneral, fmt.Sprintf("Sujet %d", i)))
	}

	first := Inbox(all, Query{Page: 1})
	assert.Equal(t, 3, first.Pages)
	assert.Equal(t, 23, first.Total)
	require.Len(t, first.Messages, PageSize)
	assert.Equal(t, int64(23), first.Messages[0].ID)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())

	last := Inbox(all, Query{Page: 3})
	require.Len(t, last.Messages, 3)
	assert.Equal(t, int64(1), last.Messages[2].ID)
	assert.False(t, last.HasNext())

	assert.Equal(t, 3, Inbox(all, Query{Page: 99}).Number)
	assert.Equal(t, 1, Inbox(all, Query{Page: -2}).Number)
}

func TestRepliesTo(t *testing.T) {
	all := []models.Message{
		reply(5, 1, 9),
		reply(6, 2, 4),
		reply(7, 1, 2),
		msg(1, 0, models.MessageGeneral, "Racine"),
	}
	assert.Equal(t, []int64{7, 5}, ids(RepliesTo(all, 1)))
	assert.Empty(t, RepliesTo(all, 3))
}

func TestReplySubject(t *testing.T) {
	assert.Equal(t, "Re: Fuite", ReplySubject("Fuite"))
	assert.Equal(t, "Re: Fuite", ReplySubject("Re: Fuite"))
	assert.Len(t, []rune(ReplySubject(strings.Repeat("é", 50))), 50)
}

func ids(msgs []models.Message) []int64 {
	out := make([]int64, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestSendValidationBoundaries(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"id":31}`))
	}))
	defer srv.Close()
	svc := NewService(backend.New(srv.URL), zap.NewNop())
	ctx := context.Background()
	valid := MessageForm{Subject: "Fuite", Content: "La cuisine fuit.", Type: "incident"}

	tests := []struct {
		name  string
		form  func(f *MessageForm)
		files []*multipart.FileHeader
		field string
	}{
		{"subject too short", func(f *MessageForm) { f.Subject = "Abcd" }, nil, "subject"},
		{"subject too long", func(f *MessageForm) { f.Subject = strings.Repeat("a", 51) }, nil, "subject"},
		{"content too short", func(f *MessageForm) { f.Content = strings.Repeat("a", 9) }, nil, "content"},
		{"content too long", func(f *MessageForm) { f.Content = strings.Repeat("a", 1001) }, nil, "content"},
		{"unknown type", func(f *MessageForm) { f.Type = "spam" }, nil, "type"},
		{"bad recipient", func(f *MessageForm) { f.RecipientID = "abc" }, nil, "recipient_id"},
		{"file over 10MB", nil, []*multipart.FileHeader{fileHeader("bail.pdf", "application/pdf", 10<<20+1)}, "attachments"},
		{"disallowed type", nil, []*multipart.FileHeader{fileHeader("script.exe", "application/octet-stream", 10)}, "attachments"},
		{"mime mismatch", nil, []*multipart.FileHeader{fileHeader("photo.png", "application/pdf", 10)}, "attachments"},
	}
	twentyOne := make([]*multipart.FileHeader, 21)
	for i := range twentyOne {
		twentyOne[i] = fileHeader(fmt.Sprintf("p%d.jpg", i), "image/jpeg", 100)
	}
	tests = append(tests, struct {
		name  string
		form  func(f *MessageForm)
		files []*multipart.FileHeader
		field string
	}{"21 attachments", nil, twentyOne, "attachments"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			if tt.form != nil {
				tt.form(&form)
			}
			state, err := svc.Send(ctx, form, tt.files, nil)
			require.NoError(t, err)
			assert.Equal(t, msgValidation, state.Message)
			assert.NotEmpty(t, state.Errors[tt.field])
			assert.False(t, state.OK())
		})
	}
	assert.Zero(t, calls)

	t.Run("limits are inclusive", func(t *testing.T) {
		form := MessageForm{Subject: strings.Repeat("a", 50), Content: strings.Repeat("b", 1000)}
		_, errs := form.parse([]*multipart.FileHeader{fileHeader("bail.pdf", "application/pdf", 10<<20)})
		assert.False(t, errs.Any(), errs)

		form = MessageForm{Subject: "abcde", Content: strings.Repeat("b", 10)}
		in, errs := form.parse(nil)
		assert.False(t, errs.Any(), errs)
		assert.Equal(t, models.MessageGeneral, in.Type)
	})

	t.Run("valid message is sent", func(t *testing.T) {
		state, err := svc.Send(ctx, valid, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "/dashboard/messages/31", state.Redirect)
		assert.Equal(t, 1, calls)
	})
}

func TestOpenMarksReadOnce(t *testing.T) {
	for _, isRead := range []bool{false, true} {
		t.Run(fmt.Sprintf("is_read=%v", isRead), func(t *testing.T) {
			var marked int
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/api/messages/2":
					fmt.Fprintf(w, `{"id":2,"subject":"Fuite d'eau","is_read":%v}`, isRead)
				case "/api/messages/2/read":
					marked++
					w.WriteHeader(http.StatusNoContent)
				case "/api/messages/2/replies":
					w.Write([]byte(`[{"id":3,"parent_id":2},{"id":4,"parent_id":9}]`))
				}
			}))
			defer srv.Close()
			svc := NewService(backend.New(srv.URL), zap.NewNop())

			m, replies, err := svc.Open(context.Background(), 2)
			require.NoError(t, err)
			assert.True(t, m.IsRead)
			assert.Equal(t, []int64{3}, ids(replies))
			if isRead {
				assert.Zero(t, marked)
			} else {
				assert.Equal(t, 1, marked)
			}
		})
	}
}

func newTestApp(t *testing.T, role models.Role, h http.HandlerFunc) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	api := backend.New(srv.URL)
	handler := NewHandler(NewService(api, zap.NewNop()), api, zap.NewNop())
	app := fiber.New()
	as := func(c *fiber.Ctx) error {
		c.SetUserContext(session.WithContext(c.UserContext(), &session.Session{UserID: 1, Role: role, Token: "t"}))
		return c.Next()
	}
	web := app.Group("/dashboard", as, UnreadCountMiddleware(api, zap.NewNop()))
	web.Get("/unread", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"count": c.Locals("UnreadCount")})
	})
	SetupMessagesRoutes(web, app.Group("/api", as), handler)
	return app
}

func TestUnreadCountMiddleware(t *testing.T) {
	app := newTestApp(t, models.RoleTenant, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/messages/unread-count", r.URL.Path)
		w.Write([]byte(`{"count":4}`))
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard/unread", nil))
	require.NoError(t, err)
	body := new(bytes.Buffer)
	body.ReadFrom(resp.Body)
	assert.JSONEq(t, `{"count":4}`, body.String())

	broken := newTestApp(t, models.RoleTenant, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	resp, err = broken.Test(httptest.NewRequest(http.MethodGet, "/dashboard/unread", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReplyMultipartRedirectsToThread(t *testing.T) {
	var parentID, filename string
	app := newTestApp(t, models.RoleTenant, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/messages" {
			w.Write([]byte(`{"count":0}`))
			return
		}
		require.NoError(t, r.ParseMultipartForm(1<<20))
		parentID = r.FormValue("parent_id")
		if files := r.MultipartForm.File["attachments"]; len(files) == 1 {
			filename = files[0].Filename
		}
		w.Write([]byte(`{"id":12,"parent_id":2}`))
	})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("subject", "Re: Fuite d'eau")
	mw.WriteField("content", "Le plombier passe demain matin.")
	mw.WriteField("type", "incident")
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="attachments"; filename="devis.pdf"`)
	hdr.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	part.Write([]byte("%PDF-1.4"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/dashboard/messages/2/reply", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/messages/2", resp.Header.Get("Location"))
	assert.Equal(t, "2", parentID)
	assert.Equal(t, "devis.pdf", filename)
}

func TestDeleteIsAdminOnly(t *testing.T) {
	app := newTestApp(t, models.RoleTenant, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":0}`))
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/messages/2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
