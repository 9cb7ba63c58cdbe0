package messages

import (
	"mime/multipart"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/models"
	"rentals-dashboard/app/routes/auth"
	"rentals-dashboard/app/session"
	"rentals-dashboard/app/views"
)

type Handler struct {
	svc *Service
	api *backend.Client
	log *zap.Logger
}

func NewHandler(svc *Service, api *backend.Client, log *zap.Logger) *Handler {
	return &Handler{svc: svc, api: api, log: log}
}

func SetupMessagesRoutes(web, api fiber.Router, h *Handler) {
	send := auth.RequireCapability(session.SendMessages)
	remove := auth.RequireCapability(session.DeleteRecords)

	messages := web.Group("/messages")
	messages.Get("/", h.InboxPage)
	messages.Get("/new", send, h.ComposePage)
	messages.Post("/", send, h.SendMessageAPI)
	messages.Get("/:id", h.ShowPage)
	messages.Post("/:id/reply", send, h.ReplyAPI)
	messages.Post("/:id/delete", remove, h.DeleteMessageAPI)

	messagesAPI := api.Group("/messages")
	messagesAPI.Get("/", h.ListMessagesAPI)
	messagesAPI.Get("/unread-count", h.UnreadCountAPI)
	messagesAPI.Post("/", send, h.SendMessageAPI)
	messagesAPI.Post("/:id/replies", send, h.ReplyAPI)
	messagesAPI.Delete("/:id", remove, h.DeleteMessageAPI)
}

// UnreadCountMiddleware exposes the unread badge count to every dashboard page.
// A failing count never blocks the page.
func UnreadCountMiddleware(api *backend.Client, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet {
			n, err := api.UnreadCount(c.UserContext())
			if err != nil {
				log.Debug("unread count unavailable", zap.Error(err))
			}
			c.Locals("UnreadCount", n)
		}
		return c.Next()
	}
}

func queryFrom(c *fiber.Ctx) Query {
	return Query{
		Type:   models.MessageType(c.Query("type")),
		Search: c.Query("q"),
		Page:   c.QueryInt("page", 1),
	}
}

func (h *Handler) InboxPage(c *fiber.Ctx) error {
	q := queryFrom(c)
	page, err := h.svc.Inbox(c.UserContext(), q)
	if err != nil {
		return err
	}
	return views.Render(c, "messages/index", "Messagerie", "messages", fiber.Map{
		"Page":      page,
		"Query":     q,
		"Types":     models.MessageTypes,
		"CanSend":   session.Can(auth.Current(c).Role, session.SendMessages),
		"PrevQuery": pageQuery(q, page.Number-1),
		"NextQuery": pageQuery(q, page.Number+1),
	})
}

func pageQuery(q Query, n int) string {
	v := url.Values{"page": {strconv.Itoa(n)}}
	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	return "?" + v.Encode()
}

func (h *Handler) ShowPage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	msg, replies, err := h.svc.Open(c.UserContext(), int64(id))
	if err != nil {
		return err
	}
	return h.renderThread(c, msg, replies, MessageForm{Subject: ReplySubject(msg.Subject), Type: string(msg.Type)}, views.FormState{})
}

func (h *Handler) renderThread(c *fiber.Ctx, msg *models.Message, replies []models.Message, form MessageForm, state views.FormState) error {
	role := auth.Current(c).Role
	return views.Render(c, "messages/show", msg.Subject, "messages", fiber.Map{
		"Message":   msg,
		"Replies":   replies,
		"Form":      form,
		"State":     state,
		"CanReply":  session.Can(role, session.SendMessages),
		"CanDelete": session.CanDelete(role),
	})
}

func (h *Handler) ComposePage(c *fiber.Ctx) error {
	return h.renderCompose(c, MessageForm{RecipientID: c.Query("recipient_id"), Type: c.Query("type")}, views.FormState{})
}

func (h *Handler) renderCompose(c *fiber.Ctx, form MessageForm, state views.FormState) error {
	data := fiber.Map{
		"Form":  form,
		"State": state,
		"Types": models.MessageTypes,
	}
	// Only admins pick a recipient; other roles write to the agency.
	if session.CanManageUsers(auth.Current(c).Role) {
		users, err := h.api.ListUsers(c.UserContext())
		if err != nil {
			return err
		}
		data["Recipients"] = users
	}
	return views.Render(c, "messages/new", "Nouveau message", "messages", data)
}

// attachments reads the optional multipart attachments of a compose form.
func attachments(c *fiber.Ctx) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File["attachments"]
}
