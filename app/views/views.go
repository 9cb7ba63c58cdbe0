// Package views owns the HTML templates and the data shared by every page.
package views

import (
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"rentals-dashboard/app/models"
)

//go:embed templates
var templates embed.FS

const templatesDir = "./app/views/templates"

// NewEngine builds the template engine. With reload set, templates are read from
// disk on every render so they can be edited without a rebuild.
func NewEngine(reload bool) *html.Engine {
	var engine *html.Engine
	if reload {
		engine = html.New(templatesDir, ".html")
		engine.Reload(true)
	} else {
		sub, err := fs.Sub(templates, "templates")
		if err != nil {
			panic(err)
		}
		engine = html.NewFileSystem(http.FS(sub), ".html")
	}
	engine.AddFuncMap(funcs)
	return engine
}

var funcs = map[string]any{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
	"money": Money,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02/01/2006")
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02/01/2006 15:04")
	},
	"day": func(d models.Date) string { return d.String() },
	"first": func(errs map[string][]string, field string) string {
		if msgs := errs[field]; len(msgs) > 0 {
			return msgs[0]
		}
		return ""
	},
	"add": func(a, b int) int { return a + b },
}

// Money formats an amount the French way: "950,50 €".
func Money(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1) + " €"
}

const flashCookie = "flash"

type Flash struct {
	Kind    string
	Message string
}

// SetFlash stores a one-shot toast shown on the next rendered page.
func SetFlash(c *fiber.Ctx, kind, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func popFlash(c *fiber.Ctx) *Flash {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return nil
	}
	c.Cookie(&fiber.Cookie{Name: flashCookie, Value: "", Path: "/", Expires: time.Now().Add(-time.Hour)})
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	kind, msg, ok := strings.Cut(decoded, "|")
	if !ok {
		return nil
	}
	return &Flash{Kind: kind, Message: msg}
}

// Render renders a dashboard page with the shared layout data.
func Render(c *fiber.Ctx, name, title, current string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title + " - Gestion Locative"
	data["CurrentPage"] = current
	data["Flash"] = popFlash(c)
	return c.Render(name, data)
}

// RenderBare renders a page without the dashboard layout (login, register).
func RenderBare(c *fiber.Ctx, name, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title + " - Gestion Locative"
	data["Flash"] = popFlash(c)
	return c.Render(name, data, "")
}

// WantsJSON reports whether the caller expects a JSON answer rather than a page.
func WantsJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/") || strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}
