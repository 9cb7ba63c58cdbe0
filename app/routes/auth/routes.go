package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/session"
	"rentals-dashboard/app/views"
)

const cookieName = "jwt_token"

type Handler struct {
	api    *backend.Client
	tokens *Tokens
	log    *zap.Logger
}

func NewHandler(api *backend.Client, tokens *Tokens, log *zap.Logger) *Handler {
	return &Handler{api: api, tokens: tokens, log: log}
}

func SetupAuthRoutes(app *fiber.App, h *Handler) {
	auth := app.Group("/auth")

	// Public routes
	auth.Get("/login", h.ShowLoginPage)
	auth.Post("/login", h.LoginAPI)
	auth.Post("/logout", h.LogoutAPI)

	// Protected routes
	auth.Get("/profile", h.AuthMiddleware, h.ShowProfilePage)
}

func (h *Handler) ShowLoginPage(c *fiber.Ctx) error {
	if tokenString := c.Cookies(cookieName); tokenString != "" {
		if _, err := h.tokens.Validate(tokenString); err == nil {
			return c.Redirect("/dashboard")
		}
	}
	return views.RenderBare(c, "auth/login", "Connexion", nil)
}

func (h *Handler) ShowProfilePage(c *fiber.Ctx) error {
	s := Current(c)
	user, err := h.api.GetUser(c.UserContext(), s.UserID)
	if err != nil {
		return err
	}
	return views.Render(c, "auth/profile", "Profil", "profile", fiber.Map{"User": user})
}

// AuthMiddleware validates the session cookie (or Bearer header) and attaches
// the session to the request context.
func (h *Handler) AuthMiddleware(c *fiber.Ctx) error {
	tokenString := c.Cookies(cookieName)
	if tokenString == "" {
		if authz := c.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
			tokenString = strings.TrimPrefix(authz, "Bearer ")
		}
	}

	if tokenString == "" {
		return unauthenticated(c, "No token found")
	}

	s, err := h.tokens.Validate(tokenString)
	if err != nil {
		h.log.Debug("rejected session token", zap.Error(err))
		return unauthenticated(c, "Invalid token")
	}

	c.SetUserContext(session.WithContext(c.UserContext(), s))
	c.Locals("Session", s)
	return c.Next()
}

func unauthenticated(c *fiber.Ctx, reason string) error {
	if views.WantsJSON(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": reason})
	}
	return c.Redirect("/auth/login")
}

// RequireCapability rejects requests whose role does not grant capability.
func RequireCapability(capability session.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := Current(c)
		if s == nil || !session.Can(s.Role, capability) {
			return fiber.NewError(fiber.StatusForbidden, "Accès refusé")
		}
		return c.Next()
	}
}

// Current returns the session attached by AuthMiddleware.
func Current(c *fiber.Ctx) *session.Session {
	return session.FromContext(c.UserContext())
}

// ForceSignOut clears the session cookie and sends the user back to the login page.
func ForceSignOut(c *fiber.Ctx) error {
	clearCookie(c)
	if views.WantsJSON(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Session expirée"})
	}
	views.SetFlash(c, "error", "Votre session a expiré, veuillez vous reconnecter.")
	return c.Redirect("/auth/login", fiber.StatusSeeOther)
}

func clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
}
