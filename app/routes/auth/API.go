package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/session"
	"rentals-dashboard/app/views"
)

func (h *Handler) LoginAPI(c *fiber.Ctx) error {
	var req backend.Credentials
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Requête invalide")
	}

	res, err := h.api.Login(c.UserContext(), req)
	if err != nil {
		return h.loginFailed(c, req.Email, err)
	}
	if !res.User.Role.Valid() {
		h.log.Warn("login returned unknown role", zap.Int64("user_id", res.User.ID), zap.String("role", string(res.User.Role)))
		return h.loginFailed(c, req.Email, &backend.APIError{Status: fiber.StatusForbidden, Kind: backend.KindForbidden})
	}

	token, err := h.tokens.Issue(res.User, res.Token)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: "Lax",
	})

	h.log.Info("user signed in", zap.Int64("user_id", res.User.ID), zap.String("role", string(res.User.Role)))

	if views.WantsJSON(c) {
		return c.JSON(fiber.Map{"message": "Connexion réussie", "user": res.User})
	}
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

func (h *Handler) loginFailed(c *fiber.Ctx, email string, err error) error {
	status := fiber.StatusUnauthorized
	msg := "Identifiants invalides."
	switch backend.KindOf(err) {
	case backend.KindUnauthorized, backend.KindValidation:
	case backend.KindForbidden:
		msg = "Ce compte n'a pas accès au tableau de bord."
		status = fiber.StatusForbidden
	default:
		h.log.Error("login failed", zap.Error(err))
		msg = "Service indisponible, veuillez réessayer."
		status = fiber.StatusBadGateway
	}

	if views.WantsJSON(c) {
		return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
	}
	c.Status(status)
	return views.RenderBare(c, "auth/login", "Connexion", fiber.Map{"Error": msg, "Email": email})
}

func (h *Handler) LogoutAPI(c *fiber.Ctx) error {
	if tokenString := c.Cookies(cookieName); tokenString != "" {
		if s, err := h.tokens.Validate(tokenString); err == nil {
			ctx := session.WithContext(c.UserContext(), s)
			if err := h.api.Logout(ctx); err != nil {
				h.log.Warn("backend logout failed", zap.Int64("user_id", s.UserID), zap.Error(err))
			}
		}
	}

	clearCookie(c)
	return c.Redirect("/auth/login", fiber.StatusSeeOther)
}
