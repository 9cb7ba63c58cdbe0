// Package server assembles the Fiber application: views, middleware, error
// handling and every feature's routes.
package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/cache"
	"rentals-dashboard/app/routes/auth"
	"rentals-dashboard/app/routes/dashboard"
	"rentals-dashboard/app/routes/estates"
	"rentals-dashboard/app/routes/messages"
	"rentals-dashboard/app/routes/payments"
	"rentals-dashboard/app/routes/requests"
	"rentals-dashboard/app/routes/users"
	"rentals-dashboard/app/validation"
	"rentals-dashboard/app/views"
)

type Deps struct {
	API            *backend.Client
	Cache          cache.Store
	Tokens         *auth.Tokens
	Log            *zap.Logger
	TemplateReload bool
	StaticDir      string
}

// New builds the application with all routes registered.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:             views.NewEngine(d.TemplateReload),
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler(d.Log),
		BodyLimit:         validation.MaxRequestSize,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	if d.StaticDir != "" {
		app.Static("/static", d.StaticDir)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	authHandler := auth.NewHandler(d.API, d.Tokens, d.Log)
	auth.SetupAuthRoutes(app, authHandler)

	web := app.Group("/dashboard", authHandler.AuthMiddleware, messages.UnreadCountMiddleware(d.API, d.Log))
	api := app.Group("/api", authHandler.AuthMiddleware)

	dashboard.SetupDashboardRoutes(web, api, dashboard.NewHandler(d.API, d.Log))

	usersSvc := users.NewService(d.API, d.Cache, d.Log)
	users.SetupUsersRoutes(app, web, api, users.NewHandler(usersSvc, d.API, d.Log))

	estatesSvc := estates.NewService(d.API, d.Cache, d.Log)
	estates.SetupEstatesRoutes(web, api, estates.NewHandler(estatesSvc, d.API))

	requestsSvc := requests.NewService(d.API, d.Log)
	requests.SetupRequestsRoutes(web, api, requests.NewHandler(requestsSvc, d.API))

	paymentsSvc := payments.NewService(d.API, d.Log)
	payments.SetupPaymentsRoutes(web, api, payments.NewHandler(paymentsSvc, d.API))

	messagesSvc := messages.NewService(d.API, d.Log)
	messages.SetupMessagesRoutes(web, api, messages.NewHandler(messagesSvc, d.API, d.Log))

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page introuvable")
	})

	return app
}

// customErrorHandler handles HTTP errors with custom templates
func customErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// A backend that rejects the forwarded token means the session is over.
		if backend.IsAuthFailure(err) {
			return auth.ForceSignOut(c)
		}

		code := fiber.StatusInternalServerError
		message := err.Error()

		var fe *fiber.Error
		var apiErr *backend.APIError
		switch {
		case errors.As(err, &fe):
			code = fe.Code
		case errors.As(err, &apiErr):
			switch apiErr.Kind {
			case backend.KindNotFound:
				code = fiber.StatusNotFound
			case backend.KindValidation:
				code = fiber.StatusUnprocessableEntity
			default:
				code = fiber.StatusBadGateway
				message = "Le service est momentanément indisponible."
			}
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("request_id", requestID(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		// Check if this is an API request
		if strings.HasPrefix(c.Path(), "/api") || views.WantsJSON(c) {
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   message,
				"code":    code,
			})
		}

		data := fiber.Map{
			"Title":       "Erreur - Gestion Locative",
			"CurrentPage": "",
			"ErrorCode":   code,
		}
		switch code {
		case fiber.StatusNotFound:
			data["Title"] = "Page introuvable - Gestion Locative"
			return render(c, code, "404", data)
		case fiber.StatusForbidden:
			data["ErrorTitle"] = "Accès refusé"
			data["ErrorMessage"] = "Vous n'avez pas les droits nécessaires pour accéder à cette page."
		case fiber.StatusBadGateway:
			data["ErrorTitle"] = "Service indisponible"
			data["ErrorMessage"] = message
			data["ShowRetry"] = true
		case fiber.StatusInternalServerError:
			data["ErrorTitle"] = "Erreur interne"
			data["ErrorMessage"] = "Une erreur est survenue, veuillez réessayer plus tard."
			data["ShowRetry"] = true
		default:
			data["ErrorTitle"] = "Une erreur est survenue"
			data["ErrorMessage"] = message
		}
		return render(c, code, "error", data)
	}
}

// render shows an error page inside the dashboard layout when a session exists.
func render(c *fiber.Ctx, code int, name string, data fiber.Map) error {
	c.Status(code)
	if auth.Current(c) == nil {
		return c.Render(name, data, "")
	}
	return c.Render(name, data)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
