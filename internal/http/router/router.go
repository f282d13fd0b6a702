// Package router registers every endpoint on a fiber app.
package router

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"backend-antrian-pst/internal/config"
	"backend-antrian-pst/internal/http/handler"
	"backend-antrian-pst/internal/http/middleware"
	"backend-antrian-pst/internal/realtime"
)

type Tokens interface {
	middleware.StaffTokenValidator
	middleware.VisitorFormTokenValidator
}

type Deps struct {
	Handler   *handler.Handler
	Tokens    Tokens
	Limiter   middleware.Allower // nil disables rate limiting
	RateLimit config.RateLimitConfig
	BasicAuth config.BasicAuthConfig
	Hub       *realtime.Hub
	Log       *zap.Logger
}

func (d Deps) limit(name string) fiber.Handler {
	if d.Limiter == nil || !d.RateLimit.Enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return middleware.RateLimit(d.Limiter, name, d.RateLimit.Limit, d.RateLimit.Window, d.Log)
}

func Setup(app *fiber.App, d Deps) {
	h := d.Handler
	staff := middleware.RoleAuth(config.RoleAdmin, config.RoleSuperAdmin)
	super := middleware.RoleAuth(config.RoleSuperAdmin)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Antrian PST API jalan",
		})
	})
	app.Get("/health", h.HealthCheck)

	app.Post("/san/login", d.limit("login"), h.Login)

	// Public
	app.Get("/queue-display", h.QueueDisplay)
	if d.Hub != nil {
		app.Get("/ws/queue-display", handler.RequireUpgrade, handler.DisplaySocket(d.Hub))
	}
	app.Get("/track/:uuid", h.TrackQueue)
	app.Get("/visitor-form/:uuid", h.OpenVisitorForm)
	app.Post("/visitor-form/submit", middleware.VisitorFormAuth(d.Tokens), d.limit("visitor-form"), h.SubmitVisitorForm)
	app.Get("/api/config", h.GetConfig)
	app.Get("/api/services/active", h.GetActiveServices)

	// Base API (semua wajib login)
	api := app.Group("/api", middleware.JWTAuth(d.Tokens), staff)

	api.Post("/logout", h.Logout)
	api.Get("/me", h.Me)

	api.Post("/guest", d.limit("guest"), h.CreateGuest)
	api.Post("/visitor-links", h.IssueVisitorLink)

	api.Get("/queue", h.ListQueues)
	api.Get("/queue/:id", h.GetQueue)
	api.Post("/queue/:id/serve", h.ServeQueue)
	api.Post("/queue/:id/complete", h.CompleteQueue)
	api.Post("/queue/:id/cancel", h.CancelQueue)
	api.Post("/queue/:id/reminder", d.limit("reminder"), h.SendReminder)
	api.Post("/queue/:id/skd", h.MarkSKD)

	api.Get("/dashboard", h.DashboardStats)

	api.Get("/notifications", h.ListNotifications)
	api.Post("/notifications", h.MarkAllNotificationsRead)
	api.Post("/notifications/:id", h.MarkNotificationRead)

	// ===== SUPER ADMIN ROUTES =====
	api.Get("/services", super, h.GetAllServices)
	api.Get("/services/:id", super, h.GetServiceByID)
	api.Post("/services", super, h.CreateService)
	api.Put("/services/:id", super, h.UpdateService)
	api.Delete("/services/:id", super, h.DeleteService)

	api.Put("/config", super, h.UpdateConfig)
	api.Get("/reports/queues", super, h.ExportQueues)

	// Operator endpoints for scheduled jobs
	if d.BasicAuth.User != "" {
		ops := app.Group("/ops", middleware.BasicAuth(d.BasicAuth))
		ops.Get("/reports/queues", h.ExportQueues)
	}
}
