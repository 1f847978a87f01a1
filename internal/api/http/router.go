package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/roadwatch/hazard-service/internal/api/http/handlers"
	"github.com/roadwatch/hazard-service/internal/auth"
	"github.com/roadwatch/hazard-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Reports        *handlers.ReportsHandler
	Moderation     *handlers.ModerationHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/sign-in", cfg.Auth.SignIn)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	app.Get("/report-types", cfg.AuthMiddleware.Handle, cfg.Reports.ListReportTypes)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle)
	reports.Get("/", cfg.Reports.ListReports)
	reports.Get("/mine", cfg.Reports.ListMyReports)
	reports.Post("/", cfg.Reports.CreateReport)
	reports.Put("/:id/approve", cfg.Moderation.Decide(domain.ActionApprove))
	reports.Put("/:id/reject", cfg.Moderation.Decide(domain.ActionReject))
	reports.Put("/:id/pending", cfg.Moderation.Revert)
}
