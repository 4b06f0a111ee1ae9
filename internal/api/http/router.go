package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-portal/internal/api/http/handlers"
	"github.com/spec-kit/account-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Guard          *auth.RouteGuard
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The route guard runs first so page-level
// requests are redirected before any handler sees them; API endpoints
// enforce authentication themselves via RequireAuth.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Guard.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.RequireAuth, cfg.Auth.Me)

	profileGroup := app.Group("/api/profile", cfg.AuthMiddleware.RequireAuth)
	profileGroup.Post("/update", cfg.Profile.Update)
	profileGroup.Post("/upload", cfg.Profile.Upload)
}
