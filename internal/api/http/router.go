package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-directory/internal/api/http/handlers"
	"github.com/spec-kit/user-directory/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Users  *handlers.UsersHandler
	Config *handlers.ConfigHandler
	Gate   *auth.Gate
}

// RegisterRoutes wires HTTP routes. Everything under the protected group
// passes the gate before its handler touches storage.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/cf/v1")
	api.Post("/auth/login", cfg.Auth.Login)
	api.Post("/users", cfg.Users.Register)

	protected := api.Group("", cfg.Gate.Middleware())
	protected.Get("/users", cfg.Users.List)
	protected.Get("/users/config/data", cfg.Config.Data)
	protected.Post("/users/password/change", cfg.Users.ChangePassword)
	protected.Get("/users/:id", cfg.Users.Get)
	protected.Put("/users/:id", cfg.Users.Update)
	protected.Delete("/users/:id", cfg.Users.Delete)
}
