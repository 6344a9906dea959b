package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/aegis-admin-api/internal/config"
	"github.com/noah-isme/aegis-admin-api/internal/handler"
	"github.com/noah-isme/aegis-admin-api/internal/observability"
	"github.com/noah-isme/aegis-admin-api/internal/store"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Adapter             *store.Adapter
	AuthHandler         *handler.AuthHandler
	AccountHandler      *handler.AccountHandler
	NotificationHandler *handler.NotificationHandler
	DashboardHandler    *handler.DashboardHandler
	WallpaperHandler    *handler.WallpaperHandler
	Authenticate        fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.Adapter))

	app.Get("/metrics", observability.MetricsHandler())

	authenticate := deps.Authenticate
	if authenticate == nil {
		authenticate = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterUsers(api.Group("/users", authenticate))
		deps.AccountHandler.RegisterSubAdmins(api.Group("/sub-admins", authenticate))
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard", authenticate))
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(api.Group("/notifications", authenticate))
	}

	if deps.WallpaperHandler != nil {
		deps.WallpaperHandler.Register(api.Group("/wallpapers", authenticate))
	}
}
