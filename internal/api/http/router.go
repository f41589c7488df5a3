package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fricdix/bi-dashboard/internal/api/http/handlers"
	"github.com/fricdix/bi-dashboard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Pages    *handlers.PagesHandler
	Admin    *handlers.AdminHandler
	Resolver *auth.SessionResolver
}

// RegisterRoutes wires HTTP routes. The session is resolved once per request;
// guards only consult the resolved result. The auth group carries no guard:
// an already-authenticated visit to /login is deliberately left alone.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Resolver.Attach)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authAPI := app.Group("/api/auth")
	authAPI.Post("/login", cfg.Auth.Login)
	authAPI.Post("/register", cfg.Auth.Register)
	authAPI.Post("/logout", cfg.Auth.Logout)
	authAPI.Get("/me", auth.RequireSessionAPI(), cfg.Auth.Me)

	requireSession := auth.RequireSession()
	app.Get("/dashboard", requireSession, cfg.Pages.Dashboard)
	app.Get("/reports", requireSession, cfg.Pages.Reports)
	app.Get("/reports/export", requireSession, cfg.Pages.ExportReports)
	app.Get("/profile", requireSession, cfg.Pages.Profile)
	app.Get("/influencers", requireSession, cfg.Pages.Influencers)
	app.Get("/recommendations", requireSession, cfg.Pages.Recommendations)

	admin := app.Group(auth.AdminPrefix, auth.RequireAdmin())
	admin.Get("/dashboard", cfg.Admin.Dashboard)
	admin.Get("/users", cfg.Admin.UsersPage)

	usersAPI := app.Group("/api/users", auth.RequireAdminAPI())
	usersAPI.Get("/", cfg.Admin.ListUsers)
	usersAPI.Post("/", cfg.Admin.CreateUser)
	usersAPI.Patch("/:id/role", cfg.Admin.UpdateRole)
	usersAPI.Delete("/:id", cfg.Admin.DeleteUser)
}
