package auth

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/fricdix/bi-dashboard/internal/domain"
	apperrors "github.com/fricdix/bi-dashboard/pkg/util"
)

// Route group landing points used by the guards.
const (
	LoginPath          = "/login"
	DashboardPath      = "/dashboard"
	AdminDashboardPath = "/admin/dashboard"
	AdminPrefix        = "/admin"
)

// RequireSession gates the protected page group. An unauthenticated request
// is redirected to the login entry point with the originally requested path
// preserved as a hint.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SessionFromContext(c); !ok {
			return redirectToLogin(c)
		}
		return c.Next()
	}
}

// RequireAdmin gates the admin page subgroup. An authenticated but
// under-privileged session lands on its own dashboard, never back on login.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return redirectToLogin(c)
		}
		if session.Role != domain.RoleAdmin {
			return c.Redirect(DashboardPath, fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireSessionAPI gates JSON endpoints: same resolution, but API clients
// get a 401 payload instead of a redirect.
func RequireSessionAPI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SessionFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdminAPI gates the admin JSON endpoints with 401/403 semantics.
func RequireAdminAPI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if session.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}

func redirectToLogin(c *fiber.Ctx) error {
	target := LoginPath + "?next=" + url.QueryEscape(c.OriginalURL())
	return c.Redirect(target, fiber.StatusFound)
}
