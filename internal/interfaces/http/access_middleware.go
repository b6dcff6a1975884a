package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobcards-api/internal/domain/access"
)

// RequireRoute autoriza la clase de ruta con el access gate. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - Allow                   → sigue.
//   - RedirectToLogin         → 401 LOGIN_REQUIRED, redirect /login.
//   - RedirectToUnauthorized  → 403 FORBIDDEN, redirect /unauthorized.
func RequireRoute(route access.RouteClass) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch access.Decide(route, GetIdentity(c)) {
		case access.Allow:
			return c.Next()
		case access.RedirectToLogin:
			return loginRequired(c)
		default:
			return forbidden(c)
		}
	}
}
