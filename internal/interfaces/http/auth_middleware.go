package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobcards-api/internal/application/dto"
	"github.com/jhoicas/jobcards-api/internal/domain"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
)

// LocalIdentity clave de Fiber Locals para la identidad de la sesión.
const LocalIdentity = "identity"

// SessionResolver resuelve un token de sesión a la identidad vigente. Lo implementa *auth.AuthUseCase.
type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) (*entity.Identity, error)
}

// TokenFromRequest extrae el token: header "Authorization: Bearer" o, si no hay header, la cookie de sesión.
// ok=false si el header existe pero no tiene el formato Bearer.
func TokenFromRequest(c *fiber.Ctx, cookieName string) (token string, ok bool) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	return c.Cookies(cookieName), true
}

// AuthMiddleware exige una sesión vigente y deja la identidad en c.Locals.
// Sin sesión responde 401 LOGIN_REQUIRED con redirect a /login.
func AuthMiddleware(resolver SessionResolver, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := TokenFromRequest(c, cookieName)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>", Redirect: "/login"})
		}
		if token == "" {
			return loginRequired(c)
		}
		identity, err := resolver.CurrentSession(c.UserContext(), token)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalIdentity, identity)
		return c.Next()
	}
}

// OptionalAuth carga la identidad si hay una sesión vigente y sigue de todos modos.
// Solo corta la petición ante fallas del store de sesiones.
func OptionalAuth(resolver SessionResolver, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := TokenFromRequest(c, cookieName)
		if !ok || token == "" {
			return c.Next()
		}
		identity, err := resolver.CurrentSession(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				return c.Next()
			}
			return respondError(c, err)
		}
		c.Locals(LocalIdentity, identity)
		return c.Next()
	}
}

// GetIdentity devuelve la identidad del contexto (nil si no hay sesión).
func GetIdentity(c *fiber.Ctx) *entity.Identity {
	id, _ := c.Locals(LocalIdentity).(*entity.Identity)
	return id
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	if id := GetIdentity(c); id != nil {
		return id.ID
	}
	return ""
}

// GetRole devuelve el rol de la sesión ("" si no hay sesión).
func GetRole(c *fiber.Ctx) string {
	if id := GetIdentity(c); id != nil {
		return id.Role.String()
	}
	return ""
}

// actor devuelve la identidad para los casos de uso. Las rutas protegidas
// siempre pasan por AuthMiddleware; sin identidad se usa la vacía (ningún rol).
func actor(c *fiber.Ctx) entity.Identity {
	if id := GetIdentity(c); id != nil {
		return *id
	}
	return entity.Identity{}
}
