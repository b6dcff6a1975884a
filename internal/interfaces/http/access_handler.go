package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobcards-api/internal/application/dto"
	"github.com/jhoicas/jobcards-api/internal/domain/access"
)

// AccessHandler publica la tabla de acceso para que el cliente proteja sus páginas.
type AccessHandler struct{}

// NewAccessHandler construye el handler de acceso.
func NewAccessHandler() *AccessHandler {
	return &AccessHandler{}
}

// Rules godoc
// @Summary      Tabla de acceso
// @Tags         access
// @Produce      json
// @Success      200  {array}  dto.AccessRule
// @Router       /api/access [get]
func (h *AccessHandler) Rules(c *fiber.Ctx) error {
	classes := access.RouteClasses()
	out := make([]dto.AccessRule, 0, len(classes))
	for _, rc := range classes {
		roles := access.AllowedRoles(rc)
		names := make([]string, 0, len(roles))
		for _, r := range roles {
			names = append(names, r.String())
		}
		out = append(out, dto.AccessRule{Route: string(rc), Roles: names})
	}
	return c.JSON(out)
}

// Check godoc
// @Summary      Evaluar ruta
// @Description  Decisión para la sesión actual (o anónima).
// @Tags         access
// @Produce      json
// @Param        route  path  string  true  "Clase de ruta (order-list, order-create, ...)"
// @Success      200    {object}  dto.AccessResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/access/{route} [get]
func (h *AccessHandler) Check(c *fiber.Ctx) error {
	route, ok := access.ParseRouteClass(c.Params("route"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "clase de ruta desconocida"})
	}
	decision := access.Decide(route, GetIdentity(c))
	return c.JSON(dto.AccessResponse{
		Route:    string(route),
		Decision: string(decision),
		Redirect: access.Redirect(decision),
	})
}
