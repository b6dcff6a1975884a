// Package access decide quién puede entrar a cada clase de ruta.
//
// La tabla no es una jerarquía de privilegios: la gestión del roster de staff es
// exclusiva de admin y un systemAdmin recibe RedirectToUnauthorized en esa ruta.
//
//	Ruta                         staff  admin  systemAdmin
//	order-list / order-detail      ✔      ✔        ✔
//	order-create / order-edit      ✘      ✔        ✔
//	company-create                 ✘      ✔        ✔
//	user-management                ✘      ✘        ✔
//	staff-roster                   ✘      ✔        ✘
package access

import "github.com/jhoicas/jobcards-api/internal/domain/entity"

// RouteClass agrupa rutas que comparten la misma regla de acceso.
type RouteClass string

const (
	RouteOrderList      RouteClass = "order-list"
	RouteOrderDetail    RouteClass = "order-detail"
	RouteOrderCreate    RouteClass = "order-create"
	RouteOrderEdit      RouteClass = "order-edit"
	RouteCompanyCreate  RouteClass = "company-create"
	RouteUserManagement RouteClass = "user-management"
	RouteStaffRoster    RouteClass = "staff-roster"
)

// Decision resultado de evaluar una ruta para una identidad.
type Decision string

const (
	Allow                  Decision = "allow"
	RedirectToLogin        Decision = "redirect-login"
	RedirectToUnauthorized Decision = "redirect-unauthorized"
)

// Rutas del cliente a las que redirige cada decisión negativa.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

var matrix = map[RouteClass][]entity.Role{
	RouteOrderList:      {entity.RoleSystemAdmin, entity.RoleAdmin, entity.RoleStaff},
	RouteOrderDetail:    {entity.RoleSystemAdmin, entity.RoleAdmin, entity.RoleStaff},
	RouteOrderCreate:    {entity.RoleSystemAdmin, entity.RoleAdmin},
	RouteOrderEdit:      {entity.RoleSystemAdmin, entity.RoleAdmin},
	RouteCompanyCreate:  {entity.RoleSystemAdmin, entity.RoleAdmin},
	RouteUserManagement: {entity.RoleSystemAdmin},
	RouteStaffRoster:    {entity.RoleAdmin},
}

// Decide evalúa la ruta para la identidad. Es total: sin identidad → RedirectToLogin;
// ruta desconocida o rol fuera de la tabla → RedirectToUnauthorized.
func Decide(route RouteClass, identity *entity.Identity) Decision {
	if identity == nil {
		return RedirectToLogin
	}
	for _, r := range matrix[route] {
		if r == identity.Role {
			return Allow
		}
	}
	return RedirectToUnauthorized
}

// Allowed atajo para los casos de uso: true solo si Decide devuelve Allow.
func Allowed(route RouteClass, identity entity.Identity) bool {
	return Decide(route, &identity) == Allow
}

// AllowedRoles devuelve una copia de los roles admitidos para la ruta (nil si no existe).
func AllowedRoles(route RouteClass) []entity.Role {
	roles, ok := matrix[route]
	if !ok {
		return nil
	}
	out := make([]entity.Role, len(roles))
	copy(out, roles)
	return out
}

// RouteClasses lista todas las clases de ruta conocidas.
func RouteClasses() []RouteClass {
	return []RouteClass{
		RouteOrderList, RouteOrderDetail, RouteOrderCreate, RouteOrderEdit,
		RouteCompanyCreate, RouteUserManagement, RouteStaffRoster,
	}
}

// ParseRouteClass convierte el nombre público de la ruta. ok=false si no existe.
func ParseRouteClass(s string) (RouteClass, bool) {
	r := RouteClass(s)
	_, ok := matrix[r]
	return r, ok
}

// Redirect devuelve la ruta del cliente asociada a la decisión ("" para Allow).
func Redirect(d Decision) string {
	switch d {
	case RedirectToLogin:
		return LoginPath
	case RedirectToUnauthorized:
		return UnauthorizedPath
	}
	return ""
}
