package dto

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ErrorResponse cuerpo de error HTTP. Redirect indica a qué vista debe ir el cliente
// (/login o /unauthorized) cuando el error es de autenticación o autorización.
type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// AccessResponse salida de GET /api/access/:route.
type AccessResponse struct {
	Route    string `json:"route"`
	Decision string `json:"decision"`
	Redirect string `json:"redirect,omitempty"`
}

// AccessRule fila de la tabla de acceso: roles admitidos por clase de ruta.
type AccessRule struct {
	Route string   `json:"route"`
	Roles []string `json:"roles"`
}
