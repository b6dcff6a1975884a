package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Se comparan siempre con errors.Is: los casos de uso agregan detalle con fmt.Errorf("%w: ...").
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrUnauthenticated    = errors.New("sesión no iniciada o expirada")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrSelfDeletion       = errors.New("no puede eliminar su propia cuenta")

	// ErrDuplicate es un caso particular de entrada inválida (nombre de empresa o usuario repetido).
	ErrDuplicate = fmt.Errorf("%w: recurso duplicado", ErrInvalidInput)
)
