package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/jobcards-api/internal/domain"
)

// Role es el único insumo de autorización. Conjunto cerrado de tres valores.
type Role string

// Roles válidos para User.
const (
	RoleStaff       Role = "staff"
	RoleAdmin       Role = "admin"
	RoleSystemAdmin Role = "systemAdmin"
)

// Roles devuelve los roles válidos en orden de menor a mayor alcance.
func Roles() []Role {
	return []Role{RoleStaff, RoleAdmin, RoleSystemAdmin}
}

// Valid informa si r es uno de los tres roles conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleAdmin, RoleSystemAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole convierte un string al rol correspondiente. La comparación es exacta
// ("systemAdmin", no "systemadmin") porque así viaja en tokens y en la tabla users.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, s)
	}
	return r, nil
}

// Identity es la identidad de quien llama, resuelta desde la sesión.
// Se pasa explícitamente a cada caso de uso; nunca vive en un global.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// User representa una cuenta del sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity devuelve la vista de identidad del usuario (sin credenciales).
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}

// Session es una sesión iniciada; el token firmado solo transporta su ID.
type Session struct {
	ID        string    `json:"id"`
	Identity  Identity  `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired informa si la sesión ya venció respecto a now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
