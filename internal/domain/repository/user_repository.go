package repository

import (
	"context"

	"github.com/jhoicas/jobcards-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// GetByID/GetByUsername devuelven (nil, nil) cuando no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByUsername es la búsqueda por credenciales; la verificación del hash la hace auth.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	// Delete devuelve domain.ErrNotFound si no había fila que borrar.
	Delete(ctx context.Context, id string) error
}
