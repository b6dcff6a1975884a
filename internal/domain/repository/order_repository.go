package repository

import (
	"context"

	"github.com/jhoicas/jobcards-api/internal/domain/entity"
)

// OrderFilter filtro ya resuelto para el listado de órdenes.
// Si JobNumber no es nil los demás campos se ignoran.
type OrderFilter struct {
	JobNumber *int64
	Search    string // contiene en company_name o igual al estado (sin distinguir mayúsculas)
	JobName   string // contiene en job_name; solo aplica junto con Search
}

// OrderRepository define el puerto de persistencia para Order (DIP).
type OrderRepository interface {
	// Create inserta la orden. Un job_number repetido devuelve domain.ErrConflict.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate como GetByID, bloqueando la fila dentro de la transacción en curso.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// Update persiste los campos editables; nunca toca job_number ni created_at.
	Update(ctx context.Context, order *entity.Order) error
	// MaxJobNumber devuelve el mayor job_number existente (0 si no hay órdenes).
	MaxJobNumber(ctx context.Context) (int64, error)
	// Query devuelve la página pedida y el total del conjunto filtrado (antes de paginar).
	Query(ctx context.Context, filter OrderFilter, limit, offset int) ([]*entity.Order, int, error)
}
