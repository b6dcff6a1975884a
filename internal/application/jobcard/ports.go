package jobcard

import (
	"context"

	"github.com/jhoicas/jobcards-api/internal/domain/entity"
	"github.com/jhoicas/jobcards-api/internal/domain/repository"
)

// TxRunner ejecuta escrituras de órdenes de forma atómica.
// RunNumbered ejecuta fn con un repositorio de órdenes exclusivo para numerar: leer
// MaxJobNumber e insertar ocurren sin que otra reserva se intercale. Si fn falla no queda nada escrito.
// RunInTx ejecuta fn en una transacción; las filas leídas con GetForUpdate quedan bloqueadas hasta el final.
type TxRunner interface {
	RunNumbered(ctx context.Context, fn func(orders repository.OrderRepository) error) error
	RunInTx(ctx context.Context, fn func(orders repository.OrderRepository) error) error
}

// JobCardPDFGenerator genera la job card impresa de una orden.
type JobCardPDFGenerator interface {
	GenerateJobCardPDF(ctx context.Context, order *entity.Order) ([]byte, error)
}
