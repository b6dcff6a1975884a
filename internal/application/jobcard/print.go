package jobcard

import (
	"context"
	"fmt"

	"github.com/jhoicas/jobcards-api/internal/domain"
	"github.com/jhoicas/jobcards-api/internal/domain/access"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
	"github.com/jhoicas/jobcards-api/internal/domain/repository"
)

// PrintUseCase genera la job card impresa (PDF) de una orden.
type PrintUseCase struct {
	orders    repository.OrderRepository
	generator JobCardPDFGenerator
}

// NewPrintUseCase construye el caso de uso inyectando el generador de PDF.
func NewPrintUseCase(orders repository.OrderRepository, generator JobCardPDFGenerator) *PrintUseCase {
	return &PrintUseCase{orders: orders, generator: generator}
}

// Print devuelve el PDF y el nombre de archivo sugerido (jobcard_<número>.pdf).
//
// Retorna:
//   - domain.ErrForbidden si el actor no puede ver el detalle de órdenes.
//   - domain.ErrNotFound  si la orden no existe.
func (uc *PrintUseCase) Print(ctx context.Context, actor entity.Identity, id string) (pdfBytes []byte, filename string, err error) {
	if !access.Allowed(access.RouteOrderDetail, actor) {
		return nil, "", domain.ErrForbidden
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("print: obtener orden: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	pdfBytes, err = uc.generator.GenerateJobCardPDF(ctx, order)
	if err != nil {
		return nil, "", fmt.Errorf("print: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("jobcard_%d.pdf", order.JobNumber), nil
}
