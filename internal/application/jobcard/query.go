package jobcard

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jhoicas/jobcards-api/internal/application/dto"
	"github.com/jhoicas/jobcards-api/internal/domain"
	"github.com/jhoicas/jobcards-api/internal/domain/access"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
	"github.com/jhoicas/jobcards-api/internal/domain/repository"
)

// PageSize tamaño fijo de página del listado de órdenes.
const PageSize = 30

// maxOffset tope del desplazamiento. Cualquier página que lo supere cae más allá del final.
const maxOffset = math.MaxInt32

// QueryResolver resuelve el listado paginado de órdenes.
type QueryResolver struct {
	orders repository.OrderRepository
}

// NewQueryResolver construye el resolvedor de listados.
func NewQueryResolver(orders repository.OrderRepository) *QueryResolver {
	return &QueryResolver{orders: orders}
}

// BuildFilter aplica la precedencia de filtros:
//  1. jobNumber presente: coincidencia exacta, search y jobName se ignoran.
//  2. search presente: empresa contiene search o estado igual a search; jobName acota si viene.
//  3. nada: sin filtro. Un jobName sin search se ignora.
func BuildFilter(q dto.OrderQueryRequest) (repository.OrderFilter, error) {
	if raw := strings.TrimSpace(q.JobNumber); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return repository.OrderFilter{}, fmt.Errorf("%w: jobNumber debe ser numérico", domain.ErrInvalidInput)
		}
		return repository.OrderFilter{JobNumber: &n}, nil
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		return repository.OrderFilter{Search: search, JobName: strings.TrimSpace(q.JobName)}, nil
	}
	return repository.OrderFilter{}, nil
}

// Resolve devuelve la página pedida (orden descendente por número) y los totales del conjunto filtrado.
// Una página menor a 1 se trata como 1; una página más allá del final devuelve cero órdenes.
func (uc *QueryResolver) Resolve(ctx context.Context, actor entity.Identity, q dto.OrderQueryRequest) (*dto.OrderListResponse, error) {
	if !access.Allowed(access.RouteOrderList, actor) {
		return nil, domain.ErrForbidden
	}
	filter, err := BuildFilter(q)
	if err != nil {
		return nil, err
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	list, total, err := uc.orders.Query(ctx, filter, PageSize, PageOffset(page))
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Orders:      items,
		TotalOrders: total,
		TotalPages:  TotalPages(total),
		Page:        page,
		PageSize:    PageSize,
	}, nil
}

// PageOffset devuelve el desplazamiento de la página (desde 1) sin desbordar int.
func PageOffset(page int) int {
	if page <= 1 {
		return 0
	}
	if page-1 > maxOffset/PageSize {
		return maxOffset
	}
	return (page - 1) * PageSize
}

// TotalPages = ceil(total / PageSize).
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}
