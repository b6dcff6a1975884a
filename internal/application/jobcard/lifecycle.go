package jobcard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/jobcards-api/internal/application/dto"
	"github.com/jhoicas/jobcards-api/internal/domain"
	"github.com/jhoicas/jobcards-api/internal/domain/access"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
	"github.com/jhoicas/jobcards-api/internal/domain/numbering"
	"github.com/jhoicas/jobcards-api/internal/domain/repository"
	"github.com/jhoicas/jobcards-api/pkg/logger"
)

// Lifecycle crea, edita, cambia de estado y copia job cards.
// Cada operación vuelve a consultar el access gate con el actor recibido.
type Lifecycle struct {
	txRunner  TxRunner
	orders    repository.OrderRepository
	companies repository.CompanyRepository
	retries   int
	log       *logger.Logger
	now       func() time.Time
}

// NewLifecycle construye el caso de uso. retries es el número de intentos ante un choque de job_number.
func NewLifecycle(
	txRunner TxRunner,
	orders repository.OrderRepository,
	companies repository.CompanyRepository,
	retries int,
	log *logger.Logger,
) *Lifecycle {
	if retries < 1 {
		retries = 1
	}
	return &Lifecycle{
		txRunner:  txRunner,
		orders:    orders,
		companies: companies,
		retries:   retries,
		log:       log.Component("jobcard"),
		now:       time.Now,
	}
}

// Create valida el borrador, asigna el siguiente número de trabajo y guarda la orden en Pending.
func (uc *Lifecycle) Create(ctx context.Context, actor entity.Identity, in dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if !access.Allowed(access.RouteOrderCreate, actor) {
		return nil, domain.ErrForbidden
	}

	companyName := strings.TrimSpace(in.CompanyName)
	jobName := strings.TrimSpace(in.JobName)
	if companyName == "" || jobName == "" {
		return nil, fmt.Errorf("%w: companyName y jobName son requeridos", domain.ErrInvalidInput)
	}
	jobType, err := entity.ParseJobType(in.JobType)
	if err != nil {
		return nil, err
	}
	if err := validateAmounts(in.JobQuantity, in.Rate); err != nil {
		return nil, err
	}
	if err := uc.requireCompany(ctx, companyName); err != nil {
		return nil, err
	}

	order := &entity.Order{
		CompanyName: companyName,
		JobName:     jobName,
		JobType:     jobType,
		JobQuantity: in.JobQuantity,
		Size:        strings.TrimSpace(in.Size),
		Rate:        in.Rate,
		Specs:       specsFromDTO(in.JobSpecsFields),
		Status:      entity.StatusPending,
	}
	if err := uc.insertNumbered(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().Str("actor_id", actor.ID).Int64("job_number", order.JobNumber).Str("order_id", order.ID).Msg("orden creada")
	return toCreateOrderResponse(order), nil
}

// Update aplica los campos presentes. El número de trabajo y la fecha de creación nunca cambian.
// Lectura, fusión y escritura ocurren con la fila bloqueada: dos ediciones simultáneas no se pisan.
func (uc *Lifecycle) Update(ctx context.Context, actor entity.Identity, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	if !access.Allowed(access.RouteOrderEdit, actor) {
		return nil, domain.ErrForbidden
	}
	var order *entity.Order
	err := uc.txRunner.RunInTx(ctx, func(orders repository.OrderRepository) error {
		var err error
		if order, err = lockOrder(ctx, orders, id); err != nil {
			return err
		}
		if err := uc.merge(ctx, order, in); err != nil {
			return err
		}
		order.UpdatedAt = uc.now()
		return orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

func (uc *Lifecycle) merge(ctx context.Context, order *entity.Order, in dto.UpdateOrderRequest) error {
	if in.CompanyName != nil {
		name := strings.TrimSpace(*in.CompanyName)
		if name == "" {
			return fmt.Errorf("%w: companyName no puede quedar vacío", domain.ErrInvalidInput)
		}
		if name != order.CompanyName {
			if err := uc.requireCompany(ctx, name); err != nil {
				return err
			}
		}
		order.CompanyName = name
	}
	if in.JobName != nil {
		name := strings.TrimSpace(*in.JobName)
		if name == "" {
			return fmt.Errorf("%w: jobName no puede quedar vacío", domain.ErrInvalidInput)
		}
		order.JobName = name
	}
	if in.JobType != nil {
		jt, err := entity.ParseJobType(*in.JobType)
		if err != nil {
			return err
		}
		order.JobType = jt
	}
	if in.JobQuantity != nil {
		order.JobQuantity = *in.JobQuantity
	}
	if in.Rate != nil {
		order.Rate = *in.Rate
	}
	if err := validateAmounts(order.JobQuantity, order.Rate); err != nil {
		return err
	}
	if in.Size != nil {
		order.Size = strings.TrimSpace(*in.Size)
	}
	if in.Status != nil {
		st, err := entity.ParseOrderStatus(*in.Status)
		if err != nil {
			return err
		}
		order.Status = st
	}
	applySpecs(&order.Specs, in)
	return nil
}

// ToggleStatus alterna Pending ⇄ Completed sobre la fila bloqueada, así ningún cambio se pierde.
func (uc *Lifecycle) ToggleStatus(ctx context.Context, actor entity.Identity, id string) (*dto.OrderResponse, error) {
	if !access.Allowed(access.RouteOrderEdit, actor) {
		return nil, domain.ErrForbidden
	}
	var order *entity.Order
	err := uc.txRunner.RunInTx(ctx, func(orders repository.OrderRepository) error {
		var err error
		if order, err = lockOrder(ctx, orders, id); err != nil {
			return err
		}
		order.Status = order.Status.Toggle()
		order.UpdatedAt = uc.now()
		return orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// Copy duplica una orden existente como una nueva en Pending, con número propio.
// El número sale de la misma reserva que Create (máximo + 1), no del tamaño de ningún listado.
func (uc *Lifecycle) Copy(ctx context.Context, actor entity.Identity, id string) (*dto.CreateOrderResponse, error) {
	if !access.Allowed(access.RouteOrderCreate, actor) {
		return nil, domain.ErrForbidden
	}
	src, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	order := src.CloneAsNew()
	if err := uc.insertNumbered(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().Str("actor_id", actor.ID).Int64("source_job_number", src.JobNumber).Int64("job_number", order.JobNumber).Msg("orden copiada")
	return toCreateOrderResponse(order), nil
}

// Get devuelve una orden por ID.
func (uc *Lifecycle) Get(ctx context.Context, actor entity.Identity, id string) (*dto.OrderResponse, error) {
	if !access.Allowed(access.RouteOrderDetail, actor) {
		return nil, domain.ErrForbidden
	}
	order, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// insertNumbered reserva número e inserta. Un choque de job_number (ErrConflict) se reintenta
// hasta uc.retries veces; cualquier otro error se devuelve de inmediato.
func (uc *Lifecycle) insertNumbered(ctx context.Context, order *entity.Order) error {
	var err error
	for attempt := 1; attempt <= uc.retries; attempt++ {
		now := uc.now()
		order.ID = uuid.New().String()
		order.CreatedAt = now
		order.UpdatedAt = now

		err = uc.txRunner.RunNumbered(ctx, func(orders repository.OrderRepository) error {
			current, err := orders.MaxJobNumber(ctx)
			if err != nil {
				return err
			}
			order.JobNumber = numbering.Next(current)
			return orders.Create(ctx, order)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		uc.log.Warn().Int("attempt", attempt).Int64("job_number", order.JobNumber).Msg("choque de número de trabajo, reintentando")
	}
	order.JobNumber = 0
	return err
}

func (uc *Lifecycle) load(ctx context.Context, id string) (*entity.Order, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// lockOrder lee la orden bloqueándola hasta el fin de la transacción.
func lockOrder(ctx context.Context, orders repository.OrderRepository, id string) (*entity.Order, error) {
	order, err := orders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (uc *Lifecycle) requireCompany(ctx context.Context, name string) error {
	c, err := uc.companies.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: la empresa %q no existe", domain.ErrInvalidInput, name)
	}
	return nil
}

func validateAmounts(qty int, rate decimal.Decimal) error {
	if qty < 0 {
		return fmt.Errorf("%w: jobQuantity no puede ser negativo", domain.ErrInvalidInput)
	}
	if rate.IsNegative() {
		return fmt.Errorf("%w: rate no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}
