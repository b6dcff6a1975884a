package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/jobcards-api/internal/domain"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
	"github.com/jhoicas/jobcards-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, job_number, company_name, job_name, job_type, job_quantity, size, rate,
	papers_and_colors_of_papers, quantity_and_size_to_run_on_machine, color_of_ink, numbering,
	punching, perforation, lamination, fixed_copy, type_of_binding, special_note,
	status, created_at, updated_at`

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la orden. Un job_number repetido (índice único) devuelve domain.ErrConflict.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `, company_name_key, job_name_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.JobNumber, o.CompanyName, o.JobName, string(o.JobType), o.JobQuantity, o.Size, o.Rate,
		o.Specs.PapersAndColorsOfPapers, o.Specs.QuantityAndSizeToRunOnMachine, o.Specs.ColorOfInk, o.Specs.Numbering,
		o.Specs.Punching, o.Specs.Perforation, o.Specs.Lamination, o.Specs.FixedCopy, o.Specs.TypeOfBinding, o.Specs.SpecialNote,
		string(o.Status), o.CreatedAt, o.UpdatedAt,
		nameKey(o.CompanyName), nameKey(o.JobName),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: job_number %d ya asignado", domain.ErrConflict, o.JobNumber)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetForUpdate obtiene la orden con SELECT ... FOR UPDATE. Sólo bloquea si el repositorio va sobre una tx.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	return o, nil
}

// Update persiste los campos editables. job_number y created_at no se tocan.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET company_name = $2, job_name = $3, job_type = $4, job_quantity = $5, size = $6, rate = $7,
			papers_and_colors_of_papers = $8, quantity_and_size_to_run_on_machine = $9, color_of_ink = $10,
			numbering = $11, punching = $12, perforation = $13, lamination = $14, fixed_copy = $15,
			type_of_binding = $16, special_note = $17, status = $18, updated_at = $19,
			company_name_key = $20, job_name_key = $21
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		o.ID, o.CompanyName, o.JobName, string(o.JobType), o.JobQuantity, o.Size, o.Rate,
		o.Specs.PapersAndColorsOfPapers, o.Specs.QuantityAndSizeToRunOnMachine, o.Specs.ColorOfInk,
		o.Specs.Numbering, o.Specs.Punching, o.Specs.Perforation, o.Specs.Lamination, o.Specs.FixedCopy,
		o.Specs.TypeOfBinding, o.Specs.SpecialNote, string(o.Status), o.UpdatedAt,
		nameKey(o.CompanyName), nameKey(o.JobName),
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MaxJobNumber devuelve el mayor job_number (0 con la tabla vacía).
func (r *OrderRepo) MaxJobNumber(ctx context.Context) (int64, error) {
	var highest int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(job_number), 0) FROM orders`).Scan(&highest); err != nil {
		return 0, fmt.Errorf("max job_number: %w", err)
	}
	return highest, nil
}

// Query filtra, cuenta el total y devuelve la página ordenada por job_number descendente.
func (r *OrderRepo) Query(ctx context.Context, f repository.OrderFilter, limit, offset int) ([]*entity.Order, int, error) {
	where, args := orderWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY job_number DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// orderWhere traduce el filtro a SQL. Mismas reglas que el filtro en memoria: número exacto, o
// empresa contiene / estado igual más nombre de trabajo opcional, comparando claves con case folding.
// Los estados son ASCII, así que lower(status) coincide con su folding.
func orderWhere(f repository.OrderFilter) (string, []any) {
	if f.JobNumber != nil {
		return ` WHERE job_number = $1`, []any{*f.JobNumber}
	}
	if f.Search == "" {
		return "", nil
	}
	search := nameKey(f.Search)
	conds := []string{`(company_name_key LIKE $1 ESCAPE '\' OR lower(status) = $2)`}
	args := []any{containsPattern(search), search}
	if f.JobName != "" {
		conds = append(conds, `job_name_key LIKE $3 ESCAPE '\'`)
		args = append(args, containsPattern(nameKey(f.JobName)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var o entity.Order
	var jobType, status string
	err := row.Scan(
		&o.ID, &o.JobNumber, &o.CompanyName, &o.JobName, &jobType, &o.JobQuantity, &o.Size, &o.Rate,
		&o.Specs.PapersAndColorsOfPapers, &o.Specs.QuantityAndSizeToRunOnMachine, &o.Specs.ColorOfInk, &o.Specs.Numbering,
		&o.Specs.Punching, &o.Specs.Perforation, &o.Specs.Lamination, &o.Specs.FixedCopy, &o.Specs.TypeOfBinding, &o.Specs.SpecialNote,
		&status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.JobType = entity.JobType(jobType)
	o.Status = entity.OrderStatus(status)
	return &o, nil
}
