// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con STORE_DRIVER=memory (demos, desarrollo) y como almacenamiento de los tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/jhoicas/jobcards-api/internal/application/jobcard"
	"github.com/jhoicas/jobcards-api/internal/domain"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
	"github.com/jhoicas/jobcards-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.OrderRepository   = (*OrderRepo)(nil)
	_ jobcard.TxRunner             = (*TxRunner)(nil)
)

// Store datos compartidos por los repositorios en memoria. Seguro para uso concurrente.
type Store struct {
	mu        sync.RWMutex
	users     map[string]entity.User
	companies map[string]entity.Company
	orders    map[string]entity.Order

	// numbering serializa las reservas de número (equivale al advisory lock de PostgreSQL).
	numbering sync.Mutex
	// edits serializa las transacciones de edición (equivale a SELECT ... FOR UPDATE).
	edits sync.Mutex
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]entity.User),
		companies: make(map[string]entity.Company),
		orders:    make(map[string]entity.Order),
	}
}

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Companies devuelve el repositorio de empresas.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }

// Orders devuelve el repositorio de órdenes.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// TxRunner devuelve el runner de reservas de número.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

func fold(s string) string { return cases.Fold().String(strings.TrimSpace(s)) }

// ── Users ──────────────────────────────────────────────────────────────────

// UserRepo implementación en memoria de repository.UserRepository.
type UserRepo struct{ s *Store }

// Create guarda el usuario; username repetido devuelve domain.ErrDuplicate.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetByUsername devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// List devuelve todos los usuarios.
func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u := u
		out = append(out, &u)
	}
	return out, nil
}

// Delete elimina el usuario; domain.ErrNotFound si no existía.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// ── Companies ──────────────────────────────────────────────────────────────

// CompanyRepo implementación en memoria de repository.CompanyRepository.
type CompanyRepo struct{ s *Store }

// Create guarda la empresa; nombre repetido (sin distinguir mayúsculas) devuelve domain.ErrDuplicate.
func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTakenLocked(c.Name, c.ID) {
		return domain.ErrDuplicate
	}
	r.s.companies[c.ID] = *c
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetByName busca sin distinguir mayúsculas.
func (r *CompanyRepo) GetByName(_ context.Context, name string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	key := fold(name)
	for _, c := range r.s.companies {
		if fold(c.Name) == key {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

// Update reemplaza nombre y fecha de modificación.
func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.nameTakenLocked(c.Name, c.ID) {
		return domain.ErrDuplicate
	}
	r.s.companies[c.ID] = *c
	return nil
}

// List devuelve todas las empresas.
func (r *CompanyRepo) List(_ context.Context) ([]*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		c := c
		out = append(out, &c)
	}
	return out, nil
}

func (r *CompanyRepo) nameTakenLocked(name, selfID string) bool {
	key := fold(name)
	for id, c := range r.s.companies {
		if id != selfID && fold(c.Name) == key {
			return true
		}
	}
	return false
}

// ── Orders ─────────────────────────────────────────────────────────────────

// OrderRepo implementación en memoria de repository.OrderRepository.
type OrderRepo struct{ s *Store }

// Create guarda la orden; job_number repetido devuelve domain.ErrConflict.
func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.orders {
		if existing.JobNumber == o.JobNumber {
			return domain.ErrConflict
		}
	}
	r.s.orders[o.ID] = *o
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// GetForUpdate equivale a GetByID; el bloqueo lo da TxRunner.RunInTx.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

// Update persiste los campos editables; job_number y created_at se conservan.
func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *o
	next.JobNumber = stored.JobNumber
	next.CreatedAt = stored.CreatedAt
	r.s.orders[o.ID] = next
	return nil
}

// MaxJobNumber devuelve el mayor número existente (0 si no hay órdenes).
func (r *OrderRepo) MaxJobNumber(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var highest int64
	for _, o := range r.s.orders {
		if o.JobNumber > highest {
			highest = o.JobNumber
		}
	}
	return highest, nil
}

// Query filtra, ordena por job_number descendente y pagina.
func (r *OrderRepo) Query(_ context.Context, f repository.OrderFilter, limit, offset int) ([]*entity.Order, int, error) {
	r.s.mu.RLock()
	matched := make([]entity.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		if matches(o, f) {
			matched = append(matched, o)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].JobNumber > matched[j].JobNumber })
	total := len(matched)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []*entity.Order{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]*entity.Order, 0, end-offset)
	for i := offset; i < end; i++ {
		o := matched[i]
		out = append(out, &o)
	}
	return out, total, nil
}

func matches(o entity.Order, f repository.OrderFilter) bool {
	if f.JobNumber != nil {
		return o.JobNumber == *f.JobNumber
	}
	if f.Search == "" {
		return true
	}
	search := fold(f.Search)
	if !strings.Contains(fold(o.CompanyName), search) && fold(string(o.Status)) != search {
		return false
	}
	if f.JobName != "" && !strings.Contains(fold(o.JobName), fold(f.JobName)) {
		return false
	}
	return true
}

// ── TxRunner ───────────────────────────────────────────────────────────────

// TxRunner serializa reservas de número de trabajo.
type TxRunner struct{ s *Store }

// RunNumbered ejecuta fn mientras ninguna otra reserva está en curso.
func (t *TxRunner) RunNumbered(ctx context.Context, fn func(orders repository.OrderRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.numbering.Lock()
	defer t.s.numbering.Unlock()
	return fn(t.s.Orders())
}

// RunInTx ejecuta fn mientras ninguna otra edición está en curso.
func (t *TxRunner) RunInTx(ctx context.Context, fn func(orders repository.OrderRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.edits.Lock()
	defer t.s.edits.Unlock()
	return fn(t.s.Orders())
}
