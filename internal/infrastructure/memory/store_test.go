package memory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobcards-api/internal/domain"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
	"github.com/jhoicas/jobcards-api/internal/domain/repository"
	"github.com/jhoicas/jobcards-api/internal/infrastructure/memory"
)

func seedOrders(t *testing.T, repo *memory.OrderRepo, orders ...entity.Order) {
	t.Helper()
	for i := range orders {
		o := orders[i]
		if o.ID == "" {
			o.ID = fmt.Sprintf("o-%d", o.JobNumber)
		}
		require.NoError(t, repo.Create(context.Background(), &o))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Órdenes
// ─────────────────────────────────────────────────────────────────────────────

func TestOrderRepo_NumeroRepetidoEsConflicto(t *testing.T) {
	repo := memory.NewStore().Orders()
	seedOrders(t, repo, entity.Order{JobNumber: 4001})

	err := repo.Create(context.Background(), &entity.Order{ID: "otro", JobNumber: 4001})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestOrderRepo_MaxJobNumber(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Orders()

	highest, err := repo.MaxJobNumber(ctx)
	require.NoError(t, err)
	assert.Zero(t, highest)

	seedOrders(t, repo, entity.Order{JobNumber: 4010}, entity.Order{JobNumber: 4012}, entity.Order{JobNumber: 4003})
	highest, err = repo.MaxJobNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4012), highest)
}

func TestOrderRepo_UpdateConservaNumeroYFecha(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Orders()
	seedOrders(t, repo, entity.Order{ID: "a", JobNumber: 4001, JobName: "Volantes"})

	require.NoError(t, repo.Update(ctx, &entity.Order{ID: "a", JobNumber: 9999, JobName: "Afiches"}))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(4001), got.JobNumber)
	assert.Equal(t, "Afiches", got.JobName)

	assert.ErrorIs(t, repo.Update(ctx, &entity.Order{ID: "nope"}), domain.ErrNotFound)
}

func TestOrderRepo_QueryFiltros(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Orders()
	seedOrders(t, repo,
		entity.Order{JobNumber: 4001, CompanyName: "Acme Prints", JobName: "Catálogo", Status: entity.StatusPending},
		entity.Order{JobNumber: 4002, CompanyName: "Beta", JobName: "Volantes", Status: entity.StatusCompleted},
		entity.Order{JobNumber: 4003, CompanyName: "ACME Labs", JobName: "Volantes", Status: entity.StatusCompleted},
	)

	n := int64(4002)
	items, total, err := repo.Query(ctx, repository.OrderFilter{JobNumber: &n, Search: "acme"}, 30, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total, "jobNumber ignora search")
	assert.Equal(t, "Beta", items[0].CompanyName)

	_, total, err = repo.Query(ctx, repository.OrderFilter{Search: "acme"}, 30, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total, "search busca en el nombre de empresa sin distinguir mayúsculas")

	_, total, err = repo.Query(ctx, repository.OrderFilter{Search: "completed"}, 30, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total, "search también compara con el estado")

	items, total, err = repo.Query(ctx, repository.OrderFilter{Search: "acme", JobName: "volan"}, 30, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, int64(4003), items[0].JobNumber)
}

func TestOrderRepo_QueryPaginaDescendente(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Orders()
	for i := int64(0); i < 35; i++ {
		seedOrders(t, repo, entity.Order{JobNumber: 4001 + i})
	}

	items, total, err := repo.Query(ctx, repository.OrderFilter{}, 30, 0)
	require.NoError(t, err)
	assert.Equal(t, 35, total)
	require.Len(t, items, 30)
	assert.Equal(t, int64(4035), items[0].JobNumber)

	items, total, err = repo.Query(ctx, repository.OrderFilter{}, 30, 30)
	require.NoError(t, err)
	assert.Equal(t, 35, total)
	require.Len(t, items, 5)
	assert.Equal(t, int64(4005), items[0].JobNumber)

	items, total, err = repo.Query(ctx, repository.OrderFilter{}, 30, 90)
	require.NoError(t, err)
	assert.Equal(t, 35, total)
	assert.Empty(t, items)
}

// ─────────────────────────────────────────────────────────────────────────────
// Empresas y usuarios
// ─────────────────────────────────────────────────────────────────────────────

func TestCompanyRepo_NombreSinMayusculas(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Companies()
	require.NoError(t, repo.Create(ctx, &entity.Company{ID: "c1", Name: "Acme"}))

	got, err := repo.GetByName(ctx, "ACME")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c1", got.ID)

	assert.ErrorIs(t, repo.Create(ctx, &entity.Company{ID: "c2", Name: "acme"}), domain.ErrDuplicate)
}

func TestUserRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Users()
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Username: "ana"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.User{ID: "u2", Username: "ana"}), domain.ErrDuplicate)

	require.NoError(t, repo.Delete(ctx, "u1"))
	assert.ErrorIs(t, repo.Delete(ctx, "u1"), domain.ErrNotFound)

	got, err := repo.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Nil(t, got)
}
