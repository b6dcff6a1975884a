package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/jhoicas/jobcards-api/internal/application/dto"
	"github.com/jhoicas/jobcards-api/internal/domain"
	"github.com/jhoicas/jobcards-api/internal/domain/access"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
	"github.com/jhoicas/jobcards-api/internal/domain/repository"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo repository.CompanyRepository
	now  func() time.Time
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, now: time.Now}
}

// FoldName normaliza un nombre de empresa para compararlo sin distinguir mayúsculas (case folding Unicode).
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// List lista las empresas ordenadas por nombre. Cualquier rol que vea órdenes puede listarlas.
func (uc *CompanyUseCase) List(ctx context.Context, actor entity.Identity) ([]dto.CompanyResponse, error) {
	if !access.Allowed(access.RouteOrderList, actor) {
		return nil, domain.ErrForbidden
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return FoldName(list[i].Name) < FoldName(list[j].Name) })
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return items, nil
}

// Create crea una nueva empresa. Devuelve domain.ErrDuplicate si el nombre ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, actor entity.Identity, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if !access.Allowed(access.RouteCompanyCreate, actor) {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		return nil, fmt.Errorf("%w: companyName es requerido", domain.ErrInvalidInput)
	}
	if err := uc.ensureUnique(ctx, name, ""); err != nil {
		return nil, err
	}
	now := uc.now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// Update renombra una empresa. Las órdenes existentes conservan el nombre con el que se crearon.
func (uc *CompanyUseCase) Update(ctx context.Context, actor entity.Identity, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if !access.Allowed(access.RouteCompanyCreate, actor) {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		return nil, fmt.Errorf("%w: companyName es requerido", domain.ErrInvalidInput)
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.ensureUnique(ctx, name, company.ID); err != nil {
		return nil, err
	}
	company.Name = name
	company.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// ensureUnique falla con ErrDuplicate si otra empresa (distinta de selfID) ya usa el nombre.
func (uc *CompanyUseCase) ensureUnique(ctx context.Context, name, selfID string) error {
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: la empresa %q ya existe", domain.ErrDuplicate, existing.Name)
	}
	return nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:          c.ID,
		CompanyName: c.Name,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
