package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

// CompanyUseCase aplica reglas de negocio para la empresa del usuario y sus módulos.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Get obtiene la empresa del tenant.
func (uc *CompanyUseCase) Get(ctx context.Context, companyID string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return entityToCompanyResponse(company), nil
}

// Update actualiza los datos de contacto. El CNPJ no se modifica.
func (uc *CompanyUseCase) Update(ctx context.Context, companyID string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		company.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		company.Address = *in.Address
	}
	if in.Phone != nil {
		company.Phone = *in.Phone
	}
	if in.Email != nil {
		company.Email = *in.Email
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// ListModules devuelve todos los módulos conocidos, contratados o no.
func (uc *CompanyUseCase) ListModules(ctx context.Context, companyID string) ([]dto.ModuleResponse, error) {
	list, err := uc.repo.ListModules(ctx, companyID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*entity.CompanyModule, len(list))
	for _, m := range list {
		byName[m.ModuleName] = m
	}
	now := time.Now()
	out := make([]dto.ModuleResponse, 0, len(entity.AllModules))
	for _, name := range entity.AllModules {
		m := byName[name]
		resp := dto.ModuleResponse{Name: name}
		if m != nil {
			resp.IsActive = m.IsActive
			resp.Enabled = m.Enabled(now)
			resp.ExpiresAt = m.ExpiresAt
		}
		out = append(out, resp)
	}
	return out, nil
}

// UpdateModule activa o desactiva un módulo SaaS de la empresa.
func (uc *CompanyUseCase) UpdateModule(ctx context.Context, companyID, name string, in dto.UpdateModuleRequest) (*dto.ModuleResponse, error) {
	if !entity.IsValidModule(name) {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	mod := &entity.CompanyModule{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ModuleName:  name,
		IsActive:    in.IsActive,
		ActivatedAt: now,
		ExpiresAt:   in.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.UpsertModule(ctx, mod); err != nil {
		return nil, err
	}
	return &dto.ModuleResponse{
		Name:      name,
		IsActive:  mod.IsActive,
		Enabled:   mod.Enabled(now),
		ExpiresAt: mod.ExpiresAt,
	}, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CNPJ:      c.CNPJ,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
