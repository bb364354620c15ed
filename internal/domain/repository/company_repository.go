package repository

import (
	"context"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company y sus módulos (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	// GetModule devuelve nil, nil si la empresa no contrató el módulo.
	GetModule(ctx context.Context, companyID, moduleName string) (*entity.CompanyModule, error)
	ListModules(ctx context.Context, companyID string) ([]*entity.CompanyModule, error)
	UpsertModule(ctx context.Context, module *entity.CompanyModule) error
}
