package repository

import (
	"context"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Supplier, error)
	GetByCNPJ(ctx context.Context, companyID, cnpj string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	ListByCompany(ctx context.Context, companyID, search string, limit, offset int) ([]*entity.Supplier, error)
	Delete(ctx context.Context, companyID, id string) error
}
