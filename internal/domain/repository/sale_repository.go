package repository

import (
	"context"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas (cabecera e ítems).
type SaleRepository interface {
	// Create persiste la cabecera y sus ítems.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, error)
}
