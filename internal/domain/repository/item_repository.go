package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para ítems de inventario.
// Todas las lecturas filtran por company_id (aislamiento por tenant).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE); usar dentro de una tx.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, companyID, sku string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error
	List(ctx context.Context, f ItemFilter) ([]*entity.Item, error)
	Delete(ctx context.Context, companyID, id string) error
}

// CostEntryRepository historial de costos (compras) por ítem.
type CostEntryRepository interface {
	Create(ctx context.Context, entry *entity.CostEntry) error
	// Latest devuelve la compra más reciente del ítem o nil si no hay historial.
	Latest(ctx context.Context, itemID string) (*entity.CostEntry, error)
	ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.CostEntry, error)
}

// StockMovementRepository define el puerto de persistencia para movimientos de inventario.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
	CountByItem(ctx context.Context, itemID string) (int, error)
}
