package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem de inventario.
// InitialStock/InitialPrice opcionales: registran la primera entrada y su costo.
type CreateItemRequest struct {
	Kind         string           `json:"kind" validate:"required,oneof=ingredient product package"`
	SKU          string           `json:"sku" validate:"required,min=1,max=60"`
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	Unit         string           `json:"unit" validate:"required,min=1,max=10"`
	MinStock     decimal.Decimal  `json:"min_stock"`
	SalePrice    decimal.Decimal  `json:"sale_price"`
	InitialStock *decimal.Decimal `json:"initial_stock,omitempty"`
	InitialPrice *decimal.Decimal `json:"initial_price,omitempty"` // valor total pagado por InitialStock
}

// UpdateItemRequest entrada para actualizar un ítem. Stock y costo no se editan aquí.
type UpdateItemRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Unit      *string          `json:"unit" validate:"omitempty,min=1,max=10"`
	MinStock  *decimal.Decimal `json:"min_stock"`
	SalePrice *decimal.Decimal `json:"sale_price"`
	Active    *bool            `json:"active"`
}

// ItemResponse salida de un ítem con su costo unitario vigente.
type ItemResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Stock     decimal.Decimal `json:"stock"`
	MinStock  decimal.Decimal `json:"min_stock"`
	SalePrice decimal.Decimal `json:"sale_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateCostEntryRequest registro manual de una compra en el historial de costos.
type CreateCostEntryRequest struct {
	Price    decimal.Decimal `json:"price"`    // valor total pagado
	Quantity decimal.Decimal `json:"quantity"` // cantidad comprada
}

// CostEntryResponse salida de un registro del historial de costos.
type CostEntryResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Source    string          `json:"source"`
	NFeID     *string         `json:"nfe_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// RegisterMovementRequest body para POST /api/inventory/movements.
// Price (opcional, solo IN) es el valor total pagado y alimenta el historial de costos.
type RegisterMovementRequest struct {
	ItemID   string           `json:"item_id" validate:"required,uuid"`
	Type     string           `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// MovementResponse salida de un movimiento de inventario.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ItemID        string          `json:"item_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	RefType       string          `json:"ref_type"`
	RefID         string          `json:"ref_id,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
