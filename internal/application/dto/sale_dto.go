package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta. Sin UnitPrice se usa el precio de venta del producto;
// un cero explícito es una venta sin cargo.
type SaleItemRequest struct {
	ItemID    string           `json:"item_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateSaleRequest entrada para registrar una venta.
// BankAccountID opcional: acredita el total en la cuenta.
type CreateSaleRequest struct {
	CustomerName  string            `json:"customer_name" validate:"max=200"`
	Discount      decimal.Decimal   `json:"discount"`
	BankAccountID *string           `json:"bank_account_id" validate:"omitempty,uuid_or_empty"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemResponse salida de una línea de venta.
type SaleItemResponse struct {
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Total     decimal.Decimal `json:"total"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID                string             `json:"id"`
	CustomerName      string             `json:"customer_name"`
	Discount          decimal.Decimal    `json:"discount"`
	Total             decimal.Decimal    `json:"total"`
	Status            string             `json:"status"`
	BankAccountID     *string            `json:"bank_account_id,omitempty"`
	BankTransactionID *string            `json:"bank_transaction_id,omitempty"`
	Items             []SaleItemResponse `json:"items,omitempty"`
	CreatedBy         string             `json:"created_by"`
	CreatedAt         time.Time          `json:"created_at"`
	CanceledAt        *time.Time         `json:"canceled_at,omitempty"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
