package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de venta.
const (
	SaleStatusCompleted = "completed"
	SaleStatusCanceled  = "canceled"
)

// Sale representa una venta de productos del inventario.
type Sale struct {
	ID                string
	CompanyID         string
	CustomerName      string
	Discount          decimal.Decimal
	Total             decimal.Decimal
	Status            string
	BankAccountID     *string
	BankTransactionID *string
	CreatedBy         string
	CreatedAt         time.Time
	CanceledAt        *time.Time
	Items             []SaleItem
}

// SaleItem línea de venta. UnitCost es el costo unitario vigente al momento de la venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ItemID    string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
	Total     decimal.Decimal
}
