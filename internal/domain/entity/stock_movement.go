package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste
)

// Referencias de origen de un movimiento.
const (
	MovementRefManual = "manual"
	MovementRefNFe    = "nfe"
	MovementRefSale   = "sale"
)

// StockMovement representa un movimiento de inventario (entrada, salida o ajuste).
type StockMovement struct {
	ID            string
	CompanyID     string
	TransactionID string // agrupa los movimientos de una misma operación
	ItemID        string
	Type          string
	Quantity      decimal.Decimal // positivo entrada/ajuste+, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	RefType       string // manual, nfe, sale
	RefID         string
	CreatedBy     string
	CreatedAt     time.Time
}
