package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Orígenes de un registro de costo.
const (
	CostSourceManual   = "manual"
	CostSourceNFe      = "nfe"
	CostSourceMovement = "movement"
)

// CostEntry representa una compra registrada en el historial de costos de un ítem.
// Price es el valor total pagado por Quantity unidades.
type CostEntry struct {
	ID        string
	CompanyID string
	ItemID    string
	Price     decimal.Decimal
	Quantity  decimal.Decimal
	Source    string
	NFeID     *string
	CreatedAt time.Time
}
