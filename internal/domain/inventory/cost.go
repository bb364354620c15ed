package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
)

// UnitCost costo unitario vigente de un ítem (servicio de dominio).
// CostoUnitario = PrecioÚltimaCompra / CantidadÚltimaCompra. No promedia el historial:
// cada compra nueva reemplaza el costo por completo.
func UnitCost(latest *entity.CostEntry) decimal.Decimal {
	if latest == nil || !latest.Quantity.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return latest.Price.Div(latest.Quantity)
}

// StockValue valor del stock a costo unitario vigente.
func StockValue(stock decimal.Decimal, latest *entity.CostEntry) decimal.Decimal {
	return stock.Mul(UnitCost(latest))
}

// MovementCost costo unitario a registrar en un movimiento de entrada con precio total.
// Sin precio usa el costo vigente.
func MovementCost(price *decimal.Decimal, quantity decimal.Decimal, latest *entity.CostEntry) decimal.Decimal {
	if price != nil && quantity.GreaterThan(decimal.Zero) {
		return price.Div(quantity)
	}
	return UnitCost(latest)
}
