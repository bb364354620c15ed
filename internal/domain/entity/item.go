package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clases de ítem de inventario.
const (
	ItemKindIngredient = "ingredient" // insumo
	ItemKindProduct    = "product"    // producto vendible
	ItemKindPackage    = "package"    // embalaje
)

// IsValidItemKind indica si kind es una clase de ítem conocida.
func IsValidItemKind(kind string) bool {
	switch kind {
	case ItemKindIngredient, ItemKindProduct, ItemKindPackage:
		return true
	}
	return false
}

// Item representa un ítem de inventario del tenant (insumo, producto o embalaje).
// Stock solo cambia vía movimientos, ventas o lanzamiento de NFe.
type Item struct {
	ID        string
	CompanyID string
	Kind      string
	SKU       string // código único por empresa
	Name      string
	Unit      string // unidad de medida (kg, un, l...)
	Stock     decimal.Decimal
	MinStock  decimal.Decimal
	SalePrice decimal.Decimal // solo relevante para productos
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
