package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una NFe importada.
const (
	NFeStatusPending  = "pending"
	NFeStatusLaunched = "launched"
)

// NFe representa una nota fiscal electrónica de proveedor importada desde XML.
type NFe struct {
	ID            string
	CompanyID     string
	AccessKey     string // chave de acesso, 44 dígitos
	Number        string
	Series        string
	IssueDate     time.Time
	EmitterCNPJ   string
	EmitterName   string
	SupplierID    *string
	TotalProducts decimal.Decimal
	TotalAmount   decimal.Decimal
	DigestValid   *bool // nil = documento sin firma
	Status        string
	LaunchedAt    *time.Time
	BillID        *string
	RawXML        []byte
	CreatedBy     string
	CreatedAt     time.Time
	Items         []NFeItem
	Duplicates    []NFeDuplicate
}

// NFeItem línea (det) de la NFe. ItemID/Factor vinculan la línea a un ítem propio:
// la cantidad lanzada al stock es Quantity * Factor.
type NFeItem struct {
	ID          string
	NFeID       string
	Line        int
	Code        string // cProd del proveedor
	EAN         string
	Description string
	NCM         string
	CFOP        string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	ItemID      *string
	Factor      decimal.Decimal
}

// Mapped indica si la línea ya está vinculada a un ítem.
func (i *NFeItem) Mapped() bool {
	return i.ItemID != nil && *i.ItemID != ""
}

// StockQuantity cantidad que entra al stock del ítem vinculado.
func (i *NFeItem) StockQuantity() decimal.Decimal {
	factor := i.Factor
	if factor.IsZero() {
		factor = decimal.NewFromInt(1)
	}
	return i.Quantity.Mul(factor)
}

// NFeDuplicate duplicata (cobr/dup) de la NFe: vencimiento y valor de cada cuota.
type NFeDuplicate struct {
	Number  string
	DueDate time.Time
	Amount  decimal.Decimal
}

// NFeItemMapping memoria de vínculo: código del proveedor → ítem propio.
type NFeItemMapping struct {
	CompanyID    string
	SupplierCNPJ string
	SupplierCode string
	ItemID       string
	Factor       decimal.Decimal
	UpdatedAt    time.Time
}
