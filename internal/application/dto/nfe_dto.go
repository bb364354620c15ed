package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// NFeItemResponse línea de la NFe con su vínculo.
type NFeItemResponse struct {
	Line        int             `json:"line"`
	Code        string          `json:"code"`
	EAN         string          `json:"ean,omitempty"`
	Description string          `json:"description"`
	NCM         string          `json:"ncm"`
	CFOP        string          `json:"cfop"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	ItemID      *string         `json:"item_id,omitempty"`
	Factor      decimal.Decimal `json:"factor"`
}

// NFeDuplicateResponse duplicata de la NFe.
type NFeDuplicateResponse struct {
	Number  string          `json:"number"`
	DueDate Date            `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// NFeResponse salida de una NFe importada.
type NFeResponse struct {
	ID            string                 `json:"id"`
	AccessKey     string                 `json:"access_key"`
	Number        string                 `json:"number"`
	Series        string                 `json:"series"`
	IssueDate     time.Time              `json:"issue_date"`
	EmitterCNPJ   string                 `json:"emitter_cnpj"`
	EmitterName   string                 `json:"emitter_name"`
	SupplierID    *string                `json:"supplier_id,omitempty"`
	TotalProducts decimal.Decimal        `json:"total_products"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	DigestValid   *bool                  `json:"digest_valid"`
	Status        string                 `json:"status"`
	LaunchedAt    *time.Time             `json:"launched_at,omitempty"`
	BillID        *string                `json:"bill_id,omitempty"`
	UnmappedCount int                    `json:"unmapped_count"`
	Items         []NFeItemResponse      `json:"items,omitempty"`
	Duplicates    []NFeDuplicateResponse `json:"duplicates,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// NFeListResponse lista paginada de NFe.
type NFeListResponse struct {
	Items []NFeResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// MapNFeItemRequest vincula una línea de la NFe a un ítem propio.
// Factor convierte la unidad del proveedor a la del ítem (caja de 12 → 12).
type MapNFeItemRequest struct {
	ItemID string           `json:"item_id" validate:"required,uuid"`
	Factor *decimal.Decimal `json:"factor"`
}

// LaunchNFeRequest opciones del lanzamiento al stock.
type LaunchNFeRequest struct {
	CreateBill bool   `json:"create_bill"`
	Category   string `json:"category" validate:"max=60"`
}
