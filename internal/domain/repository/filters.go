package repository

import "time"

// Page paginación común para listados.
type Page struct {
	Limit  int
	Offset int
}

// ItemFilter filtros de listado de ítems.
type ItemFilter struct {
	CompanyID  string
	Kind       string
	Search     string // coincide con nombre o SKU (ILIKE)
	OnlyActive bool
	Page
}

// MovementFilter filtros de listado de movimientos.
type MovementFilter struct {
	CompanyID string
	ItemID    string
	From, To  *time.Time
	Page
}

// TransactionFilter filtros de listado de transacciones bancarias.
type TransactionFilter struct {
	CompanyID string
	AccountID string
	From, To  *time.Time
	Page
}

// BillFilter filtros de listado de cuentas por pagar.
type BillFilter struct {
	CompanyID  string
	SupplierID string
	Status     string // pending, partial, paid (derivado)
	Page
}

// InstallmentFilter filtros de listado de cuotas.
type InstallmentFilter struct {
	CompanyID string
	Status    string
	DueFrom   *time.Time
	DueTo     *time.Time
	Page
}

// SaleFilter filtros de listado de ventas.
type SaleFilter struct {
	CompanyID string
	Status    string
	From, To  *time.Time
	Page
}

// NFeFilter filtros de listado de NFe.
type NFeFilter struct {
	CompanyID string
	Status    string
	Page
}
