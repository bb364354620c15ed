package entity

import "time"

// Supplier representa un proveedor de la empresa (emisor de las NFe de compra).
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	CNPJ      string // CNPJ o CPF del emisor, solo dígitos
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
