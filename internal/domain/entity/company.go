package entity

import "time"

// Estados de una empresa.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
	CompanyStatusInactive  = "inactive"
)

// Company representa una organización/tenant del sistema (multi-tenant, enfoque Brasil).
type Company struct {
	ID        string
	Name      string
	CNPJ      string // solo dígitos, 14 posiciones
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleInventory = "inventory"
	ModuleFinance   = "finance"
	ModuleSales     = "sales"
	ModuleNFe       = "nfe"
)

// AllModules lista los módulos en el orden en que se activan al crear una empresa.
var AllModules = []string{ModuleInventory, ModuleFinance, ModuleSales, ModuleNFe}

// IsValidModule indica si name es un módulo conocido.
func IsValidModule(name string) bool {
	for _, m := range AllModules {
		if m == name {
			return true
		}
	}
	return false
}

// CompanyModule representa la activación de un módulo SaaS en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string // ver constantes Module*
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Enabled informa si el módulo está activo y sin vencer en el instante now.
func (m *CompanyModule) Enabled(now time.Time) bool {
	if m == nil || !m.IsActive {
		return false
	}
	return m.ExpiresAt == nil || m.ExpiresAt.After(now)
}
