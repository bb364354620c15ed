package dto

import "time"

// SignupRequest alta de una empresa nueva con su primer usuario administrador.
type SignupRequest struct {
	CompanyName   string `json:"company_name" validate:"required,min=1,max=200"`
	CNPJ          string `json:"cnpj" validate:"required,min=14,max=18"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	CompanyEmail  string `json:"company_email" validate:"omitempty,email"`
	AdminName     string `json:"admin_name" validate:"required,min=1,max=200"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
}

// SignupResponse empresa creada más token del administrador.
type SignupResponse struct {
	Company CompanyResponse `json:"company"`
	Token   string          `json:"token"`
	User    UserResponse    `json:"user"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" validate:"omitempty,email"`
}

// CompanyResponse salida de una empresa (sin datos sensibles).
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CNPJ      string    `json:"cnpj"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateModuleRequest activa/desactiva un módulo SaaS.
type UpdateModuleRequest struct {
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// ModuleResponse estado de un módulo de la empresa.
type ModuleResponse struct {
	Name      string     `json:"name"`
	IsActive  bool       `json:"is_active"`
	Enabled   bool       `json:"enabled"` // activo y sin vencer
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
