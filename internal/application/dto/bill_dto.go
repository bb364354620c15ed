package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleItem cuota explícita (vencimiento y valor).
type ScheduleItem struct {
	DueDate Date            `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// CreateBillRequest entrada para crear una cuenta por pagar.
// Con Installments vacío se divide TotalAmount en InstallmentCount cuotas mensuales desde FirstDueDate.
type CreateBillRequest struct {
	SupplierID       *string         `json:"supplier_id" validate:"omitempty,uuid_or_empty"`
	Description      string          `json:"description" validate:"required,min=1,max=255"`
	Category         string          `json:"category" validate:"max=60"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	IssueDate        Date            `json:"issue_date"`
	InstallmentCount int             `json:"installment_count" validate:"omitempty,min=1,max=360"`
	FirstDueDate     Date            `json:"first_due_date"`
	Installments     []ScheduleItem  `json:"installments" validate:"omitempty,max=360"`
}

// UpdateBillRequest datos descriptivos de la cuenta (el valor y las cuotas no cambian).
type UpdateBillRequest struct {
	SupplierID  *string `json:"supplier_id" validate:"omitempty,uuid_or_empty"`
	Description *string `json:"description" validate:"omitempty,min=1,max=255"`
	Category    *string `json:"category" validate:"omitempty,max=60"`
}

// BillResponse salida de una cuenta por pagar con sus cuotas.
type BillResponse struct {
	ID           string                `json:"id"`
	SupplierID   *string               `json:"supplier_id,omitempty"`
	NFeID        *string               `json:"nfe_id,omitempty"`
	Description  string                `json:"description"`
	Category     string                `json:"category"`
	TotalAmount  decimal.Decimal       `json:"total_amount"`
	PaidAmount   decimal.Decimal       `json:"paid_amount"`
	IssueDate    Date                  `json:"issue_date"`
	Status       string                `json:"status"`
	Installments []InstallmentResponse `json:"installments,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// BillListResponse lista paginada de cuentas.
type BillListResponse struct {
	Items []BillResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// InstallmentResponse salida de una cuota.
type InstallmentResponse struct {
	ID                string           `json:"id"`
	BillID            string           `json:"bill_id"`
	Number            int              `json:"number"`
	DueDate           Date             `json:"due_date"`
	Amount            decimal.Decimal  `json:"amount"`
	Status            string           `json:"status"`
	Overdue           bool             `json:"overdue"`
	PaidAt            *time.Time       `json:"paid_at,omitempty"`
	PaidAmount        *decimal.Decimal `json:"paid_amount,omitempty"`
	BankAccountID     *string          `json:"bank_account_id,omitempty"`
	BankTransactionID *string          `json:"bank_transaction_id,omitempty"`
}

// InstallmentListResponse lista paginada de cuotas.
type InstallmentListResponse struct {
	Items []InstallmentResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// PayInstallmentRequest pago de una cuota desde una cuenta bancaria.
// Amount vacío = valor de la cuota; distinto permite intereses o descuento.
type PayInstallmentRequest struct {
	BankAccountID string           `json:"bank_account_id" validate:"required,uuid"`
	PaidAt        Date             `json:"paid_at"`
	Amount        *decimal.Decimal `json:"amount"`
	Description   string           `json:"description" validate:"max=255"`
}

// RescheduleInstallmentRequest nuevo vencimiento de una cuota pendiente.
type RescheduleInstallmentRequest struct {
	DueDate Date `json:"due_date"`
}
