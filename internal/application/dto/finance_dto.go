package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest entrada para crear una cuenta bancaria.
type CreateBankAccountRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=120"`
	BankName       string          `json:"bank_name" validate:"max=120"`
	Agency         string          `json:"agency" validate:"max=20"`
	Number         string          `json:"number" validate:"max=30"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// UpdateBankAccountRequest entrada para actualizar datos descriptivos de la cuenta.
// El saldo nunca se edita directamente.
type UpdateBankAccountRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	BankName *string `json:"bank_name" validate:"omitempty,max=120"`
	Agency   *string `json:"agency" validate:"omitempty,max=20"`
	Number   *string `json:"number" validate:"omitempty,max=30"`
	Active   *bool   `json:"active"`
}

// BankAccountResponse salida de una cuenta bancaria.
type BankAccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	BankName       string          `json:"bank_name"`
	Agency         string          `json:"agency"`
	Number         string          `json:"number"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BankAccountListResponse lista de cuentas.
type BankAccountListResponse struct {
	Items []BankAccountResponse `json:"items"`
}

// PostTransactionRequest lanzamiento manual de crédito o débito.
type PostTransactionRequest struct {
	Type        string          `json:"type" validate:"required,oneof=credit debit"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=255"`
	Date        Date            `json:"date"`
}

// TransferRequest transferencia entre dos cuentas del tenant.
type TransferRequest struct {
	FromAccountID string          `json:"from_account_id" validate:"required,uuid"`
	ToAccountID   string          `json:"to_account_id" validate:"required,uuid,nefield=FromAccountID"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description" validate:"max=255"`
	Date          Date            `json:"date"`
}

// TransferResponse ambas patas de la transferencia.
type TransferResponse struct {
	TransferID string              `json:"transfer_id"`
	Debit      TransactionResponse `json:"debit"`
	Credit     TransactionResponse `json:"credit"`
}

// TransactionResponse salida de una transacción bancaria.
type TransactionResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          Date            `json:"date"`
	InstallmentID *string         `json:"installment_id,omitempty"`
	SaleID        *string         `json:"sale_id,omitempty"`
	TransferID    *string         `json:"transfer_id,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransactionListResponse lista paginada de transacciones.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ReconcileResponse resultado de recalcular el saldo desde las transacciones.
type ReconcileResponse struct {
	AccountID string          `json:"account_id"`
	Previous  decimal.Decimal `json:"previous"`
	Balance   decimal.Decimal `json:"balance"`
	Drift     decimal.Decimal `json:"drift"` // Balance - Previous
}
