package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción bancaria.
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// BankTransaction representa un lanzamiento en una cuenta bancaria. Amount siempre es positivo;
// el signo lo da Type.
type BankTransaction struct {
	ID            string
	CompanyID     string
	AccountID     string
	Type          string
	Amount        decimal.Decimal
	Description   string
	Date          time.Time
	InstallmentID *string
	SaleID        *string
	TransferID    *string
	CreatedBy     string
	CreatedAt     time.Time
}

// SignedAmount devuelve el efecto de la transacción sobre el saldo.
func (t *BankTransaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Linked indica si la transacción pertenece a una cuota o venta (no se borra directamente).
func (t *BankTransaction) Linked() bool {
	return t.InstallmentID != nil || t.SaleID != nil
}
