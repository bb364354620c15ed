package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cuenta por pagar (derivados de sus cuotas).
const (
	BillStatusPending = "pending"
	BillStatusPartial = "partial"
	BillStatusPaid    = "paid"
)

// Estados de una cuota.
const (
	InstallmentPending = "pending"
	InstallmentPaid    = "paid"
)

// Bill representa una obligación de pago dividida en una o más cuotas.
type Bill struct {
	ID          string
	CompanyID   string
	SupplierID  *string
	NFeID       *string
	Description string
	Category    string
	TotalAmount decimal.Decimal
	IssueDate   time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Installment representa un pago programado de una Bill.
type Installment struct {
	ID                string
	CompanyID         string
	BillID            string
	Number            int
	DueDate           time.Time
	Amount            decimal.Decimal
	Status            string
	PaidAt            *time.Time
	PaidAmount        *decimal.Decimal
	BankAccountID     *string
	BankTransactionID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BillStatus deriva el estado de la cuenta a partir de sus cuotas.
func BillStatus(installments []*Installment) string {
	paid := 0
	for _, in := range installments {
		if in.Status == InstallmentPaid {
			paid++
		}
	}
	switch {
	case paid == 0:
		return BillStatusPending
	case paid == len(installments):
		return BillStatusPaid
	default:
		return BillStatusPartial
	}
}
