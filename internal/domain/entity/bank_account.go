package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount representa una cuenta bancaria o caja del tenant.
// Balance se mantiene en la misma transacción que cada BankTransaction.
type BankAccount struct {
	ID             string
	CompanyID      string
	Name           string
	BankName       string
	Agency         string
	Number         string
	InitialBalance decimal.Decimal
	Balance        decimal.Decimal
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
