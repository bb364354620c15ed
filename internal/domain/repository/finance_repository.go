package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
)

// BankAccountRepository define el puerto de persistencia para cuentas bancarias.
type BankAccountRepository interface {
	Create(ctx context.Context, account *entity.BankAccount) error
	GetByID(ctx context.Context, companyID, id string) (*entity.BankAccount, error)
	// GetForUpdate bloquea la fila de la cuenta para actualizar el saldo.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.BankAccount, error)
	Update(ctx context.Context, account *entity.BankAccount) error
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error
	ListByCompany(ctx context.Context, companyID string, onlyActive bool) ([]*entity.BankAccount, error)
	Delete(ctx context.Context, companyID, id string) error
}

// BankTransactionRepository define el puerto de persistencia para transacciones bancarias.
type BankTransactionRepository interface {
	Create(ctx context.Context, tx *entity.BankTransaction) error
	GetByID(ctx context.Context, companyID, id string) (*entity.BankTransaction, error)
	ListByTransfer(ctx context.Context, companyID, transferID string) ([]*entity.BankTransaction, error)
	List(ctx context.Context, f TransactionFilter) ([]*entity.BankTransaction, error)
	// Totals suma créditos y débitos de la cuenta.
	Totals(ctx context.Context, accountID string) (credits, debits decimal.Decimal, err error)
	CountByAccount(ctx context.Context, accountID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// BillRepository define el puerto de persistencia para cuentas por pagar.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Bill, error)
	Update(ctx context.Context, bill *entity.Bill) error
	List(ctx context.Context, f BillFilter) ([]*entity.Bill, error)
	Delete(ctx context.Context, companyID, id string) error
}

// InstallmentRepository define el puerto de persistencia para cuotas.
type InstallmentRepository interface {
	Create(ctx context.Context, installment *entity.Installment) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Installment, error)
	// GetForUpdate bloquea la cuota (SELECT FOR UPDATE) para pagar o cancelar el pago.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Installment, error)
	ListByBill(ctx context.Context, billID string) ([]*entity.Installment, error)
	List(ctx context.Context, f InstallmentFilter) ([]*entity.Installment, error)
	Update(ctx context.Context, installment *entity.Installment) error
	DeleteByBill(ctx context.Context, billID string) error
}
