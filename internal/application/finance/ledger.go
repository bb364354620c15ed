// Package finance casos de uso de cuentas bancarias, transacciones y cuentas por pagar.
// Toda variación de saldo pasa por Post o Reverse dentro de una transacción de BD.
package finance

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

// Post bloquea la cuenta (SELECT FOR UPDATE), inserta la transacción y ajusta el saldo:
// crédito suma, débito resta. El saldo puede quedar negativo.
func Post(ctx context.Context, r repository.TxRepos, t *entity.BankTransaction) error {
	if !t.Amount.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if t.Type != entity.TransactionCredit && t.Type != entity.TransactionDebit {
		return domain.ErrInvalidInput
	}
	account, err := r.Accounts.GetForUpdate(ctx, t.CompanyID, t.AccountID)
	if err != nil {
		return err
	}
	if account == nil {
		return domain.ErrNotFound
	}
	if !account.Active {
		return domain.ErrAccountInactive
	}
	if err := r.Transactions.Create(ctx, t); err != nil {
		return err
	}
	return r.Accounts.UpdateBalance(ctx, account.ID, account.Balance.Add(t.SignedAmount()))
}

// Reverse elimina la transacción y deshace su efecto en el saldo.
// Se permite aunque la cuenta esté inactiva, para poder cancelar pagos antiguos.
func Reverse(ctx context.Context, r repository.TxRepos, t *entity.BankTransaction) error {
	account, err := r.Accounts.GetForUpdate(ctx, t.CompanyID, t.AccountID)
	if err != nil {
		return err
	}
	if account == nil {
		return domain.ErrNotFound
	}
	if err := r.Transactions.Delete(ctx, t.ID); err != nil {
		return err
	}
	return r.Accounts.UpdateBalance(ctx, account.ID, account.Balance.Sub(t.SignedAmount()))
}
