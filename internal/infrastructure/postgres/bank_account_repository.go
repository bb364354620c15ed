package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

var _ repository.BankAccountRepository = (*BankAccountRepo)(nil)

// BankAccountRepo cuentas bancarias y cajas de la empresa.
type BankAccountRepo struct {
	q Querier
}

func NewBankAccountRepository(q Querier) *BankAccountRepo {
	return &BankAccountRepo{q: q}
}

const accountColumns = `id, company_id, name, bank_name, agency, number, initial_balance, balance, active, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*entity.BankAccount, error) {
	var a entity.BankAccount
	err := row.Scan(&a.ID, &a.CompanyID, &a.Name, &a.BankName, &a.Agency, &a.Number,
		&a.InitialBalance, &a.Balance, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *BankAccountRepo) Create(ctx context.Context, a *entity.BankAccount) error {
	query := `INSERT INTO bank_accounts (` + accountColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, a.ID, a.CompanyID, a.Name, a.BankName, a.Agency, a.Number,
		a.InitialBalance, a.Balance, a.Active, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return wrapWrite("insert bank account", err)
	}
	return nil
}

func (r *BankAccountRepo) get(ctx context.Context, query, op string, args ...any) (*entity.BankAccount, error) {
	a, err := scanAccount(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapRead(op, err)
	}
	return a, nil
}

func (r *BankAccountRepo) GetByID(ctx context.Context, companyID, id string) (*entity.BankAccount, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM bank_accounts WHERE company_id = $1 AND id = $2`, "get bank account", companyID, id)
}

// GetForUpdate bloquea la fila de la cuenta hasta el fin de la tx.
func (r *BankAccountRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.BankAccount, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM bank_accounts WHERE company_id = $1 AND id = $2 FOR UPDATE`, "get bank account for update", companyID, id)
}

// Update no toca el saldo: solo UpdateBalance lo cambia.
func (r *BankAccountRepo) Update(ctx context.Context, a *entity.BankAccount) error {
	query := `
		UPDATE bank_accounts SET name = $3, bank_name = $4, agency = $5, number = $6, active = $7, updated_at = $8
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, a.CompanyID, a.ID, a.Name, a.BankName, a.Agency, a.Number, a.Active, a.UpdatedAt)
	return execOne(tag, err, "update bank account")
}

func (r *BankAccountRepo) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE bank_accounts SET balance = $2, updated_at = now() WHERE id = $1`, id, balance)
	return execOne(tag, err, "update bank account balance")
}

func (r *BankAccountRepo) ListByCompany(ctx context.Context, companyID string, onlyActive bool) ([]*entity.BankAccount, error) {
	query := `
		SELECT ` + accountColumns + ` FROM bank_accounts
		WHERE company_id = $1 AND (NOT $2 OR active)
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, companyID, onlyActive)
	if err != nil {
		return nil, wrapRead("list bank accounts", err)
	}
	defer rows.Close()

	list := []*entity.BankAccount{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, wrapRead("scan bank account", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *BankAccountRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM bank_accounts WHERE company_id = $1 AND id = $2`, companyID, id)
	return execOne(tag, err, "delete bank account")
}
