package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

var _ repository.BankTransactionRepository = (*BankTransactionRepo)(nil)

// BankTransactionRepo créditos y débitos de las cuentas.
type BankTransactionRepo struct {
	q Querier
}

func NewBankTransactionRepository(q Querier) *BankTransactionRepo {
	return &BankTransactionRepo{q: q}
}

const transactionColumns = `id, company_id, account_id, type, amount, description, date,
	installment_id, sale_id, transfer_id, created_by, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (*entity.BankTransaction, error) {
	var t entity.BankTransaction
	err := row.Scan(&t.ID, &t.CompanyID, &t.AccountID, &t.Type, &t.Amount, &t.Description, &t.Date,
		&t.InstallmentID, &t.SaleID, &t.TransferID, &t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTransactions(ctx context.Context, q Querier, op, query string, args ...any) ([]*entity.BankTransaction, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapRead(op, err)
	}
	defer rows.Close()

	list := []*entity.BankTransaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, wrapRead("scan bank transaction", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *BankTransactionRepo) Create(ctx context.Context, t *entity.BankTransaction) error {
	query := `
		INSERT INTO bank_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, t.ID, t.CompanyID, t.AccountID, t.Type, t.Amount, t.Description, t.Date,
		t.InstallmentID, t.SaleID, t.TransferID, t.CreatedBy, t.CreatedAt)
	if err != nil {
		return wrapWrite("insert bank transaction", err)
	}
	return nil
}

func (r *BankTransactionRepo) GetByID(ctx context.Context, companyID, id string) (*entity.BankTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM bank_transactions WHERE company_id = $1 AND id = $2`
	t, err := scanTransaction(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapRead("get bank transaction", err)
	}
	return t, nil
}

// ListByTransfer devuelve las dos patas de una transferencia.
func (r *BankTransactionRepo) ListByTransfer(ctx context.Context, companyID, transferID string) ([]*entity.BankTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM bank_transactions WHERE company_id = $1 AND transfer_id = $2 ORDER BY seq`
	return scanTransactions(ctx, r.q, "list transfer legs", query, companyID, transferID)
}

// List por fecha descendente; a igual fecha la última creada primero.
func (r *BankTransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.BankTransaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM bank_transactions
		WHERE company_id = $1
		  AND ($2 = '' OR account_id::text = $2)
		  AND ($3::date IS NULL OR date >= $3)
		  AND ($4::date IS NULL OR date <= $4)
		ORDER BY date DESC, seq DESC
		LIMIT $5 OFFSET $6`
	return scanTransactions(ctx, r.q, "list bank transactions", query,
		f.CompanyID, f.AccountID, f.From, f.To, limitArg(f.Limit), f.Offset)
}

func (r *BankTransactionRepo) Totals(ctx context.Context, accountID string) (credits, debits decimal.Decimal, err error) {
	const query = `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'credit'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'debit'), 0)
		FROM bank_transactions WHERE account_id = $1`
	if err := r.q.QueryRow(ctx, query, accountID).Scan(&credits, &debits); err != nil {
		return decimal.Zero, decimal.Zero, wrapRead("bank transaction totals", err)
	}
	return credits, debits, nil
}

func (r *BankTransactionRepo) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM bank_transactions WHERE account_id = $1`, accountID).Scan(&n); err != nil {
		return 0, wrapRead("count bank transactions", err)
	}
	return n, nil
}

func (r *BankTransactionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM bank_transactions WHERE id = $1`, id)
	return execOne(tag, err, "delete bank transaction")
}
