package postgres

import (
	"context"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

var _ repository.InstallmentRepository = (*InstallmentRepo)(nil)

// InstallmentRepo cuotas de las cuentas por pagar.
type InstallmentRepo struct {
	q Querier
}

func NewInstallmentRepository(q Querier) *InstallmentRepo {
	return &InstallmentRepo{q: q}
}

const installmentColumns = `id, company_id, bill_id, number, due_date, amount, status,
	paid_at, paid_amount, bank_account_id, bank_transaction_id, created_at, updated_at`

func scanInstallment(row interface{ Scan(...any) error }) (*entity.Installment, error) {
	var in entity.Installment
	err := row.Scan(&in.ID, &in.CompanyID, &in.BillID, &in.Number, &in.DueDate, &in.Amount, &in.Status,
		&in.PaidAt, &in.PaidAmount, &in.BankAccountID, &in.BankTransactionID, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *InstallmentRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Installment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapRead(op, err)
	}
	defer rows.Close()

	list := []*entity.Installment{}
	for rows.Next() {
		in, err := scanInstallment(rows)
		if err != nil {
			return nil, wrapRead("scan installment", err)
		}
		list = append(list, in)
	}
	return list, rows.Err()
}

func (r *InstallmentRepo) Create(ctx context.Context, in *entity.Installment) error {
	query := `
		INSERT INTO installments (` + installmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query, in.ID, in.CompanyID, in.BillID, in.Number, in.DueDate, in.Amount, in.Status,
		in.PaidAt, in.PaidAmount, in.BankAccountID, in.BankTransactionID, in.CreatedAt, in.UpdatedAt)
	if err != nil {
		return wrapWrite("insert installment", err)
	}
	return nil
}

func (r *InstallmentRepo) get(ctx context.Context, query, op string, args ...any) (*entity.Installment, error) {
	in, err := scanInstallment(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapRead(op, err)
	}
	return in, nil
}

func (r *InstallmentRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Installment, error) {
	return r.get(ctx, `SELECT `+installmentColumns+` FROM installments WHERE company_id = $1 AND id = $2`, "get installment", companyID, id)
}

// GetForUpdate bloquea la cuota para pagar o cancelar el pago.
func (r *InstallmentRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Installment, error) {
	return r.get(ctx, `SELECT `+installmentColumns+` FROM installments WHERE company_id = $1 AND id = $2 FOR UPDATE`, "get installment for update", companyID, id)
}

func (r *InstallmentRepo) ListByBill(ctx context.Context, billID string) ([]*entity.Installment, error) {
	return r.list(ctx, "list installments by bill",
		`SELECT `+installmentColumns+` FROM installments WHERE bill_id = $1 ORDER BY number`, billID)
}

// List ordena por vencimiento y número de cuota.
func (r *InstallmentRepo) List(ctx context.Context, f repository.InstallmentFilter) ([]*entity.Installment, error) {
	query := `
		SELECT ` + installmentColumns + ` FROM installments
		WHERE company_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3::date IS NULL OR due_date >= $3)
		  AND ($4::date IS NULL OR due_date <= $4)
		ORDER BY due_date, number, id
		LIMIT $5 OFFSET $6`
	return r.list(ctx, "list installments", query, f.CompanyID, f.Status, f.DueFrom, f.DueTo, limitArg(f.Limit), f.Offset)
}

// Update persiste vencimiento, estado y datos del pago.
func (r *InstallmentRepo) Update(ctx context.Context, in *entity.Installment) error {
	query := `
		UPDATE installments SET due_date = $3, amount = $4, status = $5, paid_at = $6, paid_amount = $7,
			bank_account_id = $8, bank_transaction_id = $9, updated_at = $10
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, in.CompanyID, in.ID, in.DueDate, in.Amount, in.Status, in.PaidAt, in.PaidAmount,
		in.BankAccountID, in.BankTransactionID, in.UpdatedAt)
	return execOne(tag, err, "update installment")
}

func (r *InstallmentRepo) DeleteByBill(ctx context.Context, billID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM installments WHERE bill_id = $1`, billID); err != nil {
		return wrapWrite("delete installments", err)
	}
	return nil
}
