package postgres

import (
	"context"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo cuentas por pagar. El estado no se persiste: se deriva de las cuotas.
type BillRepo struct {
	q Querier
}

func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

const billColumns = `id, company_id, supplier_id, nfe_id, description, category, total_amount, issue_date, created_by, created_at, updated_at`

func scanBill(row interface{ Scan(...any) error }) (*entity.Bill, error) {
	var b entity.Bill
	err := row.Scan(&b.ID, &b.CompanyID, &b.SupplierID, &b.NFeID, &b.Description, &b.Category,
		&b.TotalAmount, &b.IssueDate, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BillRepo) Create(ctx context.Context, b *entity.Bill) error {
	query := `INSERT INTO bills (` + billColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, b.ID, b.CompanyID, b.SupplierID, b.NFeID, b.Description, b.Category,
		b.TotalAmount, b.IssueDate, b.CreatedBy, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return wrapWrite("insert bill", err)
	}
	return nil
}

func (r *BillRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE company_id = $1 AND id = $2`
	b, err := scanBill(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapRead("get bill", err)
	}
	return b, nil
}

func (r *BillRepo) Update(ctx context.Context, b *entity.Bill) error {
	query := `
		UPDATE bills SET supplier_id = $3, description = $4, category = $5, updated_at = $6
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, b.CompanyID, b.ID, b.SupplierID, b.Description, b.Category, b.UpdatedAt)
	return execOne(tag, err, "update bill")
}

// List filtra por estado derivado igual que entity.BillStatus: sin cuotas pagadas es pending,
// todas pagadas es paid, el resto partial.
func (r *BillRepo) List(ctx context.Context, f repository.BillFilter) ([]*entity.Bill, error) {
	query := `
		SELECT ` + billColumns + ` FROM bills b
		WHERE b.company_id = $1
		  AND ($2 = '' OR b.supplier_id::text = $2)
		  AND ($3 = '' OR (
			SELECT CASE
				WHEN count(*) FILTER (WHERE i.status = 'paid') = 0 THEN 'pending'
				WHEN count(*) FILTER (WHERE i.status = 'paid') = count(*) THEN 'paid'
				ELSE 'partial'
			END
			FROM installments i WHERE i.bill_id = b.id
		  ) = $3)
		ORDER BY b.seq DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.CompanyID, f.SupplierID, f.Status, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, wrapRead("list bills", err)
	}
	defer rows.Close()

	list := []*entity.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, wrapRead("scan bill", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *BillRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM bills WHERE company_id = $1 AND id = $2`, companyID, id)
	return execOne(tag, err, "delete bill")
}
