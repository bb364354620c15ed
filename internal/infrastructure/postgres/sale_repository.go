package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y sus líneas.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, company_id, customer_name, discount, total, status, bank_account_id, bank_transaction_id, created_by, created_at, canceled_at`

func scanSale(row interface{ Scan(...any) error }) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.CompanyID, &s.CustomerName, &s.Discount, &s.Total, &s.Status,
		&s.BankAccountID, &s.BankTransactionID, &s.CreatedBy, &s.CreatedAt, &s.CanceledAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la cabecera y las líneas; las líneas van en un solo batch.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `INSERT INTO sales (` + saleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, s.ID, s.CompanyID, s.CustomerName, s.Discount, s.Total, s.Status,
		s.BankAccountID, s.BankTransactionID, s.CreatedBy, s.CreatedAt, s.CanceledAt)
	if err != nil {
		return wrapWrite("insert sale", err)
	}
	if len(s.Items) == 0 {
		return nil
	}
	const itemQuery = `
		INSERT INTO sale_items (id, sale_id, item_id, quantity, unit_price, unit_cost, total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	batch := &pgx.Batch{}
	for i, it := range s.Items {
		batch.Queue(itemQuery, it.ID, s.ID, it.ItemID, it.Quantity, it.UnitPrice, it.UnitCost, it.Total, i)
	}
	if err := sendBatch(ctx, r.q, batch); err != nil {
		return wrapWrite("insert sale items", err)
	}
	return nil
}

func (r *SaleRepo) get(ctx context.Context, query, op string, args ...any) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapRead(op, err)
	}
	if err := r.loadItems(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE company_id = $1 AND id = $2`, "get sale", companyID, id)
}

// GetForUpdate bloquea la cabecera; las líneas son inmutables.
func (r *SaleRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE company_id = $1 AND id = $2 FOR UPDATE`, "get sale for update", companyID, id)
}

// Update cambia estado y referencias; las líneas no se tocan.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales SET status = $3, bank_account_id = $4, bank_transaction_id = $5, canceled_at = $6
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, s.CompanyID, s.ID, s.Status, s.BankAccountID, s.BankTransactionID, s.CanceledAt)
	return execOne(tag, err, "update sale")
}

func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + ` FROM sales
		WHERE company_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY seq DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, f.CompanyID, f.Status, f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, wrapRead("list sales", err)
	}
	defer rows.Close()

	list := []*entity.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, wrapRead("scan sale", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapRead("list sales", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadItems carga las líneas de todas las ventas en una sola consulta.
func (r *SaleRepo) loadItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, len(sales))
	byID := make(map[string]*entity.Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
		s.Items = []entity.SaleItem{}
	}
	const query = `
		SELECT id, sale_id, item_id, quantity, unit_price, unit_cost, total
		FROM sale_items WHERE sale_id::text = ANY($1)
		ORDER BY sale_id, position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return wrapRead("list sale items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ItemID, &it.Quantity, &it.UnitPrice, &it.UnitCost, &it.Total); err != nil {
			return wrapRead("scan sale item", err)
		}
		if s, ok := byID[it.SaleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}
