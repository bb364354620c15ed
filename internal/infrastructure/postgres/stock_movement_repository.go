package postgres

import (
	"context"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo persistencia de movimientos de inventario (solo inserción).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create registra un movimiento. Quantity y TotalCost llevan signo (OUT negativo).
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, company_id, transaction_id, item_id, type, quantity, unit_cost, total_cost, ref_type, ref_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.TransactionID, m.ItemID, m.Type, m.Quantity, m.UnitCost, m.TotalCost,
		m.RefType, m.RefID, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return wrapWrite("insert stock movement", err)
	}
	return nil
}

// List del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, company_id, transaction_id, item_id, type, quantity, unit_cost, total_cost,
		       ref_type, ref_id, created_by, created_at
		FROM stock_movements
		WHERE company_id = $1
		  AND ($2 = '' OR item_id::text = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY seq DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, f.CompanyID, f.ItemID, f.From, f.To, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, wrapRead("list stock movements", err)
	}
	defer rows.Close()

	list := []*entity.StockMovement{}
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.TransactionID, &m.ItemID, &m.Type, &m.Quantity, &m.UnitCost, &m.TotalCost,
			&m.RefType, &m.RefID, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, wrapRead("scan stock movement", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *StockMovementRepo) CountByItem(ctx context.Context, itemID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_movements WHERE item_id = $1`, itemID).Scan(&n); err != nil {
		return 0, wrapRead("count stock movements", err)
	}
	return n, nil
}
