package postgres

import (
	"context"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

var _ repository.CostEntryRepository = (*CostEntryRepo)(nil)

// CostEntryRepo historial de compras por ítem (solo inserción).
type CostEntryRepo struct {
	q Querier
}

func NewCostEntryRepository(q Querier) *CostEntryRepo {
	return &CostEntryRepo{q: q}
}

const costColumns = `id, company_id, item_id, price, quantity, source, nfe_id, created_at`

func scanCost(row interface{ Scan(...any) error }) (*entity.CostEntry, error) {
	var e entity.CostEntry
	if err := row.Scan(&e.ID, &e.CompanyID, &e.ItemID, &e.Price, &e.Quantity, &e.Source, &e.NFeID, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *CostEntryRepo) Create(ctx context.Context, e *entity.CostEntry) error {
	query := `INSERT INTO cost_entries (` + costColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, e.ID, e.CompanyID, e.ItemID, e.Price, e.Quantity, e.Source, e.NFeID, e.CreatedAt)
	if err != nil {
		return wrapWrite("insert cost entry", err)
	}
	return nil
}

// Latest compra más reciente; a igual created_at gana la última insertada (seq).
func (r *CostEntryRepo) Latest(ctx context.Context, itemID string) (*entity.CostEntry, error) {
	query := `SELECT ` + costColumns + ` FROM cost_entries WHERE item_id = $1 ORDER BY created_at DESC, seq DESC LIMIT 1`
	e, err := scanCost(r.q.QueryRow(ctx, query, itemID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapRead("latest cost entry", err)
	}
	return e, nil
}

func (r *CostEntryRepo) ListByItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.CostEntry, error) {
	query := `
		SELECT ` + costColumns + ` FROM cost_entries
		WHERE item_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, itemID, limitArg(limit), offset)
	if err != nil {
		return nil, wrapRead("list cost entries", err)
	}
	defer rows.Close()

	list := []*entity.CostEntry{}
	for rows.Next() {
		e, err := scanCost(rows)
		if err != nil {
			return nil, wrapRead("scan cost entry", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
