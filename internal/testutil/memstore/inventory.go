package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

type itemRow struct {
	entity.Item
}

type costRow struct {
	entity.CostEntry
	seq int64
}

type movementRow struct {
	entity.StockMovement
	seq int64
}

var (
	_ repository.ItemRepository          = (*ItemRepo)(nil)
	_ repository.CostEntryRepository     = (*CostEntryRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
)

// ItemRepo ítems de inventario.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) Create(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("items.create"); err != nil {
		return err
	}
	for _, row := range r.s.data.items {
		if row.CompanyID == it.CompanyID && strings.EqualFold(row.SKU, it.SKU) {
			return domain.ErrDuplicate
		}
	}
	r.s.data.items[it.ID] = itemRow{*it}
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, companyID, id string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.items[id]
	if !ok || row.CompanyID != companyID {
		return nil, nil
	}
	it := row.Item
	return &it, nil
}

// GetForUpdate en memoria equivale a GetByID: la exclusión la da TxRunner.
func (r *ItemRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Item, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *ItemRepo) GetBySKU(_ context.Context, companyID, sku string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.data.items {
		if row.CompanyID == companyID && strings.EqualFold(row.SKU, sku) {
			it := row.Item
			return &it, nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) Update(_ context.Context, it *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.items[it.ID]
	if !ok || row.CompanyID != it.CompanyID {
		return domain.ErrNotFound
	}
	stock := row.Stock
	row.Item = *it
	row.Stock = stock
	r.s.data.items[it.ID] = row
	return nil
}

func (r *ItemRepo) UpdateStock(_ context.Context, id string, stock decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("items.update_stock"); err != nil {
		return err
	}
	row, ok := r.s.data.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.Stock = stock
	r.s.data.items[id] = row
	return nil
}

func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	rows := []itemRow{}
	for _, row := range r.s.data.items {
		if row.CompanyID != f.CompanyID {
			continue
		}
		if f.Kind != "" && row.Kind != f.Kind {
			continue
		}
		if f.OnlyActive && !row.Active {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(row.Name), search) && !strings.Contains(strings.ToLower(row.SKU), search) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	out := []*entity.Item{}
	for _, row := range paginate(rows, f.Page) {
		it := row.Item
		out = append(out, &it)
	}
	return out, nil
}

func (r *ItemRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.items[id]
	if !ok || row.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.data.items, id)
	return nil
}

// CostEntryRepo historial de costos (solo inserción).
type CostEntryRepo struct{ s *Store }

func (r *CostEntryRepo) Create(_ context.Context, e *entity.CostEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("costs.create"); err != nil {
		return err
	}
	r.s.data.costs = append(r.s.data.costs, costRow{CostEntry: *e, seq: r.s.next()})
	return nil
}

// Latest último registro por created_at; a igual fecha gana el último insertado.
func (r *CostEntryRepo) Latest(_ context.Context, itemID string) (*entity.CostEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *costRow
	for i := range r.s.data.costs {
		row := &r.s.data.costs[i]
		if row.ItemID != itemID {
			continue
		}
		if latest == nil || !row.CreatedAt.Before(latest.CreatedAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, nil
	}
	e := latest.CostEntry
	return &e, nil
}

func (r *CostEntryRepo) ListByItem(_ context.Context, itemID string, limit, offset int) ([]*entity.CostEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []costRow{}
	for _, row := range r.s.data.costs {
		if row.ItemID == itemID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].seq > rows[j].seq
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	out := []*entity.CostEntry{}
	for _, row := range paginate(rows, repository.Page{Limit: limit, Offset: offset}) {
		e := row.CostEntry
		out = append(out, &e)
	}
	return out, nil
}

// MovementRepo movimientos de inventario (solo inserción).
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("movements.create"); err != nil {
		return err
	}
	r.s.data.movements = append(r.s.data.movements, movementRow{StockMovement: *m, seq: r.s.next()})
	return nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []movementRow{}
	for _, row := range r.s.data.movements {
		if row.CompanyID != f.CompanyID {
			continue
		}
		if f.ItemID != "" && row.ItemID != f.ItemID {
			continue
		}
		if f.From != nil && row.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && row.CreatedAt.After(*f.To) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := []*entity.StockMovement{}
	for _, row := range paginate(rows, f.Page) {
		m := row.StockMovement
		out = append(out, &m)
	}
	return out, nil
}

func (r *MovementRepo) CountByItem(_ context.Context, itemID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, row := range r.s.data.movements {
		if row.ItemID == itemID {
			n++
		}
	}
	return n, nil
}
