package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, company_id, kind, sku, name, unit, stock, min_stock, sale_price, active, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.CompanyID, &it.Kind, &it.SKU, &it.Name, &it.Unit,
		&it.Stock, &it.MinStock, &it.SalePrice, &it.Active, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserta el ítem. SKU repetido en la empresa (sin distinguir mayúsculas) es ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.CompanyID, it.Kind, it.SKU, it.Name, it.Unit,
		it.Stock, it.MinStock, it.SalePrice, it.Active, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert item", err)
	}
	return nil
}

func (r *ItemRepo) get(ctx context.Context, query, op string, args ...any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapRead(op, err)
	}
	return it, nil
}

func (r *ItemRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE company_id = $1 AND id = $2`, "get item", companyID, id)
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE company_id = $1 AND id = $2 FOR UPDATE`, "get item for update", companyID, id)
}

func (r *ItemRepo) GetBySKU(ctx context.Context, companyID, sku string) (*entity.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE company_id = $1 AND lower(sku) = lower($2)`, "get item by SKU", companyID, sku)
}

// Update no toca el stock: solo UpdateStock lo cambia.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET kind = $3, sku = $4, name = $5, unit = $6, min_stock = $7, sale_price = $8, active = $9, updated_at = $10
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		it.CompanyID, it.ID, it.Kind, it.SKU, it.Name, it.Unit, it.MinStock, it.SalePrice, it.Active, it.UpdatedAt,
	)
	return execOne(tag, err, "update item")
}

func (r *ItemRepo) UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	return execOne(tag, err, "update item stock")
}

func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + ` FROM items
		WHERE company_id = $1
		  AND ($2 = '' OR kind = $2)
		  AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR sku ILIKE '%' || $3 || '%')
		  AND (NOT $4 OR active)
		ORDER BY name, id
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, f.CompanyID, f.Kind, f.Search, f.OnlyActive, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, wrapRead("list items", err)
	}
	defer rows.Close()

	list := []*entity.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, wrapRead("scan item", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Delete borra el ítem; con movimientos o ventas la FK lo impide (ErrConflict).
func (r *ItemRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM items WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return wrapWrite("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
