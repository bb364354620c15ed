package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

var (
	_ repository.NFeRepository        = (*NFeRepo)(nil)
	_ repository.NFeMappingRepository = (*NFeMappingRepo)(nil)
)

// NFeRepo notas fiscales importadas con ítems y duplicatas.
type NFeRepo struct {
	q Querier
}

func NewNFeRepository(q Querier) *NFeRepo {
	return &NFeRepo{q: q}
}

// raw_xml solo se escribe: las lecturas no lo cargan.
const nfeColumns = `id, company_id, access_key, number, series, issue_date, emitter_cnpj, emitter_name,
	supplier_id, total_products, total_amount, digest_valid, status, launched_at, bill_id, created_by, created_at`

func scanNFe(row interface{ Scan(...any) error }) (*entity.NFe, error) {
	var n entity.NFe
	err := row.Scan(&n.ID, &n.CompanyID, &n.AccessKey, &n.Number, &n.Series, &n.IssueDate, &n.EmitterCNPJ, &n.EmitterName,
		&n.SupplierID, &n.TotalProducts, &n.TotalAmount, &n.DigestValid, &n.Status, &n.LaunchedAt, &n.BillID, &n.CreatedBy, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create persiste cabecera, ítems y duplicatas. Clave repetida en la empresa es ErrDuplicate.
func (r *NFeRepo) Create(ctx context.Context, n *entity.NFe) error {
	query := `
		INSERT INTO nfes (` + nfeColumns + `, raw_xml)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.CompanyID, n.AccessKey, n.Number, n.Series, n.IssueDate, n.EmitterCNPJ, n.EmitterName,
		n.SupplierID, n.TotalProducts, n.TotalAmount, n.DigestValid, n.Status, n.LaunchedAt, n.BillID, n.CreatedBy, n.CreatedAt,
		n.RawXML,
	)
	if err != nil {
		return wrapWrite("insert nfe", err)
	}

	batch := &pgx.Batch{}
	const itemQuery = `
		INSERT INTO nfe_items (id, nfe_id, line, code, ean, description, ncm, cfop, unit, quantity, unit_price, total_price, item_id, factor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	for _, it := range n.Items {
		batch.Queue(itemQuery, it.ID, n.ID, it.Line, it.Code, it.EAN, it.Description, it.NCM, it.CFOP, it.Unit,
			it.Quantity, it.UnitPrice, it.TotalPrice, it.ItemID, it.Factor)
	}
	const dupQuery = `INSERT INTO nfe_duplicates (nfe_id, position, number, due_date, amount) VALUES ($1, $2, $3, $4, $5)`
	for i, d := range n.Duplicates {
		batch.Queue(dupQuery, n.ID, i, d.Number, d.DueDate, d.Amount)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := sendBatch(ctx, r.q, batch); err != nil {
		return wrapWrite("insert nfe lines", err)
	}
	return nil
}

func (r *NFeRepo) get(ctx context.Context, query, op string, args ...any) (*entity.NFe, error) {
	n, err := scanNFe(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapRead(op, err)
	}
	if err := r.loadChildren(ctx, []*entity.NFe{n}); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NFeRepo) GetByID(ctx context.Context, companyID, id string) (*entity.NFe, error) {
	return r.get(ctx, `SELECT `+nfeColumns+` FROM nfes WHERE company_id = $1 AND id = $2`, "get nfe", companyID, id)
}

// GetForUpdate bloquea la cabecera: dos lanzamientos concurrentes de la misma NFe se serializan.
func (r *NFeRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.NFe, error) {
	return r.get(ctx, `SELECT `+nfeColumns+` FROM nfes WHERE company_id = $1 AND id = $2 FOR UPDATE`, "get nfe for update", companyID, id)
}

func (r *NFeRepo) GetByAccessKey(ctx context.Context, companyID, key string) (*entity.NFe, error) {
	return r.get(ctx, `SELECT `+nfeColumns+` FROM nfes WHERE company_id = $1 AND access_key = $2`, "get nfe by access key", companyID, key)
}

func (r *NFeRepo) List(ctx context.Context, f repository.NFeFilter) ([]*entity.NFe, error) {
	query := `
		SELECT ` + nfeColumns + ` FROM nfes
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY seq DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.CompanyID, f.Status, limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, wrapRead("list nfes", err)
	}
	defer rows.Close()

	list := []*entity.NFe{}
	for rows.Next() {
		n, err := scanNFe(rows)
		if err != nil {
			return nil, wrapRead("scan nfe", err)
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapRead("list nfes", err)
	}
	if err := r.loadChildren(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadChildren carga ítems y duplicatas de todas las NFe con dos consultas.
func (r *NFeRepo) loadChildren(ctx context.Context, nfes []*entity.NFe) error {
	if len(nfes) == 0 {
		return nil
	}
	ids := make([]string, len(nfes))
	byID := make(map[string]*entity.NFe, len(nfes))
	for i, n := range nfes {
		ids[i] = n.ID
		byID[n.ID] = n
		n.Items = []entity.NFeItem{}
		n.Duplicates = []entity.NFeDuplicate{}
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, nfe_id, line, code, ean, description, ncm, cfop, unit, quantity, unit_price, total_price, item_id, factor
		FROM nfe_items WHERE nfe_id::text = ANY($1)
		ORDER BY nfe_id, line`, ids)
	if err != nil {
		return wrapRead("list nfe items", err)
	}
	for rows.Next() {
		var it entity.NFeItem
		if err := rows.Scan(&it.ID, &it.NFeID, &it.Line, &it.Code, &it.EAN, &it.Description, &it.NCM, &it.CFOP, &it.Unit,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.ItemID, &it.Factor); err != nil {
			rows.Close()
			return wrapRead("scan nfe item", err)
		}
		if n, ok := byID[it.NFeID]; ok {
			n.Items = append(n.Items, it)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return wrapRead("list nfe items", err)
	}

	rows, err = r.q.Query(ctx, `
		SELECT nfe_id, number, due_date, amount
		FROM nfe_duplicates WHERE nfe_id::text = ANY($1)
		ORDER BY nfe_id, position`, ids)
	if err != nil {
		return wrapRead("list nfe duplicates", err)
	}
	defer rows.Close()
	for rows.Next() {
		var nfeID string
		var d entity.NFeDuplicate
		if err := rows.Scan(&nfeID, &d.Number, &d.DueDate, &d.Amount); err != nil {
			return wrapRead("scan nfe duplicate", err)
		}
		if n, ok := byID[nfeID]; ok {
			n.Duplicates = append(n.Duplicates, d)
		}
	}
	return rows.Err()
}

// UpdateItemMapping vincula la línea (por nfe_id y número de línea) a un ítem propio.
func (r *NFeRepo) UpdateItemMapping(ctx context.Context, item *entity.NFeItem) error {
	tag, err := r.q.Exec(ctx, `UPDATE nfe_items SET item_id = $3, factor = $4 WHERE nfe_id = $1 AND line = $2`,
		item.NFeID, item.Line, item.ItemID, item.Factor)
	return execOne(tag, err, "update nfe item mapping")
}

func (r *NFeRepo) MarkLaunched(ctx context.Context, n *entity.NFe) error {
	tag, err := r.q.Exec(ctx, `UPDATE nfes SET status = $3, launched_at = $4, bill_id = $5 WHERE company_id = $1 AND id = $2`,
		n.CompanyID, n.ID, n.Status, n.LaunchedAt, n.BillID)
	return execOne(tag, err, "mark nfe launched")
}

func (r *NFeRepo) ClearBill(ctx context.Context, companyID, id string) error {
	_, err := r.q.Exec(ctx, `UPDATE nfes SET bill_id = NULL WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return wrapRead("clear nfe bill", err)
	}
	return nil
}

// Delete borra la NFe; ítems y duplicatas caen en cascada.
func (r *NFeRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM nfes WHERE company_id = $1 AND id = $2`, companyID, id)
	return execOne(tag, err, "delete nfe")
}

// NFeMappingRepo memoria de vínculos código de proveedor → ítem.
type NFeMappingRepo struct {
	q Querier
}

func NewNFeMappingRepository(q Querier) *NFeMappingRepo {
	return &NFeMappingRepo{q: q}
}

func (r *NFeMappingRepo) Get(ctx context.Context, companyID, supplierCNPJ, supplierCode string) (*entity.NFeItemMapping, error) {
	const query = `
		SELECT company_id, supplier_cnpj, supplier_code, item_id, factor, updated_at
		FROM nfe_item_mappings
		WHERE company_id = $1 AND supplier_cnpj = $2 AND supplier_code = $3`
	var m entity.NFeItemMapping
	err := r.q.QueryRow(ctx, query, companyID, supplierCNPJ, supplierCode).Scan(
		&m.CompanyID, &m.SupplierCNPJ, &m.SupplierCode, &m.ItemID, &m.Factor, &m.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapRead("get nfe mapping", err)
	}
	return &m, nil
}

func (r *NFeMappingRepo) Upsert(ctx context.Context, m *entity.NFeItemMapping) error {
	const query = `
		INSERT INTO nfe_item_mappings (company_id, supplier_cnpj, supplier_code, item_id, factor, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, supplier_cnpj, supplier_code)
		DO UPDATE SET item_id = EXCLUDED.item_id, factor = EXCLUDED.factor, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, m.CompanyID, m.SupplierCNPJ, m.SupplierCode, m.ItemID, m.Factor, m.UpdatedAt)
	if err != nil {
		return wrapWrite("upsert nfe mapping", err)
	}
	return nil
}
