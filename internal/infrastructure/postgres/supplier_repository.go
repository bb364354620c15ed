package postgres

import (
	"context"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo proveedores de la empresa.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de proveedores. Pasar pool o tx.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, company_id, name, cnpj, email, phone, created_at, updated_at`

func scanSupplier(row interface{ Scan(...any) error }) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := row.Scan(&s.ID, &s.CompanyID, &s.Name, &s.CNPJ, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `INSERT INTO suppliers (` + supplierColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, s.ID, s.CompanyID, s.Name, s.CNPJ, s.Email, s.Phone, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return wrapWrite("insert supplier", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE company_id = $1 AND id = $2`
	s, err := scanSupplier(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapRead("get supplier", err)
	}
	return s, nil
}

func (r *SupplierRepo) GetByCNPJ(ctx context.Context, companyID, cnpj string) (*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE company_id = $1 AND cnpj = $2`
	s, err := scanSupplier(r.q.QueryRow(ctx, query, companyID, cnpj))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapRead("get supplier by CNPJ", err)
	}
	return s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $3, cnpj = $4, email = $5, phone = $6, updated_at = $7
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, s.CompanyID, s.ID, s.Name, s.CNPJ, s.Email, s.Phone, s.UpdatedAt)
	return execOne(tag, err, "update supplier")
}

// ListByCompany ordena por nombre; search filtra por nombre (ILIKE) o CNPJ.
func (r *SupplierRepo) ListByCompany(ctx context.Context, companyID, search string, limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT ` + supplierColumns + ` FROM suppliers
		WHERE company_id = $1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR cnpj LIKE '%' || $2 || '%')
		ORDER BY name, id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, search, limitArg(limit), offset)
	if err != nil {
		return nil, wrapRead("list suppliers", err)
	}
	defer rows.Close()

	list := []*entity.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, wrapRead("scan supplier", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete falla con ErrConflict si el proveedor tiene cuentas por pagar.
func (r *SupplierRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE company_id = $1 AND id = $2`, companyID, id)
	return execOne(tag, err, "delete supplier")
}
