package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

type companyRow struct {
	entity.Company
}

type moduleRow struct {
	entity.CompanyModule
}

type userRow struct {
	entity.User
	seq int64
}

type supplierRow struct {
	entity.Supplier
	seq int64
}

var (
	_ repository.CompanyRepository  = (*CompanyRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// CompanyRepo empresas y módulos.
type CompanyRepo struct{ s *Store }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("companies.create"); err != nil {
		return err
	}
	for _, row := range r.s.data.companies {
		if row.CNPJ == c.CNPJ {
			return domain.ErrDuplicate
		}
	}
	r.s.data.companies[c.ID] = companyRow{*c}
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.companies[id]
	if !ok {
		return nil, nil
	}
	c := row.Company
	return &c, nil
}

func (r *CompanyRepo) GetByCNPJ(_ context.Context, cnpj string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.data.companies {
		if row.CNPJ == cnpj {
			c := row.Company
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.data.companies[c.ID] = companyRow{*c}
	return nil
}

func (r *CompanyRepo) GetModule(_ context.Context, companyID, moduleName string) (*entity.CompanyModule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("companies.get_module"); err != nil {
		return nil, err
	}
	row, ok := r.s.data.modules[companyID+"/"+moduleName]
	if !ok {
		return nil, nil
	}
	m := row.CompanyModule
	return &m, nil
}

func (r *CompanyRepo) ListModules(_ context.Context, companyID string) ([]*entity.CompanyModule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.CompanyModule{}
	for _, row := range r.s.data.modules {
		if row.CompanyID == companyID {
			m := row.CompanyModule
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModuleName < out[j].ModuleName })
	return out, nil
}

func (r *CompanyRepo) UpsertModule(_ context.Context, m *entity.CompanyModule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := m.CompanyID + "/" + m.ModuleName
	if prev, ok := r.s.data.modules[key]; ok {
		m.ID = prev.ID
		m.CreatedAt = prev.CreatedAt
	}
	r.s.data.modules[key] = moduleRow{*m}
	return nil
}

// UserRepo usuarios.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.create"); err != nil {
		return err
	}
	for _, row := range r.s.data.users {
		if strings.EqualFold(row.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.data.users[u.ID] = userRow{User: *u, seq: r.s.next()}
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, companyID, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.users[id]
	if !ok || row.CompanyID != companyID {
		return nil, nil
	}
	u := row.User
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.data.users {
		if strings.EqualFold(row.Email, email) {
			u := row.User
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.users[u.ID]
	if !ok || row.CompanyID != u.CompanyID {
		return domain.ErrNotFound
	}
	row.User = *u
	r.s.data.users[u.ID] = row
	return nil
}

func (r *UserRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []userRow{}
	for _, row := range r.s.data.users {
		if row.CompanyID == companyID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := []*entity.User{}
	for _, row := range paginate(rows, repository.Page{Limit: limit, Offset: offset}) {
		u := row.User
		out = append(out, &u)
	}
	return out, nil
}

func (r *UserRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.users[id]
	if !ok || row.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.data.users, id)
	return nil
}

// SupplierRepo proveedores.
type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("suppliers.create"); err != nil {
		return err
	}
	for _, row := range r.s.data.suppliers {
		if row.CompanyID == sp.CompanyID && row.CNPJ == sp.CNPJ {
			return domain.ErrDuplicate
		}
	}
	r.s.data.suppliers[sp.ID] = supplierRow{Supplier: *sp, seq: r.s.next()}
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, companyID, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.suppliers[id]
	if !ok || row.CompanyID != companyID {
		return nil, nil
	}
	sp := row.Supplier
	return &sp, nil
}

func (r *SupplierRepo) GetByCNPJ(_ context.Context, companyID, cnpj string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.data.suppliers {
		if row.CompanyID == companyID && row.CNPJ == cnpj {
			sp := row.Supplier
			return &sp, nil
		}
	}
	return nil, nil
}

func (r *SupplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.suppliers[sp.ID]
	if !ok || row.CompanyID != sp.CompanyID {
		return domain.ErrNotFound
	}
	row.Supplier = *sp
	r.s.data.suppliers[sp.ID] = row
	return nil
}

func (r *SupplierRepo) ListByCompany(_ context.Context, companyID, search string, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search = strings.ToLower(search)
	rows := []supplierRow{}
	for _, row := range r.s.data.suppliers {
		if row.CompanyID != companyID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(row.Name), search) && !strings.Contains(row.CNPJ, search) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	out := []*entity.Supplier{}
	for _, row := range paginate(rows, repository.Page{Limit: limit, Offset: offset}) {
		sp := row.Supplier
		out = append(out, &sp)
	}
	return out, nil
}

func (r *SupplierRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.suppliers[id]
	if !ok || row.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.data.suppliers, id)
	return nil
}
