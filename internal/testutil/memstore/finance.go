package memstore

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

type accountRow struct {
	entity.BankAccount
	seq int64
}

type transactionRow struct {
	entity.BankTransaction
	seq int64
}

type billRow struct {
	entity.Bill
	seq int64
}

type installmentRow struct {
	entity.Installment
}

var (
	_ repository.BankAccountRepository     = (*AccountRepo)(nil)
	_ repository.BankTransactionRepository = (*TransactionRepo)(nil)
	_ repository.BillRepository            = (*BillRepo)(nil)
	_ repository.InstallmentRepository     = (*InstallmentRepo)(nil)
)

// AccountRepo cuentas bancarias.
type AccountRepo struct{ s *Store }

func (r *AccountRepo) Create(_ context.Context, a *entity.BankAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.accounts[a.ID] = accountRow{BankAccount: *a, seq: r.s.next()}
	return nil
}

func (r *AccountRepo) GetByID(_ context.Context, companyID, id string) (*entity.BankAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.accounts[id]
	if !ok || row.CompanyID != companyID {
		return nil, nil
	}
	a := row.BankAccount
	return &a, nil
}

func (r *AccountRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.BankAccount, error) {
	return r.GetByID(ctx, companyID, id)
}

// Update no toca el saldo: solo UpdateBalance lo cambia.
func (r *AccountRepo) Update(_ context.Context, a *entity.BankAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.accounts[a.ID]
	if !ok || row.CompanyID != a.CompanyID {
		return domain.ErrNotFound
	}
	balance := row.Balance
	row.BankAccount = *a
	row.Balance = balance
	r.s.data.accounts[a.ID] = row
	return nil
}

func (r *AccountRepo) UpdateBalance(_ context.Context, id string, balance decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("accounts.update_balance"); err != nil {
		return err
	}
	row, ok := r.s.data.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.Balance = balance
	r.s.data.accounts[id] = row
	return nil
}

func (r *AccountRepo) ListByCompany(_ context.Context, companyID string, onlyActive bool) ([]*entity.BankAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []accountRow{}
	for _, row := range r.s.data.accounts {
		if row.CompanyID != companyID || (onlyActive && !row.Active) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := []*entity.BankAccount{}
	for _, row := range rows {
		a := row.BankAccount
		out = append(out, &a)
	}
	return out, nil
}

func (r *AccountRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.accounts[id]
	if !ok || row.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.data.accounts, id)
	return nil
}

// TransactionRepo transacciones bancarias.
type TransactionRepo struct{ s *Store }

func (r *TransactionRepo) Create(_ context.Context, t *entity.BankTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("transactions.create"); err != nil {
		return err
	}
	r.s.data.transactions = append(r.s.data.transactions, transactionRow{BankTransaction: *t, seq: r.s.next()})
	return nil
}

func (r *TransactionRepo) GetByID(_ context.Context, companyID, id string) (*entity.BankTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.data.transactions {
		if row.ID == id && row.CompanyID == companyID {
			t := row.BankTransaction
			return &t, nil
		}
	}
	return nil, nil
}

func (r *TransactionRepo) ListByTransfer(_ context.Context, companyID, transferID string) ([]*entity.BankTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.BankTransaction{}
	for _, row := range r.s.data.transactions {
		if row.CompanyID == companyID && row.TransferID != nil && *row.TransferID == transferID {
			t := row.BankTransaction
			out = append(out, &t)
		}
	}
	return out, nil
}

func (r *TransactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.BankTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []transactionRow{}
	for _, row := range r.s.data.transactions {
		if row.CompanyID != f.CompanyID {
			continue
		}
		if f.AccountID != "" && row.AccountID != f.AccountID {
			continue
		}
		if f.From != nil && row.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && row.Date.After(*f.To) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date.Equal(rows[j].Date) {
			return rows[i].seq > rows[j].seq
		}
		return rows[i].Date.After(rows[j].Date)
	})
	out := []*entity.BankTransaction{}
	for _, row := range paginate(rows, f.Page) {
		t := row.BankTransaction
		out = append(out, &t)
	}
	return out, nil
}

func (r *TransactionRepo) Totals(_ context.Context, accountID string) (credits, debits decimal.Decimal, err error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.data.transactions {
		if row.AccountID != accountID {
			continue
		}
		if row.Type == entity.TransactionDebit {
			debits = debits.Add(row.Amount)
		} else {
			credits = credits.Add(row.Amount)
		}
	}
	return credits, debits, nil
}

func (r *TransactionRepo) CountByAccount(_ context.Context, accountID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, row := range r.s.data.transactions {
		if row.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (r *TransactionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("transactions.delete"); err != nil {
		return err
	}
	for i, row := range r.s.data.transactions {
		if row.ID == id {
			r.s.data.transactions = append(r.s.data.transactions[:i:i], r.s.data.transactions[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// BillRepo cuentas por pagar.
type BillRepo struct{ s *Store }

func (r *BillRepo) Create(_ context.Context, b *entity.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("bills.create"); err != nil {
		return err
	}
	r.s.data.bills[b.ID] = billRow{Bill: *b, seq: r.s.next()}
	return nil
}

func (r *BillRepo) GetByID(_ context.Context, companyID, id string) (*entity.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.bills[id]
	if !ok || row.CompanyID != companyID {
		return nil, nil
	}
	b := row.Bill
	return &b, nil
}

func (r *BillRepo) Update(_ context.Context, b *entity.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.bills[b.ID]
	if !ok || row.CompanyID != b.CompanyID {
		return domain.ErrNotFound
	}
	row.Bill = *b
	r.s.data.bills[b.ID] = row
	return nil
}

// List filtra por estado derivado de las cuotas, igual que la consulta SQL.
func (r *BillRepo) List(_ context.Context, f repository.BillFilter) ([]*entity.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []billRow{}
	for _, row := range r.s.data.bills {
		if row.CompanyID != f.CompanyID {
			continue
		}
		if f.SupplierID != "" && (row.SupplierID == nil || *row.SupplierID != f.SupplierID) {
			continue
		}
		if f.Status != "" && entity.BillStatus(r.installmentsOf(row.ID)) != f.Status {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := []*entity.Bill{}
	for _, row := range paginate(rows, f.Page) {
		b := row.Bill
		out = append(out, &b)
	}
	return out, nil
}

func (r *BillRepo) installmentsOf(billID string) []*entity.Installment {
	out := []*entity.Installment{}
	for _, row := range r.s.data.installments {
		if row.BillID == billID {
			in := row.Installment
			out = append(out, &in)
		}
	}
	return out
}

func (r *BillRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("bills.delete"); err != nil {
		return err
	}
	row, ok := r.s.data.bills[id]
	if !ok || row.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.data.bills, id)
	return nil
}

// InstallmentRepo cuotas.
type InstallmentRepo struct{ s *Store }

func (r *InstallmentRepo) Create(_ context.Context, in *entity.Installment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("installments.create"); err != nil {
		return err
	}
	r.s.data.installments[in.ID] = installmentRow{*in}
	return nil
}

func (r *InstallmentRepo) GetByID(_ context.Context, companyID, id string) (*entity.Installment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.data.installments[id]
	if !ok || row.CompanyID != companyID {
		return nil, nil
	}
	in := row.Installment
	return &in, nil
}

func (r *InstallmentRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Installment, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *InstallmentRepo) ListByBill(_ context.Context, billID string) ([]*entity.Installment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Installment{}
	for _, row := range r.s.data.installments {
		if row.BillID == billID {
			in := row.Installment
			out = append(out, &in)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *InstallmentRepo) List(_ context.Context, f repository.InstallmentFilter) ([]*entity.Installment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Installment{}
	for _, row := range r.s.data.installments {
		if row.CompanyID != f.CompanyID {
			continue
		}
		if f.Status != "" && row.Status != f.Status {
			continue
		}
		if f.DueFrom != nil && row.DueDate.Before(*f.DueFrom) {
			continue
		}
		if f.DueTo != nil && row.DueDate.After(*f.DueTo) {
			continue
		}
		in := row.Installment
		out = append(out, &in)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].Number < out[j].Number
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return paginate(out, f.Page), nil
}

func (r *InstallmentRepo) Update(_ context.Context, in *entity.Installment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("installments.update"); err != nil {
		return err
	}
	row, ok := r.s.data.installments[in.ID]
	if !ok || row.CompanyID != in.CompanyID {
		return domain.ErrNotFound
	}
	r.s.data.installments[in.ID] = installmentRow{*in}
	return nil
}

func (r *InstallmentRepo) DeleteByBill(_ context.Context, billID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, row := range r.s.data.installments {
		if row.BillID == billID {
			delete(r.s.data.installments, id)
		}
	}
	return nil
}
