package finance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/finance"
	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
	"github.com/jhoicas/Gestao-api/internal/testutil/memstore"
)

const (
	companyID = "company-1"
	userID    = "user-1"
)

var errBoom = errors.New("boom")

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store    *memstore.Store
	repos    repository.TxRepos
	accounts *finance.AccountUseCase
	bills    *finance.BillUseCase
}

func newFixture() *fixture {
	store := memstore.New()
	repos := store.Repos()
	return &fixture{
		store:    store,
		repos:    repos,
		accounts: finance.NewAccountUseCase(store.Tx(), repos.Accounts, repos.Transactions),
		bills:    finance.NewBillUseCase(store.Tx(), repos.Bills, repos.Installments, repos.Suppliers),
	}
}

func (f *fixture) account(t *testing.T, initial string) *dto.BankAccountResponse {
	t.Helper()
	acc, err := f.accounts.Create(context.Background(), companyID, dto.CreateBankAccountRequest{
		Name:           "Conta " + initial,
		InitialBalance: d(initial),
	})
	require.NoError(t, err)
	return acc
}

func (f *fixture) balance(t *testing.T, accountID string) string {
	t.Helper()
	acc, err := f.accounts.GetByID(context.Background(), companyID, accountID)
	require.NoError(t, err)
	return acc.Balance.StringFixed(2)
}

func (f *fixture) bill(t *testing.T, total string, n int) *dto.BillResponse {
	t.Helper()
	bill, err := f.bills.Create(context.Background(), companyID, userID, dto.CreateBillRequest{
		Description:      "Aluguel",
		Category:         "fixas",
		TotalAmount:      d(total),
		InstallmentCount: n,
		FirstDueDate:     dto.NewDate(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	return bill
}

func TestAccount_PostTransaction_ActualizaSaldo(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "100.00")
	ctx := context.Background()

	_, err := f.accounts.PostTransaction(ctx, companyID, userID, acc.ID, dto.PostTransactionRequest{Type: entity.TransactionCredit, Amount: d("50")})
	require.NoError(t, err)
	_, err = f.accounts.PostTransaction(ctx, companyID, userID, acc.ID, dto.PostTransactionRequest{Type: entity.TransactionDebit, Amount: d("180")})
	require.NoError(t, err)

	assert.Equal(t, "-30.00", f.balance(t, acc.ID), "se permite saldo negativo")
}

func TestAccount_PostTransaction_ValorNoPositivo(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "0")

	_, err := f.accounts.PostTransaction(context.Background(), companyID, userID, acc.ID, dto.PostTransactionRequest{Type: entity.TransactionCredit, Amount: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAccount_PostTransaction_CuentaInactiva(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "10")
	inactive := false
	_, err := f.accounts.Update(context.Background(), companyID, acc.ID, dto.UpdateBankAccountRequest{Active: &inactive})
	require.NoError(t, err)

	_, err = f.accounts.PostTransaction(context.Background(), companyID, userID, acc.ID, dto.PostTransactionRequest{Type: entity.TransactionCredit, Amount: d("1")})
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

func TestAccount_Rollback_SiFallaLaTransaccion(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "100")
	f.store.FailOn("accounts.update_balance", errBoom)

	_, err := f.accounts.PostTransaction(context.Background(), companyID, userID, acc.ID, dto.PostTransactionRequest{Type: entity.TransactionDebit, Amount: d("40")})
	require.ErrorIs(t, err, errBoom)

	f.store.FailOn("accounts.update_balance", nil)
	assert.Equal(t, "100.00", f.balance(t, acc.ID))
	list, err := f.accounts.ListTransactions(context.Background(), repository.TransactionFilter{CompanyID: companyID, AccountID: acc.ID})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "la transacción insertada se deshace")
}

func TestAccount_Transfer_Y_BorradoDeAmbasPatas(t *testing.T) {
	f := newFixture()
	from := f.account(t, "500")
	to := f.account(t, "20")
	ctx := context.Background()

	res, err := f.accounts.Transfer(ctx, companyID, userID, dto.TransferRequest{FromAccountID: from.ID, ToAccountID: to.ID, Amount: d("120.50")})
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionDebit, res.Debit.Type)
	assert.Equal(t, from.ID, res.Debit.AccountID)
	assert.Equal(t, res.TransferID, *res.Credit.TransferID)
	assert.Equal(t, "379.50", f.balance(t, from.ID))
	assert.Equal(t, "140.50", f.balance(t, to.ID))

	require.NoError(t, f.accounts.DeleteTransaction(ctx, companyID, res.Credit.ID))
	assert.Equal(t, "500.00", f.balance(t, from.ID))
	assert.Equal(t, "20.00", f.balance(t, to.ID))
}

func TestAccount_Transfer_MismaCuenta(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "10")
	_, err := f.accounts.Transfer(context.Background(), companyID, userID, dto.TransferRequest{FromAccountID: acc.ID, ToAccountID: acc.ID, Amount: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAccount_Reconcile_CorrigeDeriva(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "100")
	ctx := context.Background()
	_, err := f.accounts.PostTransaction(ctx, companyID, userID, acc.ID, dto.PostTransactionRequest{Type: entity.TransactionCredit, Amount: d("25")})
	require.NoError(t, err)

	// saldo corrompido fuera del ledger
	require.NoError(t, f.repos.Accounts.UpdateBalance(ctx, acc.ID, d("999")))

	res, err := f.accounts.Reconcile(ctx, companyID, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "999.00", res.Previous.StringFixed(2))
	assert.Equal(t, "125.00", res.Balance.StringFixed(2))
	assert.Equal(t, "-874.00", res.Drift.StringFixed(2))
	assert.Equal(t, "125.00", f.balance(t, acc.ID))
}

func TestAccount_Delete_ConHistorial(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "0")
	ctx := context.Background()
	_, err := f.accounts.PostTransaction(ctx, companyID, userID, acc.ID, dto.PostTransactionRequest{Type: entity.TransactionCredit, Amount: d("1")})
	require.NoError(t, err)

	assert.ErrorIs(t, f.accounts.Delete(ctx, companyID, acc.ID), domain.ErrConflict)
}

func TestBill_Create_DivideEnCuotas(t *testing.T) {
	f := newFixture()
	bill := f.bill(t, "100.00", 3)

	require.Len(t, bill.Installments, 3)
	assert.Equal(t, "33.34", bill.Installments[0].Amount.StringFixed(2))
	assert.Equal(t, "2024-02-29", bill.Installments[1].DueDate.Format("2006-01-02"))
	assert.Equal(t, entity.BillStatusPending, bill.Status)
}

func TestBill_Create_CalendarioExplicitoNoSuma(t *testing.T) {
	f := newFixture()
	_, err := f.bills.Create(context.Background(), companyID, userID, dto.CreateBillRequest{
		Description: "Compra",
		TotalAmount: d("100"),
		Installments: []dto.ScheduleItem{
			{DueDate: dto.NewDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)), Amount: d("50")},
			{DueDate: dto.NewDate(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)), Amount: d("40")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBill_Create_ProveedorInexistente(t *testing.T) {
	f := newFixture()
	missing := "nope"
	_, err := f.bills.Create(context.Background(), companyID, userID, dto.CreateBillRequest{
		SupplierID: &missing, Description: "x", TotalAmount: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBill_Pay_Y_CancelPayment(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "1000")
	bill := f.bill(t, "300", 3)
	ctx := context.Background()
	first := bill.Installments[0]

	paid, err := f.bills.Pay(ctx, companyID, userID, first.ID, dto.PayInstallmentRequest{BankAccountID: acc.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.InstallmentPaid, paid.Status)
	require.NotNil(t, paid.BankTransactionID)
	assert.Equal(t, "900.00", f.balance(t, acc.ID))

	got, err := f.bills.GetByID(ctx, companyID, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BillStatusPartial, got.Status)
	assert.Equal(t, "100.00", got.PaidAmount.StringFixed(2))

	txs, err := f.accounts.ListTransactions(ctx, repository.TransactionFilter{CompanyID: companyID, AccountID: acc.ID})
	require.NoError(t, err)
	require.Len(t, txs.Items, 1)
	assert.Equal(t, "Pagamento parcela 1 - Aluguel", txs.Items[0].Description)

	_, err = f.bills.Pay(ctx, companyID, userID, first.ID, dto.PayInstallmentRequest{BankAccountID: acc.ID})
	assert.ErrorIs(t, err, domain.ErrInstallmentNotPending)

	// los lanzamientos de cuotas solo se deshacen cancelando el pago
	assert.ErrorIs(t, f.accounts.DeleteTransaction(ctx, companyID, *paid.BankTransactionID), domain.ErrLinkedTransaction)

	canceled, err := f.bills.CancelPayment(ctx, companyID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InstallmentPending, canceled.Status)
	assert.Nil(t, canceled.BankTransactionID)
	assert.Equal(t, "1000.00", f.balance(t, acc.ID))

	_, err = f.bills.CancelPayment(ctx, companyID, first.ID)
	assert.ErrorIs(t, err, domain.ErrInstallmentNotPaid)
}

func TestBill_Pay_ValorDistinto(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "0")
	bill := f.bill(t, "100", 1)
	amount := d("103.20") // con intereses

	paid, err := f.bills.Pay(context.Background(), companyID, userID, bill.Installments[0].ID, dto.PayInstallmentRequest{BankAccountID: acc.ID, Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "103.20", paid.PaidAmount.StringFixed(2))
	assert.Equal(t, "-103.20", f.balance(t, acc.ID))

	got, err := f.bills.GetByID(context.Background(), companyID, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BillStatusPaid, got.Status)
}

func TestBill_Pay_RollbackSiFallaLaCuota(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "500")
	bill := f.bill(t, "200", 2)
	ctx := context.Background()
	f.store.FailOn("installments.update", errBoom)

	_, err := f.bills.Pay(ctx, companyID, userID, bill.Installments[0].ID, dto.PayInstallmentRequest{BankAccountID: acc.ID})
	require.ErrorIs(t, err, errBoom)
	f.store.FailOn("installments.update", nil)

	assert.Equal(t, "500.00", f.balance(t, acc.ID), "el débito no debe persistir")
	got, err := f.bills.GetByID(ctx, companyID, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InstallmentPending, got.Installments[0].Status)
}

func TestBill_Pay_CuentaInexistente(t *testing.T) {
	f := newFixture()
	bill := f.bill(t, "10", 1)
	_, err := f.bills.Pay(context.Background(), companyID, userID, bill.Installments[0].ID, dto.PayInstallmentRequest{BankAccountID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBill_Delete(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "100")
	ctx := context.Background()

	unpaid := f.bill(t, "10", 2)
	require.NoError(t, f.bills.Delete(ctx, companyID, unpaid.ID))
	_, err := f.bills.GetByID(ctx, companyID, unpaid.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	paid := f.bill(t, "10", 2)
	_, err = f.bills.Pay(ctx, companyID, userID, paid.Installments[1].ID, dto.PayInstallmentRequest{BankAccountID: acc.ID})
	require.NoError(t, err)
	assert.ErrorIs(t, f.bills.Delete(ctx, companyID, paid.ID), domain.ErrBillHasPayments)
}

func TestBill_Reschedule_SoloPendientes(t *testing.T) {
	f := newFixture()
	acc := f.account(t, "100")
	bill := f.bill(t, "10", 2)
	ctx := context.Background()
	newDue := dto.NewDate(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))

	res, err := f.bills.Reschedule(ctx, companyID, bill.Installments[0].ID, dto.RescheduleInstallmentRequest{DueDate: newDue})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", res.DueDate.Format("2006-01-02"))

	_, err = f.bills.Pay(ctx, companyID, userID, bill.Installments[1].ID, dto.PayInstallmentRequest{BankAccountID: acc.ID})
	require.NoError(t, err)
	_, err = f.bills.Reschedule(ctx, companyID, bill.Installments[1].ID, dto.RescheduleInstallmentRequest{DueDate: newDue})
	assert.ErrorIs(t, err, domain.ErrInstallmentNotPending)
}

func TestBill_ListInstallments_Vencidas(t *testing.T) {
	f := newFixture()
	f.bill(t, "90", 3) // vencimientos en 2024, todos en el pasado

	res, err := f.bills.ListInstallments(context.Background(), repository.InstallmentFilter{CompanyID: companyID}, true)
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	for _, in := range res.Items {
		assert.True(t, in.Overdue)
	}

	_, err = f.bills.ListInstallments(context.Background(), repository.InstallmentFilter{CompanyID: companyID, Status: entity.InstallmentPaid}, true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
