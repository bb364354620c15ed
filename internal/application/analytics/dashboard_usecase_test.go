package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/testutil/memstore"
)

const companyID = "company-1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(m time.Month, dd int) time.Time { return time.Date(2024, m, dd, 0, 0, 0, 0, time.UTC) }

func TestGetSummary(t *testing.T) {
	store := memstore.New()
	r := store.Repos()
	ctx := context.Background()

	require.NoError(t, r.Accounts.Create(ctx, &entity.BankAccount{ID: "a1", CompanyID: companyID, Balance: d("100.10"), Active: true}))
	require.NoError(t, r.Accounts.Create(ctx, &entity.BankAccount{ID: "a2", CompanyID: companyID, Balance: d("-20"), Active: true}))
	require.NoError(t, r.Accounts.Create(ctx, &entity.BankAccount{ID: "a3", CompanyID: companyID, Balance: d("999"), Active: false}))
	require.NoError(t, r.Accounts.Create(ctx, &entity.BankAccount{ID: "x1", CompanyID: "other", Balance: d("5"), Active: true}))

	installments := []entity.Installment{
		{ID: "i1", DueDate: day(6, 1), Amount: d("10"), Status: entity.InstallmentPending},  // vencida
		{ID: "i2", DueDate: day(6, 15), Amount: d("20"), Status: entity.InstallmentPending}, // vence hoy
		{ID: "i3", DueDate: day(7, 15), Amount: d("30"), Status: entity.InstallmentPending}, // día 30
		{ID: "i4", DueDate: day(7, 16), Amount: d("40"), Status: entity.InstallmentPending}, // fuera de la ventana
		{ID: "i5", DueDate: day(6, 2), Amount: d("50"), Status: entity.InstallmentPaid},
	}
	for i := range installments {
		installments[i].CompanyID = companyID
		installments[i].BillID = "b1"
		require.NoError(t, r.Installments.Create(ctx, &installments[i]))
	}

	require.NoError(t, r.Sales.Create(ctx, &entity.Sale{ID: "s1", CompanyID: companyID, Total: d("15"), Status: entity.SaleStatusCompleted, CreatedAt: day(6, 3)}))
	require.NoError(t, r.Sales.Create(ctx, &entity.Sale{ID: "s2", CompanyID: companyID, Total: d("7"), Status: entity.SaleStatusCanceled, CreatedAt: day(6, 4)}))
	require.NoError(t, r.Sales.Create(ctx, &entity.Sale{ID: "s3", CompanyID: companyID, Total: d("9"), Status: entity.SaleStatusCompleted, CreatedAt: day(5, 31)}))

	require.NoError(t, r.NFes.Create(ctx, &entity.NFe{ID: "n1", CompanyID: companyID, AccessKey: "k1", Status: entity.NFeStatusPending}))
	require.NoError(t, r.NFes.Create(ctx, &entity.NFe{ID: "n2", CompanyID: companyID, AccessKey: "k2", Status: entity.NFeStatusLaunched}))

	require.NoError(t, r.Items.Create(ctx, &entity.Item{ID: "it1", CompanyID: companyID, SKU: "A", Stock: d("1"), MinStock: d("3"), Active: true}))

	uc := NewDashboardUseCase(store.Analytics())
	uc.now = func() time.Time { return time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC) }

	got, err := uc.GetSummary(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, "80.10", got.TotalBalance.StringFixed(2))
	assert.Equal(t, 1, got.OverdueCount)
	assert.Equal(t, "10.00", got.OverdueAmount.StringFixed(2))
	assert.Equal(t, 2, got.UpcomingCount)
	assert.Equal(t, "50.00", got.UpcomingAmount.StringFixed(2))
	assert.Equal(t, 1, got.MonthSalesCount)
	assert.Equal(t, "15.00", got.MonthSalesAmount.StringFixed(2))
	assert.Equal(t, 1, got.PendingNFeCount)
	assert.Equal(t, 1, got.LowStockCount)
	assert.Equal(t, "2024-06", got.DateLabel)
}

func TestStockValuation(t *testing.T) {
	store := memstore.New()
	r := store.Repos()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, r.Items.Create(ctx, &entity.Item{ID: "a", CompanyID: companyID, SKU: "ACU", Kind: entity.ItemKindIngredient, Name: "Açúcar", Stock: d("10"), Active: true}))
	require.NoError(t, r.Items.Create(ctx, &entity.Item{ID: "b", CompanyID: companyID, SKU: "BOL", Kind: entity.ItemKindProduct, Name: "Bolo", Stock: d("3"), Active: true}))
	require.NoError(t, r.Items.Create(ctx, &entity.Item{ID: "c", CompanyID: companyID, SKU: "CUC", Kind: entity.ItemKindProduct, Name: "Cuca", Stock: d("8"), Active: false}))
	require.NoError(t, r.Costs.Create(ctx, &entity.CostEntry{ID: "c1", ItemID: "a", Price: d("12"), Quantity: d("4"), CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, r.Costs.Create(ctx, &entity.CostEntry{ID: "c2", ItemID: "a", Price: d("10"), Quantity: d("5"), CreatedAt: now}))
	require.NoError(t, r.Costs.Create(ctx, &entity.CostEntry{ID: "c3", ItemID: "b", Price: d("21"), Quantity: d("3"), CreatedAt: now}))

	uc := NewDashboardUseCase(store.Analytics())

	all, err := uc.StockValuation(ctx, companyID, "")
	require.NoError(t, err)
	require.Len(t, all.Items, 2, "los inactivos no se valorizan")
	assert.Equal(t, "20.00", all.Items[0].Value.StringFixed(2), "10 x 2 (último costo)")
	assert.Equal(t, "21.00", all.Items[1].Value.StringFixed(2))
	assert.Equal(t, "41.00", all.Total.StringFixed(2))

	products, err := uc.StockValuation(ctx, companyID, entity.ItemKindProduct)
	require.NoError(t, err)
	require.Len(t, products.Items, 1)

	_, err = uc.StockValuation(ctx, companyID, "tool")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLowStock_OrdenadoPorFaltante(t *testing.T) {
	store := memstore.New()
	r := store.Repos()
	ctx := context.Background()

	require.NoError(t, r.Items.Create(ctx, &entity.Item{ID: "a", CompanyID: companyID, SKU: "A", Stock: d("4"), MinStock: d("5"), Active: true}))
	require.NoError(t, r.Items.Create(ctx, &entity.Item{ID: "b", CompanyID: companyID, SKU: "B", Stock: d("0"), MinStock: d("10"), Active: true}))
	require.NoError(t, r.Items.Create(ctx, &entity.Item{ID: "c", CompanyID: companyID, SKU: "C", Stock: d("5"), MinStock: d("5"), Active: true}))

	rows, err := NewDashboardUseCase(store.Analytics()).LowStock(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, rows, 2, "stock igual al mínimo no es bajo")
	assert.Equal(t, "B", rows[0].SKU)
	assert.Equal(t, "10", rows[0].Missing.String())
	assert.Equal(t, "1", rows[1].Missing.String())
}
