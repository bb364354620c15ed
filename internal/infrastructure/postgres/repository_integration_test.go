//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
	"github.com/jhoicas/Gestao-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gestao-api/pkg/config"
)

var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("gestao_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		panic(err)
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}
	if err := postgres.Migrate(dsn, zerolog.Nop()); err != nil {
		panic(err)
	}
	pool, err = postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 5})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	pool.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newCompany(t *testing.T, r repository.TxRepos) string {
	t.Helper()
	now := time.Now().UTC()
	id := uuid.NewString()
	cnpj := id[:8] + "000100"
	require.NoError(t, r.Companies.Create(context.Background(), &entity.Company{
		ID: id, Name: "Padaria", CNPJ: cnpj, Status: entity.CompanyStatusActive, CreatedAt: now, UpdatedAt: now,
	}))
	return id
}

func newItem(t *testing.T, r repository.TxRepos, companyID, sku string) *entity.Item {
	t.Helper()
	now := time.Now().UTC()
	it := &entity.Item{
		ID: uuid.NewString(), CompanyID: companyID, Kind: entity.ItemKindIngredient, SKU: sku, Name: "Farinha " + sku,
		Unit: "kg", MinStock: d("5"), Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, r.Items.Create(context.Background(), it))
	return it
}

func TestItems_SKUUnicoSinMayusculas(t *testing.T) {
	ctx := context.Background()
	r := postgres.NewRepos(pool)
	companyID := newCompany(t, r)
	newItem(t, r, companyID, "far-1")

	err := r.Items.Create(ctx, &entity.Item{
		ID: uuid.NewString(), CompanyID: companyID, Kind: entity.ItemKindIngredient, SKU: "FAR-1", Name: "x", Unit: "kg",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := r.Items.GetBySKU(ctx, companyID, "FAR-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	missing, err := r.Items.GetByID(ctx, uuid.NewString(), got.ID)
	require.NoError(t, err)
	assert.Nil(t, missing, "otra empresa no ve el ítem")
}

func TestTxRunner_RollbackDeshaceTodo(t *testing.T) {
	ctx := context.Background()
	repos := postgres.NewRepos(pool)
	companyID := newCompany(t, repos)
	item := newItem(t, repos, companyID, "ROLL")
	boom := errors.New("boom")

	err := postgres.NewTxRunner(pool).Run(ctx, func(r repository.TxRepos) error {
		locked, err := r.Items.GetForUpdate(ctx, companyID, item.ID)
		require.NoError(t, err)
		require.NoError(t, r.Items.UpdateStock(ctx, locked.ID, d("10")))
		require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{
			ID: uuid.NewString(), CompanyID: companyID, TransactionID: uuid.NewString(), ItemID: item.ID,
			Type: entity.MovementTypeIN, Quantity: d("10"), RefType: entity.MovementRefManual, CreatedAt: time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repos.Items.GetByID(ctx, companyID, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.IsZero())
	n, err := repos.Movements.CountByItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCosts_UltimaCompraYValorizacion(t *testing.T) {
	ctx := context.Background()
	r := postgres.NewRepos(pool)
	companyID := newCompany(t, r)
	item := newItem(t, r, companyID, "ACU")
	require.NoError(t, r.Items.UpdateStock(ctx, item.ID, d("10")))

	at := time.Now().UTC().Truncate(time.Second)
	for _, price := range []string{"30", "20"} {
		require.NoError(t, r.Costs.Create(ctx, &entity.CostEntry{
			ID: uuid.NewString(), CompanyID: companyID, ItemID: item.ID, Price: d(price), Quantity: d("10"),
			Source: entity.CostSourceManual, CreatedAt: at,
		}))
	}
	latest, err := r.Costs.Latest(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "20", latest.Price.String(), "a igual fecha gana la última insertada")

	rows, err := postgres.NewAnalyticsRepository(pool).StockValuation(ctx, companyID, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "20.00", rows[0].Value.StringFixed(2))

	low, err := postgres.NewAnalyticsRepository(pool).LowStock(ctx, companyID)
	require.NoError(t, err)
	assert.Empty(t, low)
}

func TestBills_EstadoDerivado(t *testing.T) {
	ctx := context.Background()
	r := postgres.NewRepos(pool)
	companyID := newCompany(t, r)
	now := time.Now().UTC()

	bill := &entity.Bill{
		ID: uuid.NewString(), CompanyID: companyID, Description: "Aluguel", TotalAmount: d("200"),
		IssueDate: now, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, r.Bills.Create(ctx, bill))
	for n := 1; n <= 2; n++ {
		require.NoError(t, r.Installments.Create(ctx, &entity.Installment{
			ID: uuid.NewString(), CompanyID: companyID, BillID: bill.ID, Number: n,
			DueDate: now.AddDate(0, n, 0), Amount: d("100"), Status: entity.InstallmentPending,
			CreatedAt: now, UpdatedAt: now,
		}))
	}
	list, err := r.Bills.List(ctx, repository.BillFilter{CompanyID: companyID, Status: entity.BillStatusPending})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	installments, err := r.Installments.ListByBill(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, installments, 2)
	first := installments[0]
	first.Status = entity.InstallmentPaid
	paidAt := now
	first.PaidAt = &paidAt
	first.PaidAmount = &first.Amount
	require.NoError(t, r.Installments.Update(ctx, first))

	list, err = r.Bills.List(ctx, repository.BillFilter{CompanyID: companyID, Status: entity.BillStatusPartial})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = r.Bills.List(ctx, repository.BillFilter{CompanyID: companyID, Status: entity.BillStatusPaid})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNFe_CreateYGet(t *testing.T) {
	ctx := context.Background()
	r := postgres.NewRepos(pool)
	companyID := newCompany(t, r)
	item := newItem(t, r, companyID, "LEI")
	now := time.Now().UTC()
	valid := true

	n := &entity.NFe{
		ID: uuid.NewString(), CompanyID: companyID, AccessKey: "35240611222333000181550010000012341123456782",
		Number: "1234", Series: "1", IssueDate: now, EmitterCNPJ: "11222333000181", EmitterName: "Laticínios",
		TotalProducts: d("50"), TotalAmount: d("50"), DigestValid: &valid, Status: entity.NFeStatusPending,
		RawXML: []byte("<nfeProc/>"), CreatedAt: now,
		Items: []entity.NFeItem{
			{ID: uuid.NewString(), Line: 1, Code: "L1", Description: "Leite", Unit: "CX", Quantity: d("5"), UnitPrice: d("10"), TotalPrice: d("50"), Factor: d("12")},
		},
		Duplicates: []entity.NFeDuplicate{{Number: "001", DueDate: now.AddDate(0, 1, 0), Amount: d("50")}},
	}
	require.NoError(t, r.NFes.Create(ctx, n))
	assert.ErrorIs(t, r.NFes.Create(ctx, &entity.NFe{ID: uuid.NewString(), CompanyID: companyID, AccessKey: n.AccessKey,
		IssueDate: now, EmitterCNPJ: n.EmitterCNPJ, Status: entity.NFeStatusPending, RawXML: []byte("x"), CreatedAt: now}), domain.ErrDuplicate)

	line := n.Items[0]
	line.NFeID = n.ID
	line.ItemID = &item.ID
	require.NoError(t, r.NFes.UpdateItemMapping(ctx, &line))

	got, err := r.NFes.GetByAccessKey(ctx, companyID, n.AccessKey)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.RawXML)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Mapped())
	assert.Equal(t, "60", got.Items[0].StockQuantity().String())
	require.Len(t, got.Duplicates, 1)
	require.NotNil(t, got.DigestValid)
	assert.True(t, *got.DigestValid)

	require.NoError(t, r.Mappings.Upsert(ctx, &entity.NFeItemMapping{
		CompanyID: companyID, SupplierCNPJ: n.EmitterCNPJ, SupplierCode: "L1", ItemID: item.ID, Factor: d("12"), UpdatedAt: now,
	}))
	m, err := r.Mappings.Get(ctx, companyID, n.EmitterCNPJ, "L1")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, item.ID, m.ItemID)

	summary, err := postgres.NewAnalyticsRepository(pool).DashboardSummary(ctx, companyID, now, now.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PendingNFeCount)
}

func TestNFe_BorrarCuentaPorPagarAnulaBillID(t *testing.T) {
	ctx := context.Background()
	r := postgres.NewRepos(pool)
	companyID := newCompany(t, r)
	now := time.Now().UTC()

	n := &entity.NFe{
		ID: uuid.NewString(), CompanyID: companyID, AccessKey: "35240611222333000181550010000012341123456782",
		Number: "1", IssueDate: now, EmitterCNPJ: "11222333000181", Status: entity.NFeStatusPending,
		RawXML: []byte("<nfeProc/>"), CreatedAt: now,
	}
	require.NoError(t, r.NFes.Create(ctx, n))
	bill := &entity.Bill{
		ID: uuid.NewString(), CompanyID: companyID, NFeID: &n.ID, Description: "NFe 1", TotalAmount: d("10"),
		IssueDate: now, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, r.Bills.Create(ctx, bill))
	launchedAt := now
	n.Status = entity.NFeStatusLaunched
	n.LaunchedAt = &launchedAt
	n.BillID = &bill.ID
	require.NoError(t, r.NFes.MarkLaunched(ctx, n))

	require.NoError(t, r.Bills.Delete(ctx, companyID, bill.ID))

	got, err := r.NFes.GetByID(ctx, companyID, n.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.BillID, "ON DELETE SET NULL")

	noBill := uuid.NewString()
	n.BillID = &noBill
	assert.ErrorIs(t, r.NFes.MarkLaunched(ctx, n), domain.ErrConflict, "bill_id debe existir")
}

func TestRepos_IDMalFormadoEsEntradaInvalida(t *testing.T) {
	ctx := context.Background()
	r := postgres.NewRepos(pool)
	companyID := newCompany(t, r)

	_, err := r.Bills.GetByID(ctx, companyID, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = r.Items.GetByID(ctx, companyID, "123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, r.Suppliers.Delete(ctx, companyID, "x"), domain.ErrInvalidInput)
}
