package nfe_test

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
	"github.com/jhoicas/Gestao-api/internal/application/inventory"
	"github.com/jhoicas/Gestao-api/internal/application/nfe"
	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
	"github.com/jhoicas/Gestao-api/internal/testutil/memstore"
)

const (
	companyID = "company-1"
	userID    = "user-1"
	accessKey = "35240611222333000181550010000012341123456782"
	emitter   = "11222333000181"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// stubParser devuelve siempre una copia del documento configurado.
type stubParser struct {
	doc *entity.NFe
	err error
}

func (p *stubParser) Parse([]byte) (*entity.NFe, error) {
	if p.err != nil {
		return nil, p.err
	}
	cp := *p.doc
	cp.Items = append([]entity.NFeItem(nil), p.doc.Items...)
	cp.Duplicates = append([]entity.NFeDuplicate(nil), p.doc.Duplicates...)
	return &cp, nil
}

func sampleNFe() *entity.NFe {
	return &entity.NFe{
		AccessKey:     accessKey,
		Number:        "1234",
		Series:        "1",
		IssueDate:     time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC),
		EmitterCNPJ:   emitter,
		EmitterName:   "Moinho Bom Trigo Ltda",
		TotalProducts: d("150.00"),
		TotalAmount:   d("150.00"),
		Items: []entity.NFeItem{
			{Line: 1, Code: "FT-25", Description: "Farinha de trigo 25kg", Unit: "SC", Quantity: d("2"), UnitPrice: d("50"), TotalPrice: d("100")},
			{Line: 2, Code: "AC-5", Description: "Açúcar 5kg", Unit: "PC", Quantity: d("5"), UnitPrice: d("10"), TotalPrice: d("50")},
		},
		Duplicates: []entity.NFeDuplicate{
			{Number: "001", DueDate: time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), Amount: d("75")},
			{Number: "002", DueDate: time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC), Amount: d("75")},
		},
	}
}

type fixture struct {
	store  *memstore.Store
	repos  repository.TxRepos
	parser *stubParser
	nfes   *nfe.NFeUseCase
	items  *inventory.ItemUseCase
}

func newFixture() *fixture {
	store := memstore.New()
	repos := store.Repos()
	parser := &stubParser{doc: sampleNFe()}
	return &fixture{
		store:  store,
		repos:  repos,
		parser: parser,
		nfes:   nfe.NewNFeUseCase(store.Tx(), repos.NFes, repos.Items, parser),
		items:  inventory.NewItemUseCase(store.Tx(), repos.Items, repos.Costs, repos.Movements),
	}
}

func (f *fixture) item(t *testing.T, sku string) *dto.ItemResponse {
	t.Helper()
	it, err := f.items.Create(context.Background(), companyID, userID, dto.CreateItemRequest{
		Kind: entity.ItemKindIngredient, SKU: sku, Name: sku, Unit: "kg",
	})
	require.NoError(t, err)
	return it
}

// importMapped importa la NFe y vincula ambas líneas (farinha con factor 25).
func (f *fixture) importMapped(t *testing.T) (*dto.NFeResponse, *dto.ItemResponse, *dto.ItemResponse) {
	t.Helper()
	ctx := context.Background()
	flour := f.item(t, "FARINHA")
	sugar := f.item(t, "ACUCAR")
	doc, err := f.nfes.Import(ctx, companyID, userID, []byte("<nfeProc/>"))
	require.NoError(t, err)
	factor := d("25")
	_, err = f.nfes.MapItem(ctx, companyID, doc.ID, 1, dto.MapNFeItemRequest{ItemID: flour.ID, Factor: &factor})
	require.NoError(t, err)
	doc, err = f.nfes.MapItem(ctx, companyID, doc.ID, 2, dto.MapNFeItemRequest{ItemID: sugar.ID})
	require.NoError(t, err)
	return doc, flour, sugar
}

func TestImport_CreaProveedorYQuedaPendiente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	doc, err := f.nfes.Import(ctx, companyID, userID, []byte("<nfeProc/>"))
	require.NoError(t, err)
	assert.Equal(t, entity.NFeStatusPending, doc.Status)
	assert.Equal(t, 2, doc.UnmappedCount)
	require.NotNil(t, doc.SupplierID)

	supplier, err := f.repos.Suppliers.GetByCNPJ(ctx, companyID, emitter)
	require.NoError(t, err)
	require.NotNil(t, supplier)
	assert.Equal(t, "Moinho Bom Trigo Ltda", supplier.Name)
	assert.Equal(t, supplier.ID, *doc.SupplierID)
}

func TestImport_ChaveDuplicada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.nfes.Import(ctx, companyID, userID, []byte("x"))
	require.NoError(t, err)

	_, err = f.nfes.Import(ctx, companyID, userID, []byte("x"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// otra empresa puede importar la misma nota
	_, err = f.nfes.Import(ctx, "company-2", userID, []byte("x"))
	assert.NoError(t, err)
}

func TestImport_ChaveInvalida(t *testing.T) {
	f := newFixture()
	f.parser.doc.AccessKey = accessKey[:43] + "0"

	_, err := f.nfes.Import(context.Background(), companyID, userID, []byte("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidAccessKey)
}

func TestImport_ErrorDelParser(t *testing.T) {
	f := newFixture()
	f.parser.err = domain.ErrInvalidInput

	_, err := f.nfes.Import(context.Background(), companyID, userID, []byte("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLaunch_SinVincularFalla(t *testing.T) {
	f := newFixture()
	doc, err := f.nfes.Import(context.Background(), companyID, userID, []byte("x"))
	require.NoError(t, err)

	_, err = f.nfes.Launch(context.Background(), companyID, userID, doc.ID, dto.LaunchNFeRequest{})
	assert.ErrorIs(t, err, domain.ErrNFeUnmappedItems)
}

func TestLaunch_SumaStockYCostos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc, flour, sugar := f.importMapped(t)
	assert.Equal(t, 0, doc.UnmappedCount)

	launched, err := f.nfes.Launch(ctx, companyID, userID, doc.ID, dto.LaunchNFeRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.NFeStatusLaunched, launched.Status)
	assert.NotNil(t, launched.LaunchedAt)
	assert.Nil(t, launched.BillID)

	gotFlour, err := f.items.GetByID(ctx, companyID, flour.ID)
	require.NoError(t, err)
	assert.Equal(t, "50", gotFlour.Stock.String(), "2 sacos x 25 kg")
	assert.Equal(t, "2", gotFlour.UnitCost.String(), "100 / 50 kg")

	gotSugar, err := f.items.GetByID(ctx, companyID, sugar.ID)
	require.NoError(t, err)
	assert.Equal(t, "5", gotSugar.Stock.String())

	costs, err := f.items.ListCosts(ctx, companyID, flour.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, costs, 1)
	assert.Equal(t, entity.CostSourceNFe, costs[0].Source)
	assert.Equal(t, doc.ID, *costs[0].NFeID)

	_, err = f.nfes.Launch(ctx, companyID, userID, doc.ID, dto.LaunchNFeRequest{})
	assert.ErrorIs(t, err, domain.ErrNFeAlreadyLaunched)
	assert.ErrorIs(t, f.nfes.Delete(ctx, companyID, doc.ID), domain.ErrNFeAlreadyLaunched)
}

func TestLaunch_ConCuentaPorPagarDesdeDuplicatas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc, _, _ := f.importMapped(t)

	launched, err := f.nfes.Launch(ctx, companyID, userID, doc.ID, dto.LaunchNFeRequest{CreateBill: true, Category: "insumos"})
	require.NoError(t, err)
	require.NotNil(t, launched.BillID)

	bill, err := f.repos.Bills.GetByID(ctx, companyID, *launched.BillID)
	require.NoError(t, err)
	require.NotNil(t, bill)
	assert.Equal(t, "150.00", bill.TotalAmount.StringFixed(2))
	assert.Equal(t, "insumos", bill.Category)
	assert.Equal(t, doc.ID, *bill.NFeID)

	installments, err := f.repos.Installments.ListByBill(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, installments, 2)
	assert.Equal(t, "2024-07-10", installments[0].DueDate.Format("2006-01-02"))
	assert.Equal(t, "75", installments[1].Amount.String())
}

func TestLaunch_BorrarCuentaPorPagarDesvinculaLaNFe(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc, _, _ := f.importMapped(t)
	bills := finance.NewBillUseCase(f.store.Tx(), f.repos.Bills, f.repos.Installments, f.repos.Suppliers)

	launched, err := f.nfes.Launch(ctx, companyID, userID, doc.ID, dto.LaunchNFeRequest{CreateBill: true})
	require.NoError(t, err)
	require.NotNil(t, launched.BillID)

	require.NoError(t, bills.Delete(ctx, companyID, *launched.BillID))

	got, err := f.nfes.GetByID(ctx, companyID, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BillID)
	assert.Equal(t, entity.NFeStatusLaunched, got.Status, "la NFe sigue lanzada")
}

func TestLaunch_BorrarCuentaPorPagarRevierteSiFallaElDesvinculo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc, _, _ := f.importMapped(t)
	bills := finance.NewBillUseCase(f.store.Tx(), f.repos.Bills, f.repos.Installments, f.repos.Suppliers)
	launched, err := f.nfes.Launch(ctx, companyID, userID, doc.ID, dto.LaunchNFeRequest{CreateBill: true})
	require.NoError(t, err)

	boom := errors.New("boom")
	f.store.FailOn("nfes.clear_bill", boom)
	require.ErrorIs(t, bills.Delete(ctx, companyID, *launched.BillID), boom)

	bill, err := f.repos.Bills.GetByID(ctx, companyID, *launched.BillID)
	require.NoError(t, err)
	assert.NotNil(t, bill)
	got, err := f.nfes.GetByID(ctx, companyID, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BillID)
	assert.Equal(t, *launched.BillID, *got.BillID)
}

func TestLaunch_DuplicatasNoCuadranRevierteTodo(t *testing.T) {
	f := newFixture()
	f.parser.doc.Duplicates[1].Amount = d("70")
	ctx := context.Background()
	doc, flour, _ := f.importMapped(t)

	_, err := f.nfes.Launch(ctx, companyID, userID, doc.ID, dto.LaunchNFeRequest{CreateBill: true})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.items.GetByID(ctx, companyID, flour.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.IsZero(), "el stock no debe entrar si falla la cuenta por pagar")
	pending, err := f.nfes.GetByID(ctx, companyID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NFeStatusPending, pending.Status)
}

func TestLaunch_RollbackSiFallaElCierre(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc, flour, _ := f.importMapped(t)
	boom := errors.New("boom")
	f.store.FailOn("nfes.mark_launched", boom)

	_, err := f.nfes.Launch(ctx, companyID, userID, doc.ID, dto.LaunchNFeRequest{})
	require.ErrorIs(t, err, boom)

	got, err := f.items.GetByID(ctx, companyID, flour.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.IsZero())
	costs, err := f.items.ListCosts(ctx, companyID, flour.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, costs)
}

func TestImport_RecuerdaVinculosDelProveedor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc, flour, _ := f.importMapped(t)
	_, err := f.nfes.Launch(ctx, companyID, userID, doc.ID, dto.LaunchNFeRequest{})
	require.NoError(t, err)

	// nueva nota del mismo proveedor con los mismos códigos
	f.parser.doc.AccessKey = "35240611222333000181550010000012351123456780"
	f.parser.doc.Number = "1235"
	next, err := f.nfes.Import(ctx, companyID, userID, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 0, next.UnmappedCount)
	require.NotNil(t, next.Items[0].ItemID)
	assert.Equal(t, flour.ID, *next.Items[0].ItemID)
	assert.Equal(t, "25", next.Items[0].Factor.String())
}

func TestMapItem_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	it := f.item(t, "FARINHA")
	doc, err := f.nfes.Import(ctx, companyID, userID, []byte("x"))
	require.NoError(t, err)

	zero := d("0")
	_, err = f.nfes.MapItem(ctx, companyID, doc.ID, 1, dto.MapNFeItemRequest{ItemID: it.ID, Factor: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.nfes.MapItem(ctx, companyID, doc.ID, 9, dto.MapNFeItemRequest{ItemID: it.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound, "línea inexistente")

	_, err = f.nfes.MapItem(ctx, companyID, doc.ID, 1, dto.MapNFeItemRequest{ItemID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_Pendiente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	doc, err := f.nfes.Import(ctx, companyID, userID, []byte("x"))
	require.NoError(t, err)

	require.NoError(t, f.nfes.Delete(ctx, companyID, doc.ID))
	_, err = f.nfes.GetByID(ctx, companyID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
