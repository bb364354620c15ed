package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/inventory"
	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
	"github.com/jhoicas/Gestao-api/internal/testutil/memstore"
)

const (
	companyID = "company-1"
	userID    = "user-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func setup() (*memstore.Store, *inventory.ItemUseCase, *inventory.RegisterMovementUseCase) {
	store := memstore.New()
	repos := store.Repos()
	items := inventory.NewItemUseCase(store.Tx(), repos.Items, repos.Costs, repos.Movements)
	movs := inventory.NewRegisterMovementUseCase(store.Tx(), repos.Items, repos.Movements)
	return store, items, movs
}

func createItem(t *testing.T, uc *inventory.ItemUseCase, sku string) *dto.ItemResponse {
	t.Helper()
	item, err := uc.Create(context.Background(), companyID, userID, dto.CreateItemRequest{
		Kind: entity.ItemKindIngredient, SKU: sku, Name: "Farinha", Unit: "kg", MinStock: d("5"),
	})
	require.NoError(t, err)
	return item
}

func TestItem_Create_ConStockInicial(t *testing.T) {
	_, items, movs := setup()
	ctx := context.Background()

	item, err := items.Create(ctx, companyID, userID, dto.CreateItemRequest{
		Kind: entity.ItemKindIngredient, SKU: "FAR-1", Name: "Farinha", Unit: "kg",
		InitialStock: dp("25"), InitialPrice: dp("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, "25", item.Stock.String())
	assert.Equal(t, "4", item.UnitCost.String(), "100 / 25")

	list, err := movs.List(ctx, repository.MovementFilter{CompanyID: companyID, ItemID: item.ID})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, entity.MovementTypeIN, list.Items[0].Type)
	assert.Equal(t, "100", list.Items[0].TotalCost.String())
}

func TestItem_Create_Validaciones(t *testing.T) {
	_, items, _ := setup()
	ctx := context.Background()

	_, err := items.Create(ctx, companyID, userID, dto.CreateItemRequest{Kind: "tool", SKU: "X", Name: "x", Unit: "un"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = items.Create(ctx, companyID, userID, dto.CreateItemRequest{Kind: entity.ItemKindProduct, SKU: "X", Name: "x", Unit: "un", InitialPrice: dp("10")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio inicial sin stock inicial")

	createItem(t, items, "DUP")
	_, err = items.Create(ctx, companyID, userID, dto.CreateItemRequest{Kind: entity.ItemKindIngredient, SKU: "DUP", Name: "x", Unit: "un"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItem_Create_RollbackSiFallaElMovimiento(t *testing.T) {
	store, items, _ := setup()
	boom := errors.New("boom")
	store.FailOn("movements.create", boom)

	_, err := items.Create(context.Background(), companyID, userID, dto.CreateItemRequest{
		Kind: entity.ItemKindIngredient, SKU: "FAR-1", Name: "Farinha", Unit: "kg", InitialStock: dp("1"),
	})
	require.ErrorIs(t, err, boom)

	list, err := items.List(context.Background(), repository.ItemFilter{CompanyID: companyID})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "el ítem no debe quedar creado")
}

func TestItem_AddCost_ReemplazaCostoVigente(t *testing.T) {
	_, items, _ := setup()
	ctx := context.Background()
	item := createItem(t, items, "ACU-1")
	assert.True(t, item.UnitCost.IsZero(), "sin historial el costo es cero")

	_, err := items.AddCost(ctx, companyID, item.ID, dto.CreateCostEntryRequest{Price: d("30"), Quantity: d("10")})
	require.NoError(t, err)
	_, err = items.AddCost(ctx, companyID, item.ID, dto.CreateCostEntryRequest{Price: d("50"), Quantity: d("10")})
	require.NoError(t, err)

	got, err := items.GetByID(ctx, companyID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "5", got.UnitCost.String(), "el último registro manda, sin promedio")

	costs, err := items.ListCosts(ctx, companyID, item.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, costs, 2)
	assert.Equal(t, "50", costs[0].Price.String())

	_, err = items.AddCost(ctx, companyID, item.ID, dto.CreateCostEntryRequest{Price: d("1"), Quantity: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovement_IN_OUT_Adjustment(t *testing.T) {
	_, items, movs := setup()
	ctx := context.Background()
	item := createItem(t, items, "FAR-1")

	in, err := movs.RegisterMovementFromRequest(ctx, companyID, userID, dto.RegisterMovementRequest{
		ItemID: item.ID, Type: entity.MovementTypeIN, Quantity: d("10"), Price: dp("20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2", in.UnitCost.String())

	out, err := movs.RegisterMovementFromRequest(ctx, companyID, userID, dto.RegisterMovementRequest{
		ItemID: item.ID, Type: entity.MovementTypeOUT, Quantity: d("3"),
	})
	require.NoError(t, err)
	assert.Equal(t, "-3", out.Quantity.String())
	assert.Equal(t, "-6", out.TotalCost.String())

	_, err = movs.RegisterMovementFromRequest(ctx, companyID, userID, dto.RegisterMovementRequest{
		ItemID: item.ID, Type: entity.MovementTypeADJUSTMENT, Quantity: d("-2"),
	})
	require.NoError(t, err)

	got, err := items.GetByID(ctx, companyID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "5", got.Stock.String())
}

func TestMovement_OUT_StockInsuficiente(t *testing.T) {
	_, items, movs := setup()
	ctx := context.Background()
	item := createItem(t, items, "FAR-1")

	_, err := movs.RegisterMovementFromRequest(ctx, companyID, userID, dto.RegisterMovementRequest{
		ItemID: item.ID, Type: entity.MovementTypeOUT, Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = movs.RegisterMovementFromRequest(ctx, companyID, userID, dto.RegisterMovementRequest{
		ItemID: item.ID, Type: entity.MovementTypeADJUSTMENT, Quantity: d("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestMovement_EntradasInvalidas(t *testing.T) {
	_, items, movs := setup()
	ctx := context.Background()
	item := createItem(t, items, "FAR-1")

	cases := []struct {
		name string
		in   dto.RegisterMovementRequest
		want error
	}{
		{"tipo desconocido", dto.RegisterMovementRequest{ItemID: item.ID, Type: "MOVE", Quantity: d("1")}, domain.ErrInvalidInput},
		{"IN cantidad cero", dto.RegisterMovementRequest{ItemID: item.ID, Type: entity.MovementTypeIN, Quantity: d("0")}, domain.ErrInvalidInput},
		{"OUT con precio", dto.RegisterMovementRequest{ItemID: item.ID, Type: entity.MovementTypeOUT, Quantity: d("1"), Price: dp("1")}, domain.ErrInvalidInput},
		{"ajuste cero", dto.RegisterMovementRequest{ItemID: item.ID, Type: entity.MovementTypeADJUSTMENT, Quantity: d("0")}, domain.ErrInvalidInput},
		{"ítem inexistente", dto.RegisterMovementRequest{ItemID: "missing", Type: entity.MovementTypeIN, Quantity: d("1")}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := movs.RegisterMovementFromRequest(ctx, companyID, userID, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMovement_OtraEmpresaNoVeElItem(t *testing.T) {
	_, items, movs := setup()
	item := createItem(t, items, "FAR-1")

	_, err := movs.RegisterMovementFromRequest(context.Background(), "company-2", userID, dto.RegisterMovementRequest{
		ItemID: item.ID, Type: entity.MovementTypeIN, Quantity: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItem_Delete(t *testing.T) {
	_, items, movs := setup()
	ctx := context.Background()

	fresh := createItem(t, items, "A")
	require.NoError(t, items.Delete(ctx, companyID, fresh.ID))

	used := createItem(t, items, "B")
	_, err := movs.RegisterMovementFromRequest(ctx, companyID, userID, dto.RegisterMovementRequest{
		ItemID: used.ID, Type: entity.MovementTypeIN, Quantity: d("1"),
	})
	require.NoError(t, err)
	assert.ErrorIs(t, items.Delete(ctx, companyID, used.ID), domain.ErrConflict)
}
