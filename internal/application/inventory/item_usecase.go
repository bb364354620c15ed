package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/ports"
	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Gestao-api/internal/domain/inventory"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

// ItemUseCase CRUD de ítems (insumos, productos, embalajes) e historial de costos.
// Stock y costo se manejan vía movimientos, nunca por edición directa.
type ItemUseCase struct {
	txRunner ports.TxRunner
	itemRepo repository.ItemRepository
	costRepo repository.CostEntryRepository
	movRepo  repository.StockMovementRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	txRunner ports.TxRunner,
	itemRepo repository.ItemRepository,
	costRepo repository.CostEntryRepository,
	movRepo repository.StockMovementRepository,
) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, itemRepo: itemRepo, costRepo: costRepo, movRepo: movRepo}
}

// Create crea un ítem con stock cero. Si trae InitialStock registra una entrada IN en la misma
// transacción (con InitialPrice como primer costo).
func (uc *ItemUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if !entity.IsValidItemKind(in.Kind) {
		return nil, domain.ErrInvalidInput
	}
	if in.MinStock.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialStock != nil && !in.InitialStock.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialPrice != nil && (in.InitialStock == nil || in.InitialPrice.IsNegative()) {
		return nil, domain.ErrInvalidInput
	}
	sku := strings.TrimSpace(in.SKU)
	existing, err := uc.itemRepo.GetBySKU(ctx, companyID, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	item := &entity.Item{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Kind:      in.Kind,
		SKU:       sku,
		Name:      strings.TrimSpace(in.Name),
		Unit:      strings.TrimSpace(in.Unit),
		Stock:     decimal.Zero,
		MinStock:  in.MinStock,
		SalePrice: in.SalePrice,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		if err := r.Items.Create(ctx, item); err != nil {
			return err
		}
		if in.InitialStock == nil {
			return nil
		}
		_, err := ApplyIN(ctx, r, StockChange{
			CompanyID:  companyID,
			UserID:     userID,
			ItemID:     item.ID,
			Quantity:   *in.InitialStock,
			Price:      in.InitialPrice,
			CostSource: entity.CostSourceManual,
			RefType:    entity.MovementRefManual,
			Now:        now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, companyID, item.ID)
}

// GetByID obtiene un ítem con su costo unitario vigente.
func (uc *ItemUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	latest, err := uc.costRepo.Latest(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item, domaininv.UnitCost(latest)), nil
}

// List lista ítems por empresa con filtros de tipo y búsqueda.
func (uc *ItemUseCase) List(ctx context.Context, f repository.ItemFilter) (*dto.ItemListResponse, error) {
	if f.Kind != "" && !entity.IsValidItemKind(f.Kind) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.itemRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		latest, err := uc.costRepo.Latest(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *toItemResponse(it, domaininv.UnitCost(latest)))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// Update actualiza datos descriptivos. No permite modificar Stock (se maneja vía movimientos).
func (uc *ItemUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Unit != nil {
		item.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.MinStock != nil {
		if in.MinStock.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.MinStock = *in.MinStock
	}
	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.SalePrice = *in.SalePrice
	}
	if in.Active != nil {
		item.Active = *in.Active
	}
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, companyID, id)
}

// Delete elimina un ítem sin movimientos. Con historial devuelve ErrConflict: hay que desactivarlo.
func (uc *ItemUseCase) Delete(ctx context.Context, companyID, id string) error {
	item, err := uc.itemRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	n, err := uc.movRepo.CountByItem(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return uc.itemRepo.Delete(ctx, companyID, id)
}

// AddCost registra manualmente una compra en el historial: reemplaza el costo unitario vigente.
func (uc *ItemUseCase) AddCost(ctx context.Context, companyID, itemID string, in dto.CreateCostEntryRequest) (*dto.CostEntryResponse, error) {
	if in.Price.IsNegative() || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	entry := &entity.CostEntry{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		ItemID:    itemID,
		Price:     in.Price,
		Quantity:  in.Quantity,
		Source:    entity.CostSourceManual,
		CreatedAt: time.Now(),
	}
	if err := uc.costRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return toCostEntryResponse(entry), nil
}

// ListCosts historial de costos del ítem, del más reciente al más antiguo.
func (uc *ItemUseCase) ListCosts(ctx context.Context, companyID, itemID string, limit, offset int) ([]dto.CostEntryResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.costRepo.ListByItem(ctx, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CostEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toCostEntryResponse(e))
	}
	return out, nil
}

func toItemResponse(it *entity.Item, unitCost decimal.Decimal) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:        it.ID,
		Kind:      it.Kind,
		SKU:       it.SKU,
		Name:      it.Name,
		Unit:      it.Unit,
		Stock:     it.Stock,
		MinStock:  it.MinStock,
		SalePrice: it.SalePrice,
		UnitCost:  unitCost,
		Active:    it.Active,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

func toCostEntryResponse(e *entity.CostEntry) *dto.CostEntryResponse {
	return &dto.CostEntryResponse{
		ID:        e.ID,
		ItemID:    e.ItemID,
		Price:     e.Price,
		Quantity:  e.Quantity,
		UnitCost:  domaininv.UnitCost(e),
		Source:    e.Source,
		NFeID:     e.NFeID,
		CreatedAt: e.CreatedAt,
	}
}
