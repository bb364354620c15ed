package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/ports"
	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (IN, OUT, ADJUSTMENT) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner ports.TxRunner
	itemRepo repository.ItemRepository
	movRepo  repository.StockMovementRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner ports.TxRunner,
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		movRepo:  movRepo,
	}
}

// MovementInputDTO entrada para registrar un movimiento de inventario.
// IN/OUT: Quantity > 0. ADJUSTMENT: Quantity con signo, distinta de cero.
// Price solo aplica a IN y es el valor total pagado por Quantity.
type MovementInputDTO struct {
	CompanyID string
	UserID    string
	ItemID    string
	Type      string
	Quantity  decimal.Decimal
	Price     *decimal.Decimal
}

// RegisterMovement valida la entrada, abre la transacción y aplica la lógica según tipo.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*dto.MovementResponse, error) {
	if input.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.MovementTypeIN:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if input.Price != nil && input.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementTypeOUT:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementTypeADJUSTMENT:
		if input.Quantity.IsZero() {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	if input.Type != entity.MovementTypeIN && input.Price != nil {
		return nil, domain.ErrInvalidInput
	}

	// Validar que el ítem exista y sea de la empresa antes de abrir la tx
	item, err := uc.itemRepo.GetByID(ctx, input.CompanyID, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	change := StockChange{
		CompanyID:  input.CompanyID,
		UserID:     input.UserID,
		ItemID:     input.ItemID,
		Quantity:   input.Quantity,
		Price:      input.Price,
		CostSource: entity.CostSourceMovement,
		RefType:    entity.MovementRefManual,
		Now:        time.Now(),
	}
	var mov *entity.StockMovement
	// Inicia transacción; Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		var err error
		switch input.Type {
		case entity.MovementTypeIN:
			mov, err = ApplyIN(ctx, r, change)
		case entity.MovementTypeOUT:
			mov, err = ApplyOUT(ctx, r, change)
		case entity.MovementTypeADJUSTMENT:
			mov, err = ApplyAdjustment(ctx, r, change)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// List lista movimientos de la empresa, opcionalmente por ítem y rango de fechas.
func (uc *RegisterMovementUseCase) List(ctx context.Context, f repository.MovementFilter) (*dto.MovementListResponse, error) {
	list, err := uc.movRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// ToMovementResponse convierte la entidad a DTO.
func ToMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ItemID:        m.ItemID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		RefType:       m.RefType,
		RefID:         m.RefID,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
