package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Gestao-api/internal/domain/inventory"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

// StockChange describe una variación de stock dentro de una transacción abierta por el caller
// (movimiento manual, venta o lanzamiento de NFe).
type StockChange struct {
	CompanyID     string
	UserID        string
	ItemID        string
	Quantity      decimal.Decimal  // siempre positiva; el signo lo da la operación
	Price         *decimal.Decimal // valor total pagado; si viene, se agrega al historial de costos
	UnitCost      *decimal.Decimal // costo fijo para el movimiento (ej. devolución de venta)
	CostSource    string
	NFeID         *string
	RefType       string
	RefID         string
	TransactionID string
	Now           time.Time
}

// ApplyIN bloquea el ítem (SELECT FOR UPDATE), suma la cantidad, registra el costo si hay precio
// y guarda el movimiento IN.
func ApplyIN(ctx context.Context, r repository.TxRepos, ch StockChange) (*entity.StockMovement, error) {
	if !ch.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, latest, err := lockItem(ctx, r, ch)
	if err != nil {
		return nil, err
	}
	unitCost := domaininv.MovementCost(ch.Price, ch.Quantity, latest)
	if ch.UnitCost != nil {
		unitCost = *ch.UnitCost
	}
	if ch.Price != nil {
		source := ch.CostSource
		if source == "" {
			source = entity.CostSourceMovement
		}
		entry := &entity.CostEntry{
			ID:        uuid.New().String(),
			CompanyID: ch.CompanyID,
			ItemID:    item.ID,
			Price:     *ch.Price,
			Quantity:  ch.Quantity,
			Source:    source,
			NFeID:     ch.NFeID,
			CreatedAt: ch.Now,
		}
		if err := r.Costs.Create(ctx, entry); err != nil {
			return nil, err
		}
	}
	if err := r.Items.UpdateStock(ctx, item.ID, item.Stock.Add(ch.Quantity)); err != nil {
		return nil, err
	}
	return saveMovement(ctx, r, ch, entity.MovementTypeIN, ch.Quantity, unitCost)
}

// ApplyOUT bloquea el ítem, verifica StockActual >= Cantidad, resta y guarda el movimiento OUT
// al costo unitario vigente.
func ApplyOUT(ctx context.Context, r repository.TxRepos, ch StockChange) (*entity.StockMovement, error) {
	if !ch.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, latest, err := lockItem(ctx, r, ch)
	if err != nil {
		return nil, err
	}
	if item.Stock.LessThan(ch.Quantity) {
		return nil, domain.ErrInsufficientStock
	}
	if err := r.Items.UpdateStock(ctx, item.ID, item.Stock.Sub(ch.Quantity)); err != nil {
		return nil, err
	}
	return saveMovement(ctx, r, ch, entity.MovementTypeOUT, ch.Quantity.Neg(), domaininv.UnitCost(latest))
}

// ApplyAdjustment aplica una cantidad con signo. Un ajuste negativo no puede dejar stock < 0.
func ApplyAdjustment(ctx context.Context, r repository.TxRepos, ch StockChange) (*entity.StockMovement, error) {
	if ch.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	item, latest, err := lockItem(ctx, r, ch)
	if err != nil {
		return nil, err
	}
	next := item.Stock.Add(ch.Quantity)
	if next.IsNegative() {
		return nil, domain.ErrInsufficientStock
	}
	if err := r.Items.UpdateStock(ctx, item.ID, next); err != nil {
		return nil, err
	}
	return saveMovement(ctx, r, ch, entity.MovementTypeADJUSTMENT, ch.Quantity, domaininv.UnitCost(latest))
}

func lockItem(ctx context.Context, r repository.TxRepos, ch StockChange) (*entity.Item, *entity.CostEntry, error) {
	item, err := r.Items.GetForUpdate(ctx, ch.CompanyID, ch.ItemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, domain.ErrNotFound
	}
	latest, err := r.Costs.Latest(ctx, item.ID)
	if err != nil {
		return nil, nil, err
	}
	return item, latest, nil
}

func saveMovement(ctx context.Context, r repository.TxRepos, ch StockChange, typ string, qty, unitCost decimal.Decimal) (*entity.StockMovement, error) {
	txID := ch.TransactionID
	if txID == "" {
		txID = uuid.New().String()
	}
	refType := ch.RefType
	if refType == "" {
		refType = entity.MovementRefManual
	}
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		CompanyID:     ch.CompanyID,
		TransactionID: txID,
		ItemID:        ch.ItemID,
		Type:          typ,
		Quantity:      qty,
		UnitCost:      unitCost,
		TotalCost:     qty.Mul(unitCost),
		RefType:       refType,
		RefID:         ch.RefID,
		CreatedBy:     ch.UserID,
		CreatedAt:     ch.Now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
