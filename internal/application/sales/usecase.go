// Package sales registra ventas de productos: baja de stock, costo congelado por línea
// y crédito opcional en cuenta bancaria.
package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/finance"
	"github.com/jhoicas/Gestao-api/internal/application/inventory"
	"github.com/jhoicas/Gestao-api/internal/application/ports"
	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

// SaleUseCase alta, cancelación y consulta de ventas.
type SaleUseCase struct {
	txRunner ports.TxRunner
	sales    repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner ports.TxRunner, sales repository.SaleRepository) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, sales: sales}
}

// Create registra la venta en una sola transacción: por línea bloquea el producto, verifica y
// descuenta stock (movimiento OUT) y congela el costo unitario; si hay cuenta, acredita el total.
func (uc *SaleUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 || in.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Items {
		if !line.Quantity.GreaterThan(decimal.Zero) || (line.UnitPrice != nil && line.UnitPrice.IsNegative()) {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	sale := &entity.Sale{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		CustomerName: strings.TrimSpace(in.CustomerName),
		Discount:     in.Discount.Round(2),
		Status:       entity.SaleStatusCompleted,
		CreatedBy:    userID,
		CreatedAt:    now,
	}
	if in.BankAccountID != nil && *in.BankAccountID != "" {
		txID := uuid.New().String()
		sale.BankAccountID = in.BankAccountID
		sale.BankTransactionID = &txID
	}

	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		gross := decimal.Zero
		for _, line := range in.Items {
			item, err := r.Items.GetForUpdate(ctx, companyID, line.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			if item.Kind != entity.ItemKindProduct || !item.Active {
				return fmt.Errorf("%w: %s no es un producto activo", domain.ErrInvalidInput, item.SKU)
			}
			price := item.SalePrice
			if line.UnitPrice != nil {
				price = *line.UnitPrice
			}
			mov, err := inventory.ApplyOUT(ctx, r, inventory.StockChange{
				CompanyID:     companyID,
				UserID:        userID,
				ItemID:        item.ID,
				Quantity:      line.Quantity,
				RefType:       entity.MovementRefSale,
				RefID:         sale.ID,
				TransactionID: sale.ID,
				Now:           now,
			})
			if err != nil {
				return err
			}
			total := line.Quantity.Mul(price).Round(2)
			gross = gross.Add(total)
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ItemID:    item.ID,
				Quantity:  line.Quantity,
				UnitPrice: price,
				UnitCost:  mov.UnitCost,
				Total:     total,
			})
		}
		sale.Total = gross.Sub(sale.Discount)
		if sale.Total.IsNegative() {
			return fmt.Errorf("%w: el descuento supera el total", domain.ErrInvalidInput)
		}
		if sale.Total.IsZero() {
			sale.BankAccountID, sale.BankTransactionID = nil, nil
		}
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if sale.BankAccountID == nil {
			return nil
		}
		return finance.Post(ctx, r, &entity.BankTransaction{
			ID:          *sale.BankTransactionID,
			CompanyID:   companyID,
			AccountID:   *sale.BankAccountID,
			Type:        entity.TransactionCredit,
			Amount:      sale.Total,
			Description: "Venda " + shortID(sale.ID),
			Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
			SaleID:      &sale.ID,
			CreatedBy:   userID,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// Cancel repone el stock de cada línea al costo congelado (IN, sin historial de costos), borra el
// crédito en cuenta revirtiendo el saldo y marca la venta como cancelada.
func (uc *SaleUseCase) Cancel(ctx context.Context, companyID, userID, id string) (*dto.SaleResponse, error) {
	var out *entity.Sale
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		sale, err := r.Sales.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleStatusCanceled {
			return domain.ErrSaleCanceled
		}
		now := time.Now()
		txID := uuid.New().String()
		for _, line := range sale.Items {
			unitCost := line.UnitCost
			if _, err := inventory.ApplyIN(ctx, r, inventory.StockChange{
				CompanyID:     companyID,
				UserID:        userID,
				ItemID:        line.ItemID,
				Quantity:      line.Quantity,
				UnitCost:      &unitCost,
				RefType:       entity.MovementRefSale,
				RefID:         sale.ID,
				TransactionID: txID,
				Now:           now,
			}); err != nil {
				return err
			}
		}
		if sale.BankTransactionID != nil {
			t, err := r.Transactions.GetByID(ctx, companyID, *sale.BankTransactionID)
			if err != nil {
				return err
			}
			if t != nil {
				if err := finance.Reverse(ctx, r, t); err != nil {
					return err
				}
			}
		}
		sale.Status = entity.SaleStatusCanceled
		sale.CanceledAt = &now
		if err := r.Sales.Update(ctx, sale); err != nil {
			return err
		}
		out = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(out), nil
}

// GetByID obtiene una venta con sus líneas.
func (uc *SaleUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

// List lista ventas por estado y rango de fechas.
func (uc *SaleUseCase) List(ctx context.Context, f repository.SaleFilter) (*dto.SaleListResponse, error) {
	switch f.Status {
	case "", entity.SaleStatusCompleted, entity.SaleStatusCanceled:
	default:
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.sales.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		resp := toSaleResponse(s)
		resp.Items = nil
		items = append(items, *resp)
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	lines := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		lines = append(lines, dto.SaleItemResponse{
			ItemID:    it.ItemID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			UnitCost:  it.UnitCost,
			Total:     it.Total,
		})
	}
	return &dto.SaleResponse{
		ID:                s.ID,
		CustomerName:      s.CustomerName,
		Discount:          s.Discount,
		Total:             s.Total,
		Status:            s.Status,
		BankAccountID:     s.BankAccountID,
		BankTransactionID: s.BankTransactionID,
		Items:             lines,
		CreatedBy:         s.CreatedBy,
		CreatedAt:         s.CreatedAt,
		CanceledAt:        s.CanceledAt,
	}
}
