// Package analytics contiene los casos de uso del panel y de los informes de stock.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

const upcomingWindow = 30 * 24 * time.Hour // cuotas "por vencer"

// DashboardUseCase genera el resumen del panel y los informes de stock.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO para la empresa indicada.
//
// Dos consultas en paralelo:
//  1. DashboardSummary(hoy, hoy+30d) → saldos, cuotas, ventas del mes, NFe pendientes
//  2. LowStock                       → LowStockCount
func (uc *DashboardUseCase) GetSummary(ctx context.Context, companyID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	type summaryResult struct {
		summary *repository.DashboardSummary
		err     error
	}
	type lowStockResult struct {
		count int
		err   error
	}
	summaryCh := make(chan summaryResult, 1)
	lowCh := make(chan lowStockResult, 1)

	go func() {
		s, err := uc.analyticsRepo.DashboardSummary(ctx, companyID, today, today.Add(upcomingWindow))
		summaryCh <- summaryResult{s, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.LowStock(ctx, companyID)
		lowCh <- lowStockResult{len(rows), err}
	}()

	sr := <-summaryCh
	lr := <-lowCh
	if sr.err != nil {
		return nil, fmt.Errorf("dashboard: resumen: %w", sr.err)
	}
	if lr.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", lr.err)
	}
	s := sr.summary
	return &dto.DashboardSummaryDTO{
		TotalBalance:     s.TotalBalance.Round(2),
		UpcomingCount:    s.UpcomingCount,
		UpcomingAmount:   s.UpcomingAmount.Round(2),
		OverdueCount:     s.OverdueCount,
		OverdueAmount:    s.OverdueAmount.Round(2),
		MonthSalesCount:  s.MonthSalesCount,
		MonthSalesAmount: s.MonthSalesAmount.Round(2),
		PendingNFeCount:  s.PendingNFeCount,
		LowStockCount:    lr.count,
		DateLabel:        now.Format("2006-01"),
	}, nil
}

// StockValuation valoriza el stock de los ítems activos a costo unitario vigente.
// kind vacío incluye todos los tipos.
func (uc *DashboardUseCase) StockValuation(ctx context.Context, companyID, kind string) (*dto.StockValuationDTO, error) {
	switch kind {
	case "", entity.ItemKindIngredient, entity.ItemKindProduct, entity.ItemKindPackage:
	default:
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.analyticsRepo.StockValuation(ctx, companyID, kind)
	if err != nil {
		return nil, err
	}
	out := &dto.StockValuationDTO{Items: make([]dto.StockValuationRowDTO, 0, len(rows)), Total: decimal.Zero}
	for _, r := range rows {
		value := r.Value.Round(2)
		out.Items = append(out.Items, dto.StockValuationRowDTO{
			ItemID:   r.ItemID,
			SKU:      r.SKU,
			Name:     r.Name,
			Kind:     r.Kind,
			Unit:     r.Unit,
			Stock:    r.Stock,
			UnitCost: r.UnitCost,
			Value:    value,
		})
		out.Total = out.Total.Add(value)
	}
	return out, nil
}

// LowStock lista ítems activos con stock por debajo del mínimo.
func (uc *DashboardUseCase) LowStock(ctx context.Context, companyID string) ([]dto.LowStockRowDTO, error) {
	rows, err := uc.analyticsRepo.LowStock(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LowStockRowDTO{
			ItemID:   r.ItemID,
			SKU:      r.SKU,
			Name:     r.Name,
			Kind:     r.Kind,
			Stock:    r.Stock,
			MinStock: r.MinStock,
			Missing:  r.MinStock.Sub(r.Stock),
		})
	}
	return out, nil
}
