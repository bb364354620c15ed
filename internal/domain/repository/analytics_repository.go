package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary agregados del panel financiero/operativo.
type DashboardSummary struct {
	TotalBalance     decimal.Decimal
	UpcomingCount    int
	UpcomingAmount   decimal.Decimal
	OverdueCount     int
	OverdueAmount    decimal.Decimal
	MonthSalesCount  int
	MonthSalesAmount decimal.Decimal
	PendingNFeCount  int
}

// StockValuationRow valor del stock de un ítem a costo unitario vigente.
type StockValuationRow struct {
	ItemID   string
	SKU      string
	Name     string
	Kind     string
	Unit     string
	Stock    decimal.Decimal
	UnitCost decimal.Decimal
	Value    decimal.Decimal
}

// LowStockRow ítem activo por debajo de su stock mínimo.
type LowStockRow struct {
	ItemID   string
	SKU      string
	Name     string
	Kind     string
	Stock    decimal.Decimal
	MinStock decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para panel e informes.
type AnalyticsRepository interface {
	// DashboardSummary calcula los agregados en now; upcomingUntil limita las cuotas por vencer.
	DashboardSummary(ctx context.Context, companyID string, now, upcomingUntil time.Time) (*DashboardSummary, error)
	StockValuation(ctx context.Context, companyID, kind string) ([]StockValuationRow, error)
	LowStock(ctx context.Context, companyID string) ([]LowStockRow, error)
}
