package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalBalance decimal.Decimal `json:"total_balance"` // suma de cuentas activas

	// Cuotas pendientes que vencen en los próximos 30 días
	UpcomingCount  int             `json:"upcoming_count"`
	UpcomingAmount decimal.Decimal `json:"upcoming_amount"`

	// Cuotas pendientes vencidas
	OverdueCount  int             `json:"overdue_count"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`

	// Ventas completadas del mes en curso
	MonthSalesCount  int             `json:"month_sales_count"`
	MonthSalesAmount decimal.Decimal `json:"month_sales_amount"`

	PendingNFeCount int    `json:"pending_nfe_count"`
	LowStockCount   int    `json:"low_stock_count"`
	DateLabel       string `json:"date_label"` // ej: "2024-06"
}

// StockValuationRowDTO línea del informe de valoración de stock.
type StockValuationRowDTO struct {
	ItemID   string          `json:"item_id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Unit     string          `json:"unit"`
	Stock    decimal.Decimal `json:"stock"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Value    decimal.Decimal `json:"value"`
}

// StockValuationDTO informe de valoración a costo unitario vigente.
type StockValuationDTO struct {
	Items []StockValuationRowDTO `json:"items"`
	Total decimal.Decimal        `json:"total"`
}

// LowStockRowDTO ítem por debajo del stock mínimo.
type LowStockRowDTO struct {
	ItemID   string          `json:"item_id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Stock    decimal.Decimal `json:"stock"`
	MinStock decimal.Decimal `json:"min_stock"`
	Missing  decimal.Decimal `json:"missing"` // MinStock - Stock
}
