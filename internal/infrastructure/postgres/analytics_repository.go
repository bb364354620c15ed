package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el panel y los informes de stock.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// DashboardSummary agrega en una sola consulta:
//   - saldo de las cuentas activas
//   - cuotas pendientes vencidas (due_date < hoy) y por vencer (hoy ≤ due_date ≤ upcomingUntil)
//   - ventas completadas desde el primer día del mes de now
//   - NFe pendientes de lanzamiento
func (r *AnalyticsRepo) DashboardSummary(ctx context.Context, companyID string, now, upcomingUntil time.Time) (*repository.DashboardSummary, error) {
	const query = `
	WITH
	balance AS (
	    SELECT COALESCE(SUM(balance), 0) AS total
	    FROM bank_accounts
	    WHERE company_id = $1 AND active
	),
	installments_due AS (
	    SELECT
	        COUNT(*)               FILTER (WHERE due_date < $2::date)                              AS overdue_count,
	        COALESCE(SUM(amount)   FILTER (WHERE due_date < $2::date), 0)                          AS overdue_amount,
	        COUNT(*)               FILTER (WHERE due_date >= $2::date AND due_date <= $3::date)    AS upcoming_count,
	        COALESCE(SUM(amount)   FILTER (WHERE due_date >= $2::date AND due_date <= $3::date), 0) AS upcoming_amount
	    FROM installments
	    WHERE company_id = $1 AND status = 'pending'
	),
	month_sales AS (
	    SELECT COUNT(*) AS n, COALESCE(SUM(total), 0) AS amount
	    FROM sales
	    WHERE company_id = $1
	      AND status = 'completed'
	      AND created_at >= date_trunc('month', $2::timestamptz)
	),
	pending_nfe AS (
	    SELECT COUNT(*) AS n FROM nfes WHERE company_id = $1 AND status = 'pending'
	)
	SELECT b.total,
	       i.upcoming_count, i.upcoming_amount,
	       i.overdue_count, i.overdue_amount,
	       s.n, s.amount,
	       p.n
	FROM balance b, installments_due i, month_sales s, pending_nfe p`

	var out repository.DashboardSummary
	err := r.q.QueryRow(ctx, query, companyID, now, upcomingUntil).Scan(
		&out.TotalBalance,
		&out.UpcomingCount, &out.UpcomingAmount,
		&out.OverdueCount, &out.OverdueAmount,
		&out.MonthSalesCount, &out.MonthSalesAmount,
		&out.PendingNFeCount,
	)
	if err != nil {
		return nil, wrapRead("analytics.DashboardSummary", err)
	}
	return &out, nil
}

// StockValuation valoriza el stock de los ítems activos al costo de la última compra.
func (r *AnalyticsRepo) StockValuation(ctx context.Context, companyID, kind string) ([]repository.StockValuationRow, error) {
	const query = `
	SELECT
	    i.id, i.sku, i.name, i.kind, i.unit, i.stock,
	    COALESCE(CASE WHEN c.quantity > 0 THEN c.price / c.quantity END, 0)           AS unit_cost,
	    i.stock * COALESCE(CASE WHEN c.quantity > 0 THEN c.price / c.quantity END, 0) AS value
	FROM items i
	LEFT JOIN LATERAL (
	    SELECT price, quantity
	    FROM cost_entries ce
	    WHERE ce.item_id = i.id
	    ORDER BY ce.created_at DESC, ce.seq DESC
	    LIMIT 1
	) c ON true
	WHERE i.company_id = $1
	  AND i.active
	  AND ($2 = '' OR i.kind = $2)
	ORDER BY i.name, i.id`

	rows, err := r.q.Query(ctx, query, companyID, kind)
	if err != nil {
		return nil, wrapRead("analytics.StockValuation", err)
	}
	defer rows.Close()

	results := []repository.StockValuationRow{}
	for rows.Next() {
		var row repository.StockValuationRow
		if err := rows.Scan(&row.ItemID, &row.SKU, &row.Name, &row.Kind, &row.Unit, &row.Stock, &row.UnitCost, &row.Value); err != nil {
			return nil, wrapRead("analytics.StockValuation scan", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// LowStock ítems activos con stock por debajo del mínimo, mayor faltante primero.
func (r *AnalyticsRepo) LowStock(ctx context.Context, companyID string) ([]repository.LowStockRow, error) {
	const query = `
	SELECT id, sku, name, kind, stock, min_stock
	FROM items
	WHERE company_id = $1 AND active AND stock < min_stock
	ORDER BY (min_stock - stock) DESC, name`

	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, wrapRead("analytics.LowStock", err)
	}
	defer rows.Close()

	results := []repository.LowStockRow{}
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ItemID, &row.SKU, &row.Name, &row.Kind, &row.Stock, &row.MinStock); err != nil {
			return nil, wrapRead("analytics.LowStock scan", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
