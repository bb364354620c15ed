package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Gestao-api/internal/application/analytics"
)

// DashboardHandler maneja el panel y los informes de stock.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del panel
// @Description  Saldo total, cuotas por vencer (30 días) y vencidas, ventas del mes y NFe pendientes.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// StockValuation godoc
// @Summary      Valorización del stock al costo de la última compra
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        kind  query  string  false  "ingredient|product|package"
// @Success      200  {object}  dto.StockValuationDTO
// @Router       /api/reports/stock-valuation [get]
func (h *DashboardHandler) StockValuation(c *fiber.Ctx) error {
	out, err := h.uc.StockValuation(c.UserContext(), GetCompanyID(c), c.Query("kind"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Ítems bajo el stock mínimo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockRowDTO
// @Router       /api/reports/low-stock [get]
func (h *DashboardHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
