package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/finance"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
	"github.com/jhoicas/Gestao-api/internal/infrastructure/metrics"
)

// BillHandler cuentas por pagar y sus cuotas.
type BillHandler struct {
	uc      *finance.BillUseCase
	metrics *metrics.Metrics
}

// NewBillHandler construye el handler. m puede ser nil.
func NewBillHandler(uc *finance.BillUseCase, m *metrics.Metrics) *BillHandler {
	return &BillHandler{uc: uc, metrics: m}
}

// Create godoc
// @Summary      Crear cuenta por pagar
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillRequest  true  "total y cuotas (N o calendario explícito)"
// @Success      201  {object}  dto.BillResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/bills [post]
func (h *BillHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar cuentas por pagar
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "pending|partial|paid"
// @Param        supplier_id  query  string  false  "proveedor"
// @Success      200  {object}  dto.BillListResponse
// @Router       /api/bills [get]
func (h *BillHandler) List(c *fiber.Ctx) error {
	supplierID, ok, err := queryID(c, "supplier_id")
	if !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), repository.BillFilter{
		CompanyID:  GetCompanyID(c),
		SupplierID: supplierID,
		Status:     c.Query("status"),
		Page:       pageFromQuery(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cuenta con cuotas
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.BillResponse
// @Router       /api/bills/{id} [get]
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar descripción, categoría o proveedor
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID"
// @Param        body  body  dto.UpdateBillRequest  true  "campos"
// @Success      200  {object}  dto.BillResponse
// @Router       /api/bills/{id} [put]
func (h *BillHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBillRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cuenta sin cuotas pagadas
// @Tags         bills
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/bills/{id} [delete]
func (h *BillHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListInstallments godoc
// @Summary      Listar cuotas
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "pending|paid"
// @Param        due_from  query  string  false  "vencimiento desde"
// @Param        due_to    query  string  false  "vencimiento hasta"
// @Param        overdue   query  bool    false  "solo vencidas"
// @Success      200  {object}  dto.InstallmentListResponse
// @Router       /api/installments [get]
func (h *BillHandler) ListInstallments(c *fiber.Ctx) error {
	from, to, ok, err := queryRange(c, "due_from", "due_to")
	if !ok {
		return err
	}
	out, err := h.uc.ListInstallments(c.UserContext(), repository.InstallmentFilter{
		CompanyID: GetCompanyID(c),
		Status:    c.Query("status"),
		DueFrom:   from,
		DueTo:     to,
		Page:      pageFromQuery(c),
	}, queryBool(c, "overdue"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Pay godoc
// @Summary      Pagar cuota (débito en la cuenta)
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                     true   "cuota"
// @Param        Idempotency-Key  header  string                     false  "clave de idempotencia"
// @Param        body             body    dto.PayInstallmentRequest  true   "cuenta, fecha y valor"
// @Success      200  {object}  dto.InstallmentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/installments/{id}/pay [post]
func (h *BillHandler) Pay(c *fiber.Ctx) error {
	var in dto.PayInstallmentRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Pay(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.IncInstallmentsPaid()
	return c.JSON(out)
}

// CancelPayment godoc
// @Summary      Cancelar pago de cuota (revierte el débito)
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "cuota"
// @Success      200  {object}  dto.InstallmentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/installments/{id}/cancel-payment [post]
func (h *BillHandler) CancelPayment(c *fiber.Ctx) error {
	out, err := h.uc.CancelPayment(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.IncPaymentsCanceled()
	return c.JSON(out)
}

// Reschedule godoc
// @Summary      Cambiar vencimiento de cuota pendiente
// @Tags         bills
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "cuota"
// @Param        body  body  dto.RescheduleInstallmentRequest  true  "due_date"
// @Success      200  {object}  dto.InstallmentResponse
// @Router       /api/installments/{id} [put]
func (h *BillHandler) Reschedule(c *fiber.Ctx) error {
	var in dto.RescheduleInstallmentRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Reschedule(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
