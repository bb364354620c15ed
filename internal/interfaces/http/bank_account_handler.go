package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/finance"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

// BankAccountHandler cuentas bancarias, transacciones, transferencias y conciliación.
type BankAccountHandler struct {
	uc *finance.AccountUseCase
}

// NewBankAccountHandler construye el handler.
func NewBankAccountHandler(uc *finance.AccountUseCase) *BankAccountHandler {
	return &BankAccountHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cuenta bancaria
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBankAccountRequest  true  "cuenta"
// @Success      201  {object}  dto.BankAccountResponse
// @Router       /api/bank-accounts [post]
func (h *BankAccountHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBankAccountRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar cuentas bancarias
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "solo activas"
// @Success      200  {object}  dto.BankAccountListResponse
// @Router       /api/bank-accounts [get]
func (h *BankAccountHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), queryBool(c, "active"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cuenta bancaria
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.BankAccountResponse
// @Router       /api/bank-accounts/{id} [get]
func (h *BankAccountHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar o desactivar cuenta bancaria
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID"
// @Param        body  body  dto.UpdateBankAccountRequest  true  "campos"
// @Success      200  {object}  dto.BankAccountResponse
// @Router       /api/bank-accounts/{id} [put]
func (h *BankAccountHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBankAccountRequest
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
// @Summary      Eliminar cuenta sin transacciones
// @Tags         finance
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/bank-accounts/{id} [delete]
func (h *BankAccountHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PostTransaction godoc
// @Summary      Lanzar crédito o débito
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                      true   "cuenta"
// @Param        Idempotency-Key  header  string                      false  "clave de idempotencia"
// @Param        body             body    dto.PostTransactionRequest  true   "transacción"
// @Success      201  {object}  dto.TransactionResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/bank-accounts/{id}/transactions [post]
func (h *BankAccountHandler) PostTransaction(c *fiber.Ctx) error {
	var in dto.PostTransactionRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.PostTransaction(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTransactions godoc
// @Summary      Extracto de la cuenta
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "cuenta"
// @Param        from  query  string  false  "desde"
// @Param        to    query  string  false  "hasta"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/bank-accounts/{id}/transactions [get]
func (h *BankAccountHandler) ListTransactions(c *fiber.Ctx) error {
	from, to, ok, err := queryRange(c, "from", "to")
	if !ok {
		return err
	}
	out, err := h.uc.ListTransactions(c.UserContext(), repository.TransactionFilter{
		CompanyID: GetCompanyID(c),
		AccountID: c.Params("id"),
		From:      from,
		To:        to,
		Page:      pageFromQuery(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteTransaction godoc
// @Summary      Eliminar transacción (revierte el saldo)
// @Tags         finance
// @Security     Bearer
// @Param        id  path  string  true  "transacción"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/bank-transactions/{id} [delete]
func (h *BankAccountHandler) DeleteTransaction(c *fiber.Ctx) error {
	if err := h.uc.DeleteTransaction(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transfer godoc
// @Summary      Transferencia entre cuentas
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string               false  "clave de idempotencia"
// @Param        body             body    dto.TransferRequest  true   "transferencia"
// @Success      201  {object}  dto.TransferResponse
// @Router       /api/bank-accounts/transfer [post]
func (h *BankAccountHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Transfer(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Reconcile godoc
// @Summary      Recalcular saldo a partir de las transacciones
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "cuenta"
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/bank-accounts/{id}/reconcile [post]
func (h *BankAccountHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
