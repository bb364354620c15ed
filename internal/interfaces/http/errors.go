package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: los errores específicos antes que los genéricos.
var errorMappings = []errorMapping{
	{domain.ErrInvalidAccessKey, fiber.StatusBadRequest, "INVALID_ACCESS_KEY"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrLinkedTransaction, fiber.StatusConflict, "LINKED_TRANSACTION"},
	{domain.ErrBillHasPayments, fiber.StatusConflict, "BILL_HAS_PAYMENTS"},
	{domain.ErrInstallmentNotPending, fiber.StatusConflict, "INSTALLMENT_NOT_PENDING"},
	{domain.ErrInstallmentNotPaid, fiber.StatusConflict, "INSTALLMENT_NOT_PAID"},
	{domain.ErrSaleCanceled, fiber.StatusConflict, "SALE_CANCELED"},
	{domain.ErrNFeAlreadyLaunched, fiber.StatusConflict, "NFE_ALREADY_LAUNCHED"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	{domain.ErrAccountInactive, fiber.StatusUnprocessableEntity, "ACCOUNT_INACTIVE"},
	{domain.ErrNFeUnmappedItems, fiber.StatusUnprocessableEntity, "NFE_UNMAPPED_ITEMS"},
}

// respondError traduce un error de dominio a estado HTTP y dto.ErrorResponse.
// Los errores no mapeados se registran y se responden como 500 sin detalle.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Str("company_id", GetCompanyID(c)).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "erro interno"})
}

// ErrorHandler para fiber.Config: errores de fiber conservan su estado, el resto pasa por respondError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return respondError(c, err)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
}
