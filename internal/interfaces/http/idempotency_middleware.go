package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/ports"
	"github.com/jhoicas/Gestao-api/internal/infrastructure/metrics"
)

// HeaderIdempotencyKey header opcional en los POST que mueven dinero o stock.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// Idempotency rechaza con 409 una Idempotency-Key ya usada por la empresa. Sin header la
// petición pasa tal cual. Si la petición termina en error (>= 400) la clave se libera.
func Idempotency(store ports.IdempotencyStore, m *metrics.Metrics, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Idempotency-Key muito longa"})
		}
		companyID := GetCompanyID(c)
		ok, err := store.Reserve(c.UserContext(), companyID, key)
		if err != nil {
			log.Error().Err(err).Str("company_id", companyID).Msg("reservar Idempotency-Key")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "tente novamente"})
		}
		if !ok {
			m.IncIdempotentReplays()
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_REQUEST", Message: "requisição já processada para esta Idempotency-Key"})
		}

		err = c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			if relErr := store.Release(c.UserContext(), companyID, key); relErr != nil {
				log.Warn().Err(relErr).Str("company_id", companyID).Msg("liberar Idempotency-Key")
			}
		}
		return err
	}
}
