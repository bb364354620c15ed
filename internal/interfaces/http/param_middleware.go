package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestao-api/internal/domain"
)

// ValidIDParams responde 404 si algún parámetro de ruta no es un UUID.
// Un id mal formado no puede existir; no se consulta la DB.
func ValidIDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			if !isUUID(c.Params(name)) {
				return respondError(c, domain.ErrNotFound)
			}
		}
		return c.Next()
	}
}
