package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
)

// pageFromQuery lee limit/offset con los mismos límites que dto.PageRequest.
func pageFromQuery(c *fiber.Ctx) repository.Page {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return repository.Page{Limit: p.Limit, Offset: p.Offset}
}

// queryDate parsea un parámetro de fecha opcional.
func queryDate(c *fiber.Ctx, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := dto.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryRange lee from/to (o los nombres indicados); responde 400 si alguno es inválido.
func queryRange(c *fiber.Ctx, fromKey, toKey string) (from, to *time.Time, ok bool, err error) {
	if from, err = queryDate(c, fromKey); err != nil {
		return nil, nil, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: fromKey + ": " + err.Error()})
	}
	if to, err = queryDate(c, toKey); err != nil {
		return nil, nil, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: toKey + ": " + err.Error()})
	}
	return from, to, true, nil
}

// queryID lee un filtro por id opcional; responde 400 si no es UUID.
func queryID(c *fiber.Ctx, name string) (id string, ok bool, err error) {
	id = c.Query(name)
	if id == "" || isUUID(id) {
		return id, true, nil
	}
	return "", false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code: "VALIDATION", Message: name + ": UUID inválido", Fields: map[string]string{name: "UUID inválido"},
	})
}

func queryBool(c *fiber.Ctx, name string) bool {
	b, _ := strconv.ParseBool(c.Query(name))
	return b
}
