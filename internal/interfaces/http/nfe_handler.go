package http

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/nfe"
	"github.com/jhoicas/Gestao-api/internal/domain/repository"
	"github.com/jhoicas/Gestao-api/internal/infrastructure/metrics"
)

// NFeHandler importación de NFe de proveedores, vínculo de ítems y lanzamiento al stock.
type NFeHandler struct {
	uc      *nfe.NFeUseCase
	metrics *metrics.Metrics
}

// NewNFeHandler construye el handler. m puede ser nil.
func NewNFeHandler(uc *nfe.NFeUseCase, m *metrics.Metrics) *NFeHandler {
	return &NFeHandler{uc: uc, metrics: m}
}

// readXML acepta multipart con campo "file" o el XML crudo en el cuerpo.
func readXML(c *fiber.Ctx) ([]byte, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return c.Body(), nil
}

// Import godoc
// @Summary      Importar XML de NFe
// @Tags         nfe
// @Security     Bearer
// @Accept       xml
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  false  "XML (nfeProc o NFe)"
// @Success      201  {object}  dto.NFeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/nfe [post]
func (h *NFeHandler) Import(c *fiber.Ctx) error {
	raw, err := readXML(c)
	if err != nil {
		return invalidBody(c)
	}
	if len(raw) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "envie o XML no corpo ou no campo 'file'"})
	}
	out, err := h.uc.Import(c.UserContext(), GetCompanyID(c), GetUserID(c), raw)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar NFe importadas
// @Tags         nfe
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending|launched"
// @Success      200  {object}  dto.NFeListResponse
// @Router       /api/nfe [get]
func (h *NFeHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), repository.NFeFilter{
		CompanyID: GetCompanyID(c),
		Status:    c.Query("status"),
		Page:      pageFromQuery(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener NFe con ítems y duplicatas
// @Tags         nfe
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.NFeResponse
// @Router       /api/nfe/{id} [get]
func (h *NFeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MapItem godoc
// @Summary      Vincular línea de la NFe a un ítem
// @Tags         nfe
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "NFe"
// @Param        line  path  int                    true  "nItem"
// @Param        body  body  dto.MapNFeItemRequest  true  "item_id y factor"
// @Success      200  {object}  dto.NFeResponse
// @Router       /api/nfe/{id}/items/{line}/mapping [put]
func (h *NFeHandler) MapItem(c *fiber.Ctx) error {
	line, err := strconv.Atoi(c.Params("line"))
	if err != nil || line <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "linha inválida"})
	}
	var in dto.MapNFeItemRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.MapItem(c.UserContext(), GetCompanyID(c), c.Params("id"), line, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Launch godoc
// @Summary      Lanzar NFe al stock (y opcionalmente crear la cuenta por pagar)
// @Tags         nfe
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                false  "NFe"
// @Param        Idempotency-Key  header  string                false  "clave de idempotencia"
// @Param        body             body    dto.LaunchNFeRequest  false  "create_bill, category"
// @Success      200  {object}  dto.NFeResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/nfe/{id}/launch [post]
func (h *NFeHandler) Launch(c *fiber.Ctx) error {
	var in dto.LaunchNFeRequest
	if ok, err := bindOptionalJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Launch(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.IncNFeLaunched()
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar NFe pendiente
// @Tags         nfe
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/nfe/{id} [delete]
func (h *NFeHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
