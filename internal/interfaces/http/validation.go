package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Gestao-api/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// los campos se reportan con el nombre JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// ids opcionales: "" desvincula, cualquier otro valor debe ser UUID
	_ = v.RegisterValidation("uuid_or_empty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || isUUID(s)
	})
	return v
}

func isUUID(s string) bool {
	return uuid.Validate(s) == nil
}

// validationError construye el cuerpo 400 VALIDATION con un mensaje por campo.
func validationError(c *fiber.Ctx, err error) error {
	resp := dto.ErrorResponse{Code: "VALIDATION", Message: "dados inválidos"}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			field := strings.TrimPrefix(fe.Namespace(), strings.Split(fe.Namespace(), ".")[0]+".")
			resp.Fields[field] = describe(fe)
		}
	} else {
		resp.Message = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(resp)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "obrigatório"
	case "email":
		return "e-mail inválido"
	case "min":
		return "mínimo " + fe.Param()
	case "max":
		return "máximo " + fe.Param()
	case "oneof":
		return "deve ser um de: " + fe.Param()
	case "uuid", "uuid_or_empty":
		return "UUID inválido"
	case "nefield":
		return "deve ser diferente de " + fe.Param()
	default:
		return "inválido (" + fe.Tag() + ")"
	}
}

// bindJSON parsea el cuerpo y lo valida. Devuelve false si ya respondió con error.
func bindJSON(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, invalidBody(c)
	}
	if err := validate.Struct(out); err != nil {
		return false, validationError(c, err)
	}
	return true, nil
}

// bindOptionalJSON como bindJSON pero acepta cuerpo vacío.
func bindOptionalJSON(c *fiber.Ctx, out any) (bool, error) {
	if len(c.Body()) == 0 {
		return true, nil
	}
	return bindJSON(c, out)
}
