package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Gestao-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Gestao-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "gestao-api-test"
	testExpMin    = 60
)

// protectedApp GET /protected detrás de AuthMiddleware + RequireRole(roles...).
func protectedApp(roles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user_id":    apphttp.GetUserID(c),
				"company_id": apphttp.GetCompanyID(c),
				"role":       apphttp.GetRole(c),
			})
		},
	)
	return app
}

func bearer(t *testing.T, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		auth    string
		status  int
		code    string
	}{
		{"admin en ruta admin", []string{entity.RoleAdmin}, bearer(t, entity.RoleAdmin, testExpMin), http.StatusOK, ""},
		{"estoquista en ruta de estoque", []string{entity.RoleAdmin, entity.RoleEstoquista}, bearer(t, entity.RoleEstoquista, testExpMin), http.StatusOK, ""},
		{"vendedor en ruta admin", []string{entity.RoleAdmin}, bearer(t, entity.RoleVendedor, testExpMin), http.StatusForbidden, "FORBIDDEN"},
		{"financeiro en ruta de vendas", []string{entity.RoleAdmin, entity.RoleVendedor}, bearer(t, entity.RoleFinanceiro, testExpMin), http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{entity.RoleAdmin}, bearer(t, "", testExpMin), http.StatusUnauthorized, "MISSING_ROLE"},
		{"token vencido", []string{entity.RoleAdmin}, bearer(t, entity.RoleAdmin, -1), http.StatusUnauthorized, ""},
		{"token malformado", []string{entity.RoleAdmin}, "Bearer token.invalido.aqui", http.StatusUnauthorized, ""},
		{"sin esquema Bearer", []string{entity.RoleAdmin}, "Basic abc", http.StatusUnauthorized, ""},
		{"sin cabecera", []string{entity.RoleAdmin}, "", http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			resp, err := protectedApp(tc.allowed...).Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), tc.code)
			}
		})
	}
}

func TestAuthMiddleware_CargaClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", bearer(t, entity.RoleFinanceiro, testExpMin))
	resp, err := protectedApp(entity.RoleFinanceiro).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, entity.RoleFinanceiro, body["role"])
}
