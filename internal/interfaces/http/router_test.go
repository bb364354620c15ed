package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Gestao-api/internal/application/analytics"
	"github.com/jhoicas/Gestao-api/internal/application/auth"
	"github.com/jhoicas/Gestao-api/internal/application/dto"
	"github.com/jhoicas/Gestao-api/internal/application/finance"
	"github.com/jhoicas/Gestao-api/internal/application/inventory"
	"github.com/jhoicas/Gestao-api/internal/application/nfe"
	"github.com/jhoicas/Gestao-api/internal/application/sales"
	"github.com/jhoicas/Gestao-api/internal/application/usecase"
	"github.com/jhoicas/Gestao-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Gestao-api/internal/infrastructure/nfexml"
	apphttp "github.com/jhoicas/Gestao-api/internal/interfaces/http"
	"github.com/jhoicas/Gestao-api/internal/testutil/memstore"
	pkgjwt "github.com/jhoicas/Gestao-api/pkg/jwt"
)

// memIdempotency almacén en memoria con la misma semántica que el de Redis.
type memIdempotency struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (m *memIdempotency) Reserve(_ context.Context, companyID, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := companyID + ":" + key
	if m.keys[k] {
		return false, nil
	}
	m.keys[k] = true
	return true, nil
}

func (m *memIdempotency) Release(_ context.Context, companyID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, companyID+":"+key)
	return nil
}

type apiFixture struct {
	app     *fiber.App
	metrics *metrics.Metrics
	token   string
	company string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memstore.New()
	repos := store.Repos()
	tx := store.Tx()
	m := metrics.New()

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(repos.Users, repos.Companies, tx, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}),
		UserUC:      usecase.NewUserUseCase(repos.Users),
		CompanyUC:   usecase.NewCompanyUseCase(repos.Companies),
		ModuleSvc:   usecase.NewModuleService(repos.Companies),
		SupplierUC:  usecase.NewSupplierUseCase(repos.Suppliers),
		ItemUC:      inventory.NewItemUseCase(tx, repos.Items, repos.Costs, repos.Movements),
		MovementUC:  inventory.NewRegisterMovementUseCase(tx, repos.Items, repos.Movements),
		AccountUC:   finance.NewAccountUseCase(tx, repos.Accounts, repos.Transactions),
		BillUC:      finance.NewBillUseCase(tx, repos.Bills, repos.Installments, repos.Suppliers),
		SaleUC:      sales.NewSaleUseCase(tx, repos.Sales),
		NFeUC:       nfe.NewNFeUseCase(tx, repos.NFes, repos.Items, nfexml.NewParser()),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Analytics()),
		Idempotency: &memIdempotency{keys: map[string]bool{}},
		Metrics:     m,
		Logger:      zerolog.Nop(),
		JWTSecret:   testJWTSecret,
	})

	f := &apiFixture{app: app, metrics: m}
	resp, body := f.do(t, http.MethodPost, "/api/companies/signup", "", map[string]any{
		"company_name":   "Padaria Central",
		"cnpj":           "11.222.333/0001-81",
		"admin_name":     "Ana",
		"admin_email":    "ana@padaria.com.br",
		"admin_password": "segredo123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.SignupResponse
	require.NoError(t, json.Unmarshal(body, &out))
	f.token = "Bearer " + out.Token
	f.company = out.Company.ID
	return f
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (f *apiFixture) tokenAs(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, f.company, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAPI_SignupLoginMe(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@padaria.com.br", "password": "segredo123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@padaria.com.br", "password": "errada123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodGet, "/api/auth/me", f.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "ana@padaria.com.br")
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &me))
	assert.ElementsMatch(t, []string{"inventory", "finance", "sales", "nfe"}, me.Modules)

	resp, _ = f.do(t, http.MethodPost, "/api/companies/signup", "", map[string]any{
		"company_name": "Outra", "cnpj": "11222333000181", "admin_name": "B",
		"admin_email": "b@outra.com", "admin_password": "segredo123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "CNPJ duplicado")
}

func TestAPI_ValidacionDevuelveCampos(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(t, http.MethodPost, "/api/items", f.token, map[string]any{"kind": "outro", "name": "x"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "kind")
	assert.Contains(t, e.Fields, "sku")
	assert.Contains(t, e.Fields, "unit")
}

func TestAPI_ItemsRolesYErrores(t *testing.T) {
	f := newAPI(t)
	item := map[string]any{"kind": "ingredient", "sku": "FAR", "name": "Farinha", "unit": "kg"}

	resp, _ := f.do(t, http.MethodPost, "/api/items", f.tokenAs(t, "vendedor"), item)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "vendedor no crea ítems")

	resp, body := f.do(t, http.MethodPost, "/api/items", f.token, item)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.ItemResponse
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = f.do(t, http.MethodPost, "/api/items", f.token, item)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = f.do(t, http.MethodPost, "/api/inventory/movements", f.token, map[string]any{
		"item_id": created.ID, "type": "OUT", "quantity": "1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "INSUFFICIENT_STOCK")

	resp, _ = f.do(t, http.MethodGet, "/api/items/no-existe", f.token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ModuloDesactivado(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(t, http.MethodPut, "/api/companies/me/modules/inventory", f.token, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodGet, "/api/items", f.token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "MODULE_DISABLED")

	resp, _ = f.do(t, http.MethodGet, "/api/bank-accounts", f.token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "los demás módulos siguen activos")
}

func TestAPI_IdempotencyKey(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(t, http.MethodPost, "/api/bank-accounts", f.token, map[string]any{"name": "Caixa", "initial_balance": "100"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var account dto.BankAccountResponse
	require.NoError(t, json.Unmarshal(body, &account))

	path := "/api/bank-accounts/" + account.ID + "/transactions"
	tx := map[string]any{"type": "credit", "amount": "50", "description": "Venda balcão"}

	resp, body = f.do(t, http.MethodPost, path, f.token, tx, apphttp.HeaderIdempotencyKey, "abc-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodPost, path, f.token, tx, apphttp.HeaderIdempotencyKey, "abc-1")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "DUPLICATE_REQUEST")

	resp, body = f.do(t, http.MethodGet, "/api/bank-accounts/"+account.ID, f.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &account))
	assert.Equal(t, "150", account.Balance.String(), "el crédito se aplicó una sola vez")
}

func TestAPI_IdempotencyKeyLiberadaTrasError(t *testing.T) {
	f := newAPI(t)
	path := "/api/bank-accounts/" + uuid.NewString() + "/transactions"
	tx := map[string]any{"type": "credit", "amount": "50"}

	resp, _ := f.do(t, http.MethodPost, path, f.token, tx, apphttp.HeaderIdempotencyKey, "k")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = f.do(t, http.MethodPost, path, f.token, tx, apphttp.HeaderIdempotencyKey, "k")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "la clave fallida se puede reintentar")
}

func TestAPI_IDMalFormadoEnRutaEsNotFound(t *testing.T) {
	f := newAPI(t)

	for _, path := range []string{"/api/bills/not-a-uuid", "/api/sales/123", "/api/nfe/x", "/api/bank-accounts/abc/transactions"} {
		resp, body := f.do(t, http.MethodGet, path, f.token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path+" "+string(body))
		assert.Contains(t, string(body), "NOT_FOUND", path)
	}

	resp, body := f.do(t, http.MethodPost, "/api/installments/x/pay", f.token, map[string]any{"bank_account_id": uuid.NewString()},
		apphttp.HeaderIdempotencyKey, "pay-1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, string(body))

	resp, _ = f.do(t, http.MethodGet, "/api/bills/not-a-uuid", f.tokenAs(t, "vendedor"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el rol se verifica antes que el id")
}

func TestAPI_IDMalFormadoEnCuerpoEsValidacion(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(t, http.MethodPost, "/api/bank-accounts/transfer", f.token, map[string]any{
		"from_account_id": "x", "to_account_id": uuid.NewString(), "amount": "10",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "UUID inválido", e.Fields["from_account_id"])

	resp, body = f.do(t, http.MethodPost, "/api/inventory/movements", f.token, map[string]any{
		"item_id": "farinha", "type": "IN", "quantity": "1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "item_id")

	resp, body = f.do(t, http.MethodPost, "/api/bills", f.token, map[string]any{
		"description": "Aluguel", "supplier_id": "moinho",
		"installments": []map[string]any{{"due_date": "2024-07-10", "amount": "100"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "supplier_id")

	resp, body = f.do(t, http.MethodGet, "/api/bills?supplier_id=moinho", f.token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "supplier_id")

	resp, body = f.do(t, http.MethodGet, "/api/inventory/movements?item_id="+uuid.NewString(), f.token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

const nfeXML = `<?xml version="1.0" encoding="UTF-8"?>
<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe"><NFe><infNFe Id="NFe35240611222333000181550010000012341123456782" versao="4.00">
<ide><serie>1</serie><nNF>1234</nNF><dhEmi>2024-06-10T09:30:00-03:00</dhEmi></ide>
<emit><CNPJ>11222333000181</CNPJ><xNome>Moinho Sul</xNome></emit>
<det nItem="1"><prod><cProd>F25</cProd><cEAN>SEM GTIN</cEAN><xProd>Farinha 25kg</xProd><NCM>11010010</NCM><CFOP>5102</CFOP><uCom>SC</uCom><qCom>2</qCom><vUnCom>100.00</vUnCom><vProd>200.00</vProd></prod></det>
<total><ICMSTot><vProd>200.00</vProd><vNF>200.00</vNF></ICMSTot></total>
</infNFe></NFe></nfeProc>`

func TestAPI_NFeImportarVincularLanzar(t *testing.T) {
	f := newAPI(t)

	resp, body := f.do(t, http.MethodPost, "/api/items", f.token, map[string]any{"kind": "ingredient", "sku": "FAR", "name": "Farinha", "unit": "kg"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var item dto.ItemResponse
	require.NoError(t, json.Unmarshal(body, &item))

	req := httptest.NewRequest(http.MethodPost, "/api/nfe", bytes.NewBufferString(nfeXML))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationXML)
	req.Header.Set(fiber.HeaderAuthorization, f.token)
	raw, err := f.app.Test(req, -1)
	require.NoError(t, err)
	body, _ = io.ReadAll(raw.Body)
	raw.Body.Close()
	require.Equal(t, http.StatusCreated, raw.StatusCode, string(body))
	var doc dto.NFeResponse
	require.NoError(t, json.Unmarshal(body, &doc))

	resp, body = f.do(t, http.MethodPost, "/api/nfe/"+doc.ID+"/launch", f.token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodPut, "/api/nfe/"+doc.ID+"/items/1/mapping", f.token, map[string]any{"item_id": item.ID, "factor": "25"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodPost, "/api/nfe/"+doc.ID+"/launch", f.token, map[string]any{"create_bill": true})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = f.do(t, http.MethodGet, "/api/items/"+item.ID, f.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &item))
	assert.Equal(t, "50", item.Stock.String())

	resp, _ = f.do(t, http.MethodPost, "/api/nfe/"+doc.ID+"/launch", f.token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/api/bills", f.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"total_amount":"200"`)
}

func TestAPI_SinToken(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodGet, "/api/dashboard/summary", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/dashboard/summary", f.token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}
