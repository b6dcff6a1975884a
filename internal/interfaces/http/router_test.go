package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobcards-api/internal/application/auth"
	"github.com/jhoicas/jobcards-api/internal/application/dto"
	"github.com/jhoicas/jobcards-api/internal/application/jobcard"
	"github.com/jhoicas/jobcards-api/internal/application/usecase"
	"github.com/jhoicas/jobcards-api/internal/domain/entity"
	apphttp "github.com/jhoicas/jobcards-api/internal/interfaces/http"
	"github.com/jhoicas/jobcards-api/internal/infrastructure/memory"
	"github.com/jhoicas/jobcards-api/internal/infrastructure/session"
	"github.com/jhoicas/jobcards-api/pkg/logger"
)

type stubPDF struct{}

func (stubPDF) GenerateJobCardPDF(_ context.Context, o *entity.Order) ([]byte, error) {
	return []byte("%PDF-1.4 " + o.JobName), nil
}

// apiFixture levanta el router completo sobre los stores en memoria.
type apiFixture struct {
	app   *fiber.App
	store *memory.Store
	auth  *auth.AuthUseCase
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	seedUser(t, store, "u-sys", "root", entity.RoleSystemAdmin)
	seedUser(t, store, "u-adm", "ana", entity.RoleAdmin)
	seedUser(t, store, "u-stf", "luis", entity.RoleStaff)

	log := logger.Nop()
	authUC := auth.NewAuthUseCase(store.Users(), session.NewMemoryStore(), testJWT, log)
	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		Lifecycle: jobcard.NewLifecycle(store.TxRunner(), store.Orders(), store.Companies(), 3, log),
		Query:     jobcard.NewQueryResolver(store.Orders()),
		Print:     jobcard.NewPrintUseCase(store.Orders(), stubPDF{}),
		CompanyUC: usecase.NewCompanyUseCase(store.Companies()),
		Cookie:    apphttp.SessionCookie{Name: testCookie},
	})
	return &apiFixture{app: app, store: store, auth: authUC}
}

// call lanza la petición con el token de username ("" = anónimo) y body JSON opcional.
func (f *apiFixture) call(t *testing.T, method, path, username string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if username != "" {
		req.Header.Set("Authorization", "Bearer "+loginToken(t, f.auth, username))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func (f *apiFixture) createCompany(t *testing.T, name string) {
	t.Helper()
	resp := f.call(t, http.MethodPost, "/api/companies", "ana", dto.CreateCompanyRequest{CompanyName: name})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func (f *apiFixture) createOrder(t *testing.T, company, jobName string) dto.CreateOrderResponse {
	t.Helper()
	resp := f.call(t, http.MethodPost, "/api/orders", "ana", map[string]interface{}{
		"companyName": company,
		"jobName":     jobName,
		"jobQuantity": 250,
		"size":        "A5",
		"rate":        "3.75",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.CreateOrderResponse
	decodeInto(t, resp, &out)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Auth
// ─────────────────────────────────────────────────────────────────────────────

func TestLogin_DejaCookieHttpOnly(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ana", Password: testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == testCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie, "el login debe dejar la cookie de sesión")
	assert.True(t, cookie.HttpOnly)

	var out dto.LoginResponse
	decodeInto(t, resp, &out)
	assert.Equal(t, cookie.Value, out.Token)
	assert.Equal(t, "ana", out.User.Username)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ana", Password: "mala-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Code)
}

func TestCurrentUser(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodGet, "/api/auth/current-user", "luis", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.CurrentUserResponse
	decodeInto(t, resp, &out)
	assert.Equal(t, dto.IdentityResponse{ID: "u-stf", Username: "luis", Role: "staff"}, out.User)
}

func TestLogout_SinSesionEsIdempotente(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodPost, "/api/auth/logout", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRegister_ReglasDeRol(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/auth/register", "ana",
		dto.RegisterRequest{Username: "nuevo", Password: "password123", Role: "staff"})
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "admin registra staff")

	resp = f.call(t, http.MethodPost, "/api/auth/register", "ana",
		dto.RegisterRequest{Username: "otro-root", Password: "password123", Role: "systemAdmin"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "admin no registra systemAdmin")
	resp.Body.Close()

	resp = f.call(t, http.MethodPost, "/api/auth/register", "root",
		dto.RegisterRequest{Username: "nuevo", Password: "password123", Role: "staff"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "username repetido")
	assert.Equal(t, "DUPLICATE", decodeError(t, resp).Code)

	resp = f.call(t, http.MethodPost, "/api/auth/register", "luis",
		dto.RegisterRequest{Username: "x", Password: "password123", Role: "staff"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "staff no registra usuarios")
}

func TestDeleteUser_PropiaCuenta(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodDelete, "/api/auth/users/u-sys", "root", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "SELF_DELETION", decodeError(t, resp).Code)

	resp = f.call(t, http.MethodDelete, "/api/auth/users/u-stf", "root", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.call(t, http.MethodGet, "/api/auth/users", "root", nil)
	var users []dto.UserResponse
	decodeInto(t, resp, &users)
	assert.Len(t, users, 2)
}

// ─────────────────────────────────────────────────────────────────────────────
// Access
// ─────────────────────────────────────────────────────────────────────────────

func TestAccessCheck(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodGet, "/api/access/order-create", "", nil)
	var anon dto.AccessResponse
	decodeInto(t, resp, &anon)
	assert.Equal(t, dto.AccessResponse{Route: "order-create", Decision: "redirect-login", Redirect: "/login"}, anon)

	resp = f.call(t, http.MethodGet, "/api/access/order-create", "luis", nil)
	var staffRes dto.AccessResponse
	decodeInto(t, resp, &staffRes)
	assert.Equal(t, "redirect-unauthorized", staffRes.Decision)
	assert.Equal(t, "/unauthorized", staffRes.Redirect)

	resp = f.call(t, http.MethodGet, "/api/access/order-create", "ana", nil)
	var adminRes dto.AccessResponse
	decodeInto(t, resp, &adminRes)
	assert.Equal(t, "allow", adminRes.Decision)
	assert.Empty(t, adminRes.Redirect)

	resp = f.call(t, http.MethodGet, "/api/access/no-existe", "ana", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAccessRules(t *testing.T) {
	f := newAPI(t)
	resp := f.call(t, http.MethodGet, "/api/access", "", nil)
	var rules []dto.AccessRule
	decodeInto(t, resp, &rules)
	require.Len(t, rules, 7)
	for _, r := range rules {
		if r.Route == "staff-roster" {
			assert.Equal(t, []string{"admin"}, r.Roles)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Companies
// ─────────────────────────────────────────────────────────────────────────────

func TestCompanies_CrearListarRenombrar(t *testing.T) {
	f := newAPI(t)
	f.createCompany(t, "Beta Print")
	f.createCompany(t, "acme")

	resp := f.call(t, http.MethodPost, "/api/companies", "root", dto.CreateCompanyRequest{CompanyName: "ACME"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "mismo nombre sin distinguir mayúsculas")
	assert.Equal(t, "DUPLICATE", decodeError(t, resp).Code)

	resp = f.call(t, http.MethodPost, "/api/companies", "luis", dto.CreateCompanyRequest{CompanyName: "Gamma"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.call(t, http.MethodGet, "/api/companies", "luis", nil)
	var list []dto.CompanyResponse
	decodeInto(t, resp, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "acme", list[0].CompanyName)

	resp = f.call(t, http.MethodPut, "/api/companies/"+list[0].ID, "ana", dto.UpdateCompanyRequest{CompanyName: "Acme SA"})
	var renamed dto.CompanyResponse
	decodeInto(t, resp, &renamed)
	assert.Equal(t, "Acme SA", renamed.CompanyName)

	resp = f.call(t, http.MethodPut, "/api/companies/no-existe", "ana", dto.UpdateCompanyRequest{CompanyName: "X"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ─────────────────────────────────────────────────────────────────────────────
// Orders
// ─────────────────────────────────────────────────────────────────────────────

func TestOrders_CrearYObtener(t *testing.T) {
	f := newAPI(t)
	f.createCompany(t, "Acme")

	created := f.createOrder(t, "acme", "Volantes")
	assert.Equal(t, int64(4001), created.JobNumber)
	assert.Equal(t, created.OrderID, created.Order.ID)
	assert.Equal(t, "Pending", created.Order.Status)

	resp := f.call(t, http.MethodGet, "/api/orders/"+created.OrderID, "luis", nil)
	var got dto.OrderResponse
	decodeInto(t, resp, &got)
	assert.Equal(t, "Volantes", got.JobName)
	assert.Equal(t, "3.75", got.Rate.String())

	resp = f.call(t, http.MethodGet, "/api/orders/no-existe", "luis", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}

func TestOrders_CrearErrores(t *testing.T) {
	f := newAPI(t)
	f.createCompany(t, "Acme")

	resp := f.call(t, http.MethodPost, "/api/orders", "luis", map[string]interface{}{"companyName": "Acme", "jobName": "X"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.call(t, http.MethodPost, "/api/orders", "ana", map[string]interface{}{"companyName": "Desconocida", "jobName": "X"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)

	resp = f.call(t, http.MethodPost, "/api/orders", "", map[string]interface{}{"companyName": "Acme", "jobName": "X"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/login", decodeError(t, resp).Redirect)
}

func TestOrders_ActualizarToggleCopiar(t *testing.T) {
	f := newAPI(t)
	f.createCompany(t, "Acme")
	created := f.createOrder(t, "Acme", "Afiches")

	resp := f.call(t, http.MethodPut, "/api/orders/"+created.OrderID, "ana", map[string]interface{}{
		"jobName":   "Afiches grandes",
		"jobNumber": 9999,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated dto.UpdateOrderResponse
	decodeInto(t, resp, &updated)
	assert.Equal(t, "Afiches grandes", updated.UpdatedOrder.JobName)
	assert.Equal(t, int64(4001), updated.UpdatedOrder.JobNumber, "jobNumber no se edita")

	resp = f.call(t, http.MethodPost, "/api/orders/"+created.OrderID+"/toggle-status", "ana", nil)
	var toggled dto.OrderResponse
	decodeInto(t, resp, &toggled)
	assert.Equal(t, "Completed", toggled.Status)

	resp = f.call(t, http.MethodPost, "/api/orders/"+created.OrderID+"/copy", "ana", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var copied dto.CreateOrderResponse
	decodeInto(t, resp, &copied)
	assert.Equal(t, int64(4002), copied.JobNumber)
	assert.Equal(t, "Pending", copied.Order.Status)
	assert.Equal(t, "Afiches grandes", copied.Order.JobName)
	assert.NotEqual(t, created.OrderID, copied.OrderID)

	resp = f.call(t, http.MethodPost, "/api/orders/"+created.OrderID+"/toggle-status", "luis", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOrders_ListadoConFiltros(t *testing.T) {
	f := newAPI(t)
	f.createCompany(t, "Acme")
	f.createCompany(t, "Beta")
	f.createOrder(t, "Acme", "Tarjetas")
	f.createOrder(t, "Beta", "Tarjetas")
	f.createOrder(t, "Beta", "Sobres")

	resp := f.call(t, http.MethodGet, "/api/orders", "luis", nil)
	var all dto.OrderListResponse
	decodeInto(t, resp, &all)
	assert.Equal(t, 3, all.TotalOrders)
	assert.Equal(t, 1, all.TotalPages)
	assert.Equal(t, 30, all.PageSize)
	require.Len(t, all.Orders, 3)
	assert.Equal(t, int64(4003), all.Orders[0].JobNumber, "orden descendente por número")

	resp = f.call(t, http.MethodGet, "/api/orders?search=bet&jobName=tarj", "luis", nil)
	var filtered dto.OrderListResponse
	decodeInto(t, resp, &filtered)
	assert.Equal(t, 1, filtered.TotalOrders)

	resp = f.call(t, http.MethodGet, "/api/orders?jobNumber=4001&search=beta", "luis", nil)
	var byNumber dto.OrderListResponse
	decodeInto(t, resp, &byNumber)
	require.Equal(t, 1, byNumber.TotalOrders, "jobNumber tiene precedencia sobre search")
	assert.Equal(t, "Acme", byNumber.Orders[0].CompanyName)

	resp = f.call(t, http.MethodGet, "/api/orders?page=307445734561825862", "luis", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var farPage dto.OrderListResponse
	decodeInto(t, resp, &farPage)
	assert.Empty(t, farPage.Orders, "una página enorme queda fuera de rango")
	assert.Equal(t, 3, farPage.TotalOrders)

	resp = f.call(t, http.MethodGet, "/api/orders?jobNumber=abc", "luis", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrders_Imprimir(t *testing.T) {
	f := newAPI(t)
	f.createCompany(t, "Acme")
	created := f.createOrder(t, "Acme", "Recibos")

	resp := f.call(t, http.MethodGet, "/api/orders/"+created.OrderID+"/print", "luis", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "jobcard_4001.pdf")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}
