package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/aleman-inventario/internal/application/auth"
	"github.com/jhoicas/aleman-inventario/internal/application/catalog"
	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/application/inventory"
	"github.com/jhoicas/aleman-inventario/internal/application/usecase"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/aleman-inventario/internal/interfaces/http"
)

// apiFixture levanta la API completa sobre SQLite en memoria con un local, un producto
// "Aceite / Pack 6", un admin y un usuario staff.
type apiFixture struct {
	app        *fiber.App
	locationID string
	productID  string
	adminToken string
	staffToken string
	users      *sqlite.UserRepo
}

func newAPI(t *testing.T, rejectNegative bool) *apiFixture {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userRepo := sqlite.NewUserRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	locationRepo := sqlite.NewLocationRepository(db)
	productRepo := sqlite.NewProductRepository(db)
	movementRepo := sqlite.NewMovementRepository(db)
	tx := sqlite.NewTxRunner(db)

	authUC := auth.NewAuthUseCase(userRepo, sessionRepo, locationRepo,
		auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "test"}, nil)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	userUC := usecase.NewUserUseCase(userRepo, sessionRepo, locationRepo, nil)
	movementUC := inventory.NewMovementUseCase(tx, productRepo, locationRepo, movementRepo, rejectNegative, []string{"Bodega"}, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		LocationUC: locationUC,
		ProductUC:  usecase.NewProductUseCase(productRepo),
		ImportUC:   catalog.NewImportUseCase(spreadsheet.Reader{}, productRepo, nil),
		UserUC:     userUC,
		MovementUC: movementUC,
		StockUC:    inventory.NewStockUseCase(movementRepo, productRepo, locationRepo, pdf.NewStockReportGenerator("Stock")),
		CartUC:     inventory.NewCartUseCase(movementUC, tx, productRepo, sessionRepo, nil),
		Ping:       func(ctx context.Context) error { return db.PingContext(ctx) },
		Service:    "test",
	})

	loc, _, err := locationUC.Ensure(ctx, "Providencia")
	require.NoError(t, err)
	product := &entity.Product{
		ID: uuid.New().String(), Name: "Aceite", Format: "Pack 6", PackSize: 6, BaseUnit: "unidades",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, productRepo.Create(ctx, product))

	_, err = authUC.EnsureAdmin(ctx, "admin", "admin123", "Admin")
	require.NoError(t, err)
	_, _, err = userUC.Upsert(ctx, dto.UpsertUserRequest{
		Login: "cocina", Password: "cocina123", Roles: []string{entity.RoleStaff}, LocationID: loc.ID,
	})
	require.NoError(t, err)

	f := &apiFixture{app: app, locationID: loc.ID, productID: product.ID, users: userRepo}
	f.adminToken = f.login(t, "admin", "admin123")
	f.staffToken = f.login(t, "cocina", "cocina123")

	resp := f.do(t, http.MethodPut, "/api/auth/location", f.adminToken, dto.SwitchLocationRequest{LocationID: loc.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return f
}

func (f *apiFixture) login(t *testing.T, login, password string) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Login: login, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Token
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func movement(productID, typ string, qty interface{}, unit string) map[string]interface{} {
	return map[string]interface{}{"product_id": productID, "type": typ, "quantity": qty, "unit": unit}
}

func TestHealth(t *testing.T) {
	f := newAPI(t, false)
	resp := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode(t, resp)["status"])
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	f := newAPI(t, false)
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Login: "admin", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Login: "ADMIN", Password: "admin123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_InvalidaElToken(t *testing.T) {
	f := newAPI(t, false)
	resp := f.do(t, http.MethodGet, "/api/auth/me", f.staffToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode(t, resp)
	assert.Equal(t, "cocina", me["login"])
	assert.Equal(t, "Providencia", me["location_name"])

	resp = f.do(t, http.MethodPost, "/api/auth/logout", f.staffToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/auth/me", f.staffToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMovimientos_EscenarioAceite(t *testing.T) {
	f := newAPI(t, false)

	resp := f.do(t, http.MethodPost, "/api/inventory/movements", f.staffToken,
		movement(f.productID, entity.MovementTypeEntrada, 2, "unitario"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "12", decode(t, resp)["quantity"])

	resp = f.do(t, http.MethodPost, "/api/inventory/movements", f.staffToken,
		movement(f.productID, entity.MovementTypeSalida, 1, "unitario"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/stock/products/"+f.productID, f.staffToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	line := decode(t, resp)
	assert.Equal(t, "6", line["quantity"])
	assert.Equal(t, "1", line["pack_quantity"])

	resp = f.do(t, http.MethodGet, "/api/inventory/movements?type=SALIDA", f.staffToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.MovementListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "-6", list.Items[0].Quantity.String())
	assert.Equal(t, "cocina", list.Items[0].CreatedBy)
}

func TestMovimientos_StockInsuficienteDevuelve409(t *testing.T) {
	f := newAPI(t, true)
	resp := f.do(t, http.MethodPost, "/api/inventory/movements", f.staffToken,
		movement(f.productID, entity.MovementTypeSalida, 1, ""))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode(t, resp)["code"])
}

func TestMovimientos_ValidacionDevuelve400(t *testing.T) {
	f := newAPI(t, false)
	resp := f.do(t, http.MethodPost, "/api/inventory/movements", f.staffToken,
		movement(f.productID, "REGALO", 1, ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/inventory/movements?from=ayer", f.staffToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCorreccion_SoloAdmin(t *testing.T) {
	f := newAPI(t, false)
	resp := f.do(t, http.MethodPost, "/api/inventory/movements", f.staffToken,
		movement(f.productID, entity.MovementTypeEntrada, 10, ""))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode(t, resp)["id"].(string)

	body := map[string]interface{}{"quantity": 7}
	resp = f.do(t, http.MethodPatch, "/api/inventory/movements/"+id, f.staffToken, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(t, http.MethodPatch, "/api/inventory/movements/"+id, f.adminToken, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode(t, resp)
	assert.Equal(t, "7", out["quantity"])
	assert.Equal(t, "admin", out["corrected_by"])
}

func TestCarro_Commit(t *testing.T) {
	f := newAPI(t, false)
	resp := f.do(t, http.MethodPost, "/api/cart/items", f.staffToken,
		movement(f.productID, entity.MovementTypeEntrada, 1, "unitario"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = f.do(t, http.MethodPost, "/api/cart/items", f.staffToken,
		movement(f.productID, entity.MovementTypeEntrada, 3, ""))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/cart", f.staffToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart dto.CartResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cart))
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "Aceite", cart.Items[0].ProductName)

	resp = f.do(t, http.MethodPost, "/api/cart/commit", f.staffToken, dto.CommitCartRequest{SessionNote: "lote-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var committed dto.CommitCartResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&committed))
	assert.Equal(t, "lote-1", committed.SessionNote)
	assert.Len(t, committed.Movements, 2)

	resp = f.do(t, http.MethodGet, "/api/stock/products/"+f.productID, f.staffToken, nil)
	assert.Equal(t, "9", decode(t, resp)["quantity"])

	resp = f.do(t, http.MethodPost, "/api/cart/commit", f.staffToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCarro_ReportesNoEscribe(t *testing.T) {
	f := newAPI(t, false)
	resp := f.do(t, http.MethodPut, "/api/users", f.adminToken, dto.UpsertUserRequest{
		Login: "contador", Password: "contador1", Roles: []string{entity.RoleReportes},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := f.login(t, "contador", "contador1")

	resp = f.do(t, http.MethodGet, "/api/cart", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/stock", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, inventory.AllLocationsLabel, decode(t, resp)["location_name"])
}

func TestStockPDF(t *testing.T) {
	f := newAPI(t, false)
	resp := f.do(t, http.MethodPost, "/api/inventory/movements", f.staffToken,
		movement(f.productID, entity.MovementTypeEntrada, 4, "unitario"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/stock/pdf?unit=pack", f.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestProductos_ImportarSoloAdmin(t *testing.T) {
	f := newAPI(t, false)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "maestro.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Nombre;SKU;Formato\nHarina;H-1;Saco 25\n;;\nAceite;;Pack 12\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	payload := buf.Bytes()

	send := func(token string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/products/import", bytes.NewReader(payload))
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := f.app.Test(req, -1)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	assert.Equal(t, http.StatusForbidden, send(f.staffToken).StatusCode)

	resp := send(f.adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res dto.ImportResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)

	resp = f.do(t, http.MethodGet, "/api/products?q=harina", f.staffToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ProductListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, 25, list.Items[0].PackSize)
}

func TestUsuarios_SoloAdmin(t *testing.T) {
	f := newAPI(t, false)
	resp := f.do(t, http.MethodGet, "/api/users", f.staffToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/users", f.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	assert.Len(t, users, 2)

	resp = f.do(t, http.MethodDelete, "/api/users/nadie", f.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, "/api/users/cocina", f.adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/auth/me", f.staffToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLocales(t *testing.T) {
	f := newAPI(t, false)
	resp := f.do(t, http.MethodGet, "/api/locations", f.staffToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var locs []dto.LocationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&locs))
	require.Len(t, locs, 1)

	resp = f.do(t, http.MethodGet, "/api/locations/"+uuid.New().String(), f.staffToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOpcionesDeRegistro(t *testing.T) {
	f := newAPI(t, false)
	resp := f.do(t, http.MethodGet, "/api/inventory/options", f.staffToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var opts dto.MovementOptionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&opts))
	assert.Equal(t, []string{"ENTRADA", "SALIDA", "AJUSTE", "CONTEO"}, opts.Types)
	assert.Equal(t, []string{"Bodega"}, opts.Places)
	assert.NotEmpty(t, opts.Units)
}

func TestStaffSinLocal_NoVeOtrosLocales(t *testing.T) {
	f := newAPI(t, false)
	hash, err := auth.HashPassword("bodega123")
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, f.users.Create(context.Background(), &entity.User{
		ID: uuid.New().String(), Login: "bodega", Name: "Bodega", PasswordHash: hash,
		Roles: []string{entity.RoleStaff}, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
	}))
	token := f.login(t, "bodega", "bodega123")

	for _, path := range []string{
		"/api/stock",
		"/api/stock?location_id=" + f.locationID,
		"/api/stock/pdf",
		"/api/stock/products/" + f.productID,
		"/api/inventory/movements",
	} {
		resp := f.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
}

func TestIdentificadorMalFormado(t *testing.T) {
	f := newAPI(t, false)

	resp := f.do(t, http.MethodGet, "/api/inventory/movements?location_id=x", f.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/inventory/movements?product_id=x", f.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/stock?location_id=x", f.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode(t, resp)["code"])

	resp = f.do(t, http.MethodGet, "/api/products/abc", f.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
