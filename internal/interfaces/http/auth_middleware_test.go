package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	apphttp "github.com/jhoicas/aleman-inventario/internal/interfaces/http"
)

// fakeResolver mapea tokens a sesiones fijas; cualquier otro token es inválido.
type fakeResolver struct {
	sessions map[string]*entity.Session
	expired  map[string]bool
}

func (f fakeResolver) ResolveSession(_ context.Context, token string) (*entity.Session, error) {
	if f.expired[token] {
		return nil, domain.ErrSessionExpired
	}
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, domain.ErrUnauthorized
}

func newResolver() fakeResolver {
	return fakeResolver{
		sessions: map[string]*entity.Session{
			"tok-admin":    {ID: "s1", Login: "admin", Roles: []string{entity.RoleAdmin}},
			"tok-staff":    {ID: "s2", Login: "cocina", Roles: []string{entity.RoleStaff}, LocationID: "loc-1"},
			"tok-reportes": {ID: "s3", Login: "contador", Roles: []string{entity.RoleReportes}},
		},
		expired: map[string]bool{"tok-vencido": true},
	}
}

// buildTestApp construye una app mínima con AuthMiddleware + RequireRole y un handler dummy.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(newResolver()),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			sess := apphttp.GetSession(c)
			return c.JSON(fiber.Map{"ok": true, "login": sess.Login})
		},
	)
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Bearer tok-admin")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["login"])
}

func TestRequireRole_StaffAccedeRutaAdminOStaff(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin, entity.RoleStaff), "Bearer tok-staff")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_ReportesBloqueadoEnRutaAdmin(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Bearer tok-reportes")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Basic tok-admin")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenDesconocido(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Bearer token.invalido.aqui")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SesionVencida(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Bearer tok-vencido")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "SESSION_EXPIRED")
}
