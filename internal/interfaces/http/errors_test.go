package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/domain"
)

func TestWriteError_InternoNoExponeDetalle(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, fmt.Errorf("get product: %w", errors.New(`invalid input syntax for type uuid: "abc"`)))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "INTERNAL", out.Code)
	assert.Equal(t, "error interno", out.Message)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewValidationError("location_id", "id inválido"), fiber.StatusBadRequest, "VALIDATION"},
		{fmt.Errorf("x: %w", domain.ErrForbidden), fiber.StatusForbidden, "FORBIDDEN"},
		{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{errors.New("conexión rechazada"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code, _ := classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestQueryID(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		id, err := queryID(c, "location_id")
		if err != nil {
			return writeError(c, err)
		}
		return c.SendString(id)
	})

	for query, status := range map[string]int{
		"":                                                  fiber.StatusOK,
		"?location_id=8f14e45f-ceea-467f-a0e6-1b9d3f0c2a11": fiber.StatusOK,
		"?location_id=abc":                                  fiber.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/"+query, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, status, resp.StatusCode, query)
	}
}
