package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/domain"
)

// writeError traduce errores de dominio a status HTTP con cuerpo dto.ErrorResponse.
// Los errores internos se registran; al cliente solo llega un mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := classify(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func classify(err error) (int, string, string) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrConnectivity):
		return fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "almacenamiento no disponible"
	case errors.Is(err, domain.ErrSessionExpired):
		return fiber.StatusUnauthorized, "SESSION_EXPIRED", "sesión expirada o cerrada"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK", err.Error()
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE", "recurso duplicado"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"
	default:
		return fiber.StatusInternalServerError, "INTERNAL", "error interno"
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// queryID lee un ID opcional de la query; si viene, debe ser un UUID.
func queryID(c *fiber.Ctx, key string) (string, error) {
	id := c.Query(key)
	if id == "" {
		return "", nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.NewValidationError(key, "id inválido")
	}
	return id, nil
}
