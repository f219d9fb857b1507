package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Se agrupan en cuatro familias: conectividad (fatal al arrancar), autenticación,
// validación y conflicto (recuperables por petición).
var (
	ErrConnectivity = errors.New("sin conexión con el almacenamiento")

	ErrUnauthorized   = errors.New("no autorizado")
	ErrUserNotFound   = errors.New("usuario no encontrado")
	ErrSessionExpired = errors.New("sesión expirada o cerrada")
	ErrForbidden      = errors.New("acceso denegado")

	ErrInvalidInput = errors.New("entrada inválida")
	ErrNotFound     = errors.New("recurso no encontrado")

	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrDuplicate         = &conflictError{msg: "recurso duplicado"}
	ErrInsufficientStock = &conflictError{msg: "stock insuficiente"}
)

// conflictError es un conflicto concreto que también responde a errors.Is(err, ErrConflict).
type conflictError struct{ msg string }

func (e *conflictError) Error() string        { return e.msg }
func (e *conflictError) Is(target error) bool { return target == ErrConflict }

// ValidationError describe un campo inválido; errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError construye un error de validación para un campo.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ConnectivityError envuelve un fallo de conexión con el almacenamiento.
func ConnectivityError(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrConnectivity, cause)
}

// IsAuth indica si el error pertenece a la familia de autenticación.
func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrSessionExpired)
}
