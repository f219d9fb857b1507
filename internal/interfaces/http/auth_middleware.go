package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
)

// LocalSession clave de c.Locals con la sesión resuelta.
const LocalSession = "session"

// SessionResolver resuelve un token Bearer en la sesión guardada. Lo implementa *auth.AuthUseCase.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.Session, error)
}

// AuthMiddleware valida el Bearer Token y carga la sesión de servidor en c.Locals.
// Roles y local activo salen de la sesión guardada, nunca del cliente.
func AuthMiddleware(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		sess, err := resolver.ResolveSession(c.UserContext(), tokenString)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalSession, sess)
		return c.Next()
	}
}

// RequireRole deja pasar solo si la sesión tiene alguno de los roles. Va después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := GetSession(c)
		if sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		for _, r := range roles {
			if sess.HasRole(r) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
	}
}

// GetSession devuelve la sesión del contexto (después del middleware de auth).
func GetSession(c *fiber.Ctx) *entity.Session {
	sess, _ := c.Locals(LocalSession).(*entity.Session)
	return sess
}
