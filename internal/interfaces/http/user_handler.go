package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/application/usecase"
	"github.com/jhoicas/aleman-inventario/internal/domain"
)

// UserHandler administración de usuarios (admin).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Crear o actualizar usuario por login
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertUserRequest  true  "login, name, password, roles, location_id, status"
// @Success      200   {object}  dto.UserResponse
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users [put]
func (h *UserHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, created, err := h.uc.Upsert(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	if created {
		return c.Status(fiber.StatusCreated).JSON(out)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Tags         users
// @Security     Bearer
// @Param        login  path  string  true  "Login del usuario"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{login} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("login"))
	if errors.Is(err, domain.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
