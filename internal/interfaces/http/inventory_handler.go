package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/application/inventory"
	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
)

// InventoryHandler maneja el registro y la consulta del libro de movimientos.
type InventoryHandler struct {
	uc *inventory.MovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.MovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Options godoc
// @Summary      Opciones del formulario de registro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MovementOptionsResponse
// @Router       /api/inventory/options [get]
func (h *InventoryHandler) Options(c *fiber.Ctx) error {
	return c.JSON(h.uc.Options())
}

// RecordMovement godoc
// @Summary      Registrar movimiento
// @Description  La cantidad se convierte a la unidad base del producto según unit (unitario multiplica por
//
//	el factor del formato; kilos y litros por 1000). CONTEO guarda la diferencia contra el stock actual.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, type, quantity, unit, place"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Record(c.UserContext(), GetSession(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Local (staff ve solo su local activo)"
// @Param        product_id   query  string  false  "Producto"
// @Param        type         query  string  false  "ENTRADA, SALIDA, AJUSTE o CONTEO"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD inclusive o RFC3339)"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{Type: c.Query("type")}
	var err error
	if filter.LocationID, err = queryID(c, "location_id"); err != nil {
		return writeError(c, err)
	}
	if filter.ProductID, err = queryID(c, "product_id"); err != nil {
		return writeError(c, err)
	}
	if filter.From, err = parseQueryTime(c.Query("from"), false); err != nil {
		return writeError(c, domain.NewValidationError("from", "fecha inválida"))
	}
	if filter.To, err = parseQueryTime(c.Query("to"), true); err != nil {
		return writeError(c, domain.NewValidationError("to", "fecha inválida"))
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), GetSession(c), filter, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CorrectMovement godoc
// @Summary      Corregir cantidad de un movimiento (admin)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.CorrectMovementRequest  true  "quantity, unit"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [patch]
func (h *InventoryHandler) CorrectMovement(c *fiber.Ctx) error {
	var in dto.CorrectMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Correct(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// parseQueryTime acepta fecha simple o RFC3339. Una fecha simple como límite superior cubre el día completo.
func parseQueryTime(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
