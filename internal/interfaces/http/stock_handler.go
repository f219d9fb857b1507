package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/aleman-inventario/internal/application/inventory"
	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
)

// StockHandler expone el stock derivado del libro.
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// reportLocation: admin y reportes pueden pedir cualquier local o el consolidado (vacío);
// el resto ve solo su local activo y, sin local, nada.
func reportLocation(c *fiber.Ctx, sess *entity.Session) (string, error) {
	if sess.HasRole(entity.RoleAdmin) || sess.HasRole(entity.RoleReportes) {
		return queryID(c, "location_id")
	}
	if sess.LocationID == "" {
		return "", domain.ErrForbidden
	}
	return sess.LocationID, nil
}

// Report godoc
// @Summary      Stock actual
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Local; vacío = todos (admin, reportes)"
// @Param        unit         query  string  false  "base o pack"  default(base)
// @Success      200  {object}  dto.StockReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	locationID, err := reportLocation(c, GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Project(c.UserContext(), locationID, c.Query("unit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Reporte de stock en PDF
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        location_id  query  string  false  "Local; vacío = todos (admin, reportes)"
// @Param        unit         query  string  false  "base o pack"  default(base)
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/pdf [get]
func (h *StockHandler) PDF(c *fiber.Ctx) error {
	locationID, err := reportLocation(c, GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.uc.RenderPDF(c.UserContext(), locationID, c.Query("unit"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="stock-%s.pdf"`, time.Now().Format("20060102")))
	return c.Send(pdf)
}

// Product godoc
// @Summary      Stock de un producto en un local
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id           path   string  true   "ID del producto"
// @Param        location_id  query  string  false  "Local; vacío = local activo"
// @Success      200  {object}  dto.StockLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id} [get]
func (h *StockHandler) Product(c *fiber.Ctx) error {
	sess := GetSession(c)
	locationID, err := reportLocation(c, sess)
	if err != nil {
		return writeError(c, err)
	}
	if locationID == "" {
		locationID = sess.LocationID
	}
	out, err := h.uc.Current(c.UserContext(), locationID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
