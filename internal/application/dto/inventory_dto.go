package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/inventory/movements y POST /api/cart/items.
// LocationID vacío usa el local activo de la sesión.
type RecordMovementRequest struct {
	LocationID  string          `json:"location_id,omitempty"`
	ProductID   string          `json:"product_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	Place       string          `json:"place,omitempty"`
	SessionNote string          `json:"session_note,omitempty"`
}

// CorrectMovementRequest body para PATCH /api/inventory/movements/:id.
type CorrectMovementRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit,omitempty"`
}

// MovementResponse fila del libro. Quantity en unidad base y con signo.
type MovementResponse struct {
	ID          string          `json:"id"`
	LocationID  string          `json:"location_id"`
	ProductID   string          `json:"product_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Place       string          `json:"place,omitempty"`
	SessionNote string          `json:"session_note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CorrectedAt *time.Time      `json:"corrected_at,omitempty"`
	CorrectedBy string          `json:"corrected_by,omitempty"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementOptionsResponse valores ofrecidos por el formulario de registro.
type MovementOptionsResponse struct {
	Types  []string `json:"types"`
	Units  []string `json:"units"`
	Places []string `json:"places"`
}

// StockLineResponse stock derivado de un producto. PackQuantity solo con unit=pack.
type StockLineResponse struct {
	ProductID    string           `json:"product_id"`
	SKU          string           `json:"sku,omitempty"`
	Name         string           `json:"name"`
	Format       string           `json:"format"`
	BaseUnit     string           `json:"base_unit"`
	PackSize     int              `json:"pack_size"`
	Quantity     decimal.Decimal  `json:"quantity"`
	PackQuantity *decimal.Decimal `json:"pack_quantity,omitempty"`
}

// StockReportResponse proyección de stock de un local o de todos.
type StockReportResponse struct {
	LocationID   string              `json:"location_id,omitempty"`
	LocationName string              `json:"location_name"`
	Unit         string              `json:"unit"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Lines        []StockLineResponse `json:"lines"`
}

// CartItemResponse movimiento pendiente en el carro.
type CartItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit,omitempty"`
	BaseQuantity decimal.Decimal `json:"base_quantity"`
	BaseUnit     string          `json:"base_unit"`
	Place        string          `json:"place,omitempty"`
	AddedAt      time.Time       `json:"added_at"`
}

// CartResponse contenido del carro de la sesión.
type CartResponse struct {
	LocationID string             `json:"location_id,omitempty"`
	Items      []CartItemResponse `json:"items"`
}

// CommitCartRequest body opcional de POST /api/cart/commit.
type CommitCartRequest struct {
	SessionNote string `json:"session_note,omitempty"`
}

// CommitCartResponse movimientos escritos al finalizar.
type CommitCartResponse struct {
	SessionNote string             `json:"session_note"`
	Movements   []MovementResponse `json:"movements"`
}
