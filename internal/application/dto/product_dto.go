package dto

import "time"

// CreateProductRequest entrada para crear un producto. PackSize 0 se deduce del formato.
type CreateProductRequest struct {
	SKU      string `json:"sku" validate:"omitempty,max=100"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Format   string `json:"format"`
	PackSize int    `json:"pack_size"`
	BaseUnit string `json:"base_unit"`
}

// UpdateProductRequest edición en línea; los campos nil no se tocan.
type UpdateProductRequest struct {
	SKU      *string `json:"sku"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Format   *string `json:"format"`
	PackSize *int    `json:"pack_size"`
	BaseUnit *string `json:"base_unit"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku,omitempty"`
	Name      string    `json:"name"`
	Format    string    `json:"format"`
	PackSize  int       `json:"pack_size"`
	BaseUnit  string    `json:"base_unit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ImportRowError fila de la planilla que no se pudo cargar (Row cuenta desde 1, encabezado incluido).
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult resumen de una carga masiva.
type ImportResult struct {
	Processed int              `json:"processed"`
	Upserted  int              `json:"upserted"`
	Created   int              `json:"created"`
	Updated   int              `json:"updated"`
	Failed    []ImportRowError `json:"failed"`
}
