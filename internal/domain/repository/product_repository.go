package repository

import (
	"context"

	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para el maestro de productos (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBusinessKey(ctx context.Context, sku, name string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Upsert inserta o reemplaza por clave de negocio (SKU si existe, si no nombre).
	// Devuelve true si la fila ya existía.
	Upsert(ctx context.Context, product *entity.Product) (updated bool, err error)
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Product, error)
}
