package repository

import (
	"context"

	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para locales (DIP).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetByName(ctx context.Context, name string) (*entity.Location, error)
	List(ctx context.Context) ([]*entity.Location, error)
}
