package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
)

// MovementFilter filtros para listar el libro.
type MovementFilter struct {
	LocationID string
	ProductID  string
	Type       string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// MovementRepository define el puerto del libro de movimientos (append-only salvo correcciones).
// Las implementaciones aceptan pool o tx; LockPair solo tiene efecto dentro de una transacción.
type MovementRepository interface {
	Append(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// CorrectQuantity reescribe la cantidad de una fila histórica (escape de corrección de datos).
	CorrectQuantity(ctx context.Context, id string, quantity decimal.Decimal, by string, at time.Time) error
	// LockPair serializa escrituras sobre un par (local, producto) hasta fin de la transacción.
	LockPair(ctx context.Context, locationID, productID string) error
	// Balance es la suma de cantidades del par.
	Balance(ctx context.Context, locationID, productID string) (decimal.Decimal, error)
	// Project agrega el libro por producto; locationID vacío = todos los locales.
	// Los productos sin movimientos no aparecen.
	Project(ctx context.Context, locationID string) ([]entity.StockLine, error)
}
