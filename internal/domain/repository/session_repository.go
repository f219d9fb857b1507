package repository

import (
	"context"

	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
)

// SessionRepository guarda sesiones de servidor con su carro de movimientos pendientes.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	// Save reemplaza local activo y carro de la sesión.
	Save(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}
