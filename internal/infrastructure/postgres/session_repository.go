package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/cartcodec"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo guarda sesiones de servidor; el carro viaja serializado en msgpack.
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el repositorio de sesiones.
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

// Create persiste una sesión nueva.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	cart, err := cartcodec.Encode(s.Cart)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO sessions (id, user_id, login, name, roles, location_id, cart, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query,
		s.ID, s.UserID, s.Login, s.Name, s.Roles, nullable(s.LocationID), cart, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Get obtiene una sesión; (nil, nil) si no existe.
func (r *SessionRepo) Get(ctx context.Context, id string) (*entity.Session, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, user_id, login, name, roles, location_id, cart, created_at, expires_at
		FROM sessions WHERE id = $1`
	var s entity.Session
	var locationID *string
	var cart []byte
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.Login, &s.Name, &s.Roles, &locationID, &cart, &s.CreatedAt, &s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	s.LocationID = deref(locationID)
	if s.Cart, err = cartcodec.Decode(cart); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save reemplaza local activo y carro.
func (r *SessionRepo) Save(ctx context.Context, s *entity.Session) error {
	cart, err := cartcodec.Encode(s.Cart)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE sessions SET location_id = $2, cart = $3 WHERE id = $1`,
		s.ID, nullable(s.LocationID), cart,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSessionExpired
	}
	return nil
}

// Delete elimina la sesión (logout). Borrar una sesión inexistente no es error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteByUser cierra todas las sesiones del usuario.
func (r *SessionRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
