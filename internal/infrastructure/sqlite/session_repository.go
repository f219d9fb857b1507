package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/cartcodec"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo sesiones de servidor sobre SQLite.
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el repositorio.
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	cart, err := cartcodec.Encode(s.Cart)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, login, name, roles, location_id, cart, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Login, s.Name, joinRoles(s.Roles), nullable(s.LocationID), cart,
		formatTime(s.CreatedAt), formatTime(s.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, id string) (*entity.Session, error) {
	var s entity.Session
	var roles, created, expires string
	var location sql.NullString
	var cart []byte
	err := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, login, name, roles, location_id, cart, created_at, expires_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &s.Login, &s.Name, &roles, &location, &cart, &created, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	s.Roles = splitRoles(roles)
	s.LocationID = location.String
	if s.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if s.ExpiresAt, err = parseTime(expires); err != nil {
		return nil, err
	}
	if s.Cart, err = cartcodec.Decode(cart); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepo) Save(ctx context.Context, s *entity.Session) error {
	cart, err := cartcodec.Encode(s.Cart)
	if err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, `UPDATE sessions SET location_id = ?, cart = ? WHERE id = ?`,
		nullable(s.LocationID), cart, s.ID)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrSessionExpired
	}
	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
