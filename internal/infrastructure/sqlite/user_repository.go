package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, login, name, password_hash, roles, location_id, status, created_at, updated_at`

// UserRepo usuarios sobre SQLite; los roles se guardan separados por coma.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el repositorio.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Login, u.Name, u.PasswordHash, joinRoles(u.Roles), nullable(u.LocationID), u.Status,
		formatTime(u.CreatedAt), formatTime(u.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByLogin compara el login de forma exacta (SQLite = es sensible a mayúsculas).
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE login = ?`, login)
}

func (r *UserRepo) findOne(ctx context.Context, query, arg string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET name = ?, password_hash = ?, roles = ?, location_id = ?, status = ?, updated_at = ? WHERE id = ?`,
		u.Name, u.PasswordHash, joinRoles(u.Roles), nullable(u.LocationID), u.Status, formatTime(u.UpdatedAt), u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY login`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepo) DeleteByLogin(ctx context.Context, login string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE login = ?`, login)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row scanner) (*entity.User, error) {
	var u entity.User
	var roles, created, updated string
	var location sql.NullString
	if err := row.Scan(&u.ID, &u.Login, &u.Name, &u.PasswordHash, &roles, &location, &u.Status, &created, &updated); err != nil {
		return nil, err
	}
	u.Roles = splitRoles(roles)
	u.LocationID = location.String
	var err error
	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &u, nil
}
