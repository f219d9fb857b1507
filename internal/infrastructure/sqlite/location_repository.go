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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo locales sobre SQLite.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el repositorio.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO locations (id, name, created_at) VALUES (?, ?, ?)`,
		l.ID, l.Name, formatTime(l.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	return r.findOne(ctx, `SELECT id, name, created_at FROM locations WHERE id = ?`, id)
}

func (r *LocationRepo) GetByName(ctx context.Context, name string) (*entity.Location, error) {
	return r.findOne(ctx, `SELECT id, name, created_at FROM locations WHERE name = ?`, name)
}

func (r *LocationRepo) findOne(ctx context.Context, query, arg string) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, created_at FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(row scanner) (*entity.Location, error) {
	var l entity.Location
	var created string
	if err := row.Scan(&l.ID, &l.Name, &created); err != nil {
		return nil, err
	}
	var err error
	if l.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &l, nil
}
