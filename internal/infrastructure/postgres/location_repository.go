package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de persistencia para locales.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste un nuevo local.
func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO locations (id, name, created_at) VALUES ($1, $2, $3)`,
		location.ID, location.Name, location.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene un local por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT id, name, created_at FROM locations WHERE id = $1`, id)
}

// GetByName obtiene un local por nombre exacto.
func (r *LocationRepo) GetByName(ctx context.Context, name string) (*entity.Location, error) {
	return r.findOne(ctx, `SELECT id, name, created_at FROM locations WHERE name = $1`, name)
}

func (r *LocationRepo) findOne(ctx context.Context, query, arg string) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(ctx, query, arg).Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// List lista todos los locales por nombre.
func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
