package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, location_id, product_id, type, quantity, place, session_note,
	created_at, created_by, corrected_at, corrected_by`

// MovementRepo implementación del libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el repositorio. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserta un movimiento (append-only).
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	query := `INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.LocationID, m.ProductID, m.Type, m.Quantity, nullable(m.Place), nullable(m.SessionNote),
		m.CreatedAt, nullable(m.CreatedBy), m.CorrectedAt, nullable(m.CorrectedBy),
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !isUUID(id) {
		return nil, nil
	}
	row := r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List devuelve el libro filtrado, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	if (f.LocationID != "" && !isUUID(f.LocationID)) || (f.ProductID != "" && !isUUID(f.ProductID)) {
		return nil, nil
	}
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.LocationID != "" {
		add("location_id = $%d", f.LocationID)
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CorrectQuantity reescribe la cantidad de una fila y deja traza de quién y cuándo.
func (r *MovementRepo) CorrectQuantity(ctx context.Context, id string, quantity decimal.Decimal, by string, at time.Time) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE movements SET quantity = $2, corrected_by = $3, corrected_at = $4 WHERE id = $1`,
		id, quantity, by, at,
	)
	if err != nil {
		return fmt.Errorf("correct movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LockPair toma un advisory lock de transacción por (local, producto).
func (r *MovementRepo) LockPair(ctx context.Context, locationID, productID string) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))`, locationID, productID)
	if err != nil {
		return fmt.Errorf("lock pair: %w", err)
	}
	return nil
}

// Balance suma el libro del par.
func (r *MovementRepo) Balance(ctx context.Context, locationID, productID string) (decimal.Decimal, error) {
	if !isUUID(locationID) || !isUUID(productID) {
		return decimal.Zero, nil
	}
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM movements WHERE location_id = $1 AND product_id = $2`,
		locationID, productID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance: %w", err)
	}
	return total, nil
}

// Project agrega el libro por producto, opcionalmente para un solo local.
func (r *MovementRepo) Project(ctx context.Context, locationID string) ([]entity.StockLine, error) {
	query := `
		SELECT p.id, p.sku, p.name, p.format, p.base_unit, p.pack_size, SUM(m.quantity)
		FROM movements m
		JOIN products p ON p.id = m.product_id
		WHERE $1 = '' OR m.location_id::text = $1
		GROUP BY p.id, p.sku, p.name, p.format, p.base_unit, p.pack_size
		ORDER BY p.name`
	rows, err := r.q.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("project stock: %w", err)
	}
	defer rows.Close()
	var lines []entity.StockLine
	for rows.Next() {
		var l entity.StockLine
		var sku *string
		if err := rows.Scan(&l.ProductID, &sku, &l.Name, &l.Format, &l.BaseUnit, &l.PackSize, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock line: %w", err)
		}
		l.SKU = deref(sku)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var place, note, createdBy, correctedBy *string
	err := row.Scan(&m.ID, &m.LocationID, &m.ProductID, &m.Type, &m.Quantity, &place, &note,
		&m.CreatedAt, &createdBy, &m.CorrectedAt, &correctedBy)
	if err != nil {
		return nil, err
	}
	m.Place = deref(place)
	m.SessionNote = deref(note)
	m.CreatedBy = deref(createdBy)
	m.CorrectedBy = deref(correctedBy)
	return &m, nil
}
