package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/aleman-inventario/internal/domain"
	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, location_id, product_id, type, quantity_milli, place, session_note,
	created_at, created_by, corrected_at, corrected_by`

// MovementRepo libro de movimientos sobre SQLite. Las cantidades se guardan en milésimas.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el repositorio.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

var (
	minMilli = decimal.NewFromInt(math.MinInt64)
	maxMilli = decimal.NewFromInt(math.MaxInt64)
)

// toMilli redondea a 3 decimales, la misma escala que NUMERIC(18,3) en PostgreSQL.
// Un valor que no cabe en int64 es un error, nunca se trunca.
func toMilli(d decimal.Decimal) (int64, error) {
	milli := d.Shift(3).Round(0)
	if milli.LessThan(minMilli) || milli.GreaterThan(maxMilli) {
		return 0, domain.NewValidationError("quantity", "fuera de rango")
	}
	return milli.IntPart(), nil
}

func fromMilli(n int64) decimal.Decimal {
	return decimal.New(n, -3)
}

func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	qty, err := toMilli(m.Quantity)
	if err != nil {
		return err
	}
	var corrected sql.NullString
	if m.CorrectedAt != nil {
		corrected = nullable(formatTime(*m.CorrectedAt))
	}
	_, err = r.q.ExecContext(ctx,
		`INSERT INTO movements (`+movementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.LocationID, m.ProductID, m.Type, qty, m.Place, m.SessionNote,
		formatTime(m.CreatedAt), m.CreatedBy, corrected, m.CorrectedBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRowContext(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var conds []string
	var args []any
	if f.LocationID != "" {
		conds, args = append(conds, "location_id = ?"), append(args, f.LocationID)
	}
	if f.ProductID != "" {
		conds, args = append(conds, "product_id = ?"), append(args, f.ProductID)
	}
	if f.Type != "" {
		conds, args = append(conds, "type = ?"), append(args, f.Type)
	}
	if f.From != nil {
		conds, args = append(conds, "created_at >= ?"), append(args, formatTime(*f.From))
	}
	if f.To != nil {
		conds, args = append(conds, "created_at <= ?"), append(args, formatTime(*f.To))
	}
	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
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

func (r *MovementRepo) CorrectQuantity(ctx context.Context, id string, quantity decimal.Decimal, by string, at time.Time) error {
	milli, err := toMilli(quantity)
	if err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx,
		`UPDATE movements SET quantity_milli = ?, corrected_by = ?, corrected_at = ? WHERE id = ?`,
		milli, by, formatTime(at), id,
	)
	if err != nil {
		return fmt.Errorf("correct movement: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LockPair no hace nada: con una sola conexión la transacción ya es exclusiva.
func (r *MovementRepo) LockPair(context.Context, string, string) error {
	return nil
}

func (r *MovementRepo) Balance(ctx context.Context, locationID, productID string) (decimal.Decimal, error) {
	var total int64
	err := r.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity_milli), 0) FROM movements WHERE location_id = ? AND product_id = ?`,
		locationID, productID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance: %w", err)
	}
	return fromMilli(total), nil
}

func (r *MovementRepo) Project(ctx context.Context, locationID string) ([]entity.StockLine, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT p.id, COALESCE(p.sku, ''), p.name, p.format, p.base_unit, p.pack_size, SUM(m.quantity_milli)
		FROM movements m
		JOIN products p ON p.id = m.product_id
		WHERE ?1 = '' OR m.location_id = ?1
		GROUP BY p.id, p.sku, p.name, p.format, p.base_unit, p.pack_size
		ORDER BY p.name`, locationID)
	if err != nil {
		return nil, fmt.Errorf("project stock: %w", err)
	}
	defer rows.Close()
	var lines []entity.StockLine
	for rows.Next() {
		var l entity.StockLine
		var total int64
		if err := rows.Scan(&l.ProductID, &l.SKU, &l.Name, &l.Format, &l.BaseUnit, &l.PackSize, &total); err != nil {
			return nil, fmt.Errorf("scan stock line: %w", err)
		}
		l.Quantity = fromMilli(total)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func scanMovement(row scanner) (*entity.Movement, error) {
	var m entity.Movement
	var milli int64
	var created string
	var corrected sql.NullString
	err := row.Scan(&m.ID, &m.LocationID, &m.ProductID, &m.Type, &milli, &m.Place, &m.SessionNote,
		&created, &m.CreatedBy, &corrected, &m.CorrectedBy)
	if err != nil {
		return nil, err
	}
	m.Quantity = fromMilli(milli)
	if m.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if corrected.Valid {
		at, err := parseTime(corrected.String)
		if err != nil {
			return nil, err
		}
		m.CorrectedAt = &at
	}
	return &m, nil
}
