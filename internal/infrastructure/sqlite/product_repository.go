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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, format, pack_size, base_unit, created_at, updated_at`

// ProductRepo maestro de productos sobre SQLite.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el repositorio.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, nullable(p.SKU), p.Name, p.Format, p.PackSize, p.BaseUnit,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
}

// GetByBusinessKey busca por SKU y, si no hay coincidencia, por nombre sin distinguir mayúsculas.
// Por nombre solo vale una fila sin SKU o con el mismo SKU: así un producto cargado sin SKU
// puede recibirlo después.
func (r *ProductRepo) GetByBusinessKey(ctx context.Context, sku, name string) (*entity.Product, error) {
	if sku != "" {
		p, err := r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = ?`, sku)
		if err != nil || p != nil {
			return p, err
		}
	}
	if name == "" {
		return nil, nil
	}
	p, err := r.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE name = ? COLLATE NOCASE`, name)
	if err != nil || p == nil {
		return nil, err
	}
	if sku != "" && p.SKU != "" && p.SKU != sku {
		return nil, nil
	}
	return p, nil
}

func (r *ProductRepo) findOne(ctx context.Context, query, arg string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET sku = ?, name = ?, format = ?, pack_size = ?, base_unit = ?, updated_at = ? WHERE id = ?`,
		nullable(p.SKU), p.Name, p.Format, p.PackSize, p.BaseUnit, formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Upsert inserta o actualiza por clave de negocio; conserva id y created_at de la fila existente.
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) (bool, error) {
	existing, err := r.GetByBusinessKey(ctx, p.SKU, p.Name)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, r.Create(ctx, p)
	}
	p.ID, p.CreatedAt = existing.ID, existing.CreatedAt
	if p.SKU == "" {
		p.SKU = existing.SKU
	}
	return true, r.Update(ctx, p)
}

func (r *ProductRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE ?1 = '' OR name LIKE '%' || ?1 || '%' OR sku LIKE '%' || ?1 || '%'
		ORDER BY name LIMIT ?2 OFFSET ?3`, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row scanner) (*entity.Product, error) {
	var p entity.Product
	var sku sql.NullString
	var created, updated string
	if err := row.Scan(&p.ID, &sku, &p.Name, &p.Format, &p.PackSize, &p.BaseUnit, &created, &updated); err != nil {
		return nil, err
	}
	p.SKU = sku.String
	var err error
	if p.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &p, nil
}
