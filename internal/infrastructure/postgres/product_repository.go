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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, format, pack_size, base_unit, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, nullable(p.SKU), p.Name, p.Format, p.PackSize, p.BaseUnit, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	row := r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByBusinessKey busca por SKU y, si no hay coincidencia, por lower(name).
// Por nombre solo vale una fila sin SKU o con el mismo SKU.
func (r *ProductRepo) GetByBusinessKey(ctx context.Context, sku, name string) (*entity.Product, error) {
	if sku != "" {
		p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
		if err != nil {
			return nil, fmt.Errorf("get product by sku: %w", err)
		}
		if p != nil {
			return p, nil
		}
	}
	if name == "" {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE lower(name) = lower($1)`, name))
	if err != nil {
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	if p == nil || (sku != "" && p.SKU != "" && p.SKU != sku) {
		return nil, nil
	}
	return p, nil
}

// Update actualiza los datos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, format = $4, pack_size = $5, base_unit = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, nullable(p.SKU), p.Name, p.Format, p.PackSize, p.BaseUnit, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
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

// List lista productos por nombre, filtrando por nombre o SKU.
func (r *ProductRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%'
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, search, limit, offset)
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

// scanProduct devuelve (nil, nil) si no hay filas.
func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var sku *string
	err := row.Scan(&p.ID, &sku, &p.Name, &p.Format, &p.PackSize, &p.BaseUnit, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.SKU = deref(sku)
	return &p, nil
}
