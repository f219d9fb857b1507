package entity

import "time"

// Valores por defecto del maestro para formato y unidad base.
const (
	DefaultFormat   = "Unidad"
	DefaultBaseUnit = "unidades"
)

// Product representa un producto del maestro.
// El stock no vive aquí: se deriva siempre del libro de movimientos.
type Product struct {
	ID        string
	SKU       string // clave de negocio opcional; si está vacía la clave es Name
	Name      string
	Format    string // texto de formato, ej. "Pack 24"
	PackSize  int    // unidades base por pack
	BaseUnit  string // UMB: gramos, cc, unidades
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BusinessKey devuelve la clave por la que se hace upsert en cargas masivas.
func (p *Product) BusinessKey() string {
	if p.SKU != "" {
		return p.SKU
	}
	return p.Name
}
