package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro.
const (
	MovementTypeEntrada = "ENTRADA" // suma
	MovementTypeSalida  = "SALIDA"  // resta
	MovementTypeAjuste  = "AJUSTE"  // con signo tal como se ingresa
	MovementTypeConteo  = "CONTEO"  // conteo físico: se guarda la diferencia contra el stock actual
)

// Movement es una fila del libro de movimientos. Quantity está en la unidad base del producto
// y con signo: stock(producto, local) = suma de Quantity.
type Movement struct {
	ID          string
	LocationID  string
	ProductID   string
	Type        string
	Quantity    decimal.Decimal
	Place       string // ubicación dentro del local: Bodega, Cámara de frío...
	SessionNote string // lote o sesión de registro
	CreatedAt   time.Time
	CreatedBy   string
	CorrectedAt *time.Time
	CorrectedBy string
}

// StockLine es el stock derivado de un producto (en un local o en todos).
type StockLine struct {
	ProductID string
	SKU       string
	Name      string
	Format    string
	BaseUnit  string
	PackSize  int
	Quantity  decimal.Decimal
}
