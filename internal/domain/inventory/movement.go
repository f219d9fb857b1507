package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
)

// ValidMovementType indica si el tipo es uno de los del libro.
func ValidMovementType(t string) bool {
	switch t {
	case entity.MovementTypeEntrada, entity.MovementTypeSalida, entity.MovementTypeAjuste, entity.MovementTypeConteo:
		return true
	}
	return false
}

// SignedQuantity aplica el signo del tipo a una cantidad base.
// ENTRADA suma, SALIDA resta, AJUSTE conserva su signo. CONTEO no pasa por aquí: su valor
// depende del stock actual (ver CountDelta).
func SignedQuantity(movementType string, base decimal.Decimal) decimal.Decimal {
	switch movementType {
	case entity.MovementTypeSalida:
		return base.Abs().Neg()
	case entity.MovementTypeEntrada:
		return base.Abs()
	default:
		return base
	}
}

// CountDelta es la diferencia a registrar para que el stock quede igual al conteo.
func CountDelta(counted, current decimal.Decimal) decimal.Decimal {
	return counted.Sub(current)
}

// Allows indica si la política permite dejar el stock en current+delta.
func Allows(rejectNegative bool, current, delta decimal.Decimal) bool {
	if !rejectNegative || !delta.IsNegative() {
		return true
	}
	return !current.Add(delta).IsNegative()
}

// QuantityScale decimales que guarda el libro (NUMERIC(18,3) en PostgreSQL, milésimas en SQLite).
const QuantityScale = 3

// MaxQuantity cota exclusiva del valor absoluto de una fila del libro en unidad base.
var MaxQuantity = decimal.New(1, 12)

// RoundBase lleva una cantidad base a la escala del libro.
func RoundBase(base decimal.Decimal) decimal.Decimal {
	return base.Round(QuantityScale)
}

// WithinBounds indica si la cantidad cabe en una fila del libro.
func WithinBounds(qty decimal.Decimal) bool {
	return qty.Abs().LessThan(MaxQuantity)
}
