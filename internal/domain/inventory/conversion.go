package inventory

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Unit es una unidad de ingreso reconocida.
type Unit string

// Unidades de ingreso. UnitPack multiplica por el factor del producto.
const (
	UnitGrams     Unit = "gramos"
	UnitCC        Unit = "cc"
	UnitPack      Unit = "unitario"
	UnitKilograms Unit = "kilos"
	UnitLiters    Unit = "litros"
)

// InputUnits unidades ofrecidas en el formulario de registro, en orden.
var InputUnits = []Unit{UnitGrams, UnitCC, UnitPack, UnitKilograms, UnitLiters}

var thousand = decimal.NewFromInt(1000)

var unitAliases = map[string]Unit{
	"gramos": UnitGrams, "gramo": UnitGrams, "g": UnitGrams, "gr": UnitGrams, "grs": UnitGrams,
	"cc": UnitCC, "ml": UnitCC, "mililitros": UnitCC,
	"unitario": UnitPack, "unidad": UnitPack, "unidades": UnitPack, "un": UnitPack, "pack": UnitPack,
	"kilos": UnitKilograms, "kilo": UnitKilograms, "kg": UnitKilograms, "kilogramos": UnitKilograms,
	"litros": UnitLiters, "litro": UnitLiters, "l": UnitLiters, "lt": UnitLiters, "lts": UnitLiters,
}

// NormalizeUnit resuelve una etiqueta de unidad (sin distinguir mayúsculas ni tildes).
func NormalizeUnit(label string) (Unit, bool) {
	u, ok := unitAliases[Fold(label)]
	return u, ok
}

// ParsePackFactor toma la primera secuencia de dígitos del formato; sin dígitos (o cero) es 1.
// "Pack 24" -> 24, "24x2" -> 24, "1 unidad" -> 1.
func ParsePackFactor(format string) int {
	start := -1
	for i, r := range format {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return atoiOrOne(format[start:i])
		}
	}
	if start >= 0 {
		return atoiOrOne(format[start:])
	}
	return 1
}

func atoiOrOne(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// ToBaseUnits convierte una cantidad ingresada a la unidad base del producto.
// Pack multiplica por packSize; kilos y litros por 1000; el resto queda igual.
func ToBaseUnits(raw decimal.Decimal, unit string, packSize int) decimal.Decimal {
	u, _ := NormalizeUnit(unit)
	switch u {
	case UnitPack:
		if packSize <= 0 {
			packSize = 1
		}
		return raw.Mul(decimal.NewFromInt(int64(packSize)))
	case UnitKilograms, UnitLiters:
		return raw.Mul(thousand)
	default:
		return raw
	}
}

// ToPackUnits expresa una cantidad base en packs (3 decimales).
func ToPackUnits(base decimal.Decimal, packSize int) decimal.Decimal {
	if packSize <= 1 {
		return base
	}
	return base.DivRound(decimal.NewFromInt(int64(packSize)), 3)
}

// Fold pasa a minúsculas, quita tildes y espacios extremos: "Cámara " -> "camara".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
