package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/domain/inventory"
)

func TestParsePackFactor(t *testing.T) {
	cases := map[string]int{
		"Pack 24":    24,
		"1 unidad":   1,
		"Unidad":     1,
		"24x2":       24,
		"":           1,
		"Caja 0":     1,
		"Saco 25 kg": 25,
		"x12":        12,
	}
	for format, want := range cases {
		assert.Equal(t, want, inventory.ParsePackFactor(format), "formato %q", format)
	}
}

func TestToBaseUnits_KilosYLitros(t *testing.T) {
	got := inventory.ToBaseUnits(decimal.RequireFromString("2.5"), "kilos", 1)
	assert.True(t, got.Equal(decimal.NewFromInt(2500)), "2.5 kilos = 2500 g, got %s", got)

	got = inventory.ToBaseUnits(decimal.NewFromInt(3), "Litros", 6)
	assert.True(t, got.Equal(decimal.NewFromInt(3000)), "el factor de pack no aplica a litros")
}

func TestToBaseUnits_SinConversion(t *testing.T) {
	for _, unit := range []string{"gramos", "cc", "GR", "onzas", ""} {
		got := inventory.ToBaseUnits(decimal.NewFromInt(3), unit, 24)
		assert.True(t, got.Equal(decimal.NewFromInt(3)), "unidad %q no convierte", unit)
	}
}

func TestToBaseUnits_Pack(t *testing.T) {
	got := inventory.ToBaseUnits(decimal.NewFromInt(2), "Unitario", inventory.ParsePackFactor("Pack 6"))
	assert.True(t, got.Equal(decimal.NewFromInt(12)))

	got = inventory.ToBaseUnits(decimal.NewFromInt(2), "unitario", 0)
	assert.True(t, got.Equal(decimal.NewFromInt(2)), "pack sin factor vale 1")
}

func TestToBaseUnits_Determinista(t *testing.T) {
	raw := decimal.RequireFromString("1.75")
	first := inventory.ToBaseUnits(raw, "kilos", 4)
	for i := 0; i < 5; i++ {
		assert.True(t, first.Equal(inventory.ToBaseUnits(raw, "kilos", 4)))
	}
}

func TestNormalizeUnit(t *testing.T) {
	u, ok := inventory.NormalizeUnit("  KG ")
	assert.True(t, ok)
	assert.Equal(t, inventory.UnitKilograms, u)

	_, ok = inventory.NormalizeUnit("barriles")
	assert.False(t, ok)
}

func TestToPackUnits(t *testing.T) {
	got := inventory.ToPackUnits(decimal.NewFromInt(30), 24)
	assert.Equal(t, "1.25", got.String())
	assert.True(t, inventory.ToPackUnits(decimal.NewFromInt(7), 1).Equal(decimal.NewFromInt(7)))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "camara de frio", inventory.Fold(" Cámara de Frío "))
	assert.Equal(t, "produccion", inventory.Fold("PRODUCCIÓN"))
}

func TestSignedQuantity(t *testing.T) {
	six := decimal.NewFromInt(6)
	assert.True(t, inventory.SignedQuantity(entity.MovementTypeSalida, six).Equal(six.Neg()))
	assert.True(t, inventory.SignedQuantity(entity.MovementTypeEntrada, six.Neg()).Equal(six))
	assert.True(t, inventory.SignedQuantity(entity.MovementTypeAjuste, six.Neg()).Equal(six.Neg()))
}

func TestAllows(t *testing.T) {
	ten := decimal.NewFromInt(10)
	assert.True(t, inventory.Allows(false, decimal.Zero, ten.Neg()), "sin política todo pasa")
	assert.True(t, inventory.Allows(true, ten, ten.Neg()), "dejar en cero está permitido")
	assert.False(t, inventory.Allows(true, ten, decimal.NewFromInt(-11)))
	assert.True(t, inventory.Allows(true, ten.Neg(), ten), "las entradas nunca se bloquean")
}

func TestCountDelta(t *testing.T) {
	assert.True(t, inventory.CountDelta(decimal.NewFromInt(4), decimal.NewFromInt(10)).Equal(decimal.NewFromInt(-6)))
}

func TestRoundBase(t *testing.T) {
	assert.Equal(t, "0.001", inventory.RoundBase(decimal.RequireFromString("0.0006")).String())
	assert.True(t, inventory.RoundBase(decimal.RequireFromString("0.0004")).IsZero())
	assert.Equal(t, "-1.235", inventory.RoundBase(decimal.RequireFromString("-1.2346")).String())
}

func TestWithinBounds(t *testing.T) {
	assert.True(t, inventory.WithinBounds(decimal.RequireFromString("999999999999.999")))
	assert.True(t, inventory.WithinBounds(decimal.RequireFromString("-999999999999.999")))
	assert.False(t, inventory.WithinBounds(decimal.New(1, 12)))
	assert.False(t, inventory.WithinBounds(decimal.RequireFromString("-10000000000000")))
}
