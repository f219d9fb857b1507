package cartcodec_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/aleman-inventario/internal/domain/entity"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/cartcodec"
)

func TestEncode_CarroVacioEsNil(t *testing.T) {
	b, err := cartcodec.Encode(nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	cart, err := cartcodec.Decode(b)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestDecode_ConservaPrecisionDeCantidades(t *testing.T) {
	added := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	in := []entity.CartItem{{
		ID: "i1", ProductID: "p1", Type: entity.MovementTypeEntrada,
		RawQuantity: decimal.RequireFromString("0.125"), Unit: "kilos", Place: "Bodega", AddedAt: added,
	}}
	b, err := cartcodec.Encode(in)
	require.NoError(t, err)

	out, err := cartcodec.Decode(b)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "0.125", out[0].RawQuantity.String())
	assert.True(t, added.Equal(out[0].AddedAt))
}

func TestDecode_BytesCorruptos(t *testing.T) {
	_, err := cartcodec.Decode([]byte{0xc1, 0x00})
	assert.Error(t, err)
}
