package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "debug").Component("movimientos")
	l.Info().Str("product_id", "p1").Msg("registrado")

	var ev map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "movimientos", ev["component"])
	assert.Equal(t, "p1", ev["product_id"])
	assert.Equal(t, "info", ev["level"])
}

func TestNivelInvalido_UsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "verboso")
	l.Debug().Msg("oculto")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNivelSinNormalizar(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, " WARN ")
	l.Info().Msg("oculto")
	assert.Zero(t, buf.Len())
}
