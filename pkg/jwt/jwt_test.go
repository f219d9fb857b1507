package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_RoundTrip(t *testing.T) {
	s := Signer{Secret: "secreto", Issuer: "aleman-inventario", TTL: time.Hour}
	tok, err := s.Sign("sess-1", "user-1")
	require.NoError(t, err)

	sid, err := s.SessionID(tok)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sid)
}

func TestSigner_Rechazos(t *testing.T) {
	s := Signer{Secret: "secreto", Issuer: "aleman-inventario", TTL: time.Hour}
	tok, err := s.Sign("sess-1", "user-1")
	require.NoError(t, err)

	_, err = Signer{Secret: "otro", Issuer: "aleman-inventario"}.SessionID(tok)
	assert.Error(t, err, "firma con otro secret")

	_, err = Signer{Secret: "secreto", Issuer: "otro-emisor"}.SessionID(tok)
	assert.Error(t, err, "emisor distinto")

	vencido, err := Signer{Secret: "secreto", TTL: -time.Minute}.Sign("sess-2", "user-1")
	require.NoError(t, err)
	_, err = s.SessionID(vencido)
	assert.Error(t, err)

	_, err = s.SessionID("no.es.token")
	assert.Error(t, err)
}

func TestSigner_SinSecret(t *testing.T) {
	_, err := Signer{}.Sign("sess-1", "user-1")
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = Signer{Secret: "x"}.Sign("", "user-1")
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
