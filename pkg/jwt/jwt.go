package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret      = errors.New("jwt: secret vacío")
	ErrInvalidClaims = errors.New("jwt: claims inválidos")
)

// Claims del token de sesión. Roles y local no viajan en el token: se leen de la sesión guardada.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// Signer firma y valida tokens HS256 que apuntan a una sesión del servidor.
type Signer struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Sign emite el token de la sesión sessionID abierta por userID.
func (s Signer) Sign(sessionID, userID string) (string, error) {
	if s.Secret == "" {
		return "", ErrNoSecret
	}
	if sessionID == "" {
		return "", fmt.Errorf("%w: sesión vacía", ErrInvalidClaims)
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    s.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
		SessionID: sessionID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
}

// SessionID valida firma, emisor y vencimiento y devuelve la sesión referida.
func (s Signer) SessionID(token string) (string, error) {
	if s.Secret == "" {
		return "", ErrNoSecret
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.Issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(s.Secret), nil
	}, opts...)
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return "", ErrInvalidClaims
	}
	return claims.SessionID, nil
}
