package entity

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Session es la sesión de servidor de un usuario autenticado. El token del cliente solo
// transporta su ID; roles y local activo se leen siempre de aquí.
type Session struct {
	ID         string
	UserID     string
	Login      string
	Name       string
	Roles      []string
	LocationID string // local activo (un admin puede cambiarlo)
	Cart       []CartItem
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// HasRole indica si la sesión tiene el rol.
func (s *Session) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}

// Expired indica si la sesión venció en el instante dado.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// CartItem es un movimiento pendiente, aún no convertido ni registrado.
type CartItem struct {
	ID          string
	ProductID   string
	Type        string
	RawQuantity decimal.Decimal
	Unit        string
	Place       string
	AddedAt     time.Time
}
