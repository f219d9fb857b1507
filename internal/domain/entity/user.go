package entity

import (
	"slices"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleReportes = "reportes"
)

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// KnownRoles conjunto de roles aceptados.
var KnownRoles = []string{RoleAdmin, RoleStaff, RoleReportes}

// User representa un usuario del sistema con su local asignado.
type User struct {
	ID           string
	Login        string
	Name         string
	PasswordHash string // bcrypt; nunca texto plano
	Roles        []string
	LocationID   string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole indica si el usuario tiene el rol.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}
