package dto

import "time"

// UpsertUserRequest crea o actualiza un usuario por login. En actualización un password vacío
// conserva la clave actual.
type UpsertUserRequest struct {
	Login      string   `json:"login" validate:"required,min=1,max=100"`
	Name       string   `json:"name" validate:"omitempty,max=200"`
	Password   string   `json:"password,omitempty"`
	Roles      []string `json:"roles" validate:"required,dive,oneof=admin staff reportes"`
	LocationID string   `json:"location_id,omitempty"`
	Status     string   `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           string    `json:"id"`
	Login        string    `json:"login"`
	Name         string    `json:"name"`
	Roles        []string  `json:"roles"`
	LocationID   string    `json:"location_id,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de sesión y datos de la sesión abierta.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Session   SessionResponse `json:"session"`
}

// SessionResponse vista de la sesión actual (GET /api/auth/me).
type SessionResponse struct {
	UserID       string    `json:"user_id"`
	Login        string    `json:"login"`
	Name         string    `json:"name"`
	Roles        []string  `json:"roles"`
	LocationID   string    `json:"location_id,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	CartItems    int       `json:"cart_items"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SwitchLocationRequest cambio de local activo (solo admin).
type SwitchLocationRequest struct {
	LocationID string `json:"location_id" validate:"required"`
}
