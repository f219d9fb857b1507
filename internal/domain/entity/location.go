package entity

import "time"

// Location representa un local de la cadena (sede). Datos de referencia de solo lectura.
type Location struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
