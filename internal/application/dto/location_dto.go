package dto

// LocationResponse salida de un local.
type LocationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
