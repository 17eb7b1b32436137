package entity

import "time"

// Maleta es el muestrario itinerante de un vendedor; las salidas tipo "maleta"
// trasladan inventario hacia ella.
type Maleta struct {
	ID          string
	Nombre      string
	VendedorID  *string
	Descripcion string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
