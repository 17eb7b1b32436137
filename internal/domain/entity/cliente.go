package entity

import "time"

// Cliente destinatario de ventas y consignaciones.
type Cliente struct {
	ID        string
	Nombre    string
	Documento string
	Email     string
	Telefono  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
