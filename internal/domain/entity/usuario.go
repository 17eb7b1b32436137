package entity

import "time"

// Roles de usuario. El router decide por rol qué operaciones de salidas puede
// ejecutar cada uno (vendedor solo consulta).
const (
	RolAdmin      = "admin"
	RolBodeguero  = "bodeguero"
	RolFacturador = "facturador"
	RolVendedor   = "vendedor"
)

// Usuario de la aplicación.
type Usuario struct {
	ID           string
	Email        string
	PasswordHash string
	Nombre       string
	Rol          string
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
