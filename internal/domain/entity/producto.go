package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto es una pieza del inventario. StockActual es un valor derivado: en
// todo instante observable debe igualar la suma de CantidadDisponible de sus
// lotes (se mantiene en la misma transacción que muta los lotes, nunca por
// separado).
type Producto struct {
	ID          string
	Codigo      string
	Descripcion string
	StockActual decimal.Decimal
	Precio      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
