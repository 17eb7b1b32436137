package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoteSintetico es el código reservado para el stock sin lote de un producto.
// Se modela como un lote más (uno por producto) para que el asignador y el
// ledger tengan un único camino de código.
const LoteSintetico = ""

// Lote es un batch de un producto con cantidad disponible propia; es la unidad
// atómica de descuento y reposición de stock. CantidadDisponible nunca baja de
// cero (invariante garantizado por el ledger bajo bloqueo de fila).
type Lote struct {
	ID                 string
	ProductoID         string
	Codigo             string // LoteSintetico para stock sin lote
	CantidadDisponible decimal.Decimal
	FechaIngreso       time.Time // antigüedad para la política FIFO
	UpdatedAt          time.Time
}
