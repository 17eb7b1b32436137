package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de salida de inventario.
const (
	TipoVenta        = "venta"
	TipoConsignacion = "consignacion"
	TipoMaleta       = "maleta"
	TipoAjuste       = "ajuste"
	TipoBaja         = "baja"
)

// Estados de una salida. "pendiente" existe solo por compatibilidad de esquema:
// toda salida se crea directamente como "procesada" (la creación es la única
// operación que descuenta stock, en una sola transacción).
const (
	EstadoPendiente = "pendiente"
	EstadoProcesada = "procesada"
	EstadoAnulada   = "anulada"
)

// TipoSalidaValido indica si el tipo pertenece al catálogo.
func TipoSalidaValido(tipo string) bool {
	switch tipo {
	case TipoVenta, TipoConsignacion, TipoMaleta, TipoAjuste, TipoBaja:
		return true
	}
	return false
}

// Salida representa un movimiento que retira inventario: venta, consignación,
// traslado a maleta, ajuste o baja. Una vez asociada a una factura
// (FacturaID != nil) es inmutable sin importar el estado.
type Salida struct {
	ID              string
	Tipo            string
	ClienteID       *string
	MaletaID        *string
	Estado          string
	FacturaID       *string
	Fecha           time.Time
	UsuarioID       string
	Observaciones   string
	AnuladaPor      *string
	FechaAnulacion  *time.Time
	MotivoAnulacion *string
	CreatedAt       time.Time

	Detalles []*DetalleSalida
}

// Facturada indica si la salida quedó bloqueada por facturación.
func (s *Salida) Facturada() bool { return s.FacturaID != nil && *s.FacturaID != "" }

// DetalleSalida es una línea de la salida. Lote es el código solicitado
// explícitamente (vacío = lo decide el asignador). Asignaciones registra los
// (lote, cantidad) realmente descontados; anular revierte exactamente esa lista
// aunque el inventario haya cambiado desde la creación.
type DetalleSalida struct {
	ID             string
	SalidaID       string
	ProductoID     string
	Lote           string
	Cantidad       decimal.Decimal
	PrecioUnitario *decimal.Decimal
	Asignaciones   []Asignacion
}

// Asignacion es la resolución de una cantidad sobre un lote concreto.
type Asignacion struct {
	Lote     string          `json:"lote"`
	Cantidad decimal.Decimal `json:"cantidad"`
}
