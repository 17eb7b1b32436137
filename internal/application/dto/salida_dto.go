package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DetalleSalidaRequest línea del body de POST /api/salidas. Lote es opcional:
// si viene, esa selección es autoritativa (sin fallback a otros lotes).
type DetalleSalidaRequest struct {
	ProductoID     string           `json:"producto_id"`
	Cantidad       decimal.Decimal  `json:"cantidad"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario,omitempty"`
	Lote           string           `json:"lote,omitempty"`
}

// CrearSalidaRequest body para POST /api/salidas.
type CrearSalidaRequest struct {
	Tipo          string                 `json:"tipo_salida"`
	ClienteID     *string                `json:"cliente_id,omitempty"`
	MaletaID      *string                `json:"maleta_id,omitempty"`
	Observaciones string                 `json:"observaciones,omitempty"`
	Detalles      []DetalleSalidaRequest `json:"detalles"`
}

// AnularSalidaRequest body para PATCH /api/salidas/:id/cancelar.
type AnularSalidaRequest struct {
	Motivo string `json:"motivo_cancelacion,omitempty"`
}

// AsignacionResponse un (lote, cantidad) realmente descontado.
type AsignacionResponse struct {
	Lote     string          `json:"lote"`
	Cantidad decimal.Decimal `json:"cantidad"`
}

// DetalleSalidaResponse línea con su asignación resuelta.
type DetalleSalidaResponse struct {
	ID             string               `json:"id"`
	ProductoID     string               `json:"producto_id"`
	Lote           string               `json:"lote,omitempty"`
	Cantidad       decimal.Decimal      `json:"cantidad"`
	PrecioUnitario *decimal.Decimal     `json:"precio_unitario,omitempty"`
	Asignaciones   []AsignacionResponse `json:"asignaciones"`
}

// SalidaResponse salida completa con detalles.
type SalidaResponse struct {
	ID              string                  `json:"id"`
	Tipo            string                  `json:"tipo_salida"`
	ClienteID       *string                 `json:"cliente_id,omitempty"`
	MaletaID        *string                 `json:"maleta_id,omitempty"`
	Estado          string                  `json:"estado"`
	FacturaID       *string                 `json:"factura_id,omitempty"`
	Fecha           time.Time               `json:"fecha"`
	UsuarioID       string                  `json:"usuario_id"`
	Observaciones   string                  `json:"observaciones,omitempty"`
	AnuladaPor      *string                 `json:"anulada_por,omitempty"`
	FechaAnulacion  *time.Time              `json:"fecha_anulacion,omitempty"`
	MotivoAnulacion *string                 `json:"motivo_anulacion,omitempty"`
	Detalles        []DetalleSalidaResponse `json:"detalles"`
}

// ListarSalidasRequest query params de GET /api/salidas.
type ListarSalidasRequest struct {
	Pagina             int    `query:"pagina"`
	Limite             int    `query:"limite"`
	Buscar             string `query:"buscar"`
	Tipo               string `query:"tipo_salida"`
	ClienteID          string `query:"cliente_id"`
	MaletaID           string `query:"maleta_id"`
	Estado             string `query:"estado"`
	FechaInicio        string `query:"fecha_inicio"` // YYYY-MM-DD
	FechaFin           string `query:"fecha_fin"`    // YYYY-MM-DD
	PendientesFacturar bool   `query:"pendientes_facturar"`
	Orden              string `query:"orden"`
	Direccion          string `query:"direccion"`
}

// ListarSalidasResponse página de salidas.
type ListarSalidasResponse struct {
	Salidas    []SalidaResponse `json:"salidas"`
	Paginacion PageResponse     `json:"paginacion"`
}

// EstadisticasTipoResponse agregado por tipo.
type EstadisticasTipoResponse struct {
	Tipo         string          `json:"tipo_salida"`
	Total        int64           `json:"total"`
	Unidades     decimal.Decimal `json:"unidades"`
	ImporteVenta decimal.Decimal `json:"importe_venta"`
}

// EstadisticasResponse resumen de GET /api/salidas/estadisticas.
type EstadisticasResponse struct {
	TotalSalidas  int64                      `json:"total_salidas"`
	TotalAnuladas int64                      `json:"total_anuladas"`
	TotalUnidades decimal.Decimal            `json:"total_unidades"`
	PorTipo       []EstadisticasTipoResponse `json:"por_tipo"`
}
