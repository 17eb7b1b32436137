package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/salidas-api/internal/domain/entity"
)

// SalidaFiltros filtros de listado (GET /api/salidas).
type SalidaFiltros struct {
	Tipo               string
	Estado             string
	ClienteID          *string
	MaletaID           *string
	FechaInicio        *time.Time
	FechaFin           *time.Time
	PendientesFacturar bool // procesadas sin factura_id
	Buscar             string
	Pagina             int
	Limite             int
	Orden              string // fecha | tipo_salida | estado
	Direccion          string // ASC | DESC
}

// EstadisticasFiltros rango para estadísticas.
type EstadisticasFiltros struct {
	FechaInicio *time.Time
	FechaFin    *time.Time
	Tipo        string
}

// EstadisticasPorTipo agregado por tipo de salida.
type EstadisticasPorTipo struct {
	Tipo         string
	Total        int64
	Unidades     decimal.Decimal
	ImporteVenta decimal.Decimal
}

// EstadisticasSalidas resumen del período.
type EstadisticasSalidas struct {
	TotalSalidas  int64
	TotalAnuladas int64
	TotalUnidades decimal.Decimal
	PorTipo       []EstadisticasPorTipo
}

// SalidaRepository persistencia de salidas y sus detalles (con asignaciones
// resueltas). Create y MarcarAnulada participan de la transacción del TxRunner.
type SalidaRepository interface {
	// Create persiste cabecera y detalles, incluidas las asignaciones por lote
	// de cada detalle (JSONB), para que la anulación pueda revertirlas exactas.
	Create(salida *entity.Salida) error

	// GetByID devuelve la salida con sus detalles; (nil, nil) si no existe.
	GetByID(id string) (*entity.Salida, error)

	// GetByIDForUpdate bloquea la cabecera; serializa anulaciones concurrentes
	// de la misma salida para que solo una vea el estado "procesada".
	GetByIDForUpdate(id string) (*entity.Salida, error)

	// MarcarAnulada registra la transición a anulada con actor, fecha y motivo.
	MarcarAnulada(id, usuarioID string, motivo *string, fecha time.Time) error

	// Listar aplica filtros y paginación; devuelve la página y el total.
	Listar(f SalidaFiltros) ([]*entity.Salida, int64, error)

	// Estadisticas agrega el período por tipo de salida.
	Estadisticas(f EstadisticasFiltros) (*EstadisticasSalidas, error)
}
