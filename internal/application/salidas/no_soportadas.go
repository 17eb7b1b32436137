package salidas

import (
	"context"

	"github.com/jhoicas/salidas-api/internal/domain"
)

// Operaciones sin regla de negocio definida. Fallan con ErrUnsupported, una
// señal estable y explícita: nunca un no-op silencioso. Si alguna se
// implementa, debe respetar PuedeModificar (inmutabilidad de anuladas y
// facturadas).

// ActualizarSalida no está soportada.
func (uc *UseCase) ActualizarSalida(ctx context.Context, id string) error {
	return domain.ErrUnsupported
}

// CompletarSalida no está soportada: toda salida nace "procesada".
func (uc *UseCase) CompletarSalida(ctx context.Context, id string) error {
	return domain.ErrUnsupported
}

// EliminarSalida no está soportada; el flujo válido es la anulación.
func (uc *UseCase) EliminarSalida(ctx context.Context, id string) error {
	return domain.ErrUnsupported
}

// DuplicarSalida no está soportada.
func (uc *UseCase) DuplicarSalida(ctx context.Context, id string) error {
	return domain.ErrUnsupported
}

// GenerarReporte no está soportada; usar el listado con filtros.
func (uc *UseCase) GenerarReporte(ctx context.Context) error {
	return domain.ErrUnsupported
}
