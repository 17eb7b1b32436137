package salidas

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
)

// Asignar resuelve una cantidad solicitada sobre los lotes disponibles de un
// producto con política FIFO: primero el lote más antiguo (FechaIngreso
// ascendente, desempate por Codigo), consumiendo lotes completos antes de
// partir uno. El resultado es determinista para un mismo snapshot de lotes.
//
// Devuelve InsufficientStockError si la suma de disponibles no alcanza; en ese
// caso no se produce asignación parcial.
func Asignar(productoID string, lotes []*entity.Lote, cantidad decimal.Decimal) ([]entity.Asignacion, error) {
	if !cantidad.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	ordenados := make([]*entity.Lote, 0, len(lotes))
	for _, l := range lotes {
		if l.CantidadDisponible.GreaterThan(decimal.Zero) {
			ordenados = append(ordenados, l)
		}
	}
	sort.SliceStable(ordenados, func(i, j int) bool {
		if !ordenados[i].FechaIngreso.Equal(ordenados[j].FechaIngreso) {
			return ordenados[i].FechaIngreso.Before(ordenados[j].FechaIngreso)
		}
		return ordenados[i].Codigo < ordenados[j].Codigo
	})

	disponible := decimal.Zero
	for _, l := range ordenados {
		disponible = disponible.Add(l.CantidadDisponible)
	}
	if disponible.LessThan(cantidad) {
		return nil, &domain.InsufficientStockError{
			ProductoID: productoID,
			Solicitada: cantidad,
			Disponible: disponible,
		}
	}

	var asignaciones []entity.Asignacion
	restante := cantidad
	for _, l := range ordenados {
		if !restante.GreaterThan(decimal.Zero) {
			break
		}
		toma := decimal.Min(l.CantidadDisponible, restante)
		asignaciones = append(asignaciones, entity.Asignacion{Lote: l.Codigo, Cantidad: toma})
		restante = restante.Sub(toma)
	}
	return asignaciones, nil
}

// AsignarLoteEspecifico resuelve la cantidad contra un único lote solicitado
// explícitamente. La selección explícita es autoritativa: si ese lote no
// alcanza, falla sin caer a otro lote. Un lote inexistente se reporta como
// faltante con disponible cero.
func AsignarLoteEspecifico(productoID string, lote *entity.Lote, codigo string, cantidad decimal.Decimal) ([]entity.Asignacion, error) {
	if !cantidad.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	disponible := decimal.Zero
	if lote != nil {
		disponible = lote.CantidadDisponible
	}
	if disponible.LessThan(cantidad) {
		return nil, &domain.InsufficientStockError{
			ProductoID: productoID,
			Lote:       codigo,
			Solicitada: cantidad,
			Disponible: disponible,
		}
	}
	return []entity.Asignacion{{Lote: codigo, Cantidad: cantidad}}, nil
}
