package salidas

import (
	"context"
	"time"

	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
	domsalidas "github.com/jhoicas/salidas-api/internal/domain/salidas"
)

// AnularSalida revierte una salida procesada: en una sola transacción bloquea
// la cabecera, valida la máquina de estados (anulada o facturada ⇒
// ErrInvalidState sin tocar el ledger), repone en cada lote exactamente las
// cantidades registradas en las asignaciones de los detalles y marca la salida
// como anulada con actor, fecha y motivo.
//
// El bloqueo de la cabecera hace idempotente el rechazo: de dos anulaciones
// concurrentes solo una ve "procesada"; la otra falla sin doble crédito.
func (uc *UseCase) AnularSalida(ctx context.Context, id, usuarioID string, motivo string) error {
	if id == "" || usuarioID == "" {
		return domain.ErrInvalidInput
	}
	var motivoRef *string
	if motivo != "" {
		motivoRef = &motivo
	}

	return uc.txRunner.Run(ctx, func(
		salidaRepo repository.SalidaRepository,
		loteRepo repository.LoteRepository,
		productoRepo repository.ProductoRepository,
	) error {
		salida, err := salidaRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if salida == nil {
			return domain.ErrNotFound
		}
		if err := domsalidas.PuedeAnular(salida); err != nil {
			return err
		}

		// Crédito aditivo por asignación registrada: repone aunque el
		// disponible del lote haya cambiado desde la creación.
		for _, d := range salida.Detalles {
			for _, a := range d.Asignaciones {
				if err := loteRepo.Reponer(d.ProductoID, a.Lote, a.Cantidad); err != nil {
					return err
				}
			}
			if err := productoRepo.ReponerStock(d.ProductoID, d.Cantidad); err != nil {
				return err
			}
		}
		return salidaRepo.MarcarAnulada(id, usuarioID, motivoRef, time.Now())
	})
}
