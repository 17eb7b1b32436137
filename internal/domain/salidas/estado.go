package salidas

import (
	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
)

// Máquina de estados de una salida:
//
//	crear  → procesada            (única transición que descuenta stock)
//	anular: procesada → anulada   (solo si no está facturada; repone stock)
//
// No existe transición que salga de "anulada", y factura_id presente bloquea
// cualquier mutación sin importar el estado.

// PuedeAnular valida la transición procesada → anulada. Devuelve
// ErrInvalidState (nunca un pánico) si la salida ya está anulada o facturada;
// el caller no debe tocar el ledger en ese caso.
func PuedeAnular(s *entity.Salida) error {
	if s.Facturada() {
		return domain.ErrInvalidState
	}
	if s.Estado != entity.EstadoProcesada {
		return domain.ErrInvalidState
	}
	return nil
}

// PuedeModificar indica si la salida admite cambios (actualización de campos o
// detalles). Anulada o facturada ⇒ inmutable.
func PuedeModificar(s *entity.Salida) error {
	if s.Facturada() || s.Estado == entity.EstadoAnulada {
		return domain.ErrInvalidState
	}
	return nil
}
