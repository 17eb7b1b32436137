package salidas

import (
	"context"

	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza el todo-o-nada del motor de salidas:
// si fn devuelve error no queda visible ningún descuento parcial de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		salidaRepo repository.SalidaRepository,
		loteRepo repository.LoteRepository,
		productoRepo repository.ProductoRepository,
	) error) error
}
