package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salidas-api/internal/domain/entity"
)

// LoteRepository es el ledger de lotes. Las variantes ForUpdate bloquean las
// filas leídas (SELECT ... FOR UPDATE) durante el ciclo leer-verificar-descontar;
// solo tienen sentido dentro de una transacción del TxRunner.
type LoteRepository interface {
	// ListarDisponiblesForUpdate devuelve los lotes con disponible > 0 de un
	// producto, ordenados por (fecha_ingreso, codigo) ascendente, con sus filas
	// bloqueadas. El orden fijo de adquisición evita deadlocks entre salidas
	// concurrentes del mismo producto.
	ListarDisponiblesForUpdate(productoID string) ([]*entity.Lote, error)

	// GetForUpdate bloquea y devuelve un lote por código; (nil, nil) si no existe.
	GetForUpdate(productoID, codigo string) (*entity.Lote, error)

	// Descontar resta cantidad del disponible del lote. Exige la guarda
	// cantidad_disponible >= cantidad en el UPDATE: si no afecta filas devuelve
	// ErrInsufficientStock aunque el caller ya haya verificado bajo bloqueo.
	Descontar(productoID, codigo string, cantidad decimal.Decimal) error

	// Reponer acredita cantidad al lote registrado en una asignación. Es un
	// crédito puramente aditivo: funciona aunque el disponible haya cambiado
	// desde que se tomó la asignación.
	Reponer(productoID, codigo string, cantidad decimal.Decimal) error

	// DisponibleTotal suma el disponible de todos los lotes del producto, sin
	// bloquear. Solo para pre-chequeos informativos: la verificación
	// autoritativa es la de Descontar bajo bloqueo.
	DisponibleTotal(productoID string) (decimal.Decimal, error)
}
