package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidState      = errors.New("estado inválido para la operación")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrContention        = errors.New("conflicto de concurrencia, reintente la operación")
	ErrUnsupported       = errors.New("operación no soportada")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrDuplicate         = errors.New("recurso duplicado")
)

// InsufficientStockError detalla un faltante de stock por producto (y lote, si
// se solicitó uno específico). Unwrap devuelve ErrInsufficientStock para que
// errors.Is siga funcionando en handlers y tests.
type InsufficientStockError struct {
	ProductoID string
	Lote       string // vacío cuando el faltante es a nivel producto
	Solicitada decimal.Decimal
	Disponible decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	if e.Lote != "" {
		return fmt.Sprintf("stock insuficiente para el producto %s en el lote %s: solicitado %s, disponible %s",
			e.ProductoID, e.Lote, e.Solicitada, e.Disponible)
	}
	return fmt.Sprintf("stock insuficiente para el producto %s: solicitado %s, disponible %s",
		e.ProductoID, e.Solicitada, e.Disponible)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Faltante devuelve la cantidad que no pudo cubrirse.
func (e *InsufficientStockError) Faltante() decimal.Decimal {
	return e.Solicitada.Sub(e.Disponible)
}
