package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salidas-api/internal/domain/entity"
)

// ProductoRepository catálogo de productos. StockActual es derivado de los
// lotes: DescontarStock/ReponerStock deben ejecutarse en la misma transacción
// que muta los lotes, nunca por fuera.
type ProductoRepository interface {
	GetByID(id string) (*entity.Producto, error)
	// DescontarStock resta cantidad de stock_actual de forma atómica.
	DescontarStock(id string, cantidad decimal.Decimal) error
	// ReponerStock suma cantidad a stock_actual de forma atómica.
	ReponerStock(id string, cantidad decimal.Decimal) error
}
