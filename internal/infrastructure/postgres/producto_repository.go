package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

var _ repository.ProductoRepository = (*ProductoRepo)(nil)

// ProductoRepo implementación de ProductoRepository sobre PostgreSQL (usable con pool o tx).
type ProductoRepo struct {
	q Querier
}

// NewProductoRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductoRepository(q Querier) *ProductoRepo {
	return &ProductoRepo{q: q}
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductoRepo) GetByID(id string) (*entity.Producto, error) {
	query := `
		SELECT id, codigo, descripcion, stock_actual, precio, created_at, updated_at
		FROM productos WHERE id = $1`
	var p entity.Producto
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Codigo, &p.Descripcion, &p.StockActual, &p.Precio, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return &p, nil
}

// DescontarStock resta cantidad de stock_actual. Debe correr en la misma
// transacción que descuenta los lotes para mantener el derivado en sincronía.
func (r *ProductoRepo) DescontarStock(id string, cantidad decimal.Decimal) error {
	query := `
		UPDATE productos
		SET stock_actual = stock_actual - $2, updated_at = now()
		WHERE id = $1 AND stock_actual >= $2`
	tag, err := r.q.Exec(context.Background(), query, id, cantidad)
	if err != nil {
		return fmt.Errorf("descontar stock producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// ReponerStock suma cantidad a stock_actual.
func (r *ProductoRepo) ReponerStock(id string, cantidad decimal.Decimal) error {
	query := `
		UPDATE productos
		SET stock_actual = stock_actual + $2, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, cantidad)
	if err != nil {
		return fmt.Errorf("reponer stock producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reponer stock producto %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
