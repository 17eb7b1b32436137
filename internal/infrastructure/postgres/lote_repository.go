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

var _ repository.LoteRepository = (*LoteRepo)(nil)

// LoteRepo implementación del ledger de lotes sobre PostgreSQL (usable con pool o tx).
type LoteRepo struct {
	q Querier
}

// NewLoteRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLoteRepository(q Querier) *LoteRepo {
	return &LoteRepo{q: q}
}

// ListarDisponiblesForUpdate bloquea y devuelve los lotes con disponible de un
// producto. El ORDER BY (fecha_ingreso, codigo) fija tanto la política FIFO
// como el orden de adquisición de bloqueos entre transacciones concurrentes.
func (r *LoteRepo) ListarDisponiblesForUpdate(productoID string) ([]*entity.Lote, error) {
	query := `
		SELECT id, producto_id, codigo, cantidad_disponible, fecha_ingreso, updated_at
		FROM lotes
		WHERE producto_id = $1 AND cantidad_disponible > 0
		ORDER BY fecha_ingreso ASC, codigo ASC
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, productoID)
	if err != nil {
		return nil, fmt.Errorf("listar lotes for update: %w", err)
	}
	defer rows.Close()
	var lotes []*entity.Lote
	for rows.Next() {
		var l entity.Lote
		if err := rows.Scan(&l.ID, &l.ProductoID, &l.Codigo, &l.CantidadDisponible, &l.FechaIngreso, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		lotes = append(lotes, &l)
	}
	return lotes, rows.Err()
}

// GetForUpdate bloquea y devuelve un lote por código; (nil, nil) si no existe.
func (r *LoteRepo) GetForUpdate(productoID, codigo string) (*entity.Lote, error) {
	query := `
		SELECT id, producto_id, codigo, cantidad_disponible, fecha_ingreso, updated_at
		FROM lotes WHERE producto_id = $1 AND codigo = $2
		FOR UPDATE`
	var l entity.Lote
	err := r.q.QueryRow(context.Background(), query, productoID, codigo).Scan(
		&l.ID, &l.ProductoID, &l.Codigo, &l.CantidadDisponible, &l.FechaIngreso, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote for update: %w", err)
	}
	return &l, nil
}

// Descontar resta cantidad del disponible del lote. La guarda en el WHERE es la
// verificación autoritativa de no-negatividad: si no afecta filas, el disponible
// no alcanzaba.
func (r *LoteRepo) Descontar(productoID, codigo string, cantidad decimal.Decimal) error {
	query := `
		UPDATE lotes
		SET cantidad_disponible = cantidad_disponible - $3, updated_at = now()
		WHERE producto_id = $1 AND codigo = $2 AND cantidad_disponible >= $3`
	tag, err := r.q.Exec(context.Background(), query, productoID, codigo, cantidad)
	if err != nil {
		return fmt.Errorf("descontar lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// Reponer acredita cantidad al lote. Crédito puramente aditivo: no depende del
// disponible actual, solo de que el lote exista.
func (r *LoteRepo) Reponer(productoID, codigo string, cantidad decimal.Decimal) error {
	query := `
		UPDATE lotes
		SET cantidad_disponible = cantidad_disponible + $3, updated_at = now()
		WHERE producto_id = $1 AND codigo = $2`
	tag, err := r.q.Exec(context.Background(), query, productoID, codigo, cantidad)
	if err != nil {
		return fmt.Errorf("reponer lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reponer lote %s/%s: %w", productoID, codigo, domain.ErrNotFound)
	}
	return nil
}

// DisponibleTotal suma el disponible de todos los lotes del producto, sin bloquear.
func (r *LoteRepo) DisponibleTotal(productoID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(cantidad_disponible), 0)
		FROM lotes WHERE producto_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, productoID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("disponible total: %w", err)
	}
	return total, nil
}
