package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/salidas-api/internal/application/salidas"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

// Ensure TxRunner implements salidas.TxRunner.
var _ salidas.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit
// o Rollback. Los conflictos transaccionales (serialization failure, deadlock)
// se traducen a domain.ErrContention.
func (r *TxRunner) Run(ctx context.Context, fn func(
	salidaRepo repository.SalidaRepository,
	loteRepo repository.LoteRepository,
	productoRepo repository.ProductoRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	salidaRepo := NewSalidaRepository(tx)
	loteRepo := NewLoteRepository(tx)
	productoRepo := NewProductoRepository(tx)

	if err := fn(salidaRepo, loteRepo, productoRepo); err != nil {
		return mapTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
