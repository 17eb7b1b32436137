package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/salidas-api/internal/domain/entity"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

var _ repository.MaletaRepository = (*MaletaRepo)(nil)

// MaletaRepo implementación de MaletaRepository sobre PostgreSQL.
type MaletaRepo struct {
	q Querier
}

// NewMaletaRepository construye el adaptador de maletas.
func NewMaletaRepository(q Querier) *MaletaRepo {
	return &MaletaRepo{q: q}
}

// GetByID obtiene una maleta por ID; (nil, nil) si no existe.
func (r *MaletaRepo) GetByID(id string) (*entity.Maleta, error) {
	query := `
		SELECT id, nombre, vendedor_id, descripcion, created_at, updated_at
		FROM maletas WHERE id = $1`
	var m entity.Maleta
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.Nombre, &m.VendedorID, &m.Descripcion, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get maleta: %w", err)
	}
	return &m, nil
}
