package repository

import "github.com/jhoicas/salidas-api/internal/domain/entity"

// MaletaRepository consulta de maletas (colaborador externo, solo lectura
// desde el motor de salidas).
type MaletaRepository interface {
	GetByID(id string) (*entity.Maleta, error)
}
