package repository

import "github.com/jhoicas/salidas-api/internal/domain/entity"

// ClienteRepository consulta de clientes (colaborador externo, solo lectura
// desde el motor de salidas).
type ClienteRepository interface {
	GetByID(id string) (*entity.Cliente, error)
}
