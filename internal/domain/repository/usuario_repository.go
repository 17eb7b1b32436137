package repository

import "github.com/jhoicas/salidas-api/internal/domain/entity"

// UsuarioRepository consulta de usuarios para autenticación.
type UsuarioRepository interface {
	GetByID(id string) (*entity.Usuario, error)
	FindByEmail(email string) (*entity.Usuario, error)
}
