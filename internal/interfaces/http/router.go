package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salidas-api/internal/application/auth"
	"github.com/jhoicas/salidas-api/internal/application/salidas"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SalidasUC *salidas.UseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Las mutaciones de salidas quedan para
// admin/bodeguero/facturador; vendedor solo consulta.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	operadores := RequireRole(entity.RolAdmin, entity.RolBodeguero, entity.RolFacturador)
	lectores := RequireRole(entity.RolAdmin, entity.RolBodeguero, entity.RolFacturador, entity.RolVendedor)

	salidasGroup := protected.Group("/salidas")
	salidaHandler := NewSalidaHandler(deps.SalidasUC)

	salidasGroup.Get("/", lectores, salidaHandler.Listar)
	salidasGroup.Get("/estadisticas", lectores, salidaHandler.Estadisticas)
	salidasGroup.Get("/reporte", lectores, salidaHandler.Reporte)
	salidasGroup.Get("/:id", lectores, salidaHandler.Obtener)

	salidasGroup.Post("/", operadores, salidaHandler.Crear)
	salidasGroup.Patch("/:id/cancelar", operadores, salidaHandler.Anular)

	// Operaciones heredadas no soportadas: responden 501 explícito.
	salidasGroup.Put("/:id", operadores, salidaHandler.Actualizar)
	salidasGroup.Patch("/:id/completar", operadores, salidaHandler.Completar)
	salidasGroup.Delete("/:id", operadores, salidaHandler.Eliminar)
	salidasGroup.Post("/:id/duplicar", operadores, salidaHandler.Duplicar)
}
