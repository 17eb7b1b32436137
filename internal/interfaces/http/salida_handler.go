package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salidas-api/internal/application/dto"
	"github.com/jhoicas/salidas-api/internal/application/salidas"
	"github.com/jhoicas/salidas-api/internal/domain"
)

// SalidaHandler maneja las peticiones HTTP de salidas (protegido).
type SalidaHandler struct {
	uc *salidas.UseCase
}

// NewSalidaHandler construye el handler.
func NewSalidaHandler(uc *salidas.UseCase) *SalidaHandler {
	return &SalidaHandler{uc: uc}
}

// errorResponse traduce la taxonomía de errores de dominio a códigos HTTP.
// Conflictos de estado, stock y concurrencia van todos por 409.
func errorResponse(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":        "INSUFFICIENT_STOCK",
			"message":     "stock insuficiente",
			"producto_id": stockErr.ProductoID,
			"lote":        stockErr.Lote,
			"solicitada":  stockErr.Solicitada,
			"disponible":  stockErr.Disponible,
			"faltante":    stockErr.Faltante(),
		})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "la salida no admite esta operación en su estado actual"})
	case errors.Is(err, domain.ErrContention):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONTENTION", Message: "conflicto de concurrencia, reintente la operación"})
	case errors.Is(err, domain.ErrUnsupported):
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "UNSUPPORTED", Message: "operación no soportada"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Crear godoc
// @Summary      Crear salida de inventario
// @Description  Crea la salida, asigna lotes FIFO y descuenta stock en una sola transacción.
// @Tags         salidas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearSalidaRequest  true  "tipo_salida, detalles; cliente_id (venta/consignacion), maleta_id (maleta)"
// @Success      201   {object}  dto.SalidaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/salidas [post]
func (h *SalidaHandler) Crear(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CrearSalidaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.CrearSalida(c.Context(), userID, in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Anular godoc
// @Summary      Anular salida
// @Description  Revierte las asignaciones de la salida y la marca anulada. Las facturadas no se pueden anular.
// @Tags         salidas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID de la salida"
// @Param        body  body  dto.AnularSalidaRequest  false  "motivo_cancelacion"
// @Success      200   {object}  dto.SalidaResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/salidas/{id}/cancelar [patch]
func (h *SalidaHandler) Anular(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	var in dto.AnularSalidaRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if err := h.uc.AnularSalida(c.Context(), id, userID, in.Motivo); err != nil {
		return errorResponse(c, err)
	}
	salida, err := h.uc.ObtenerSalida(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(salida)
}

// Obtener godoc
// @Summary      Obtener salida por ID
// @Tags         salidas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la salida"
// @Success      200  {object}  dto.SalidaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/salidas/{id} [get]
func (h *SalidaHandler) Obtener(c *fiber.Ctx) error {
	salida, err := h.uc.ObtenerSalida(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(salida)
}

// Listar godoc
// @Summary      Listar salidas
// @Tags         salidas
// @Security     Bearer
// @Produce      json
// @Param        pagina               query  int     false  "Página (desde 1)"
// @Param        limite               query  int     false  "Tamaño de página (máx 100)"
// @Param        tipo_salida          query  string  false  "venta | consignacion | maleta | ajuste | baja"
// @Param        estado               query  string  false  "pendiente | procesada | anulada"
// @Param        cliente_id           query  string  false  "Filtrar por cliente"
// @Param        maleta_id            query  string  false  "Filtrar por maleta"
// @Param        fecha_inicio         query  string  false  "YYYY-MM-DD"
// @Param        fecha_fin            query  string  false  "YYYY-MM-DD"
// @Param        pendientes_facturar  query  bool    false  "Solo procesadas sin factura"
// @Param        buscar               query  string  false  "Busca en observaciones"
// @Success      200  {object}  dto.ListarSalidasResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/salidas [get]
func (h *SalidaHandler) Listar(c *fiber.Ctx) error {
	var in dto.ListarSalidasRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query params inválidos"})
	}
	resp, err := h.uc.ListarSalidas(c.Context(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// Estadisticas godoc
// @Summary      Estadísticas de salidas
// @Tags         salidas
// @Security     Bearer
// @Produce      json
// @Param        fecha_inicio  query  string  false  "YYYY-MM-DD"
// @Param        fecha_fin     query  string  false  "YYYY-MM-DD"
// @Param        tipo_salida   query  string  false  "Filtrar por tipo"
// @Success      200  {object}  dto.EstadisticasResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/salidas/estadisticas [get]
func (h *SalidaHandler) Estadisticas(c *fiber.Ctx) error {
	resp, err := h.uc.Estadisticas(c.Context(),
		c.Query("fecha_inicio"), c.Query("fecha_fin"), c.Query("tipo_salida"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// Las operaciones heredadas del CRUD genérico no están soportadas por el motor
// de consistencia; fallan explícito con 501 en vez de fingir éxito.

// Actualizar PUT /api/salidas/:id (no soportado).
func (h *SalidaHandler) Actualizar(c *fiber.Ctx) error {
	return errorResponse(c, h.uc.ActualizarSalida(c.Context(), c.Params("id")))
}

// Completar PATCH /api/salidas/:id/completar (no soportado).
func (h *SalidaHandler) Completar(c *fiber.Ctx) error {
	return errorResponse(c, h.uc.CompletarSalida(c.Context(), c.Params("id")))
}

// Eliminar DELETE /api/salidas/:id (no soportado).
func (h *SalidaHandler) Eliminar(c *fiber.Ctx) error {
	return errorResponse(c, h.uc.EliminarSalida(c.Context(), c.Params("id")))
}

// Duplicar POST /api/salidas/:id/duplicar (no soportado).
func (h *SalidaHandler) Duplicar(c *fiber.Ctx) error {
	return errorResponse(c, h.uc.DuplicarSalida(c.Context(), c.Params("id")))
}

// Reporte GET /api/salidas/reporte (no soportado).
func (h *SalidaHandler) Reporte(c *fiber.Ctx) error {
	return errorResponse(c, h.uc.GenerarReporte(c.Context()))
}
