package salidas

import (
	"context"
	"time"

	"github.com/jhoicas/salidas-api/internal/application/dto"
	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

// Modelo de lectura: consultas fuera del camino crítico de consistencia.
// Leen el mismo almacenamiento pero nunca mutan el ledger.

const (
	defaultLimite = 20
	maxLimite     = 100
)

// ObtenerSalida devuelve una salida con sus detalles y asignaciones.
func (uc *UseCase) ObtenerSalida(ctx context.Context, id string) (*dto.SalidaResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	salida, err := uc.salidaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if salida == nil {
		return nil, domain.ErrNotFound
	}
	return toSalidaResponse(salida), nil
}

// ListarSalidas aplica filtros y paginación sobre el listado.
func (uc *UseCase) ListarSalidas(ctx context.Context, in dto.ListarSalidasRequest) (*dto.ListarSalidasResponse, error) {
	filtros, err := toFiltros(in)
	if err != nil {
		return nil, err
	}
	lista, total, err := uc.salidaRepo.Listar(filtros)
	if err != nil {
		return nil, err
	}
	resp := &dto.ListarSalidasResponse{
		Salidas: make([]dto.SalidaResponse, 0, len(lista)),
		Paginacion: dto.PageResponse{
			Pagina: filtros.Pagina,
			Limite: filtros.Limite,
			Total:  total,
		},
	}
	for _, s := range lista {
		resp.Salidas = append(resp.Salidas, *toSalidaResponse(s))
	}
	return resp, nil
}

// Estadisticas agrega las salidas del período por tipo.
func (uc *UseCase) Estadisticas(ctx context.Context, fechaInicio, fechaFin, tipo string) (*dto.EstadisticasResponse, error) {
	var filtros repository.EstadisticasFiltros
	var err error
	if filtros.FechaInicio, err = parseFecha(fechaInicio); err != nil {
		return nil, err
	}
	if filtros.FechaFin, err = parseFecha(fechaFin); err != nil {
		return nil, err
	}
	if tipo != "" && !entity.TipoSalidaValido(tipo) {
		return nil, domain.ErrInvalidInput
	}
	filtros.Tipo = tipo

	stats, err := uc.salidaRepo.Estadisticas(filtros)
	if err != nil {
		return nil, err
	}
	resp := &dto.EstadisticasResponse{
		TotalSalidas:  stats.TotalSalidas,
		TotalAnuladas: stats.TotalAnuladas,
		TotalUnidades: stats.TotalUnidades,
		PorTipo:       make([]dto.EstadisticasTipoResponse, 0, len(stats.PorTipo)),
	}
	for _, pt := range stats.PorTipo {
		resp.PorTipo = append(resp.PorTipo, dto.EstadisticasTipoResponse{
			Tipo:         pt.Tipo,
			Total:        pt.Total,
			Unidades:     pt.Unidades,
			ImporteVenta: pt.ImporteVenta,
		})
	}
	return resp, nil
}

func toFiltros(in dto.ListarSalidasRequest) (repository.SalidaFiltros, error) {
	f := repository.SalidaFiltros{
		Tipo:               in.Tipo,
		Estado:             in.Estado,
		Buscar:             in.Buscar,
		PendientesFacturar: in.PendientesFacturar,
		Pagina:             in.Pagina,
		Limite:             in.Limite,
		Orden:              in.Orden,
		Direccion:          in.Direccion,
	}
	if f.Tipo != "" && !entity.TipoSalidaValido(f.Tipo) {
		return f, domain.ErrInvalidInput
	}
	switch f.Estado {
	case "", entity.EstadoPendiente, entity.EstadoProcesada, entity.EstadoAnulada:
	default:
		return f, domain.ErrInvalidInput
	}
	if in.ClienteID != "" {
		f.ClienteID = &in.ClienteID
	}
	if in.MaletaID != "" {
		f.MaletaID = &in.MaletaID
	}
	var err error
	if f.FechaInicio, err = parseFecha(in.FechaInicio); err != nil {
		return f, err
	}
	if f.FechaFin, err = parseFecha(in.FechaFin); err != nil {
		return f, err
	}
	if f.Pagina <= 0 {
		f.Pagina = 1
	}
	if f.Limite <= 0 {
		f.Limite = defaultLimite
	}
	if f.Limite > maxLimite {
		f.Limite = maxLimite
	}
	switch f.Orden {
	case "":
		f.Orden = "fecha"
	case "fecha", "tipo_salida", "estado":
	default:
		return f, domain.ErrInvalidInput
	}
	switch f.Direccion {
	case "":
		f.Direccion = "DESC"
	case "ASC", "DESC", "asc", "desc":
	default:
		return f, domain.ErrInvalidInput
	}
	return f, nil
}

func parseFecha(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &t, nil
}

func toSalidaResponse(s *entity.Salida) *dto.SalidaResponse {
	resp := &dto.SalidaResponse{
		ID:              s.ID,
		Tipo:            s.Tipo,
		ClienteID:       s.ClienteID,
		MaletaID:        s.MaletaID,
		Estado:          s.Estado,
		FacturaID:       s.FacturaID,
		Fecha:           s.Fecha,
		UsuarioID:       s.UsuarioID,
		Observaciones:   s.Observaciones,
		AnuladaPor:      s.AnuladaPor,
		FechaAnulacion:  s.FechaAnulacion,
		MotivoAnulacion: s.MotivoAnulacion,
		Detalles:        make([]dto.DetalleSalidaResponse, 0, len(s.Detalles)),
	}
	for _, d := range s.Detalles {
		dr := dto.DetalleSalidaResponse{
			ID:             d.ID,
			ProductoID:     d.ProductoID,
			Lote:           d.Lote,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Asignaciones:   make([]dto.AsignacionResponse, 0, len(d.Asignaciones)),
		}
		for _, a := range d.Asignaciones {
			dr.Asignaciones = append(dr.Asignaciones, dto.AsignacionResponse{Lote: a.Lote, Cantidad: a.Cantidad})
		}
		resp.Detalles = append(resp.Detalles, dr)
	}
	return resp
}
