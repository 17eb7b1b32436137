package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

var _ repository.SalidaRepository = (*SalidaRepo)(nil)

// SalidaRepo implementación de SalidaRepository sobre PostgreSQL (usable con pool o tx).
type SalidaRepo struct {
	q Querier
}

// NewSalidaRepository construye el adaptador de salidas. Pasar pool o tx (Querier).
func NewSalidaRepository(q Querier) *SalidaRepo {
	return &SalidaRepo{q: q}
}

var columnasSalida = []string{
	"id", "tipo_salida", "cliente_id", "maleta_id", "estado", "factura_id", "fecha",
	"usuario_id", "observaciones", "anulada_por", "fecha_anulacion", "motivo_anulacion", "created_at",
}

// Create persiste la cabecera y los detalles. Las asignaciones de cada detalle
// van como JSONB en la misma fila del detalle: quedan congeladas tal como se
// resolvieron, que es lo que la anulación necesita revertir.
func (r *SalidaRepo) Create(salida *entity.Salida) error {
	query := `
		INSERT INTO salidas (` + strings.Join(columnasSalida, ", ") + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		salida.ID, salida.Tipo, salida.ClienteID, salida.MaletaID, salida.Estado,
		salida.FacturaID, salida.Fecha, salida.UsuarioID, salida.Observaciones,
		salida.AnuladaPor, salida.FechaAnulacion, salida.MotivoAnulacion, salida.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create salida %s: %w", salida.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("create salida: %w", err)
	}

	detalleQuery := `
		INSERT INTO salida_detalles (id, salida_id, producto_id, lote, cantidad, precio_unitario, asignaciones)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, d := range salida.Detalles {
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		d.SalidaID = salida.ID
		asignaciones, err := json.Marshal(d.Asignaciones)
		if err != nil {
			return fmt.Errorf("marshal asignaciones: %w", err)
		}
		_, err = r.q.Exec(context.Background(), detalleQuery,
			d.ID, d.SalidaID, d.ProductoID, d.Lote, d.Cantidad, d.PrecioUnitario, asignaciones,
		)
		if err != nil {
			return fmt.Errorf("create detalle salida: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una salida con sus detalles; (nil, nil) si no existe.
func (r *SalidaRepo) GetByID(id string) (*entity.Salida, error) {
	return r.get(id, false)
}

// GetByIDForUpdate obtiene la salida bloqueando su cabecera (SELECT FOR UPDATE).
// Serializa anulaciones concurrentes: solo una transacción ve "procesada".
func (r *SalidaRepo) GetByIDForUpdate(id string) (*entity.Salida, error) {
	return r.get(id, true)
}

func (r *SalidaRepo) get(id string, forUpdate bool) (*entity.Salida, error) {
	query := `SELECT ` + strings.Join(columnasSalida, ", ") + ` FROM salidas WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var s entity.Salida
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Tipo, &s.ClienteID, &s.MaletaID, &s.Estado, &s.FacturaID, &s.Fecha,
		&s.UsuarioID, &s.Observaciones, &s.AnuladaPor, &s.FechaAnulacion, &s.MotivoAnulacion, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get salida: %w", err)
	}
	detalles, err := r.detallesDe([]string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Detalles = detalles[s.ID]
	return &s, nil
}

// MarcarAnulada registra la transición a anulada con actor, fecha y motivo.
func (r *SalidaRepo) MarcarAnulada(id, usuarioID string, motivo *string, fecha time.Time) error {
	query := `
		UPDATE salidas
		SET estado = $2, anulada_por = $3, fecha_anulacion = $4, motivo_anulacion = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, entity.EstadoAnulada, usuarioID, fecha, motivo)
	if err != nil {
		return fmt.Errorf("marcar anulada: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("marcar anulada %s: salida no encontrada", id)
	}
	return nil
}

// Listar aplica filtros y paginación; devuelve la página y el total sin paginar.
func (r *SalidaRepo) Listar(f repository.SalidaFiltros) ([]*entity.Salida, int64, error) {
	qb := squirrel.Select(columnasSalida...).
		From("salidas").
		PlaceholderFormat(squirrel.Dollar)
	qb = aplicarFiltros(qb, f)

	countQb := squirrel.Select("COUNT(*)").From("salidas").PlaceholderFormat(squirrel.Dollar)
	countQb = aplicarFiltros(countQb, f)
	countSQL, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int64
	if err := r.q.QueryRow(context.Background(), countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count salidas: %w", err)
	}

	direccion := "DESC"
	if strings.EqualFold(f.Direccion, "ASC") {
		direccion = "ASC"
	}
	orden := "fecha"
	switch f.Orden {
	case "tipo_salida", "estado":
		orden = f.Orden
	}
	qb = qb.OrderBy(fmt.Sprintf("%s %s", orden, direccion), "created_at DESC").
		Limit(uint64(f.Limite)).
		Offset(uint64((f.Pagina - 1) * f.Limite))

	listSQL, listArgs, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}
	rows, err := r.q.Query(context.Background(), listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("listar salidas: %w", err)
	}
	defer rows.Close()

	var salidas []*entity.Salida
	var ids []string
	for rows.Next() {
		var s entity.Salida
		if err := rows.Scan(
			&s.ID, &s.Tipo, &s.ClienteID, &s.MaletaID, &s.Estado, &s.FacturaID, &s.Fecha,
			&s.UsuarioID, &s.Observaciones, &s.AnuladaPor, &s.FechaAnulacion, &s.MotivoAnulacion, &s.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan salida: %w", err)
		}
		salidas = append(salidas, &s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	detalles, err := r.detallesDe(ids)
	if err != nil {
		return nil, 0, err
	}
	for _, s := range salidas {
		s.Detalles = detalles[s.ID]
	}
	return salidas, total, nil
}

func aplicarFiltros(qb squirrel.SelectBuilder, f repository.SalidaFiltros) squirrel.SelectBuilder {
	if f.Tipo != "" {
		qb = qb.Where(squirrel.Eq{"tipo_salida": f.Tipo})
	}
	if f.Estado != "" {
		qb = qb.Where(squirrel.Eq{"estado": f.Estado})
	}
	if f.ClienteID != nil {
		qb = qb.Where(squirrel.Eq{"cliente_id": *f.ClienteID})
	}
	if f.MaletaID != nil {
		qb = qb.Where(squirrel.Eq{"maleta_id": *f.MaletaID})
	}
	if f.FechaInicio != nil {
		qb = qb.Where("fecha >= ?", *f.FechaInicio)
	}
	if f.FechaFin != nil {
		qb = qb.Where("fecha <= ?", *f.FechaFin)
	}
	if f.PendientesFacturar {
		qb = qb.Where(squirrel.Eq{"estado": entity.EstadoProcesada}).Where("factura_id IS NULL")
	}
	if f.Buscar != "" {
		qb = qb.Where("observaciones ILIKE ?", "%"+f.Buscar+"%")
	}
	return qb
}

// Estadisticas agrega las salidas del período por tipo. Las anuladas solo
// cuentan en TotalAnuladas; el resto de agregados considera solo activas.
func (r *SalidaRepo) Estadisticas(f repository.EstadisticasFiltros) (*repository.EstadisticasSalidas, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if f.FechaInicio != nil {
		where += fmt.Sprintf(" AND s.fecha >= $%d", pos)
		args = append(args, *f.FechaInicio)
		pos++
	}
	if f.FechaFin != nil {
		where += fmt.Sprintf(" AND s.fecha <= $%d", pos)
		args = append(args, *f.FechaFin)
		pos++
	}
	if f.Tipo != "" {
		where += fmt.Sprintf(" AND s.tipo_salida = $%d", pos)
		args = append(args, f.Tipo)
		pos++
	}

	stats := &repository.EstadisticasSalidas{}
	// El JOIN multiplica cabeceras por detalle; contar salidas distintas.
	resumen := `
		SELECT
			COUNT(DISTINCT s.id) FILTER (WHERE s.estado <> 'anulada'),
			COUNT(DISTINCT s.id) FILTER (WHERE s.estado = 'anulada'),
			COALESCE(SUM(d.cantidad) FILTER (WHERE s.estado <> 'anulada'), 0)
		FROM salidas s
		LEFT JOIN salida_detalles d ON d.salida_id = s.id` + where
	err := r.q.QueryRow(context.Background(), resumen, args...).Scan(
		&stats.TotalSalidas, &stats.TotalAnuladas, &stats.TotalUnidades,
	)
	if err != nil {
		return nil, fmt.Errorf("estadisticas resumen: %w", err)
	}

	porTipo := `
		SELECT
			s.tipo_salida,
			COUNT(DISTINCT s.id),
			COALESCE(SUM(d.cantidad), 0),
			COALESCE(SUM(d.cantidad * COALESCE(d.precio_unitario, 0)), 0)
		FROM salidas s
		LEFT JOIN salida_detalles d ON d.salida_id = s.id` + where + `
		AND s.estado <> 'anulada'
		GROUP BY s.tipo_salida
		ORDER BY s.tipo_salida`
	rows, err := r.q.Query(context.Background(), porTipo, args...)
	if err != nil {
		return nil, fmt.Errorf("estadisticas por tipo: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pt repository.EstadisticasPorTipo
		if err := rows.Scan(&pt.Tipo, &pt.Total, &pt.Unidades, &pt.ImporteVenta); err != nil {
			return nil, fmt.Errorf("scan estadisticas: %w", err)
		}
		stats.PorTipo = append(stats.PorTipo, pt)
	}
	return stats, rows.Err()
}

// detallesDe carga los detalles de un conjunto de salidas en una sola consulta.
func (r *SalidaRepo) detallesDe(salidaIDs []string) (map[string][]*entity.DetalleSalida, error) {
	result := make(map[string][]*entity.DetalleSalida, len(salidaIDs))
	if len(salidaIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT id, salida_id, producto_id, lote, cantidad, precio_unitario, asignaciones
		FROM salida_detalles
		WHERE salida_id = ANY($1)
		ORDER BY salida_id, id`
	rows, err := r.q.Query(context.Background(), query, salidaIDs)
	if err != nil {
		return nil, fmt.Errorf("listar detalles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.DetalleSalida
		var asignaciones []byte
		if err := rows.Scan(&d.ID, &d.SalidaID, &d.ProductoID, &d.Lote, &d.Cantidad, &d.PrecioUnitario, &asignaciones); err != nil {
			return nil, fmt.Errorf("scan detalle: %w", err)
		}
		if len(asignaciones) > 0 {
			if err := json.Unmarshal(asignaciones, &d.Asignaciones); err != nil {
				return nil, fmt.Errorf("unmarshal asignaciones: %w", err)
			}
		}
		result[d.SalidaID] = append(result[d.SalidaID], &d)
	}
	return result, rows.Err()
}
