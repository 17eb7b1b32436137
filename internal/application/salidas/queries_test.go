package salidas_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salidas-api/internal/application/dto"
	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
)

func sembrarSalidas(t *testing.T, st *memStore) {
	t.Helper()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	st.agregarProducto("prod-1", nuevoLote("L1", 100, base))
	st.clientes["cli-1"] = &entity.Cliente{ID: "cli-1", Nombre: "Cliente Uno"}

	uc := buildUseCase(st)
	ctx := context.Background()
	precio := decimal.NewFromInt(100)

	for i := 0; i < 3; i++ {
		_, err := uc.CrearSalida(ctx, testUsuarioID, dto.CrearSalidaRequest{
			Tipo:      entity.TipoVenta,
			ClienteID: ptr("cli-1"),
			Detalles: []dto.DetalleSalidaRequest{
				{ProductoID: "prod-1", Cantidad: decimal.NewFromInt(2), PrecioUnitario: &precio},
			},
		})
		require.NoError(t, err)
	}
	resp, err := uc.CrearSalida(ctx, testUsuarioID, dto.CrearSalidaRequest{
		Tipo:     entity.TipoMaleta,
		Detalles: []dto.DetalleSalidaRequest{{ProductoID: "prod-1", Cantidad: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)
	require.NoError(t, uc.AnularSalida(ctx, resp.ID, testUsuarioID, "error de carga"))
}

func TestListarSalidas_FiltroPorTipo(t *testing.T) {
	st := newMemStore()
	sembrarSalidas(t, st)
	uc := buildUseCase(st)

	resp, err := uc.ListarSalidas(context.Background(), dto.ListarSalidasRequest{Tipo: entity.TipoVenta})
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Paginacion.Total)
	for _, s := range resp.Salidas {
		assert.Equal(t, entity.TipoVenta, s.Tipo)
	}
}

func TestListarSalidas_FiltroPorEstado(t *testing.T) {
	st := newMemStore()
	sembrarSalidas(t, st)
	uc := buildUseCase(st)

	resp, err := uc.ListarSalidas(context.Background(), dto.ListarSalidasRequest{Estado: entity.EstadoAnulada})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.Paginacion.Total)
	require.Len(t, resp.Salidas, 1)
	assert.Equal(t, entity.TipoMaleta, resp.Salidas[0].Tipo)
}

func TestListarSalidas_Paginacion(t *testing.T) {
	st := newMemStore()
	sembrarSalidas(t, st)
	uc := buildUseCase(st)

	resp, err := uc.ListarSalidas(context.Background(), dto.ListarSalidasRequest{Pagina: 1, Limite: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, resp.Paginacion.Total)
	assert.Len(t, resp.Salidas, 2)

	resp2, err := uc.ListarSalidas(context.Background(), dto.ListarSalidasRequest{Pagina: 3, Limite: 2})
	require.NoError(t, err)
	assert.Empty(t, resp2.Salidas, "página más allá del total queda vacía")
}

func TestListarSalidas_FiltrosInvalidos(t *testing.T) {
	st := newMemStore()
	uc := buildUseCase(st)
	ctx := context.Background()

	_, err := uc.ListarSalidas(ctx, dto.ListarSalidasRequest{Tipo: "entrada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ListarSalidas(ctx, dto.ListarSalidasRequest{Estado: "completada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ListarSalidas(ctx, dto.ListarSalidasRequest{FechaInicio: "01-03-2024"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ListarSalidas(ctx, dto.ListarSalidasRequest{Orden: "importe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestObtenerSalida_IncluyeAsignaciones(t *testing.T) {
	st := newMemStore()
	sembrarSalidas(t, st)
	uc := buildUseCase(st)

	lista, err := uc.ListarSalidas(context.Background(), dto.ListarSalidasRequest{Tipo: entity.TipoVenta})
	require.NoError(t, err)
	require.NotEmpty(t, lista.Salidas)

	salida, err := uc.ObtenerSalida(context.Background(), lista.Salidas[0].ID)
	require.NoError(t, err)
	require.Len(t, salida.Detalles, 1)
	assert.NotEmpty(t, salida.Detalles[0].Asignaciones, "el detalle expone su asignación resuelta")
}

func TestObtenerSalida_NoExiste(t *testing.T) {
	st := newMemStore()
	uc := buildUseCase(st)

	_, err := uc.ObtenerSalida(context.Background(), "salida-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEstadisticas(t *testing.T) {
	st := newMemStore()
	sembrarSalidas(t, st)
	uc := buildUseCase(st)

	stats, err := uc.Estadisticas(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalSalidas, "las anuladas no cuentan como activas")
	assert.EqualValues(t, 1, stats.TotalAnuladas)
	assert.True(t, stats.TotalUnidades.Equal(decimal.NewFromInt(6)), "2 unidades por cada venta activa")
	require.Len(t, stats.PorTipo, 1)
	assert.Equal(t, entity.TipoVenta, stats.PorTipo[0].Tipo)
	assert.True(t, stats.PorTipo[0].ImporteVenta.Equal(decimal.NewFromInt(600)))
}

func TestEstadisticas_TipoInvalido(t *testing.T) {
	st := newMemStore()
	uc := buildUseCase(st)

	_, err := uc.Estadisticas(context.Background(), "", "", "entrada")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
