package salidas_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salidas-api/internal/application/dto"
	appsalidas "github.com/jhoicas/salidas-api/internal/application/salidas"
	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
)

const testAnuladorID = "00000000-0000-0000-0000-000000000099"

func crearSalidaDePrueba(t *testing.T, uc *appsalidas.UseCase) string {
	t.Helper()
	resp, err := uc.CrearSalida(context.Background(), testUsuarioID, dto.CrearSalidaRequest{
		Tipo: entity.TipoVenta,
		Detalles: []dto.DetalleSalidaRequest{
			{ProductoID: "prod-1", Cantidad: decimal.NewFromInt(6)},
		},
	})
	require.NoError(t, err)
	return resp.ID
}

func TestAnularSalida_ReversionExacta(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	st := newMemStore()
	st.agregarProducto("prod-1",
		nuevoLote("L1", 4, base.AddDate(0, 0, 1)),
		nuevoLote("L2", 10, base.AddDate(0, 0, 2)),
	)
	uc := buildUseCase(st)

	id := crearSalidaDePrueba(t, uc)
	require.True(t, disponibleDe(st, "prod-1", "L1").IsZero())
	require.True(t, disponibleDe(st, "prod-1", "L2").Equal(decimal.NewFromInt(8)))

	err := uc.AnularSalida(context.Background(), id, testAnuladorID, "devolución del cliente")
	require.NoError(t, err)

	// Cada lote vuelve exactamente a su cantidad previa a la creación.
	assert.True(t, disponibleDe(st, "prod-1", "L1").Equal(decimal.NewFromInt(4)))
	assert.True(t, disponibleDe(st, "prod-1", "L2").Equal(decimal.NewFromInt(10)))
	verificarInvariante(t, st)

	salida, err := uc.ObtenerSalida(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoAnulada, salida.Estado)
	require.NotNil(t, salida.AnuladaPor)
	assert.Equal(t, testAnuladorID, *salida.AnuladaPor)
	require.NotNil(t, salida.MotivoAnulacion)
	assert.Equal(t, "devolución del cliente", *salida.MotivoAnulacion)
	assert.NotNil(t, salida.FechaAnulacion)
}

func TestAnularSalida_ReversionConActividadPosterior(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	st := newMemStore()
	st.agregarProducto("prod-1", nuevoLote("L1", 10, base))
	uc := buildUseCase(st)
	ctx := context.Background()

	// Primera salida toma 4; una segunda toma 3 más. Anular la primera repone
	// exactamente sus 4, aunque el disponible cambió después de crearla.
	primera, err := uc.CrearSalida(ctx, testUsuarioID, dto.CrearSalidaRequest{
		Tipo:     entity.TipoVenta,
		Detalles: []dto.DetalleSalidaRequest{{ProductoID: "prod-1", Cantidad: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)
	_, err = uc.CrearSalida(ctx, testUsuarioID, dto.CrearSalidaRequest{
		Tipo:     entity.TipoVenta,
		Detalles: []dto.DetalleSalidaRequest{{ProductoID: "prod-1", Cantidad: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)
	require.True(t, disponibleDe(st, "prod-1", "L1").Equal(decimal.NewFromInt(3)))

	require.NoError(t, uc.AnularSalida(ctx, primera.ID, testAnuladorID, ""))
	assert.True(t, disponibleDe(st, "prod-1", "L1").Equal(decimal.NewFromInt(7)))
	verificarInvariante(t, st)
}

func TestAnularSalida_SegundaVezRechazada(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	st := newMemStore()
	st.agregarProducto("prod-1", nuevoLote("L1", 10, base))
	uc := buildUseCase(st)
	ctx := context.Background()

	id := crearSalidaDePrueba(t, uc)
	require.NoError(t, uc.AnularSalida(ctx, id, testAnuladorID, ""))
	despuesPrimera := disponibleDe(st, "prod-1", "L1")

	err := uc.AnularSalida(ctx, id, testAnuladorID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "la segunda anulación debe rechazarse")
	assert.True(t, disponibleDe(st, "prod-1", "L1").Equal(despuesPrimera),
		"la segunda anulación no debe acreditar stock de nuevo")
	verificarInvariante(t, st)
}

func TestAnularSalida_FacturadaBloqueada(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	st := newMemStore()
	st.agregarProducto("prod-1", nuevoLote("L1", 10, base))
	uc := buildUseCase(st)
	ctx := context.Background()

	id := crearSalidaDePrueba(t, uc)

	// Facturación externa fija factura_id: la salida queda inmutable.
	st.mu.Lock()
	facturaID := "fac-001"
	st.salidas[id].FacturaID = &facturaID
	st.mu.Unlock()

	antes := disponibleDe(st, "prod-1", "L1")
	err := uc.AnularSalida(ctx, id, testAnuladorID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.True(t, disponibleDe(st, "prod-1", "L1").Equal(antes),
		"anular una salida facturada no debe mutar el ledger")

	salida, err := uc.ObtenerSalida(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoProcesada, salida.Estado)
}

func TestAnularSalida_NoExiste(t *testing.T) {
	st := newMemStore()
	uc := buildUseCase(st)

	err := uc.AnularSalida(context.Background(), "salida-fantasma", testAnuladorID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOperacionesNoSoportadas(t *testing.T) {
	st := newMemStore()
	uc := buildUseCase(st)
	ctx := context.Background()

	assert.ErrorIs(t, uc.ActualizarSalida(ctx, "x"), domain.ErrUnsupported)
	assert.ErrorIs(t, uc.CompletarSalida(ctx, "x"), domain.ErrUnsupported)
	assert.ErrorIs(t, uc.EliminarSalida(ctx, "x"), domain.ErrUnsupported)
	assert.ErrorIs(t, uc.DuplicarSalida(ctx, "x"), domain.ErrUnsupported)
	assert.ErrorIs(t, uc.GenerarReporte(ctx), domain.ErrUnsupported)
}
