package salidas

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salidas-api/internal/application/dto"
	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
	domsalidas "github.com/jhoicas/salidas-api/internal/domain/salidas"
)

const maxObservaciones = 500

// UseCase orquesta el motor de salidas: asignador FIFO + ledger de lotes +
// máquina de estados, bajo una única transacción por operación (crear/anular).
type UseCase struct {
	txRunner     TxRunner
	salidaRepo   repository.SalidaRepository
	loteRepo     repository.LoteRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	maletaRepo   repository.MaletaRepository
}

// NewUseCase construye el caso de uso. Los repos sueltos (fuera del TxRunner)
// se usan solo para lecturas previas a la transacción.
func NewUseCase(
	txRunner TxRunner,
	salidaRepo repository.SalidaRepository,
	loteRepo repository.LoteRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	maletaRepo repository.MaletaRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		salidaRepo:   salidaRepo,
		loteRepo:     loteRepo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		maletaRepo:   maletaRepo,
	}
}

// CrearSalida valida colaboradores (producto, cliente, maleta), hace un
// pre-chequeo informativo de stock y luego, en una sola transacción: resuelve
// la asignación de cada detalle (lote explícito o FIFO), descuenta los lotes y
// el stock derivado del producto, y persiste cabecera + detalles con sus
// asignaciones. La salida nace "procesada". Si cualquier línea falla, la
// operación completa se revierte: nunca es observable un descuento parcial.
func (uc *UseCase) CrearSalida(ctx context.Context, usuarioID string, in dto.CrearSalidaRequest) (*dto.SalidaResponse, error) {
	if err := uc.validarEntrada(usuarioID, in); err != nil {
		return nil, err
	}
	if err := uc.validarColaboradores(in); err != nil {
		return nil, err
	}

	// Pre-chequeo informativo por producto: rechaza temprano lo imposible sin
	// abrir transacción. La verificación autoritativa es la del ledger bajo
	// bloqueo de fila, dentro de la transacción.
	if err := uc.prechequeoStock(in.Detalles); err != nil {
		return nil, err
	}

	now := time.Now()
	salida := &entity.Salida{
		ID:            uuid.New().String(),
		Tipo:          in.Tipo,
		ClienteID:     normalizarRef(in.ClienteID),
		MaletaID:      normalizarRef(in.MaletaID),
		Estado:        entity.EstadoProcesada,
		Fecha:         now,
		UsuarioID:     usuarioID,
		Observaciones: in.Observaciones,
		CreatedAt:     now,
	}

	err := uc.txRunner.Run(ctx, func(
		salidaRepo repository.SalidaRepository,
		loteRepo repository.LoteRepository,
		productoRepo repository.ProductoRepository,
	) error {
		for _, d := range in.Detalles {
			detalle, err := uc.reservarDetalle(loteRepo, productoRepo, salida.ID, d)
			if err != nil {
				return err
			}
			salida.Detalles = append(salida.Detalles, detalle)
		}
		return salidaRepo.Create(salida)
	})
	if err != nil {
		return nil, err
	}
	return toSalidaResponse(salida), nil
}

// reservarDetalle resuelve y aplica la asignación de una línea dentro de la
// transacción: bloquea los lotes involucrados, descuenta cada asignación y
// mantiene stock_actual del producto en sincronía con sus lotes.
func (uc *UseCase) reservarDetalle(
	loteRepo repository.LoteRepository,
	productoRepo repository.ProductoRepository,
	salidaID string,
	d dto.DetalleSalidaRequest,
) (*entity.DetalleSalida, error) {
	var asignaciones []entity.Asignacion
	var err error

	if d.Lote != "" {
		// Lote explícito: autoritativo, sin fallback.
		lote, lerr := loteRepo.GetForUpdate(d.ProductoID, d.Lote)
		if lerr != nil {
			return nil, lerr
		}
		asignaciones, err = domsalidas.AsignarLoteEspecifico(d.ProductoID, lote, d.Lote, d.Cantidad)
	} else {
		lotes, lerr := loteRepo.ListarDisponiblesForUpdate(d.ProductoID)
		if lerr != nil {
			return nil, lerr
		}
		asignaciones, err = domsalidas.Asignar(d.ProductoID, lotes, d.Cantidad)
	}
	if err != nil {
		return nil, err
	}

	for _, a := range asignaciones {
		if err := loteRepo.Descontar(d.ProductoID, a.Lote, a.Cantidad); err != nil {
			return nil, err
		}
	}
	if err := productoRepo.DescontarStock(d.ProductoID, d.Cantidad); err != nil {
		return nil, err
	}

	return &entity.DetalleSalida{
		ID:             uuid.New().String(),
		SalidaID:       salidaID,
		ProductoID:     d.ProductoID,
		Lote:           d.Lote,
		Cantidad:       d.Cantidad,
		PrecioUnitario: d.PrecioUnitario,
		Asignaciones:   asignaciones,
	}, nil
}

func (uc *UseCase) validarEntrada(usuarioID string, in dto.CrearSalidaRequest) error {
	if usuarioID == "" {
		return domain.ErrInvalidInput
	}
	if !entity.TipoSalidaValido(in.Tipo) {
		return domain.ErrInvalidInput
	}
	if len(in.Detalles) == 0 {
		return domain.ErrInvalidInput
	}
	if len(in.Observaciones) > maxObservaciones {
		return domain.ErrInvalidInput
	}
	for _, d := range in.Detalles {
		if d.ProductoID == "" || !d.Cantidad.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if d.PrecioUnitario != nil && d.PrecioUnitario.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// validarColaboradores verifica existencia de cliente, maleta y productos
// referenciados. Lecturas fuera de la transacción: son colaboradores externos
// del motor y no participan del bloqueo de lotes.
func (uc *UseCase) validarColaboradores(in dto.CrearSalidaRequest) error {
	if ref := normalizarRef(in.ClienteID); ref != nil {
		cliente, err := uc.clienteRepo.GetByID(*ref)
		if err != nil {
			return err
		}
		if cliente == nil {
			return domain.ErrNotFound
		}
	}
	if ref := normalizarRef(in.MaletaID); ref != nil {
		maleta, err := uc.maletaRepo.GetByID(*ref)
		if err != nil {
			return err
		}
		if maleta == nil {
			return domain.ErrNotFound
		}
	}
	for _, d := range in.Detalles {
		producto, err := uc.productoRepo.GetByID(d.ProductoID)
		if err != nil {
			return err
		}
		if producto == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (uc *UseCase) prechequeoStock(detalles []dto.DetalleSalidaRequest) error {
	// Suma lo pedido por producto: varias líneas pueden compartir producto.
	porProducto := make(map[string]decimal.Decimal)
	orden := make([]string, 0, len(detalles))
	for _, d := range detalles {
		if _, ok := porProducto[d.ProductoID]; !ok {
			orden = append(orden, d.ProductoID)
		}
		porProducto[d.ProductoID] = porProducto[d.ProductoID].Add(d.Cantidad)
	}
	for _, productoID := range orden {
		disponible, err := uc.loteRepo.DisponibleTotal(productoID)
		if err != nil {
			return err
		}
		if disponible.LessThan(porProducto[productoID]) {
			return &domain.InsufficientStockError{
				ProductoID: productoID,
				Solicitada: porProducto[productoID],
				Disponible: disponible,
			}
		}
	}
	return nil
}

func normalizarRef(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	return ref
}
