package salidas_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/salidas-api/internal/domain"
	"github.com/jhoicas/salidas-api/internal/domain/entity"
	"github.com/jhoicas/salidas-api/internal/domain/repository"
)

// Doble en memoria del almacenamiento. El TxRunner falso toma el mutex durante
// todo Run (equivalente a serializar las transacciones, el peor caso del
// bloqueo de filas) y restaura un snapshot si fn devuelve error, emulando el
// rollback. Los repos "externos" (fuera de transacción) toman el mutex por
// llamada; los repos atados a la tx operan sin bloquear porque Run ya lo tiene.

type memStore struct {
	mu        sync.Mutex
	lotes     map[string][]*entity.Lote // productoID -> lotes
	productos map[string]*entity.Producto
	clientes  map[string]*entity.Cliente
	maletas   map[string]*entity.Maleta
	salidas   map[string]*entity.Salida
}

func newMemStore() *memStore {
	return &memStore{
		lotes:     make(map[string][]*entity.Lote),
		productos: make(map[string]*entity.Producto),
		clientes:  make(map[string]*entity.Cliente),
		maletas:   make(map[string]*entity.Maleta),
		salidas:   make(map[string]*entity.Salida),
	}
}

func (st *memStore) agregarProducto(id string, lotes ...*entity.Lote) {
	total := decimal.Zero
	for _, l := range lotes {
		l.ProductoID = id
		total = total.Add(l.CantidadDisponible)
	}
	st.productos[id] = &entity.Producto{ID: id, Descripcion: "producto " + id, StockActual: total}
	st.lotes[id] = lotes
}

func (st *memStore) snapshot() *memStore {
	cp := newMemStore()
	for pid, lotes := range st.lotes {
		for _, l := range lotes {
			c := *l
			cp.lotes[pid] = append(cp.lotes[pid], &c)
		}
	}
	for id, p := range st.productos {
		c := *p
		cp.productos[id] = &c
	}
	for id, cl := range st.clientes {
		c := *cl
		cp.clientes[id] = &c
	}
	for id, m := range st.maletas {
		c := *m
		cp.maletas[id] = &c
	}
	for id, s := range st.salidas {
		cp.salidas[id] = cloneSalida(s)
	}
	return cp
}

func (st *memStore) restore(snap *memStore) {
	st.lotes = snap.lotes
	st.productos = snap.productos
	st.clientes = snap.clientes
	st.maletas = snap.maletas
	st.salidas = snap.salidas
}

func cloneSalida(s *entity.Salida) *entity.Salida {
	c := *s
	c.Detalles = make([]*entity.DetalleSalida, 0, len(s.Detalles))
	for _, d := range s.Detalles {
		dc := *d
		dc.Asignaciones = append([]entity.Asignacion(nil), d.Asignaciones...)
		c.Detalles = append(c.Detalles, &dc)
	}
	return &c
}

func (st *memStore) buscarLote(productoID, codigo string) *entity.Lote {
	for _, l := range st.lotes[productoID] {
		if l.Codigo == codigo {
			return l
		}
	}
	return nil
}

// base comparte el store y el modo de bloqueo entre los repos falsos.
// lock=true → repos de solo lectura fuera de transacción.
type base struct {
	st   *memStore
	lock bool
}

func (b base) sync(fn func()) {
	if b.lock {
		b.st.mu.Lock()
		defer b.st.mu.Unlock()
	}
	fn()
}

// ── LoteRepository ───────────────────────────────────────────────────────────

type memLoteRepo struct{ base }

var _ repository.LoteRepository = memLoteRepo{}

func (r memLoteRepo) ListarDisponiblesForUpdate(productoID string) ([]*entity.Lote, error) {
	var out []*entity.Lote
	r.sync(func() {
		for _, l := range r.st.lotes[productoID] {
			if l.CantidadDisponible.GreaterThan(decimal.Zero) {
				c := *l
				out = append(out, &c)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].FechaIngreso.Equal(out[j].FechaIngreso) {
				return out[i].FechaIngreso.Before(out[j].FechaIngreso)
			}
			return out[i].Codigo < out[j].Codigo
		})
	})
	return out, nil
}

func (r memLoteRepo) GetForUpdate(productoID, codigo string) (*entity.Lote, error) {
	var out *entity.Lote
	r.sync(func() {
		if l := r.st.buscarLote(productoID, codigo); l != nil {
			c := *l
			out = &c
		}
	})
	return out, nil
}

func (r memLoteRepo) Descontar(productoID, codigo string, cantidad decimal.Decimal) error {
	var err error
	r.sync(func() {
		l := r.st.buscarLote(productoID, codigo)
		if l == nil || l.CantidadDisponible.LessThan(cantidad) {
			err = domain.ErrInsufficientStock
			return
		}
		l.CantidadDisponible = l.CantidadDisponible.Sub(cantidad)
	})
	return err
}

func (r memLoteRepo) Reponer(productoID, codigo string, cantidad decimal.Decimal) error {
	var err error
	r.sync(func() {
		l := r.st.buscarLote(productoID, codigo)
		if l == nil {
			err = domain.ErrNotFound
			return
		}
		l.CantidadDisponible = l.CantidadDisponible.Add(cantidad)
	})
	return err
}

func (r memLoteRepo) DisponibleTotal(productoID string) (decimal.Decimal, error) {
	total := decimal.Zero
	r.sync(func() {
		for _, l := range r.st.lotes[productoID] {
			total = total.Add(l.CantidadDisponible)
		}
	})
	return total, nil
}

// ── ProductoRepository ───────────────────────────────────────────────────────

type memProductoRepo struct{ base }

var _ repository.ProductoRepository = memProductoRepo{}

func (r memProductoRepo) GetByID(id string) (*entity.Producto, error) {
	var out *entity.Producto
	r.sync(func() {
		if p, ok := r.st.productos[id]; ok {
			c := *p
			out = &c
		}
	})
	return out, nil
}

func (r memProductoRepo) DescontarStock(id string, cantidad decimal.Decimal) error {
	var err error
	r.sync(func() {
		p, ok := r.st.productos[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		p.StockActual = p.StockActual.Sub(cantidad)
	})
	return err
}

func (r memProductoRepo) ReponerStock(id string, cantidad decimal.Decimal) error {
	var err error
	r.sync(func() {
		p, ok := r.st.productos[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		p.StockActual = p.StockActual.Add(cantidad)
	})
	return err
}

// ── Cliente / Maleta ─────────────────────────────────────────────────────────

type memClienteRepo struct{ base }

var _ repository.ClienteRepository = memClienteRepo{}

func (r memClienteRepo) GetByID(id string) (*entity.Cliente, error) {
	var out *entity.Cliente
	r.sync(func() {
		if c, ok := r.st.clientes[id]; ok {
			cc := *c
			out = &cc
		}
	})
	return out, nil
}

type memMaletaRepo struct{ base }

var _ repository.MaletaRepository = memMaletaRepo{}

func (r memMaletaRepo) GetByID(id string) (*entity.Maleta, error) {
	var out *entity.Maleta
	r.sync(func() {
		if m, ok := r.st.maletas[id]; ok {
			mc := *m
			out = &mc
		}
	})
	return out, nil
}

// ── SalidaRepository ─────────────────────────────────────────────────────────

type memSalidaRepo struct{ base }

var _ repository.SalidaRepository = memSalidaRepo{}

func (r memSalidaRepo) Create(salida *entity.Salida) error {
	r.sync(func() {
		r.st.salidas[salida.ID] = cloneSalida(salida)
	})
	return nil
}

func (r memSalidaRepo) GetByID(id string) (*entity.Salida, error) {
	var out *entity.Salida
	r.sync(func() {
		if s, ok := r.st.salidas[id]; ok {
			out = cloneSalida(s)
		}
	})
	return out, nil
}

func (r memSalidaRepo) GetByIDForUpdate(id string) (*entity.Salida, error) {
	return r.GetByID(id)
}

func (r memSalidaRepo) MarcarAnulada(id, usuarioID string, motivo *string, fecha time.Time) error {
	var err error
	r.sync(func() {
		s, ok := r.st.salidas[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		s.Estado = entity.EstadoAnulada
		s.AnuladaPor = &usuarioID
		s.FechaAnulacion = &fecha
		s.MotivoAnulacion = motivo
	})
	return err
}

func (r memSalidaRepo) Listar(f repository.SalidaFiltros) ([]*entity.Salida, int64, error) {
	var out []*entity.Salida
	r.sync(func() {
		for _, s := range r.st.salidas {
			if !coincide(s, f) {
				continue
			}
			out = append(out, cloneSalida(s))
		}
		sort.Slice(out, func(i, j int) bool {
			if strings.EqualFold(f.Direccion, "ASC") {
				return out[i].Fecha.Before(out[j].Fecha)
			}
			return out[i].Fecha.After(out[j].Fecha)
		})
	})
	total := int64(len(out))
	desde := (f.Pagina - 1) * f.Limite
	if desde >= len(out) {
		return nil, total, nil
	}
	hasta := desde + f.Limite
	if hasta > len(out) {
		hasta = len(out)
	}
	return out[desde:hasta], total, nil
}

func coincide(s *entity.Salida, f repository.SalidaFiltros) bool {
	if f.Tipo != "" && s.Tipo != f.Tipo {
		return false
	}
	if f.Estado != "" && s.Estado != f.Estado {
		return false
	}
	if f.ClienteID != nil && (s.ClienteID == nil || *s.ClienteID != *f.ClienteID) {
		return false
	}
	if f.MaletaID != nil && (s.MaletaID == nil || *s.MaletaID != *f.MaletaID) {
		return false
	}
	if f.PendientesFacturar && (s.Estado != entity.EstadoProcesada || s.Facturada()) {
		return false
	}
	if f.FechaInicio != nil && s.Fecha.Before(*f.FechaInicio) {
		return false
	}
	if f.FechaFin != nil && s.Fecha.After(f.FechaFin.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

func (r memSalidaRepo) Estadisticas(f repository.EstadisticasFiltros) (*repository.EstadisticasSalidas, error) {
	stats := &repository.EstadisticasSalidas{TotalUnidades: decimal.Zero}
	porTipo := make(map[string]*repository.EstadisticasPorTipo)
	r.sync(func() {
		for _, s := range r.st.salidas {
			if f.Tipo != "" && s.Tipo != f.Tipo {
				continue
			}
			if f.FechaInicio != nil && s.Fecha.Before(*f.FechaInicio) {
				continue
			}
			if f.FechaFin != nil && s.Fecha.After(f.FechaFin.AddDate(0, 0, 1)) {
				continue
			}
			if s.Estado == entity.EstadoAnulada {
				stats.TotalAnuladas++
				continue
			}
			stats.TotalSalidas++
			pt, ok := porTipo[s.Tipo]
			if !ok {
				pt = &repository.EstadisticasPorTipo{Tipo: s.Tipo, Unidades: decimal.Zero, ImporteVenta: decimal.Zero}
				porTipo[s.Tipo] = pt
			}
			pt.Total++
			for _, d := range s.Detalles {
				stats.TotalUnidades = stats.TotalUnidades.Add(d.Cantidad)
				pt.Unidades = pt.Unidades.Add(d.Cantidad)
				if d.PrecioUnitario != nil {
					pt.ImporteVenta = pt.ImporteVenta.Add(d.Cantidad.Mul(*d.PrecioUnitario))
				}
			}
		}
	})
	tipos := make([]string, 0, len(porTipo))
	for t := range porTipo {
		tipos = append(tipos, t)
	}
	sort.Strings(tipos)
	for _, t := range tipos {
		stats.PorTipo = append(stats.PorTipo, *porTipo[t])
	}
	return stats, nil
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

type memTxRunner struct{ st *memStore }

func (r *memTxRunner) Run(ctx context.Context, fn func(
	salidaRepo repository.SalidaRepository,
	loteRepo repository.LoteRepository,
	productoRepo repository.ProductoRepository,
) error) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	snap := r.st.snapshot()
	b := base{st: r.st, lock: false}
	if err := fn(memSalidaRepo{b}, memLoteRepo{b}, memProductoRepo{b}); err != nil {
		r.st.restore(snap)
		return err
	}
	return nil
}
