package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeProducts struct {
	byID map[string]*entity.Product
	err  error
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func (f *fakeProducts) ListLowStock(_ context.Context, _ int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

type call struct {
	op    string
	items []entity.StockItem
}

type fakeGateway struct {
	calls        []call
	decrementErr []error // se consume en orden; nil = éxito
	restoreErr   error
}

func (g *fakeGateway) Decrement(_ context.Context, items []entity.StockItem) error {
	g.calls = append(g.calls, call{"decrement", items})
	if len(g.decrementErr) > 0 {
		err := g.decrementErr[0]
		g.decrementErr = g.decrementErr[1:]
		return err
	}
	return nil
}

func (g *fakeGateway) Restore(_ context.Context, items []entity.StockItem) error {
	g.calls = append(g.calls, call{"restore", items})
	return g.restoreErr
}

func (g *fakeGateway) ops() []string {
	out := make([]string, 0, len(g.calls))
	for _, c := range g.calls {
		out = append(out, c.op)
	}
	return out
}

type fakeShrinkage struct {
	created []*entity.Shrinkage
	list    []entity.Shrinkage
	err     error
}

func (s *fakeShrinkage) Create(_ context.Context, rec *entity.Shrinkage) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, rec)
	return nil
}

func (s *fakeShrinkage) ListByProduct(_ context.Context, _ string, _, _ time.Time) ([]entity.Shrinkage, error) {
	return s.list, nil
}

type fakeSales struct{ units, orders int }

func (s fakeSales) SoldQuantity(_ context.Context, _ string, _, _ time.Time) (int, int, error) {
	return s.units, s.orders, nil
}

func newTestManager(products map[string]*entity.Product) (*Manager, *fakeGateway, *fakeShrinkage) {
	gw := &fakeGateway{}
	sh := &fakeShrinkage{}
	m := NewManager(&fakeProducts{byID: products}, gw, sh, fakeSales{units: 12, orders: 3}, zerolog.Nop(), 0)
	return m, gw, sh
}

func product(id, name string, stock, min int) *entity.Product {
	return &entity.Product{ID: id, Name: name, Stock: stock, MinStock: min}
}

func items(pairs ...interface{}) []entity.StockItem {
	out := make([]entity.StockItem, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, entity.StockItem{ProductID: pairs[i].(string), Quantity: pairs[i+1].(int)})
	}
	return out
}

// ── CheckAvailability ─────────────────────────────────────────────────────────

func TestCheckAvailability_Faltantes(t *testing.T) {
	m, gw, _ := newTestManager(map[string]*entity.Product{"a": product("a", "Producto A", 5, 0)})

	av, err := m.CheckAvailability(context.Background(), items("a", 10))
	require.NoError(t, err)
	assert.False(t, av.OK)
	require.Len(t, av.Shortfalls, 1)
	assert.Equal(t, 5, av.Shortfalls[0].Available)
	assert.Equal(t, 10, av.Shortfalls[0].Requested)
	assert.Equal(t, entity.ShortfallInsufficient, av.Shortfalls[0].Reason)

	av, err = m.CheckAvailability(context.Background(), items("a", 3))
	require.NoError(t, err)
	assert.True(t, av.OK)
	assert.Empty(t, av.Shortfalls)
	assert.Empty(t, gw.calls, "verificar no modifica stock")
}

func TestCheckAvailability_ProductoInexistente(t *testing.T) {
	m, _, _ := newTestManager(map[string]*entity.Product{})

	av, err := m.CheckAvailability(context.Background(), items("x", 1))
	require.NoError(t, err)
	assert.False(t, av.OK)
	assert.Equal(t, entity.Shortfall{ProductID: "x", Available: 0, Requested: 1, Reason: entity.ShortfallNotFound}, av.Shortfalls[0])
}

func TestCheckAvailability_SumaLineasDuplicadas(t *testing.T) {
	m, _, _ := newTestManager(map[string]*entity.Product{"a": product("a", "A", 5, 0)})

	av, err := m.CheckAvailability(context.Background(), items("a", 3, "a", 3))
	require.NoError(t, err)
	assert.False(t, av.OK)
	assert.Equal(t, 6, av.Shortfalls[0].Requested)
}

func TestCheckAvailability_EntradaInvalida(t *testing.T) {
	m, _, _ := newTestManager(nil)
	_, err := m.CheckAvailability(context.Background(), items("", 0))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 2)
}

// ── Reserve / Release ─────────────────────────────────────────────────────────

func TestReserve_ConFaltanteNoDescuenta(t *testing.T) {
	m, gw, _ := newTestManager(map[string]*entity.Product{
		"a": product("a", "Producto A", 5, 0),
		"b": product("b", "Producto B", 50, 0),
	})

	err := m.Reserve(context.Background(), items("a", 10, "b", 1), Validated())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var serr *domain.StockError
	require.True(t, errors.As(err, &serr))
	assert.Len(t, serr.Shortfalls, 1)
	assert.Equal(t, "Stock insuficiente: Producto A (disponible: 5, solicitado: 10)", serr.Error())
	assert.Empty(t, gw.calls)
}

func TestReserve_Exitoso(t *testing.T) {
	m, gw, _ := newTestManager(map[string]*entity.Product{"a": product("a", "A", 5, 0)})

	require.NoError(t, m.Reserve(context.Background(), items("a", 2, "a", 1), Validated()))
	require.Len(t, gw.calls, 1)
	assert.Equal(t, call{"decrement", items("a", 3)}, gw.calls[0])
}

func TestReserve_SinValidarNoConsultaProductos(t *testing.T) {
	gw := &fakeGateway{}
	m := NewManager(&fakeProducts{err: errors.New("no debería leerse")}, gw, &fakeShrinkage{}, fakeSales{}, zerolog.Nop(), 0)

	require.NoError(t, m.Reserve(context.Background(), items("a", 2), ReserveOptions{}))
	assert.Equal(t, []string{"decrement"}, gw.ops())
}

func TestReserve_FallaDelProcedimiento(t *testing.T) {
	m, gw, _ := newTestManager(map[string]*entity.Product{"a": product("a", "A", 5, 0)})
	gw.decrementErr = []error{&domain.RPCError{Function: "descontar_stock", Message: "stock insuficiente para a"}}

	err := m.Reserve(context.Background(), items("a", 2), Validated())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.Contains(t, err.Error(), "stock insuficiente para a")
}

func TestRelease(t *testing.T) {
	m, gw, _ := newTestManager(nil)
	require.NoError(t, m.Release(context.Background(), items("a", 4)))
	assert.Equal(t, []string{"restore"}, gw.ops())

	gw.restoreErr = errors.New("conexión cerrada")
	err := m.Release(context.Background(), items("a", 4))
	assert.ErrorContains(t, err, "conexión cerrada")

	assert.NoError(t, m.Release(context.Background(), nil))
}

// ── Reconcile ─────────────────────────────────────────────────────────────────

func TestReconcile_SinCambiosNoLlamaAlGateway(t *testing.T) {
	m, gw, _ := newTestManager(map[string]*entity.Product{"p1": product("p1", "P1", 100, 0)})
	require.NoError(t, m.Reconcile(context.Background(), items("p1", 10), items("p1", 10)))
	assert.Empty(t, gw.calls)
}

func TestReconcile_AumentoReserva(t *testing.T) {
	m, gw, _ := newTestManager(map[string]*entity.Product{"p1": product("p1", "P1", 100, 0)})
	require.NoError(t, m.Reconcile(context.Background(), items("p1", 10), items("p1", 15)))
	assert.Equal(t, []call{{"decrement", items("p1", 5)}}, gw.calls)
}

func TestReconcile_ReduccionRestaura(t *testing.T) {
	m, gw, _ := newTestManager(map[string]*entity.Product{"p1": product("p1", "P1", 100, 0)})
	require.NoError(t, m.Reconcile(context.Background(), items("p1", 15), items("p1", 10)))
	assert.Equal(t, []call{{"restore", items("p1", 5)}}, gw.calls)
}

func TestReconcile_RestauraAntesDeReservar(t *testing.T) {
	m, gw, _ := newTestManager(map[string]*entity.Product{
		"p1": product("p1", "P1", 0, 0),
		"p2": product("p2", "P2", 20, 0),
	})
	require.NoError(t, m.Reconcile(context.Background(), items("p1", 3), items("p2", 3)))
	assert.Equal(t, []call{
		{"restore", items("p1", 3)},
		{"decrement", items("p2", 3)},
	}, gw.calls)
}

func TestReconcile_RollbackSiFallaLaReserva(t *testing.T) {
	m, gw, _ := newTestManager(map[string]*entity.Product{
		"p1": product("p1", "P1", 10, 0),
		"p2": product("p2", "P2", 1, 0),
	})

	err := m.Reconcile(context.Background(), items("p1", 4), items("p2", 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, []call{
		{"restore", items("p1", 4)},
		{"decrement", items("p1", 4)},
	}, gw.calls, "re-reserva lo restaurado sin validar")
}

func TestReconcile_RollbackTrasFallaRemota(t *testing.T) {
	m, gw, _ := newTestManager(map[string]*entity.Product{
		"p1": product("p1", "P1", 10, 0),
		"p2": product("p2", "P2", 10, 0),
	})
	remote := &domain.RPCError{Function: "descontar_stock", Message: "bloqueo"}
	gw.decrementErr = []error{remote, errors.New("rollback falla también")}

	err := m.Reconcile(context.Background(), items("p1", 4), items("p2", 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemote, "se devuelve el error de la reserva, no el del rollback")
	assert.Equal(t, []string{"restore", "decrement", "decrement"}, gw.ops())
}

// ── RecordShrinkage ───────────────────────────────────────────────────────────

func TestRecordShrinkage_Exitoso(t *testing.T) {
	m, gw, sh := newTestManager(nil)
	rec, err := m.RecordShrinkage(context.Background(), dto.ShrinkageRequest{
		ProductID: "p1", Quantity: 2, Reason: "rotura", UserID: "u1",
	})
	require.NoError(t, err)
	require.Len(t, sh.created, 1)
	assert.Equal(t, rec, sh.created[0])
	assert.Equal(t, "u1", *rec.UserID)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, []call{{"decrement", items("p1", 2)}}, gw.calls)
}

func TestRecordShrinkage_SinDescuentoNoHayRegistro(t *testing.T) {
	m, gw, sh := newTestManager(nil)
	gw.decrementErr = []error{&domain.RPCError{Function: "descontar_stock", Message: "stock insuficiente"}}

	_, err := m.RecordShrinkage(context.Background(), dto.ShrinkageRequest{ProductID: "p1", Quantity: 2, Reason: "vencido"})
	require.Error(t, err)
	assert.Empty(t, sh.created)
	assert.Equal(t, []string{"decrement"}, gw.ops())
}

func TestRecordShrinkage_FallaInsertRestaura(t *testing.T) {
	m, gw, sh := newTestManager(nil)
	insertErr := errors.New("insert falló")
	sh.err = insertErr
	gw.restoreErr = errors.New("restauración falló")

	_, err := m.RecordShrinkage(context.Background(), dto.ShrinkageRequest{ProductID: "p1", Quantity: 2, Reason: "robo"})
	require.Error(t, err)
	assert.ErrorIs(t, err, insertErr, "devuelve el error del insert aunque la compensación falle")
	assert.Equal(t, []call{
		{"decrement", items("p1", 2)},
		{"restore", items("p1", 2)},
	}, gw.calls)
}

func TestRecordShrinkage_Validacion(t *testing.T) {
	m, gw, _ := newTestManager(nil)
	_, err := m.RecordShrinkage(context.Background(), dto.ShrinkageRequest{})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 3)
	assert.Empty(t, gw.calls)
}

// ── Reportes ──────────────────────────────────────────────────────────────────

func TestLowStock(t *testing.T) {
	m, _, _ := newTestManager(map[string]*entity.Product{
		"a": product("a", "Aceite", 2, 10),
		"b": product("b", "Bizcochos", 9, 10),
		"c": product("c", "Café", 50, 10),
	})

	got, err := m.LowStock(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ProductID)
	assert.Equal(t, 8, got[0].Deficit)
	assert.Equal(t, "b", got[1].ProductID)

	got, err = m.LowStock(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Threshold)
}

func TestMovementsSummary(t *testing.T) {
	m, _, sh := newTestManager(map[string]*entity.Product{"a": product("a", "A", 5, 0)})
	sh.list = []entity.Shrinkage{{Quantity: 2}, {Quantity: 1}}
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	sum, err := m.MovementsSummary(context.Background(), "a", from, to)
	require.NoError(t, err)
	assert.Equal(t, 12, sum.UnitsSold)
	assert.Equal(t, 3, sum.Orders)
	assert.Equal(t, 3, sum.ShrinkageUnits)
	assert.Equal(t, 2, sum.ShrinkageCount)
	assert.Equal(t, 15, sum.TotalOutflow)

	_, err = m.MovementsSummary(context.Background(), "zz", from, to)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = m.MovementsSummary(context.Background(), "a", to, from)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
