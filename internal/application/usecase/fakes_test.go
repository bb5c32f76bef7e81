package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/application/stock"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ── Pedidos ───────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	orders    map[string]*entity.Order
	history   []*entity.OrderHistory
	positions map[string]int
	list      []*entity.Order
	listErr   error
	updateErr error
	posErr    error
	calls     []string
}

func newFakeOrderRepo(orders ...*entity.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[string]*entity.Order{}, positions: map[string]int{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.calls = append(r.calls, "get")
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _ repository.OrderFilter) ([]*entity.Order, error) {
	return r.list, r.listErr
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status entity.OrderStatus, deliveredAt *time.Time) error {
	r.calls = append(r.calls, "update_status")
	if r.updateErr != nil {
		return r.updateErr
	}
	r.orders[id].Status = status
	r.orders[id].DeliveredAt = deliveredAt
	return nil
}

func (r *fakeOrderRepo) SetCarrier(_ context.Context, id, carrierID string) error {
	r.calls = append(r.calls, "set_carrier")
	r.orders[id].CarrierID = &carrierID
	return nil
}

func (r *fakeOrderRepo) SetDeliveryPosition(_ context.Context, id string, position int) error {
	if r.posErr != nil {
		return r.posErr
	}
	r.positions[id] = position
	return nil
}

func (r *fakeOrderRepo) SetPaymentStatus(_ context.Context, id string, status entity.PaymentStatus) error {
	r.orders[id].PaymentStatus = status
	return nil
}

func (r *fakeOrderRepo) AppendHistory(_ context.Context, h *entity.OrderHistory) error {
	r.history = append(r.history, h)
	return nil
}

func (r *fakeOrderRepo) ListHistory(_ context.Context, orderID string) ([]entity.OrderHistory, error) {
	var out []entity.OrderHistory
	for _, h := range r.history {
		if h.OrderID == orderID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) SoldQuantity(_ context.Context, _ string, _, _ time.Time) (int, int, error) {
	return 0, 0, nil
}

type fakeOrderGateway struct {
	createID   string
	createErr  error
	replaceErr error
	batchErr   error
	created    []repository.NewOrder
	replaced   [][]repository.NewOrderItem
	batchCalls int
	onCreate   func(repository.NewOrder)
}

func (g *fakeOrderGateway) CreateOrder(_ context.Context, in repository.NewOrder) (string, error) {
	g.created = append(g.created, in)
	if g.createErr != nil {
		return "", g.createErr
	}
	if g.onCreate != nil {
		g.onCreate(in)
	}
	return g.createID, nil
}

func (g *fakeOrderGateway) ReplaceItems(_ context.Context, _ string, items []repository.NewOrderItem) error {
	g.replaced = append(g.replaced, items)
	return g.replaceErr
}

func (g *fakeOrderGateway) BatchDeliveryPositions(_ context.Context, _ []repository.DeliveryPosition) error {
	g.batchCalls++
	return g.batchErr
}

type stockCall struct {
	op       string
	items    []entity.StockItem
	original []entity.StockItem
	validate bool
}

type fakeStock struct {
	calls        []stockCall
	reserveErr   error
	releaseErr   error
	reconcileErr []error
}

func (s *fakeStock) Reserve(_ context.Context, items []entity.StockItem, opts stock.ReserveOptions) error {
	s.calls = append(s.calls, stockCall{op: "reserve", items: items, validate: opts.Validate})
	return s.reserveErr
}

func (s *fakeStock) Release(_ context.Context, items []entity.StockItem) error {
	s.calls = append(s.calls, stockCall{op: "release", items: items})
	return s.releaseErr
}

func (s *fakeStock) Reconcile(_ context.Context, original, updated []entity.StockItem) error {
	s.calls = append(s.calls, stockCall{op: "reconcile", original: original, items: updated})
	if len(s.reconcileErr) > 0 {
		err := s.reconcileErr[0]
		s.reconcileErr = s.reconcileErr[1:]
		return err
	}
	return nil
}

func (s *fakeStock) ops() []string {
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.op)
	}
	return out
}

type fakeLocker struct {
	locked   []string
	unlocked int
	err      error
}

func (l *fakeLocker) Lock(_ context.Context, key string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locked = append(l.locked, key)
	return func() { l.unlocked++ }, nil
}

// ── Productos ─────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	byID         map[string]*entity.Product
	listErr      error
	priceUpdates []repository.PriceUpdate
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.byID[id], nil
}

func (r *fakeProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ repository.ProductFilter) ([]*entity.Product, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*entity.Product, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ repository.ProductFilter) (int, error) {
	return len(r.byID), nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeProductRepo) ListLowStock(_ context.Context, _ int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) UpdatePrice(_ context.Context, id string, price decimal.Decimal) error {
	r.priceUpdates = append(r.priceUpdates, repository.PriceUpdate{ProductID: id, Price: price})
	return nil
}

type fakePriceGateway struct {
	err   error
	calls int
}

func (g *fakePriceGateway) BatchUpdatePrices(_ context.Context, _ []repository.PriceUpdate) error {
	g.calls++
	return g.err
}

// ── Rendiciones ───────────────────────────────────────────────────────────────

type fakeSettlementRepo struct {
	settlements map[string]*entity.Settlement
	exceptions  map[string]*entity.DeliveryException
	reviewed    []string
	resolved    []string
	listErr     error
}

func (r *fakeSettlementRepo) GetSettlement(_ context.Context, id string) (*entity.Settlement, error) {
	return r.settlements[id], nil
}

func (r *fakeSettlementRepo) ListSettlements(_ context.Context, _ string, _, _ int) ([]*entity.Settlement, error) {
	return nil, r.listErr
}

func (r *fakeSettlementRepo) ReviewSettlement(_ context.Context, id, status, _, _ string, _ time.Time) error {
	r.reviewed = append(r.reviewed, id+":"+status)
	return nil
}

func (r *fakeSettlementRepo) GetException(_ context.Context, id string) (*entity.DeliveryException, error) {
	return r.exceptions[id], nil
}

func (r *fakeSettlementRepo) ListExceptions(_ context.Context, _ string, _, _ int) ([]*entity.DeliveryException, error) {
	return nil, r.listErr
}

func (r *fakeSettlementRepo) ResolveException(_ context.Context, id, _, _ string, _ time.Time) error {
	r.resolved = append(r.resolved, id)
	return nil
}

// ── Clientes ──────────────────────────────────────────────────────────────────

type fakeCustomerRepo struct {
	byID     map[string]*entity.Customer
	zones    []string
	listErr  error
	countErr error
	zonesErr error
	filters  []repository.CustomerFilter
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) List(_ context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	r.filters = append(r.filters, f)
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*entity.Customer, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCustomerRepo) Count(_ context.Context, _ repository.CustomerFilter) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return len(r.byID), nil
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeCustomerRepo) Zones(_ context.Context) ([]string, error) {
	return r.zones, r.zonesErr
}
