package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/application/validation"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 4, 10, 15, 30, 0, 0, time.UTC)

func newOrderUC(repo *fakeOrderRepo, gw *fakeOrderGateway, st *fakeStock, locker Locker) *OrderUseCase {
	uc := NewOrderUseCase(repo, gw, st, locker, validation.New("AR"), zerolog.Nop())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func orderWith(id string, status entity.OrderStatus, lines ...entity.OrderItem) *entity.Order {
	return &entity.Order{ID: id, CustomerID: "c1", Status: status, PaymentStatus: entity.PaymentPending, Items: lines}
}

func line(productID string, qty int) entity.OrderItem {
	return entity.OrderItem{ProductID: productID, Quantity: qty, UnitPrice: decimal.NewFromInt(100)}
}

func itemReq(productID string, qty int) dto.OrderItemRequest {
	return dto.OrderItemRequest{ProductID: productID, Quantity: qty, UnitPrice: decimal.NewFromInt(100)}
}

// ── Create ────────────────────────────────────────────────────────────────────

func TestCreate_ReservaYCrea(t *testing.T) {
	repo := newFakeOrderRepo()
	gw := &fakeOrderGateway{createID: "o1"}
	gw.onCreate = func(repository.NewOrder) {
		repo.orders["o1"] = orderWith("o1", entity.OrderPending, line("p1", 2))
	}
	st := &fakeStock{}
	uc := newOrderUC(repo, gw, st, nil)

	resp, err := uc.Create(context.Background(), "vend-1", dto.CreateOrderRequest{
		CustomerID: "c1",
		Items:      []dto.OrderItemRequest{itemReq("p1", 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", resp.ID)
	require.Len(t, st.calls, 1)
	assert.Equal(t, "reserve", st.calls[0].op)
	assert.True(t, st.calls[0].validate)
	assert.Equal(t, "vend-1", gw.created[0].SalespersonID)
	require.Len(t, repo.history, 1)
	assert.Equal(t, entity.OrderPending, repo.history[0].ToStatus)
}

func TestCreate_FallaRemotaLiberaStock(t *testing.T) {
	repo := newFakeOrderRepo()
	gw := &fakeOrderGateway{createErr: &domain.RPCError{Function: "crear_pedido", Message: "cliente inactivo"}}
	st := &fakeStock{releaseErr: errors.New("no importa")}
	uc := newOrderUC(repo, gw, st, nil)

	_, err := uc.Create(context.Background(), "vend-1", dto.CreateOrderRequest{
		CustomerID: "c1",
		Items:      []dto.OrderItemRequest{itemReq("p1", 2)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.Equal(t, []string{"reserve", "release"}, st.ops())
	assert.Empty(t, repo.history)
}

func TestCreate_SinStockNoLlamaAlProcedimiento(t *testing.T) {
	gw := &fakeOrderGateway{}
	st := &fakeStock{reserveErr: &domain.StockError{}}
	uc := newOrderUC(newFakeOrderRepo(), gw, st, nil)

	_, err := uc.Create(context.Background(), "", dto.CreateOrderRequest{
		CustomerID: "c1",
		Items:      []dto.OrderItemRequest{itemReq("p1", 2)},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, gw.created)
}

func TestCreate_Validacion(t *testing.T) {
	st := &fakeStock{}
	uc := newOrderUC(newFakeOrderRepo(), &fakeOrderGateway{}, st, nil)

	_, err := uc.Create(context.Background(), "", dto.CreateOrderRequest{})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 2)
	assert.Empty(t, st.calls)
}

// ── ChangeStatus ──────────────────────────────────────────────────────────────

func TestChangeStatus_EstadoDesconocidoSinLlamadas(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderPending))
	st := &fakeStock{}
	uc := newOrderUC(repo, &fakeOrderGateway{}, st, nil)

	_, err := uc.ChangeStatus(context.Background(), "o1", "perdido", "u1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Empty(t, repo.calls, "se rechaza antes de cualquier llamada")
	assert.Empty(t, st.calls)
}

func TestChangeStatus_TransicionInvalida(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderDelivered))
	uc := newOrderUC(repo, &fakeOrderGateway{}, &fakeStock{}, nil)

	_, err := uc.ChangeStatus(context.Background(), "o1", string(entity.OrderPending), "u1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.NotContains(t, repo.calls, "update_status")
}

func TestChangeStatus_EntregadoRegistraFecha(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderEnRoute))
	uc := newOrderUC(repo, &fakeOrderGateway{}, &fakeStock{}, nil)

	resp, err := uc.ChangeStatus(context.Background(), "o1", string(entity.OrderDelivered), "u1", "recibió el encargado")
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderDelivered), resp.Status)
	require.NotNil(t, resp.DeliveredAt)
	assert.Equal(t, fixedNow, *resp.DeliveredAt)

	require.Len(t, repo.history, 1)
	h := repo.history[0]
	assert.Equal(t, entity.OrderEnRoute, h.FromStatus)
	assert.Equal(t, entity.OrderDelivered, h.ToStatus)
	assert.Equal(t, "recibió el encargado", h.Note)
	assert.Equal(t, "u1", *h.UserID)
}

func TestChangeStatus_CancelarLiberaStock(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderPreparing, line("p1", 3), line("p2", 1)))
	st := &fakeStock{}
	uc := newOrderUC(repo, &fakeOrderGateway{}, st, nil)

	_, err := uc.ChangeStatus(context.Background(), "o1", string(entity.OrderCancelled), "u1", "")
	require.NoError(t, err)
	require.Equal(t, []string{"release"}, st.ops())
	assert.Equal(t, []entity.StockItem{{ProductID: "p1", Quantity: 3}, {ProductID: "p2", Quantity: 1}}, st.calls[0].items)
	assert.Nil(t, repo.orders["o1"].DeliveredAt)
}

func TestChangeStatus_CancelacionFallidaVuelveAReservar(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderPending, line("p1", 3)))
	repo.updateErr = errors.New("timeout")
	st := &fakeStock{}
	uc := newOrderUC(repo, &fakeOrderGateway{}, st, nil)

	_, err := uc.ChangeStatus(context.Background(), "o1", string(entity.OrderCancelled), "u1", "")
	require.Error(t, err)
	assert.Equal(t, []string{"release", "reserve"}, st.ops())
	assert.False(t, st.calls[1].validate)
	assert.Empty(t, repo.history)
}

func TestChangeStatus_NoEncontrado(t *testing.T) {
	uc := newOrderUC(newFakeOrderRepo(), &fakeOrderGateway{}, &fakeStock{}, nil)
	_, err := uc.ChangeStatus(context.Background(), "zz", string(entity.OrderAssigned), "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── UpdateItems ───────────────────────────────────────────────────────────────

func TestUpdateItems_ReconciliaYReemplaza(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderPending, line("p1", 10)))
	gw := &fakeOrderGateway{}
	st := &fakeStock{}
	locker := &fakeLocker{}
	uc := newOrderUC(repo, gw, st, locker)

	_, err := uc.UpdateItems(context.Background(), "o1", []dto.OrderItemRequest{itemReq("p1", 15)}, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"reconcile"}, st.ops())
	assert.Equal(t, []entity.StockItem{{ProductID: "p1", Quantity: 10}}, st.calls[0].original)
	assert.Equal(t, []entity.StockItem{{ProductID: "p1", Quantity: 15}}, st.calls[0].items)
	require.Len(t, gw.replaced, 1)
	assert.Equal(t, []string{"pedido:o1:items"}, locker.locked)
	assert.Equal(t, 1, locker.unlocked)
	require.Len(t, repo.history, 1)
	assert.Equal(t, "ítems actualizados", repo.history[0].Note)
}

func TestUpdateItems_FallaRemotaRevierteReconciliacion(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderPreparing, line("p1", 10)))
	gw := &fakeOrderGateway{replaceErr: &domain.RPCError{Function: "actualizar_items_pedido"}}
	st := &fakeStock{}
	uc := newOrderUC(repo, gw, st, nil)

	_, err := uc.UpdateItems(context.Background(), "o1", []dto.OrderItemRequest{itemReq("p1", 4)}, "u1")
	require.Error(t, err)
	require.Equal(t, []string{"reconcile", "reconcile"}, st.ops())
	assert.Equal(t, st.calls[0].original, st.calls[1].items, "la reversión invierte original y nuevo")
	assert.Equal(t, st.calls[0].items, st.calls[1].original)
}

func TestUpdateItems_NoEditable(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderEnRoute, line("p1", 10)))
	st := &fakeStock{}
	uc := newOrderUC(repo, &fakeOrderGateway{}, st, nil)

	_, err := uc.UpdateItems(context.Background(), "o1", []dto.OrderItemRequest{itemReq("p1", 4)}, "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, st.calls)
}

func TestUpdateItems_Bloqueado(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderPending, line("p1", 10)))
	uc := newOrderUC(repo, &fakeOrderGateway{}, &fakeStock{}, &fakeLocker{err: domain.ErrLocked})

	_, err := uc.UpdateItems(context.Background(), "o1", []dto.OrderItemRequest{itemReq("p1", 4)}, "u1")
	assert.ErrorIs(t, err, domain.ErrLocked)
}

// ── AssignCarrier / pago ──────────────────────────────────────────────────────

func TestAssignCarrier(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderPreparing))
	uc := newOrderUC(repo, &fakeOrderGateway{}, &fakeStock{}, nil)

	resp, err := uc.AssignCarrier(context.Background(), "o1", "t1", "admin")
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderAssigned), resp.Status)
	assert.Equal(t, "t1", *resp.CarrierID)
	require.Len(t, repo.history, 1)
}

func TestAssignCarrier_PedidoEntregado(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderDelivered))
	uc := newOrderUC(repo, &fakeOrderGateway{}, &fakeStock{}, nil)

	_, err := uc.AssignCarrier(context.Background(), "o1", "t1", "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Nil(t, repo.orders["o1"].CarrierID)
}

func TestAssignCarrier_FallaEstadoNoGrabaTransportista(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderPending))
	repo.updateErr = errors.New("db caída")
	uc := newOrderUC(repo, &fakeOrderGateway{}, &fakeStock{}, nil)

	_, err := uc.AssignCarrier(context.Background(), "o1", "t1", "admin")
	require.Error(t, err)
	assert.Nil(t, repo.orders["o1"].CarrierID)
	assert.Equal(t, entity.OrderPending, repo.orders["o1"].Status)
	assert.NotContains(t, repo.calls, "set_carrier")
	assert.Empty(t, repo.history)
}

func TestAssignCarrier_EstadoAntesQueTransportista(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderPending))
	uc := newOrderUC(repo, &fakeOrderGateway{}, &fakeStock{}, nil)

	_, err := uc.AssignCarrier(context.Background(), "o1", "t1", "admin")
	require.NoError(t, err)
	assert.Equal(t, []string{"get", "update_status", "set_carrier", "get"}, repo.calls)
}

func TestUpdatePaymentStatus(t *testing.T) {
	repo := newFakeOrderRepo(orderWith("o1", entity.OrderDelivered))
	uc := newOrderUC(repo, &fakeOrderGateway{}, &fakeStock{}, nil)

	_, err := uc.UpdatePaymentStatus(context.Background(), "o1", "regalado")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	resp, err := uc.UpdatePaymentStatus(context.Background(), "o1", "parcial")
	require.NoError(t, err)
	assert.Equal(t, "parcial", resp.PaymentStatus)
}

// ── Orden de entrega ──────────────────────────────────────────────────────────

func TestUpdateDeliveryOrder_Lote(t *testing.T) {
	repo := newFakeOrderRepo()
	gw := &fakeOrderGateway{}
	uc := newOrderUC(repo, gw, &fakeStock{}, nil)

	resp, err := uc.UpdateDeliveryOrder(context.Background(), []dto.DeliveryPositionItem{{OrderID: "o1", Position: 1}, {OrderID: "o2", Position: 2}})
	require.NoError(t, err)
	assert.Equal(t, &dto.DeliveryOrderResponse{Updated: 2}, resp)
	assert.Empty(t, repo.positions)
}

func TestUpdateDeliveryOrder_FallbackSecuencial(t *testing.T) {
	repo := newFakeOrderRepo()
	gw := &fakeOrderGateway{batchErr: domain.ErrRPCUnavailable}
	uc := newOrderUC(repo, gw, &fakeStock{}, nil)

	resp, err := uc.UpdateDeliveryOrder(context.Background(), []dto.DeliveryPositionItem{{OrderID: "o1", Position: 1}, {OrderID: "o2", Position: 2}})
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Equal(t, map[string]int{"o1": 1, "o2": 2}, repo.positions)
}

func TestUpdateDeliveryOrder_OtroErrorNoHaceFallback(t *testing.T) {
	repo := newFakeOrderRepo()
	gw := &fakeOrderGateway{batchErr: &domain.RPCError{Function: "actualizar_orden_entrega", Message: "pedido inexistente"}}
	uc := newOrderUC(repo, gw, &fakeStock{}, nil)

	_, err := uc.UpdateDeliveryOrder(context.Background(), []dto.DeliveryPositionItem{{OrderID: "o1", Position: 1}})
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.Empty(t, repo.positions)
}

// ── Stats ─────────────────────────────────────────────────────────────────────

func TestStats_SinEntregadosPromedioCero(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.list = []*entity.Order{
		{Status: entity.OrderPending, Total: decimal.NewFromInt(500)},
		{Status: entity.OrderCancelled, Total: decimal.NewFromInt(300)},
	}
	uc := newOrderUC(repo, &fakeOrderGateway{}, &fakeStock{}, nil)

	stats, err := uc.Stats(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.True(t, stats.AverageTicket.IsZero())
	assert.True(t, stats.Revenue.IsZero())
	assert.Equal(t, 1, stats.ByStatus["pendiente"])
	assert.Equal(t, 0, stats.ByStatus["entregado"])
}

func TestStats_IngresosSoloEntregados(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.list = []*entity.Order{
		{Status: entity.OrderDelivered, Total: decimal.NewFromInt(1000)},
		{Status: entity.OrderDelivered, Total: decimal.NewFromInt(500)},
		{Status: entity.OrderEnRoute, Total: decimal.NewFromInt(9999)},
	}
	uc := newOrderUC(repo, &fakeOrderGateway{}, &fakeStock{}, nil)

	stats, err := uc.Stats(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Delivered)
	assert.Equal(t, "1500", stats.Revenue.String())
	assert.Equal(t, "750", stats.AverageTicket.String())
}

func TestList_ErrorDevuelveVacio(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.listErr = errors.New("db caída")
	uc := newOrderUC(repo, &fakeOrderGateway{}, &fakeStock{}, nil)

	resp := uc.List(context.Background(), repository.OrderFilter{})
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
}
