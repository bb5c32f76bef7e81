package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/application/stock"
	"github.com/jhoicas/Distribuidora-api/internal/application/validation"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderUseCase ciclo de vida de pedidos: alta con reserva de stock, edición de ítems con
// reconciliación, transiciones de estado con historial y orden de entrega.
type OrderUseCase struct {
	orders  repository.OrderRepository
	gateway repository.OrderGateway
	stock   StockService
	locker  Locker // opcional
	val     *validation.Validator
	log     zerolog.Logger
	now     func() time.Time
}

// NewOrderUseCase construye el caso de uso. locker puede ser nil (sin exclusión mutua en esta capa).
func NewOrderUseCase(
	orders repository.OrderRepository,
	gateway repository.OrderGateway,
	stockSvc StockService,
	locker Locker,
	val *validation.Validator,
	log zerolog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:  orders,
		gateway: gateway,
		stock:   stockSvc,
		locker:  locker,
		val:     val,
		log:     log,
		now:     time.Now,
	}
}

func toNewOrderItems(in []dto.OrderItemRequest) []repository.NewOrderItem {
	out := make([]repository.NewOrderItem, 0, len(in))
	for _, it := range in {
		out = append(out, repository.NewOrderItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return out
}

func toStockItems(in []dto.OrderItemRequest) []entity.StockItem {
	out := make([]entity.StockItem, 0, len(in))
	for _, it := range in {
		out = append(out, entity.StockItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// Create reserva stock (validado) y crea el pedido con crear_pedido.
// Si la creación falla libera la reserva; un fallo de esa liberación se loguea.
func (uc *OrderUseCase) Create(ctx context.Context, salespersonID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := uc.val.Struct(in); err != nil {
		return nil, err
	}
	items := toStockItems(in.Items)
	if err := uc.stock.Reserve(ctx, items, stock.Validated()); err != nil {
		return nil, err
	}

	orderID, err := uc.gateway.CreateOrder(ctx, repository.NewOrder{
		CustomerID:    in.CustomerID,
		SalespersonID: salespersonID,
		Notes:         in.Notes,
		Items:         toNewOrderItems(in.Items),
	})
	if err != nil {
		if rErr := uc.stock.Release(ctx, items); rErr != nil {
			uc.log.Error().Err(rErr).Str("cliente_id", in.CustomerID).
				Msg("pedido: alta fallida y no se pudo liberar el stock reservado")
		}
		return nil, fmt.Errorf("pedido: crear: %w", err)
	}

	uc.appendHistory(ctx, orderID, "", entity.OrderPending, salespersonID, "pedido creado")
	return uc.GetByID(ctx, orderID)
}

// UpdateItems reemplaza los ítems de un pedido editable (pendiente o en preparación).
// Reconciliación de stock primero; si actualizar_items_pedido falla se revierte la reconciliación.
func (uc *OrderUseCase) UpdateItems(ctx context.Context, id string, items []dto.OrderItemRequest, userID string) (*dto.OrderResponse, error) {
	if err := uc.val.Struct(dto.UpdateItemsRequest{Items: items}); err != nil {
		return nil, err
	}
	if uc.locker != nil {
		unlock, err := uc.locker.Lock(ctx, "pedido:"+id+":items")
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !order.Status.Editable() {
		return nil, fmt.Errorf("pedido en estado %s: %w", order.Status, domain.ErrConflict)
	}

	original := order.StockItems()
	updated := toStockItems(items)
	if err := uc.stock.Reconcile(ctx, original, updated); err != nil {
		return nil, err
	}
	if err := uc.gateway.ReplaceItems(ctx, id, toNewOrderItems(items)); err != nil {
		if rErr := uc.stock.Reconcile(ctx, updated, original); rErr != nil {
			uc.log.Error().Err(rErr).Str("pedido_id", id).
				Msg("pedido: edición fallida y no se pudo revertir el ajuste de stock")
		}
		return nil, fmt.Errorf("pedido: actualizar ítems: %w", err)
	}

	uc.appendHistory(ctx, id, order.Status, order.Status, userID, "ítems actualizados")
	return uc.GetByID(ctx, id)
}

// ChangeStatus aplica una transición de estado. Un estado desconocido se rechaza antes de cualquier llamada remota.
// Entregado registra la fecha de entrega; cancelado libera el stock del pedido.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, id, target, userID, note string) (*dto.OrderResponse, error) {
	next := entity.OrderStatus(target)
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.transition(ctx, order, next, userID, note); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

func (uc *OrderUseCase) transition(ctx context.Context, order *entity.Order, next entity.OrderStatus, userID, note string) error {
	if !order.Status.CanTransitionTo(next) {
		return fmt.Errorf("%s → %s: %w", order.Status, next, domain.ErrInvalidTransition)
	}

	items := order.StockItems()
	if next == entity.OrderCancelled && len(items) > 0 {
		if err := uc.stock.Release(ctx, items); err != nil {
			return err
		}
	}

	var deliveredAt *time.Time
	if next == entity.OrderDelivered {
		t := uc.now()
		deliveredAt = &t
	}
	if err := uc.orders.UpdateStatus(ctx, order.ID, next, deliveredAt); err != nil {
		if next == entity.OrderCancelled && len(items) > 0 {
			if rErr := uc.stock.Reserve(ctx, items, stock.ReserveOptions{}); rErr != nil {
				uc.log.Error().Err(rErr).Str("pedido_id", order.ID).
					Msg("pedido: cancelación fallida y no se pudo volver a reservar el stock")
			}
		}
		return fmt.Errorf("pedido: cambiar estado: %w", err)
	}

	uc.appendHistory(ctx, order.ID, order.Status, next, userID, note)
	order.Status = next
	return nil
}

func (uc *OrderUseCase) appendHistory(ctx context.Context, orderID string, from, to entity.OrderStatus, userID, note string) {
	h := &entity.OrderHistory{
		ID:         uuid.New().String(),
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		UserID:     optionalID(userID),
		Note:       note,
		CreatedAt:  uc.now(),
	}
	if err := uc.orders.AppendHistory(ctx, h); err != nil {
		uc.log.Error().Err(err).Str("pedido_id", orderID).Str("estado", string(to)).
			Msg("pedido: no se pudo registrar el historial")
	}
}

// AssignCarrier asigna transportista y pasa el pedido a asignado (si no lo estaba).
func (uc *OrderUseCase) AssignCarrier(ctx context.Context, id, carrierID, userID string) (*dto.OrderResponse, error) {
	if carrierID == "" {
		return nil, &domain.ValidationError{Errors: []string{"transportista_id es obligatorio"}}
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.OrderAssigned && !order.Status.CanTransitionTo(entity.OrderAssigned) {
		return nil, fmt.Errorf("%s → %s: %w", order.Status, entity.OrderAssigned, domain.ErrInvalidTransition)
	}
	// El transportista se graba recién con el pedido ya en asignado.
	if order.Status != entity.OrderAssigned {
		if err := uc.transition(ctx, order, entity.OrderAssigned, userID, "transportista asignado"); err != nil {
			return nil, err
		}
	}
	if err := uc.orders.SetCarrier(ctx, id, carrierID); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// UpdateDeliveryOrder actualiza el orden de entrega en bloque (todo o nada).
// Si el procedimiento remoto no existe, actualiza pedido por pedido.
func (uc *OrderUseCase) UpdateDeliveryOrder(ctx context.Context, items []dto.DeliveryPositionItem) (*dto.DeliveryOrderResponse, error) {
	if err := uc.val.Struct(dto.DeliveryOrderRequest{Items: items}); err != nil {
		return nil, err
	}
	positions := make([]repository.DeliveryPosition, 0, len(items))
	for _, it := range items {
		positions = append(positions, repository.DeliveryPosition{OrderID: it.OrderID, Position: it.Position})
	}

	err := uc.gateway.BatchDeliveryPositions(ctx, positions)
	if err == nil {
		return &dto.DeliveryOrderResponse{Updated: len(positions)}, nil
	}
	if !errors.Is(err, domain.ErrRPCUnavailable) {
		return nil, err
	}

	uc.log.Warn().Int("pedidos", len(positions)).Msg("orden de entrega: procedimiento no disponible, actualizando uno por uno")
	for i, p := range positions {
		if err := uc.orders.SetDeliveryPosition(ctx, p.OrderID, p.Position); err != nil {
			return &dto.DeliveryOrderResponse{Updated: i, Fallback: true},
				fmt.Errorf("orden de entrega: pedido %s: %w", p.OrderID, err)
		}
	}
	return &dto.DeliveryOrderResponse{Updated: len(positions), Fallback: true}, nil
}

// UpdatePaymentStatus cambia el estado de pago (pendiente, parcial, pagado).
func (uc *OrderUseCase) UpdatePaymentStatus(ctx context.Context, id, status string) (*dto.OrderResponse, error) {
	ps := entity.PaymentStatus(status)
	if !ps.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.orders.SetPaymentStatus(ctx, id, ps); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Stats conteo por estado; ingresos y ticket promedio solo sobre pedidos entregados del rango.
func (uc *OrderUseCase) Stats(ctx context.Context, from, to *time.Time) (*dto.OrderStats, error) {
	orders, err := uc.orders.List(ctx, repository.OrderFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	stats := &dto.OrderStats{
		ByStatus:      make(map[string]int, len(entity.OrderStatuses())),
		Revenue:       decimal.Zero,
		AverageTicket: decimal.Zero,
	}
	for _, s := range entity.OrderStatuses() {
		stats.ByStatus[string(s)] = 0
	}
	for _, o := range orders {
		stats.Total++
		stats.ByStatus[string(o.Status)]++
		if o.Status == entity.OrderDelivered {
			stats.Delivered++
			stats.Revenue = stats.Revenue.Add(o.Total)
		}
	}
	if stats.Delivered > 0 {
		stats.AverageTicket = stats.Revenue.Div(decimal.NewFromInt(int64(stats.Delivered))).Round(2)
	}
	stats.Revenue = stats.Revenue.Round(2)
	return stats, nil
}

// List listado filtrado; vacío ante error de lectura.
func (uc *OrderUseCase) List(ctx context.Context, f repository.OrderFilter) *dto.OrderListResponse {
	page := dto.PageRequest{Limit: f.Limit, Offset: f.Offset}
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset

	resp := &dto.OrderListResponse{Items: []dto.OrderResponse{}, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}}
	orders, err := uc.orders.List(ctx, f)
	if err != nil {
		uc.log.Error().Err(err).Msg("pedidos: listado falló")
		return resp
	}
	for _, o := range orders {
		resp.Items = append(resp.Items, *toOrderResponse(o))
	}
	return resp
}

// GetByID pedido con sus ítems; (nil, nil) si no existe.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// History historial de estados del pedido, más antiguo primero.
func (uc *OrderUseCase) History(ctx context.Context, id string) ([]dto.HistoryResponse, error) {
	rows, err := uc.orders.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoryResponse, 0, len(rows))
	for _, h := range rows {
		out = append(out, dto.HistoryResponse{
			ID:         h.ID,
			FromStatus: string(h.FromStatus),
			ToStatus:   string(h.ToStatus),
			UserID:     h.UserID,
			Note:       h.Note,
			CreatedAt:  h.CreatedAt,
		})
	}
	return out, nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	resp := &dto.OrderResponse{
		ID:               o.ID,
		CustomerID:       o.CustomerID,
		CustomerName:     o.CustomerName,
		SalespersonID:    o.SalespersonID,
		CarrierID:        o.CarrierID,
		Status:           string(o.Status),
		PaymentStatus:    string(o.PaymentStatus),
		Total:            o.Total,
		Notes:            o.Notes,
		DeliveryPosition: o.DeliveryPosition,
		DeliveredAt:      o.DeliveredAt,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return resp
}
