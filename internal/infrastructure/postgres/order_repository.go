package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// orderView cabecera de pedido con el nombre del cliente; los filtros usan los nombres de columna de la vista.
const orderView = `(
	SELECT p.id, p.cliente_id, COALESCE(c.nombre, '') AS cliente_nombre, p.vendedor_id, p.transportista_id,
	       p.estado, COALESCE(p.estado_pago, 'pendiente') AS estado_pago, p.total, COALESCE(p.notas, '') AS notas,
	       p.orden_entrega, p.fecha_entrega, p.created_at, p.updated_at
	FROM pedidos p
	LEFT JOIN clientes c ON c.id = p.cliente_id
) AS v`

var historyColumns = []string{
	"id", "pedido_id", coalesce("estado_anterior", "''"), "estado_nuevo", "usuario_id", coalesce("nota", "''"), "created_at",
}

// OrderRepo lecturas y actualizaciones simples sobre pedidos.
type OrderRepo struct {
	q       Querier
	orders  *Table[entity.Order]
	items   *Table[entity.OrderItem]
	history *Table[entity.OrderHistory]
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{
		q:       q,
		orders:  NewTable[entity.Order](q, "pedidos", nil, "created_at DESC"),
		items:   NewTable[entity.OrderItem](q, "pedido_items", nil, ""),
		history: NewTable[entity.OrderHistory](q, "pedido_historial", historyColumns, "created_at"),
	}
}

func orderFilters(f repository.OrderFilter) []Filter {
	var filters []Filter
	if f.Status != "" {
		filters = append(filters, Eq("estado", string(f.Status)))
	}
	if f.CustomerID != "" {
		filters = append(filters, Eq("cliente_id", f.CustomerID))
	}
	if f.CarrierID != "" {
		filters = append(filters, Eq("transportista_id", f.CarrierID))
	}
	if f.From != nil {
		filters = append(filters, Gte("created_at", *f.From))
	}
	if f.To != nil {
		filters = append(filters, Lt("created_at", *f.To))
	}
	return filters
}

// GetByID obtiene el pedido con sus ítems. Devuelve (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	list, err := r.orders.Query(ctx, "SELECT * FROM "+orderView+" WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	o := list[0]
	items, err := r.items.Query(ctx, `
		SELECT i.id, i.pedido_id, i.producto_id, COALESCE(pr.nombre, '') AS producto_nombre,
		       i.cantidad, i.precio_unitario, i.subtotal
		FROM pedido_items i
		LEFT JOIN productos pr ON pr.id = i.producto_id
		WHERE i.pedido_id = $1
		ORDER BY producto_nombre`, id)
	if err != nil {
		return nil, err
	}
	o.Items = make([]entity.OrderItem, 0, len(items))
	for _, it := range items {
		o.Items = append(o.Items, *it)
	}
	return o, nil
}

// List lista cabeceras de pedido (sin ítems), más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	w, args := where(orderFilters(f))
	query := "SELECT * FROM " + orderView + w + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return r.orders.Query(ctx, query, args...)
}

// UpdateStatus cambia el estado; deliveredAt solo se escribe si no es nil.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, deliveredAt *time.Time) error {
	values := map[string]any{"estado": string(status), "updated_at": time.Now()}
	if deliveredAt != nil {
		values["fecha_entrega"] = *deliveredAt
	}
	return r.orders.Update(ctx, id, values)
}

// SetCarrier asigna el transportista.
func (r *OrderRepo) SetCarrier(ctx context.Context, id, carrierID string) error {
	return r.orders.Update(ctx, id, map[string]any{"transportista_id": carrierID, "updated_at": time.Now()})
}

// SetDeliveryPosition fija la posición en la hoja de ruta.
func (r *OrderRepo) SetDeliveryPosition(ctx context.Context, id string, position int) error {
	return r.orders.Update(ctx, id, map[string]any{"orden_entrega": position, "updated_at": time.Now()})
}

// SetPaymentStatus cambia el estado de cobro.
func (r *OrderRepo) SetPaymentStatus(ctx context.Context, id string, status entity.PaymentStatus) error {
	return r.orders.Update(ctx, id, map[string]any{"estado_pago": string(status), "updated_at": time.Now()})
}

// AppendHistory agrega una fila al historial (append-only).
func (r *OrderRepo) AppendHistory(ctx context.Context, h *entity.OrderHistory) error {
	var from any
	if h.FromStatus != "" {
		from = string(h.FromStatus)
	}
	return r.history.Insert(ctx, map[string]any{
		"id":              h.ID,
		"pedido_id":       h.OrderID,
		"estado_anterior": from,
		"estado_nuevo":    string(h.ToStatus),
		"usuario_id":      h.UserID,
		"nota":            h.Note,
		"created_at":      h.CreatedAt,
	})
}

// ListHistory historial del pedido en orden cronológico.
func (r *OrderRepo) ListHistory(ctx context.Context, orderID string) ([]entity.OrderHistory, error) {
	list, err := r.history.All(ctx, ListOptions{Filters: []Filter{Eq("pedido_id", orderID)}})
	if err != nil {
		return nil, err
	}
	out := make([]entity.OrderHistory, 0, len(list))
	for _, h := range list {
		out = append(out, *h)
	}
	return out, nil
}

// SoldQuantity unidades y pedidos no cancelados que incluyen el producto en el rango.
func (r *OrderRepo) SoldQuantity(ctx context.Context, productID string, from, to time.Time) (units, orders int, err error) {
	const query = `
	SELECT COALESCE(SUM(i.cantidad), 0), COUNT(DISTINCT p.id)
	FROM pedido_items i
	JOIN pedidos p ON p.id = i.pedido_id
	WHERE i.producto_id = $1
	  AND p.estado <> 'cancelado'
	  AND p.created_at >= $2 AND p.created_at < $3`
	if err = r.q.QueryRow(ctx, query, productID, from, to).Scan(&units, &orders); err != nil {
		return 0, 0, fmt.Errorf("pedidos: vendidos: %w", err)
	}
	return units, orders, nil
}
