package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de un pedido.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pendiente"
	OrderPreparing OrderStatus = "en_preparacion"
	OrderAssigned  OrderStatus = "asignado"
	OrderEnRoute   OrderStatus = "en_camino"
	OrderDelivered OrderStatus = "entregado"
	OrderCancelled OrderStatus = "cancelado"
)

// orderTransitions máquina de estados permitida. Entregado y cancelado son terminales.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderPreparing, OrderAssigned, OrderCancelled},
	OrderPreparing: {OrderAssigned, OrderPending, OrderCancelled},
	OrderAssigned:  {OrderEnRoute, OrderPreparing, OrderCancelled},
	OrderEnRoute:   {OrderDelivered, OrderAssigned, OrderCancelled},
	OrderDelivered: {},
	OrderCancelled: {},
}

// OrderStatuses devuelve los estados conocidos en orden de ciclo de vida.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderPending, OrderPreparing, OrderAssigned, OrderEnRoute, OrderDelivered, OrderCancelled}
}

// Valid indica si el estado pertenece al conjunto conocido.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo indica si el pasaje s → target está permitido.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Editable indica si los ítems del pedido todavía pueden modificarse.
func (s OrderStatus) Editable() bool {
	return s == OrderPending || s == OrderPreparing
}

// PaymentStatus estado de cobro del pedido.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pendiente"
	PaymentPartial PaymentStatus = "parcial"
	PaymentPaid    PaymentStatus = "pagado"
)

// Valid indica si el estado de pago es conocido.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}

// Order pedido de un cliente (tabla pedidos).
type Order struct {
	ID               string          `db:"id"`
	CustomerID       string          `db:"cliente_id"`
	CustomerName     string          `db:"cliente_nombre"`
	SalespersonID    *string         `db:"vendedor_id"`
	CarrierID        *string         `db:"transportista_id"`
	Status           OrderStatus     `db:"estado"`
	PaymentStatus    PaymentStatus   `db:"estado_pago"`
	Total            decimal.Decimal `db:"total"`
	Notes            string          `db:"notas"`
	DeliveryPosition *int            `db:"orden_entrega"`
	DeliveredAt      *time.Time      `db:"fecha_entrega"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
	Items            []OrderItem     `db:"-"`
}

// StockItems convierte las líneas del pedido en ítems de stock.
func (o *Order) StockItems() []StockItem {
	items := make([]StockItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, StockItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return items
}

// OrderItem línea de pedido (tabla pedido_items).
type OrderItem struct {
	ID          string          `db:"id"`
	OrderID     string          `db:"pedido_id"`
	ProductID   string          `db:"producto_id"`
	ProductName string          `db:"producto_nombre"`
	Quantity    int             `db:"cantidad"`
	UnitPrice   decimal.Decimal `db:"precio_unitario"`
	Subtotal    decimal.Decimal `db:"subtotal"`
}

// OrderHistory fila inmutable del historial de estados de un pedido.
type OrderHistory struct {
	ID         string      `db:"id"`
	OrderID    string      `db:"pedido_id"`
	FromStatus OrderStatus `db:"estado_anterior"`
	ToStatus   OrderStatus `db:"estado_nuevo"`
	UserID     *string     `db:"usuario_id"`
	Note       string      `db:"nota"`
	CreatedAt  time.Time   `db:"created_at"`
}
