package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea de pedido.
type OrderItemRequest struct {
	ProductID string          `json:"producto_id" validate:"required"`
	Quantity  int             `json:"cantidad" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"precio_unitario" validate:"gte=0"`
}

// CreateOrderRequest body para POST /api/pedidos. El vendedor se toma del token.
type CreateOrderRequest struct {
	CustomerID string             `json:"cliente_id" validate:"required"`
	Notes      string             `json:"notas" validate:"omitempty,max=500"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateItemsRequest body para PUT /api/pedidos/:id/items.
type UpdateItemsRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ChangeStatusRequest body para PATCH /api/pedidos/:id/estado.
type ChangeStatusRequest struct {
	Status string `json:"estado"`
	Note   string `json:"nota"`
}

// AssignCarrierRequest body para PATCH /api/pedidos/:id/transportista.
type AssignCarrierRequest struct {
	CarrierID string `json:"transportista_id"`
}

// PaymentStatusRequest body para PATCH /api/pedidos/:id/pago.
type PaymentStatusRequest struct {
	Status string `json:"estado_pago"`
}

// DeliveryPositionItem posición de un pedido en la hoja de ruta.
type DeliveryPositionItem struct {
	OrderID  string `json:"pedido_id" validate:"required"`
	Position int    `json:"orden_entrega" validate:"gte=0"`
}

// DeliveryOrderRequest body para PUT /api/pedidos/orden-entrega.
type DeliveryOrderRequest struct {
	Items []DeliveryPositionItem `json:"items" validate:"required,min=1,dive"`
}

// DeliveryOrderResponse Fallback indica actualización secuencial.
type DeliveryOrderResponse struct {
	Updated  int  `json:"actualizados"`
	Fallback bool `json:"fallback"`
}

// OrderItemResponse línea de pedido en respuestas.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"producto_id"`
	ProductName string          `json:"producto_nombre"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID               string              `json:"id"`
	CustomerID       string              `json:"cliente_id"`
	CustomerName     string              `json:"cliente_nombre"`
	SalespersonID    *string             `json:"vendedor_id"`
	CarrierID        *string             `json:"transportista_id"`
	Status           string              `json:"estado"`
	PaymentStatus    string              `json:"estado_pago"`
	Total            decimal.Decimal     `json:"total"`
	Notes            string              `json:"notas"`
	DeliveryPosition *int                `json:"orden_entrega"`
	DeliveredAt      *time.Time          `json:"fecha_entrega"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	Items            []OrderItemResponse `json:"items,omitempty"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// OrderStats estadísticas de pedidos. Ingresos y ticket promedio solo sobre entregados.
type OrderStats struct {
	Total         int             `json:"total"`
	ByStatus      map[string]int  `json:"por_estado"`
	Delivered     int             `json:"entregados"`
	Revenue       decimal.Decimal `json:"ingresos"`
	AverageTicket decimal.Decimal `json:"promedio_ticket"`
}

// HistoryResponse entrada del historial de un pedido.
type HistoryResponse struct {
	ID         string    `json:"id"`
	FromStatus string    `json:"estado_anterior"`
	ToStatus   string    `json:"estado_nuevo"`
	UserID     *string   `json:"usuario_id"`
	Note       string    `json:"nota"`
	CreatedAt  time.Time `json:"created_at"`
}
