package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderFilter criterios de listado de pedidos. To es exclusivo. Limit 0 = sin límite.
type OrderFilter struct {
	Status     entity.OrderStatus
	CustomerID string
	CarrierID  string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// OrderRepository lecturas y actualizaciones simples sobre pedidos.
// Creación y edición de ítems pasan por OrderGateway (procedimientos remotos).
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, deliveredAt *time.Time) error
	SetCarrier(ctx context.Context, id, carrierID string) error
	SetDeliveryPosition(ctx context.Context, id string, position int) error
	SetPaymentStatus(ctx context.Context, id string, status entity.PaymentStatus) error
	AppendHistory(ctx context.Context, h *entity.OrderHistory) error
	ListHistory(ctx context.Context, orderID string) ([]entity.OrderHistory, error)
	// SoldQuantity unidades vendidas y cantidad de pedidos (no cancelados) de un producto en el rango.
	SoldQuantity(ctx context.Context, productID string, from, to time.Time) (units, orders int, err error)
}

// NewOrderItem línea enviada a crear_pedido / actualizar_items_pedido.
type NewOrderItem struct {
	ProductID string          `json:"producto_id"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
}

// NewOrder datos de alta de un pedido; el total lo calcula el procedimiento remoto.
type NewOrder struct {
	CustomerID    string
	SalespersonID string
	Notes         string
	Items         []NewOrderItem
}

// DeliveryPosition posición de un pedido en la hoja de ruta.
type DeliveryPosition struct {
	OrderID  string `json:"pedido_id"`
	Position int    `json:"orden_entrega"`
}

// OrderGateway procedimientos remotos atómicos sobre pedidos.
// BatchDeliveryPositions devuelve domain.ErrRPCUnavailable si el procedimiento no existe.
type OrderGateway interface {
	CreateOrder(ctx context.Context, in NewOrder) (orderID string, err error)
	ReplaceItems(ctx context.Context, orderID string, items []NewOrderItem) error
	BatchDeliveryPositions(ctx context.Context, positions []DeliveryPosition) error
}
