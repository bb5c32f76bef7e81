package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SalesLine línea de pedido con los atributos de pedido, cliente y producto ya unidos.
// Lo produce la DB; el pipeline de exportación lo desnormaliza.
type SalesLine struct {
	OrderID       string               `db:"pedido_id"`
	OrderDate     time.Time            `db:"fecha"`
	Status        entity.OrderStatus   `db:"estado"`
	PaymentStatus entity.PaymentStatus `db:"estado_pago"`
	CustomerID    string               `db:"cliente_id"`
	CustomerName  string               `db:"cliente_nombre"`
	CustomerZone  string               `db:"cliente_zona"`
	CustomerTaxID string               `db:"cliente_cuit"`
	ProductID     string               `db:"producto_id"`
	ProductCode   string               `db:"producto_codigo"`
	ProductName   string               `db:"producto_nombre"`
	Category      string               `db:"categoria"`
	Quantity      int                  `db:"cantidad"`
	UnitPrice     decimal.Decimal      `db:"precio_unitario"`
	Subtotal      decimal.Decimal      `db:"subtotal"`
	UnitCost      decimal.Decimal      `db:"costo_unitario"` // costo sin IVA del producto
	SalespersonID *string              `db:"vendedor_id"`
	CarrierID     *string              `db:"transportista_id"`
}

// OrderHeader cabecera de pedido para agregaciones por cliente.
type OrderHeader struct {
	ID         string             `db:"id"`
	CustomerID string             `db:"cliente_id"`
	Status     entity.OrderStatus `db:"estado"`
	Total      decimal.Decimal    `db:"total"`
	CreatedAt  time.Time          `db:"created_at"`
}

// PurchaseLine línea de compra a proveedor con proveedor y producto unidos.
type PurchaseLine struct {
	PurchaseID    string          `db:"compra_id"`
	Date          time.Time       `db:"fecha"`
	Status        string          `db:"estado"`
	SupplierID    string          `db:"proveedor_id"`
	SupplierName  string          `db:"proveedor_nombre"`
	SupplierTaxID string          `db:"proveedor_cuit"`
	ProductID     string          `db:"producto_id"`
	ProductCode   string          `db:"producto_codigo"`
	ProductName   string          `db:"producto_nombre"`
	Category      string          `db:"categoria"`
	Quantity      int             `db:"cantidad"`
	UnitCost      decimal.Decimal `db:"costo_unitario"`
	Subtotal      decimal.Decimal `db:"subtotal"`
}

// CollectionRecord cobro registrado con cliente y transportista unidos.
type CollectionRecord struct {
	ID           string          `db:"id"`
	Date         time.Time       `db:"fecha"`
	CustomerID   string          `db:"cliente_id"`
	CustomerName string          `db:"cliente_nombre"`
	CustomerZone string          `db:"cliente_zona"`
	OrderID      *string         `db:"pedido_id"`
	CarrierName  string          `db:"transportista_nombre"`
	Amount       decimal.Decimal `db:"monto"`
	Method       string          `db:"metodo"`
}

// AnalyticsRepository consultas de solo lectura para la exportación analítica.
// Los rangos son semiabiertos [from, to) y excluyen pedidos cancelados.
type AnalyticsRepository interface {
	ListSalesLines(ctx context.Context, from, to time.Time) ([]SalesLine, error)
	ListOrderHeaders(ctx context.Context, from, to time.Time) ([]OrderHeader, error)
	// LastOrderDates fecha del último pedido no cancelado de cada cliente (histórico completo).
	LastOrderDates(ctx context.Context) (map[string]time.Time, error)
	ListCustomers(ctx context.Context) ([]*entity.Customer, error)
	ListProducts(ctx context.Context) ([]*entity.Product, error)
	ListPurchaseLines(ctx context.Context, from, to time.Time) ([]PurchaseLine, error)
	ListCollections(ctx context.Context, from, to time.Time) ([]CollectionRecord, error)
}
