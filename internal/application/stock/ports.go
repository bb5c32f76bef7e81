package stock

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// ProductReader lecturas de producto que necesita el gestor de stock.
type ProductReader interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]*entity.Product, error)
}

// SalesReader ventas de un producto en un rango (pedidos no cancelados).
type SalesReader interface {
	SoldQuantity(ctx context.Context, productID string, from, to time.Time) (units, orders int, err error)
}
