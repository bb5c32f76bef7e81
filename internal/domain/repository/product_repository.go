package repository

import (
	"context"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter criterios de búsqueda de productos. Query busca por nombre o código (sin distinguir mayúsculas).
type ProductFilter struct {
	Query      string
	Category   string
	OnlyActive bool
	Limit      int // 0 = sin límite
	Offset     int
}

// PriceUpdate nuevo precio de venta para un producto (actualización masiva).
type PriceUpdate struct {
	ProductID string          `json:"producto_id"`
	Price     decimal.Decimal `json:"precio"`
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetByCode devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	Count(ctx context.Context, f ProductFilter) (int, error)
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
	ListLowStock(ctx context.Context, threshold int) ([]*entity.Product, error)
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal) error
}

// PriceGateway actualización masiva de precios en un único procedimiento remoto.
// Devuelve domain.ErrRPCUnavailable si el procedimiento no existe.
type PriceGateway interface {
	BatchUpdatePrices(ctx context.Context, updates []PriceUpdate) error
}
