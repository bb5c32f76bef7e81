package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// StockGateway primitivas atómicas de stock ejecutadas en el servidor (descontar_stock / restaurar_stock).
// El descuento valida stock suficiente para todas las filas antes de confirmar cualquiera.
type StockGateway interface {
	Decrement(ctx context.Context, items []entity.StockItem) error
	Restore(ctx context.Context, items []entity.StockItem) error
}

// ShrinkageRepository persistencia de mermas.
type ShrinkageRepository interface {
	Create(ctx context.Context, s *entity.Shrinkage) error
	ListByProduct(ctx context.Context, productID string, from, to time.Time) ([]entity.Shrinkage, error)
}
