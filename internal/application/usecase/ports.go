package usecase

import (
	"context"

	"github.com/jhoicas/Distribuidora-api/internal/application/stock"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// StockService superficie del gestor de stock que usan los pedidos.
type StockService interface {
	Reserve(ctx context.Context, items []entity.StockItem, opts stock.ReserveOptions) error
	Release(ctx context.Context, items []entity.StockItem) error
	Reconcile(ctx context.Context, original, updated []entity.StockItem) error
}

// Locker exclusión mutua por clave (ej. edición de ítems de un mismo pedido).
// Devuelve domain.ErrLocked si otro proceso tiene la clave.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

var _ StockService = (*stock.Manager)(nil)
