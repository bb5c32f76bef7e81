package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

var _ repository.ShrinkageRepository = (*ShrinkageRepo)(nil)

var shrinkageColumns = []string{
	"id", "producto_id", "cantidad", "motivo", coalesce("observaciones", "''"), "usuario_id", "created_at",
}

// ShrinkageRepo persistencia de mermas.
type ShrinkageRepo struct {
	t *Table[entity.Shrinkage]
}

// NewShrinkageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShrinkageRepository(q Querier) *ShrinkageRepo {
	return &ShrinkageRepo{t: NewTable[entity.Shrinkage](q, "mermas", shrinkageColumns, "created_at DESC")}
}

// Create registra una merma ya descontada del stock.
func (r *ShrinkageRepo) Create(ctx context.Context, s *entity.Shrinkage) error {
	return r.t.Insert(ctx, map[string]any{
		"id":            s.ID,
		"producto_id":   s.ProductID,
		"cantidad":      s.Quantity,
		"motivo":        s.Reason,
		"observaciones": s.Notes,
		"usuario_id":    s.UserID,
		"created_at":    s.CreatedAt,
	})
}

// ListByProduct mermas del producto en el rango, más recientes primero.
func (r *ShrinkageRepo) ListByProduct(ctx context.Context, productID string, from, to time.Time) ([]entity.Shrinkage, error) {
	list, err := r.t.All(ctx, ListOptions{Filters: []Filter{
		Eq("producto_id", productID),
		Gte("created_at", from),
		Lt("created_at", to),
	}})
	if err != nil {
		return nil, err
	}
	out := make([]entity.Shrinkage, 0, len(list))
	for _, s := range list {
		out = append(out, *s)
	}
	return out, nil
}
