package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// SettlementRepository rendiciones de transportistas y salvedades de entrega.
type SettlementRepository interface {
	GetSettlement(ctx context.Context, id string) (*entity.Settlement, error)
	ListSettlements(ctx context.Context, status string, limit, offset int) ([]*entity.Settlement, error)
	ReviewSettlement(ctx context.Context, id, status, notes, reviewerID string, at time.Time) error

	GetException(ctx context.Context, id string) (*entity.DeliveryException, error)
	ListExceptions(ctx context.Context, status string, limit, offset int) ([]*entity.DeliveryException, error)
	ResolveException(ctx context.Context, id, resolution, userID string, at time.Time) error
}
