package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

var (
	settlementColumns = []string{
		"id", "transportista_id", "fecha", coalesce("monto_total", "0"), "estado",
		coalesce("observaciones", "''"), "revisado_por", "revisado_at",
	}
	exceptionColumns = []string{
		"id", "pedido_id", "producto_id", coalesce("cantidad", "0"), coalesce("motivo", "''"), "estado",
		coalesce("resolucion", "''"), "resuelto_por", "resuelto_at", "created_at",
	}
)

// SettlementRepo rendiciones y salvedades.
type SettlementRepo struct {
	settlements *Table[entity.Settlement]
	exceptions  *Table[entity.DeliveryException]
}

// NewSettlementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{
		settlements: NewTable[entity.Settlement](q, "rendiciones", settlementColumns, "fecha DESC"),
		exceptions:  NewTable[entity.DeliveryException](q, "salvedades", exceptionColumns, "created_at DESC"),
	}
}

func statusFilter(status string) []Filter {
	if status == "" {
		return nil
	}
	return []Filter{Eq("estado", status)}
}

// GetSettlement obtiene una rendición. (nil, nil) si no existe.
func (r *SettlementRepo) GetSettlement(ctx context.Context, id string) (*entity.Settlement, error) {
	return r.settlements.ByID(ctx, id)
}

// ListSettlements lista rendiciones, opcionalmente por estado.
func (r *SettlementRepo) ListSettlements(ctx context.Context, status string, limit, offset int) ([]*entity.Settlement, error) {
	return r.settlements.All(ctx, ListOptions{Filters: statusFilter(status), Limit: limit, Offset: offset})
}

// ReviewSettlement registra la revisión del administrador.
func (r *SettlementRepo) ReviewSettlement(ctx context.Context, id, status, notes, reviewerID string, at time.Time) error {
	return r.settlements.Update(ctx, id, map[string]any{
		"estado":        status,
		"observaciones": notes,
		"revisado_por":  reviewerID,
		"revisado_at":   at,
	})
}

// GetException obtiene una salvedad. (nil, nil) si no existe.
func (r *SettlementRepo) GetException(ctx context.Context, id string) (*entity.DeliveryException, error) {
	return r.exceptions.ByID(ctx, id)
}

// ListExceptions lista salvedades, opcionalmente por estado.
func (r *SettlementRepo) ListExceptions(ctx context.Context, status string, limit, offset int) ([]*entity.DeliveryException, error) {
	return r.exceptions.All(ctx, ListOptions{Filters: statusFilter(status), Limit: limit, Offset: offset})
}

// ResolveException marca la salvedad como resuelta.
func (r *SettlementRepo) ResolveException(ctx context.Context, id, resolution, userID string, at time.Time) error {
	return r.exceptions.Update(ctx, id, map[string]any{
		"estado":       entity.ExceptionResolved,
		"resolucion":   resolution,
		"resuelto_por": userID,
		"resuelto_at":  at,
	})
}
