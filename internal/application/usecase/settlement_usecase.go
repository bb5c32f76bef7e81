package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// SettlementUseCase revisión administrativa de rendiciones y resolución de salvedades.
type SettlementUseCase struct {
	repo repository.SettlementRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewSettlementUseCase construye el caso de uso.
func NewSettlementUseCase(repo repository.SettlementRepository, log zerolog.Logger) *SettlementUseCase {
	return &SettlementUseCase{repo: repo, log: log, now: time.Now}
}

func reviewTarget(s string) bool {
	switch s {
	case entity.SettlementApproved, entity.SettlementRejected, entity.SettlementObserved:
		return true
	}
	return false
}

func reviewable(s string) bool {
	return s == entity.SettlementPresented || s == entity.SettlementObserved
}

// Review aprueba, rechaza u observa una rendición presentada u observada.
func (uc *SettlementUseCase) Review(ctx context.Context, id, target, notes, adminID string) (*entity.Settlement, error) {
	if !reviewTarget(target) {
		return nil, domain.ErrInvalidStatus
	}
	if target != entity.SettlementApproved && strings.TrimSpace(notes) == "" {
		return nil, &domain.ValidationError{Errors: []string{"observaciones es obligatorio al rechazar u observar"}}
	}
	s, err := uc.repo.GetSettlement(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if !reviewable(s.Status) {
		return nil, fmt.Errorf("rendición %s: %w", s.Status, domain.ErrInvalidTransition)
	}
	now := uc.now()
	if err := uc.repo.ReviewSettlement(ctx, id, target, notes, adminID, now); err != nil {
		return nil, err
	}
	s.Status = target
	s.Notes = notes
	s.ReviewedBy = &adminID
	s.ReviewedAt = &now
	return s, nil
}

// ListSettlements rendiciones filtradas por estado ("" = todas); vacío ante error de lectura.
func (uc *SettlementUseCase) ListSettlements(ctx context.Context, status string, limit, offset int) []*entity.Settlement {
	list, err := uc.repo.ListSettlements(ctx, status, limit, offset)
	if err != nil {
		uc.log.Error().Err(err).Str("estado", status).Msg("rendiciones: listado falló")
		return []*entity.Settlement{}
	}
	if list == nil {
		list = []*entity.Settlement{}
	}
	return list
}

// Resolve marca como resuelta una salvedad pendiente.
func (uc *SettlementUseCase) Resolve(ctx context.Context, id, resolution, adminID string) (*entity.DeliveryException, error) {
	if strings.TrimSpace(resolution) == "" {
		return nil, &domain.ValidationError{Errors: []string{"resolucion es obligatorio"}}
	}
	e, err := uc.repo.GetException(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if e.Status != entity.ExceptionPending {
		return nil, fmt.Errorf("salvedad %s: %w", e.Status, domain.ErrInvalidTransition)
	}
	now := uc.now()
	if err := uc.repo.ResolveException(ctx, id, resolution, adminID, now); err != nil {
		return nil, err
	}
	e.Status = entity.ExceptionResolved
	e.Resolution = resolution
	e.ResolvedBy = &adminID
	e.ResolvedAt = &now
	return e, nil
}

// ListExceptions salvedades filtradas por estado ("" = todas); vacío ante error de lectura.
func (uc *SettlementUseCase) ListExceptions(ctx context.Context, status string, limit, offset int) []*entity.DeliveryException {
	list, err := uc.repo.ListExceptions(ctx, status, limit, offset)
	if err != nil {
		uc.log.Error().Err(err).Str("estado", status).Msg("salvedades: listado falló")
		return []*entity.DeliveryException{}
	}
	if list == nil {
		list = []*entity.DeliveryException{}
	}
	return list
}
