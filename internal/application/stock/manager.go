// Package stock concentra toda operación que afecta stock: verificación, reserva, liberación,
// reconciliación de ediciones de pedido y mermas. Los cambios de stock los ejecutan los
// procedimientos remotos atómicos; aquí solo se decide el orden de las llamadas.
package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/Distribuidora-api/internal/domain/stock"
	"github.com/rs/zerolog"
)

// ReserveOptions opciones de Reserve. Validate=false omite la verificación previa (usado en rollbacks).
type ReserveOptions struct {
	Validate bool
}

// Validated opciones por defecto: verificar disponibilidad antes de descontar.
func Validated() ReserveOptions { return ReserveOptions{Validate: true} }

// Manager gestor de stock.
type Manager struct {
	products     ProductReader
	gateway      repository.StockGateway
	shrinkage    repository.ShrinkageRepository
	sales        SalesReader
	log          zerolog.Logger
	lowStockDflt int
	now          func() time.Time
}

// NewManager construye el gestor. lowStockDefault se usa cuando LowStock recibe umbral <= 0 (0 = stock mínimo de cada producto).
func NewManager(
	products ProductReader,
	gateway repository.StockGateway,
	shrinkage repository.ShrinkageRepository,
	sales SalesReader,
	log zerolog.Logger,
	lowStockDefault int,
) *Manager {
	return &Manager{
		products:     products,
		gateway:      gateway,
		shrinkage:    shrinkage,
		sales:        sales,
		log:          log,
		lowStockDflt: lowStockDefault,
		now:          time.Now,
	}
}

func validateItems(items []entity.StockItem) error {
	var errs []string
	for i, it := range items {
		if it.ProductID == "" {
			errs = append(errs, fmt.Sprintf("items[%d].producto_id es obligatorio", i))
		}
		if it.Quantity <= 0 {
			errs = append(errs, fmt.Sprintf("items[%d].cantidad debe ser mayor a 0", i))
		}
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// CheckAvailability verifica stock para cada ítem sin efectos secundarios.
// Un producto inexistente se informa como faltante con disponible 0.
func (m *Manager) CheckAvailability(ctx context.Context, items []entity.StockItem) (*dto.Availability, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	shortfalls := make([]entity.Shortfall, 0)
	for _, it := range stock.Aggregate(items) {
		p, err := m.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("stock: leer producto %s: %w", it.ProductID, err)
		}
		if p == nil {
			shortfalls = append(shortfalls, entity.Shortfall{
				ProductID: it.ProductID,
				Available: 0,
				Requested: it.Quantity,
				Reason:    entity.ShortfallNotFound,
			})
			continue
		}
		if p.Stock < it.Quantity {
			shortfalls = append(shortfalls, entity.Shortfall{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   it.Quantity,
				Reason:      entity.ShortfallInsufficient,
			})
		}
	}
	return &dto.Availability{OK: len(shortfalls) == 0, Shortfalls: shortfalls}, nil
}

// Reserve descuenta stock. Con Validate, ante cualquier faltante devuelve *domain.StockError
// sin llamar al procedimiento de descuento.
func (m *Manager) Reserve(ctx context.Context, items []entity.StockItem, opts ReserveOptions) error {
	if len(items) == 0 {
		return nil
	}
	if err := validateItems(items); err != nil {
		return err
	}
	if opts.Validate {
		av, err := m.CheckAvailability(ctx, items)
		if err != nil {
			return err
		}
		if !av.OK {
			return &domain.StockError{Shortfalls: av.Shortfalls}
		}
	}
	if err := m.gateway.Decrement(ctx, stock.Aggregate(items)); err != nil {
		return fmt.Errorf("stock: descontar: %w", err)
	}
	return nil
}

// Release devuelve stock.
func (m *Manager) Release(ctx context.Context, items []entity.StockItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := validateItems(items); err != nil {
		return err
	}
	if err := m.gateway.Restore(ctx, stock.Aggregate(items)); err != nil {
		return fmt.Errorf("stock: restaurar: %w", err)
	}
	return nil
}

// Reconcile ajusta stock al editar los ítems de un pedido.
// Primero restaura (cantidades reducidas o ítems quitados), luego reserva con validación.
// Si la reserva falla, vuelve a descontar lo restaurado sin validar y devuelve el error de la reserva.
func (m *Manager) Reconcile(ctx context.Context, original, updated []entity.StockItem) error {
	toRestore, toReserve := stock.Diff(original, updated)
	if len(toRestore) == 0 && len(toReserve) == 0 {
		return nil
	}

	if err := m.Release(ctx, toRestore); err != nil {
		return err
	}
	if err := m.Reserve(ctx, toReserve, Validated()); err != nil {
		if len(toRestore) > 0 {
			if rbErr := m.Reserve(ctx, toRestore, ReserveOptions{}); rbErr != nil {
				m.log.Error().Err(rbErr).
					Interface("items", toRestore).
					Msg("reconciliación: no se pudo revertir la restauración de stock")
			}
		}
		return err
	}
	m.log.Debug().
		Int("restaurado", stock.Total(toRestore)).
		Int("reservado", stock.Total(toReserve)).
		Msg("reconciliación de stock aplicada")
	return nil
}

// RecordShrinkage registra una merma: descuenta stock y solo entonces inserta el registro.
// Si el insert falla restaura el stock; un fallo de esa compensación se loguea y se devuelve el error original.
func (m *Manager) RecordShrinkage(ctx context.Context, in dto.ShrinkageRequest) (*entity.Shrinkage, error) {
	var errs []string
	if in.ProductID == "" {
		errs = append(errs, "producto_id es obligatorio")
	}
	if in.Quantity <= 0 {
		errs = append(errs, "cantidad debe ser mayor a 0")
	}
	if in.Reason == "" {
		errs = append(errs, "motivo es obligatorio")
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	items := []entity.StockItem{{ProductID: in.ProductID, Quantity: in.Quantity}}
	if err := m.gateway.Decrement(ctx, items); err != nil {
		return nil, fmt.Errorf("stock: descontar merma: %w", err)
	}

	rec := &entity.Shrinkage{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		Notes:     in.Notes,
		CreatedAt: m.now(),
	}
	if in.UserID != "" {
		uid := in.UserID
		rec.UserID = &uid
	}
	if err := m.shrinkage.Create(ctx, rec); err != nil {
		if rErr := m.gateway.Restore(ctx, items); rErr != nil {
			m.log.Error().Err(rErr).
				Str("producto_id", in.ProductID).
				Int("cantidad", in.Quantity).
				Msg("merma: stock descontado sin registro; la restauración falló")
		}
		return nil, fmt.Errorf("stock: registrar merma: %w", err)
	}
	return rec, nil
}

// LowStock productos en o por debajo del umbral (threshold > 0) o de su stock mínimo (threshold <= 0).
// Ordenados por déficit descendente.
func (m *Manager) LowStock(ctx context.Context, threshold int) ([]dto.LowStockItem, error) {
	if threshold <= 0 {
		threshold = m.lowStockDflt
	}
	products, err := m.products.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("stock: stock bajo: %w", err)
	}
	out := make([]dto.LowStockItem, 0, len(products))
	for _, p := range products {
		limit := threshold
		if limit <= 0 {
			limit = p.MinStock
		}
		if p.Stock > limit {
			continue
		}
		out = append(out, dto.LowStockItem{
			ProductID: p.ID,
			Code:      p.Code,
			Name:      p.Name,
			Category:  p.Category,
			Stock:     p.Stock,
			MinStock:  p.MinStock,
			Threshold: limit,
			Deficit:   limit - p.Stock,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Deficit != out[j].Deficit {
			return out[i].Deficit > out[j].Deficit
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// MovementsSummary salidas de un producto en [from, to): ventas de pedidos no cancelados y mermas.
func (m *Manager) MovementsSummary(ctx context.Context, productID string, from, to time.Time) (*dto.MovementsSummary, error) {
	if productID == "" || from.After(to) {
		return nil, domain.ErrInvalidInput
	}
	p, err := m.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("stock: leer producto: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	units, orders, err := m.sales.SoldQuantity(ctx, productID, from, to)
	if err != nil {
		return nil, fmt.Errorf("stock: ventas: %w", err)
	}
	shrink, err := m.shrinkage.ListByProduct(ctx, productID, from, to)
	if err != nil {
		return nil, fmt.Errorf("stock: mermas: %w", err)
	}
	shrinkUnits := 0
	for _, s := range shrink {
		shrinkUnits += s.Quantity
	}
	if shrink == nil {
		shrink = []entity.Shrinkage{}
	}
	return &dto.MovementsSummary{
		ProductID:      productID,
		From:           from,
		To:             to,
		UnitsSold:      units,
		Orders:         orders,
		ShrinkageUnits: shrinkUnits,
		ShrinkageCount: len(shrink),
		TotalOutflow:   units + shrinkUnits,
		Shrinkage:      shrink,
	}, nil
}
