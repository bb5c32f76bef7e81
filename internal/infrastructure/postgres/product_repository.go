package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = []string{
	"id", "nombre", "codigo", coalesce("categoria", "''"), "precio", "stock", "stock_minimo",
	coalesce("costo_sin_iva", "0"), coalesce("costo_con_iva", "0"), "activo", "created_at", "updated_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	t *Table[entity.Product]
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{t: NewTable[entity.Product](q, "productos", productColumns, "nombre")}
}

func productFilters(f repository.ProductFilter) []Filter {
	var filters []Filter
	if f.Query != "" {
		filters = append(filters, Search(f.Query, "nombre", "codigo"))
	}
	if f.Category != "" {
		filters = append(filters, Eq("categoria", f.Category))
	}
	if f.OnlyActive {
		filters = append(filters, Eq("activo", true))
	}
	return filters
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.t.ByID(ctx, id)
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.t.One(ctx, Eq("codigo", code))
}

// List lista productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	return r.t.All(ctx, ListOptions{Filters: productFilters(f), Limit: f.Limit, Offset: f.Offset})
}

// Count total de productos para el filtro (sin paginación).
func (r *ProductRepo) Count(ctx context.Context, f repository.ProductFilter) (int, error) {
	return r.t.Count(ctx, productFilters(f)...)
}

// Create persiste un nuevo producto. Código repetido → domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.t.Insert(ctx, map[string]any{
		"id":            p.ID,
		"nombre":        p.Name,
		"codigo":        p.Code,
		"categoria":     p.Category,
		"precio":        p.Price,
		"stock":         p.Stock,
		"stock_minimo":  p.MinStock,
		"costo_sin_iva": p.CostNet,
		"costo_con_iva": p.CostGross,
		"activo":        p.Active,
		"created_at":    p.CreatedAt,
		"updated_at":    p.UpdatedAt,
	})
}

// Update actualiza un producto existente. El stock no se toca: solo lo mueven los procedimientos de stock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.t.Update(ctx, p.ID, map[string]any{
		"nombre":        p.Name,
		"codigo":        p.Code,
		"categoria":     p.Category,
		"precio":        p.Price,
		"stock_minimo":  p.MinStock,
		"costo_sin_iva": p.CostNet,
		"costo_con_iva": p.CostGross,
		"activo":        p.Active,
		"updated_at":    p.UpdatedAt,
	})
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.t.Delete(ctx, id)
}

// ListLowStock productos activos con stock <= threshold, o <= stock_minimo si threshold <= 0.
func (r *ProductRepo) ListLowStock(ctx context.Context, threshold int) ([]*entity.Product, error) {
	if threshold > 0 {
		return r.t.All(ctx, ListOptions{
			Filters: []Filter{Eq("activo", true), Lte("stock", threshold)},
			OrderBy: "stock, nombre",
		})
	}
	query := fmt.Sprintf(`
		SELECT %s FROM productos
		WHERE activo AND stock <= stock_minimo
		ORDER BY stock_minimo - stock DESC, nombre`, r.t.selectList())
	return r.t.Query(ctx, query)
}

// UpdatePrice actualiza solo el precio de venta (fallback de la actualización masiva).
func (r *ProductRepo) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) error {
	return r.t.Update(ctx, id, map[string]any{"precio": price, "updated_at": time.Now()})
}
