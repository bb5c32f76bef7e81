package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

var customerColumns = []string{
	"id", "nombre", coalesce("direccion", "''"), coalesce("telefono", "''"), coalesce("email", "''"),
	coalesce("cuit", "''"), coalesce("zona", "''"), coalesce("lista_precio", "''"),
	"activo", "created_at", "updated_at",
}

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
	t *Table[entity.Customer]
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q, t: NewTable[entity.Customer](q, "clientes", customerColumns, "nombre")}
}

func customerFilters(f repository.CustomerFilter) []Filter {
	var filters []Filter
	if f.Query != "" {
		filters = append(filters, Search(f.Query, "nombre", "direccion", "telefono", "cuit"))
	}
	if f.Zone != "" {
		filters = append(filters, Eq("zona", f.Zone))
	}
	if f.OnlyActive {
		filters = append(filters, Eq("activo", true))
	}
	return filters
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.t.ByID(ctx, id)
}

// List lista clientes ordenados por nombre.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	return r.t.All(ctx, ListOptions{Filters: customerFilters(f), Limit: f.Limit, Offset: f.Offset})
}

// Count total de clientes para el filtro.
func (r *CustomerRepo) Count(ctx context.Context, f repository.CustomerFilter) (int, error) {
	return r.t.Count(ctx, customerFilters(f)...)
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	return r.t.Insert(ctx, map[string]any{
		"id":           c.ID,
		"nombre":       c.Name,
		"direccion":    c.Address,
		"telefono":     c.Phone,
		"email":        c.Email,
		"cuit":         c.TaxID,
		"zona":         c.Zone,
		"lista_precio": c.PriceList,
		"activo":       c.Active,
		"created_at":   c.CreatedAt,
		"updated_at":   c.UpdatedAt,
	})
}

// Update actualiza un cliente existente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	return r.t.Update(ctx, c.ID, map[string]any{
		"nombre":       c.Name,
		"direccion":    c.Address,
		"telefono":     c.Phone,
		"email":        c.Email,
		"cuit":         c.TaxID,
		"zona":         c.Zone,
		"lista_precio": c.PriceList,
		"activo":       c.Active,
		"updated_at":   c.UpdatedAt,
	})
}

// Delete elimina un cliente por ID.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	return r.t.Delete(ctx, id)
}

// Zones zonas distintas (no vacías) para los filtros de la UI.
func (r *CustomerRepo) Zones(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT zona FROM clientes
		WHERE zona IS NOT NULL AND zona <> ''
		ORDER BY zona`)
	if err != nil {
		return nil, fmt.Errorf("clientes: zonas: %w", err)
	}
	zones, err := pgxCollectStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("clientes: zonas: %w", err)
	}
	return zones, nil
}
