package repository

import (
	"context"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// CustomerFilter criterios de búsqueda de clientes. Query busca en nombre, dirección, teléfono y CUIT.
type CustomerFilter struct {
	Query      string
	Zone       string
	OnlyActive bool
	Limit      int
	Offset     int
}

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	List(ctx context.Context, f CustomerFilter) ([]*entity.Customer, error)
	Count(ctx context.Context, f CustomerFilter) (int, error)
	Create(ctx context.Context, c *entity.Customer) error
	Update(ctx context.Context, c *entity.Customer) error
	Delete(ctx context.Context, id string) error
	Zones(ctx context.Context) ([]string, error)
}
