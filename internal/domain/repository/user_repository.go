package repository

import (
	"context"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// UserRepository lectura de credenciales para login.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// NameLookup resolución en lote de nombres por id (evita N+1 en reportes).
// Los ids desconocidos no aparecen en el mapa.
type NameLookup interface {
	StaffNames(ctx context.Context, ids []string) (map[string]string, error)
	ProductNames(ctx context.Context, ids []string) (map[string]string, error)
}
