package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

var (
	_ repository.UserRepository = (*UserRepo)(nil)
	_ repository.NameLookup     = (*UserRepo)(nil)
)

var userColumns = []string{"id", "email", "password_hash", "perfil_id", "rol", "activo"}

// UserRepo credenciales de login y resolución de nombres del personal.
type UserRepo struct {
	q     Querier
	users *Table[entity.User]
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q, users: NewTable[entity.User](q, "usuarios", userColumns, "")}
}

// FindByEmail obtiene un usuario por email (sin distinguir mayúsculas). (nil, nil) si no existe.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	list, err := r.users.Query(ctx, `
		SELECT id, email, password_hash, perfil_id, rol, activo
		FROM usuarios WHERE lower(email) = lower($1) LIMIT 1`, email)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// StaffNames nombres de perfiles (vendedores, transportistas) en una sola consulta.
func (r *UserRepo) StaffNames(ctx context.Context, ids []string) (map[string]string, error) {
	return r.names(ctx, "perfiles", ids)
}

// ProductNames nombres de productos en una sola consulta.
func (r *UserRepo) ProductNames(ctx context.Context, ids []string) (map[string]string, error) {
	return r.names(ctx, "productos", ids)
}

func (r *UserRepo) names(ctx context.Context, table string, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, fmt.Sprintf("SELECT id::text, nombre FROM %s WHERE id::text = ANY($1)", ident(table)), ids)
	if err != nil {
		return nil, fmt.Errorf("%s: nombres: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("%s: nombres: %w", table, err)
		}
		out[id] = name
	}
	return out, rows.Err()
}
