package cache

import (
	"context"
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var _ repository.NameLookup = (*NameCache)(nil)

const (
	staffPrefix   = "nombre:perfil:"
	productPrefix = "nombre:producto:"
)

// NameCache decorador de NameLookup sobre Redis. Si Redis falla se consulta directamente la DB.
type NameCache struct {
	client redis.UniversalClient
	next   repository.NameLookup
	ttl    time.Duration
	log    zerolog.Logger
}

// NewNameCache envuelve next con caché de nombres por id.
func NewNameCache(client redis.UniversalClient, next repository.NameLookup, ttl time.Duration, log zerolog.Logger) *NameCache {
	return &NameCache{client: client, next: next, ttl: ttl, log: log}
}

// StaffNames nombres de perfiles del personal.
func (c *NameCache) StaffNames(ctx context.Context, ids []string) (map[string]string, error) {
	return c.lookup(ctx, staffPrefix, ids, c.next.StaffNames)
}

// ProductNames nombres de productos.
func (c *NameCache) ProductNames(ctx context.Context, ids []string) (map[string]string, error) {
	return c.lookup(ctx, productPrefix, ids, c.next.ProductNames)
}

func (c *NameCache) lookup(ctx context.Context, prefix string, ids []string, load func(context.Context, []string) (map[string]string, error)) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = prefix + id
	}

	out := make(map[string]string, len(ids))
	missing := ids
	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.Warn().Err(err).Str("prefijo", prefix).Msg("caché de nombres no disponible; se consulta la DB")
	} else {
		missing = nil
		for i, v := range vals {
			if s, ok := v.(string); ok {
				out[ids[i]] = s
				continue
			}
			missing = append(missing, ids[i])
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := load(ctx, missing)
	if err != nil {
		return nil, err
	}
	pipe := c.client.Pipeline()
	for id, name := range loaded {
		out[id] = name
		pipe.Set(ctx, prefix+id, name, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn().Err(err).Str("prefijo", prefix).Msg("no se pudo guardar nombres en caché")
	}
	return out, nil
}
