// Package lock serializa operaciones por clave con locks distribuidos en Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisLocker obtiene un lock por clave con reintentos acotados.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
	log    zerolog.Logger
}

// NewRedisLocker construye el locker. ttl acota cuánto puede retener el lock un proceso caído.
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(client),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 30),
		log:    log,
	}
}

// Lock bloquea key hasta llamar a unlock. Si otro proceso lo retiene más allá de los reintentos → domain.ErrLocked.
func (l *RedisLocker) Lock(ctx context.Context, key string) (unlock func(), err error) {
	lk, err := l.client.Obtain(ctx, "lock:"+key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrLocked)
	}
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return func() {
		if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("clave", key).Msg("no se pudo liberar el lock")
		}
	}, nil
}
