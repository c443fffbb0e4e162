package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/bodega-ledger/pkg/config"
)

// Counter cuenta eventos por clave dentro de una ventana fija.
type Counter interface {
	// Incr suma uno a key y devuelve el total de la ventana en curso.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter implementa Counter con INCR + EXPIRE.
type RedisCounter struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisClient crea el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisCounter usa prefix para aislar las claves del contador.
func NewRedisCounter(rdb *redis.Client, prefix string) *RedisCounter {
	return &RedisCounter{rdb: rdb, prefix: prefix}
}

// Incr fija el vencimiento de la ventana en el primer golpe de cada clave.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := c.prefix + key
	n, err := c.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, k, window).Err(); err != nil {
			return n, fmt.Errorf("redis expire: %w", err)
		}
	}
	return n, nil
}
