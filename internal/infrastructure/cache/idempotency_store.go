// Package cache implementa el almacén de claves de idempotencia sobre Redis.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Gestao-api/internal/application/ports"
	"github.com/jhoicas/Gestao-api/pkg/config"
)

const defaultKeyPrefix = "gestao:idempotency:"

var (
	_ ports.IdempotencyStore = (*RedisIdempotencyStore)(nil)
	_ ports.IdempotencyStore = NoopIdempotencyStore{}
)

// RedisIdempotencyStore guarda cada clave con SETNX y TTL; la primera petición gana.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisClient abre el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewRedisIdempotencyStore construye el almacén sobre un cliente existente.
func NewRedisIdempotencyStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *RedisIdempotencyStore) key(companyID, key string) string {
	return s.keyPrefix + companyID + ":" + key
}

// Reserve marca la clave como usada. false si ya existía.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, companyID, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(companyID, key), "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	return ok, nil
}

// Release libera la clave para que el cliente pueda reintentar una petición fallida.
func (s *RedisIdempotencyStore) Release(ctx context.Context, companyID, key string) error {
	if err := s.client.Del(ctx, s.key(companyID, key)).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

// NoopIdempotencyStore se usa cuando Redis no está configurado: acepta todas las claves.
type NoopIdempotencyStore struct{}

// Reserve siempre acepta.
func (NoopIdempotencyStore) Reserve(context.Context, string, string) (bool, error) { return true, nil }

// Release no hace nada.
func (NoopIdempotencyStore) Release(context.Context, string, string) error { return nil }
