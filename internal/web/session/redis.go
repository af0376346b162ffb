package session

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
)

const (
	redisPrefix    = "blackwork:session:"
	redisTimeout   = 5 * time.Second
	redisScanCount = 100
)

var _ fiber.Storage = (*RedisStorage)(nil)

// RedisStorage implements fiber.Storage on top of go-redis.
// Keys are namespaced so Reset only touches sessions.
type RedisStorage struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStorage connects to the redis server of the session config.
func NewRedisStorage(cfg config.Session) *RedisStorage {
	return NewRedisStorageWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}))
}

// NewRedisStorageWithClient wraps an existing client.
func NewRedisStorageWithClient(client redis.UniversalClient) *RedisStorage {
	return &RedisStorage{client: client, prefix: redisPrefix}
}

// Ping checks the connection.
func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns nil without error for a missing key, as fiber storages do.
func (r *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	return val, err
}

// Set stores val for exp, zero means no expiry.
func (r *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	return r.client.Set(ctx, r.prefix+key, val, exp).Err()
}

// Delete removes key.
func (r *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	return r.client.Del(ctx, r.prefix+key).Err()
}

// Reset removes every session key.
func (r *RedisStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	iter := r.client.Scan(ctx, 0, r.prefix+"*", redisScanCount).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}

	return iter.Err()
}

// Close closes the client.
func (r *RedisStorage) Close() error {
	return r.client.Close()
}
