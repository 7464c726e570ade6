package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

const redisKeyPrefix = "lojinha:"

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Close() error {
	return r.client.Close()
}

func (r *RedisAdapter) ReadSnapshot(ctx context.Context) ([]domain.Product, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+productsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get snapshot: %w", err)
	}
	products, ok := decodeSnapshot(raw)
	return products, ok, nil
}

func (r *RedisAdapter) WriteSnapshot(ctx context.Context, products []domain.Product) error {
	data, err := encodeSnapshot(products)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisKeyPrefix+productsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}

func (r *RedisAdapter) LoadToken(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, redisKeyPrefix+tokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return token, nil
}

func (r *RedisAdapter) SaveToken(ctx context.Context, token string) error {
	return r.client.Set(ctx, redisKeyPrefix+tokenKey, token, 0).Err()
}

func (r *RedisAdapter) ClearToken(ctx context.Context) error {
	return r.client.Del(ctx, redisKeyPrefix+tokenKey).Err()
}
