package kvstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (r *redisStore) Get(ctx context.Context, key string) (string, bool, error) {

	value, err := r.client.Get(ctx, key).Result()
	if err != nil {

		if err == redis.Nil {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to get key %s from redis: %w", key, err)

	}

	return value, true, nil
}

func (r *redisStore) Set(ctx context.Context, key, value string) error {

	// No TTL: cart and order state live until explicitly cleared.
	err := r.client.Set(ctx, key, value, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set key %s in redis: %w", key, err)
	}

	return nil
}

func (r *redisStore) Remove(ctx context.Context, key string) error {

	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete key %s from redis: %w", key, err)
	}

	return nil
}

func (r *redisStore) Close() error {
	return r.client.Close()
}
