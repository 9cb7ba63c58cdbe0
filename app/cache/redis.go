package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisPrefix = "page:"

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to addr and verifies the connection.
func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		// Plain host:port, as accepted by REDIS_URL in development.
		opts = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// Each path is one hash with a field per session; Revalidate deletes the whole hash.
func (r *Redis) Get(ctx context.Context, path, variant string) ([]byte, bool, error) {
	b, err := r.client.HGet(ctx, redisPrefix+path, variant).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, path, variant string, value []byte) error {
	key := redisPrefix + path
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, variant, value)
		if r.ttl > 0 {
			p.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	return err
}

func (r *Redis) Revalidate(ctx context.Context, path string) error {
	return r.client.Del(ctx, redisPrefix+path).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
