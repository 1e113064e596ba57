package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/inventory-manager/internal/config"
	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/redis/go-redis/v9"
)

const defaultSnapshotKey = "inventory:dataset"

// SnapshotCache keeps the last successfully loaded dataset so a restart can
// fall back to it when the primary source is unavailable. Only raw records are
// stored; evaluated statuses are always computed on demand.
type SnapshotCache interface {
	Get(ctx context.Context) (*domain.Dataset, bool, error)
	Set(ctx context.Context, ds *domain.Dataset) error
	Invalidate(ctx context.Context) error
	Close() error
}

type redisSnapshotCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

type noopSnapshotCache struct{}

func NewSnapshotCache(ctx context.Context, cfg config.CacheConfig) (SnapshotCache, error) {
	if !cfg.Enabled {
		return &noopSnapshotCache{}, nil
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisSnapshotCache(client, cfg.SnapshotKey, time.Duration(cfg.SnapshotTTLSec)*time.Second), nil
}

// NewRedisSnapshotCache wraps an existing client. A zero ttl keeps the snapshot indefinitely.
func NewRedisSnapshotCache(client *redis.Client, key string, ttl time.Duration) SnapshotCache {
	if key == "" {
		key = defaultSnapshotKey
	}
	if ttl < 0 {
		ttl = 0
	}
	return &redisSnapshotCache{client: client, key: key, ttl: ttl}
}

func NewNoopSnapshotCache() SnapshotCache {
	return &noopSnapshotCache{}
}

func (c *redisSnapshotCache) Get(ctx context.Context) (*domain.Dataset, bool, error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var ds domain.Dataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		return nil, false, fmt.Errorf("decode inventory snapshot cache: %w", err)
	}

	return &ds, true, nil
}

func (c *redisSnapshotCache) Set(ctx context.Context, ds *domain.Dataset) error {
	payload, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("encode inventory snapshot cache: %w", err)
	}

	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSnapshotCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

func (c *redisSnapshotCache) Close() error {
	return c.client.Close()
}

func (n *noopSnapshotCache) Get(ctx context.Context) (*domain.Dataset, bool, error) {
	return nil, false, nil
}

func (n *noopSnapshotCache) Set(ctx context.Context, ds *domain.Dataset) error {
	return nil
}

func (n *noopSnapshotCache) Invalidate(ctx context.Context) error {
	return nil
}

func (n *noopSnapshotCache) Close() error {
	return nil
}
