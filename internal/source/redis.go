package source

import (
	"context"
	"fmt"

	"github.com/andresuchdata/inventory-manager/internal/cache"
	"github.com/andresuchdata/inventory-manager/internal/domain"
)

type redisSource struct {
	snapshots cache.SnapshotCache
}

// NewRedisSource reads the dataset published under the snapshot key.
func NewRedisSource(snapshots cache.SnapshotCache) Source {
	return &redisSource{snapshots: snapshots}
}

func (s *redisSource) Kind() string { return KindRedis }

func (s *redisSource) Load(ctx context.Context) (*domain.Dataset, error) {
	ds, ok, err := s.snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("redis source: no dataset published: %w", domain.ErrNotFound)
	}
	return ds, nil
}

func (s *redisSource) Close() error {
	return s.snapshots.Close()
}
