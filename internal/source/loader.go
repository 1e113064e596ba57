package source

import (
	"context"
	"fmt"

	"github.com/andresuchdata/inventory-manager/internal/cache"
	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/andresuchdata/inventory-manager/internal/metrics"
	"github.com/andresuchdata/inventory-manager/internal/repository"
	"github.com/andresuchdata/inventory-manager/pkg/logger"
)

// Loader installs datasets from a Source into a MemoryStore, publishing each
// good dataset to the snapshot cache.
type Loader struct {
	source    Source
	snapshots cache.SnapshotCache
	store     *repository.MemoryStore
}

func NewLoader(src Source, snapshots cache.SnapshotCache, store *repository.MemoryStore) *Loader {
	if snapshots == nil {
		snapshots = cache.NewNoopSnapshotCache()
	}
	return &Loader{source: src, snapshots: snapshots, store: store}
}

// Load fetches and validates a dataset from the primary source.
func (l *Loader) Load(ctx context.Context) (*domain.Dataset, error) {
	kind := l.source.Kind()

	ds, err := l.source.Load(ctx)
	if err == nil {
		err = ds.Validate()
	}
	if err != nil {
		metrics.SourceLoads.WithLabelValues(kind, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("load %s source: %w", kind, err)
	}

	metrics.SourceLoads.WithLabelValues(kind, metrics.OutcomeOK).Inc()
	return ds, nil
}

// Bootstrap installs the initial dataset. When the primary source fails, the
// last published snapshot is used instead.
func (l *Loader) Bootstrap(ctx context.Context) error {
	ds, err := l.Load(ctx)
	if err == nil {
		l.install(ctx, ds)
		return nil
	}

	logger.Log.Warn().Err(err).Msg("source: primary load failed, trying snapshot cache")

	cached, ok, cacheErr := l.snapshots.Get(ctx)
	if cacheErr != nil {
		return fmt.Errorf("%w (snapshot cache: %v)", err, cacheErr)
	}
	if !ok {
		return err
	}
	if vErr := cached.Validate(); vErr != nil {
		if invErr := l.snapshots.Invalidate(ctx); invErr != nil {
			logger.Log.Warn().Err(invErr).Msg("source: could not drop invalid snapshot")
		}
		return fmt.Errorf("%w (snapshot cache: %v)", err, vErr)
	}

	l.replace(cached)
	logger.Log.Info().Int("products", l.store.Len()).Msg("source: installed dataset from snapshot cache")
	return nil
}

// Refresh reloads the primary source and swaps the store. On failure the
// installed snapshot is left untouched.
func (l *Loader) Refresh(ctx context.Context) error {
	ds, err := l.Load(ctx)
	if err != nil {
		return err
	}
	l.install(ctx, ds)
	return nil
}

func (l *Loader) install(ctx context.Context, ds *domain.Dataset) {
	l.replace(ds)

	if err := l.snapshots.Set(ctx, ds); err != nil {
		logger.Log.Warn().Err(err).Msg("source: snapshot cache publish failed")
	}

	logger.Log.Info().
		Str("kind", l.source.Kind()).
		Int("products", len(ds.Current)).
		Int("policies", len(ds.Optimal)).
		Msg("source: dataset installed")
}

func (l *Loader) replace(ds *domain.Dataset) {
	l.store.Replace(ds)
	metrics.Products.Set(float64(l.store.Len()))
}

// Close releases the source's connections.
func (l *Loader) Close() error {
	return l.source.Close()
}
