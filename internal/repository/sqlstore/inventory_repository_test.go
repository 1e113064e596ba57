package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *InventoryRepository {
	t.Helper()
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "inventory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewInventoryRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestReplaceAndLoadDataset(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	updated := time.Date(2024, 6, 13, 10, 0, 0, 0, time.UTC)
	ds := &domain.Dataset{
		Current: []domain.StockRecord{
			{ID: "product_002", Name: "B", Category: "clothing", CurrentStock: 150, Unit: "pcs", LastUpdated: updated, Location: "B-2-1"},
			{ID: "product_001", Name: "A", Category: "electronics", CurrentStock: 25, Unit: "pcs", LastUpdated: updated, Location: "A-1-2"},
		},
		Optimal: []domain.PolicyRecord{
			{ID: "product_001", Name: "A", MinStock: 20, MaxStock: 100, OptimalStock: 50, ReorderPoint: 30, ReorderQuantity: 50, LeadTimeDays: 7, SeasonalFactor: decimal.RequireFromString("1.2")},
		},
	}
	require.NoError(t, repo.ReplaceDataset(ctx, ds))

	got, err := repo.LoadDataset(ctx)
	require.NoError(t, err)

	require.Len(t, got.Current, 2)
	assert.Equal(t, "product_002", got.Current[0].ID, "position order must be preserved")
	assert.Equal(t, "product_001", got.Current[1].ID)
	assert.Equal(t, 150, got.Current[0].CurrentStock)
	assert.Equal(t, "B-2-1", got.Current[0].Location)
	assert.True(t, got.Current[0].LastUpdated.Equal(updated))

	require.Len(t, got.Optimal, 1)
	pol := got.Optimal[0]
	assert.Equal(t, 30, pol.ReorderPoint)
	assert.Equal(t, 7, pol.LeadTimeDays)
	assert.True(t, pol.SeasonalFactor.Equal(decimal.RequireFromString("1.2")))
}

func TestReplaceDatasetOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	first := &domain.Dataset{Current: []domain.StockRecord{{ID: "old", LastUpdated: time.Now()}}}
	require.NoError(t, repo.ReplaceDataset(ctx, first))

	second := &domain.Dataset{Current: []domain.StockRecord{{ID: "new", LastUpdated: time.Now()}}}
	require.NoError(t, repo.ReplaceDataset(ctx, second))

	got, err := repo.LoadDataset(ctx)
	require.NoError(t, err)
	require.Len(t, got.Current, 1)
	assert.Equal(t, "new", got.Current[0].ID)
	assert.Empty(t, got.Optimal)
}

func TestReplaceDatasetRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	good := &domain.Dataset{Current: []domain.StockRecord{{ID: "keep", LastUpdated: time.Now()}}}
	require.NoError(t, repo.ReplaceDataset(ctx, good))

	// duplicate primary key fails the second insert
	bad := &domain.Dataset{Current: []domain.StockRecord{
		{ID: "dup", LastUpdated: time.Now()},
		{ID: "dup", LastUpdated: time.Now()},
	}}
	require.Error(t, repo.ReplaceDataset(ctx, bad))

	got, err := repo.LoadDataset(ctx)
	require.NoError(t, err)
	require.Len(t, got.Current, 1)
	assert.Equal(t, "keep", got.Current[0].ID)
}
