package sqlstore

import (
	"context"
	"fmt"

	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

// InventoryRepository reads and writes the current_inventory and
// optimal_inventory tables. The position column preserves dataset order.
type InventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) schema() []string {
	tsType, numType := "TIMESTAMPTZ", "NUMERIC(10,4)"
	if r.db.DriverName() == "sqlite" {
		tsType, numType = "TIMESTAMP", "NUMERIC"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS current_inventory (
			id            TEXT PRIMARY KEY,
			position      INTEGER NOT NULL,
			name          TEXT NOT NULL DEFAULT '',
			category      TEXT NOT NULL DEFAULT '',
			current_stock INTEGER NOT NULL DEFAULT 0,
			unit          TEXT NOT NULL DEFAULT '',
			last_updated  %s NOT NULL,
			location      TEXT NOT NULL DEFAULT ''
		)`, tsType),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS optimal_inventory (
			id               TEXT PRIMARY KEY,
			position         INTEGER NOT NULL,
			name             TEXT NOT NULL DEFAULT '',
			min_stock        INTEGER NOT NULL DEFAULT 0,
			max_stock        INTEGER NOT NULL DEFAULT 0,
			optimal_stock    INTEGER NOT NULL DEFAULT 0,
			reorder_point    INTEGER NOT NULL DEFAULT 0,
			reorder_quantity INTEGER NOT NULL DEFAULT 0,
			lead_time_days   INTEGER NOT NULL DEFAULT 0,
			seasonal_factor  %s NOT NULL DEFAULT 1
		)`, numType),
	}
}

// EnsureSchema creates the inventory tables if they do not exist.
func (r *InventoryRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range r.schema() {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error creating inventory schema: %w", err)
		}
	}
	return nil
}

// LoadDataset reads both tables concurrently.
func (r *InventoryRepository) LoadDataset(ctx context.Context) (*domain.Dataset, error) {
	var (
		current []domain.StockRecord
		optimal []domain.PolicyRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := `
			SELECT id, name, category, current_stock, unit, last_updated, location
			FROM current_inventory
			ORDER BY position, id
		`
		if err := r.db.SelectContext(gctx, &current, query); err != nil {
			return fmt.Errorf("error getting current inventory: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		query := `
			SELECT id, name, min_stock, max_stock, optimal_stock, reorder_point,
			       reorder_quantity, lead_time_days, seasonal_factor
			FROM optimal_inventory
			ORDER BY position, id
		`
		if err := r.db.SelectContext(gctx, &optimal, query); err != nil {
			return fmt.Errorf("error getting optimal inventory: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.Dataset{Current: current, Optimal: optimal}, nil
}

// ReplaceDataset swaps the table contents for ds in a single transaction.
func (r *InventoryRepository) ReplaceDataset(ctx context.Context, ds *domain.Dataset) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range []string{"current_inventory", "optimal_inventory"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("error clearing %s: %w", table, err)
			}
		}

		insertCurrent := tx.Rebind(`
			INSERT INTO current_inventory
				(id, position, name, category, current_stock, unit, last_updated, location)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		for i, rec := range ds.Current {
			if _, err := tx.ExecContext(ctx, insertCurrent,
				rec.ID, i, rec.Name, rec.Category, rec.CurrentStock, rec.Unit, rec.LastUpdated.UTC(), rec.Location,
			); err != nil {
				return fmt.Errorf("error inserting current inventory %s: %w", rec.ID, err)
			}
		}

		insertOptimal := tx.Rebind(`
			INSERT INTO optimal_inventory
				(id, position, name, min_stock, max_stock, optimal_stock, reorder_point,
				 reorder_quantity, lead_time_days, seasonal_factor)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		for i, rec := range ds.Optimal {
			if _, err := tx.ExecContext(ctx, insertOptimal,
				rec.ID, i, rec.Name, rec.MinStock, rec.MaxStock, rec.OptimalStock, rec.ReorderPoint,
				rec.ReorderQuantity, rec.LeadTimeDays, rec.SeasonalFactor.String(),
			); err != nil {
				return fmt.Errorf("error inserting optimal inventory %s: %w", rec.ID, err)
			}
		}

		return nil
	})
}
