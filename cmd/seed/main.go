package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/inventory-manager/internal/cache"
	"github.com/andresuchdata/inventory-manager/internal/config"
	"github.com/andresuchdata/inventory-manager/internal/domain"
	"github.com/andresuchdata/inventory-manager/internal/repository/sqlstore"
	"github.com/andresuchdata/inventory-manager/internal/source"
	"github.com/andresuchdata/inventory-manager/internal/storage"
	"github.com/andresuchdata/inventory-manager/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Dataset file (.json, .yaml or .yml)",
		Required: true,
		EnvVars:  []string{"SEED_FILE"},
	}
}

// readDataset loads and validates the dataset named by --file.
func readDataset(c *cli.Context) (*domain.Dataset, error) {
	src, err := source.NewFileSource(c.String("file"))
	if err != nil {
		return nil, err
	}

	ds, err := src.Load(c.Context)
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func seedSQL(c *cli.Context) error {
	ds, err := readDataset(c)
	if err != nil {
		return err
	}

	driver := c.String("driver")
	if driver != "pgx" && driver != "sqlite" {
		return fmt.Errorf("unsupported driver %q (want pgx or sqlite)", driver)
	}

	db, err := sqlstore.Open(driver, c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := sqlstore.NewInventoryRepository(db)
	if err := repo.EnsureSchema(c.Context); err != nil {
		return err
	}
	if err := repo.ReplaceDataset(c.Context, ds); err != nil {
		return err
	}

	logger.Log.Info().
		Str("driver", driver).
		Int("current", len(ds.Current)).
		Int("optimal", len(ds.Optimal)).
		Msg("seeded inventory tables")
	return nil
}

func seedRedis(c *cli.Context) error {
	ds, err := readDataset(c)
	if err != nil {
		return err
	}

	cfg := config.Load().Cache
	if url := c.String("redis-url"); url != "" {
		cfg.RedisURL = url
	}
	key := c.String("key")

	ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
	defer cancel()

	client, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}

	snapshots := cache.NewRedisSnapshotCache(client, key, 0)
	defer snapshots.Close()

	if err := snapshots.Set(ctx, ds); err != nil {
		return err
	}

	logger.Log.Info().Str("key", key).Int("current", len(ds.Current)).Msg("published dataset to redis")
	return nil
}

func seedS3(c *cli.Context) error {
	ds, err := readDataset(c)
	if err != nil {
		return err
	}

	cfg := config.Load()
	key := c.String("key")
	if key == "" {
		key = cfg.Source.ObjectKey
	}

	payload, err := source.Encode(ds, source.FormatFromName(key))
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}
	if err := client.UploadObject(c.Context, key, payload); err != nil {
		return err
	}

	logger.Log.Info().Str("bucket", cfg.Storage.Bucket).Str("key", key).Msg("uploaded dataset object")
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("could not load .env file")
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Publish an inventory dataset file to a backend the server can load from",
		Commands: []*cli.Command{
			{
				Name:  "sql",
				Usage: "Create the inventory tables and replace their rows",
				Flags: []cli.Flag{
					newFileFlag(),
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
					&cli.StringFlag{
						Name:  "driver",
						Usage: "Database driver: pgx or sqlite",
						Value: "pgx",
					},
				},
				Action: seedSQL,
			},
			{
				Name:  "redis",
				Usage: "Store the dataset under the snapshot key",
				Flags: []cli.Flag{
					newFileFlag(),
					&cli.StringFlag{
						Name:    "redis-url",
						Usage:   "Redis URL (overrides REDIS_HOST/REDIS_PORT)",
						EnvVars: []string{"REDIS_URL"},
					},
					&cli.StringFlag{
						Name:    "key",
						Usage:   "Redis key",
						Value:   "inventory:dataset",
						EnvVars: []string{"CACHE_SNAPSHOT_KEY"},
					},
				},
				Action: seedRedis,
			},
			{
				Name:  "s3",
				Usage: "Upload the dataset to the configured bucket",
				Flags: []cli.Flag{
					newFileFlag(),
					&cli.StringFlag{
						Name:  "key",
						Usage: "Object key (defaults to SOURCE_OBJECT_KEY); the extension selects JSON or YAML",
					},
				},
				Action: seedS3,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed failed")
	}
}
