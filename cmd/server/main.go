// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/inventory-manager/internal/api"
	"github.com/andresuchdata/inventory-manager/internal/cache"
	"github.com/andresuchdata/inventory-manager/internal/config"
	"github.com/andresuchdata/inventory-manager/internal/inventory"
	"github.com/andresuchdata/inventory-manager/internal/mcpserver"
	"github.com/andresuchdata/inventory-manager/internal/metrics"
	"github.com/andresuchdata/inventory-manager/internal/repository"
	"github.com/andresuchdata/inventory-manager/internal/scheduler"
	"github.com/andresuchdata/inventory-manager/internal/service"
	"github.com/andresuchdata/inventory-manager/internal/source"
	"github.com/andresuchdata/inventory-manager/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// configureGin keeps gin's debug and error output off stdout, which carries
// the MCP stdio transport.
func configureGin(mode string) {
	gin.DefaultWriter = os.Stderr
	gin.DefaultErrorWriter = os.Stderr
	if mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Log.Level)
	configureGin(cfg.Server.Mode)

	if !cfg.MCP.Enabled && !cfg.Server.Enabled {
		logger.Log.Fatal().Msg("Both MCP_ENABLED and SERVER_ENABLED are false, nothing to serve")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Register(prometheus.DefaultRegisterer)

	// Initialize data source
	src, err := source.New(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("kind", cfg.Source.Kind).Msg("Failed to initialize data source")
	}

	snapshots, err := cache.NewSnapshotCache(ctx, cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Snapshot cache unavailable, continuing without it")
		snapshots = cache.NewNoopSnapshotCache()
	}
	defer snapshots.Close()

	store := repository.NewMemoryStore(nil)
	loader := source.NewLoader(src, snapshots, store)
	defer loader.Close()

	if err := loader.Bootstrap(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load inventory dataset")
	}

	if cfg.Source.RefreshCron != "" {
		sched := scheduler.NewScheduler(cfg.Source.RefreshCron, loader, time.Duration(cfg.Source.TimeoutSeconds)*time.Second)
		if err := sched.Start(); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to start refresh scheduler")
		}
		defer sched.Stop()
	}

	// Initialize services
	inventoryService := service.NewInventoryService(store, inventory.NewPlanner())

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Server.Enabled {
		router := api.NewRouter(&api.Services{InventoryService: inventoryService}, cfg.Server.AllowedOrigins)
		srv := &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		}

		g.Go(func() error {
			logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting HTTP server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			logger.Log.Info().Msg("Shutting down HTTP server...")

			// The server has 5 seconds to finish the requests it is currently handling
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if cfg.MCP.Enabled {
		mcpServer := mcpserver.New(cfg.MCP, inventoryService)
		g.Go(func() error {
			err := mcpserver.Serve(gctx, mcpServer, os.Stdin, os.Stdout)
			// the client closing stdin ends the session and the process
			stop()
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server stopped with error")
	}

	logger.Log.Info().Msg("Server exiting")
}
