package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/inventory-manager/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Refresher reloads the dataset. Implemented by source.Loader.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler reloads the dataset on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	refresher Refresher
	timeout   time.Duration
}

// NewScheduler creates a scheduler for a standard 5-field cron spec or a
// descriptor such as "@every 5m". A tick that starts while the previous one is
// still running is skipped.
func NewScheduler(spec string, refresher Refresher, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = time.Minute
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	return &Scheduler{
		cron:      c,
		spec:      spec,
		refresher: refresher,
		timeout:   timeout,
	}
}

// Start schedules the refresh job. An invalid spec is returned as an error.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.refresh); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.spec, err)
	}

	logger.Log.Info().Str("schedule", s.spec).Msg("scheduler: dataset refresh enabled")
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	logger.Log.Info().Msg("scheduler: stopping")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	started := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("scheduler: refresh failed, keeping current dataset")
		return
	}
	logger.Log.Debug().Dur("took", time.Since(started)).Msg("scheduler: refresh complete")
}
