package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/moviegrid/internal/domain"
	"github.com/Clark-Hu/moviegrid/internal/logging"
)

// Syncer is the part of the catalog the warmer drives.
type Syncer interface {
	GetMovies(ctx context.Context, page int, q domain.Query) ([]domain.Movie, error)
}

// Warmer keeps the local cache populated by requesting the first page on a
// schedule. A non-empty cache makes each run a no-op against upstream.
type Warmer struct {
	cron     *cron.Cron
	syncer   Syncer
	schedule string
	timeout  time.Duration
	logger   *logrus.Logger
}

// NewWarmer creates a warmer for a standard five-field cron schedule.
func NewWarmer(syncer Syncer, schedule string, timeout time.Duration, logger *logrus.Logger) *Warmer {
	return &Warmer{
		cron:     cron.New(),
		syncer:   syncer,
		schedule: schedule,
		timeout:  timeout,
		logger:   logging.OrDiscard(logger),
	}
}

// Start registers the job and starts the cron loop.
func (w *Warmer) Start() error {
	w.logger.WithField("schedule", w.schedule).Info("Starting cache warmer")

	if _, err := w.cron.AddFunc(w.schedule, func() {
		w.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to add warm job: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop halts the loop and waits for a running job to finish.
func (w *Warmer) Stop() {
	w.logger.Info("Stopping cache warmer")
	<-w.cron.Stop().Done()
}

// RunOnce performs a single warm-up and reports whether it succeeded.
func (w *Warmer) RunOnce(ctx context.Context) bool {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	movies, err := w.syncer.GetMovies(ctx, 1, domain.DefaultQuery())
	if err != nil {
		w.logger.WithError(err).Error("Cache warm job failed")
		return false
	}
	w.logger.WithField("count", len(movies)).Debug("Cache warm job completed")
	return true
}
