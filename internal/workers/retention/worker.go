package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const runTimeout = time.Minute

// Worker deletes frame samples older than the configured age
type Worker struct {
	storage  Storage
	logger   *slog.Logger
	cron     *cron.Cron
	schedule string
	maxAge   time.Duration
	now      func() time.Time
}

// NewWorker creates a new retention worker
func NewWorker(storage Storage, schedule string, maxAge time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		storage:  storage,
		logger:   logger,
		cron:     cron.New(),
		schedule: schedule,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return "retention"
}

// Start schedules the pruning job
func (w *Worker) Start() error {
	if w.maxAge <= 0 {
		return fmt.Errorf("retention max age must be positive, got %s", w.maxAge)
	}

	_, err := w.cron.AddFunc(w.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if err := w.run(ctx); err != nil {
			w.logger.Error("Retention worker failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule retention worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job
func (w *Worker) Stop() {
	w.logger.Info("Stopping retention worker")
	<-w.cron.Stop().Done()
}

func (w *Worker) run(ctx context.Context) error {
	before := w.now().Add(-w.maxAge)

	deleted, err := w.storage.PruneFrameSamples(ctx, before)
	if err != nil {
		return fmt.Errorf("prune frame samples: %w", err)
	}

	w.logger.Info("Frame samples pruned", "deleted", deleted, "before", before)
	return nil
}
