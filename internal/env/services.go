package environment

import (
	"context"
	"log/slog"

	"vkshell/internal/app"
	"vkshell/internal/config"
	"vkshell/internal/renderer"
	"vkshell/internal/storage"
	"vkshell/internal/thread"
	"vkshell/internal/window"
	"vkshell/internal/workers"
	"vkshell/internal/workers/retention"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

type Services struct {
	App      *app.App
	Window   *window.Headless
	Renderer *renderer.FrameRecorder
	Workers  *workers.Manager
}

func newServices(ctx context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger, tracing *Tracing) (*Services, error) {
	var s Services

	storageImpl := storage.New(clients.SQLiteDB.DB)
	if err := storageImpl.Migrate(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to migrate storage")
	}

	threadMetrics, err := thread.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to register thread metrics")
	}

	var script window.Script
	if cfg.Window.Script != "" {
		script, err = window.LoadScript(cfg.Window.Script)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load window script")
		}
	}

	s.Window, err = window.NewHeadless(window.Options{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		FPS:       cfg.Window.FPS,
		MaxFrames: cfg.Window.MaxFrames,
		Script:    script,
	}, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create window")
	}

	s.Renderer = renderer.NewFrameRecorder(storageImpl, renderer.Options{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		FlushRate:  cfg.Renderer.FlushRate,
		FlushBurst: cfg.Renderer.FlushBurst,
		ChunkSize:  cfg.Renderer.ChunkSize,
		Metrics:    threadMetrics,
		Tracer:     tracing.Tracer,
	}, logger)

	s.App = app.New(s.Window, s.Renderer, app.Options{
		EnableValidation: cfg.Renderer.EnableValidation,
	}, logger)

	s.Workers = workers.NewManager(logger,
		retention.NewWorker(storageImpl, cfg.Retention.Schedule, cfg.Retention.MaxAge, logger),
	)

	return &s, nil
}
