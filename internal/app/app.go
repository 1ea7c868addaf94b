package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.uber.org/multierr"
)

type Options struct {
	EnableValidation bool
}

// App drives a Renderer from a Window's event loop.
type App struct {
	window      Window
	renderer    Renderer
	opts        Options
	logger      *slog.Logger
	initialized bool
}

func New(window Window, renderer Renderer, opts Options, logger *slog.Logger) *App {
	return &App{
		window:   window,
		renderer: renderer,
		opts:     opts,
		logger:   logger.With(slog.String("component", "app")),
	}
}

// Run initializes the renderer, updates it once per polled frame until the
// window closes or ctx is done, and cleans up.
func (a *App) Run(ctx context.Context) (err error) {
	if err := a.Initialize(); err != nil {
		return multierr.Append(err, a.CleanUp())
	}
	defer func() {
		err = multierr.Append(err, a.CleanUp())
	}()

	a.logger.Info("Entering main loop")

	for !a.window.ShouldClose() {
		if err := a.window.PollEvents(ctx); err != nil {
			if ctx.Err() != nil {
				a.logger.Info("Main loop interrupted", slog.Any("reason", ctx.Err()))
				return nil
			}
			return fmt.Errorf("poll events: %w", err)
		}

		if err := a.Update(); err != nil {
			return err
		}
	}

	a.logger.Info("Window closed")
	return nil
}

func (a *App) Initialize() error {
	if a.initialized {
		return errors.New("app already initialized")
	}

	a.window.SetFramebufferSizeCallback(a.onFramebufferResize)

	// set before Init so CleanUp releases a partially initialized renderer
	a.initialized = true
	if err := a.renderer.Init(a.opts.EnableValidation); err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	return nil
}

func (a *App) Update() error {
	if err := a.renderer.Update(); err != nil {
		return fmt.Errorf("update renderer: %w", err)
	}
	return nil
}

// CleanUp releases the renderer, then the window. Errors from both are
// returned together.
func (a *App) CleanUp() error {
	var err error

	if a.initialized {
		if cleanupErr := a.renderer.CleanUp(); cleanupErr != nil {
			err = multierr.Append(err, fmt.Errorf("clean up renderer: %w", cleanupErr))
		}
		a.initialized = false
	}

	if destroyErr := a.window.Destroy(); destroyErr != nil {
		err = multierr.Append(err, fmt.Errorf("destroy window: %w", destroyErr))
	}

	return err
}

func (a *App) onFramebufferResize(width, height int) {
	if observer, ok := a.renderer.(SizeObserver); ok {
		observer.OnFramebufferSize(width, height)
	}
	a.renderer.SetFramebufferResized()
}
