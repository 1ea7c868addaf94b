package window

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"
)

type Options struct {
	Width     int
	Height    int
	Title     string
	FPS       float64
	MaxFrames uint64
	Script    Script
}

// Headless is a window without a display. PollEvents paces frames with a rate
// limiter and fires scripted events.
type Headless struct {
	title     string
	maxFrames uint64
	limiter   *rate.Limiter
	logger    *slog.Logger

	mu       sync.Mutex
	width    int
	height   int
	frame    uint64
	events   []Event
	closed   bool
	onResize func(width, height int)
}

func NewHeadless(opts Options, logger *slog.Logger) (*Headless, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", opts.Width, opts.Height)
	}

	limit := rate.Inf
	if opts.FPS > 0 {
		limit = rate.Limit(opts.FPS)
	}

	return &Headless{
		title:     opts.Title,
		maxFrames: opts.MaxFrames,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger.With(slog.String("component", "window")),
		width:     opts.Width,
		height:    opts.Height,
		events:    append([]Event(nil), opts.Script.Events...),
	}, nil
}

func (w *Headless) Title() string {
	return w.title
}

func (w *Headless) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Frame returns the number of frames polled so far.
func (w *Headless) Frame() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frame
}

func (w *Headless) SetFramebufferSizeCallback(fn func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = fn
}

func (w *Headless) ShouldClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// RequestClose makes ShouldClose report true from now on.
func (w *Headless) RequestClose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// PollEvents waits for the next frame slot, then fires the events scheduled
// up to the new frame. The resize callback runs on the caller's goroutine.
func (w *Headless) PollEvents(ctx context.Context) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for frame: %w", err)
	}

	w.mu.Lock()
	w.frame++
	frame := w.frame

	var resized bool
	for len(w.events) > 0 && w.events[0].Frame <= frame {
		event := w.events[0]
		w.events = w.events[1:]

		if event.Width != nil {
			w.width = *event.Width
			resized = true
		}
		if event.Height != nil {
			w.height = *event.Height
			resized = true
		}
		if event.Close {
			w.closed = true
		}
	}
	if w.maxFrames > 0 && frame >= w.maxFrames {
		w.closed = true
	}

	width, height := w.width, w.height
	onResize := w.onResize
	w.mu.Unlock()

	if resized {
		w.logger.Debug("Framebuffer resized",
			slog.Uint64("frame", frame),
			slog.Int("width", width),
			slog.Int("height", height))
		if onResize != nil {
			onResize(width, height)
		}
	}

	return nil
}

func (w *Headless) Destroy() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	w.onResize = nil
	w.logger.Debug("Window destroyed", slog.Uint64("frames", w.frame))
	return nil
}
