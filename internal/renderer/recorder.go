package renderer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"vkshell/internal/stories/sessions"
	"vkshell/internal/thread"
)

const (
	storageTimeout = 5 * time.Second

	// flushes per second when none is configured
	defaultFlushRate = 4
)

var (
	ErrNotInitialized     = errors.New("renderer not initialized")
	ErrAlreadyInitialized = errors.New("renderer already initialized")
)

type Options struct {
	Title      string
	Width      int
	Height     int
	FlushRate  float64
	FlushBurst int
	ChunkSize  int
	Metrics    *thread.Metrics
	Tracer     trace.Tracer
}

// FrameRecorder is a renderer that measures frames instead of drawing them.
// Samples are buffered by Update and written to storage by a background
// flusher; the flusher pauses while the window is minimized.
type FrameRecorder struct {
	storage Storage
	logger  *slog.Logger
	opts    Options
	now     func() time.Time

	flusher    *thread.Controller
	session    sessions.Session
	sessionID  string
	validation bool

	// set by the flusher's init hook, read only on the flusher goroutine
	sessionOpen bool

	// owned by the goroutine calling Update
	swapWidth  int
	swapHeight int
	lastFrame  time.Time

	frames        atomic.Uint64
	generation    atomic.Uint64
	violations    atomic.Uint64
	flushed       atomic.Uint64
	resizePending atomic.Bool
	published     atomic.Pointer[thread.Controller]

	sizeMu    sync.Mutex
	width     int
	height    int
	minimized bool

	pendingMu sync.Mutex
	pending   []sessions.FrameSample
}

func NewFrameRecorder(storage Storage, opts Options, logger *slog.Logger) *FrameRecorder {
	if opts.FlushRate <= 0 {
		opts.FlushRate = defaultFlushRate
	}
	if opts.FlushBurst < 1 {
		opts.FlushBurst = 1
	}
	if opts.ChunkSize < 1 {
		opts.ChunkSize = 256
	}

	return &FrameRecorder{
		storage: storage,
		logger:  logger.With(slog.String("component", "renderer")),
		opts:    opts,
		now:     func() time.Time { return time.Now().UTC() },
		width:   opts.Width,
		height:  opts.Height,
	}
}

// Init opens a render session and starts the background flusher.
func (r *FrameRecorder) Init(enableValidation bool) error {
	if r.flusher != nil {
		return ErrAlreadyInitialized
	}

	r.sessionID = uuid.NewString()
	r.validation = enableValidation
	r.swapWidth, r.swapHeight = r.framebufferSize()
	r.session = sessions.Session{
		ID:         r.sessionID,
		Title:      r.opts.Title,
		Validation: enableValidation,
		Width:      r.swapWidth,
		Height:     r.swapHeight,
		StartedAt:  r.now(),
	}

	opts := []thread.Option{
		thread.WithName("frame-flusher"),
		thread.WithLogger(r.logger),
		thread.WithMetrics(r.opts.Metrics),
		thread.WithLimiter(rate.NewLimiter(rate.Limit(r.opts.FlushRate), r.opts.FlushBurst)),
	}
	if r.opts.Tracer != nil {
		opts = append(opts, thread.WithTracer(r.opts.Tracer))
	}

	r.flusher = thread.New(
		thread.HookFuncs{
			Init:    r.openSession,
			Loop:    r.flush,
			Destroy: r.closeSession,
		},
		opts...,
	)
	r.published.Store(r.flusher)

	r.logger.Info("Renderer initialized",
		slog.String("session_id", r.sessionID),
		slog.Bool("validation", enableValidation),
		slog.Int("width", r.swapWidth),
		slog.Int("height", r.swapHeight))

	if r.minimizedNow() {
		return r.flusher.Stop()
	}
	return r.flusher.Start()
}

// Update records one frame. Nothing is presented while the framebuffer has
// zero area.
func (r *FrameRecorder) Update() error {
	if r.flusher == nil {
		return ErrNotInitialized
	}
	if err := r.flusher.Err(); err != nil {
		return fmt.Errorf("frame flusher: %w", err)
	}

	width, height, minimized := r.framebufferState()
	if width == 0 || height == 0 {
		if !minimized && r.validation {
			r.violation("zero-size framebuffer without minimize",
				slog.Int("width", width),
				slog.Int("height", height))
		}
		return nil
	}

	resized := r.resizePending.Swap(false)
	if resized || width != r.swapWidth || height != r.swapHeight {
		if !resized && r.validation {
			r.violation("swapchain extent out of date",
				slog.Int("swapchain_width", r.swapWidth),
				slog.Int("swapchain_height", r.swapHeight),
				slog.Int("width", width),
				slog.Int("height", height))
		}
		r.recreateSwapchain(width, height)
	}

	now := r.now()
	var duration time.Duration
	if !r.lastFrame.IsZero() {
		duration = now.Sub(r.lastFrame)
		if duration < 0 && r.validation {
			r.violation("frame clock went backwards", slog.Duration("duration", duration))
			duration = 0
		}
	}
	r.lastFrame = now

	frame := r.frames.Add(1)
	sample := sessions.FrameSample{
		SessionID:  r.sessionID,
		Frame:      frame,
		Width:      width,
		Height:     height,
		Duration:   duration,
		Generation: r.generation.Load(),
		RecordedAt: now,
	}

	r.pendingMu.Lock()
	r.pending = append(r.pending, sample)
	r.pendingMu.Unlock()

	return nil
}

// CleanUp stops the flusher, which writes the remaining samples and closes
// the session.
func (r *FrameRecorder) CleanUp() error {
	if r.flusher == nil {
		return nil
	}

	if err := r.flusher.Destroy(); err != nil {
		return fmt.Errorf("destroy frame flusher: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	summary, err := r.storage.SessionSummary(ctx, r.sessionID)
	if err != nil {
		r.logger.Warn("Failed to summarize render session", slog.Any("error", err))
		return nil
	}

	r.logger.Info("Render session finished",
		slog.String("session_id", r.sessionID),
		slog.Uint64("frames", r.frames.Load()),
		slog.Int64("samples", summary.Samples),
		slog.Duration("avg_frame", summary.AvgDuration),
		slog.Duration("max_frame", summary.MaxDuration),
		slog.Uint64("swapchain_generation", r.generation.Load()),
		slog.Uint64("violations", r.violations.Load()))

	return nil
}

// SetFramebufferResized marks the swapchain for recreation before the next
// frame.
func (r *FrameRecorder) SetFramebufferResized() {
	r.resizePending.Store(true)
}

// OnFramebufferSize tracks the framebuffer size. A zero-area framebuffer
// pauses the flusher until the window is restored.
func (r *FrameRecorder) OnFramebufferSize(width, height int) {
	r.sizeMu.Lock()
	r.width, r.height = width, height
	wasMinimized := r.minimized
	r.minimized = width == 0 || height == 0
	minimized := r.minimized
	r.sizeMu.Unlock()

	if r.flusher == nil || wasMinimized == minimized {
		return
	}

	if minimized {
		r.logger.Info("Window minimized, pausing frame flusher")
		if err := r.flusher.Stop(); err != nil {
			r.logger.Warn("Failed to pause frame flusher", slog.Any("error", err))
		}
		return
	}

	r.logger.Info("Window restored, resuming frame flusher")
	if err := r.flusher.Start(); err != nil {
		r.logger.Warn("Failed to resume frame flusher", slog.Any("error", err))
	}
}

// Flusher exposes the background flusher, nil before Init. It is safe to
// call from any goroutine.
func (r *FrameRecorder) Flusher() *thread.Controller {
	return r.published.Load()
}

func (r *FrameRecorder) SessionID() string {
	return r.sessionID
}

func (r *FrameRecorder) Frames() uint64 {
	return r.frames.Load()
}

// Flushed returns the number of samples written to storage.
func (r *FrameRecorder) Flushed() uint64 {
	return r.flushed.Load()
}

func (r *FrameRecorder) Generation() uint64 {
	return r.generation.Load()
}

func (r *FrameRecorder) Violations() uint64 {
	return r.violations.Load()
}

func (r *FrameRecorder) framebufferSize() (int, int) {
	width, height, _ := r.framebufferState()
	return width, height
}

// framebufferState reports the size and whether the window reported a
// minimize. A zero size that never went through OnFramebufferSize is not a
// minimize.
func (r *FrameRecorder) framebufferState() (int, int, bool) {
	r.sizeMu.Lock()
	defer r.sizeMu.Unlock()
	return r.width, r.height, r.minimized
}

func (r *FrameRecorder) minimizedNow() bool {
	width, height := r.framebufferSize()
	return width == 0 || height == 0
}

func (r *FrameRecorder) recreateSwapchain(width, height int) {
	generation := r.generation.Add(1)
	r.swapWidth, r.swapHeight = width, height

	r.logger.Debug("Swapchain recreated",
		slog.Uint64("generation", generation),
		slog.Int("width", width),
		slog.Int("height", height))
}

func (r *FrameRecorder) violation(msg string, attrs ...any) {
	r.violations.Add(1)
	r.logger.Warn("Validation: "+msg, attrs...)
}

func (r *FrameRecorder) drain() []sessions.FrameSample {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()

	batch := r.pending
	r.pending = nil
	return batch
}

// requeue puts samples that failed to reach storage back in front of the
// ones buffered since the drain.
func (r *FrameRecorder) requeue(samples []sessions.FrameSample) {
	if len(samples) == 0 {
		return
	}

	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()

	r.pending = append(append(make([]sessions.FrameSample, 0, len(samples)+len(r.pending)), samples...), r.pending...)
}

func (r *FrameRecorder) openSession() error {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	if err := r.storage.CreateSession(ctx, r.session); err != nil {
		return fmt.Errorf("create render session: %w", err)
	}
	r.sessionOpen = true

	return nil
}

func (r *FrameRecorder) flush() error {
	batch := r.drain()
	if len(batch) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	var written int
	for _, chunk := range lo.Chunk(batch, r.opts.ChunkSize) {
		n, err := r.storage.InsertFrameSamples(ctx, chunk)
		if err != nil {
			r.requeue(batch[written:])
			return fmt.Errorf("insert frame samples: %w", err)
		}
		written += len(chunk)
		r.flushed.Add(uint64(n))
	}

	return nil
}

func (r *FrameRecorder) closeSession() error {
	if !r.sessionOpen {
		r.logger.Warn("Render session was never opened, dropping buffered frames",
			slog.Int("pending", len(r.drain())))
		return nil
	}

	if err := r.flush(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	if err := r.storage.FinishSession(ctx, r.sessionID, r.now(), r.frames.Load()); err != nil {
		return fmt.Errorf("finish render session: %w", err)
	}

	return nil
}
