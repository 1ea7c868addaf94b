package thread

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

type Option func(*Controller)

// WithName sets the name used in logs, traces and metric labels.
func WithName(name string) Option {
	return func(c *Controller) {
		c.name = name
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(c *Controller) {
		c.metrics = metrics
	}
}

// WithLimiter paces loop iterations: the worker takes a token before every
// iteration. The limiter burst must be at least 1.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Controller) {
		c.limiter = limiter
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Controller) {
		c.tracer = tracer
	}
}
