package environment

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"

	"vkshell/internal/config"
	"vkshell/internal/thread"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type flusherSource interface {
	Flusher() *thread.Controller
}

func initObservability(
	_ context.Context,
	logger *slog.Logger,
	services *Services,
	cfg config.Config,
) *http.Server {
	mux := http.NewServeMux()

	// pprof endpoints
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})

	mux.Handle("/readyz", readyzHandler(services.Renderer, logger))

	return &http.Server{
		Handler:           mux,
		Addr:              cfg.Observability.ADDR(),
		ReadTimeout:       cfg.Observability.ReadTimeout,
		WriteTimeout:      cfg.Observability.WriteTimeout,
		IdleTimeout:       cfg.Observability.IdleTimeout,
		ReadHeaderTimeout: cfg.Observability.ReadTimeout,
	}
}

// readyzHandler reports ready while the frame flusher is running or paused.
func readyzHandler(source flusherSource, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := source.Flusher()
		if flusher == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "flusher not initialized")
			return
		}

		switch state := flusher.State(); state {
		case thread.StateIdle, thread.StateLooping:
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Ready")
		default:
			logger.Warn("Readiness check failed", "flusher_state", state.String())
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "flusher %s", state)
		}
	})
}
