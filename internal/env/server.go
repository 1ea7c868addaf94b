package environment

import (
	"context"
	"log/slog"
	"net/http"

	"vkshell/internal/config"
)

type Servers struct {
	HTTP struct {
		Observability *http.Server
	}
}

func newServers(ctx context.Context, cfg config.Config, logger *slog.Logger, services *Services) *Servers {
	var servers Servers

	if cfg.Observability.Enabled {
		servers.HTTP.Observability = initObservability(ctx, logger.WithGroup("http"), services, cfg)
	}

	return &servers
}
