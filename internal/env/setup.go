package environment

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"vkshell/internal/config"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type closer func() error

type Env struct {
	Config   *config.Config
	Logger   *slog.Logger
	Servers  *Servers
	Clients  *Clients
	Services *Services
	Tracing  *Tracing

	Closers []closer
}

func Setup(ctx context.Context) (*Env, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg config.Config
	err := envconfig.Process(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("env processing: %w", err)
	}

	var e Env

	logger, err := initLogger(cfg, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("initLogger: %w", err)
	}

	tracing, err := initTracing(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("initTracing: %w", err)
	}

	if err := cfg.DB.PrepareDir(); err != nil {
		return nil, fmt.Errorf("prepare database directory: %w", err)
	}

	clients, err := newClients(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("newClients: %w", err)
	}

	services, err := newServices(ctx, clients, &cfg, logger, tracing)
	if err != nil {
		_ = clients.SQLiteDB.Close()
		_ = tracing.Shutdown(ctx)
		return nil, fmt.Errorf("newServices: %w", err)
	}

	servers := newServers(ctx, cfg, logger, services)

	e.Servers = servers
	e.Config = &cfg
	e.Logger = logger
	e.Clients = clients
	e.Services = services
	e.Tracing = tracing
	e.Closers = []closer{
		clients.SQLiteDB.Close,
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownDuration)
			defer cancel()
			return tracing.Shutdown(ctx)
		},
	}

	return &e, nil
}
