package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env              string                  `env:"ENV,default=local"`
	Logger           LoggerConfig            `env:",prefix=LOGGER_"`
	Observability    ObservabilityHTTPConfig `env:",prefix=OBSERVABILITY_"`
	Tracing          TracingConfig           `env:",prefix=TRACING_"`
	ShutdownDuration time.Duration           `env:"SHUTDOWN_DURATION,default=10s"`
	DB               SQLiteConfig            `env:",prefix=DB_"`
	Window           WindowConfig            `env:",prefix=WINDOW_"`
	Renderer         RendererConfig          `env:",prefix=RENDERER_"`
	Retention        RetentionConfig         `env:",prefix=RETENTION_"`
}

type LoggerConfig struct {
	Level string `env:"LEVEL,default=info"`
	// text or json, empty picks text for ENV=local and json otherwise
	Format    string `env:"FORMAT"`
	AddSource bool   `env:"ADD_SOURCE,default=false"`
}

type TracingConfig struct {
	Enabled     bool   `env:"ENABLED,default=false"`
	ServiceName string `env:"SERVICE_NAME,default=vkshell"`
	// stdout or stderr
	Output string `env:"OUTPUT,default=stderr"`
}

type ObservabilityHTTPConfig struct {
	Enabled      bool          `env:"ENABLED,default=true"`
	Host         string        `env:"HOST,default=127.0.0.1"`
	Port         uint16        `env:"PORT,default=8383"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a ObservabilityHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type SQLiteConfig struct {
	Path         string `env:"PATH,default=./data/vkshell.db"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS,default=4"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS,default=2"`
	MaxLifetime  string `env:"MAX_LIFETIME,default=5m"`
}

type WindowConfig struct {
	Width     int     `env:"WIDTH,default=800"`
	Height    int     `env:"HEIGHT,default=600"`
	Title     string  `env:"TITLE,default=vkshell"`
	FPS       float64 `env:"FPS,default=60"`
	MaxFrames uint64  `env:"MAX_FRAMES,default=0"`
	Script    string  `env:"SCRIPT"`
}

type RendererConfig struct {
	EnableValidation bool    `env:"ENABLE_VALIDATION,default=true"`
	FlushRate        float64 `env:"FLUSH_RATE,default=4"`
	FlushBurst       int     `env:"FLUSH_BURST,default=1"`
	ChunkSize        int     `env:"CHUNK_SIZE,default=256"`
}

type RetentionConfig struct {
	Schedule string        `env:"SCHEDULE,default=@every 10m"`
	MaxAge   time.Duration `env:"MAX_AGE,default=24h"`
}
