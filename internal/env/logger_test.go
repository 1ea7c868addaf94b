package environment

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"vkshell/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantJSON bool
		wantErr  bool
	}{
		{name: "local defaults to text", cfg: config.Config{Env: "local"}},
		{name: "production defaults to json", cfg: config.Config{Env: "production"}, wantJSON: true},
		{
			name:     "explicit json on local",
			cfg:      config.Config{Env: "local", Logger: config.LoggerConfig{Format: "JSON"}},
			wantJSON: true,
		},
		{
			name:    "unknown format",
			cfg:     config.Config{Env: "local", Logger: config.LoggerConfig{Format: "xml"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := initLogger(tt.cfg, &buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("initLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			logger.Info("hello", slog.Int("frame", 3))

			var record map[string]any
			isJSON := json.Unmarshal(buf.Bytes(), &record) == nil
			if isJSON != tt.wantJSON {
				t.Fatalf("json output = %v, want %v: %s", isJSON, tt.wantJSON, buf.String())
			}
			if !strings.Contains(buf.String(), tt.cfg.Env) {
				t.Fatalf("output %q lacks env attribute", buf.String())
			}
		})
	}
}

func TestInitLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := initLogger(config.Config{Env: "local", Logger: config.LoggerConfig{Level: "warn"}}, &buf)
	if err != nil {
		t.Fatalf("initLogger() = %v", err)
	}

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info record written at warn level: %s", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn record missing: %s", buf.String())
	}
}
