package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestDefaults(t *testing.T) {
	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(map[string]string{}),
	})
	if err != nil {
		t.Fatalf("envconfig.ProcessWith() = %v", err)
	}

	if cfg.Env != "local" {
		t.Errorf("Env = %q, want local", cfg.Env)
	}
	if cfg.Window.FPS != 60 {
		t.Errorf("Window.FPS = %v, want 60", cfg.Window.FPS)
	}
	if !cfg.Renderer.EnableValidation {
		t.Error("Renderer.EnableValidation = false, want true")
	}
	if cfg.Retention.Schedule != "@every 10m" {
		t.Errorf("Retention.Schedule = %q", cfg.Retention.Schedule)
	}
	if cfg.Retention.MaxAge != 24*time.Hour {
		t.Errorf("Retention.MaxAge = %v, want 24h", cfg.Retention.MaxAge)
	}
	if got := cfg.Observability.ADDR(); got != "127.0.0.1:8383" {
		t.Errorf("Observability.ADDR() = %q", got)
	}
}

func TestPrefixedOverrides(t *testing.T) {
	var cfg Config
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target: &cfg,
		Lookuper: envconfig.MapLookuper(map[string]string{
			"WINDOW_WIDTH":               "1280",
			"WINDOW_MAX_FRAMES":          "300",
			"RENDERER_ENABLE_VALIDATION": "false",
			"DB_PATH":                    ":memory:",
		}),
	})
	if err != nil {
		t.Fatalf("envconfig.ProcessWith() = %v", err)
	}

	if cfg.Window.Width != 1280 {
		t.Errorf("Window.Width = %d, want 1280", cfg.Window.Width)
	}
	if cfg.Window.MaxFrames != 300 {
		t.Errorf("Window.MaxFrames = %d, want 300", cfg.Window.MaxFrames)
	}
	if cfg.Renderer.EnableValidation {
		t.Error("Renderer.EnableValidation = true, want false")
	}
	if !cfg.DB.InMemory() {
		t.Error("DB.InMemory() = false for :memory:")
	}
}

func TestPrepareDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := SQLiteConfig{Path: filepath.Join(dir, "vkshell.db")}

	if err := cfg.PrepareDir(); err != nil {
		t.Fatalf("PrepareDir() = %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("directory %s was not created: %v", dir, err)
	}

	if err := (SQLiteConfig{Path: ":memory:"}).PrepareDir(); err != nil {
		t.Fatalf("PrepareDir() for memory db = %v", err)
	}
}
