package environment

import (
	"context"
	"testing"

	"vkshell/internal/config"
)

func TestInitTracing(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.TracingConfig
		wantTracer bool
		wantErr    bool
	}{
		{name: "disabled", cfg: config.TracingConfig{}},
		{name: "stderr", cfg: config.TracingConfig{Enabled: true, Output: "stderr", ServiceName: "test"}, wantTracer: true},
		{name: "unknown output", cfg: config.TracingConfig{Enabled: true, Output: "kafka"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracing, err := initTracing(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("initTracing() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if (tracing.Tracer != nil) != tt.wantTracer {
				t.Fatalf("Tracer = %v, wantTracer %v", tracing.Tracer, tt.wantTracer)
			}
			if err := tracing.Shutdown(context.Background()); err != nil {
				t.Fatalf("Shutdown() = %v", err)
			}
		})
	}
}
