package thread

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestHookSpans(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	defer provider.Shutdown(context.Background())

	loopErr := errors.New("device lost")
	c := newTestController(HookFuncs{
		Loop: func() error { return loopErr },
	}, WithTracer(provider.Tracer("thread-test")))

	if err := c.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	eventually(t, func() bool { return c.State() == StateFaulted })
	if err := c.Destroy(); !errors.Is(err, loopErr) {
		t.Fatalf("Destroy() = %v, want %v", err, loopErr)
	}

	ended := spans.Ended()
	want := []struct {
		name string
		code codes.Code
	}{
		{"thread." + HookInit, codes.Unset},
		{"thread." + HookLoop, codes.Error},
		{"thread." + HookDestroy, codes.Unset},
	}
	if len(ended) != len(want) {
		t.Fatalf("got %d spans, want %d", len(ended), len(want))
	}

	for i, w := range want {
		span := ended[i]
		if span.Name() != w.name {
			t.Errorf("span %d name = %q, want %q", i, span.Name(), w.name)
		}
		if span.Status().Code != w.code {
			t.Errorf("span %s status = %v, want %v", span.Name(), span.Status().Code, w.code)
		}

		attrs := attribute.NewSet(span.Attributes()...)
		if v, ok := attrs.Value("thread.name"); !ok || v.AsString() != "test" {
			t.Errorf("span %s thread.name = %v", span.Name(), v.AsString())
		}
		if v, ok := attrs.Value("thread.id"); !ok || v.AsString() != c.ID() {
			t.Errorf("span %s thread.id = %v, want %s", span.Name(), v.AsString(), c.ID())
		}
	}

	if events := ended[1].Events(); len(events) == 0 || events[0].Name != "exception" {
		t.Errorf("loop span events = %v, want a recorded error", events)
	}
}

func TestHookSpanRecordsPanic(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	defer provider.Shutdown(context.Background())

	c := newTestController(HookFuncs{
		Init: func() error { panic("bad surface") },
	}, WithTracer(provider.Tracer("thread-test")))

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() = %v", err)
	}
	eventually(t, func() bool { return c.State() == StateFaulted })
	_ = c.Destroy()

	ended := spans.Ended()
	if len(ended) != 2 {
		t.Fatalf("got %d spans, want init and destroy", len(ended))
	}
	if ended[0].Name() != "thread."+HookInit || ended[0].Status().Code != codes.Error {
		t.Fatalf("init span = %s %v, want error status", ended[0].Name(), ended[0].Status())
	}
}
