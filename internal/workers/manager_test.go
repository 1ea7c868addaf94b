package workers

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

type mockWorker struct {
	name     string
	startErr error
	log      *[]string
}

func (w *mockWorker) Start() error {
	*w.log = append(*w.log, "start "+w.name)
	return w.startErr
}

func (w *mockWorker) Stop() {
	*w.log = append(*w.log, "stop "+w.name)
}

func (w *mockWorker) Name() string {
	return w.name
}

func TestManager(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	failure := errors.New("bad schedule")

	tests := []struct {
		name     string
		startErr map[string]error
		wantErr  bool
		want     []string
	}{
		{
			name: "starts in order and stops in reverse",
			want: []string{"start a", "start b", "start c", "stop c", "stop b", "stop a"},
		},
		{
			name:     "rolls back started workers on failure",
			startErr: map[string]error{"b": failure},
			wantErr:  true,
			want:     []string{"start a", "start b", "stop a"},
		},
		{
			name:     "first worker fails",
			startErr: map[string]error{"a": failure},
			wantErr:  true,
			want:     []string{"start a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log []string
			var list []Worker
			for _, name := range []string{"a", "b", "c"} {
				list = append(list, &mockWorker{name: name, startErr: tt.startErr[name], log: &log})
			}

			m := NewManager(logger, list...)
			err := m.Start()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Start() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, failure) {
				t.Fatalf("Start() error = %v, want wrapped %v", err, failure)
			}
			if err == nil {
				m.Stop()
			}

			if len(log) != len(tt.want) {
				t.Fatalf("calls = %v, want %v", log, tt.want)
			}
			for i := range tt.want {
				if log[i] != tt.want[i] {
					t.Fatalf("calls = %v, want %v", log, tt.want)
				}
			}
		})
	}
}

func TestManagerStopWithoutStart(t *testing.T) {
	var log []string
	m := NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)), &mockWorker{name: "a", log: &log})
	m.Stop()
	if len(log) != 0 {
		t.Fatalf("calls = %v, want none", log)
	}
}
