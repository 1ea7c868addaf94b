package renderer

import (
	"context"
	"time"

	"vkshell/internal/stories/sessions"
)

type (
	Storage interface {
		CreateSession(ctx context.Context, session sessions.Session) error
		FinishSession(ctx context.Context, id string, endedAt time.Time, frames uint64) error
		InsertFrameSamples(ctx context.Context, samples []sessions.FrameSample) (int, error)
		SessionSummary(ctx context.Context, id string) (*sessions.Summary, error)
	}
)
