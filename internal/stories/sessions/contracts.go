package sessions

import (
	"context"
	"time"
)

type (
	Storage interface {
		CreateSession(ctx context.Context, session Session) error
		FinishSession(ctx context.Context, id string, endedAt time.Time, frames uint64) error
		GetSession(ctx context.Context, id string) (*Session, error)
		InsertFrameSamples(ctx context.Context, samples []FrameSample) (int, error)
		SessionSummary(ctx context.Context, id string) (*Summary, error)
	}
)
