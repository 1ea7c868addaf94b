package retention

import (
	"context"
	"time"
)

type Storage interface {
	PruneFrameSamples(ctx context.Context, before time.Time) (int64, error)
}
