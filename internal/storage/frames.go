package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"vkshell/internal/infra/sqlite3"
	"vkshell/internal/stories/sessions"
)

const (
	frameSamplesTable = "frame_samples"

	// rows per INSERT statement, keeps the bound variables well below SQLite's limit
	insertBatchSize = 100
)

var frameColumns = []string{"session_id", "frame", "width", "height", "duration_ns", "generation", "recorded_at"}

// InsertFrameSamples stores samples in a single transaction and returns how
// many rows were written.
func (s *storageImpl) InsertFrameSamples(ctx context.Context, samples []sessions.FrameSample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	var written int
	err := sqlite3.WithTx(ctx, s.db, nil, func(tx *sqlx.Tx) error {
		for _, batch := range lo.Chunk(samples, insertBatchSize) {
			query := s.stmpBuilder().
				Insert(frameSamplesTable).
				Columns(frameColumns...)

			for _, sample := range batch {
				recordedAt := sample.RecordedAt
				if recordedAt.IsZero() {
					recordedAt = s.now()
				}
				query = query.Values(
					sample.SessionID,
					int64(sample.Frame),
					sample.Width,
					sample.Height,
					sample.Duration.Nanoseconds(),
					int64(sample.Generation),
					recordedAt,
				)
			}

			q, args, err := query.ToSql()
			if err != nil {
				return fmt.Errorf("build sql query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("tx.ExecContext: %w", err)
			}
			written += len(batch)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return written, nil
}

// PruneFrameSamples deletes samples recorded before the given time.
func (s *storageImpl) PruneFrameSamples(ctx context.Context, before time.Time) (int64, error) {
	q, args, err := s.stmpBuilder().
		Delete(frameSamplesTable).
		Where(sq.Lt{"recorded_at": before.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("db.ExecContext: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("result.RowsAffected: %w", err)
	}

	return deleted, nil
}

type summaryRow struct {
	Samples int64   `db:"samples"`
	AvgNS   float64 `db:"avg_ns"`
	MaxNS   int64   `db:"max_ns"`
}

func (s *storageImpl) SessionSummary(ctx context.Context, id string) (*sessions.Summary, error) {
	q, args, err := s.stmpBuilder().
		Select(
			"COUNT(*) AS samples",
			"COALESCE(AVG(duration_ns), 0) AS avg_ns",
			"COALESCE(MAX(duration_ns), 0) AS max_ns",
		).
		From(frameSamplesTable).
		Where(sq.Eq{"session_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row summaryRow
	if err := s.db.GetContext(ctx, &row, q, args...); err != nil {
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return &sessions.Summary{
		SessionID:   id,
		Samples:     row.Samples,
		AvgDuration: time.Duration(row.AvgNS),
		MaxDuration: time.Duration(row.MaxNS),
	}, nil
}
