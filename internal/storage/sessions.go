package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"vkshell/internal/stories/sessions"
)

const sessionsTable = "render_sessions"

var sessionRowFields = fields(sessionRow{})

type sessionRow struct {
	ID         string       `db:"id"`
	Title      string       `db:"title"`
	Validation bool         `db:"validation"`
	Width      int          `db:"width"`
	Height     int          `db:"height"`
	StartedAt  time.Time    `db:"started_at"`
	EndedAt    sql.NullTime `db:"ended_at"`
	Frames     int64        `db:"frames"`
}

func (s sessionRow) ToModel() *sessions.Session {
	session := &sessions.Session{
		ID:         s.ID,
		Title:      s.Title,
		Validation: s.Validation,
		Width:      s.Width,
		Height:     s.Height,
		StartedAt:  s.StartedAt,
		Frames:     uint64(s.Frames),
	}
	if s.EndedAt.Valid {
		endedAt := s.EndedAt.Time
		session.EndedAt = &endedAt
	}
	return session
}

func (s *storageImpl) CreateSession(ctx context.Context, session sessions.Session) error {
	startedAt := session.StartedAt
	if startedAt.IsZero() {
		startedAt = s.now()
	}

	params := map[string]interface{}{
		"id":         session.ID,
		"title":      session.Title,
		"validation": session.Validation,
		"width":      session.Width,
		"height":     session.Height,
		"started_at": startedAt,
		"frames":     0,
	}

	q, args, err := s.stmpBuilder().
		Insert(sessionsTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	return nil
}

func (s *storageImpl) FinishSession(ctx context.Context, id string, endedAt time.Time, frames uint64) error {
	q, args, err := s.stmpBuilder().
		Update(sessionsTable).
		Set("ended_at", endedAt).
		Set("frames", int64(frames)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s not found", id)
	}

	return nil
}

func (s *storageImpl) GetSession(ctx context.Context, id string) (*sessions.Session, error) {
	q, args, err := s.stmpBuilder().
		Select(sessionRowFields).
		From(sessionsTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row sessionRow
	err = s.db.GetContext(ctx, &row, q, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return row.ToModel(), nil
}
