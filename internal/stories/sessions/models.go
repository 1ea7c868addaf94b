package sessions

import "time"

// Session is one run of the renderer, from Init to CleanUp.
type Session struct {
	ID         string
	Title      string
	Validation bool
	Width      int
	Height     int
	StartedAt  time.Time
	EndedAt    *time.Time
	Frames     uint64
}

// FrameSample describes one rendered frame.
type FrameSample struct {
	SessionID  string
	Frame      uint64
	Width      int
	Height     int
	Duration   time.Duration
	Generation uint64
	RecordedAt time.Time
}

// Summary aggregates the persisted samples of a session.
type Summary struct {
	SessionID   string
	Samples     int64
	AvgDuration time.Duration
	MaxDuration time.Duration
}
