package storage

var schema = []string{
	`CREATE TABLE IF NOT EXISTS render_sessions (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		validation  BOOLEAN NOT NULL DEFAULT FALSE,
		width       INTEGER NOT NULL,
		height      INTEGER NOT NULL,
		started_at  DATETIME NOT NULL,
		ended_at    DATETIME,
		frames      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS frame_samples (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id   TEXT NOT NULL REFERENCES render_sessions(id) ON DELETE CASCADE,
		frame        INTEGER NOT NULL,
		width        INTEGER NOT NULL,
		height       INTEGER NOT NULL,
		duration_ns  INTEGER NOT NULL,
		generation   INTEGER NOT NULL,
		recorded_at  DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_frame_samples_session ON frame_samples(session_id, frame)`,
	`CREATE INDEX IF NOT EXISTS idx_frame_samples_recorded_at ON frame_samples(recorded_at)`,
}
