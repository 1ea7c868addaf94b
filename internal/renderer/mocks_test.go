package renderer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vkshell/internal/stories/sessions"
)

// mockStorage is an in-memory Storage.
type mockStorage struct {
	mu        sync.Mutex
	sessions  map[string]sessions.Session
	samples   []sessions.FrameSample
	createErr error
	insertErr error

	// insertFailAt makes the n-th InsertFrameSamples call fail, 1-based
	insertFailAt int
	insertCalls  int
	finishCalls  int
}

func newMockStorage() *mockStorage {
	return &mockStorage{sessions: make(map[string]sessions.Session)}
}

func (m *mockStorage) CreateSession(_ context.Context, session sessions.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *mockStorage) FinishSession(_ context.Context, id string, endedAt time.Time, frames uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finishCalls++
	session, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("session %s not found", id)
	}
	session.EndedAt = &endedAt
	session.Frames = frames
	m.sessions[id] = session
	return nil
}

func (m *mockStorage) InsertFrameSamples(_ context.Context, samples []sessions.FrameSample) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	if m.insertCalls == m.insertFailAt {
		return 0, fmt.Errorf("insert call %d failed", m.insertCalls)
	}
	m.samples = append(m.samples, samples...)
	return len(samples), nil
}

func (m *mockStorage) SessionSummary(_ context.Context, id string) (*sessions.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary := &sessions.Summary{SessionID: id}
	for _, s := range m.samples {
		if s.SessionID != id {
			continue
		}
		summary.Samples++
		if s.Duration > summary.MaxDuration {
			summary.MaxDuration = s.Duration
		}
	}
	return summary, nil
}

func (m *mockStorage) session(id string) (sessions.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *mockStorage) sampleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.samples)
}

func (m *mockStorage) setInsertErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertErr = err
}

func (m *mockStorage) storedFrames() []uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	frames := make([]uint64, 0, len(m.samples))
	for _, s := range m.samples {
		frames = append(frames, s.Frame)
	}
	return frames
}

func (m *mockStorage) calls() (inserts, finishes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertCalls, m.finishCalls
}
