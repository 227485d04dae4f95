package history

import (
	"context"
	"slices"
	"sync"

	"github.com/5w1tchy/strength-api/internal/session"
)

// Memory is a process-local store for single-instance deployments and tests.
type Memory struct {
	mu       sync.Mutex
	entries  map[string][]session.Entry
	unlocked map[string][]string
}

func NewMemory() session.Store {
	return &Memory{
		entries:  map[string][]session.Entry{},
		unlocked: map[string][]string{},
	}
}

func (m *Memory) Append(_ context.Context, sid string, e session.Entry, limit int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > 0 && len(m.entries[sid]) >= limit {
		return session.ErrHistoryFull
	}
	for _, got := range m.entries[sid] {
		if got.Fingerprint == e.Fingerprint {
			return session.ErrDuplicate
		}
	}
	m.entries[sid] = append(m.entries[sid], e)
	return nil
}

func (m *Memory) List(_ context.Context, sid string) ([]session.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries[sid]), nil
}

func (m *Memory) Count(_ context.Context, sid string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries[sid]), nil
}

func (m *Memory) Unlock(_ context.Context, sid string, names ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		if !slices.Contains(m.unlocked[sid], n) {
			m.unlocked[sid] = append(m.unlocked[sid], n)
		}
	}
	return nil
}

func (m *Memory) Achievements(_ context.Context, sid string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.unlocked[sid]), nil
}
