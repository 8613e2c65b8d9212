package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultRetention is how many hands a Memory store keeps.
const DefaultRetention = 1000

// Memory keeps everything in process. It backs tests, `simulate` and a
// `serve` without a storage url. Only the most recent hands are retained;
// older sessions and their actions are pruned as new hands start.
type Memory struct {
	mu       sync.Mutex
	agents   []Agent
	order    []string
	sessions map[string]SessionUpdate
	actions  []ActionEntry
	retain   int
	now      func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store keeping DefaultRetention hands.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]SessionUpdate),
		retain:   DefaultRetention,
		now:      time.Now,
	}
}

// SetRetention changes how many hands are kept. Zero or less keeps all of
// them.
func (m *Memory) SetRetention(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retain = n
	m.prune()
}

func (m *Memory) CreateHandRecord(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.sessions[id] = SessionUpdate{SessionID: id, Status: "playing", Board: []string{}, UpdatedAt: m.now()}
	m.order = append(m.order, id)
	m.prune()
	return id, nil
}

// prune drops the oldest sessions beyond the retention limit. Callers hold mu.
func (m *Memory) prune() {
	excess := len(m.order) - m.retain
	if m.retain <= 0 || excess <= 0 {
		return
	}
	dropped := make(map[string]bool, excess)
	for _, id := range m.order[:excess] {
		dropped[id] = true
		delete(m.sessions, id)
	}
	m.order = slices.Clone(m.order[excess:])
	m.actions = slices.DeleteFunc(m.actions, func(e ActionEntry) bool { return dropped[e.SessionID] })
}

func (m *Memory) UpdateSnapshot(_ context.Context, u SessionUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[u.SessionID]; !ok {
		return ErrNotFound
	}
	u.Board = slices.Clone(u.Board)
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = m.now()
	}
	m.sessions[u.SessionID] = u
	return nil
}

func (m *Memory) AppendActionLog(_ context.Context, e ActionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[e.SessionID]; !ok {
		return ErrNotFound
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
	}
	m.actions = append(m.actions, e)
	return nil
}

func (m *Memory) ListAgents(_ context.Context, limit int) ([]Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.agents)
	if limit > 0 && limit < n {
		n = limit
	}
	return slices.Clone(m.agents[:n]), nil
}

func (m *Memory) SeedAgents(_ context.Context, agents []Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range agents {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		m.agents = append(m.agents, a)
	}
	return nil
}

// RemoveAgent drops an agent from the catalog.
func (m *Memory) RemoveAgent(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents = slices.DeleteFunc(m.agents, func(a Agent) bool { return a.ID == id })
}

// Session returns the latest snapshot written for id.
func (m *Memory) Session(id string) (SessionUpdate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.sessions[id]
	return u, ok
}

// Sessions returns every session id in creation order.
func (m *Memory) Sessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.order)
}

// Actions returns the action log for id, or the whole log when id is empty.
func (m *Memory) Actions(id string) []ActionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		return slices.Clone(m.actions)
	}
	var out []ActionEntry
	for _, e := range m.actions {
		if e.SessionID == id {
			out = append(out, e)
		}
	}
	return out
}

func (m *Memory) Close() error { return nil }
