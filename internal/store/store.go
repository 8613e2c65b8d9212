// Package store persists hand records, snapshots and action logs, and keeps
// the catalog of agents that take seats.
//
// Persistence is a best-effort mirror of the engine's in-memory state: the
// engine never waits on a write to make progress, and a failed write is
// logged and dropped.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("store: not found")

// Agent is a catalog entry.
type Agent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Personality string `json:"personality"`
	Balance     int    `json:"balance"`
}

// SessionUpdate is the public state written after every step. Writes are
// idempotent; the last one wins.
type SessionUpdate struct {
	SessionID         string    `json:"session_id"`
	Pot               int       `json:"pot"`
	Board             []string  `json:"board"`
	CurrentTurnSeatID string    `json:"current_turn_seat_id,omitempty"`
	Status            string    `json:"status"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ActionEntry is one append-only action-log row.
type ActionEntry struct {
	SessionID  string    `json:"session_id"`
	SeatID     string    `json:"seat_id"`
	Action     string    `json:"action"`
	Amount     int       `json:"amount"`
	Rationale  string    `json:"rationale"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// Gateway is the persistence surface the engine writes through.
type Gateway interface {
	CreateHandRecord(ctx context.Context) (string, error)
	UpdateSnapshot(ctx context.Context, u SessionUpdate) error
	AppendActionLog(ctx context.Context, e ActionEntry) error
}

// Catalog lists the agents available to sit down.
type Catalog interface {
	ListAgents(ctx context.Context, limit int) ([]Agent, error)
	SeedAgents(ctx context.Context, agents []Agent) error
}

// Store is a Gateway and Catalog backed by one resource.
type Store interface {
	Gateway
	Catalog
	Close() error
}

// DefaultAgents are seeded into an empty catalog.
func DefaultAgents() []Agent {
	return []Agent{
		{Name: "AlphaBot-7", Personality: "aggressive"},
		{Name: "DeepStack_v2", Personality: "GTO"},
		{Name: "NeuralBluff", Personality: "loose"},
		{Name: "GTO_Master", Personality: "tight"},
	}
}

// EnsureSeeded seeds agents when the catalog is empty and reports whether it
// did.
func EnsureSeeded(ctx context.Context, c Catalog, agents []Agent) (bool, error) {
	existing, err := c.ListAgents(ctx, 1)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	if err := c.SeedAgents(ctx, agents); err != nil {
		return false, err
	}
	return true, nil
}
