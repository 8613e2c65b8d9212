package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/fileutil"
)

// File keeps the store in a directory:
//
//	agents.json          the catalog
//	sessions/<id>.json   latest snapshot per hand
//	actions.jsonl        the action log, one entry per line
type File struct {
	mu  sync.Mutex
	dir string
}

var _ Store = (*File)(nil)

// OpenFile uses dir, creating it when missing.
func OpenFile(dir string) (*File, error) {
	if err := os.MkdirAll(filepath.Join(dir, "sessions"), 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) sessionPath(id string) string {
	return filepath.Join(f.dir, "sessions", id+".json")
}

func (f *File) CreateHandRecord(_ context.Context) (string, error) {
	id := uuid.NewString()
	u := SessionUpdate{SessionID: id, Status: "playing", Board: []string{}, UpdatedAt: time.Now().UTC()}
	if err := fileutil.WriteJSONAtomic(f.sessionPath(id), u, 0o644); err != nil {
		return "", fmt.Errorf("store: create hand record: %w", err)
	}
	return id, nil
}

func (f *File) UpdateSnapshot(_ context.Context, u SessionUpdate) error {
	path := f.sessionPath(u.SessionID)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return ErrNotFound
	}
	u.Board = nonNil(u.Board)
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = time.Now().UTC()
	}
	return fileutil.WriteJSONAtomic(path, u, 0o644)
}

func (f *File) AppendActionLog(_ context.Context, e ActionEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return fileutil.AppendJSONLine(filepath.Join(f.dir, "actions.jsonl"), e, 0o644)
}

func (f *File) ListAgents(_ context.Context, limit int) ([]Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	agents, err := f.readAgents()
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(agents) {
		agents = agents[:limit]
	}
	return agents, nil
}

func (f *File) SeedAgents(_ context.Context, agents []Agent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, err := f.readAgents()
	if err != nil {
		return err
	}
	for _, a := range agents {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		existing = append(existing, a)
	}
	return fileutil.WriteJSONAtomic(filepath.Join(f.dir, "agents.json"), existing, 0o644)
}

func (f *File) readAgents() ([]Agent, error) {
	var agents []Agent
	if _, err := fileutil.ReadJSON(filepath.Join(f.dir, "agents.json"), &agents); err != nil {
		return nil, fmt.Errorf("store: read agents: %w", err)
	}
	return agents, nil
}

// Session reads back the latest snapshot for id.
func (f *File) Session(id string) (SessionUpdate, error) {
	var u SessionUpdate
	found, err := fileutil.ReadJSON(f.sessionPath(id), &u)
	if err != nil {
		return SessionUpdate{}, err
	}
	if !found {
		return SessionUpdate{}, ErrNotFound
	}
	return u, nil
}

// Actions reads the action log for id.
func (f *File) Actions(id string) ([]ActionEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(filepath.Join(f.dir, "actions.jsonl"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var out []ActionEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var e ActionEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("store: corrupt action log: %w", err)
		}
		if e.SessionID == id {
			out = append(out, e)
		}
	}
	return out, scanner.Err()
}

func (f *File) Close() error { return nil }
