package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite is a single-file store for running without a database server.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("store: empty sqlite database path")
	}
	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

var sqliteSchema = []string{
	`
CREATE TABLE IF NOT EXISTS agents (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    personality_type TEXT NOT NULL DEFAULT '',
    balance          INTEGER NOT NULL DEFAULT 0,
    created_at_ms    INTEGER NOT NULL
)`,
	`
CREATE TABLE IF NOT EXISTS game_sessions (
    id                    TEXT PRIMARY KEY,
    status                TEXT NOT NULL,
    pot_amount            INTEGER NOT NULL DEFAULT 0,
    board_cards           TEXT NOT NULL DEFAULT '[]',
    current_turn_agent_id TEXT,
    created_at_ms         INTEGER NOT NULL,
    updated_at_ms         INTEGER NOT NULL
)`,
	`
CREATE TABLE IF NOT EXISTS game_logs (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id          TEXT NOT NULL REFERENCES game_sessions(id),
    agent_id         TEXT NOT NULL,
    action           TEXT NOT NULL,
    amount           INTEGER NOT NULL,
    thought_process  TEXT NOT NULL DEFAULT '',
    confidence_score REAL NOT NULL DEFAULT 0,
    created_at_ms    INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_game_logs_game ON game_logs(game_id, id)`,
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: ensure sqlite schema: %w", err)
		}
	}
	return nil
}

func (s *SQLite) CreateHandRecord(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().UnixMilli()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO game_sessions (id, status, pot_amount, board_cards, created_at_ms, updated_at_ms)
VALUES (?, 'playing', 0, '[]', ?, ?)`, id, now, now)
	if err != nil {
		return "", fmt.Errorf("store: create hand record: %w", err)
	}
	return id, nil
}

func (s *SQLite) UpdateSnapshot(ctx context.Context, u SessionUpdate) error {
	board, err := json.Marshal(nonNil(u.Board))
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE game_sessions
SET pot_amount = ?, board_cards = ?, current_turn_agent_id = ?, status = ?, updated_at_ms = ?
WHERE id = ?`, u.Pot, string(board), nullString(u.CurrentTurnSeatID), u.Status, millis(u.UpdatedAt), u.SessionID)
	if err != nil {
		return fmt.Errorf("store: update snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) AppendActionLog(ctx context.Context, e ActionEntry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO game_logs (game_id, agent_id, action, amount, thought_process, confidence_score, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?)`, e.SessionID, e.SeatID, e.Action, e.Amount, e.Rationale, e.Confidence, millis(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("store: append action log: %w", err)
	}
	return nil
}

func (s *SQLite) ListAgents(ctx context.Context, limit int) ([]Agent, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, personality_type, balance FROM agents
ORDER BY created_at_ms, rowid LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list agents: %w", err)
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		var a Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Personality, &a.Balance); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (s *SQLite) SeedAgents(ctx context.Context, agents []Agent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().UnixMilli()
	for _, a := range agents {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO agents (id, name, personality_type, balance, created_at_ms) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING`, a.ID, a.Name, a.Personality, a.Balance, now); err != nil {
			return fmt.Errorf("store: seed agent %s: %w", a.Name, err)
		}
	}
	return tx.Commit()
}

// Session reads back the latest snapshot for id.
func (s *SQLite) Session(ctx context.Context, id string) (SessionUpdate, error) {
	var (
		u     SessionUpdate
		board string
		turn  sql.NullString
		ms    int64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, status, pot_amount, board_cards, current_turn_agent_id, updated_at_ms
FROM game_sessions WHERE id = ?`, id).Scan(&u.SessionID, &u.Status, &u.Pot, &board, &turn, &ms)
	if err == sql.ErrNoRows {
		return SessionUpdate{}, ErrNotFound
	}
	if err != nil {
		return SessionUpdate{}, err
	}
	if err := json.Unmarshal([]byte(board), &u.Board); err != nil {
		return SessionUpdate{}, err
	}
	u.CurrentTurnSeatID = turn.String
	u.UpdatedAt = time.UnixMilli(ms).UTC()
	return u, nil
}

// Actions reads back the action log for id in insertion order.
func (s *SQLite) Actions(ctx context.Context, id string) ([]ActionEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT game_id, agent_id, action, amount, thought_process, confidence_score, created_at_ms
FROM game_logs WHERE game_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActionEntry
	for rows.Next() {
		var (
			e  ActionEntry
			ms int64
		)
		if err := rows.Scan(&e.SessionID, &e.SeatID, &e.Action, &e.Amount, &e.Rationale, &e.Confidence, &ms); err != nil {
			return nil, err
		}
		e.CreatedAt = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nonNil(board []string) []string {
	if board == nil {
		return []string{}
	}
	return board
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().UnixMilli()
}
