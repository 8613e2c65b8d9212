package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores hands and the agent catalog in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// OpenPostgres connects to url. When the URL carries no password, accessKey
// is used instead.
func OpenPostgres(ctx context.Context, url, accessKey string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("store: parse postgres url: %w", err)
	}
	if cfg.ConnConfig.Password == "" {
		cfg.ConnConfig.Password = accessKey
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	if err := ensurePostgresSchema(pingCtx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS agents (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    personality_type TEXT NOT NULL DEFAULT '',
    balance          INTEGER NOT NULL DEFAULT 0,
    seq              BIGSERIAL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS game_sessions (
    id                    TEXT PRIMARY KEY,
    status                TEXT NOT NULL,
    pot_amount            INTEGER NOT NULL DEFAULT 0,
    board_cards           TEXT[] NOT NULL DEFAULT '{}',
    current_turn_agent_id TEXT,
    created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS game_logs (
    id               BIGSERIAL PRIMARY KEY,
    game_id          TEXT NOT NULL REFERENCES game_sessions(id),
    agent_id         TEXT NOT NULL,
    action           TEXT NOT NULL,
    amount           INTEGER NOT NULL,
    thought_process  TEXT NOT NULL DEFAULT '',
    confidence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_game_logs_game ON game_logs (game_id, id)`,
}

func ensurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("store: ensure postgres schema: %w", err)
		}
	}
	return nil
}

func (p *Postgres) CreateHandRecord(ctx context.Context) (string, error) {
	var id string
	err := p.pool.QueryRow(ctx,
		`INSERT INTO game_sessions (id, status, pot_amount, board_cards) VALUES ($1, 'playing', 0, '{}') RETURNING id`,
		uuid.NewString()).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("store: create hand record: %w", err)
	}
	return id, nil
}

func (p *Postgres) UpdateSnapshot(ctx context.Context, u SessionUpdate) error {
	var turn *string
	if u.CurrentTurnSeatID != "" {
		turn = &u.CurrentTurnSeatID
	}
	tag, err := p.pool.Exec(ctx, `
UPDATE game_sessions
SET pot_amount = $2, board_cards = $3, current_turn_agent_id = $4, status = $5, updated_at = now()
WHERE id = $1`, u.SessionID, u.Pot, nonNil(u.Board), turn, u.Status)
	if err != nil {
		return fmt.Errorf("store: update snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) AppendActionLog(ctx context.Context, e ActionEntry) error {
	_, err := p.pool.Exec(ctx, `
INSERT INTO game_logs (game_id, agent_id, action, amount, thought_process, confidence_score)
VALUES ($1, $2, $3, $4, $5, $6)`, e.SessionID, e.SeatID, e.Action, e.Amount, e.Rationale, e.Confidence)
	if err != nil {
		return fmt.Errorf("store: append action log: %w", err)
	}
	return nil
}

func (p *Postgres) ListAgents(ctx context.Context, limit int) ([]Agent, error) {
	query := `SELECT id, name, personality_type, balance FROM agents ORDER BY seq`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list agents: %w", err)
	}
	agents, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Agent, error) {
		var a Agent
		err := row.Scan(&a.ID, &a.Name, &a.Personality, &a.Balance)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("store: list agents: %w", err)
	}
	return agents, nil
}

func (p *Postgres) SeedAgents(ctx context.Context, agents []Agent) error {
	batch := &pgx.Batch{}
	for _, a := range agents {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		batch.Queue(`INSERT INTO agents (id, name, personality_type, balance) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
			a.ID, a.Name, a.Personality, a.Balance)
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("store: seed agents: %w", err)
	}
	return nil
}

// Session reads back the latest snapshot for id.
func (p *Postgres) Session(ctx context.Context, id string) (SessionUpdate, error) {
	var (
		u    SessionUpdate
		turn *string
	)
	err := p.pool.QueryRow(ctx, `
SELECT id, status, pot_amount, board_cards, current_turn_agent_id, updated_at
FROM game_sessions WHERE id = $1`, id).Scan(&u.SessionID, &u.Status, &u.Pot, &u.Board, &turn, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SessionUpdate{}, ErrNotFound
	}
	if err != nil {
		return SessionUpdate{}, err
	}
	if turn != nil {
		u.CurrentTurnSeatID = *turn
	}
	return u, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
