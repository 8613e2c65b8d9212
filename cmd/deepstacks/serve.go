package main

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/cmd/deepstacks/shared"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/engine"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/handhistory"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/spectator"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/statistics"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/store"
)

// ServeCmd runs the table loop and the spectator feed until interrupted.
type ServeCmd struct {
	ConfigFlags `embed:""`

	Port       int    `env:"PORT" help:"Spectator HTTP port (overrides config)"`
	HistoryDir string `env:"HISTORY_DIR" help:"Write PHH hand histories here (overrides config)"`
	Seed       *int64 `help:"Deterministic RNG seed (overrides config)"`
}

func (c *ServeCmd) Run() error {
	cfg, logger, err := c.setup()
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.HistoryDir != "" {
		cfg.Storage.HistoryDir = c.HistoryDir
	}
	timing, err := timingFromConfig(cfg)
	if err != nil {
		return err
	}

	ctx := shared.SetupSignalHandler(logger)
	rng := newRNG(cfg, c.Seed, logger)

	st, err := store.Open(ctx, storeOptions(cfg))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	if cfg.Storage.URL == "" {
		logger.Warn("No storage url configured, keeping recent hands in memory only",
			"retained_hands", store.DefaultRetention)
	}

	seeded, err := store.EnsureSeeded(ctx, st, catalogAgents(cfg))
	if err != nil {
		return fmt.Errorf("seed agents: %w", err)
	}
	if seeded {
		logger.Info("Seeded empty catalog", "agents", len(catalogAgents(cfg)))
	}

	bus := game.NewEventBus()
	stats := statistics.NewCollector()
	bus.Subscribe(stats)

	eng := newEngine(st, rng, logger, tableFromConfig(cfg), timing, engine.WithEventBus(bus))
	hub := spectator.NewHub(eng, logger).WithStats(stats)
	bus.Subscribe(hub)

	if dir := cfg.Storage.HistoryDir; dir != "" {
		rec, err := handhistory.New(handhistory.Config{Dir: dir}, logger)
		if err != nil {
			return err
		}
		bus.Subscribe(rec)
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Warn("Hand history flush failed", "error", err)
			}
		}()
		logger.Info("Recording hand histories", "path", rec.Path())
	}

	logger.Info("Starting DeepStacks arena",
		"port", cfg.Server.Port,
		"storage", redact(cfg.Storage.URL),
		"small_blind", cfg.Table.SmallBlind,
		"big_blind", cfg.Table.BigBlind,
		"max_seats", cfg.Table.MaxSeats,
		"decision_timeout", timing.Decision)

	srv := spectator.NewServer(fmt.Sprintf(":%d", cfg.Server.Port), hub, logger)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return eng.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx) })
	return g.Wait()
}
