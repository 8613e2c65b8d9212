package main

import (
	"context"
	"fmt"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/store"
)

// SeedCmd inserts the configured agents. Without --force it only seeds an
// empty catalog.
type SeedCmd struct {
	ConfigFlags `embed:""`

	Force bool `help:"Insert even when the catalog already has agents"`
}

func (c *SeedCmd) Run() error {
	cfg, logger, err := c.setup()
	if err != nil {
		return err
	}
	ctx := context.Background()

	st, err := store.Open(ctx, storeOptions(cfg))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	agents := catalogAgents(cfg)
	if c.Force {
		if err := st.SeedAgents(ctx, agents); err != nil {
			return fmt.Errorf("seed agents: %w", err)
		}
		logger.Info("Seeded agents", "count", len(agents), "storage", redact(cfg.Storage.URL))
		return nil
	}

	seeded, err := store.EnsureSeeded(ctx, st, agents)
	if err != nil {
		return fmt.Errorf("seed agents: %w", err)
	}
	if !seeded {
		logger.Info("Catalog already has agents, nothing to do")
		return nil
	}
	logger.Info("Seeded agents", "count", len(agents), "storage", redact(cfg.Storage.URL))
	return nil
}
