package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/config"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/engine"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/handhistory"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/statistics"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// SimulateCmd plays hands with no delays against an in-memory store.
type SimulateCmd struct {
	ConfigFlags `embed:""`

	Hands      int    `short:"n" default:"1000" help:"Number of hands to play"`
	Seed       *int64 `help:"Deterministic RNG seed (overrides config)"`
	HistoryDir string `help:"Write PHH hand histories here"`
	Verbose    bool   `short:"V" help:"Log every action"`
}

func (c *SimulateCmd) Run() error {
	cfg, logger, err := c.setup()
	if err != nil {
		return err
	}
	if c.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return c.run(context.Background(), cfg, logger, os.Stdout)
}

func (c *SimulateCmd) run(ctx context.Context, cfg *config.Config, logger *log.Logger, out io.Writer) error {
	if c.Hands <= 0 {
		return errors.New("--hands must be positive")
	}

	agents := catalogAgents(cfg)
	st := store.NewMemory()
	if err := st.SeedAgents(ctx, agents); err != nil {
		return err
	}

	bus := game.NewEventBus()
	stats := statistics.NewCollector()
	bus.Subscribe(stats)

	var history *handhistory.Recorder
	if c.HistoryDir != "" {
		var err error
		history, err = handhistory.New(handhistory.Config{Dir: c.HistoryDir, FlushHands: 100}, logger)
		if err != nil {
			return err
		}
		bus.Subscribe(history)
	}

	timing, err := timingFromConfig(cfg)
	if err != nil {
		return err
	}
	// Only the decision deadline survives; everything else runs flat out.
	timing = engine.Timing{Decision: timing.Decision}

	rng := newRNG(cfg, c.Seed, logger)
	eng := newEngine(st, rng, logger, tableFromConfig(cfg), timing,
		engine.WithEventBus(bus),
		engine.WithHandLimit(c.Hands))

	logger.Info("Simulating", "hands", c.Hands, "agents", len(agents))
	for !eng.Done() {
		if _, err := eng.Step(ctx); err != nil {
			if errors.Is(err, engine.ErrInsufficientAgents) {
				logger.Warn("Not enough funded agents to continue", "hands", eng.HandsCompleted())
				break
			}
			return err
		}
		eng.Flush(ctx)
	}

	if history != nil {
		if err := history.Close(); err != nil {
			logger.Warn("Hand history flush failed", "error", err)
		} else {
			logger.Info("Hand histories written", "path", history.Path())
		}
	}

	printSummary(out, eng.HandsCompleted(), cfg.Table.BigBlind, eng.Roster(), stats.Summary())
	return nil
}

func printSummary(out io.Writer, hands, bigBlind int, roster []game.Seat, summary []statistics.AgentSummary) {
	stacks := make(map[string]int, len(roster))
	total := 0
	for _, seat := range roster {
		stacks[seat.ID] = seat.Stack
		total += seat.Stack
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Simulated %d hands (big blind %d)", hands, bigBlind)))
	fmt.Fprintln(out, mutedStyle.Render(strings.Repeat("─", 72)))
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-18s %-12s %6s %10s %10s %8s", "Agent", "Style", "Hands", "Net", "Stack", "BB/hand")))
	for _, s := range summary {
		net := fmt.Sprintf("%+10d", s.NetChips)
		if s.NetChips >= 0 {
			net = winStyle.Render(net)
		} else {
			net = lossStyle.Render(net)
		}
		fmt.Fprintf(out, "%s %-12s %6d %s %10d %8.2f\n",
			nameStyle.Render(fmt.Sprintf("%-18s", s.Name)),
			s.Personality, s.Hands, net, stacks[s.ID], s.BBPerHand)
	}
	fmt.Fprintln(out, mutedStyle.Render(strings.Repeat("─", 72)))
	fmt.Fprintf(out, "Chips on table: %d\n", total)
}
