package main

import (
	rand "math/rand/v2"
	"net/url"

	"github.com/charmbracelet/log"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/cmd/deepstacks/shared"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/bot"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/config"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/engine"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/randutil"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/store"
)

// ConfigFlags are shared by every command. Flags and environment variables
// override the HCL file.
type ConfigFlags struct {
	Config     string `short:"c" default:"deepstacks.hcl" env:"DEEPSTACKS_CONFIG" help:"Path to HCL configuration file"`
	LogLevel   string `short:"l" env:"LOG_LEVEL" help:"Log level (overrides config)"`
	LogFormat  string `env:"LOG_FORMAT" help:"Log format: text, json or logfmt (overrides config)"`
	StorageURL string `env:"STORAGE_URL" help:"Storage URL: memory://, sqlite://, file://, postgres:// (overrides config)"`
	StorageKey string `env:"STORAGE_KEY" help:"Storage access key (overrides config)"`
	RedisURL   string `env:"REDIS_URL" help:"Mirror snapshots and actions to Redis (overrides config)"`
}

// load reads the config file and applies flag overrides.
func (f *ConfigFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, err
	}
	if f.LogLevel != "" {
		cfg.Server.LogLevel = f.LogLevel
	}
	if f.LogFormat != "" {
		cfg.Server.LogFormat = f.LogFormat
	}
	if f.StorageURL != "" {
		cfg.Storage.URL = f.StorageURL
	}
	if f.StorageKey != "" {
		cfg.Storage.AccessKey = f.StorageKey
	}
	if f.RedisURL != "" {
		cfg.Storage.RedisURL = f.RedisURL
	}
	return cfg, nil
}

func (f *ConfigFlags) setup() (*config.Config, *log.Logger, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger, err := shared.SetupLogger(cfg.Server.LogLevel, cfg.Server.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func storeOptions(cfg *config.Config) store.Options {
	return store.Options{
		URL:       cfg.Storage.URL,
		AccessKey: cfg.Storage.AccessKey,
		RedisURL:  cfg.Storage.RedisURL,
	}
}

// catalogAgents returns the configured agents, or the default roster when
// the file names none.
func catalogAgents(cfg *config.Config) []store.Agent {
	if len(cfg.Agents) == 0 {
		return store.DefaultAgents()
	}
	agents := make([]store.Agent, len(cfg.Agents))
	for i, a := range cfg.Agents {
		agents[i] = store.Agent{Name: a.Name, Personality: a.Personality, Balance: a.Balance}
	}
	return agents
}

func newRNG(cfg *config.Config, override *int64, logger *log.Logger) *rand.Rand {
	explicit := cfg.Table.Seed
	if override != nil {
		explicit = override
	}
	seed := randutil.Seed(explicit)
	logger.Info("Using seed", "seed", seed, "deterministic", explicit != nil)
	return randutil.New(seed)
}

func tableFromConfig(cfg *config.Config) engine.Table {
	t := cfg.Table
	return engine.Table{
		Rules: game.Rules{
			SmallBlind:     t.SmallBlind,
			BigBlind:       t.BigBlind,
			BigBlindOption: t.BigBlindOption,
			FullAction:     t.FullAction,
			SplitTies:      t.SplitTies,
		},
		StartingStack: t.StartingStack,
		MinSeats:      t.MinSeats,
		MaxSeats:      t.MaxSeats,
		Rebuy:         cfg.RebuyEnabled(),
	}
}

func timingFromConfig(cfg *config.Config) (engine.Timing, error) {
	d, err := cfg.Durations()
	if err != nil {
		return engine.Timing{}, err
	}
	return engine.Timing{
		Think:    d.ThinkDelay,
		Street:   d.StreetDelay,
		Hand:     d.HandDelay,
		Idle:     d.IdleDelay,
		Retry:    d.RetryDelay,
		Decision: d.DecisionTimeout,
		Persist:  d.PersistTimeout,
	}, nil
}

// newEngine wires the engine with personality-routed bots.
func newEngine(st store.Store, rng *rand.Rand, logger *log.Logger, table engine.Table, timing engine.Timing, opts ...engine.Option) *engine.Engine {
	router := bot.NewDefaultRouter(randutil.Fork(rng), logger)
	base := []engine.Option{
		engine.WithLogger(logger),
		engine.WithRand(rng),
		engine.WithTable(table),
		engine.WithTiming(timing),
	}
	return engine.New(st, st, router, append(base, opts...)...)
}

// redact hides credentials in a storage URL before it is logged.
func redact(raw string) string {
	if raw == "" {
		return "memory://"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid>"
	}
	return u.Redacted()
}
