package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Table.SmallBlind)
	assert.Equal(t, 100, cfg.Table.BigBlind)
	assert.Equal(t, 10000, cfg.Table.StartingStack)
	assert.Equal(t, 6, cfg.Table.MaxSeats)
	assert.True(t, cfg.RebuyEnabled())
	assert.Nil(t, cfg.Table.Seed)

	timing, err := cfg.Durations()
	require.NoError(t, err)
	assert.Equal(t, Timing{
		ThinkDelay:      2 * time.Second,
		StreetDelay:     1500 * time.Millisecond,
		HandDelay:       4 * time.Second,
		IdleDelay:       time.Second,
		RetryDelay:      5 * time.Second,
		DecisionTimeout: 5 * time.Second,
		PersistTimeout:  3 * time.Second,
	}, timing)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deepstacks.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  port      = 8080
  log_level = "debug"
}

storage {
  url         = "sqlite:///var/lib/deepstacks/arena.db"
  redis_url   = "redis://localhost:6379/0"
  history_dir = "hands"
}

table {
  small_blind      = 25
  max_seats        = 4
  big_blind_option = true
  split_ties       = true
  rebuy            = false
  seed             = 42
}

timing {
  think_delay = "0s"
  hand_delay  = "250ms"
}

agent "AlphaBot-7" {
  personality = "aggressive"
  balance     = 5000
}

agent "Quiet" {}
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "text", cfg.Server.LogFormat)
	assert.Equal(t, "sqlite:///var/lib/deepstacks/arena.db", cfg.Storage.URL)
	assert.Equal(t, "hands", cfg.Storage.HistoryDir)

	assert.Equal(t, 25, cfg.Table.SmallBlind)
	assert.Equal(t, 50, cfg.Table.BigBlind, "big blind defaults to twice the small")
	assert.Equal(t, 5000, cfg.Table.StartingStack)
	assert.True(t, cfg.Table.BigBlindOption)
	assert.True(t, cfg.Table.SplitTies)
	assert.False(t, cfg.RebuyEnabled())
	require.NotNil(t, cfg.Table.Seed)
	assert.Equal(t, int64(42), *cfg.Table.Seed)

	timing, err := cfg.Durations()
	require.NoError(t, err)
	assert.Zero(t, timing.ThinkDelay)
	assert.Equal(t, 250*time.Millisecond, timing.HandDelay)
	assert.Equal(t, 1500*time.Millisecond, timing.StreetDelay)

	require.Len(t, cfg.Agents, 2)
	assert.Equal(t, AgentConfig{Name: "AlphaBot-7", Personality: "aggressive", Balance: 5000}, cfg.Agents[0])
	assert.Equal(t, "GTO", cfg.Agents[1].Personality)
}

func TestParseRejectsBadHCL(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`table { small_blind = }`), "bad.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`table { unknown = 1 }`), "bad.hcl")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"log format", func(c *Config) { c.Server.LogFormat = "xml" }},
		{"small blind", func(c *Config) { c.Table.SmallBlind = 0 }},
		{"big blind below small", func(c *Config) { c.Table.BigBlind = 50 }},
		{"stack below big blind", func(c *Config) { c.Table.StartingStack = 10 }},
		{"too many seats", func(c *Config) { c.Table.MaxSeats = 11 }},
		{"one seat", func(c *Config) { c.Table.MinSeats = 1 }},
		{"bad duration", func(c *Config) { c.Timing.ThinkDelay = "soon" }},
		{"negative duration", func(c *Config) { c.Timing.HandDelay = "-1s" }},
		{"duplicate agent", func(c *Config) {
			c.Agents = []AgentConfig{{Name: "a"}, {Name: "a"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
