// Package config loads the engine configuration from an HCL file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete configuration file
type Config struct {
	Server  *ServerSettings  `hcl:"server,block"`
	Storage *StorageSettings `hcl:"storage,block"`
	Table   *TableSettings   `hcl:"table,block"`
	Timing  *TimingSettings  `hcl:"timing,block"`
	Agents  []AgentConfig    `hcl:"agent,block"`
}

// ServerSettings contains process-level configuration
type ServerSettings struct {
	Port      int    `hcl:"port,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	LogFormat string `hcl:"log_format,optional"`
}

// StorageSettings selects the persistence backend.
type StorageSettings struct {
	URL        string `hcl:"url,optional"`
	AccessKey  string `hcl:"access_key,optional"`
	RedisURL   string `hcl:"redis_url,optional"`
	HistoryDir string `hcl:"history_dir,optional"`
}

// TableSettings are the table rules.
type TableSettings struct {
	SmallBlind     int    `hcl:"small_blind,optional"`
	BigBlind       int    `hcl:"big_blind,optional"`
	StartingStack  int    `hcl:"starting_stack,optional"`
	MinSeats       int    `hcl:"min_seats,optional"`
	MaxSeats       int    `hcl:"max_seats,optional"`
	BigBlindOption bool   `hcl:"big_blind_option,optional"`
	FullAction     bool   `hcl:"full_action,optional"`
	SplitTies      bool   `hcl:"split_ties,optional"`
	Rebuy          *bool  `hcl:"rebuy,optional"`
	Seed           *int64 `hcl:"seed,optional"`
}

// TimingSettings holds Go duration strings ("1.5s").
type TimingSettings struct {
	ThinkDelay      string `hcl:"think_delay,optional"`
	StreetDelay     string `hcl:"street_delay,optional"`
	HandDelay       string `hcl:"hand_delay,optional"`
	IdleDelay       string `hcl:"idle_delay,optional"`
	RetryDelay      string `hcl:"retry_delay,optional"`
	DecisionTimeout string `hcl:"decision_timeout,optional"`
	PersistTimeout  string `hcl:"persist_timeout,optional"`
}

// AgentConfig seeds one catalog entry.
type AgentConfig struct {
	Name        string `hcl:"name,label"`
	Personality string `hcl:"personality,optional"`
	Balance     int    `hcl:"balance,optional"`
}

// Timing is TimingSettings parsed.
type Timing struct {
	ThinkDelay      time.Duration
	StreetDelay     time.Duration
	HandDelay       time.Duration
	IdleDelay       time.Duration
	RetryDelay      time.Duration
	DecisionTimeout time.Duration
	PersistTimeout  time.Duration
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	rebuy := true
	return &Config{
		Server:  &ServerSettings{Port: 3001, LogLevel: "info", LogFormat: "text"},
		Storage: &StorageSettings{},
		Table: &TableSettings{
			SmallBlind:    50,
			BigBlind:      100,
			StartingStack: 10000,
			MinSeats:      2,
			MaxSeats:      6,
			Rebuy:         &rebuy,
		},
		Timing: &TimingSettings{
			ThinkDelay:      "2s",
			StreetDelay:     "1.5s",
			HandDelay:       "4s",
			IdleDelay:       "1s",
			RetryDelay:      "5s",
			DecisionTimeout: "5s",
			PersistTimeout:  "3s",
		},
	}
}

// Load reads filename. A missing file yields Default().
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills unset values from Default().
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()

	if c.Server == nil {
		c.Server = def.Server
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}
	if c.Server.LogFormat == "" {
		c.Server.LogFormat = def.Server.LogFormat
	}

	if c.Storage == nil {
		c.Storage = def.Storage
	}

	if c.Table == nil {
		c.Table = def.Table
	}
	t := c.Table
	if t.SmallBlind == 0 {
		t.SmallBlind = def.Table.SmallBlind
	}
	if t.BigBlind == 0 {
		t.BigBlind = t.SmallBlind * 2
	}
	if t.StartingStack == 0 {
		t.StartingStack = t.BigBlind * 100
	}
	if t.MinSeats == 0 {
		t.MinSeats = def.Table.MinSeats
	}
	if t.MaxSeats == 0 {
		t.MaxSeats = def.Table.MaxSeats
	}
	if t.Rebuy == nil {
		t.Rebuy = def.Table.Rebuy
	}

	if c.Timing == nil {
		c.Timing = def.Timing
	}
	tm, dt := c.Timing, def.Timing
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&tm.ThinkDelay, dt.ThinkDelay},
		{&tm.StreetDelay, dt.StreetDelay},
		{&tm.HandDelay, dt.HandDelay},
		{&tm.IdleDelay, dt.IdleDelay},
		{&tm.RetryDelay, dt.RetryDelay},
		{&tm.DecisionTimeout, dt.DecisionTimeout},
		{&tm.PersistTimeout, dt.PersistTimeout},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}

	for i := range c.Agents {
		if c.Agents[i].Personality == "" {
			c.Agents[i].Personality = "GTO"
		}
	}
}

// Durations parses the timing block.
func (c *Config) Durations() (Timing, error) {
	var out Timing
	for _, f := range []struct {
		name string
		src  string
		dst  *time.Duration
	}{
		{"think_delay", c.Timing.ThinkDelay, &out.ThinkDelay},
		{"street_delay", c.Timing.StreetDelay, &out.StreetDelay},
		{"hand_delay", c.Timing.HandDelay, &out.HandDelay},
		{"idle_delay", c.Timing.IdleDelay, &out.IdleDelay},
		{"retry_delay", c.Timing.RetryDelay, &out.RetryDelay},
		{"decision_timeout", c.Timing.DecisionTimeout, &out.DecisionTimeout},
		{"persist_timeout", c.Timing.PersistTimeout, &out.PersistTimeout},
	} {
		d, err := time.ParseDuration(f.src)
		if err != nil {
			return Timing{}, fmt.Errorf("timing.%s: %w", f.name, err)
		}
		if d < 0 {
			return Timing{}, fmt.Errorf("timing.%s: negative duration %s", f.name, f.src)
		}
		*f.dst = d
	}
	return out, nil
}

// RebuyEnabled reports whether busted seats are topped up.
func (c *Config) RebuyEnabled() bool {
	return c.Table.Rebuy == nil || *c.Table.Rebuy
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Server.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q", c.Server.LogFormat)
	}

	t := c.Table
	if t.SmallBlind <= 0 {
		return fmt.Errorf("small_blind must be positive, got %d", t.SmallBlind)
	}
	if t.BigBlind <= t.SmallBlind {
		return fmt.Errorf("big_blind (%d) must exceed small_blind (%d)", t.BigBlind, t.SmallBlind)
	}
	if t.StartingStack < t.BigBlind {
		return fmt.Errorf("starting_stack (%d) must cover the big blind (%d)", t.StartingStack, t.BigBlind)
	}
	if t.MinSeats < 2 || t.MaxSeats > 10 || t.MinSeats > t.MaxSeats {
		return fmt.Errorf("seats must satisfy 2 <= min_seats (%d) <= max_seats (%d) <= 10", t.MinSeats, t.MaxSeats)
	}

	if _, err := c.Durations(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if seen[a.Name] {
			return fmt.Errorf("duplicate agent %q", a.Name)
		}
		seen[a.Name] = true
		if a.Balance < 0 {
			return fmt.Errorf("agent %q: negative balance", a.Name)
		}
	}
	return nil
}
