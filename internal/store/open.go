package store

import (
	"context"
	"fmt"
	"strings"
)

// Options selects and configures a store.
type Options struct {
	// URL picks the backend by scheme:
	//
	//	"" or memory://                 in-process
	//	sqlite:///path/to/db.sqlite     single-file SQLite
	//	file:///path/to/dir             JSON files in a directory
	//	postgres://... / postgresql://  PostgreSQL
	URL string
	// AccessKey is the database password when the URL carries none.
	AccessKey string
	// RedisURL, when set, mirrors snapshots and the action log to Redis.
	RedisURL string
}

// Open builds the store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	primary, err := openPrimary(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.RedisURL == "" {
		return primary, nil
	}
	mirror, err := OpenRedis(ctx, opts.RedisURL)
	if err != nil {
		primary.Close()
		return nil, err
	}
	return NewMulti(primary, mirror), nil
}

func openPrimary(ctx context.Context, opts Options) (Store, error) {
	url := strings.TrimSpace(opts.URL)
	scheme, rest, _ := strings.Cut(url, "://")

	switch strings.ToLower(scheme) {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return OpenSQLite(ctx, rest)
	case "file":
		return OpenFile(rest)
	case "postgres", "postgresql":
		return OpenPostgres(ctx, url, opts.AccessKey)
	}
	return nil, fmt.Errorf("store: unsupported storage url scheme %q", scheme)
}
