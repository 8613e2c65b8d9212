package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrMirror marks an error where the primary write succeeded and only a
// mirror failed.
var ErrMirror = errors.New("store: mirror write failed")

// Multi writes through a primary store and copies every write to mirrors.
// Hand ids come from the primary; the catalog is the primary's. A mirror
// failure is reported wrapped in ErrMirror and never prevents the primary
// write.
type Multi struct {
	primary Store
	mirrors []Gateway
}

var _ Store = (*Multi)(nil)

// NewMulti returns primary with mirrors attached.
func NewMulti(primary Store, mirrors ...Gateway) *Multi {
	return &Multi{primary: primary, mirrors: mirrors}
}

func (m *Multi) CreateHandRecord(ctx context.Context) (string, error) {
	return m.primary.CreateHandRecord(ctx)
}

func (m *Multi) UpdateSnapshot(ctx context.Context, u SessionUpdate) error {
	if err := m.primary.UpdateSnapshot(ctx, u); err != nil {
		return err
	}
	var errs []error
	for i, g := range m.mirrors {
		if err := g.UpdateSnapshot(ctx, u); err != nil {
			errs = append(errs, fmt.Errorf("mirror %d: %w", i, err))
		}
	}
	return mirrorError(errs)
}

func (m *Multi) AppendActionLog(ctx context.Context, e ActionEntry) error {
	if err := m.primary.AppendActionLog(ctx, e); err != nil {
		return err
	}
	var errs []error
	for i, g := range m.mirrors {
		if err := g.AppendActionLog(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("mirror %d: %w", i, err))
		}
	}
	return mirrorError(errs)
}

func mirrorError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrMirror, errors.Join(errs...))
}

func (m *Multi) ListAgents(ctx context.Context, limit int) ([]Agent, error) {
	return m.primary.ListAgents(ctx, limit)
}

func (m *Multi) SeedAgents(ctx context.Context, agents []Agent) error {
	return m.primary.SeedAgents(ctx, agents)
}

func (m *Multi) Close() error {
	errs := []error{m.primary.Close()}
	for _, g := range m.mirrors {
		if c, ok := g.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
