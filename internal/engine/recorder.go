package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/store"
)

const maxBacklog = 4096

type writeKind int

const (
	writeSnapshot writeKind = iota
	writeAction
)

type write struct {
	kind   writeKind
	update store.SessionUpdate
	entry  store.ActionEntry
}

// recorder serialises gateway writes off the engine goroutine. Writes are
// applied in the order they were queued; a failed write is logged and
// dropped.
type recorder struct {
	gw      store.Gateway
	timeout time.Duration
	logger  *log.Logger

	mu      sync.Mutex
	queue   []write
	dropped int

	// writing is held while a batch is written so that a flush on another
	// goroutine cannot interleave.
	writing sync.Mutex
	signal  chan struct{}
}

func newRecorder(gw store.Gateway, timeout time.Duration, logger *log.Logger) *recorder {
	return &recorder{
		gw:      gw,
		timeout: timeout,
		logger:  logger,
		signal:  make(chan struct{}, 1),
	}
}

func (r *recorder) snapshot(u store.SessionUpdate) {
	r.enqueue(write{kind: writeSnapshot, update: u})
}

func (r *recorder) action(e store.ActionEntry) {
	r.enqueue(write{kind: writeAction, entry: e})
}

func (r *recorder) enqueue(w write) {
	r.mu.Lock()
	if len(r.queue) >= maxBacklog {
		r.dropped++
		dropped := r.dropped
		r.mu.Unlock()
		r.logger.Warn("Persistence backlog full, dropping write", "dropped", dropped)
		return
	}
	r.queue = append(r.queue, w)
	r.mu.Unlock()

	select {
	case r.signal <- struct{}{}:
	default:
	}
}

func (r *recorder) pop() (write, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return write{}, false
	}
	w := r.queue[0]
	r.queue[0] = write{}
	r.queue = r.queue[1:]
	return w, true
}

// pending reports the number of queued writes.
func (r *recorder) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// flush writes everything queued so far on the calling goroutine. It stops
// early once ctx is done and leaves the rest queued.
func (r *recorder) flush(ctx context.Context) {
	r.writing.Lock()
	defer r.writing.Unlock()
	for ctx.Err() == nil {
		w, ok := r.pop()
		if !ok {
			return
		}
		r.apply(ctx, w)
	}
}

// run drains the queue until ctx is cancelled or done is closed, then
// flushes whatever is left.
func (r *recorder) run(ctx context.Context, done <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			r.flush(context.WithoutCancel(ctx))
			return nil
		case <-done:
			r.flush(context.WithoutCancel(ctx))
			return nil
		case <-r.signal:
			r.flush(ctx)
		}
	}
}

func (r *recorder) apply(ctx context.Context, w write) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	switch w.kind {
	case writeSnapshot:
		r.logFailure(r.gw.UpdateSnapshot(ctx, w.update), "Snapshot",
			"session", w.update.SessionID)
	case writeAction:
		r.logFailure(r.gw.AppendActionLog(ctx, w.entry), "Action log",
			"session", w.entry.SessionID, "action", w.entry.Action)
	}
}

// logFailure names the mirror when only the mirror copy of a write failed.
func (r *recorder) logFailure(err error, what string, keyvals ...any) {
	if err == nil {
		return
	}
	keyvals = append(keyvals, "error", err)
	if errors.Is(err, store.ErrMirror) {
		r.logger.Warn(what+" mirror write failed, primary write kept", keyvals...)
		return
	}
	r.logger.Warn(what+" write failed", keyvals...)
}
