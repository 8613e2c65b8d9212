// Package handhistory writes completed hands to a PHH session file by
// listening to engine events.
package handhistory

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/fileutil"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/phh"
)

const (
	// DefaultFilename is the session file inside the history directory.
	DefaultFilename = "session.phhs"

	maxFailures = 3
)

// Config configures a Recorder.
type Config struct {
	Dir        string
	Filename   string
	Table      string
	FlushHands int // hands buffered before a write; 1 writes every hand
}

// Recorder turns engine events into PHH hands. It is a game.EventSubscriber
// and is safe to call from the engine goroutine while Flush runs elsewhere.
type Recorder struct {
	cfg     Config
	logger  *log.Logger
	outPath string

	mu       sync.Mutex
	current  *hand
	buffer   []*phh.HandHistory
	section  int
	failures int
	disabled bool
}

type hand struct {
	history *phh.HandHistory
	players map[string]int // seat id to PHH player index
}

var _ game.EventSubscriber = (*Recorder)(nil)

// New creates the history directory and continues numbering after the last
// section already in the session file.
func New(cfg Config, logger *log.Logger) (*Recorder, error) {
	if cfg.Dir == "" {
		return nil, errors.New("handhistory: directory is required")
	}
	if cfg.Filename == "" {
		cfg.Filename = DefaultFilename
	}
	if cfg.Table == "" {
		cfg.Table = "deepstacks"
	}
	if cfg.FlushHands <= 0 {
		cfg.FlushHands = 1
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("handhistory: create dir: %w", err)
	}

	outPath := filepath.Join(cfg.Dir, cfg.Filename)
	section, err := lastSection(outPath)
	if err != nil {
		return nil, fmt.Errorf("handhistory: read sections: %w", err)
	}
	return &Recorder{
		cfg:     cfg,
		logger:  logger.WithPrefix("history"),
		outPath: outPath,
		section: section,
	}, nil
}

// Path returns the session file path.
func (r *Recorder) Path() string {
	return r.outPath
}

// OnEvent implements game.EventSubscriber.
func (r *Recorder) OnEvent(event game.Event) {
	var flush bool

	r.mu.Lock()
	if r.disabled {
		r.mu.Unlock()
		return
	}
	switch ev := event.(type) {
	case game.HandStartEvent:
		r.current = startHand(ev, r.cfg.Table)
	case game.PlayerActionEvent:
		r.current.action(ev)
	case game.StreetChangeEvent:
		r.current.board(ev.State().Board)
	case game.HandEndEvent:
		if r.current != nil {
			r.current.finish(ev)
			r.buffer = append(r.buffer, r.current.history)
			r.current = nil
			flush = len(r.buffer) >= r.cfg.FlushHands
		}
	case game.GamePauseEvent:
		// An aborted hand is not written.
		r.current = nil
	}
	r.mu.Unlock()

	if flush {
		if err := r.Flush(); err != nil {
			r.logger.Warn("Hand history write failed", "path", r.outPath, "error", err)
		}
	}
}

// Flush appends buffered hands to the session file. After repeated failures
// the recorder disables itself and drops what it holds.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disabled || len(r.buffer) == 0 {
		return nil
	}

	var buf bytes.Buffer
	section := r.section
	for _, h := range r.buffer {
		data, err := phh.EncodeSection(section+1, h)
		if err != nil {
			return r.failed(err)
		}
		if section > 0 {
			buf.WriteString("\n")
		}
		buf.Write(data)
		section++
	}

	if err := fileutil.AppendFile(r.outPath, buf.Bytes(), 0o644); err != nil {
		return r.failed(err)
	}
	r.logger.Debug("Hands written", "count", len(r.buffer), "last_section", section)
	r.section = section
	r.buffer = r.buffer[:0]
	r.failures = 0
	return nil
}

func (r *Recorder) failed(err error) error {
	r.failures++
	if r.failures >= maxFailures {
		r.logger.Error("Hand history disabled after repeated failures", "dropped", len(r.buffer), "error", err)
		r.buffer = nil
		r.disabled = true
	}
	return err
}

// Disabled reports whether the recorder gave up writing.
func (r *Recorder) Disabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disabled
}

// Close writes anything still buffered.
func (r *Recorder) Close() error {
	return r.Flush()
}

// startHand lays players out from the small blind, which sits one seat
// after the dealer marker.
func startHand(ev game.HandStartEvent, table string) *hand {
	snap := ev.State()
	n := len(snap.Seats)
	dealer := 0
	for i, seat := range snap.Seats {
		if seat.Dealer {
			dealer = i
		}
	}

	h := &phh.HandHistory{
		Variant:           phh.Variant,
		Table:             table,
		SeatCount:         n,
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            ev.BigBlind,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Actions:           make([]string, 0, n+16),
		Players:           make([]string, n),
		HandID:            handID(snap),
		Timestamp:         ev.Timestamp(),
	}
	players := make(map[string]int, n)
	for pos := range n {
		idx := (dealer + 1 + pos) % n
		seat := snap.Seats[idx]
		players[seat.ID] = pos
		h.Seats[pos] = idx + 1
		h.Players[pos] = seat.Name
		// Blinds are already posted in the snapshot.
		h.StartingStacks[pos] = seat.Stack + seat.CurrentBet
		if pos < 2 {
			h.BlindsOrStraddles[pos] = seat.CurrentBet
		}
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s%s", pos+1, phh.Unknown, phh.Unknown))
	}
	return &hand{history: h, players: players}
}

func handID(snap game.Snapshot) string {
	if snap.SessionID != "" {
		return snap.SessionID
	}
	return fmt.Sprintf("hand-%05d", snap.HandNumber)
}

func (h *hand) action(ev game.PlayerActionEvent) {
	if h == nil {
		return
	}
	pos, ok := h.players[ev.SeatID]
	if !ok {
		return
	}
	total := 0
	for _, seat := range ev.State().Seats {
		if seat.ID == ev.SeatID {
			total = seat.CurrentBet
		}
	}
	if formatted, ok := phh.FormatAction(pos, ev.Action.String(), total); ok {
		h.history.Actions = append(h.history.Actions, formatted)
	}
}

func (h *hand) board(cards []string) {
	if h == nil {
		return
	}
	normalized := phh.NormalizeCards(cards)
	prev := min(len(h.history.Board), len(normalized))
	if fresh := normalized[prev:]; len(fresh) > 0 {
		h.history.Actions = append(h.history.Actions, "d db "+strings.Join(fresh, ""))
	}
	h.history.Board = normalized
}

func (h *hand) finish(ev game.HandEndEvent) {
	snap := ev.State()
	for _, seat := range snap.Seats {
		pos, ok := h.players[seat.ID]
		if !ok {
			continue
		}
		h.history.FinishingStacks[pos] = seat.Stack
		if len(seat.HoleCards) >= 2 && !ev.Result.Early {
			h.history.Actions = append(h.history.Actions,
				fmt.Sprintf("p%d sm %s", pos+1, phh.JoinCards(seat.HoleCards)))
		}
	}
	for _, award := range ev.Result.Awards {
		if award.Seat < 0 || award.Seat >= len(snap.Seats) {
			continue
		}
		if pos, ok := h.players[snap.Seats[award.Seat].ID]; ok {
			h.history.Winnings[pos] += award.Amount
		}
	}
	h.history.Stamp()
}

func lastSection(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	last := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) >= 3 && line[0] == '[' && line[len(line)-1] == ']' {
			if n, err := strconv.Atoi(line[1 : len(line)-1]); err == nil && n > last {
				last = n
			}
		}
	}
	return last, scanner.Err()
}
