package handhistory

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/bot"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/engine"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/phh"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/randutil"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/store"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	rec, err := New(Config{Dir: t.TempDir()}, quietLogger())
	require.NoError(t, err)
	return rec
}

// playHands runs n hands with three seats folding to the big blind.
func playHands(t *testing.T, rec *Recorder, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mem := store.NewMemory()
	require.NoError(t, mem.SeedAgents(ctx, []store.Agent{
		{ID: "a", Name: "alpha"}, {ID: "b", Name: "bravo"}, {ID: "c", Name: "charlie"},
	}))
	bus := game.NewEventBus()
	bus.Subscribe(rec)
	e := engine.New(mem, mem, bot.NewScripted(),
		engine.WithLogger(quietLogger()),
		engine.WithTiming(engine.Timing{}),
		engine.WithRand(randutil.New(5)),
		engine.WithEventBus(bus),
		engine.WithHandLimit(n))
	require.NoError(t, e.Run(ctx))
}

func readHands(t *testing.T, rec *Recorder) map[string]*phh.HandHistory {
	t.Helper()
	data, err := os.ReadFile(rec.Path())
	require.NoError(t, err)
	hands, err := phh.DecodeSections(data)
	require.NoError(t, err)
	return hands
}

func TestRecorderWritesFoldedHands(t *testing.T) {
	rec := newTestRecorder(t)
	playHands(t, rec, 2)

	hands := readHands(t, rec)
	require.Len(t, hands, 2)

	first := hands["1"]
	assert.Equal(t, phh.Variant, first.Variant)
	assert.Equal(t, "deepstacks", first.Table)
	// Dealer is charlie, so alpha posts the small blind and leads the order.
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, first.Players)
	assert.Equal(t, []int{1, 2, 3}, first.Seats)
	assert.Equal(t, []int{50, 100, 0}, first.BlindsOrStraddles)
	assert.Equal(t, 100, first.MinBet)
	assert.Equal(t, []int{10000, 10000, 10000}, first.StartingStacks)
	assert.Equal(t, []int{9950, 10050, 10000}, first.FinishingStacks)
	assert.Equal(t, []int{0, 150, 0}, first.Winnings)
	assert.Equal(t, []string{
		"d dh p1 ????", "d dh p2 ????", "d dh p3 ????",
		"p3 f", "p1 f",
	}, first.Actions)

	second := hands["2"]
	assert.Equal(t, []string{"bravo", "charlie", "alpha"}, second.Players)
	assert.Equal(t, []int{2, 3, 1}, second.Seats)
	assert.Equal(t, []int{10050, 10000, 9950}, second.StartingStacks)
}

func TestRecorderContinuesSectionNumbering(t *testing.T) {
	dir := t.TempDir()
	rec, err := New(Config{Dir: dir}, quietLogger())
	require.NoError(t, err)
	playHands(t, rec, 1)

	again, err := New(Config{Dir: dir}, quietLogger())
	require.NoError(t, err)
	playHands(t, again, 1)

	hands := readHands(t, again)
	assert.Len(t, hands, 2)
	assert.Contains(t, hands, "2")
}

func TestRecorderShowdownAndBoard(t *testing.T) {
	rec := newTestRecorder(t)
	at := time.Date(2026, time.March, 4, 5, 6, 7, 0, time.UTC)

	seats := []game.SeatView{
		{ID: "a", Name: "alpha", Stack: 9950, CurrentBet: 50},
		{ID: "b", Name: "bravo", Stack: 9900, CurrentBet: 100, Dealer: true},
	}
	start := game.Snapshot{SessionID: "s-1", Seats: seats}
	rec.OnEvent(game.NewHandStartEvent(at, start, 50, 100))

	after := start
	after.Seats = []game.SeatView{
		{ID: "a", Name: "alpha", Stack: 9900, CurrentBet: 100},
		{ID: "b", Name: "bravo", Stack: 9900, CurrentBet: 100, Dealer: true},
	}
	alpha := &game.Seat{ID: "a", Name: "alpha"}
	rec.OnEvent(game.NewPlayerActionEvent(at, after, alpha, game.Call, 50, "", 0.5))

	flop := after
	flop.Board = []string{"Ah", "Kd", "2c"}
	rec.OnEvent(game.NewStreetChangeEvent(at, flop, game.Flop))
	turn := after
	turn.Board = []string{"Ah", "Kd", "2c", "9s"}
	rec.OnEvent(game.NewStreetChangeEvent(at, turn, game.Turn))

	end := turn
	end.Seats = []game.SeatView{
		{ID: "a", Name: "alpha", Stack: 9900, HoleCards: []string{"7c", "7d"}},
		{ID: "b", Name: "bravo", Stack: 10100, HoleCards: []string{"As", "Qs"}, Dealer: true},
	}
	rec.OnEvent(game.NewHandEndEvent(at, end, game.Result{
		Pot: 200, Winner: 1, HandName: "Pair", Awards: []game.Award{{Seat: 1, Amount: 200}},
	}))

	hands := readHands(t, rec)
	require.Len(t, hands, 1)
	h := hands["1"]
	assert.Equal(t, "s-1", h.HandID)
	// Seat 0 sits after the dealer, so it is p1.
	assert.Equal(t, []string{"alpha", "bravo"}, h.Players)
	assert.Equal(t, []string{
		"d dh p1 ????", "d dh p2 ????",
		"p1 cc",
		"d db AhKd2c", "d db 9s",
		"p1 sm 7c7d", "p2 sm AsQs",
	}, h.Actions)
	assert.Equal(t, []int{0, 200}, h.Winnings)
	assert.Equal(t, []int{9900, 10100}, h.FinishingStacks)
	assert.Equal(t, "05:06:07", h.Time)
	assert.Equal(t, 2026, h.Year)
}

func TestRecorderDropsAbortedHand(t *testing.T) {
	rec := newTestRecorder(t)
	at := time.Now()
	snap := game.Snapshot{Seats: []game.SeatView{{ID: "a"}, {ID: "b", Dealer: true}}}

	rec.OnEvent(game.NewHandStartEvent(at, snap, 50, 100))
	rec.OnEvent(game.NewGamePauseEvent(at, snap, "aborted", "deck exhausted"))
	rec.OnEvent(game.NewHandEndEvent(at, snap, game.Result{}))
	require.NoError(t, rec.Close())

	_, err := os.Stat(rec.Path())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRecorderDisablesAfterRepeatedFailures(t *testing.T) {
	dir := t.TempDir()
	rec, err := New(Config{Dir: dir, FlushHands: 10}, quietLogger())
	require.NoError(t, err)
	// A directory where the session file should be makes every append fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, DefaultFilename), 0o755))

	at := time.Now()
	snap := game.Snapshot{Seats: []game.SeatView{{ID: "a"}, {ID: "b", Dealer: true}}}
	rec.OnEvent(game.NewHandStartEvent(at, snap, 50, 100))
	rec.OnEvent(game.NewHandEndEvent(at, snap, game.Result{}))

	for range maxFailures {
		assert.Error(t, rec.Flush())
	}
	assert.True(t, rec.Disabled())
	assert.NoError(t, rec.Flush())
}

func TestNewRequiresDirectory(t *testing.T) {
	_, err := New(Config{}, quietLogger())
	assert.Error(t, err)
}
