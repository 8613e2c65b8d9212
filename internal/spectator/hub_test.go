package spectator

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/statistics"
)

type staticSource struct {
	snap game.Snapshot
}

func (s staticSource) Snapshot() game.Snapshot { return s.snap }

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testSnapshot() game.Snapshot {
	return game.Snapshot{
		SessionID:         "s-1",
		HandNumber:        3,
		Status:            game.StatusPlaying,
		Street:            "flop",
		Pot:               300,
		Board:             []string{"Ah", "Kd", "2c"},
		CurrentTurnSeatID: "a",
		Seats: []game.SeatView{
			{ID: "a", Name: "alpha", Stack: 9850, Status: game.SeatActive},
			{ID: "b", Name: "bravo", Stack: 9850, Status: game.SeatActive, Dealer: true},
		},
	}
}

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(staticSource{testSnapshot()}, quietLogger())
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHealth(t *testing.T) {
	_, srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestState(t *testing.T) {
	_, srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap game.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, testSnapshot(), snap)

	post, err := http.Post(srv.URL+"/state", "application/json", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestWebSocketStreamsEvents(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv)

	hello := readMessage(t, conn)
	assert.Equal(t, MessageTypeState, hello.Type)
	assert.Equal(t, "s-1", hello.State.SessionID)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	snap := testSnapshot()
	seat := &game.Seat{ID: "a", Name: "alpha"}
	hub.OnEvent(game.NewPlayerActionEvent(time.Now(), snap, seat, game.Call, 100, "pot odds", 0.7))

	msg := readMessage(t, conn)
	assert.Equal(t, "player_action", msg.Type)
	assert.Equal(t, "alpha: calls 100 (pot now: 300)", msg.Text)
	assert.Equal(t, 300, msg.State.Pot)

	var ev struct {
		SeatID     string  `json:"seat_id"`
		Action     string  `json:"action"`
		Rationale  string  `json:"rationale"`
		Confidence float64 `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal(msg.Event, &ev))
	assert.Equal(t, "a", ev.SeatID)
	assert.Equal(t, "call", ev.Action)
	assert.Equal(t, "pot odds", ev.Rationale)
	assert.InDelta(t, 0.7, ev.Confidence, 1e-9)
}

func TestHandEndCarriesResult(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv)
	readMessage(t, conn)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.OnEvent(game.NewHandEndEvent(time.Now(), testSnapshot(), game.Result{
		Pot: 300, Winner: 1, HandName: "Two Pair", Awards: []game.Award{{Seat: 1, Amount: 300}},
	}))

	msg := readMessage(t, conn)
	assert.Equal(t, "hand_end", msg.Type)
	require.NotNil(t, msg.Result)
	assert.Equal(t, map[string]int{"b": 300}, msg.Result.Awards)
	assert.Equal(t, "Two Pair", msg.Result.HandName)
}

func TestDisconnectedSpectatorIsRemoved(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv)
	readMessage(t, conn)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 5*time.Second, 10*time.Millisecond)

	// Publishing with nobody listening is a no-op.
	hub.OnEvent(game.NewGamePauseEvent(time.Now(), testSnapshot(), "insufficient_agents", "waiting"))
}

func TestCloseSendsCloseFrame(t *testing.T) {
	hub, srv := newTestServer(t)
	conn := dial(t, srv)
	readMessage(t, conn)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	assert.Zero(t, hub.Clients())
}

func TestServerShutsDownOnCancel(t *testing.T) {
	hub := NewHub(staticSource{testSnapshot()}, quietLogger())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(ln.Addr().String(), hub, quietLogger()).Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

type fixedStats []statistics.AgentSummary

func (f fixedStats) Summary() []statistics.AgentSummary { return f }

func TestStats(t *testing.T) {
	_, srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "stats are opt-in")

	hub := NewHub(staticSource{testSnapshot()}, quietLogger()).
		WithStats(fixedStats{{ID: "a", Name: "alpha", Hands: 4, NetChips: 250}})
	withStats := httptest.NewServer(hub.Handler())
	defer withStats.Close()

	resp, err = http.Get(withStats.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	var got []statistics.AgentSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, 250, got[0].NetChips)
}
