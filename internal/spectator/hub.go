// Package spectator serves the read-only spectator feed: a health check,
// the latest public snapshot, and a WebSocket stream of engine events.
package spectator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/game"
	"github.com/jaswanth2302/DeepStacks-Agents-Poker-Arena/internal/statistics"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
	sendBuffer     = 256
)

// Source provides the current public state.
type Source interface {
	Snapshot() game.Snapshot
}

// StatsSource provides per-agent results for /stats.
type StatsSource interface {
	Summary() []statistics.AgentSummary
}

// Hub fans engine events out to connected spectators. It never touches the
// session; slow spectators are disconnected rather than waited on.
type Hub struct {
	source   Source
	stats    StatsSource
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

var _ game.EventSubscriber = (*Hub)(nil)

// NewHub returns a hub reading state from source.
func NewHub(source Source, logger *log.Logger) *Hub {
	return &Hub{
		source: source,
		logger: logger.WithPrefix("spectator"),
		upgrader: websocket.Upgrader{
			// The feed is public and read-only.
			CheckOrigin:     func(*http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]struct{}),
	}
}

// WithStats serves stats on /stats.
func (h *Hub) WithStats(stats StatsSource) *Hub {
	h.stats = stats
	return h
}

// Handler routes /health, /state, /ws and, when configured, /stats.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/state", h.handleState)
	mux.HandleFunc("/ws", h.handleWebSocket)
	if h.stats != nil {
		mux.HandleFunc("/stats", h.handleStats)
	}
	return mux
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnEvent implements game.EventSubscriber.
func (h *Hub) OnEvent(ev game.Event) {
	msg, err := eventMessage(ev)
	if err != nil {
		h.logger.Error("Failed to encode event", "type", ev.EventType(), "error", err)
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode message", "type", msg.Type, "error", err)
		return
	}
	h.broadcast(data)
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.trySend(data) {
			h.logger.Warn("Spectator send buffer full, disconnecting", "remote", c.remote)
			h.remove(c)
		}
	}
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.close()
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

func (h *Hub) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

func (h *Hub) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.source.Snapshot()); err != nil {
		h.logger.Warn("Failed to write state", "error", err)
	}
}

func (h *Hub) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.stats.Summary()); err != nil {
		h.logger.Warn("Failed to write stats", "error", err)
	}
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	c := newClient(conn, r.RemoteAddr)
	hello, err := json.Marshal(stateMessage(h.source.Snapshot(), time.Now()))
	if err == nil {
		c.trySend(hello)
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("Spectator connected", "remote", c.remote)

	go c.writePump()
	go func() {
		c.readPump()
		h.remove(c)
		h.logger.Debug("Spectator disconnected", "remote", c.remote)
	}()
}
