// Package spectator streams arena snapshots to websocket clients.
package spectator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	rglog "github.com/msto63/robogame/foundation/core/log"
	"github.com/msto63/robogame/internal/arena"
	"github.com/msto63/robogame/pkg/core/health"
	"github.com/msto63/robogame/pkg/core/version"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// DefaultSendBuffer is the number of messages queued per client
	// before it is considered too slow and dropped.
	DefaultSendBuffer = 32
)

// Message types
const (
	TypeSnapshot = "snapshot"
	TypeOutcome  = "outcome"
	TypePing     = "ping"
	TypePong     = "pong"
	TypeError    = "error"
)

// Local spectators connect from arbitrary pages.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the envelope sent to spectators
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Inbound is the envelope read from spectators
type Inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutcomePayload announces the end of a match
type OutcomePayload struct {
	Winner string `json:"winner"`
	Reason string `json:"reason"`
	Ticks  int    `json:"ticks"`
}

// ErrorPayload reports a rejected client message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

// Hub fans snapshots out to connected spectators. It satisfies
// game.Observer.
type Hub struct {
	logger     *rglog.Logger
	sendBuffer int

	mu      sync.RWMutex
	clients map[*client]struct{}
	last    *arena.Snapshot
	closed  bool
}

// NewHub creates a hub
func NewHub(logger *rglog.Logger) *Hub {
	if logger == nil {
		logger = rglog.GetDefault()
	}
	return &Hub{
		logger:     logger.WithField("component", "spectator"),
		sendBuffer: DefaultSendBuffer,
		clients:    make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the connection and registers the spectator. A late
// joiner first receives the latest snapshot.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnWithErr("websocket upgrade failed", err)
		return
	}

	c := &client{conn: conn, send: make(chan Message, h.sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "match over"), time.Now().Add(writeWait))
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- Message{Type: TypeSnapshot, Payload: *h.last}
	}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("spectator connected", rglog.Fields{"remote": conn.RemoteAddr().String(), "clients": count})

	go h.writeLoop(c)
	h.readLoop(c)
}

// Observe broadcasts a snapshot
func (h *Hub) Observe(snap arena.Snapshot) {
	h.mu.Lock()
	h.last = &snap
	h.mu.Unlock()
	h.broadcast(Message{Type: TypeSnapshot, Payload: snap})
}

// Finish broadcasts the match outcome
func (h *Hub) Finish(winner, reason string, ticks int) {
	h.broadcast(Message{Type: TypeOutcome, Payload: OutcomePayload{Winner: winner, Reason: reason, Ticks: ticks}})
}

// Clients returns the number of connected spectators
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HealthCheck reports the hub state. A closed hub is degraded.
func (h *Hub) HealthCheck() health.Checker {
	return health.NewChecker("spectators", func(ctx context.Context) health.CheckResult {
		h.mu.RLock()
		defer h.mu.RUnlock()

		res := health.CheckResult{
			Status:  health.StatusHealthy,
			Details: map[string]interface{}{"clients": len(h.clients)},
		}
		if h.last != nil {
			res.Details["tick"] = h.last.Tick
		}
		if h.closed {
			res.Status = health.StatusDegraded
			res.Message = "hub closed"
		}
		return res
	})
}

// Close disconnects all spectators and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Client cannot keep up
			delete(h.clients, c)
			close(c.send)
			h.logger.Warn("dropping slow spectator", rglog.Fields{"remote": c.conn.RemoteAddr().String()})
		}
	}
}

// enqueue sends a direct reply unless the client is gone or full
func (h *Hub) enqueue(c *client, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Inbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
				h.enqueue(c, Message{Type: TypeError, Payload: ErrorPayload{Code: "invalid_message", Message: "message is not valid JSON"}})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("spectator read error", rglog.Err(err))
			}
			return
		}

		switch msg.Type {
		case TypePing:
			h.enqueue(c, Message{Type: TypePong})
		default:
			h.enqueue(c, Message{Type: TypeError, Payload: ErrorPayload{Code: "unknown_type", Message: "unknown message type: " + msg.Type}})
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				h.logger.Debug("spectator write failed", rglog.Err(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Serve runs an HTTP server exposing the hub at /ws, the latest snapshot
// at /snapshot and the health report at /healthz until ctx is done.
func Serve(ctx context.Context, addr string, h *Hub, checks ...health.Checker) (net.Addr, <-chan error, error) {
	registry := health.NewRegistry("rsl-spectator", version.Platform)
	registry.Register(h.HealthCheck())
	registry.Register(checks...)

	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/snapshot", h.serveSnapshot)
	mux.Handle("/healthz", registry.Handler(writeWait))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		h.Close()
		srv.Shutdown(shutdownCtx)
	}()

	h.logger.Info("spectator server listening", rglog.Fields{"addr": ln.Addr().String()})
	return ln.Addr(), done, nil
}

func (h *Hub) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	last := h.last
	h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if last == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	json.NewEncoder(w).Encode(last)
}
