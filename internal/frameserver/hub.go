// Package frameserver exposes a Synchronizer's output to WebSocket
// subscribers, following internal/gateway/server.go's non-blocking fan-out
// hub and internal/gateway/listener.go's /ws upgrade handler. Endpoints are
// protected by bearer/JWT auth using pkg/auth/jwt.go's Verifier, renamed
// here to authenticate frame subscribers rather than telemetry agents.
package frameserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Voskan/syncframe/internal/logging"
	"github.com/Voskan/syncframe/internal/metrics"
	"github.com/Voskan/syncframe/pkg/auth"
	"github.com/Voskan/syncframe/pkg/capture"
)

// Hub fans out frames produced by a Synchronizer[int64] to any number of
// WebSocket subscribers. Slow subscribers are dropped rather than allowed
// to block the broadcaster, mirroring internal/gateway/server.go's
// handleChunk.
type Hub struct {
	verifier *auth.Verifier // nil disables auth
	history  History        // nil disables history retention

	subsMu sync.RWMutex
	subs   map[chan []byte]struct{}

	upgrader websocket.Upgrader
}

// NewHub returns a Hub. verifier may be nil to disable bearer-token auth on
// the WebSocket endpoint (e.g. for local development). The returned Hub
// retains no frame history until one is attached with WithHistory.
func NewHub(verifier *auth.Verifier) *Hub {
	return &Hub{
		verifier: verifier,
		subs:     make(map[chan []byte]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// WithHistory attaches hist as the Hub's frame-history retention backend,
// returning the Hub for chaining.
func (h *Hub) WithHistory(hist History) *Hub {
	h.history = hist
	return h
}

// Broadcast JSON-encodes frame and fans it out to every connected
// subscriber, skipping any whose send buffer is full.
func (h *Hub) Broadcast(frame capture.Frame[int64]) {
	data, err := json.Marshal(frame)
	if err != nil {
		logging.Named("frameserver").Sugar().Warnw("marshal frame", "error", err)
		return
	}
	metrics.ObserveFrame(strings.ToLower(frame.State.String()))
	if h.history != nil {
		h.history.Write(data)
	}

	h.subsMu.RLock()
	defer h.subsMu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- data:
		default:
			logging.Named("frameserver").Sugar().Debugw("dropping frame for slow subscriber")
		}
	}
}

// Subscribe registers a new fan-out channel. The caller must drain it and
// call unregister when done.
func (h *Hub) Subscribe() (ch chan []byte, unregister func()) {
	ch = make(chan []byte, 100)
	h.subsMu.Lock()
	h.subs[ch] = struct{}{}
	h.subsMu.Unlock()

	unregister = func() {
		h.subsMu.Lock()
		delete(h.subs, ch)
		h.subsMu.Unlock()
		close(ch)
	}
	return ch, unregister
}

// ServeHTTP upgrades eligible requests to WebSocket connections streaming
// Broadcast output. If a Verifier is configured, the request must carry a
// valid "Authorization: Bearer <token>" header.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.verifier != nil {
		tok := bearerToken(r)
		if tok == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		if _, err := h.verifier.ParseAndVerify(tok); err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Named("frameserver").Sugar().Warnw("ws upgrade", "error", err)
		return
	}

	ch, unregister := h.Subscribe()
	metrics.Subscribers.Inc()
	defer func() {
		unregister()
		metrics.Subscribers.Dec()
		_ = conn.Close()
	}()

	for data := range ch {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logging.Named("frameserver").Sugar().Debugw("ws write", "error", err)
			return
		}
	}
}

// ServeHistory responds with the retained frame history as a JSON array of
// already-encoded frame objects, newest last. Returns 404 if no History
// backend is attached.
func (h *Hub) ServeHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.NotFound(w, r)
		return
	}
	frames := h.history.ReadAll()
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte("["))
	for i, f := range frames {
		if i > 0 {
			w.Write([]byte(","))
		}
		w.Write(f)
	}
	w.Write([]byte("]"))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimPrefix(h, prefix)
}
