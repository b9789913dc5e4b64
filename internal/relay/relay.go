// Package relay bridges the hand-tracking producer and its consumers over
// WebSocket. Producers connect on /browser; consumers connect on any other
// path and receive every producer message. Multiple consumers are
// supported simultaneously.
package relay

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ProducerPath is the URL path producers connect on. Any other path is
// treated as a consumer connection.
const ProducerPath = "/browser"

// StatsInterval is how often the relay logs its forwarding stats.
const StatsInterval = 30 * time.Second

// readyMessage is the handshake sent to consumers so they know the relay
// is up before the first payload arrives.
type readyMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Version string `json:"version"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, producers and consumers are trusted
	},
}

// Relay fans messages out from producer connections to all consumer
// connections. Payloads are forwarded verbatim as opaque bytes; the relay
// never parses them.
type Relay struct {
	log   zerolog.Logger
	start time.Time

	mu        sync.Mutex
	producers map[*websocket.Conn]string
	consumers map[*websocket.Conn]string

	forwarded atomic.Int64
}

// New creates a Relay.
func New(log zerolog.Logger) *Relay {
	return &Relay{
		log:       log,
		start:     time.Now(),
		producers: make(map[*websocket.Conn]string),
		consumers: make(map[*websocket.Conn]string),
	}
}

// ServeHTTP upgrades the connection and routes it by path.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := uuid.NewString()
	r.log.Info().Str("client", id).Str("path", req.URL.Path).Str("remote", req.RemoteAddr).Msg("new connection")

	if req.URL.Path == ProducerPath {
		r.handleProducer(conn, id)
	} else {
		r.handleConsumer(conn, id)
	}
}

// handleProducer forwards every message from the producer to all
// connected consumers until the connection closes.
func (r *Relay) handleProducer(conn *websocket.Conn, id string) {
	r.mu.Lock()
	r.producers[conn] = id
	producers, consumers := len(r.producers), len(r.consumers)
	r.mu.Unlock()

	r.log.Info().Str("client", id).Int("producers", producers).Int("consumers", consumers).Msg("producer connected")

	defer func() {
		conn.Close()
		r.mu.Lock()
		delete(r.producers, conn)
		remaining := len(r.producers)
		r.mu.Unlock()
		r.log.Info().Str("client", id).Int("producers", remaining).Msg("producer disconnected")
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		r.broadcast(msgType, data)
	}
}

// handleConsumer sends the ready handshake, then holds the connection
// open; consumers don't send data upstream.
func (r *Relay) handleConsumer(conn *websocket.Conn, id string) {
	r.mu.Lock()
	r.consumers[conn] = id
	producers, consumers := len(r.producers), len(r.consumers)
	r.mu.Unlock()

	r.log.Info().Str("client", id).Int("producers", producers).Int("consumers", consumers).Msg("consumer connected")

	ready, _ := json.Marshal(readyMessage{
		Type:    "relay_ready",
		Message: "Hand tracking relay connected",
		Version: "1.0",
	})
	if err := conn.WriteMessage(websocket.TextMessage, ready); err != nil {
		r.log.Warn().Str("client", id).Err(err).Msg("handshake write failed")
	}

	defer func() {
		conn.Close()
		r.mu.Lock()
		delete(r.consumers, conn)
		remaining := len(r.consumers)
		r.mu.Unlock()
		r.log.Info().Str("client", id).Int("consumers", remaining).Msg("consumer disconnected")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// broadcast writes one producer message to every consumer, pruning
// connections that fail.
func (r *Relay) broadcast(msgType int, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.consumers) == 0 {
		return
	}

	var dead []*websocket.Conn
	for conn, id := range r.consumers {
		if err := conn.WriteMessage(msgType, data); err != nil {
			r.log.Warn().Str("client", id).Err(err).Msg("consumer write failed")
			dead = append(dead, conn)
			continue
		}
		r.forwarded.Add(1)
	}

	for _, conn := range dead {
		conn.Close()
		delete(r.consumers, conn)
	}
}

// Forwarded returns the number of messages delivered to consumers.
func (r *Relay) Forwarded() int64 {
	return r.forwarded.Load()
}

// ClientCounts returns the current producer and consumer counts.
func (r *Relay) ClientCounts() (producers, consumers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.producers), len(r.consumers)
}

// statsLoop periodically logs uptime and forwarding counters.
func (r *Relay) statsLoop() {
	ticker := time.NewTicker(StatsInterval)
	defer ticker.Stop()

	for range ticker.C {
		producers, consumers := r.ClientCounts()
		r.log.Info().
			Dur("uptime", time.Since(r.start)).
			Int64("forwarded", r.Forwarded()).
			Int("producers", producers).
			Int("consumers", consumers).
			Msg("relay stats")
	}
}

// ListenAndServe starts the relay on the given address and blocks.
func (r *Relay) ListenAndServe(addr string) error {
	go r.statsLoop()
	r.log.Info().Str("addr", addr).Str("producerPath", ProducerPath).Msg("relay listening")
	return http.ListenAndServe(addr, r)
}
