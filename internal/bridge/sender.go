// Package bridge moves frame payloads between the producer and its
// consumers over WebSocket, with a bounded send rate on the way out and
// automatic reconnection on both ends.
package bridge

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/nisharg/mudra/internal/signal"
)

// Default transport settings.
const (
	// DefaultSendInterval caps outbound messages at ~60 Hz.
	DefaultSendInterval = 16 * time.Millisecond
	// DefaultRetryDelay is the fixed pause between reconnect attempts.
	DefaultRetryDelay = 2 * time.Second
)

// Sender publishes frame payloads to the relay. Sends are fire-and-forget:
// a payload arriving before the send interval has elapsed, or while the
// connection is down, is dropped — never queued — so the channel always
// carries the most recent state and never backs up.
type Sender struct {
	url     string
	retry   time.Duration
	limiter *rate.Limiter
	log     zerolog.Logger

	mu   sync.Mutex
	conn *websocket.Conn

	lost      chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

// NewSender creates a Sender for the given relay URL. Zero durations fall
// back to the defaults. Call Start to begin the connect loop.
func NewSender(url string, sendInterval, retryDelay time.Duration, log zerolog.Logger) *Sender {
	if sendInterval <= 0 {
		sendInterval = DefaultSendInterval
	}
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	return &Sender{
		url:     url,
		retry:   retryDelay,
		limiter: rate.NewLimiter(rate.Every(sendInterval), 1),
		log:     log,
		lost:    make(chan struct{}, 1),
		closed:  make(chan struct{}),
	}
}

// Start launches the background connect loop. The loop redials after the
// retry delay, indefinitely, until Close is called.
func (s *Sender) Start() {
	go s.connectLoop()
}

// Publish serializes the payload and writes it to the relay. Frames over
// the rate cap or without a live connection are dropped silently.
func (s *Sender) Publish(p signal.FramePayload) {
	if !s.limiter.Allow() {
		return
	}

	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		s.log.Warn().Err(err).Msg("marshal payload")
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Warn().Err(err).Msg("write payload")
		s.dropConn(conn)
	}
}

// IsConnected reports whether the sender currently has a live connection.
func (s *Sender) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Close stops the connect loop and closes any live connection. Shutdown
// is cooperative: an in-flight dial is allowed to finish before the loop
// exits.
func (s *Sender) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.mu.Lock()
		if s.conn != nil {
			s.conn.Close()
			s.conn = nil
		}
		s.mu.Unlock()
	})
}

func (s *Sender) connectLoop() {
	for {
		select {
		case <-s.closed:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(s.url, nil)
		if err != nil {
			s.log.Warn().Err(err).Str("url", s.url).Msg("relay dial failed")
			select {
			case <-s.closed:
				return
			case <-time.After(s.retry):
				continue
			}
		}

		s.log.Info().Str("url", s.url).Msg("connected to relay")

		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()

		// The relay never sends data to producers; reading just detects
		// the close.
		go s.watch(conn)

		select {
		case <-s.closed:
			return
		case <-s.lost:
			s.log.Warn().Msg("relay connection lost, reconnecting")
		}
	}
}

func (s *Sender) watch(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.dropConn(conn)
			return
		}
	}
}

// dropConn clears the connection if it is still current and nudges the
// connect loop. Safe to call from multiple goroutines for the same conn.
func (s *Sender) dropConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn != conn {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	s.mu.Unlock()

	conn.Close()

	select {
	case s.lost <- struct{}{}:
	default:
	}
}
