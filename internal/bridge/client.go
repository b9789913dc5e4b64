package bridge

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/nisharg/mudra/internal/detector"
	"github.com/nisharg/mudra/internal/signal"
)

// Client is the consumer side of the bridge. It holds the latest fully
// parsed snapshot and exposes it atomically: readers always see a complete
// payload, and the well-defined empty payload stands in whenever there is
// no connection or no valid data yet.
type Client struct {
	url   string
	retry time.Duration
	log   zerolog.Logger

	current   atomic.Pointer[signal.FramePayload]
	connected atomic.Bool

	mu   sync.Mutex
	conn *websocket.Conn

	closed    chan struct{}
	closeOnce sync.Once
}

// NewClient creates a Client for the given relay URL. The held snapshot
// starts as the empty payload, so Current never returns "no value". Call
// Start to begin connecting.
func NewClient(url string, retryDelay time.Duration, log zerolog.Logger) *Client {
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	c := &Client{
		url:    url,
		retry:  retryDelay,
		log:    log,
		closed: make(chan struct{}),
	}
	empty := signal.EmptyPayload()
	c.current.Store(&empty)
	return c
}

// Start launches the background connect/read loop. The loop redials after
// the retry delay, indefinitely, until Close is called.
func (c *Client) Start() {
	go c.runLoop()
}

// Close stops the loop and closes any live connection. Cooperative: an
// in-flight connection attempt may still complete or fail first.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
			c.conn = nil
		}
		c.mu.Unlock()
	})
}

// Current returns the latest held snapshot, by value.
func (c *Client) Current() signal.FramePayload {
	return *c.current.Load()
}

// IsConnected reports whether the relay connection is currently open.
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// Controls returns the directional flags for the given hand side, all
// false when the hand is undetected.
func (c *Client) Controls(side detector.Side) signal.Controls {
	return c.Current().Hand(side).Controls
}

// Gestures returns the gesture flags for the given hand side, zero when
// the hand is undetected.
func (c *Client) Gestures(side detector.Side) signal.Gestures {
	return c.Current().Hand(side).Gestures
}

// Wrist returns the wrist position for the given hand side, the zero
// vector when the hand is undetected.
func (c *Client) Wrist(side detector.Side) detector.Point3D {
	return c.Current().Hand(side).Wrist
}

func (c *Client) runLoop() {
	for {
		select {
		case <-c.closed:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err != nil {
			c.log.Warn().Err(err).Str("url", c.url).Msg("relay dial failed")
			select {
			case <-c.closed:
				return
			case <-time.After(c.retry):
				continue
			}
		}

		c.log.Info().Str("url", c.url).Msg("connected to relay")

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()

		// Readers observe a defined value from the moment the channel
		// opens, before the first real message arrives.
		c.storeEmpty()
		c.connected.Store(true)

		c.readLoop(conn)

		// Disconnected: fail safe immediately so downstream logic sees
		// "no hands" rather than a stale last-known position.
		c.connected.Store(false)
		c.storeEmpty()
		conn.Close()

		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()

		select {
		case <-c.closed:
			return
		case <-time.After(c.retry):
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Reconnect is driven solely by the closed connection; error
			// events that do not close it are informational.
			select {
			case <-c.closed:
			default:
				c.log.Warn().Err(err).Msg("relay connection closed")
			}
			return
		}
		c.handleMessage(data)
	}
}

// handleMessage parses one inbound message. Control messages carrying a
// type discriminator (the relay's handshake/keepalive) are recognized and
// discarded. On parse failure the previous snapshot is retained; the next
// frame simply supersedes the bad one.
func (c *Client) handleMessage(data []byte) {
	var control struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &control); err == nil && control.Type != "" {
		c.log.Debug().Str("type", control.Type).Msg("control message ignored")
		return
	}

	var payload signal.FramePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.log.Warn().Err(err).Msg("malformed payload, keeping previous snapshot")
		return
	}

	c.current.Store(&payload)
}

func (c *Client) storeEmpty() {
	empty := signal.EmptyPayload()
	c.current.Store(&empty)
}
