package bridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nisharg/mudra/internal/signal"
)

// collectServer accepts producer connections and pushes every received
// message onto the channel.
func collectServer(t *testing.T, received chan<- []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- data
		}
	}))
}

func TestSender_PublishesPayload(t *testing.T) {
	received := make(chan []byte, 8)
	srv := collectServer(t, received)
	defer srv.Close()

	s := NewSender(wsURL(srv), time.Millisecond, 10*time.Millisecond, zerolog.Nop())
	s.Start()
	defer s.Close()

	if !waitFor(t, time.Second, s.IsConnected) {
		t.Fatal("sender never connected")
	}

	payload := samplePayload()
	s.Publish(payload)

	select {
	case data := <-received:
		var got signal.FramePayload
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("received message is not a payload: %v", err)
		}
		if got != payload {
			t.Errorf("received %+v, want %+v", got, payload)
		}
	case <-time.After(time.Second):
		t.Fatal("payload never reached the server")
	}
}

func TestSender_RateCapDropsExcessFrames(t *testing.T) {
	received := make(chan []byte, 8)
	srv := collectServer(t, received)
	defer srv.Close()

	// One send per hour: only the first frame in this test is eligible.
	s := NewSender(wsURL(srv), time.Hour, 10*time.Millisecond, zerolog.Nop())
	s.Start()
	defer s.Close()

	if !waitFor(t, time.Second, s.IsConnected) {
		t.Fatal("sender never connected")
	}

	for i := 0; i < 5; i++ {
		s.Publish(samplePayload())
	}

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("first eligible frame never arrived")
	}

	// Excess frames are dropped, never queued for later delivery.
	select {
	case <-received:
		t.Error("rate-capped frame was delivered")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSender_DropsWhenDisconnected(t *testing.T) {
	// No server, never started: Publish must neither block nor panic.
	s := NewSender("ws://127.0.0.1:1/nowhere", time.Millisecond, time.Minute, zerolog.Nop())
	defer s.Close()

	done := make(chan struct{})
	go func() {
		s.Publish(samplePayload())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no connection")
	}

	if s.IsConnected() {
		t.Error("expected disconnected state")
	}
}

func TestSender_ReconnectsAfterServerClose(t *testing.T) {
	var attempts atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if attempts.Add(1) == 1 {
			conn.Close()
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	s := NewSender(wsURL(srv), time.Millisecond, 10*time.Millisecond, zerolog.Nop())
	s.Start()
	defer s.Close()

	if !waitFor(t, 2*time.Second, func() bool {
		return attempts.Load() >= 2 && s.IsConnected()
	}) {
		t.Fatalf("sender never reconnected; %d attempts", attempts.Load())
	}
}
