package signal

import (
	"time"

	"github.com/nisharg/mudra/internal/detector"
)

// Gesture names used in edge events.
const (
	GestureFist  = "fist"
	GestureOpen  = "open"
	GesturePoint = "point"
	GesturePinch = "pinch"
)

// EventKind distinguishes the two edge transitions.
type EventKind string

const (
	// EventStart fires on a false→true gesture transition.
	EventStart EventKind = "start"
	// EventEnd fires on a true→false gesture transition.
	EventEnd EventKind = "end"
)

// Event is a one-shot notification for a gesture boolean transition.
// Events fire exactly on edges, never on steady state.
type Event struct {
	Side      detector.Side
	Gesture   string
	Kind      EventKind
	Timestamp time.Time
}

// EdgeDetector tracks the previous frame's gesture flags for one hand
// side and emits Start/End events on transitions.
type EdgeDetector struct {
	prev Gestures
}

// NewEdgeDetector creates an edge detector with an all-false previous
// state, so gestures already active on the first frame emit Start events.
func NewEdgeDetector() *EdgeDetector {
	return &EdgeDetector{}
}

// Update compares the current gesture flags against the previous frame's
// and returns the resulting edge events, in a fixed gesture order.
func (e *EdgeDetector) Update(side detector.Side, cur Gestures, now time.Time) []Event {
	var events []Event

	pairs := []struct {
		name string
		prev bool
		cur  bool
	}{
		{GestureFist, e.prev.Fist, cur.Fist},
		{GestureOpen, e.prev.Open, cur.Open},
		{GesturePoint, e.prev.Point, cur.Point},
		{GesturePinch, e.prev.Pinch, cur.Pinch},
	}

	for _, p := range pairs {
		if !p.prev && p.cur {
			events = append(events, Event{Side: side, Gesture: p.name, Kind: EventStart, Timestamp: now})
		} else if p.prev && !p.cur {
			events = append(events, Event{Side: side, Gesture: p.name, Kind: EventEnd, Timestamp: now})
		}
	}

	e.prev = cur
	return events
}

// Reset clears the previous state without emitting End events. Loss of
// tracking is not treated as "gesture ended" for notification purposes;
// downstream actions key on Start edges, and synthesizing Ends from
// detector dropouts produced phantom releases.
func (e *EdgeDetector) Reset() {
	e.prev = Gestures{}
}
