package signal

import (
	"time"

	"github.com/nisharg/mudra/internal/detector"
)

// Config holds the tunable thresholds for a tracking session.
type Config struct {
	SmoothingWindow int
	MoveThreshold   float64
	DepthThreshold  float64
	PinchThreshold  float64
}

// DefaultConfig returns a Config with the default thresholds.
func DefaultConfig() Config {
	return Config{
		SmoothingWindow: DefaultSmoothingWindow,
		MoveThreshold:   DefaultMoveThreshold,
		DepthThreshold:  DefaultDepthThreshold,
		PinchThreshold:  DefaultPinchThreshold,
	}
}

// sideState owns all per-side mutable history: the depth window, the
// wrist baseline, and the previous gesture flags. It lives for the life
// of the session and is cleared, never destroyed, when the hand is lost.
type sideState struct {
	smoother  *DepthSmoother
	direction *DirectionTracker
	edges     *EdgeDetector
}

func (s *sideState) reset() {
	s.smoother.Reset()
	s.direction.Reset()
	s.edges.Reset()
}

// Session aggregates the per-side signal state for one tracking session.
// Sessions are independent: constructing one per test (or per process)
// never shares state through package globals.
//
// Process is meant to be called from a single frame-driven goroutine;
// Session does no locking of its own.
type Session struct {
	cfg   Config
	sides map[detector.Side]*sideState
}

// NewSession creates a Session with empty per-side state.
func NewSession(cfg Config) *Session {
	sides := make(map[detector.Side]*sideState, len(detector.Sides))
	for _, side := range detector.Sides {
		sides[side] = &sideState{
			smoother:  NewDepthSmoother(cfg.SmoothingWindow),
			direction: NewDirectionTracker(cfg.MoveThreshold, cfg.DepthThreshold),
			edges:     NewEdgeDetector(),
		}
	}
	return &Session{cfg: cfg, sides: sides}
}

// Process runs one full frame through the signal chain and returns the
// snapshot for the wire plus any gesture edge events. Hands are mapped to
// logical sides with mirror correction; if the detector reports two hands
// on the same side, the first wins for that frame. Sides without a hand
// get the neutral HandState and have their history cleared.
func (s *Session) Process(hands []detector.HandLandmarks, fps int, now time.Time) (FramePayload, []Event) {
	bySide := make(map[detector.Side]*detector.HandLandmarks, 2)
	for i := range hands {
		side := hands[i].Side()
		if _, dup := bySide[side]; !dup {
			bySide[side] = &hands[i]
		}
	}

	var payload FramePayload
	var events []Event

	for _, side := range detector.Sides {
		state := s.sides[side]
		hand, ok := bySide[side]

		var hs HandState
		if ok {
			gestures := Classify(hand, s.cfg.PinchThreshold)
			depth := state.smoother.Push(hand.MeanDepth())
			wrist := hand.Points[detector.Wrist]

			hs = HandState{
				Detected: true,
				Wrist:    wrist,
				Controls: state.direction.Update(wrist.X, wrist.Y, depth),
				Gestures: gestures,
			}
			events = append(events, state.edges.Update(side, gestures, now)...)
		} else {
			state.reset()
		}

		if side == detector.SideRight {
			payload.Right = hs
		} else {
			payload.Left = hs
		}
	}

	payload.FPS = fps
	payload.Timestamp = float64(now.UnixNano()) / 1e6

	return payload, events
}
