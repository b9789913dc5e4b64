// Package signal converts per-frame hand landmarks into debounced control
// signals: six directional flags and four gesture flags per hand, packaged
// as one self-contained snapshot per frame.
package signal

import "github.com/nisharg/mudra/internal/detector"

// Controls holds the six directional flags for one hand. Each axis pair is
// mutually exclusive; the three axes are independent, so up to three flags
// can be set in one frame.
type Controls struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	In    bool `json:"in"`
	Out   bool `json:"out"`
}

// Gestures holds the gesture flags derived from a single frame's landmarks.
// The four booleans are not mutually exclusive by construction; any
// exclusivity (point implies not open, for example) is emergent from the
// finger-count rules, not enforced.
type Gestures struct {
	Fist          bool    `json:"fist"`
	Open          bool    `json:"open"`
	Point         bool    `json:"point"`
	Pinch         bool    `json:"pinch"`
	ExtendedCount int     `json:"extendedCount"`
	PinchDistance float64 `json:"pinchDistance"`
}

// HandState is the complete per-side state for one frame. When Detected is
// false every other field carries its zero value, so consumers never need a
// presence check beyond Detected.
type HandState struct {
	Detected bool             `json:"detected"`
	Wrist    detector.Point3D `json:"wrist"`
	Controls Controls         `json:"controls"`
	Gestures Gestures         `json:"gestures"`
}

// FramePayload is the wire unit: both hands, the producer's measured frame
// rate, and the producer-clock timestamp in milliseconds. Exactly one is
// produced per eligible frame and one is held as current on the consumer.
type FramePayload struct {
	Left      HandState `json:"left"`
	Right     HandState `json:"right"`
	FPS       int       `json:"fps"`
	Timestamp float64   `json:"timestamp"`
}

// EmptyPayload returns the well-defined "no hands" payload substituted
// whenever no connection or no valid data exists.
func EmptyPayload() FramePayload {
	return FramePayload{}
}

// Hand returns the state for the given side.
func (p *FramePayload) Hand(side detector.Side) HandState {
	if side == detector.SideRight {
		return p.Right
	}
	return p.Left
}
