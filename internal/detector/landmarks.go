// Package detector provides hand landmark detection for the Mudra control bridge.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in normalized image coordinates.
// X and Y are in [0,1]; Z is a relative depth unit, more negative
// meaning farther from the camera.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Side is the logical side of a hand from the user's point of view.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Sides lists both hand sides in a fixed order.
var Sides = [2]Side{SideLeft, SideRight}

// SideFor maps the detector's handedness label to a logical side.
// The video feed is mirrored, so the raw "Left" label is the user's
// right hand and vice versa. Unknown labels map to SideLeft.
func SideFor(handedness string) Side {
	if handedness == "Left" {
		return SideRight
	}
	return SideLeft
}

// HandLandmarks represents the 21 hand landmarks detected for one hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // raw detector label: "Left" or "Right"
	Score      float64               `json:"score"`
}

// Side returns the mirror-corrected logical side for this hand.
func (h *HandLandmarks) Side() Side {
	return SideFor(h.Handedness)
}

// MeanDepth returns the average z coordinate across all 21 landmarks.
// Averaging over the full hand rather than a single point reduces
// per-landmark depth noise.
func (h *HandLandmarks) MeanDepth() float64 {
	var sum float64
	for i := 0; i < NumLandmarks; i++ {
		sum += h.Points[i].Z
	}
	return sum / NumLandmarks
}

// Distance calculates the Euclidean distance between two 3D points.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
