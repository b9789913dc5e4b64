package signal

import "github.com/nisharg/mudra/internal/detector"

// DefaultPinchThreshold is the thumb-to-index distance, in normalized
// coordinate space, below which the hand counts as pinching.
const DefaultPinchThreshold = 0.07

// Classify derives the gesture flags for one hand from a single frame's
// landmarks. Pure: no state, no failure modes. The landmark count is
// guaranteed by the fixed-size array type; adapters enforce it at the
// detector boundary.
func Classify(hand *detector.HandLandmarks, pinchThreshold float64) Gestures {
	if pinchThreshold <= 0 {
		pinchThreshold = DefaultPinchThreshold
	}

	index := fingerExtended(hand, detector.IndexTip)
	middle := fingerExtended(hand, detector.MiddleTip)
	ring := fingerExtended(hand, detector.RingTip)
	pinky := fingerExtended(hand, detector.PinkyTip)
	thumb := thumbExtended(hand)

	count := 0
	for _, up := range []bool{index, middle, ring, pinky} {
		if up {
			count++
		}
	}

	pinchDist := detector.Distance(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])

	return Gestures{
		Fist:          count == 0 && !thumb,
		Open:          count >= 4,
		Point:         index && !middle && !ring && !pinky,
		Pinch:         pinchDist < pinchThreshold,
		ExtendedCount: count,
		PinchDistance: pinchDist,
	}
}

// fingerExtended reports whether a fingertip is above the joint two
// indices back (its PIP). Smaller y is higher in frame coordinates.
func fingerExtended(hand *detector.HandLandmarks, tip int) bool {
	return hand.Points[tip].Y < hand.Points[tip-2].Y
}

// thumbExtended compares the thumb tip against its own base joint; the
// thumb's kinematic chain differs from the other fingers, so the generic
// tip-vs-PIP rule does not apply.
func thumbExtended(hand *detector.HandLandmarks) bool {
	return hand.Points[detector.ThumbTip].Y < hand.Points[detector.ThumbMCP].Y
}
