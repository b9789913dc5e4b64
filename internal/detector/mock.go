package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// fingerColumn fills one finger's four joints along a vertical line.
// Extended fingers have the tip above the PIP (smaller y); curled fingers
// fold the tip back below the PIP.
func fingerColumn(lm *HandLandmarks, mcp int, x float64, extended bool) {
	if extended {
		lm.Points[mcp] = Point3D{X: x, Y: 0.68, Z: 0.0}
		lm.Points[mcp+1] = Point3D{X: x, Y: 0.55, Z: 0.0}
		lm.Points[mcp+2] = Point3D{X: x, Y: 0.45, Z: 0.0}
		lm.Points[mcp+3] = Point3D{X: x, Y: 0.35, Z: 0.0}
	} else {
		lm.Points[mcp] = Point3D{X: x, Y: 0.68, Z: -0.02}
		lm.Points[mcp+1] = Point3D{X: x, Y: 0.62, Z: -0.05}
		lm.Points[mcp+2] = Point3D{X: x - 0.02, Y: 0.68, Z: -0.04}
		lm.Points[mcp+3] = Point3D{X: x - 0.04, Y: 0.72, Z: -0.02}
	}
}

// FistLandmarks returns a preset HandLandmarks with all fingers curled
// and the thumb folded across the palm.
func FistLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb folded: tip below the MCP joint
	lm.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.75, Z: 0.0}
	lm.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.70, Z: 0.0}
	lm.Points[ThumbIP] = Point3D{X: 0.61, Y: 0.72, Z: -0.01}
	lm.Points[ThumbTip] = Point3D{X: 0.60, Y: 0.74, Z: -0.02}

	fingerColumn(&lm, IndexMCP, 0.55, false)
	fingerColumn(&lm, MiddleMCP, 0.50, false)
	fingerColumn(&lm, RingMCP, 0.45, false)
	fingerColumn(&lm, PinkyMCP, 0.40, false)

	return lm
}

// OpenPalmLandmarks returns a preset HandLandmarks with all four fingers
// and the thumb extended.
func OpenPalmLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended out to the side
	lm.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	lm.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	lm.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	lm.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	fingerColumn(&lm, IndexMCP, 0.55, true)
	fingerColumn(&lm, MiddleMCP, 0.50, true)
	fingerColumn(&lm, RingMCP, 0.45, true)
	fingerColumn(&lm, PinkyMCP, 0.40, true)

	return lm
}

// PointLandmarks returns a preset HandLandmarks with only the index
// finger extended.
func PointLandmarks() HandLandmarks {
	lm := FistLandmarks()
	fingerColumn(&lm, IndexMCP, 0.55, true)
	return lm
}

// PinchLandmarks returns a preset HandLandmarks with the thumb tip and
// index tip touching. The remaining fingers stay extended.
func PinchLandmarks() HandLandmarks {
	lm := OpenPalmLandmarks()

	// Bring thumb tip and index tip together, well inside the pinch
	// threshold but with the index still counted as extended.
	lm.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.58, Z: 0.01}
	lm.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.52, Z: 0.01}
	lm.Points[IndexDIP] = Point3D{X: 0.56, Y: 0.50, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.555, Y: 0.515, Z: 0.0}

	return lm
}
