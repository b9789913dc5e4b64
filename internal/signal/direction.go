package signal

// Default movement thresholds in normalized coordinate units per frame.
const (
	DefaultMoveThreshold  = 0.05
	DefaultDepthThreshold = 0.03
)

// DirectionTracker turns frame-to-frame wrist movement for one hand side
// into the six directional flags. It is a two-state machine: with no
// baseline it records the current position and stays silent; with a
// baseline it thresholds the deltas and then re-baselines on the current
// frame. That makes it a per-frame velocity detector, so its sensitivity
// scales with capture frame rate.
type DirectionTracker struct {
	moveThreshold  float64
	depthThreshold float64

	hasBaseline bool
	baseX       float64
	baseY       float64
	baseZ       float64
}

// NewDirectionTracker creates a tracker with the given thresholds.
// Thresholds <= 0 fall back to the defaults.
func NewDirectionTracker(moveThreshold, depthThreshold float64) *DirectionTracker {
	if moveThreshold <= 0 {
		moveThreshold = DefaultMoveThreshold
	}
	if depthThreshold <= 0 {
		depthThreshold = DefaultDepthThreshold
	}
	return &DirectionTracker{
		moveThreshold:  moveThreshold,
		depthThreshold: depthThreshold,
	}
}

// Update consumes the current wrist position (x, y, smoothed z) and
// returns the directional flags. The first frame after (re)acquisition
// only records a baseline and returns all-false: a deliberate one-frame
// suppression so a stale baseline never fires a spurious signal.
func (d *DirectionTracker) Update(x, y, z float64) Controls {
	if !d.hasBaseline {
		d.hasBaseline = true
		d.baseX, d.baseY, d.baseZ = x, y, z
		return Controls{}
	}

	dx := x - d.baseX
	dy := y - d.baseY
	dz := z - d.baseZ

	var c Controls

	// The capture is mirrored: decreasing x is rightward motion on screen.
	switch {
	case dx < -d.moveThreshold:
		c.Right = true
	case dx > d.moveThreshold:
		c.Left = true
	}

	// y increases downward in frame coordinates.
	switch {
	case dy < -d.moveThreshold:
		c.Up = true
	case dy > d.moveThreshold:
		c.Down = true
	}

	// More negative z is farther from the camera.
	switch {
	case dz < -d.depthThreshold:
		c.Out = true
	case dz > d.depthThreshold:
		c.In = true
	}

	d.baseX, d.baseY, d.baseZ = x, y, z

	return c
}

// Reset drops the baseline. Called when the hand is undetected so the
// next detected frame starts a fresh acquisition cycle.
func (d *DirectionTracker) Reset() {
	d.hasBaseline = false
}
