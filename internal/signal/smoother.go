package signal

// DefaultSmoothingWindow is the number of frames averaged by the depth
// smoother.
const DefaultSmoothingWindow = 5

// DepthSmoother maintains a rolling average over the last N raw depth
// values for one hand side. The window is cleared outright when the hand
// is lost so post-reacquisition depth never blends with pre-loss values.
type DepthSmoother struct {
	size   int
	window []float64
}

// NewDepthSmoother creates a smoother with the given window size.
// Sizes <= 0 fall back to the default.
func NewDepthSmoother(size int) *DepthSmoother {
	if size <= 0 {
		size = DefaultSmoothingWindow
	}
	return &DepthSmoother{
		size:   size,
		window: make([]float64, 0, size),
	}
}

// Push appends a raw depth value, evicting the oldest when the window is
// full, and returns the arithmetic mean of the current window.
func (s *DepthSmoother) Push(v float64) float64 {
	if len(s.window) >= s.size {
		copy(s.window, s.window[1:])
		s.window = s.window[:s.size-1]
	}
	s.window = append(s.window, v)

	return s.Value()
}

// Value returns the mean of the current window, or 0 if empty.
func (s *DepthSmoother) Value() float64 {
	if len(s.window) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.window {
		sum += v
	}
	return sum / float64(len(s.window))
}

// Len returns the number of samples currently in the window.
func (s *DepthSmoother) Len() int {
	return len(s.window)
}

// Reset clears the window.
func (s *DepthSmoother) Reset() {
	s.window = s.window[:0]
}
