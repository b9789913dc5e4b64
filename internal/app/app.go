// Package app wires the capture, detection, and signal layers into the
// producer pipeline and publishes control payloads downstream.
package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nisharg/mudra/internal/capture"
	"github.com/nisharg/mudra/internal/detector"
	"github.com/nisharg/mudra/internal/signal"
)

// Pipeline timing defaults.
const (
	// DefaultIdleFPS is the frame rate when no motion is detected.
	DefaultIdleFPS = 5
	// DefaultActiveFPS is the frame rate during active tracking.
	DefaultActiveFPS = 15
	// DefaultIdleTimeout is how long without motion before switching back to idle.
	DefaultIdleTimeout = 2 * time.Second
)

// fpsAlpha is the EWMA weight for the measured frame rate.
const fpsAlpha = 0.2

// Publisher receives every processed frame payload. A bridge.Sender
// satisfies this; tests substitute a recording implementation.
type Publisher interface {
	Publish(signal.FramePayload)
}

// EventObserver is notified of every gesture start and end event.
// Observers must not block; they run on the pipeline goroutine.
type EventObserver interface {
	HandleGestureEvent(signal.Event)
}

// Config holds configuration options for the application.
type Config struct {
	CameraID     int
	Mirror       bool
	MotionThresh float64
	IdleFPS      int
	ActiveFPS    int
	IdleTimeout  time.Duration
	Signal       signal.Config
	Logger       zerolog.Logger
}

// App is the producer application. It owns the camera, the motion gate,
// the hand detector, and the per-session signal state, and pushes one
// FramePayload per processed frame to its Publisher.
type App struct {
	config    Config
	log       zerolog.Logger
	camera    capture.Camera
	motion    *capture.MotionDetector
	detector  detector.Detector
	session   *signal.Session
	publisher Publisher
	observers []EventObserver
	enabled   bool
	mu        sync.RWMutex
	stopCh    chan struct{}

	// Frame rate estimate, maintained by the pipeline goroutine only.
	lastFrameAt time.Time
	fpsEstimate float64
}

// New creates a new App instance with the given configuration and payload
// publisher. A nil publisher is allowed; payloads are then dropped, which
// is useful for headless testing.
func New(config Config, publisher Publisher) *App {
	if config.MotionThresh <= 0 {
		config.MotionThresh = 1.0 // 1% pixel change
	}
	if config.IdleFPS <= 0 {
		config.IdleFPS = DefaultIdleFPS
	}
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = DefaultActiveFPS
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}

	a := &App{
		config:    config,
		log:       config.Logger,
		camera:    capture.NewCamera(config.CameraID, config.Mirror),
		motion:    capture.NewMotionDetector(config.MotionThresh),
		session:   signal.NewSession(config.Signal),
		publisher: publisher,
		enabled:   false,
		stopCh:    nil,
	}

	// Try MediaPipe first, fall back to mock detector.
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		a.log.Info().Msg("Using MediaPipe hand detection")
	} else {
		a.log.Warn().Err(err).Msg("MediaPipe not available, using mock detector")
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables tracking.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera implementation. Must be called before
// Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// AddObserver registers an observer for gesture edge events.
func (a *App) AddObserver(o EventObserver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, o)
}

// Start begins the tracking pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(a.config.IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	a.log.Info().Msg("Tracking pipeline started")
	return nil
}

// Stop halts the tracking pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		a.log.Error().Err(err).Msg("Error closing camera")
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.log.Error().Err(err).Msg("Error closing detector")
		}
	}

	a.log.Info().Msg("Tracking pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
