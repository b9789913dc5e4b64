package app

import (
	"time"

	"github.com/nisharg/mudra/internal/detector"
)

// runPipeline is the main capture loop. It manages the state transitions
// between idle and active modes based on motion detection and runs every
// frame through the signal session.
//
// Pipeline logic:
//  1. Start in idle mode (idle FPS)
//  2. On motion detected, switch to active mode (active FPS)
//  3. In active mode, run hand detection and process the landmarks
//  4. In idle mode, process an empty frame so consumers see hands as lost
//  5. After the idle timeout without motion, switch back to idle mode
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(a.config.IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				a.log.Warn().Err(err).Msg("Error reading frame")
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(a.config.ActiveFPS)
					frameInterval = time.Second / time.Duration(a.config.ActiveFPS)
					ticker.Reset(frameInterval)
					a.log.Debug().Msg("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > a.config.IdleTimeout {
					activeMode = false
					a.camera.SetFPS(a.config.IdleFPS)
					frameInterval = time.Second / time.Duration(a.config.IdleFPS)
					ticker.Reset(frameInterval)
					a.log.Debug().Msg("Switched to idle mode")
				}
			}

			det := a.Detector()

			// Idle frames still go through the session so downstream
			// consumers see both hands as lost, not stale.
			if !activeMode || det == nil {
				frame.Close()
				a.processFrame(nil, time.Now())
				continue
			}

			hands, err := det.Detect(frame)
			frame.Close()

			if err != nil {
				a.log.Warn().Err(err).Msg("Error detecting hands")
				a.processFrame(nil, time.Now())
				continue
			}

			a.processFrame(hands, time.Now())
		}
	}
}

// processFrame runs one frame of landmarks (nil when no hands were
// detected) through the session, publishes the resulting payload, and
// dispatches any gesture edge events to the registered observers. It is
// called only from the pipeline goroutine and from tests.
func (a *App) processFrame(hands []detector.HandLandmarks, now time.Time) {
	if !a.lastFrameAt.IsZero() {
		if dt := now.Sub(a.lastFrameAt).Seconds(); dt > 0 {
			inst := 1.0 / dt
			if a.fpsEstimate == 0 {
				a.fpsEstimate = inst
			} else {
				a.fpsEstimate = fpsAlpha*inst + (1-fpsAlpha)*a.fpsEstimate
			}
		}
	}
	a.lastFrameAt = now

	payload, events := a.session.Process(hands, int(a.fpsEstimate+0.5), now)

	if a.publisher != nil {
		a.publisher.Publish(payload)
	}

	if len(events) == 0 {
		return
	}

	a.mu.RLock()
	observers := append([]EventObserver(nil), a.observers...)
	a.mu.RUnlock()

	for _, ev := range events {
		a.log.Debug().
			Str("side", string(ev.Side)).
			Str("gesture", ev.Gesture).
			Str("kind", string(ev.Kind)).
			Msg("Gesture edge")

		for _, obs := range observers {
			obs.HandleGestureEvent(ev)
		}
	}
}
