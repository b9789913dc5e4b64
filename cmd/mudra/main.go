package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nisharg/mudra/internal/app"
	"github.com/nisharg/mudra/internal/bridge"
	"github.com/nisharg/mudra/internal/config"
	"github.com/nisharg/mudra/internal/signal"
	"github.com/nisharg/mudra/internal/store"
	"github.com/nisharg/mudra/internal/tray"
)

// trayObserver mirrors gesture start events into the tray menu.
type trayObserver struct {
	tray *tray.Tray
}

func (o *trayObserver) HandleGestureEvent(ev signal.Event) {
	if ev.Kind == signal.EventStart {
		o.tray.SetLastGesture(string(ev.Side) + " " + ev.Gesture)
	}
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to get home directory")
	}

	configDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create data directory")
	}

	settings, err := config.Load(configDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	if level, err := zerolog.ParseLevel(settings.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	dbPath := settings.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(configDir, "mudra.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer st.Close()

	sessionID := uuid.NewString()
	if _, err := st.Sessions().Create(sessionID); err != nil {
		logger.Fatal().Err(err).Msg("Failed to create session")
	}
	defer func() {
		if err := st.Sessions().End(sessionID); err != nil {
			logger.Error().Err(err).Msg("Failed to end session")
		}
	}()

	logger.Info().Str("session", sessionID).Str("db", dbPath).Msg("Mudra starting")

	sender := bridge.NewSender(
		settings.Relay.ProducerURL,
		settings.Relay.SendInterval,
		settings.Relay.RetryDelay,
		logger,
	)
	sender.Start()
	defer sender.Close()

	application := app.New(app.Config{
		CameraID:     settings.Camera.ID,
		Mirror:       settings.Camera.Mirror,
		MotionThresh: settings.Camera.MotionThresh,
		IdleFPS:      settings.Camera.IdleFPS,
		ActiveFPS:    settings.Camera.ActiveFPS,
		Signal: signal.Config{
			SmoothingWindow: settings.Tracking.SmoothingWindow,
			MoveThreshold:   settings.Tracking.MoveThreshold,
			DepthThreshold:  settings.Tracking.DepthThreshold,
			PinchThreshold:  settings.Tracking.PinchThreshold,
		},
		Logger: logger,
	}, sender)

	application.AddObserver(store.NewRecorder(st, sessionID, logger))

	t := tray.New()
	application.AddObserver(&trayObserver{tray: t})

	t.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
		logger.Info().Bool("enabled", enabled).Msg("Tracking toggled")
	})
	t.OnQuit(func() {
		application.Stop()
	})

	application.SetEnabled(true)
	if err := application.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start pipeline")
	}

	// Keep the connection status line in the tray current.
	statusDone := make(chan struct{})
	defer close(statusDone)
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-statusDone:
				return
			case <-ticker.C:
				t.SetConnected(sender.IsConnected())
			}
		}
	}()

	// Blocks until quit; systray must run on the main goroutine.
	t.Run()
}
