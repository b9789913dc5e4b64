package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/nisharg/mudra/internal/config"
	"github.com/nisharg/mudra/internal/relay"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	configDir := ""
	if homeDir, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(homeDir, ".mudra")
	}

	settings, err := config.Load(configDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	if level, err := zerolog.ParseLevel(settings.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	r := relay.New(logger)

	if err := r.ListenAndServe(settings.Relay.ListenAddr); err != nil {
		logger.Fatal().Err(err).Msg("Relay server failed")
	}
}
