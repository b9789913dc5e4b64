package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nisharg/mudra/internal/bridge"
	"github.com/nisharg/mudra/internal/config"
	"github.com/nisharg/mudra/internal/detector"
	sig "github.com/nisharg/mudra/internal/signal"
)

// formatControls renders active directional flags as a compact string.
func formatControls(c sig.Controls) string {
	var parts []string
	if c.Left {
		parts = append(parts, "left")
	}
	if c.Right {
		parts = append(parts, "right")
	}
	if c.Up {
		parts = append(parts, "up")
	}
	if c.Down {
		parts = append(parts, "down")
	}
	if c.In {
		parts = append(parts, "in")
	}
	if c.Out {
		parts = append(parts, "out")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

// formatGestures renders active gesture flags as a compact string.
func formatGestures(g sig.Gestures) string {
	var parts []string
	if g.Fist {
		parts = append(parts, "fist")
	}
	if g.Open {
		parts = append(parts, "open")
	}
	if g.Point {
		parts = append(parts, "point")
	}
	if g.Pinch {
		parts = append(parts, "pinch")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func formatHand(h sig.HandState) string {
	if !h.Detected {
		return "(no hand)"
	}
	return fmt.Sprintf("move=%s gesture=%s ext=%d", formatControls(h.Controls), formatGestures(h.Gestures), h.Gestures.ExtendedCount)
}

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

	client := bridge.NewClient(settings.Relay.ConsumerURL, settings.Relay.RetryDelay, logger)
	client.Start()
	defer client.Close()

	fmt.Printf("Watching %s (ctrl-c to quit)\n", settings.Relay.ConsumerURL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			fmt.Println()
			return
		case <-ticker.C:
			if !client.IsConnected() {
				fmt.Println("[disconnected]")
				continue
			}
			p := client.Current()
			fmt.Printf("fps=%-3d left: %-40s right: %s\n",
				p.FPS,
				formatHand(p.Hand(detector.SideLeft)),
				formatHand(p.Hand(detector.SideRight)))
		}
	}
}
