// Package config loads application settings from a JSON config file with
// viper, falling back to defaults when no file exists.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Settings holds all tunable values for the producer, relay, and monitor.
type Settings struct {
	LogLevel string `json:"logLevel" mapstructure:"logLevel"`

	Camera struct {
		ID           int     `json:"id" mapstructure:"id"`
		Mirror       bool    `json:"mirror" mapstructure:"mirror"`
		IdleFPS      int     `json:"idleFps" mapstructure:"idleFps"`
		ActiveFPS    int     `json:"activeFps" mapstructure:"activeFps"`
		MotionThresh float64 `json:"motionThreshold" mapstructure:"motionThreshold"`
	} `json:"camera" mapstructure:"camera"`

	Tracking struct {
		SmoothingWindow int     `json:"smoothingWindow" mapstructure:"smoothingWindow"`
		MoveThreshold   float64 `json:"moveThreshold" mapstructure:"moveThreshold"`
		DepthThreshold  float64 `json:"depthThreshold" mapstructure:"depthThreshold"`
		PinchThreshold  float64 `json:"pinchThreshold" mapstructure:"pinchThreshold"`
	} `json:"tracking" mapstructure:"tracking"`

	Relay struct {
		ListenAddr     string        `json:"listenAddr" mapstructure:"listenAddr"`
		ProducerURL    string        `json:"producerUrl" mapstructure:"producerUrl"`
		ConsumerURL    string        `json:"consumerUrl" mapstructure:"consumerUrl"`
		SendIntervalMs int           `json:"sendIntervalMs" mapstructure:"sendIntervalMs"`
		RetryDelayMs   int           `json:"retryDelayMs" mapstructure:"retryDelayMs"`
		SendInterval   time.Duration `json:"-" mapstructure:"-"`
		RetryDelay     time.Duration `json:"-" mapstructure:"-"`
	} `json:"relay" mapstructure:"relay"`

	DBPath string `json:"dbPath" mapstructure:"dbPath"`
}

// Load reads configuration from mudra.cfg.json in configDir. A missing
// file is not an error; defaults apply. A present but unreadable or
// malformed file is.
func Load(configDir string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("logLevel", "info")

	v.SetDefault("camera.id", 0)
	v.SetDefault("camera.mirror", true)
	v.SetDefault("camera.idleFps", 5)
	v.SetDefault("camera.activeFps", 15)
	v.SetDefault("camera.motionThreshold", 1.0)

	v.SetDefault("tracking.smoothingWindow", 5)
	v.SetDefault("tracking.moveThreshold", 0.05)
	v.SetDefault("tracking.depthThreshold", 0.03)
	v.SetDefault("tracking.pinchThreshold", 0.07)

	v.SetDefault("relay.listenAddr", "localhost:8765")
	v.SetDefault("relay.producerUrl", "ws://localhost:8765/browser")
	v.SetDefault("relay.consumerUrl", "ws://localhost:8765/")
	v.SetDefault("relay.sendIntervalMs", 16)
	v.SetDefault("relay.retryDelayMs", 2000)

	v.SetDefault("dbPath", "")

	v.SetConfigName("mudra.cfg.json")
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	s.Relay.SendInterval = time.Duration(s.Relay.SendIntervalMs) * time.Millisecond
	s.Relay.RetryDelay = time.Duration(s.Relay.RetryDelayMs) * time.Millisecond

	return &s, nil
}
