// Package config handles application configuration loading and management.
package config

import "time"

// Config holds all application settings.
type Config struct {
	Tracking TrackingConfig `yaml:"tracking"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TrackingConfig selects and tunes the anchor source.
type TrackingConfig struct {
	// Source is one of "synthetic", "replay", "feed".
	Source         string        `yaml:"source"`
	ReplayPath     string        `yaml:"replay_path"`
	ReplayLoop     bool          `yaml:"replay_loop"`
	FeedAddr       string        `yaml:"feed_addr"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	RateHz         float64       `yaml:"rate_hz"` // synthetic emit rate
}

// ViewerConfig holds debug viewer settings.
type ViewerConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Headless   bool `yaml:"headless"`
	ShowHands  bool `yaml:"show_hands"`
	ShowMeshes bool `yaml:"show_meshes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tracking: TrackingConfig{
			Source:         "synthetic",
			FeedAddr:       "127.0.0.1:7410",
			ConnectTimeout: 10 * time.Second,
			RateHz:         30,
		},
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Headless:   false,
			ShowHands:  true,
			ShowMeshes: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
