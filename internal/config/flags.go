package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSource     = flag.String("source", "", "Tracking source: synthetic, replay, feed")
	flagReplay     = flag.String("replay", "", "Path to a .trk session recording (implies -source replay)")
	flagFeed       = flag.String("feed", "", "Tracking bridge address (implies -source feed)")
	flagHeadless   = flag.Bool("headless", false, "Run without the debug viewer")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSource != "" {
		cfg.Tracking.Source = *flagSource
	}
	if *flagReplay != "" {
		cfg.Tracking.Source = "replay"
		cfg.Tracking.ReplayPath = *flagReplay
	}
	if *flagFeed != "" {
		cfg.Tracking.Source = "feed"
		cfg.Tracking.FeedAddr = *flagFeed
	}
	if *flagHeadless {
		cfg.Viewer.Headless = true
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
}
