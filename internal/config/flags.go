package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Also write logs to this file")
	flagXRes    = flag.Int("xres", 0, "Height field samples along X")
	flagZRes    = flag.Int("zres", 0, "Height field samples along Z")
	flagWorkers = flag.Int("workers", 0, "Row-parallel meshing workers")
	flagSource  = flag.String("source", "", "Height source: flat, waves or table")
	flagTable   = flag.String("table", "", "Height table file for the table source")
	flagFrames  = flag.Int("frames", 0, "Number of animation frames")
	flagFPS     = flag.Float64("fps", 0, "Animation frame rate")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
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
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagXRes > 0 {
		cfg.Heightfield.XRes = *flagXRes
	}
	if *flagZRes > 0 {
		cfg.Heightfield.ZRes = *flagZRes
	}
	if *flagWorkers > 0 {
		cfg.Heightfield.Workers = *flagWorkers
	}
	if *flagSource != "" {
		cfg.Heightfield.Source = *flagSource
	}
	if *flagTable != "" {
		cfg.Table.Path = *flagTable
		if *flagSource == "" {
			cfg.Heightfield.Source = SourceTable
		}
	}
	if *flagFrames > 0 {
		cfg.Animation.Frames = *flagFrames
	}
	if *flagFPS > 0 {
		cfg.Animation.FrameRate = float32(*flagFPS)
	}
}
