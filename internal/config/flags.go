package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSaveFrames = flag.Bool("s", false, "Save the animation frames for making a video")
	flagHost       = flag.String("host", "", "Gaia Sky gateway address (host:port)")
	flagScenario   = flag.String("scenario", "", "Play a YAML script instead of the built-in one")
	flagDryRun     = flag.Bool("dry-run", false, "Print host commands instead of sending them")
	flagDump       = flag.String("dump", "", "Write the resolved script as YAML to this path and exit")
	flagFrameDir   = flag.String("frames", "", "Directory the host writes frames to")
	flagInitConfig = flag.String("init-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// InitConfigPath returns where the effective config should be written, if requested.
func InitConfigPath() string {
	return *flagInitConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSaveFrames {
		cfg.Frames.Save = true
	}
	if *flagHost != "" {
		cfg.Host.Address = *flagHost
	}
	if *flagScenario != "" {
		cfg.Scenario.File = *flagScenario
	}
	if *flagDryRun {
		cfg.Scenario.DryRun = true
	}
	if *flagDump != "" {
		cfg.Scenario.Dump = *flagDump
	}
	if *flagFrameDir != "" {
		cfg.Frames.Directory = *flagFrameDir
	}
}
