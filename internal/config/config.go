// Package config handles recording configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/orbitcam/internal/gateway"
)

// Config holds all recording settings.
type Config struct {
	Host     HostConfig     `yaml:"host"`
	Frames   FramesConfig   `yaml:"frames"`
	Scenario ScenarioConfig `yaml:"scenario"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HostConfig holds the connection to the visualization host.
type HostConfig struct {
	Address        string        `yaml:"address"` // py4j gateway host:port
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// FramesConfig holds image-sequence output settings. The host writes the frames.
type FramesConfig struct {
	Save      bool   `yaml:"save"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	FPS       int    `yaml:"fps"`
	Directory string `yaml:"directory"`
	Prefix    string `yaml:"prefix"`
	Mode      string `yaml:"mode"` // "simple" or "advanced"
}

// ScenarioConfig selects the script to play.
type ScenarioConfig struct {
	File   string `yaml:"file"`    // YAML script; empty plays the built-in choreography
	DryRun bool   `yaml:"dry_run"` // Print commands instead of sending them
	Dump   string `yaml:"dump"`    // Write the resolved script here and exit
}

// MetricsConfig holds run metrics output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node exporter textfile path; empty disables
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Host: HostConfig{
			Address:        gateway.DefaultAddress,
			ConnectTimeout: 10 * time.Second,
		},
		Frames: FramesConfig{
			Save:      false,
			Width:     1280,
			Height:    720,
			FPS:       60,
			Directory: "./frames",
			Prefix:    "gs",
			Mode:      "simple",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
