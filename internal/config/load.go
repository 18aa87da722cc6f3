package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name searched for in standard locations.
const FileName = "orbitcam.yaml"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the search
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail on the host mid-run.
func (c *Config) Validate() error {
	var errs []error
	if c.Host.Address == "" && !c.Scenario.DryRun && c.Scenario.Dump == "" {
		errs = append(errs, errors.New("host.address is required"))
	}
	if c.Frames.Width <= 0 || c.Frames.Height <= 0 {
		errs = append(errs, fmt.Errorf("frames: invalid resolution %dx%d", c.Frames.Width, c.Frames.Height))
	}
	if c.Frames.FPS <= 0 {
		errs = append(errs, fmt.Errorf("frames: invalid fps %d", c.Frames.FPS))
	}
	switch c.Frames.Mode {
	case "simple", "advanced":
	default:
		errs = append(errs, fmt.Errorf("frames: unknown mode %q", c.Frames.Mode))
	}
	return errors.Join(errs...)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "orbitcam")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "orbitcam")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "orbitcam")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "orbitcam")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
