package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the contents of config.yml.
type AppConfig struct {
	ConfigVersion     int      `yaml:"config_version"`
	Backend           string   `yaml:"backend"`
	SocketDir         string   `yaml:"socket_dir"`
	InputDir          string   `yaml:"input_dir"`
	Layout            string   `yaml:"layout"`
	AllowedLabels     []string `yaml:"allowed_labels"`
	PulseMS           int      `yaml:"pulse_ms"`
	Columns           int      `yaml:"columns"`
	Colour            string   `yaml:"colour"`
	ShutdownTimeoutMS int      `yaml:"shutdown_timeout_ms"`
	Debug             bool     `yaml:"debug"`
}

// DefaultAppConfig returns the settings used when config.yml is absent.
func DefaultAppConfig() *AppConfig {
	labels := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0"}
	for c := 'a'; c <= 'z'; c++ {
		labels = append(labels, string(c))
	}
	labels = append(labels, "space")

	return &AppConfig{
		ConfigVersion:     latestConfigVersion,
		Backend:           "auto",
		SocketDir:         "/tmp/.X11-unix",
		InputDir:          "/dev/input",
		Layout:            "us",
		AllowedLabels:     labels,
		PulseMS:           int(DefaultPulse / time.Millisecond),
		Columns:           10,
		Colour:            "auto",
		ShutdownTimeoutMS: 500,
	}
}

// LoadAppConfig reads dir/config.yml on top of the defaults. A missing file
// is not an error.
func LoadAppConfig(dir string) (*AppConfig, error) {
	cfg := DefaultAppConfig()

	data, err := os.ReadFile(filepath.Join(dir, "config.yml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config.yml: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config.yml: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.yml: %w", err)
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.Backend {
	case "auto", "x11", "evdev":
	default:
		return fmt.Errorf("backend must be auto, x11 or evdev, got %q", c.Backend)
	}
	switch c.Colour {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("colour must be auto, always or never, got %q", c.Colour)
	}
	if c.PulseMS <= 0 {
		return fmt.Errorf("pulse_ms must be positive, got %d", c.PulseMS)
	}
	if c.Columns <= 0 {
		return fmt.Errorf("columns must be positive, got %d", c.Columns)
	}
	if c.ShutdownTimeoutMS <= 0 {
		return fmt.Errorf("shutdown_timeout_ms must be positive, got %d", c.ShutdownTimeoutMS)
	}
	return nil
}

// Pulse is how long a pressed key stays lit.
func (c *AppConfig) Pulse() time.Duration {
	return time.Duration(c.PulseMS) * time.Millisecond
}

// ShutdownTimeout bounds the wait for device readers on exit.
func (c *AppConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// AllowList returns the configured key names as a set.
func (c *AppConfig) AllowList() AllowList {
	return NewAllowList(c.AllowedLabels)
}
