// Package config handles configuration for uia2-bridge.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is absent from the config file.
const (
	DefaultDevicePort     = 6790
	DefaultStartupTimeout = "30s"
	DefaultWaitTimeout    = "5s"
	DefaultLogFile        = "/tmp/uia2-bridge.log"
)

// Config represents the bridge configuration file.
type Config struct {
	// ADB
	ADBPath string `yaml:"adbPath"` // Empty means adb from PATH

	// UIAutomator2 server
	DevicePort     int    `yaml:"devicePort"`     // Server port on the device
	StartupTimeout string `yaml:"startupTimeout"` // Server start deadline
	WaitTimeout    string `yaml:"waitTimeout"`    // Implicit wait and waitForSelectorTimeout
	APKDir         string `yaml:"apkDir"`         // Server APKs installed when missing

	// Logging
	LogFile string `yaml:"logFile"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DevicePort:     DefaultDevicePort,
		StartupTimeout: DefaultStartupTimeout,
		WaitTimeout:    DefaultWaitTimeout,
		LogFile:        DefaultLogFile,
	}
}

// Load loads configuration from a file. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects ports and durations that cannot work.
func (c *Config) Validate() error {
	if c.DevicePort <= 0 || c.DevicePort > 65535 {
		return fmt.Errorf("devicePort must be between 1 and 65535, got %d", c.DevicePort)
	}
	if _, err := positiveDuration("startupTimeout", c.StartupTimeout); err != nil {
		return err
	}
	if _, err := positiveDuration("waitTimeout", c.WaitTimeout); err != nil {
		return err
	}
	return nil
}

// StartupDuration returns StartupTimeout parsed, or the default when invalid.
func (c *Config) StartupDuration() time.Duration {
	return durationOr(c.StartupTimeout, DefaultStartupTimeout)
}

// WaitDuration returns WaitTimeout parsed, or the default when invalid.
func (c *Config) WaitDuration() time.Duration {
	return durationOr(c.WaitTimeout, DefaultWaitTimeout)
}

func positiveDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, value)
	}
	return d, nil
}

func durationOr(value, fallback string) time.Duration {
	if d, err := positiveDuration("", value); err == nil {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}
