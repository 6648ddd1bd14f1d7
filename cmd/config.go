// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/spectran/packetmode/pkg/rxtx"
)

// Config holds the operating mode settings read from the YAML config
// file. Flags override the connection settings.
type Config struct {
	Squelch struct {
		Level uint8 `yaml:"level"`
		Tone  bool  `yaml:"tone"`
	} `yaml:"squelch"`

	UpdateIntervalMs int  `yaml:"update_interval_ms"`
	TxDisabled       bool `yaml:"tx_disabled"`
	SelfTest         bool `yaml:"self_test"`

	// Volume knob position reported to the controller, 0-255. Set to a
	// negative value if the host has no digital output gain.
	Volume int `yaml:"volume"`

	Connection struct {
		Port string `yaml:"port"`
		Baud int    `yaml:"baud"`
		URL  string `yaml:"url"`
	} `yaml:"connection"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	var cfg Config
	cfg.Squelch.Level = 4
	cfg.UpdateIntervalMs = int(rxtx.DefaultUpdateInterval / time.Millisecond)
	cfg.Volume = -1
	cfg.Connection.Baud = 115200
	return cfg
}

// LoadConfig reads the config file if one was given and applies flag
// overrides for the connection settings.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if cfg.Squelch.Level > rxtx.MaxSquelchLevel {
		return cfg, fmt.Errorf("squelch level %d out of range (max %d)", cfg.Squelch.Level, rxtx.MaxSquelchLevel)
	}
	if cfg.UpdateIntervalMs <= 0 {
		return cfg, fmt.Errorf("update interval must be positive, got %d ms", cfg.UpdateIntervalMs)
	}

	// Flags win over the config file.
	if portName != "" {
		cfg.Connection.Port = portName
	}
	// The baud flag carries a non-zero default, so only an explicitly
	// set flag may override the config file.
	if rootCmd.PersistentFlags().Changed("baud") {
		cfg.Connection.Baud = baudRate
	}
	if wsURL != "" {
		cfg.Connection.URL = wsURL
	}

	return cfg, nil
}

// UpdateInterval returns the controller pacing interval.
func (c Config) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalMs) * time.Millisecond
}

// newLogger builds the process logger from the --log-level flag.
func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return logger, nil
}
