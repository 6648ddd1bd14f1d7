// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

// withConfigFile points the config flag at a temp file and restores the
// connection flag state when the test ends.
func withConfigFile(t *testing.T, contents string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	savedPath, savedPort, savedBaud, savedURL := configPath, portName, baudRate, wsURL
	configPath = path
	t.Cleanup(func() {
		configPath, portName, baudRate, wsURL = savedPath, savedPort, savedBaud, savedURL
		rootCmd.PersistentFlags().Lookup("baud").Changed = false
	})
}

func TestConfigFileBaudWithoutFlag(t *testing.T) {
	withConfigFile(t, "connection:\n  baud: 9600\n")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	// The flag default must not clobber an explicit config value.
	if cfg.Connection.Baud != 9600 {
		t.Errorf("baud = %d, want 9600", cfg.Connection.Baud)
	}
}

func TestBaudFlagOverridesConfigFile(t *testing.T) {
	withConfigFile(t, "connection:\n  baud: 9600\n")
	if err := rootCmd.PersistentFlags().Set("baud", "57600"); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Connection.Baud != 57600 {
		t.Errorf("baud = %d, want 57600", cfg.Connection.Baud)
	}
}

func TestDefaultBaudWithoutConfigOrFlag(t *testing.T) {
	withConfigFile(t, "")
	configPath = ""

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Connection.Baud != 115200 {
		t.Errorf("baud = %d, want 115200", cfg.Connection.Baud)
	}
}

func TestConfigFilePortAndURL(t *testing.T) {
	withConfigFile(t, "connection:\n  port: /dev/ttyACM2\n  url: ws://radio.local/link\n")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Connection.Port != "/dev/ttyACM2" {
		t.Errorf("port = %q", cfg.Connection.Port)
	}
	if cfg.Connection.URL != "ws://radio.local/link" {
		t.Errorf("url = %q", cfg.Connection.URL)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"squelch level out of range", "squelch:\n  level: 20\n"},
		{"negative update interval", "update_interval_ms: -5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfigFile(t, tt.contents)
			if _, err := LoadConfig(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
