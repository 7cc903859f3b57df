// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the daemon's hardware wiring and initial
// settings from a YAML file, in the same style as
// aleFerri99-device-gpiod's GPIO struct (yaml-tagged fields parsed
// with gopkg.in/yaml.v3).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend selects which GPIO transport backs the sensor/dispenser
// pins.
type Backend string

// Supported Backend values.
const (
	BackendPeriph  Backend = "periph"
	BackendGPIOD   Backend = "gpiod"
	BackendFirmata Backend = "firmata"
)

// PinConfig describes a single GPIO line.
type PinConfig struct {
	// Chip is the gpiod character device (e.g. "gpiochip0") or the
	// periph pin name, depending on Backend.
	Chip string `yaml:"chip"`
	// Line is the gpiod offset, ignored by the periph backend.
	Line int `yaml:"line"`
	// ActiveLow inverts the raw electrical level before it is
	// interpreted as Sensing/NotSensing or Dispensing/NotDispensing.
	ActiveLow bool `yaml:"active_low"`
}

// SensorsConfig wires up to 4 discrete level sensors. ReservoirLow,
// BackupHigh and BackupLow are optional; a zero-value PinConfig
// (empty Chip) means the sensor is not attached.
type SensorsConfig struct {
	Main         PinConfig `yaml:"main"`
	ReservoirLow PinConfig `yaml:"reservoir_low"`
	BackupHigh   PinConfig `yaml:"backup_high"`
	BackupLow    PinConfig `yaml:"backup_low"`
}

// Attached reports whether p names a real pin.
func (p PinConfig) Attached() bool {
	return p.Chip != ""
}

// AlarmConfig selects and configures the alarm annunciator.
type AlarmConfig struct {
	// Kind selects the sink. cmd/atostationd accepts "log", treats an
	// empty Kind as "log", and rejects any other value, including "lcd".
	Kind string `yaml:"kind"`
	// LCDRows/LCDCols describe an lcd display; cmd/atostationd does not
	// read them.
	LCDRows int `yaml:"lcd_rows"`
	LCDCols int `yaml:"lcd_cols"`
}

// SettingsConfig configures the settings persistence layer.
type SettingsConfig struct {
	// Kind is "binary" or "yaml".
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// Config is the daemon's complete wiring description.
type Config struct {
	Backend        Backend        `yaml:"backend"`
	Sensors        SensorsConfig  `yaml:"sensors"`
	Dispenser      PinConfig      `yaml:"dispenser"`
	Alarm          AlarmConfig    `yaml:"alarm"`
	Settings       SettingsConfig `yaml:"settings"`
	PollIntervalMs uint32         `yaml:"poll_interval_ms"`
	FirmataSerial  string         `yaml:"firmata_serial"`
}

// PollInterval returns PollIntervalMs as a time.Duration, defaulting
// to 200ms when unset.
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalMs == 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Load reads and parses the YAML config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.Backend {
	case BackendPeriph, BackendGPIOD, BackendFirmata:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if !c.Sensors.Main.Attached() {
		return fmt.Errorf("sensors.main is required")
	}
	if !c.Dispenser.Attached() {
		return fmt.Errorf("dispenser is required")
	}
	return nil
}
