// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package yamlfile implements station.SettingsStore as a human-editable
// YAML file, grounded on aleFerri99-device-gpiod's yaml-tagged
// configuration structs.
package yamlfile

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/ato-station/station"
)

type record struct {
	MaxDispensingDurationMs uint32 `yaml:"max_dispensing_duration_ms"`
	MinDispensingIntervalMs uint32 `yaml:"min_dispensing_interval_ms"`
}

// Store persists station.Settings to a YAML file at path.
type Store struct {
	path string
}

// New returns a Store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load implements station.SettingsStore. A missing file or a parse
// failure are both treated as "no valid record": defaults are returned.
func (s *Store) Load(defaults station.Settings) station.Settings {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return defaults
	}
	var r record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return defaults
	}
	return station.Settings{
		MaxDispensingDurationMs: r.MaxDispensingDurationMs,
		MinDispensingIntervalMs: r.MinDispensingIntervalMs,
	}
}

// Save implements station.SettingsStore. Write failures are best-effort
// and never surfaced to the caller.
func (s *Store) Save(settings station.Settings) {
	r := record{
		MaxDispensingDurationMs: settings.MaxDispensingDurationMs,
		MinDispensingIntervalMs: settings.MinDispensingIntervalMs,
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0o644)
}
