// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package yamlfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/ato-station/settings/yamlfile"
	"github.com/GermanBionicSystems/ato-station/station"
)

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	store := yamlfile.New(filepath.Join(t.TempDir(), "missing.yaml"))
	defaults := station.DefaultSettings()

	if got := store.Load(defaults); got != defaults {
		t.Fatalf("got %+v, want defaults %+v", got, defaults)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store := yamlfile.New(filepath.Join(t.TempDir(), "settings.yaml"))
	want := station.Settings{MaxDispensingDurationMs: 42000, MinDispensingIntervalMs: 99}

	store.Save(want)
	if got := store.Load(station.DefaultSettings()); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoadReturnsDefaultsOnMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("not: [valid: yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := yamlfile.New(path)
	defaults := station.DefaultSettings()

	if got := store.Load(defaults); got != defaults {
		t.Fatalf("got %+v, want defaults %+v", got, defaults)
	}
}
