// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package binaryfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/ato-station/settings/binaryfile"
	"github.com/GermanBionicSystems/ato-station/station"
)

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	store := binaryfile.New(filepath.Join(t.TempDir(), "missing.bin"))
	defaults := station.DefaultSettings()

	got := store.Load(defaults)
	if got != defaults {
		t.Fatalf("got %+v, want defaults %+v", got, defaults)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store := binaryfile.New(filepath.Join(t.TempDir(), "settings.bin"))
	want := station.Settings{MaxDispensingDurationMs: 123456, MinDispensingIntervalMs: 7890}

	store.Save(want)
	got := store.Load(station.DefaultSettings())

	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoadRejectsCorruptedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.bin")
	store := binaryfile.New(path)
	store.Save(station.Settings{MaxDispensingDurationMs: 1, MinDispensingIntervalMs: 2})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[0] ^= 0xff // corrupt the CRC8 sentinel
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	defaults := station.DefaultSettings()
	got := store.Load(defaults)
	if got != defaults {
		t.Fatalf("got %+v, want defaults %+v after corruption", got, defaults)
	}
}
