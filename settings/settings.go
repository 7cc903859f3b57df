// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package settings re-exports the station package's SettingsStore
// collaborator interface and gathers its concrete backends (binaryfile,
// yamlfile).
package settings

import "github.com/GermanBionicSystems/ato-station/station"

// Store persists and loads the station's two tunables, see
// station.SettingsStore.
type Store = station.SettingsStore

// Settings is the station's persisted tunables, see station.Settings.
type Settings = station.Settings
