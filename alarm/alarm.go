// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package alarm re-exports the station package's AlarmSink collaborator
// interface and gathers its concrete backends (logsink, lcd).
package alarm

import "github.com/GermanBionicSystems/ato-station/station"

// Sink receives edge-triggered alarm notifications, see
// station.AlarmSink.
type Sink = station.AlarmSink

// Event identifies which alarm condition is being reported, see
// station.AlarmEvent.
type Event = station.AlarmEvent

const (
	// ReservoirLow is raised on entering station.StateReservoirLow.
	ReservoirLow = station.ReservoirLowEvent
	// Invalid is raised on entering station.StateInvalid.
	Invalid = station.InvalidEvent
)
