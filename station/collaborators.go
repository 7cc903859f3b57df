// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package station

// Sensor is a liquid-level switch. Sensors are active-sensing: Sensing
// means liquid is at or above the switch, NotSensing means it is below.
// Debouncing and electrical polarity are the implementation's concern, not
// the Station's.
type Sensor interface {
	Reading() Reading
}

// Dispenser is the pump or solenoid actuator that moves liquid from
// reservoir to main tank. Start and Stop are idempotent; Status must
// reflect the last successfully issued command.
type Dispenser interface {
	Start() error
	Stop() error
	Status() DispenserStatus
}

// SettingsStore persists and loads the station's two tunables.
type SettingsStore interface {
	// Load returns the persisted settings if a valid record exists,
	// otherwise returns defaults. Persistence failure is indistinguishable
	// from "no record" to the caller: both result in defaults.
	Load(defaults Settings) Settings
	// Save persists s. Failure is best-effort and not surfaced to the
	// station; the station continues to operate on in-memory settings.
	Save(s Settings)
}

// AlarmEvent identifies which alarm condition an AlarmSink is being told
// about.
type AlarmEvent int

const (
	// ReservoirLowEvent is raised on entering StateReservoirLow.
	ReservoirLowEvent AlarmEvent = iota
	// InvalidEvent is raised on entering StateInvalid.
	InvalidEvent
)

func (e AlarmEvent) String() string {
	switch e {
	case ReservoirLowEvent:
		return "ReservoirLow"
	case InvalidEvent:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// AlarmSink receives edge-triggered alarm notifications. The Station calls
// Raise on the transition into an alarm state and Clear on the transition
// out of one; it never calls Raise repeatedly while already in the alarm
// state.
type AlarmSink interface {
	Raise(event AlarmEvent)
	Clear()
}
