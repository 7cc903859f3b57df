// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package station implements the control core of an Automatic Top-Off
// (ATO) station: a defensive state machine that fuses up to four discrete
// liquid-level sensors and monotonic time to decide when to dispense
// replenishment liquid into an aquarium, while guarding against sensor
// disagreement, runaway pumping, and an empty reservoir.
//
// The core knows nothing about GPIO, I2C, or any particular transport: it
// is driven entirely through the Sensor, Dispenser, SettingsStore, and
// AlarmSink interfaces in this package, plus an explicit millisecond clock
// value passed into Tick. See the sibling sensor, dispenser, settings, and
// alarm packages for concrete backends.
package station

// StationState is the tagged state of a Station.
type StationState int

const (
	// StateInvalid is the safe-lockout state. It is entered on sensor
	// disagreement or a missing main sensor and escaped only by Reset.
	StateInvalid StationState = iota
	// StateSensing is the nominal idle state: watching for demand.
	StateSensing
	// StateDispensing means the dispenser is actively running.
	StateDispensing
	// StateReservoirLow is the alarm state for an exhausted reservoir.
	StateReservoirLow
	// StateSleeping means the station is deliberately paused until a
	// timer elapses or Wake is called.
	StateSleeping
)

func (s StationState) String() string {
	switch s {
	case StateInvalid:
		return "Invalid"
	case StateSensing:
		return "Sensing"
	case StateDispensing:
		return "Dispensing"
	case StateReservoirLow:
		return "ReservoirLow"
	case StateSleeping:
		return "Sleeping"
	default:
		return "Unknown"
	}
}

// Station is the ATO station state machine. A Station owns a Dispenser and
// a SettingsStore, and may have zero to four sensors attached. It starts
// in StateInvalid; Setup must be called before Tick does anything useful.
type Station struct {
	dispenser Dispenser
	store     SettingsStore
	alarm     AlarmSink

	main         Sensor
	reservoirLow Sensor
	backupHigh   Sensor
	backupLow    Sensor

	state    StationState
	settings Settings

	dispensingStartMs uint32
	lastDispenseEndMs uint32

	sleepStartMs  uint32
	sleepPeriodMs uint32

	// lastObservedMs is the now_ms of the most recent Tick call. Sleep
	// anchors sleepStartMs on it, since sleep() itself takes no clock
	// argument but must still use a sensible "now".
	lastObservedMs uint32

	// pendingIntervalAnchor is set by Setup and consumed by the first Tick
	// after it, retroactively anchoring lastDispenseEndMs on that Tick's
	// now so the first-ever dispense is never delayed by
	// min_dispensing_interval_ms regardless of what the boot-time clock
	// happens to read.
	pendingIntervalAnchor bool
}

// New returns a Station in StateInvalid, owning dispenser and store. If
// alarm is nil, alarm events are silently dropped. Sensors are attached
// separately via the Attach* methods; Setup must be called before Tick.
func New(dispenser Dispenser, store SettingsStore, alarm AlarmSink) *Station {
	return &Station{
		dispenser: dispenser,
		store:     store,
		alarm:     alarm,
		state:     StateInvalid,
	}
}

// AttachMain binds the primary level sensor. Without one attached, the
// station can never enter StateDispensing (invariant I4) and Tick forces
// StateInvalid.
func (s *Station) AttachMain(sensor Sensor) { s.main = sensor }

// AttachReservoirLow binds the reservoir-low witness sensor.
func (s *Station) AttachReservoirLow(sensor Sensor) { s.reservoirLow = sensor }

// AttachBackupHigh binds the overflow witness sensor.
func (s *Station) AttachBackupHigh(sensor Sensor) { s.backupHigh = sensor }

// AttachBackupLow binds the dry-run witness sensor.
func (s *Station) AttachBackupLow(sensor Sensor) { s.backupLow = sensor }

// State returns the station's current state.
func (s *Station) State() StationState { return s.state }

// Settings returns the station's currently adopted settings.
func (s *Station) Settings() Settings { return s.settings }

// Setup loads settings from the store, forces the dispenser off,
// initialises timing fields so that an immediate dispense is not
// artificially delayed, and transitions to StateSensing. It clears any
// alarm condition a previous run may have left raised.
func (s *Station) Setup() {
	s.settings = s.store.Load(DefaultSettings())
	_ = s.dispenser.Stop()
	s.dispensingStartMs = 0
	s.lastDispenseEndMs = 0
	s.lastObservedMs = 0
	s.pendingIntervalAnchor = true
	s.state = StateSensing
	s.clear()
}

// Sleep stops the dispenser and transitions to StateSleeping for
// minutes*60000 ms, anchored on the most recently observed Tick time.
// Accepted in any state, but a no-op in StateInvalid, which only Reset
// escapes. Sleep(0) yields an immediate wake on the next Tick.
func (s *Station) Sleep(minutes uint16) {
	if s.state == StateInvalid {
		return
	}
	_ = s.dispenser.Stop()
	s.sleepStartMs = s.lastObservedMs
	s.sleepPeriodMs = uint32(minutes) * 60 * 1000
	s.state = StateSleeping
}

// Wake leaves StateSleeping for StateSensing. No-op in any other state.
func (s *Station) Wake() {
	if s.state == StateSleeping {
		s.state = StateSensing
	}
}

// Reset leaves StateInvalid for StateSensing, the only way to do so. No-op
// in any other state.
func (s *Station) Reset() {
	if s.state == StateInvalid {
		s.state = StateSensing
		s.clear()
	}
}

// ApplySettings validates s, persists it via the settings store, and
// adopts it. On validation failure the previous settings remain in force
// and the error is returned to the caller.
func (s *Station) ApplySettings(newSettings Settings) error {
	if err := newSettings.Validate(); err != nil {
		return err
	}
	s.store.Save(newSettings)
	s.settings = newSettings
	return nil
}

// Tick is the fusion step: it reads attached sensors and decides the next
// state, driving the dispenser and alarm sink as needed. now is a
// monotonic, possibly-wrapping millisecond counter.
func (s *Station) Tick(now uint32) {
	s.lastObservedMs = now
	if s.pendingIntervalAnchor {
		s.lastDispenseEndMs = now - s.settings.MinDispensingIntervalMs
		s.pendingIntervalAnchor = false
	}

	switch s.state {
	case StateSleeping:
		if atLeast(now, s.sleepStartMs, s.sleepPeriodMs) {
			s.state = StateSensing
		}
		return
	case StateInvalid:
		return
	}

	if s.main == nil {
		// I4: the station must never dispense without a main sensor. A
		// missing main sensor is itself an invalid configuration.
		s.enterInvalid()
		return
	}

	mainSensing := s.main.Reading() == Sensing
	reservoirLowPresent := s.reservoirLow != nil && s.reservoirLow.Reading() == NotSensing
	bhiActive := s.backupHigh != nil && s.backupHigh.Reading() == Sensing
	bloInactive := s.backupLow != nil && s.backupLow.Reading() == NotSensing

	if bhiActive || (mainSensing && bloInactive) {
		s.enterInvalid()
		return
	}

	reservoirEmpty := reservoirLowPresent || (s.reservoirLow == nil && !mainSensing && bloInactive)

	if s.state == StateReservoirLow {
		if !reservoirEmpty {
			s.state = StateSensing
			s.clear()
		}
		return
	}

	if reservoirEmpty {
		s.enterReservoirLow(now)
		return
	}

	switch s.state {
	case StateDispensing:
		switch {
		case mainSensing:
			_ = s.dispenser.Stop()
			s.state = StateSensing
			s.lastDispenseEndMs = now
			s.clear()
		case atLeast(now, s.dispensingStartMs, s.settings.MaxDispensingDurationMs):
			s.enterReservoirLow(now)
		}
	case StateSensing:
		demand := !mainSensing || bloInactive
		if demand && atLeast(now, s.lastDispenseEndMs, s.settings.MinDispensingIntervalMs) && !bhiActive && !reservoirLowPresent {
			_ = s.dispenser.Start()
			s.dispensingStartMs = now
			s.state = StateDispensing
		}
	}
}

func (s *Station) enterInvalid() {
	_ = s.dispenser.Stop()
	if s.state == StateReservoirLow {
		// Leaving an alarm state for another one: clear the one being left
		// before raising the new one, so raises and clears stay net 1.
		s.clear()
	}
	s.state = StateInvalid
	s.raise(InvalidEvent)
}

func (s *Station) enterReservoirLow(now uint32) {
	_ = s.dispenser.Stop()
	s.state = StateReservoirLow
	s.lastDispenseEndMs = now
	s.raise(ReservoirLowEvent)
}

func (s *Station) raise(event AlarmEvent) {
	if s.alarm != nil {
		s.alarm.Raise(event)
	}
}

func (s *Station) clear() {
	if s.alarm != nil {
		s.alarm.Clear()
	}
}
