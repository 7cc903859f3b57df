// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package fakes holds in-memory test doubles for the station package's
// collaborator interfaces, the Go equivalent of the original C++ test's
// MockLiquidLevelSensor, MockAtoDispenser, and MockStorage.
package fakes

import "github.com/GermanBionicSystems/ato-station/station"

// Sensor is a liquid-level sensor test double whose reading is set
// directly by the test, mirroring MockLiquidLevelSensor's
// mockIsSensing/mockIsNotSensing.
type Sensor struct {
	reading station.Reading
}

// NewSensor returns a Sensor fake initialised to Sensing.
func NewSensor() *Sensor {
	return &Sensor{reading: station.Sensing}
}

// MockSensing sets the fake to report Sensing.
func (s *Sensor) MockSensing() { s.reading = station.Sensing }

// MockNotSensing sets the fake to report NotSensing.
func (s *Sensor) MockNotSensing() { s.reading = station.NotSensing }

// Reading implements station.Sensor.
func (s *Sensor) Reading() station.Reading { return s.reading }

// Dispenser is a Dispenser test double that records the last commanded
// state, mirroring MockAtoDispenser.
type Dispenser struct {
	status     station.DispenserStatus
	StartCalls int
	StopCalls  int
}

// NewDispenser returns a Dispenser fake initialised to NotDispensing.
func NewDispenser() *Dispenser {
	return &Dispenser{status: station.NotDispensing}
}

// Start implements station.Dispenser.
func (d *Dispenser) Start() error {
	d.StartCalls++
	d.status = station.Dispensing
	return nil
}

// Stop implements station.Dispenser.
func (d *Dispenser) Stop() error {
	d.StopCalls++
	d.status = station.NotDispensing
	return nil
}

// Status implements station.Dispenser.
func (d *Dispenser) Status() station.DispenserStatus { return d.status }

// SettingsStore is a SettingsStore test double backed by an in-memory
// value, mirroring MockStorage.
type SettingsStore struct {
	saved *station.Settings
	Loads int
	Saves int
}

// NewSettingsStore returns an empty SettingsStore fake: Load returns
// whatever defaults it is given until Save is called.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

// Load implements station.SettingsStore.
func (s *SettingsStore) Load(defaults station.Settings) station.Settings {
	s.Loads++
	if s.saved != nil {
		return *s.saved
	}
	return defaults
}

// Save implements station.SettingsStore.
func (s *SettingsStore) Save(settings station.Settings) {
	s.Saves++
	saved := settings
	s.saved = &saved
}

// AlarmSink is an AlarmSink test double that counts and records raise and
// clear events.
type AlarmSink struct {
	Raises     []station.AlarmEvent
	ClearCalls int
}

// NewAlarmSink returns an empty AlarmSink fake.
func NewAlarmSink() *AlarmSink {
	return &AlarmSink{}
}

// Raise implements station.AlarmSink.
func (a *AlarmSink) Raise(event station.AlarmEvent) {
	a.Raises = append(a.Raises, event)
}

// Clear implements station.AlarmSink.
func (a *AlarmSink) Clear() {
	a.ClearCalls++
}

// Active reports whether the sink currently believes an alarm is raised,
// i.e. raises outnumber clears.
func (a *AlarmSink) Active() bool {
	return len(a.Raises) > a.ClearCalls
}
