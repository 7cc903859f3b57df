// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package station_test

import (
	"testing"

	"github.com/GermanBionicSystems/ato-station/internal/fakes"
	"github.com/GermanBionicSystems/ato-station/station"
)

// tMin and tMax are the default settings' min interval and max duration.
const (
	tMin = station.DefaultMinDispensingIntervalMs
	tMax = 600000
)

type harness struct {
	st         *station.Station
	main       *fakes.Sensor
	reservoir  *fakes.Sensor
	backupHigh *fakes.Sensor
	backupLow  *fakes.Sensor
	dispenser  *fakes.Dispenser
	store      *fakes.SettingsStore
	alarm      *fakes.AlarmSink
}

// newHarness builds a Station with all four sensors attached and default
// settings, matching the original test's beforeTest() fixture: main and
// reservoir sensing, backup-high not sensing, backup-low sensing (i.e. all
// "normal" readings), dispenser stopped.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		main:       fakes.NewSensor(),
		reservoir:  fakes.NewSensor(),
		backupHigh: fakes.NewSensor(),
		backupLow:  fakes.NewSensor(),
		dispenser:  fakes.NewDispenser(),
		store:      fakes.NewSettingsStore(),
		alarm:      fakes.NewAlarmSink(),
	}
	h.backupHigh.MockNotSensing()
	h.st = station.New(h.dispenser, h.store, h.alarm)
	h.st.AttachMain(h.main)
	h.st.AttachReservoirLow(h.reservoir)
	h.st.AttachBackupHigh(h.backupHigh)
	h.st.AttachBackupLow(h.backupLow)
	h.st.Setup()
	// Setup emits one clear(); count alarm events from here on.
	h.alarm.ClearCalls = 0
	return h
}

func requireState(t *testing.T, st *station.Station, want station.StationState) {
	t.Helper()
	if got := st.State(); got != want {
		t.Fatalf("state = %s, want %s", got, want)
	}
}

// --- S1/S2/S3/S4: main demand, satisfaction, runaway guard, refill ---

func TestFirstDispense(t *testing.T) {
	h := newHarness(t)
	h.main.MockNotSensing()
	h.st.Tick(tMin + 1)

	requireState(t, h.st, station.StateDispensing)
	if h.dispenser.Status() != station.Dispensing {
		t.Fatal("dispenser should be on")
	}
}

func TestSatisfiedStopsDispensing(t *testing.T) {
	h := newHarness(t)
	h.main.MockNotSensing()
	h.st.Tick(tMin + 1)
	requireState(t, h.st, station.StateDispensing)

	h.main.MockSensing()
	h.st.Tick(tMin + 100)

	requireState(t, h.st, station.StateSensing)
	if h.dispenser.Status() != station.NotDispensing {
		t.Fatal("dispenser should be off")
	}
}

func TestRunawayGuardTripsReservoirLow(t *testing.T) {
	h := newHarness(t)
	h.main.MockNotSensing()
	h.st.Tick(tMin + 1)
	requireState(t, h.st, station.StateDispensing)

	// main never satisfied; let max duration elapse.
	h.st.Tick(tMin + 1 + tMax)

	requireState(t, h.st, station.StateReservoirLow)
	if h.dispenser.Status() != station.NotDispensing {
		t.Fatal("dispenser should be off after runaway guard trips")
	}
	if !h.alarm.Active() {
		t.Fatal("alarm should be active")
	}
}

func TestReservoirRefillClearsAlarm(t *testing.T) {
	h := newHarness(t)
	h.main.MockNotSensing()
	h.st.Tick(tMin + 1)
	h.st.Tick(tMin + 1 + tMax)
	requireState(t, h.st, station.StateReservoirLow)

	h.main.MockSensing()
	h.reservoir.MockSensing()
	h.st.Tick(tMin + 2 + tMax)

	requireState(t, h.st, station.StateSensing)
	if h.alarm.Active() {
		t.Fatal("alarm should be cleared on refill")
	}
}

// --- S5: overflow lockout ---

func TestOverflowLockout(t *testing.T) {
	h := newHarness(t)
	h.main.MockSensing()
	h.backupHigh.MockSensing()
	h.st.Tick(1)

	requireState(t, h.st, station.StateInvalid)
	if h.dispenser.Status() != station.NotDispensing {
		t.Fatal("dispenser should be off")
	}
	if !h.alarm.Active() {
		t.Fatal("alarm should be active")
	}

	// Corrected sensors don't escape Invalid on their own.
	h.backupHigh.MockNotSensing()
	h.st.Tick(2)
	requireState(t, h.st, station.StateInvalid)

	h.st.Reset()
	h.st.Tick(3)
	requireState(t, h.st, station.StateSensing)
}

func TestMainStuckHighWithDryBackupLowIsInvalid(t *testing.T) {
	h := newHarness(t)
	h.main.MockSensing()
	h.backupLow.MockNotSensing()
	h.st.Tick(1)

	requireState(t, h.st, station.StateInvalid)
}

// --- S6: sleep window ---

func TestSleepWindow(t *testing.T) {
	h := newHarness(t)
	h.st.Tick(1000000)
	h.st.Sleep(32)

	requireState(t, h.st, station.StateSleeping)
	if h.dispenser.Status() != station.NotDispensing {
		t.Fatal("dispenser should be stopped on sleep")
	}

	h.st.Tick(2919999)
	requireState(t, h.st, station.StateSleeping)

	h.st.Tick(2920000)
	requireState(t, h.st, station.StateSensing)
}

func TestSleepThenWakeIsNoOpOnTransitions(t *testing.T) {
	h := newHarness(t)
	h.st.Tick(5)
	h.st.Sleep(32)
	requireState(t, h.st, station.StateSleeping)

	h.st.Wake()
	requireState(t, h.st, station.StateSensing)
}

func TestSleepZeroWakesNextTick(t *testing.T) {
	h := newHarness(t)
	h.st.Tick(10)
	h.st.Sleep(0)
	requireState(t, h.st, station.StateSleeping)

	h.st.Tick(10)
	requireState(t, h.st, station.StateSensing)
}

// --- I4: main unattached ---

func TestNoMainSensorForcesInvalid(t *testing.T) {
	dispenser := fakes.NewDispenser()
	store := fakes.NewSettingsStore()
	alarm := fakes.NewAlarmSink()
	st := station.New(dispenser, store, alarm)
	st.Setup()

	st.Tick(1)

	requireState(t, st, station.StateInvalid)
}

// --- I5 / min interval gating ---

// Before any dispense has ever ended, I5 must not block demand no matter
// how small now is: Setup anchors last_dispense_end_ms on the first Tick's
// own now, so a boot-time demand is never artificially delayed.
func TestFirstDispenseNotDelayedAtBoot(t *testing.T) {
	h := newHarness(t)
	h.main.MockNotSensing()
	h.st.Tick(5)

	requireState(t, h.st, station.StateDispensing)
}

func TestDispenseAtExactlyMinInterval(t *testing.T) {
	h := newHarness(t)
	h.main.MockNotSensing()
	h.st.Tick(tMin)

	requireState(t, h.st, station.StateDispensing)
}

// --- backup-low demand path ---

func TestBackupLowDemandWithMainSensingIsInvalid(t *testing.T) {
	h := newHarness(t)
	h.main.MockSensing()
	h.backupLow.MockNotSensing()
	// Main sensing with backup-low inactive is exactly the sanity-gate
	// violation (main stuck high while the tank floor is dry), so the
	// backup-low demand yields Invalid here instead of a dispense.
	h.st.Tick(1)
	requireState(t, h.st, station.StateInvalid)
}

// --- no-reservoir-sensor fallback path (rule 5) ---

func TestNoReservoirSensorFallsBackToMainAndBackupLow(t *testing.T) {
	dispenser := fakes.NewDispenser()
	store := fakes.NewSettingsStore()
	alarm := fakes.NewAlarmSink()
	st := station.New(dispenser, store, alarm)
	main := fakes.NewSensor()
	backupLow := fakes.NewSensor()
	st.AttachMain(main)
	st.AttachBackupLow(backupLow)
	st.Setup()
	// Setup emits one clear(); count alarm events from here on.
	alarm.ClearCalls = 0

	main.MockNotSensing()
	backupLow.MockNotSensing()
	st.Tick(1)

	requireState(t, st, station.StateReservoirLow)
	if !alarm.Active() {
		t.Fatal("alarm should be active")
	}
}

// --- P1: dispenser status mirrors state ---

func TestDispenserStatusMirrorsState(t *testing.T) {
	h := newHarness(t)
	h.main.MockNotSensing()
	h.st.Tick(tMin + 1)
	if (h.st.State() == station.StateDispensing) != (h.dispenser.Status() == station.Dispensing) {
		t.Fatal("P1 violated: state/dispenser status disagree")
	}

	h.main.MockSensing()
	h.st.Tick(tMin + 2)
	if (h.st.State() == station.StateDispensing) != (h.dispenser.Status() == station.Dispensing) {
		t.Fatal("P1 violated: state/dispenser status disagree")
	}
}

// --- P3: minimum interval between consecutive dispenses ---

func TestMinIntervalBetweenDispenses(t *testing.T) {
	h := newHarness(t)
	h.main.MockNotSensing()
	h.st.Tick(tMin + 1)
	requireState(t, h.st, station.StateDispensing)

	h.main.MockSensing()
	h.st.Tick(tMin + 50)
	requireState(t, h.st, station.StateSensing)
	firstEnd := uint32(tMin + 50)

	h.main.MockNotSensing()
	// Exactly one millisecond short of the interval: must not redispense.
	h.st.Tick(firstEnd + tMin - 1)
	requireState(t, h.st, station.StateSensing)

	h.st.Tick(firstEnd + tMin)
	requireState(t, h.st, station.StateDispensing)
}

// --- P4: maximum dispense duration ---

func TestMaxDispenseDurationUpperBound(t *testing.T) {
	h := newHarness(t)
	h.main.MockNotSensing()
	h.st.Tick(tMin + 1)

	h.st.Tick(tMin + 1 + tMax - 1)
	requireState(t, h.st, station.StateDispensing)

	h.st.Tick(tMin + 1 + tMax)
	requireState(t, h.st, station.StateReservoirLow)
}

// --- P2: raise/clear stay net 1 across a ReservoirLow -> Invalid transition ---

func TestReservoirLowToInvalidClearsBeforeRaising(t *testing.T) {
	h := newHarness(t)
	h.main.MockNotSensing()
	h.st.Tick(tMin + 1)
	h.st.Tick(tMin + 1 + tMax)
	requireState(t, h.st, station.StateReservoirLow)
	if len(h.alarm.Raises) != 1 || h.alarm.ClearCalls != 0 {
		t.Fatalf("entering ReservoirLow: raises=%d clears=%d, want 1 raise and 0 clears", len(h.alarm.Raises), h.alarm.ClearCalls)
	}

	// The sanity gate (backup-high) trips while still in ReservoirLow: the
	// alarm being left must be cleared before the new one is raised.
	h.backupHigh.MockSensing()
	h.st.Tick(tMin + 2 + tMax)

	requireState(t, h.st, station.StateInvalid)
	if len(h.alarm.Raises) != 2 || h.alarm.ClearCalls != 1 {
		t.Fatalf("P2 violated: raises=%d clears=%d, want 2 raises and 1 clear", len(h.alarm.Raises), h.alarm.ClearCalls)
	}
}

// --- P5: Invalid escapes only via Reset ---

func TestInvalidOnlyEscapesViaReset(t *testing.T) {
	h := newHarness(t)
	h.main.MockSensing()
	h.backupHigh.MockSensing()
	h.st.Tick(1)
	requireState(t, h.st, station.StateInvalid)

	h.st.Wake()
	requireState(t, h.st, station.StateInvalid)

	h.st.Sleep(5)
	requireState(t, h.st, station.StateInvalid)

	h.backupHigh.MockNotSensing()
	h.st.Tick(2)
	requireState(t, h.st, station.StateInvalid)

	h.st.Reset()
	requireState(t, h.st, station.StateSensing)
}

// --- ApplySettings validation (error kind 4) ---

func TestApplySettingsRejectsZeroMaxDuration(t *testing.T) {
	h := newHarness(t)
	before := h.st.Settings()

	err := h.st.ApplySettings(station.Settings{MaxDispensingDurationMs: 0, MinDispensingIntervalMs: 10})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if h.st.Settings() != before {
		t.Fatal("settings must be unchanged after a rejected ApplySettings")
	}
	if h.store.Saves != 0 {
		t.Fatal("rejected settings must not be persisted")
	}
}

func TestApplySettingsAdoptsValidValues(t *testing.T) {
	h := newHarness(t)
	next := station.Settings{MaxDispensingDurationMs: 5000, MinDispensingIntervalMs: 0}

	if err := h.st.ApplySettings(next); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.st.Settings() != next {
		t.Fatal("settings should be adopted")
	}
	if h.store.Saves != 1 {
		t.Fatal("settings should be persisted exactly once")
	}
}

// --- setup/lifecycle ---

func TestInvalidBeforeSetup(t *testing.T) {
	dispenser := fakes.NewDispenser()
	store := fakes.NewSettingsStore()
	st := station.New(dispenser, store, nil)
	st.AttachMain(fakes.NewSensor())

	requireState(t, st, station.StateInvalid)

	st.Setup()
	requireState(t, st, station.StateSensing)
}

func TestNilAlarmSinkIsSilentlyIgnored(t *testing.T) {
	dispenser := fakes.NewDispenser()
	store := fakes.NewSettingsStore()
	st := station.New(dispenser, store, nil)
	main := fakes.NewSensor()
	backupHigh := fakes.NewSensor()
	st.AttachMain(main)
	st.AttachBackupHigh(backupHigh)
	st.Setup()

	main.MockSensing()
	backupHigh.MockSensing()
	st.Tick(1) // must not panic despite nil alarm sink

	requireState(t, st, station.StateInvalid)
}
