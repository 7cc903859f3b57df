// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package station

import "errors"

// DefaultMaxDispensingDurationMs is the implementer-chosen safe default for
// how long a single continuous dispense may run: 10 minutes.
const DefaultMaxDispensingDurationMs uint32 = 10 * 60 * 1000

// DefaultMinDispensingIntervalMs is the implementer-chosen safe default for
// the minimum elapsed time between the end of one dispense and the start of
// the next: 60 minutes.
const DefaultMinDispensingIntervalMs uint32 = 60 * 60 * 1000

// DefaultSettings returns the first-boot defaults named in §3 of the
// specification.
func DefaultSettings() Settings {
	return Settings{
		MaxDispensingDurationMs: DefaultMaxDispensingDurationMs,
		MinDispensingIntervalMs: DefaultMinDispensingIntervalMs,
	}
}

// Settings holds the station's two persisted tunables. Both are wall-clock
// durations in milliseconds. Settings is never mutated by the station
// itself outside of ApplySettings; it is loaded once at Setup and
// thereafter only changes via an explicit ApplySettings command.
type Settings struct {
	// MaxDispensingDurationMs bounds a single continuous dispense.
	MaxDispensingDurationMs uint32
	// MinDispensingIntervalMs bounds the time between the end of one
	// dispense and the start of the next.
	MinDispensingIntervalMs uint32
}

// ErrInvalidMaxDuration is returned by ApplySettings when
// MaxDispensingDurationMs is not strictly positive.
var ErrInvalidMaxDuration = errors.New("station: max dispensing duration must be greater than zero")

// Validate checks the settings against §4.5's apply_settings validation
// rule: max_dispensing_duration_ms > 0, min_dispensing_interval_ms >= 0.
// The second bound is trivially satisfied by the unsigned type, so only the
// first is actually checked.
func (s Settings) Validate() error {
	if s.MaxDispensingDurationMs == 0 {
		return ErrInvalidMaxDuration
	}
	return nil
}
