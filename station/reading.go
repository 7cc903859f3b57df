// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package station

// Reading is the two-valued datum reported by a liquid-level sensor. There
// is no intermediate or unknown value; an unattached sensor slot is
// represented at the Station level, not by a third Reading value.
type Reading bool

const (
	// NotSensing means the liquid is below the switch.
	NotSensing Reading = false
	// Sensing means the liquid is at or above the switch.
	Sensing Reading = true
)

func (r Reading) String() string {
	if r == Sensing {
		return "Sensing"
	}
	return "NotSensing"
}

// DispenserStatus is the two-valued actuator state a Dispenser reports back.
type DispenserStatus bool

const (
	// NotDispensing means the dispenser is off.
	NotDispensing DispenserStatus = false
	// Dispensing means the dispenser is actively running.
	Dispensing DispenserStatus = true
)

func (s DispenserStatus) String() string {
	if s == Dispensing {
		return "Dispensing"
	}
	return "NotDispensing"
}
