// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dispenser re-exports the station package's Dispenser
// collaborator interface and gathers its concrete backends as
// subpackages (periphgpio, gpiod, firmata).
package dispenser

import "github.com/GermanBionicSystems/ato-station/station"

// Dispenser is the pump or solenoid actuator, see station.Dispenser.
type Dispenser = station.Dispenser
