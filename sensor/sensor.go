// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sensor re-exports the station package's Sensor collaborator
// interface and gathers its concrete backends as subpackages
// (periphgpio, gpiod, firmata).
package sensor

import "github.com/GermanBionicSystems/ato-station/station"

// Sensor is a liquid-level switch, see station.Sensor.
type Sensor = station.Sensor
