// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package periphgpio adapts a periph.io/x/conn/v3/gpio input pin to a
// station.Sensor, the way the teacher's tca95xx and pcf857x packages wrap
// a device-specific pin behind periph.io/x/conn/v3/gpio.PinIO.
package periphgpio

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/ato-station/station"
)

// Sensor adapts a gpio.PinIn to station.Sensor. activeLow inverts the
// wiring: when true, gpio.Low is reported as station.Sensing.
type Sensor struct {
	pin       gpio.PinIn
	activeLow bool
}

// New configures pin as a floating input with no edge detection (the
// station polls on its own tick cadence, it does not need interrupts) and
// returns a Sensor backed by it.
func New(pin gpio.PinIn, activeLow bool) (*Sensor, error) {
	if err := pin.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, err
	}
	return &Sensor{pin: pin, activeLow: activeLow}, nil
}

// Reading implements station.Sensor.
func (s *Sensor) Reading() station.Reading {
	sensing := s.pin.Read() == gpio.High
	if s.activeLow {
		sensing = !sensing
	}
	if sensing {
		return station.Sensing
	}
	return station.NotSensing
}
