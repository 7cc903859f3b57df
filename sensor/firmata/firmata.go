// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package firmata adapts a digital input pin on a Firmata-speaking
// microcontroller (an Arduino-class board attached over USB/serial) to a
// station.Sensor, using this module's own firmata package
// (periph.io/x/devices/v3/firmata in the teacher). This is distinct from
// the excluded "Arduino host shim": all station decision logic stays on
// the host running this package; the microcontroller is only ever a
// digital-I/O transport.
package firmata

import (
	"sync"

	"periph.io/x/conn/v3/gpio"

	atofirmata "github.com/GermanBionicSystems/ato-station/firmata"
	"github.com/GermanBionicSystems/ato-station/station"
)

// Sensor adapts a Firmata digital input pin to station.Sensor. The pin's
// level is tracked in the background via the client's digital I/O message
// listener, matching the asynchronous nature of the Firmata protocol.
type Sensor struct {
	release   func()
	activeLow bool

	mu    sync.Mutex
	level gpio.Level
}

// New configures pin as a digital input on client, enables change
// reporting for it, and begins tracking its level in the background.
func New(client atofirmata.ClientI, pin uint8, activeLow bool) (*Sensor, error) {
	if err := client.SetPinMode(pin, atofirmata.PinFuncDigitalInput); err != nil {
		return nil, err
	}
	if err := client.SetDigitalPinReporting(pin, true); err != nil {
		return nil, err
	}
	ch := make(chan gpio.Level)
	release, err := client.SetDigitalIOMessageListener(pin, ch)
	if err != nil {
		return nil, err
	}
	s := &Sensor{release: release, activeLow: activeLow}
	go s.watch(ch)
	return s, nil
}

func (s *Sensor) watch(ch chan gpio.Level) {
	for level := range ch {
		s.mu.Lock()
		s.level = level
		s.mu.Unlock()
	}
}

// Reading implements station.Sensor.
func (s *Sensor) Reading() station.Reading {
	s.mu.Lock()
	level := s.level
	s.mu.Unlock()

	sensing := level == gpio.High
	if s.activeLow {
		sensing = !sensing
	}
	if sensing {
		return station.Sensing
	}
	return station.NotSensing
}

// Close stops tracking the pin's level.
func (s *Sensor) Close() {
	if s.release != nil {
		s.release()
	}
}
