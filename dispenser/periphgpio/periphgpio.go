// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package periphgpio adapts a periph.io/x/conn/v3/gpio output pin to a
// station.Dispenser.
package periphgpio

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/ato-station/station"
)

// Dispenser adapts a gpio.PinOut to station.Dispenser, driving a pump or
// solenoid relay. activeLow inverts the wiring: when true, gpio.Low
// energizes the actuator.
type Dispenser struct {
	pin       gpio.PinOut
	activeLow bool
	status    station.DispenserStatus
}

// New sets pin to output and forces it off before returning.
func New(pin gpio.PinOut, activeLow bool) (*Dispenser, error) {
	d := &Dispenser{pin: pin, activeLow: activeLow}
	if err := d.set(false); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dispenser) set(on bool) error {
	level := gpio.Level(on)
	if d.activeLow {
		level = !level
	}
	if err := d.pin.Out(level); err != nil {
		return err
	}
	if on {
		d.status = station.Dispensing
	} else {
		d.status = station.NotDispensing
	}
	return nil
}

// Start implements station.Dispenser.
func (d *Dispenser) Start() error { return d.set(true) }

// Stop implements station.Dispenser.
func (d *Dispenser) Stop() error { return d.set(false) }

// Status implements station.Dispenser.
func (d *Dispenser) Status() station.DispenserStatus { return d.status }
