// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package firmata adapts a digital output pin on a Firmata-speaking
// microcontroller to a station.Dispenser, driving a pump or solenoid
// relay through the microcontroller's digital I/O.
package firmata

import (
	"periph.io/x/conn/v3/gpio"

	atofirmata "github.com/GermanBionicSystems/ato-station/firmata"
	"github.com/GermanBionicSystems/ato-station/station"
)

// Dispenser adapts a Firmata digital output pin to station.Dispenser.
type Dispenser struct {
	client    atofirmata.ClientI
	pin       uint8
	activeLow bool
	status    station.DispenserStatus
}

// New configures pin as a digital output on client and forces it off.
func New(client atofirmata.ClientI, pin uint8, activeLow bool) (*Dispenser, error) {
	if err := client.SetPinMode(pin, atofirmata.PinFuncDigitalOutput); err != nil {
		return nil, err
	}
	d := &Dispenser{client: client, pin: pin, activeLow: activeLow}
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
	if err := d.client.SetDigitalPinValue(d.pin, level); err != nil {
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
