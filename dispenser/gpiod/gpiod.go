// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpiod adapts a Linux /dev/gpiochip* output line, driven via
// github.com/warthog618/gpiod, to a station.Dispenser. Grounded on
// aleFerri99-device-gpiod's gpio.GPIO.Up/Down, which request and drive an
// output line the same way.
package gpiod

import (
	"github.com/warthog618/gpiod"

	"github.com/GermanBionicSystems/ato-station/station"
)

// Dispenser adapts a requested gpiod output line to station.Dispenser.
type Dispenser struct {
	line      *gpiod.Line
	activeLow bool
	status    station.DispenserStatus
}

// New requests chip/offset as an output line, initially off, and returns a
// Dispenser backed by it. The caller is responsible for calling Close when
// done.
func New(chip string, offset int, activeLow bool) (*Dispenser, error) {
	initial := 0
	if activeLow {
		initial = 1
	}
	line, err := gpiod.RequestLine(chip, offset, gpiod.AsOutput(initial))
	if err != nil {
		return nil, err
	}
	return &Dispenser{line: line, activeLow: activeLow, status: station.NotDispensing}, nil
}

func (d *Dispenser) set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if d.activeLow {
		v = 1 - v
	}
	if err := d.line.SetValue(v); err != nil {
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

// Close releases the underlying gpiod line.
func (d *Dispenser) Close() error {
	return d.line.Close()
}
