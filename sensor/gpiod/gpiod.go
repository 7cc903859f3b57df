// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpiod adapts a Linux /dev/gpiochip* input line, requested via
// github.com/warthog618/gpiod, to a station.Sensor. Grounded on
// aleFerri99-device-gpiod's gpio.GPIO.ReadGpio, which requests and reads a
// line the same way.
package gpiod

import (
	"github.com/warthog618/gpiod"

	"github.com/GermanBionicSystems/ato-station/station"
)

// Sensor adapts a requested gpiod input line to station.Sensor.
type Sensor struct {
	line      *gpiod.Line
	activeLow bool
}

// New requests chip/offset as an input line and returns a Sensor backed by
// it. The caller is responsible for calling Close when done.
func New(chip string, offset int, activeLow bool) (*Sensor, error) {
	line, err := gpiod.RequestLine(chip, offset, gpiod.AsInput)
	if err != nil {
		return nil, err
	}
	return &Sensor{line: line, activeLow: activeLow}, nil
}

// Reading implements station.Sensor. A read error is treated as Sensing,
// since station.Sensor has no error channel. On the main sensor this reads
// as "no demand" and on the backup-high sensor as an overflow, both of
// which keep the dispenser off; on the reservoir-low and backup-low
// sensors it reads as their normal, non-alarm level.
func (s *Sensor) Reading() station.Reading {
	v, err := s.line.Value()
	if err != nil {
		return station.Sensing
	}
	sensing := v != 0
	if s.activeLow {
		sensing = !sensing
	}
	if sensing {
		return station.Sensing
	}
	return station.NotSensing
}

// Close releases the underlying gpiod line.
func (s *Sensor) Close() error {
	return s.line.Close()
}
