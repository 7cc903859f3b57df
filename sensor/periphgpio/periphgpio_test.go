// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package periphgpio_test

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/ato-station/sensor/periphgpio"
	"github.com/GermanBionicSystems/ato-station/station"
)

// fakePin is a minimal gpio.PinIO test double, the same role
// i2ctest.Playback plays for I2C devices in the teacher's own tests.
type fakePin struct {
	level gpio.Level
}

func (p *fakePin) Name() string                          { return "FAKE" }
func (p *fakePin) Number() int                            { return 0 }
func (p *fakePin) String() string                         { return "FAKE" }
func (p *fakePin) Function() string                       { return "In/Out" }
func (p *fakePin) Halt() error                            { return nil }
func (p *fakePin) In(gpio.Pull, gpio.Edge) error           { return nil }
func (p *fakePin) Read() gpio.Level                        { return p.level }
func (p *fakePin) WaitForEdge(time.Duration) bool          { return false }
func (p *fakePin) Pull() gpio.Pull                         { return gpio.Float }
func (p *fakePin) DefaultPull() gpio.Pull                  { return gpio.Float }
func (p *fakePin) Out(l gpio.Level) error                  { p.level = l; return nil }
func (p *fakePin) PWM(gpio.Duty, physic.Frequency) error   { return nil }

func TestReadingActiveHigh(t *testing.T) {
	pin := &fakePin{level: gpio.High}
	s, err := periphgpio.New(pin, false)
	if err != nil {
		t.Fatal(err)
	}
	if s.Reading() != station.Sensing {
		t.Fatal("expected Sensing for High with activeLow=false")
	}

	pin.level = gpio.Low
	if s.Reading() != station.NotSensing {
		t.Fatal("expected NotSensing for Low with activeLow=false")
	}
}

func TestReadingActiveLow(t *testing.T) {
	pin := &fakePin{level: gpio.Low}
	s, err := periphgpio.New(pin, true)
	if err != nil {
		t.Fatal(err)
	}
	if s.Reading() != station.Sensing {
		t.Fatal("expected Sensing for Low with activeLow=true")
	}

	pin.level = gpio.High
	if s.Reading() != station.NotSensing {
		t.Fatal("expected NotSensing for High with activeLow=true")
	}
}
