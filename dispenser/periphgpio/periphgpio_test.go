// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package periphgpio_test

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/ato-station/dispenser/periphgpio"
	"github.com/GermanBionicSystems/ato-station/station"
)

type fakePin struct {
	level gpio.Level
}

func (p *fakePin) Name() string                        { return "FAKE" }
func (p *fakePin) Number() int                          { return 0 }
func (p *fakePin) String() string                       { return "FAKE" }
func (p *fakePin) Function() string                     { return "In/Out" }
func (p *fakePin) Halt() error                          { return nil }
func (p *fakePin) In(gpio.Pull, gpio.Edge) error         { return nil }
func (p *fakePin) Read() gpio.Level                      { return p.level }
func (p *fakePin) WaitForEdge(time.Duration) bool        { return false }
func (p *fakePin) Pull() gpio.Pull                       { return gpio.Float }
func (p *fakePin) DefaultPull() gpio.Pull                { return gpio.Float }
func (p *fakePin) Out(l gpio.Level) error                { p.level = l; return nil }
func (p *fakePin) PWM(gpio.Duty, physic.Frequency) error { return nil }

func TestStartStopActiveHigh(t *testing.T) {
	pin := &fakePin{}
	d, err := periphgpio.New(pin, false)
	if err != nil {
		t.Fatal(err)
	}
	if d.Status() != station.NotDispensing || pin.level != gpio.Low {
		t.Fatal("expected off after construction")
	}

	if err := d.Start(); err != nil {
		t.Fatal(err)
	}
	if d.Status() != station.Dispensing || pin.level != gpio.High {
		t.Fatal("expected on after Start")
	}

	if err := d.Stop(); err != nil {
		t.Fatal(err)
	}
	if d.Status() != station.NotDispensing || pin.level != gpio.Low {
		t.Fatal("expected off after Stop")
	}
}

func TestStartStopActiveLow(t *testing.T) {
	pin := &fakePin{}
	d, err := periphgpio.New(pin, true)
	if err != nil {
		t.Fatal(err)
	}
	if pin.level != gpio.High {
		t.Fatal("expected pin High (de-energized) after construction with activeLow")
	}

	if err := d.Start(); err != nil {
		t.Fatal(err)
	}
	if pin.level != gpio.Low {
		t.Fatal("expected pin Low (energized) after Start with activeLow")
	}
}
