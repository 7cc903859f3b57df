// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcd implements station.AlarmSink by annunciating alarms on a
// character display, adapting the HD44780 driver copied into this
// module as a physical alarm indicator.
package lcd

import (
	"fmt"

	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/ato-station/station"
)

// Sink writes alarm state to a display.TextDisplay, such as this
// module's hd44780.HD44780. Raise writes the alarm message from the home
// position; Clear blanks the whole display.
type Sink struct {
	display display.TextDisplay
}

// New returns a Sink that annunciates on display. The display is
// cleared immediately.
func New(d display.TextDisplay) *Sink {
	s := &Sink{display: d}
	_ = d.Clear()
	return s
}

// Raise implements station.AlarmSink by writing the alarm message to
// the display.
func (s *Sink) Raise(event station.AlarmEvent) {
	_ = s.display.Clear()
	_ = s.display.Home()
	line := fmt.Sprintf("ALARM: %s", event)
	if max := s.display.Cols(); len(line) > max {
		line = line[:max]
	}
	_, _ = s.display.WriteString(line)
}

// Clear implements station.AlarmSink by blanking the display.
func (s *Sink) Clear() {
	_ = s.display.Clear()
}
