// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package logsink implements station.AlarmSink by writing to a
// *log.Logger, in the same vein as lirc and sgp30 report unexpected
// conditions via the stdlib log package.
package logsink

import (
	"log"
	"os"

	"github.com/GermanBionicSystems/ato-station/station"
)

// Sink logs Raise/Clear transitions. The zero value is not usable; use
// New.
type Sink struct {
	logger *log.Logger
}

// New returns a Sink that writes through logger. If logger is nil, a new
// logger writing to os.Stderr with log.LstdFlags is used.
func New(logger *log.Logger) *Sink {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Sink{logger: logger}
}

// Raise implements station.AlarmSink.
func (s *Sink) Raise(event station.AlarmEvent) {
	s.logger.Printf("ato: alarm raised: %s", event)
}

// Clear implements station.AlarmSink.
func (s *Sink) Clear() {
	s.logger.Printf("ato: alarm cleared")
}
