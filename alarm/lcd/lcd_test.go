// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lcd_test

import (
	"strings"
	"testing"

	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/ato-station/alarm/lcd"
	"github.com/GermanBionicSystems/ato-station/station"
)

// fakeDisplay implements display.TextDisplay for testing, recording
// what was written and how many times Clear was called.
type fakeDisplay struct {
	cols       int
	rows       int
	clearCalls int
	written    string
}

func (f *fakeDisplay) Halt() error { return nil }

func (f *fakeDisplay) AutoScroll(enabled bool) error { return display.ErrNotImplemented }

func (f *fakeDisplay) Clear() error {
	f.clearCalls++
	f.written = ""
	return nil
}

func (f *fakeDisplay) Cols() int { return f.cols }

func (f *fakeDisplay) Rows() int { return f.rows }

func (f *fakeDisplay) Cursor(modes ...display.CursorMode) error { return nil }

func (f *fakeDisplay) Home() error { return nil }

func (f *fakeDisplay) MinCol() int { return 1 }

func (f *fakeDisplay) MinRow() int { return 1 }

func (f *fakeDisplay) Move(dir display.CursorDirection) error { return nil }

func (f *fakeDisplay) MoveTo(row, col int) error { return nil }

func (f *fakeDisplay) String() string { return "fakeDisplay" }

func (f *fakeDisplay) Display(on bool) error { return nil }

func (f *fakeDisplay) Write(p []byte) (int, error) {
	f.written += string(p)
	return len(p), nil
}

func (f *fakeDisplay) WriteString(text string) (int, error) {
	f.written += text
	return len(text), nil
}

var _ display.TextDisplay = &fakeDisplay{}

func TestRaiseWritesEventToDisplay(t *testing.T) {
	fake := &fakeDisplay{cols: 16, rows: 2}
	sink := lcd.New(fake)
	clearsAfterNew := fake.clearCalls

	sink.Raise(station.ReservoirLowEvent)

	if !strings.Contains(fake.written, "ReservoirLow") {
		t.Fatalf("display contents %q do not mention the event", fake.written)
	}
	if fake.clearCalls <= clearsAfterNew {
		t.Fatalf("expected Raise to clear the display first")
	}
}

func TestRaiseTruncatesToDisplayWidth(t *testing.T) {
	fake := &fakeDisplay{cols: 4, rows: 1}
	sink := lcd.New(fake)

	sink.Raise(station.InvalidEvent)

	if len(fake.written) > 4 {
		t.Fatalf("written text %q exceeds display width of 4", fake.written)
	}
}

func TestClearBlanksDisplay(t *testing.T) {
	fake := &fakeDisplay{cols: 16, rows: 2}
	sink := lcd.New(fake)
	fake.written = "stale"

	sink.Clear()

	if fake.written != "" {
		t.Fatalf("expected display to be blanked, got %q", fake.written)
	}
}
