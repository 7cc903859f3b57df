// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is a placeholder root for the Automatic Top-Off
// station module.
//
// The station itself lives in the station package; sensor, dispenser,
// settings, alarm, config and cmd/atostationd wire concrete hardware
// to it, and hd44780 supplies the character-LCD driver the alarm
// package's lcd backend adapts. See station's doc comment for the
// control core.
package devices
