// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package station

// elapsed returns (now - anchor) mod 2^32, the correct way to measure a
// duration between two wrapping millisecond counters. Callers MUST NOT use
// signed subtraction: now and anchor are both uint32 and may have wrapped
// independently, and Go's unsigned subtraction already wraps modulo 2^32,
// which is exactly the arithmetic the spec requires.
func elapsed(now, anchor uint32) uint32 {
	return now - anchor
}

// atLeast reports whether the elapsed time since anchor is at least d,
// i.e. elapsed(now, anchor) >= d. Correct across a single wrap provided d
// does not exceed 2^31ms (~24.8 days), per the spec's time-arithmetic note.
func atLeast(now, anchor, d uint32) bool {
	return elapsed(now, anchor) >= d
}
