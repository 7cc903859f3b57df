// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package binaryfile implements station.SettingsStore as a flat binary
// file matching §6's persisted layout literally: two little-endian u32
// fields in the order {max_dispensing_duration_ms,
// min_dispensing_interval_ms}, preceded by a CRC8 sentinel computed with
// this module's own common.CRC8 (the teacher's common/crc.go, otherwise
// used for TI/Sensirion sensor checksums).
package binaryfile

import (
	"encoding/binary"
	"os"

	"github.com/GermanBionicSystems/ato-station/common"
	"github.com/GermanBionicSystems/ato-station/station"
)

const (
	payloadLen = 8
	recordLen  = 1 + payloadLen
)

// Store persists station.Settings to a flat binary file at path.
type Store struct {
	path string
}

// New returns a Store backed by the file at path. The file need not exist
// yet; Load returns the supplied defaults until the first Save.
func New(path string) *Store {
	return &Store{path: path}
}

// Load implements station.SettingsStore. A missing file, a wrong length,
// or a CRC8 mismatch are all treated identically as "no valid record":
// defaults are returned, and the caller cannot distinguish why, per §4.3.
func (s *Store) Load(defaults station.Settings) station.Settings {
	data, err := os.ReadFile(s.path)
	if err != nil || len(data) != recordLen {
		return defaults
	}
	payload := data[1:]
	if common.CRC8(payload) != data[0] {
		return defaults
	}
	return station.Settings{
		MaxDispensingDurationMs: binary.LittleEndian.Uint32(payload[0:4]),
		MinDispensingIntervalMs: binary.LittleEndian.Uint32(payload[4:8]),
	}
}

// Save implements station.SettingsStore. Write failures are best-effort
// and never surfaced to the caller (error kind 5 in §7): the station
// continues to operate on its in-memory settings regardless.
func (s *Store) Save(settings station.Settings) {
	payload := make([]byte, payloadLen)
	binary.LittleEndian.PutUint32(payload[0:4], settings.MaxDispensingDurationMs)
	binary.LittleEndian.PutUint32(payload[4:8], settings.MinDispensingIntervalMs)

	record := make([]byte, 0, recordLen)
	record = append(record, common.CRC8(payload))
	record = append(record, payload...)
	_ = os.WriteFile(s.path, record, 0o644)
}
