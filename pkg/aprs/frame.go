// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package aprs

import (
	"fmt"
	"strings"
	"time"
)

// AX.25 UI frame fields following the address block.
const (
	controlUI = 0x03
	pidNoL3   = 0xF0

	addressLen   = 7 // 6 shifted callsign bytes + 1 SSID byte
	maxAddresses = 10
)

// DecodeFrame parses an AX.25 UI frame (without flags or FCS) into a
// Record. The address block is a sequence of 7-byte fields, callsign
// characters shifted left one bit, the low bit of the final SSID byte
// marking the end of the block. Control and PID must be the UI/no-L3
// values APRS uses.
func DecodeFrame(frame []byte, receivedAt time.Time) (*Record, error) {
	rec := &Record{ReceivedAt: receivedAt}

	offset := 0
	for {
		if offset+addressLen > len(frame) {
			return nil, fmt.Errorf("truncated address block at byte %d", offset)
		}
		if len(rec.Addresses) == maxAddresses {
			return nil, fmt.Errorf("address block exceeds %d entries", maxAddresses)
		}

		field := frame[offset : offset+addressLen]
		addr, err := decodeAddress(field)
		if err != nil {
			return nil, fmt.Errorf("address %d: %w", len(rec.Addresses), err)
		}
		rec.Addresses = append(rec.Addresses, addr)
		offset += addressLen

		if field[CallsignLen]&0x01 != 0 { // end-of-address bit
			break
		}
	}
	if len(rec.Addresses) < 2 {
		return nil, fmt.Errorf("address block has %d entries, need destination and source", len(rec.Addresses))
	}

	if offset+2 > len(frame) {
		return nil, fmt.Errorf("frame ends before control and PID")
	}
	if frame[offset] != controlUI {
		return nil, fmt.Errorf("control byte 0x%02X, want UI (0x%02X)", frame[offset], controlUI)
	}
	if frame[offset+1] != pidNoL3 {
		return nil, fmt.Errorf("PID byte 0x%02X, want 0x%02X", frame[offset+1], pidNoL3)
	}
	offset += 2

	rec.Payload = append([]byte(nil), frame[offset:]...)
	return rec, nil
}

func decodeAddress(field []byte) (Address, error) {
	var sb strings.Builder
	for _, b := range field[:CallsignLen] {
		if b&0x01 != 0 {
			return Address{}, fmt.Errorf("callsign byte 0x%02X has low bit set", b)
		}
		c := b >> 1
		if c == ' ' {
			break
		}
		sb.WriteByte(c)
	}
	if sb.Len() == 0 {
		return Address{}, fmt.Errorf("empty callsign")
	}
	return Address{
		Callsign: sb.String(),
		SSID:     (field[CallsignLen] >> 1) & 0x0F,
	}, nil
}
