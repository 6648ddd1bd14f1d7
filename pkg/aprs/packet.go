// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

// Package aprs holds received APRS packet records and the arrival-ordered
// store that owns them while an operating mode is active. Frame decoding
// covers the AX.25 UI frames APRS rides on; anything beyond the address
// block and information field is left to higher layers.
package aprs

import (
	"fmt"
	"strings"
	"time"
)

// CallsignLen is the fixed width of an AX.25 callsign field.
const CallsignLen = 6

// Address is one entry of a packet's address path: destination, source,
// then any digipeaters, in wire order.
type Address struct {
	Callsign string // up to CallsignLen characters, no padding
	SSID     uint8  // 0-15 sub-station identifier
}

// String renders the address in the usual CALL-N form. A zero SSID is
// conventionally not shown.
func (a Address) String() string {
	if a.SSID == 0 {
		return a.Callsign
	}
	return fmt.Sprintf("%s-%d", a.Callsign, a.SSID)
}

// Record is one received packet: its address path, the raw information
// field, and the reception timestamp. Records are owned by at most one
// Store at a time.
type Record struct {
	Addresses  []Address
	Payload    []byte
	ReceivedAt time.Time
}

// Source returns the source address, when present. APRS address blocks
// put the destination first and the source second.
func (r *Record) Source() (Address, bool) {
	if len(r.Addresses) < 2 {
		return Address{}, false
	}
	return r.Addresses[1], true
}

// String renders the record as "SRC>DST,PATH:payload" for logs and UIs.
func (r *Record) String() string {
	var b strings.Builder
	if src, ok := r.Source(); ok {
		b.WriteString(src.String())
		b.WriteByte('>')
		b.WriteString(r.Addresses[0].String())
		for _, via := range r.Addresses[2:] {
			b.WriteByte(',')
			b.WriteString(via.String())
		}
	}
	b.WriteByte(':')
	b.Write(r.Payload)
	return b.String()
}
