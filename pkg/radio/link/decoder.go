// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package link

import (
	"fmt"
	"time"
)

// Decoder implements the link protocol packet decoder state machine
type Decoder struct {
	state      int
	buffer     []byte // Unstuffed data section: length + CBOR payload
	escapeNext bool
	packet     *Packet
	rawBuffer  []byte // Accumulate raw bytes including framing
}

// NewDecoder creates a new protocol decoder
func NewDecoder() *Decoder {
	return &Decoder{
		state:     stateIdle,
		buffer:    make([]byte, 0, MaxPacketSize),
		rawBuffer: make([]byte, 0, MaxPacketSize*2),
	}
}

// Reset resets the decoder state to idle
func (d *Decoder) Reset() {
	d.state = stateIdle
	d.buffer = d.buffer[:0]
	d.escapeNext = false
	d.packet = nil
	d.rawBuffer = d.rawBuffer[:0]
}

// GetRawBytes returns the accumulated raw bytes since the last packet
func (d *Decoder) GetRawBytes() []byte {
	return d.rawBuffer
}

// DecodeByte processes a single byte through the decoder state machine.
// Returns a completed packet, or nil if the packet is incomplete.
// Returns an error if decoding fails.
func (d *Decoder) DecodeByte(b byte) (*Packet, error) {
	// Always accumulate raw bytes for verification
	d.rawBuffer = append(d.rawBuffer, b)

	// Handle byte stuffing
	if b == EscByte && !d.escapeNext {
		d.escapeNext = true
		return nil, nil
	}

	originalB := b
	if d.escapeNext {
		b ^= EscXor
		d.escapeNext = false
	} else {
		// Framing bytes are only significant unescaped
		if originalB == StartByte {
			d.Reset()
			d.rawBuffer = append(d.rawBuffer[:0], originalB)
			d.state = stateLen1
			d.packet = &Packet{}
			return nil, nil
		}

		if originalB == EndByte {
			if d.state != stateCRC2 {
				err := fmt.Errorf("unexpected END byte in state %d", d.state)
				d.Reset()
				return nil, err
			}
			packet := d.packet
			calculatedCRC := CalculateCRC(d.buffer)
			if packet.crc != calculatedCRC {
				err := fmt.Errorf("CRC mismatch: expected 0x%04X, got 0x%04X", calculatedCRC, packet.crc)
				d.Reset()
				return nil, err
			}
			packet.timestamp = time.Now()
			d.Reset()
			return packet, nil
		}
	}

	switch d.state {
	case stateIdle:
		// Waiting for START byte
		return nil, nil

	case stateLen1:
		d.packet.length = uint16(b)
		d.buffer = append(d.buffer, b)
		d.state = stateLen2
		return nil, nil

	case stateLen2:
		d.packet.length |= uint16(b) << 8
		if d.packet.length > MaxPayloadSize {
			err := fmt.Errorf("invalid length: %d (max %d)", d.packet.length, MaxPayloadSize)
			d.Reset()
			return nil, err
		}
		d.buffer = append(d.buffer, b)
		d.packet.cborPayload = make([]byte, 0, d.packet.length)
		if d.packet.length == 0 {
			d.state = stateCRC1
		} else {
			d.state = statePayload
		}
		return nil, nil

	case statePayload:
		d.packet.cborPayload = append(d.packet.cborPayload, b)
		d.buffer = append(d.buffer, b)
		if len(d.packet.cborPayload) >= int(d.packet.length) {
			d.state = stateCRC1
		}
		return nil, nil

	case stateCRC1:
		d.packet.crc = uint16(b) << 8
		d.state = stateCRC2
		return nil, nil

	case stateCRC2:
		d.packet.crc |= uint16(b)
		// Wait for END byte
		return nil, nil

	default:
		d.Reset()
		return nil, fmt.Errorf("invalid state: %d", d.state)
	}
}
