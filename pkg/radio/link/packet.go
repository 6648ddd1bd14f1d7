// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package link

import "time"

// Packet represents a decoded link protocol packet
type Packet struct {
	length      uint16
	cborPayload []byte // Raw CBOR bytes: [msg_type, payload_map]
	crc         uint16
	timestamp   time.Time

	// Cached parsed values (lazy parsing)
	msgType    uint8
	payloadMap map[int]interface{}
	parsed     bool
	parseErr   error
}

// NewPacketWithPayload creates a packet from a message type and payload map.
// The CBOR encoding and CRC are computed when the packet is encoded.
func NewPacketWithPayload(msgType uint8, payload map[int]interface{}) *Packet {
	return &Packet{
		msgType:    msgType,
		payloadMap: payload,
		parsed:     true,
		timestamp:  time.Now(),
	}
}

func (p *Packet) ensureParsed() {
	if p.parsed {
		return
	}
	p.parsed = true
	if len(p.cborPayload) == 0 {
		return
	}
	p.msgType, p.payloadMap, p.parseErr = ParseCBORMessage(p.cborPayload)
}

// Length returns the packet's CBOR payload length
func (p *Packet) Length() uint16 {
	return p.length
}

// Type returns the packet's message type (parsed from CBOR)
func (p *Packet) Type() uint8 {
	p.ensureParsed()
	return p.msgType
}

// Payload returns the raw CBOR payload bytes
func (p *Packet) Payload() []byte {
	return p.cborPayload
}

// PayloadMap returns the decoded CBOR payload map (nil for empty payloads)
func (p *Packet) PayloadMap() map[int]interface{} {
	p.ensureParsed()
	return p.payloadMap
}

// ParseError returns any error from parsing the CBOR payload
func (p *Packet) ParseError() error {
	p.ensureParsed()
	return p.parseErr
}

// CRC returns the packet's CRC value
func (p *Packet) CRC() uint16 {
	return p.crc
}

// Timestamp returns the packet's decode timestamp
func (p *Packet) Timestamp() time.Time {
	return p.timestamp
}
