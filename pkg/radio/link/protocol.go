// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

// Package link implements the serial protocol spoken between this
// controller and a packet-radio front-end.
//
// The link is point to point, so frames carry no device address. Each
// frame is START | length (2 bytes LE) | CBOR [msg_type, payload_map] |
// CRC-16 (2 bytes BE) | END, with byte stuffing applied to everything
// between the framing bytes.
package link

// Protocol framing bytes
const (
	StartByte = 0x7E
	EndByte   = 0x7F
	EscByte   = 0x7D
	EscXor    = 0x20
)

// Packet size limits. The payload must fit a full AX.25 frame report
// plus its CBOR wrapping.
const (
	MaxPayloadSize = 500
	MaxPacketSize  = MaxPayloadSize + 6 // 2 length + payload + 2 CRC + framing
)

// CRC-16-CCITT configuration
const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

// Message types - Commands (Controller → Front-end) 0x10-0x1F
const (
	MsgReceiveCommand   = 0x10
	MsgTransmitCommand  = 0x11
	MsgShutdownCommand  = 0x12
	MsgGainCommand      = 0x13
	MsgIndicatorCommand = 0x14
	MsgPingRequest      = 0x1F
)

// Message types - Reports (Front-end → Controller) 0x20-0x2F
const (
	MsgChannelReport = 0x20
	MsgFrameReport   = 0x21
	MsgPingResponse  = 0x2F
)

// Message types - Errors (Bidirectional) 0xE0-0xEF
const (
	MsgErrorInvalidCmd = 0xE0
)

// CHANNEL_REPORT payload keys
const (
	KeyRSSI           = 0 // int, dBm
	KeyDigitalSquelch = 1 // bool, tone/digital decoder output
	KeyPTT            = 2 // bool, operator push-to-talk
)

// FRAME_REPORT payload keys
const (
	KeyFrame = 0 // bytes, raw AX.25 frame without flags or FCS
)

// GAIN_COMMAND payload keys
const (
	KeyGainLevel = 0 // uint, output gain step
)

// INDICATOR_COMMAND payload keys
const (
	KeyIndicatorChannel = 0 // uint, 0 green / 1 red
	KeyIndicatorOn      = 1 // bool
)

// PING_RESPONSE payload keys
const (
	KeyUptimeMs = 0 // uint, front-end uptime in milliseconds
)

// Decoder states (internal)
const (
	stateIdle = iota
	stateLen1
	stateLen2
	statePayload
	stateCRC1
	stateCRC2
)
