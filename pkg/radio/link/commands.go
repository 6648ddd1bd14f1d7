// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package link

// Command builder functions create Packet structs ready for encoding.
// These are convenience wrappers around NewPacketWithPayload that keep
// payload key usage in one place.

// NewReceiveCommand creates a RECEIVE_COMMAND packet (0x10).
// The front-end opens its receive chain and starts sending
// CHANNEL_REPORT and FRAME_REPORT messages.
func NewReceiveCommand() *Packet {
	return NewPacketWithPayload(MsgReceiveCommand, nil)
}

// NewTransmitCommand creates a TRANSMIT_COMMAND packet (0x11).
// The front-end keys the transmitter and routes microphone audio to it.
func NewTransmitCommand() *Packet {
	return NewPacketWithPayload(MsgTransmitCommand, nil)
}

// NewShutdownCommand creates a SHUTDOWN_COMMAND packet (0x12).
// The front-end unkeys and closes both chains.
func NewShutdownCommand() *Packet {
	return NewPacketWithPayload(MsgShutdownCommand, nil)
}

// NewGainCommand creates a GAIN_COMMAND packet (0x13).
// Sets the front-end's receive audio output gain step.
func NewGainCommand(level uint8) *Packet {
	payload := map[int]interface{}{
		KeyGainLevel: uint64(level),
	}
	return NewPacketWithPayload(MsgGainCommand, payload)
}

// NewIndicatorCommand creates an INDICATOR_COMMAND packet (0x14).
// Drives one of the front-end's panel indicators.
func NewIndicatorCommand(channel uint8, on bool) *Packet {
	payload := map[int]interface{}{
		KeyIndicatorChannel: uint64(channel),
		KeyIndicatorOn:      on,
	}
	return NewPacketWithPayload(MsgIndicatorCommand, payload)
}

// NewPingRequest creates a PING_REQUEST packet (0x1F).
// Front-ends respond with PING_RESPONSE containing uptime.
func NewPingRequest() *Packet {
	return NewPacketWithPayload(MsgPingRequest, nil)
}

// NewChannelReport creates a CHANNEL_REPORT packet (0x20).
// Front-ends send these periodically while the receive chain is open.
func NewChannelReport(rssiDbm int, digitalOpen bool, ptt bool) *Packet {
	payload := map[int]interface{}{
		KeyRSSI:           int64(rssiDbm),
		KeyDigitalSquelch: digitalOpen,
		KeyPTT:            ptt,
	}
	return NewPacketWithPayload(MsgChannelReport, payload)
}

// NewFrameReport creates a FRAME_REPORT packet (0x21) carrying a raw
// AX.25 frame without flags or FCS.
func NewFrameReport(frame []byte) *Packet {
	payload := map[int]interface{}{
		KeyFrame: frame,
	}
	return NewPacketWithPayload(MsgFrameReport, payload)
}
