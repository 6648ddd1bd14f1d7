// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package link

import (
	"fmt"
	"strings"
)

// FormatPacket formats a packet into a human-readable string
func FormatPacket(p *Packet) string {
	timestamp := p.timestamp.Format("15:04:05.000")
	msgType := FormatMessageType(p.Type())

	result := fmt.Sprintf("[%s] %s (0x%02X) len=%d\n", timestamp, msgType, p.Type(), p.length)

	payloadMap := p.PayloadMap()
	if payloadMap != nil {
		result += FormatPayloadMap(p.Type(), payloadMap)
	}

	return result
}

// FormatMessageType returns the human-readable name for a message type
func FormatMessageType(msgType uint8) string {
	switch msgType {
	case MsgReceiveCommand:
		return "RECEIVE_COMMAND"
	case MsgTransmitCommand:
		return "TRANSMIT_COMMAND"
	case MsgShutdownCommand:
		return "SHUTDOWN_COMMAND"
	case MsgGainCommand:
		return "GAIN_COMMAND"
	case MsgIndicatorCommand:
		return "INDICATOR_COMMAND"
	case MsgPingRequest:
		return "PING_REQUEST"
	case MsgChannelReport:
		return "CHANNEL_REPORT"
	case MsgFrameReport:
		return "FRAME_REPORT"
	case MsgPingResponse:
		return "PING_RESPONSE"
	case MsgErrorInvalidCmd:
		return "ERROR_INVALID_CMD"
	default:
		return "UNKNOWN"
	}
}

// FormatPayloadMap formats a decoded payload map with field names for
// the known message types.
func FormatPayloadMap(msgType uint8, m map[int]interface{}) string {
	var sb strings.Builder

	switch msgType {
	case MsgChannelReport:
		if rssi, ok := GetMapInt(m, KeyRSSI); ok {
			fmt.Fprintf(&sb, "  rssi: %d dBm\n", rssi)
		}
		if open, ok := GetMapBool(m, KeyDigitalSquelch); ok {
			fmt.Fprintf(&sb, "  digital_squelch: %t\n", open)
		}
		if ptt, ok := GetMapBool(m, KeyPTT); ok {
			fmt.Fprintf(&sb, "  ptt: %t\n", ptt)
		}

	case MsgFrameReport:
		if frame, ok := GetMapBytes(m, KeyFrame); ok {
			fmt.Fprintf(&sb, "  frame: %d bytes\n", len(frame))
			fmt.Fprintf(&sb, "  hex: % X\n", frame)
		}

	case MsgGainCommand:
		if level, ok := GetMapUint(m, KeyGainLevel); ok {
			fmt.Fprintf(&sb, "  gain_level: %d\n", level)
		}

	case MsgIndicatorCommand:
		if ch, ok := GetMapUint(m, KeyIndicatorChannel); ok {
			name := "red"
			if ch == 0 {
				name = "green"
			}
			fmt.Fprintf(&sb, "  channel: %s\n", name)
		}
		if on, ok := GetMapBool(m, KeyIndicatorOn); ok {
			fmt.Fprintf(&sb, "  on: %t\n", on)
		}

	case MsgPingResponse:
		if uptime, ok := GetMapUint(m, KeyUptimeMs); ok {
			fmt.Fprintf(&sb, "  uptime: %d ms\n", uptime)
		}

	default:
		for k, v := range m {
			fmt.Fprintf(&sb, "  [%d]: %v\n", k, v)
		}
	}

	return sb.String()
}
