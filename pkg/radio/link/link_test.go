// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package link

import (
	"bytes"
	"testing"
)

// decodeAll runs a wire image through a fresh decoder and returns the
// first completed packet.
func decodeAll(t *testing.T, wire []byte) *Packet {
	t.Helper()
	d := NewDecoder()
	for i, b := range wire {
		p, err := d.DecodeByte(b)
		if err != nil {
			t.Fatalf("decode error at byte %d: %v", i, err)
		}
		if p != nil {
			if i != len(wire)-1 {
				t.Fatalf("packet completed early at byte %d of %d", i, len(wire))
			}
			return p
		}
	}
	t.Fatal("no packet produced")
	return nil
}

func TestRoundTripCommands(t *testing.T) {
	tests := []struct {
		name    string
		packet  *Packet
		msgType uint8
	}{
		{"receive", NewReceiveCommand(), MsgReceiveCommand},
		{"transmit", NewTransmitCommand(), MsgTransmitCommand},
		{"shutdown", NewShutdownCommand(), MsgShutdownCommand},
		{"gain", NewGainCommand(12), MsgGainCommand},
		{"indicator", NewIndicatorCommand(1, true), MsgIndicatorCommand},
		{"ping", NewPingRequest(), MsgPingRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire, err := EncodePacketFromValues(tt.packet.Type(), tt.packet.PayloadMap())
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if wire[0] != StartByte || wire[len(wire)-1] != EndByte {
				t.Error("missing framing bytes")
			}

			p := decodeAll(t, wire)
			if p.Type() != tt.msgType {
				t.Errorf("type = 0x%02X, want 0x%02X", p.Type(), tt.msgType)
			}
			if err := p.ParseError(); err != nil {
				t.Errorf("parse error: %v", err)
			}
		})
	}
}

func TestRoundTripChannelReport(t *testing.T) {
	wire, err := EncodePacketFromValues(MsgChannelReport, NewChannelReport(-93, true, false).PayloadMap())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	p := decodeAll(t, wire)
	m := p.PayloadMap()

	rssi, ok := GetMapInt(m, KeyRSSI)
	if !ok || rssi != -93 {
		t.Errorf("rssi = %d (%t), want -93", rssi, ok)
	}
	open, ok := GetMapBool(m, KeyDigitalSquelch)
	if !ok || !open {
		t.Errorf("digital squelch = %t (%t), want true", open, ok)
	}
	ptt, ok := GetMapBool(m, KeyPTT)
	if !ok || ptt {
		t.Errorf("ptt = %t (%t), want false", ptt, ok)
	}
}

func TestRoundTripFrameReport(t *testing.T) {
	// Frame bytes chosen to collide with every reserved byte so the
	// stuffing path is exercised.
	frame := []byte{StartByte, EndByte, EscByte, 0x00, 0xFF, EscByte, StartByte}

	wire, err := EncodePacketFromValues(MsgFrameReport, NewFrameReport(frame).PayloadMap())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Reserved bytes must never appear unescaped between the framing bytes.
	for i, b := range wire[1 : len(wire)-1] {
		if b == StartByte || b == EndByte {
			t.Errorf("unescaped framing byte 0x%02X at offset %d", b, i+1)
		}
	}

	p := decodeAll(t, wire)
	got, ok := GetMapBytes(p.PayloadMap(), KeyFrame)
	if !ok {
		t.Fatal("frame bytes missing from payload")
	}
	if !bytes.Equal(got, frame) {
		t.Errorf("frame = % X, want % X", got, frame)
	}
}

func TestDecoderRejectsCorruptCRC(t *testing.T) {
	wire, err := EncodePacketFromValues(MsgPingRequest, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Flip a bit in the first CBOR byte. It is never a reserved byte
	// for this message, so the frame structure survives.
	wire[3] ^= 0x01

	d := NewDecoder()
	var decodeErr error
	for _, b := range wire {
		if _, decodeErr = d.DecodeByte(b); decodeErr != nil {
			break
		}
	}
	if decodeErr == nil {
		t.Fatal("corrupted packet decoded without error")
	}
}

func TestDecoderRejectsOversizeLength(t *testing.T) {
	d := NewDecoder()
	d.DecodeByte(StartByte)
	d.DecodeByte(0xFF)
	if _, err := d.DecodeByte(0xFF); err == nil {
		t.Fatal("length 0xFFFF accepted")
	}
}

func TestDecoderRejectsEarlyEnd(t *testing.T) {
	d := NewDecoder()
	d.DecodeByte(StartByte)
	d.DecodeByte(0x05)
	if _, err := d.DecodeByte(EndByte); err == nil {
		t.Fatal("END byte mid-packet accepted")
	}
}

func TestDecoderIgnoresNoiseBeforeStart(t *testing.T) {
	wire, err := EncodePacketFromValues(MsgPingRequest, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	noisy := append([]byte{0x00, 0x42, 0xAA}, wire...)
	d := NewDecoder()
	var got *Packet
	for _, b := range noisy {
		p, err := d.DecodeByte(b)
		if err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if p != nil {
			got = p
		}
	}
	if got == nil || got.Type() != MsgPingRequest {
		t.Fatal("packet not recovered after line noise")
	}
}

func TestDecoderResyncsAfterTruncatedPacket(t *testing.T) {
	wire, err := EncodePacketFromValues(MsgShutdownCommand, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// A fresh START mid-packet abandons the partial packet.
	stream := append(wire[:3:3], wire...)
	d := NewDecoder()
	var got *Packet
	for _, b := range stream {
		p, err := d.DecodeByte(b)
		if err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if p != nil {
			got = p
		}
	}
	if got == nil || got.Type() != MsgShutdownCommand {
		t.Fatal("decoder did not resync on new START byte")
	}
}

func TestUnstuffBytesInverse(t *testing.T) {
	data := []byte{0x01, StartByte, EscByte, EndByte, 0xFE}
	got, err := UnstuffBytes(stuffBytes(data))
	if err != nil {
		t.Fatalf("unstuff: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("unstuff(stuff(x)) = % X, want % X", got, data)
	}

	if _, err := UnstuffBytes([]byte{0x01, EscByte}); err == nil {
		t.Error("trailing escape accepted")
	}
}

func TestCalculateCRCKnownVector(t *testing.T) {
	// CRC-16/CCITT-FALSE check value for "123456789".
	if crc := CalculateCRC([]byte("123456789")); crc != 0x29B1 {
		t.Errorf("CRC = 0x%04X, want 0x29B1", crc)
	}
}
