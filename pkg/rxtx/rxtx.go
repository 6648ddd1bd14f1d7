// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

// Package rxtx implements the packet-radio operating mode: the idle /
// receive / transmit state machine, hysteretic squelch detection, audio
// path ownership and the lifecycle of received-packet records. The
// transceiver, audio arbiter and board platform are collaborators passed
// in by the caller; this package only decides when to drive them.
package rxtx

import (
	"time"

	"github.com/spectran/packetmode/pkg/aprs"
	"github.com/spectran/packetmode/pkg/audiopath"
)

// ModeState is the externally visible state of the operating mode.
type ModeState uint8

const (
	Idle ModeState = iota
	Receiving
	Transmitting
)

// String returns the state name for logs and UIs.
func (m ModeState) String() string {
	switch m {
	case Idle:
		return "IDLE"
	case Receiving:
		return "RX"
	case Transmitting:
		return "TX"
	default:
		return "UNKNOWN"
	}
}

// IndicatorChannel selects one of the board's two indicator channels.
type IndicatorChannel uint8

const (
	IndicatorGreen IndicatorChannel = iota
	IndicatorRed
)

// MaxSquelchLevel is the top of the configurable squelch range.
const MaxSquelchLevel = 15

// OperatingStatus is the shared record the mode dispatcher hands to
// Update every cycle. The controller reads the configuration fields and
// mutates State, the counters and the packet store contents; it does not
// own the record's storage.
type OperatingStatus struct {
	State ModeState

	SquelchLevel       uint8 // 0..MaxSquelchLevel
	ToneSquelchEnabled bool
	TxDisabled         bool

	Packets  *aprs.Store
	Received int // packets received since enable
	Saved    int // packets currently retained in the store
}

// Transceiver is the radio front-end contract. All calls are synchronous
// and safe to repeat with unchanged arguments.
type Transceiver interface {
	EnableReceive()
	EnableTransmit()
	// Disable turns off whichever direction is active.
	Disable()
	// RSSI samples the received signal strength in dBm.
	RSSI() int
	// DigitalSquelchOpen probes the tone/digital squelch decoder.
	DigitalSquelchOpen() bool
}

// GainSetter is implemented by transceivers whose receive audio level is
// a DAC gain rather than an analog control. The controller shadows the
// platform volume onto it.
type GainSetter interface {
	// SetRxAudioGain takes a 4-bit gain value (0..15).
	SetRxAudioGain(level uint8)
}

// AudioArbiter grants exclusive audio routing. Request returns a handle
// <= 0 when denied; Release of a non-held handle is a no-op.
type AudioArbiter interface {
	Request(source audiopath.Source, sink audiopath.Sink, priority audiopath.Priority) audiopath.Handle
	Release(h audiopath.Handle)
}

// Platform abstracts the board: operator controls, indicators and time.
type Platform interface {
	PTTAsserted() bool
	SetIndicator(ch IndicatorChannel, on bool)
	Now() time.Time
	// YieldFor hands the remainder of the cycle back to the scheduler.
	YieldFor(d time.Duration)
	// VolumeLevel returns the volume knob position (0..255) and whether
	// the platform routes volume through a digital output gain at all.
	VolumeLevel() (uint8, bool)
}
