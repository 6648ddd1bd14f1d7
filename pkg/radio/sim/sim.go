// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

// Package sim provides an in-memory transceiver and board platform with
// a scriptable signal environment. It backs the `run --sim` and
// `selftest` commands and the controller's integration tests, so no RF
// hardware is needed to exercise the mode.
package sim

import (
	"sync"
	"time"

	"github.com/spectran/packetmode/pkg/rxtx"
)

// Direction is the transceiver's active direction.
type Direction uint8

const (
	DirOff Direction = iota
	DirRx
	DirTx
)

// Radio is a software transceiver. The signal environment (RSSI, tone
// decoder) is set by the test or simulation driving it.
type Radio struct {
	mu          sync.Mutex
	rssi        int
	digitalOpen bool
	direction   Direction
	gain        uint8
}

// NewRadio returns a radio with no signal present.
func NewRadio() *Radio {
	return &Radio{rssi: -127}
}

func (r *Radio) EnableReceive() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.direction = DirRx
}

func (r *Radio) EnableTransmit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.direction = DirTx
}

func (r *Radio) Disable() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.direction = DirOff
}

func (r *Radio) RSSI() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rssi
}

func (r *Radio) DigitalSquelchOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.digitalOpen
}

// SetRxAudioGain satisfies rxtx.GainSetter.
func (r *Radio) SetRxAudioGain(level uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gain = level
}

// Direction reports the currently enabled direction.
func (r *Radio) Direction() Direction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.direction
}

// Gain reports the last written RX audio gain.
func (r *Radio) Gain() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gain
}

// SetRSSI scripts the received signal strength in dBm.
func (r *Radio) SetRSSI(dbm int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rssi = dbm
}

// SetDigitalSquelch scripts the tone/digital squelch decoder output.
func (r *Radio) SetDigitalSquelch(open bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.digitalOpen = open
}

// Board is a software platform: PTT, two indicators, a volume knob and
// real time. YieldFor sleeps, which keeps the CLI loop honest; tests
// that need a fake clock use their own platform.
type Board struct {
	mu         sync.Mutex
	ptt        bool
	indicators [2]bool
	volume     uint8
	hasGain    bool
}

// NewBoard returns a board with PTT released and indicators dark.
func NewBoard() *Board {
	return &Board{}
}

func (b *Board) PTTAsserted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ptt
}

func (b *Board) SetIndicator(ch rxtx.IndicatorChannel, on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if int(ch) < len(b.indicators) {
		b.indicators[ch] = on
	}
}

func (b *Board) Now() time.Time { return time.Now() }

func (b *Board) YieldFor(d time.Duration) { time.Sleep(d) }

func (b *Board) VolumeLevel() (uint8, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.volume, b.hasGain
}

// Indicator reports the state of one indicator channel.
func (b *Board) Indicator(ch rxtx.IndicatorChannel) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if int(ch) >= len(b.indicators) {
		return false
	}
	return b.indicators[ch]
}

// SetPTT scripts the operator's push-to-talk control.
func (b *Board) SetPTT(asserted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ptt = asserted
}

// SetVolume scripts the volume knob and marks the board as routing
// volume through a digital output gain.
func (b *Board) SetVolume(level uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.volume = level
	b.hasGain = true
}
