// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package rxtx

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultUpdateInterval paces the update loop at roughly 33 cycles per
// second.
const DefaultUpdateInterval = 30 * time.Millisecond

// Controller composes the squelch detector, the mode state machine and
// the indicator mapping into the operating mode the external dispatcher
// drives. One Controller instance serves one mode activation at a time;
// Update is never called concurrently with itself or with Enable and
// Disable.
type Controller struct {
	trx      Transceiver
	audio    AudioArbiter
	platform Platform
	logger   *log.Logger

	detector SquelchDetector
	machine  *stateMachine
	interval time.Duration

	selfTest      bool // diagnostic packet generation configured
	selfTestArmed bool // one-shot, armed by Enable

	// Last volume level written to the transceiver gain, -1 when
	// unknown. Held per instance, deliberately not process-wide.
	lastVolume int

	lastStatus  *OperatingStatus
	prevState   ModeState
	lastPattern IndicatorPattern
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes transition logging to logger instead of discarding it.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithUpdateInterval overrides the pacing interval.
func WithUpdateInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

// WithSelfTest enables the diagnostic packet generator; every Enable
// arms one generation pass. Not for production activations.
func WithSelfTest() Option {
	return func(c *Controller) { c.selfTest = true }
}

// NewController wires a controller to its collaborators.
func NewController(trx Transceiver, audio AudioArbiter, platform Platform, opts ...Option) *Controller {
	c := &Controller{
		trx:        trx,
		audio:      audio,
		platform:   platform,
		logger:     log.New(io.Discard),
		machine:    newStateMachine(trx, audio),
		interval:   DefaultUpdateInterval,
		lastVolume: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enable prepares the mode for dispatch: squelch forced closed, receive
// entry pending and, when configured, the diagnostic generator armed.
func (c *Controller) Enable() {
	c.detector.Reset()
	c.machine.reset()
	c.selfTestArmed = c.selfTest
	c.lastVolume = -1
	c.logger.Debug("mode enabled")
}

// Disable is the hard teardown point: it reclaims every packet record,
// returns both audio handles, blanks the indicators and shuts the
// transceiver down, regardless of the state the machine was in. It never
// fails and is safe to call repeatedly.
func (c *Controller) Disable() {
	if c.lastStatus != nil && c.lastStatus.Packets != nil {
		c.lastStatus.Packets.ReleaseAll()
		c.lastStatus.Saved = 0
	}

	c.platform.SetIndicator(IndicatorGreen, false)
	c.platform.SetIndicator(IndicatorRed, false)
	c.lastPattern = IndicatorPattern{}

	c.machine.releasePaths()
	c.trx.Disable()

	c.detector.Reset()
	c.machine.enterRx = false
	c.selfTestArmed = false
	if c.lastStatus != nil {
		c.lastStatus.State = Idle
	}
	c.logger.Debug("mode disabled")
}

// Update runs one control cycle: poll inputs, advance the squelch
// detector and the state machine, refresh the indicators, then yield the
// remainder of the update interval back to the dispatcher.
func (c *Controller) Update(status *OperatingStatus) {
	start := c.platform.Now()
	c.lastStatus = status

	if c.selfTestArmed {
		generateSelfTestPackets(status, start)
		c.selfTestArmed = false
		c.logger.Debug("diagnostic packets generated", "count", selfTestPacketCount)
	}

	c.shadowOutputGain()

	in := cycleInput{
		ptt:        c.platform.PTTAsserted(),
		txDisabled: status.TxDisabled,
	}
	var digitalOpen bool
	if status.State == Receiving {
		digitalOpen = c.trx.DigitalSquelchOpen()
		in.squelchOpen = c.detector.Evaluate(status.SquelchLevel, c.trx.RSSI(),
			status.ToneSquelchEnabled, digitalOpen)
	}

	c.machine.step(&in, status)
	if status.State != c.prevState {
		c.logger.Debug("state changed", "from", c.prevState, "to", status.State)
		c.prevState = status.State
	}

	pattern := MapIndicators(status.State, c.detector.RFOpen(), digitalOpen)
	c.platform.SetIndicator(IndicatorGreen, pattern.Green)
	c.platform.SetIndicator(IndicatorRed, pattern.Red)
	c.lastPattern = pattern

	if remaining := c.interval - c.platform.Now().Sub(start); remaining > 0 {
		c.platform.YieldFor(remaining)
	}
}

// RxSquelchOpen reports the combined squelch state: true while the
// receive audio gate is established.
func (c *Controller) RxSquelchOpen() bool {
	return c.machine.audioOpen
}

// Indicators returns the pattern written during the last update cycle.
func (c *Controller) Indicators() IndicatorPattern {
	return c.lastPattern
}

// shadowOutputGain mirrors the volume knob onto the transceiver's RX
// audio DAC on boards where volume is a digital gain. Writes only on
// change to keep the control bus quiet.
func (c *Controller) shadowOutputGain() {
	gs, ok := c.trx.(GainSetter)
	if !ok {
		return
	}
	level, ok := c.platform.VolumeLevel()
	if !ok {
		return
	}
	if c.lastVolume >= 0 && uint8(c.lastVolume) == level {
		return
	}
	gs.SetRxAudioGain(level / 16) // DAC gain is 4 bit
	c.lastVolume = int(level)
}
