// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package rxtx

import "github.com/spectran/packetmode/pkg/audiopath"

// cycleInput is everything a single state-machine step reacts to,
// sampled once at the top of the cycle.
type cycleInput struct {
	squelchOpen bool // combined squelch decision
	ptt         bool
	txDisabled  bool
}

// stateMachine owns the mode transitions and the two audio-path handles.
// Rules run in a fixed order each cycle; the order is load-bearing
// because transmit must be able to preempt a receive entered earlier in
// the same cycle.
type stateMachine struct {
	trx   Transceiver
	audio AudioArbiter

	enterRx   bool // pending transition into receive
	audioOpen bool // RX audio gate established
	rxPath    audiopath.Handle
	txPath    audiopath.Handle
}

// transitionRule is one entry of the per-cycle rule table.
type transitionRule struct {
	name string
	fire func(*stateMachine, *cycleInput, *OperatingStatus)
}

// cycleRules is evaluated top to bottom every cycle. Reordering these
// changes behavior: txEntry after rxAudioGate lets transmit tear down a
// receive path opened moments earlier in the same step.
var cycleRules = []transitionRule{
	{"rx-entry", (*stateMachine).ruleRxEntry},
	{"rx-audio-gate", (*stateMachine).ruleRxAudioGate},
	{"tx-entry", (*stateMachine).ruleTxEntry},
	{"tx-exit", (*stateMachine).ruleTxExit},
}

func newStateMachine(trx Transceiver, audio AudioArbiter) *stateMachine {
	return &stateMachine{trx: trx, audio: audio}
}

// step runs one cycle of transition rules against the shared status.
func (m *stateMachine) step(in *cycleInput, status *OperatingStatus) {
	for i := range cycleRules {
		cycleRules[i].fire(m, in, status)
	}
}

// ruleRxEntry moves Idle into Receiving when an entry is pending.
func (m *stateMachine) ruleRxEntry(_ *cycleInput, status *OperatingStatus) {
	if status.State != Idle || !m.enterRx {
		return
	}
	m.trx.Disable()
	m.trx.EnableReceive()
	status.State = Receiving
	m.enterRx = false
}

// ruleRxAudioGate opens the receiver-to-speaker path while the squelch
// is open and tears it down when it closes. A denied request is simply
// retried on the next cycle while the squelch stays open.
func (m *stateMachine) ruleRxAudioGate(in *cycleInput, status *OperatingStatus) {
	if status.State != Receiving {
		return
	}
	if !m.audioOpen && in.squelchOpen {
		h := m.audio.Request(audiopath.SourceReceiver, audiopath.SinkSpeaker, audiopath.PriorityRX)
		if h > audiopath.None {
			m.rxPath = h
			m.audioOpen = true
		}
	}
	if m.audioOpen && !in.squelchOpen {
		m.audio.Release(m.rxPath)
		m.rxPath = audiopath.None
		m.audioOpen = false
	}
}

// ruleTxEntry preempts any state with transmit while PTT is asserted,
// unless transmit is administratively disabled.
func (m *stateMachine) ruleTxEntry(in *cycleInput, status *OperatingStatus) {
	if !in.ptt || status.State == Transmitting || in.txDisabled {
		return
	}
	m.audio.Release(m.rxPath)
	m.rxPath = audiopath.None
	m.trx.Disable()

	m.txPath = m.audio.Request(audiopath.SourceMicrophone, audiopath.SinkTransmitter, audiopath.PriorityTX)
	m.trx.EnableTransmit()
	status.State = Transmitting
}

// ruleTxExit leaves transmit when PTT is released, parks in Idle and
// schedules a fresh receive entry with the squelch gate forced closed.
func (m *stateMachine) ruleTxExit(in *cycleInput, status *OperatingStatus) {
	if in.ptt || status.State != Transmitting {
		return
	}
	m.audio.Release(m.txPath)
	m.txPath = audiopath.None
	m.trx.Disable()

	status.State = Idle
	m.enterRx = true
	m.audioOpen = false // squelch gate re-evaluated on next receive entry
}

// reset prepares the machine for a fresh enable: squelch gate closed,
// receive entry pending, no paths held.
func (m *stateMachine) reset() {
	m.enterRx = true
	m.audioOpen = false
	m.rxPath = audiopath.None
	m.txPath = audiopath.None
}

// releasePaths unconditionally returns both handles to the arbiter.
// Release of an unheld handle is a no-op, so this is safe from any state.
func (m *stateMachine) releasePaths() {
	m.audio.Release(m.rxPath)
	m.audio.Release(m.txPath)
	m.rxPath = audiopath.None
	m.txPath = audiopath.None
	m.audioOpen = false
}
