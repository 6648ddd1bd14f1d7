// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spectran/packetmode/pkg/rxtx"
)

func TestRadioDirection(t *testing.T) {
	r := NewRadio()
	assert.Equal(t, DirOff, r.Direction())

	r.EnableReceive()
	assert.Equal(t, DirRx, r.Direction())

	r.EnableTransmit()
	assert.Equal(t, DirTx, r.Direction())

	r.Disable()
	assert.Equal(t, DirOff, r.Direction())
}

func TestRadioSignalEnvironment(t *testing.T) {
	r := NewRadio()
	assert.Equal(t, -127, r.RSSI(), "no signal present at reset")
	assert.False(t, r.DigitalSquelchOpen())

	r.SetRSSI(-80)
	r.SetDigitalSquelch(true)
	assert.Equal(t, -80, r.RSSI())
	assert.True(t, r.DigitalSquelchOpen())

	r.SetRxAudioGain(5)
	assert.Equal(t, uint8(5), r.Gain())
}

func TestBoardVolume(t *testing.T) {
	b := NewBoard()
	_, ok := b.VolumeLevel()
	assert.False(t, ok, "board has no output gain until the knob is scripted")

	b.SetVolume(200)
	level, ok := b.VolumeLevel()
	assert.True(t, ok)
	assert.Equal(t, uint8(200), level)
}

func TestBoardIndicators(t *testing.T) {
	b := NewBoard()
	b.SetIndicator(rxtx.IndicatorGreen, true)
	assert.True(t, b.Indicator(rxtx.IndicatorGreen))
	assert.False(t, b.Indicator(rxtx.IndicatorRed))

	b.SetIndicator(rxtx.IndicatorGreen, false)
	b.SetIndicator(rxtx.IndicatorRed, true)
	assert.False(t, b.Indicator(rxtx.IndicatorGreen))
	assert.True(t, b.Indicator(rxtx.IndicatorRed))
}

func TestBoardPTT(t *testing.T) {
	b := NewBoard()
	assert.False(t, b.PTTAsserted())
	b.SetPTT(true)
	assert.True(t, b.PTTAsserted())
}
