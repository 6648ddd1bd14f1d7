// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package rxtx

// Squelch range endpoints in dBm. Level 0 maps to the bottom, level 15
// to the top.
const (
	squelchFloorDbm = -127
	squelchSpanDb   = 66
)

// hysteresisDb is the dead band on either side of the threshold: once
// closed, the RF squelch opens only above threshold+1; once open, it
// closes only below threshold-1.
const hysteresisDb = 1

// SquelchThreshold maps a squelch level (0..MaxSquelchLevel) onto a
// power threshold in dBm using integer arithmetic.
func SquelchThreshold(level uint8) int {
	if level > MaxSquelchLevel {
		level = MaxSquelchLevel
	}
	return squelchFloorDbm + int(level)*squelchSpanDb/MaxSquelchLevel
}

// SquelchDetector turns noisy RSSI samples into a stable channel-open
// decision. The RF path carries the hysteresis state; when tone squelch
// is enabled the combined decision follows the digital probe instead,
// while the RF state keeps tracking for indicator purposes.
type SquelchDetector struct {
	rfOpen bool
}

// Evaluate advances the detector by one sample and returns the combined
// channel-open decision used to gate audio.
func (d *SquelchDetector) Evaluate(level uint8, powerDbm int, toneEnabled, digitalOpen bool) bool {
	threshold := SquelchThreshold(level)
	if !d.rfOpen && powerDbm > threshold+hysteresisDb {
		d.rfOpen = true
	}
	if d.rfOpen && powerDbm < threshold-hysteresisDb {
		d.rfOpen = false
	}

	if toneEnabled {
		return digitalOpen
	}
	return d.rfOpen
}

// RFOpen reports the RF-path hysteresis state.
func (d *SquelchDetector) RFOpen() bool {
	return d.rfOpen
}

// Reset forces the RF path closed so the next receive entry starts from
// a fresh decision.
func (d *SquelchDetector) Reset() {
	d.rfOpen = false
}
