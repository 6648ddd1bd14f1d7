// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package rxtx

// IndicatorPattern is the on/off assignment for the two indicator
// channels: green alone for RF squelch, green plus red ("orange") for
// tone squelch, red alone for transmit.
type IndicatorPattern struct {
	Green bool
	Red   bool
}

// MapIndicators derives the indicator pattern from the mode state and
// the two squelch-open signals. Pure function, no side effects.
func MapIndicators(state ModeState, rfOpen, digitalOpen bool) IndicatorPattern {
	switch state {
	case Transmitting:
		return IndicatorPattern{Green: false, Red: true}
	case Receiving:
		if digitalOpen {
			return IndicatorPattern{Green: true, Red: true}
		}
		if rfOpen {
			return IndicatorPattern{Green: true, Red: false}
		}
		return IndicatorPattern{}
	default:
		return IndicatorPattern{}
	}
}
