// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package rxtx

import "testing"

func TestMapIndicators(t *testing.T) {
	tests := []struct {
		name        string
		state       ModeState
		rfOpen      bool
		digitalOpen bool
		want        IndicatorPattern
	}{
		{"transmitting", Transmitting, false, false, IndicatorPattern{Green: false, Red: true}},
		{"transmitting ignores squelch", Transmitting, true, true, IndicatorPattern{Green: false, Red: true}},
		{"rx tone squelch open", Receiving, false, true, IndicatorPattern{Green: true, Red: true}},
		{"rx both open prefers tone", Receiving, true, true, IndicatorPattern{Green: true, Red: true}},
		{"rx rf squelch only", Receiving, true, false, IndicatorPattern{Green: true, Red: false}},
		{"rx closed", Receiving, false, false, IndicatorPattern{}},
		{"idle", Idle, false, false, IndicatorPattern{}},
		{"idle ignores squelch", Idle, true, true, IndicatorPattern{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapIndicators(tt.state, tt.rfOpen, tt.digitalOpen); got != tt.want {
				t.Errorf("MapIndicators(%v, %v, %v) = %+v, want %+v",
					tt.state, tt.rfOpen, tt.digitalOpen, got, tt.want)
			}
		})
	}
}

func TestModeStateString(t *testing.T) {
	tests := []struct {
		state ModeState
		want  string
	}{
		{Idle, "IDLE"},
		{Receiving, "RX"},
		{Transmitting, "TX"},
		{ModeState(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
