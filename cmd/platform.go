// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package cmd

import (
	"time"

	"github.com/spectran/packetmode/pkg/radio/link"
	"github.com/spectran/packetmode/pkg/rxtx"
)

// hostPlatform adapts a link front-end and the host config into the
// platform surface the controller expects. PTT and indicators live on
// the front-end panel; time and the volume knob live here.
type hostPlatform struct {
	fe     *link.FrontEnd
	volume int // negative when the host has no digital output gain
}

func (h *hostPlatform) PTTAsserted() bool {
	return h.fe.PTTAsserted()
}

func (h *hostPlatform) SetIndicator(ch rxtx.IndicatorChannel, on bool) {
	h.fe.SetIndicator(ch, on)
}

func (h *hostPlatform) Now() time.Time { return time.Now() }

func (h *hostPlatform) YieldFor(d time.Duration) { time.Sleep(d) }

func (h *hostPlatform) VolumeLevel() (uint8, bool) {
	if h.volume < 0 {
		return 0, false
	}
	return uint8(h.volume), true
}
