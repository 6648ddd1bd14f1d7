// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package rxtx

import (
	"fmt"
	"time"

	"github.com/spectran/packetmode/pkg/aprs"
)

// selfTestPacketCount is how many synthetic records one generation pass
// inserts.
const selfTestPacketCount = 10

// generateSelfTestPackets fills the packet store with synthetic records
// so the status surface can be exercised without RF. Diagnostic only;
// the production reception path never calls this.
func generateSelfTestPackets(status *OperatingStatus, now time.Time) {
	if status.Packets == nil {
		return
	}
	for i := 0; i < selfTestPacketCount; i++ {
		status.Packets.Insert(aprs.Record{
			Addresses: []aprs.Address{
				{Callsign: fmt.Sprintf("APRS%d", i)},
				{Callsign: "N2BP", SSID: 7},
			},
			Payload:    []byte(fmt.Sprintf(":Test packet %d", i)),
			ReceivedAt: now,
		})
	}
	status.Received += selfTestPacketCount
	status.Saved = status.Packets.Len()
}
