// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio
//
// Packetmode - APRS operating mode controller
//
// Drives a packet-radio front-end over serial or WebSocket, or against
// the built-in simulator.

package main

import (
	"os"

	"github.com/spectran/packetmode/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
