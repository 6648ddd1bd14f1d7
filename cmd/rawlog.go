// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spectran/packetmode/pkg/radio/link"
)

var rawLogCmd = &cobra.Command{
	Use:   "rawlog",
	Short: "Display raw link traffic in human-readable format",
	Long: `Continuously decode and display link protocol packets as they arrive.

Shows each packet with timestamp, message type, and decoded payload data.
Useful for diagnosing a misbehaving front-end without engaging the mode.

Supports both serial and WebSocket connections.`,
	RunE: runRawLog,
}

func init() {
	rootCmd.AddCommand(rawLogCmd)
}

func runRawLog(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	conn, connInfo, err := OpenConnection(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Packetmode - Raw Link Log\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	decoder := link.NewDecoder()
	buf := make([]byte, 128)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			// For WebSocket connections, a read error usually means
			// the connection is permanently closed - exit gracefully
			if err == ErrConnectionClosed {
				logger.Info("connection closed")
				return nil
			}
			logger.Error("read error", "error", err)
			continue
		}

		for i := 0; i < n; i++ {
			packet, err := decoder.DecodeByte(buf[i])
			if err != nil {
				fmt.Printf("[ERROR] %v\n", err)
				continue
			}
			if packet != nil {
				fmt.Print(link.FormatPacket(packet))
			}
		}
	}
}
