// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spectran/packetmode/pkg/aprs"
	"github.com/spectran/packetmode/pkg/audiopath"
	"github.com/spectran/packetmode/pkg/radio/sim"
	"github.com/spectran/packetmode/pkg/rxtx"
)

var selfTestExport string

var selfTestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Exercise the mode against the simulated front-end",
	Long: `Run the operating mode against the built-in simulator with the
synthetic packet generator enabled, then print the packet list.

Walks the mode through enable, receive with open squelch, transmit, and
disable, so a broken controller fails loudly before it ever touches
hardware. Use --export to write the packet list as CBOR.`,
	RunE: runSelfTest,
}

func init() {
	selfTestCmd.Flags().StringVar(&selfTestExport, "export", "", "Write the packet list as CBOR to this file")
	rootCmd.AddCommand(selfTestCmd)
}

func runSelfTest(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	radio := sim.NewRadio()
	board := sim.NewBoard()
	arbiter := audiopath.New()

	ctrl := rxtx.NewController(radio, arbiter, board,
		rxtx.WithLogger(logger),
		rxtx.WithUpdateInterval(cfg.UpdateInterval()),
		rxtx.WithSelfTest(),
	)

	status := &rxtx.OperatingStatus{
		SquelchLevel:       cfg.Squelch.Level,
		ToneSquelchEnabled: cfg.Squelch.Tone,
		Packets:            aprs.NewStore(),
	}

	ctrl.Enable()

	// Idle, no signal.
	ctrl.Update(status)
	if status.State != rxtx.Receiving {
		return fmt.Errorf("self test: state after enable = %s, want RX", status.State)
	}

	// Strong signal opens the squelch and claims the speaker.
	radio.SetRSSI(-60)
	ctrl.Update(status)
	if !ctrl.RxSquelchOpen() {
		return fmt.Errorf("self test: squelch did not open at -60 dBm")
	}
	if !board.Indicator(rxtx.IndicatorGreen) {
		return fmt.Errorf("self test: green indicator not lit with open squelch")
	}

	// PTT takes the mode to transmit.
	board.SetPTT(true)
	ctrl.Update(status)
	if status.State != rxtx.Transmitting {
		return fmt.Errorf("self test: state under PTT = %s, want TX", status.State)
	}
	if radio.Direction() != sim.DirTx {
		return fmt.Errorf("self test: transmitter not keyed under PTT")
	}

	// Release returns through idle to receive.
	board.SetPTT(false)
	ctrl.Update(status)
	ctrl.Update(status)
	if status.State != rxtx.Receiving {
		return fmt.Errorf("self test: state after PTT release = %s, want RX", status.State)
	}

	fmt.Printf("Self test passed. %d packets generated, %d saved.\n\n", status.Received, status.Saved)
	status.Packets.Each(func(h aprs.Handle, rec *aprs.Record) bool {
		fmt.Println(rec.String())
		return true
	})

	if selfTestExport != "" {
		data, err := aprs.ExportCBOR(status.Packets)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		if err := os.WriteFile(selfTestExport, data, 0o644); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Printf("\nPacket list written to %s (%d bytes)\n", selfTestExport, len(data))
	}

	ctrl.Disable()
	return nil
}
