// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spectran/packetmode/pkg/aprs"
	"github.com/spectran/packetmode/pkg/audiopath"
	"github.com/spectran/packetmode/pkg/radio/link"
	"github.com/spectran/packetmode/pkg/radio/sim"
	"github.com/spectran/packetmode/pkg/rxtx"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the operating mode",
	Long: `Run the APRS operating mode against a front-end.

The controller paces itself, switching between receive and transmit as
squelch and PTT dictate, driving the panel indicators, and collecting
received packets until interrupted.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	frames := make(chan *aprs.Record, 32)

	var (
		trx      rxtx.Transceiver
		platform rxtx.Platform
	)

	if useSimulator {
		radio := sim.NewRadio()
		board := sim.NewBoard()
		if cfg.Volume >= 0 {
			board.SetVolume(uint8(cfg.Volume))
		}
		trx, platform = radio, board
		logger.Info("using simulated front-end")
	} else {
		conn, connInfo, err := OpenConnection(cfg)
		if err != nil {
			return err
		}

		fe := link.NewFrontEnd(conn,
			link.WithFrontEndLogger(logger),
			link.WithFrameHandler(func(rec *aprs.Record) {
				select {
				case frames <- rec:
				default:
					src, _ := rec.Source()
					logger.Warn("packet queue full, dropping frame", "from", src.String())
				}
			}),
		)
		fe.Start()
		defer fe.Close()

		trx = fe
		platform = &hostPlatform{fe: fe, volume: cfg.Volume}
		logger.Info("connected", "via", connInfo)
	}

	opts := []rxtx.Option{
		rxtx.WithLogger(logger),
		rxtx.WithUpdateInterval(cfg.UpdateInterval()),
	}
	if cfg.SelfTest {
		opts = append(opts, rxtx.WithSelfTest())
	}

	arbiter := audiopath.New()
	ctrl := rxtx.NewController(trx, arbiter, platform, opts...)

	status := &rxtx.OperatingStatus{
		SquelchLevel:       cfg.Squelch.Level,
		ToneSquelchEnabled: cfg.Squelch.Tone,
		TxDisabled:         cfg.TxDisabled,
		Packets:            aprs.NewStore(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl.Enable()
	defer ctrl.Disable()
	logger.Info("operating mode enabled",
		"squelch_level", cfg.Squelch.Level,
		"tone", cfg.Squelch.Tone,
		"interval", cfg.UpdateInterval(),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down",
				"received", status.Received,
				"saved", status.Saved,
			)
			return nil
		default:
		}

		// Fold frames decoded since the last cycle into the packet list.
	drain:
		for {
			select {
			case rec := <-frames:
				status.Packets.Insert(*rec)
				status.Received++
				status.Saved = status.Packets.Len()
				src, _ := rec.Source()
				logger.Info("packet received",
					"from", src.String(),
					"bytes", len(rec.Payload),
				)
			default:
				break drain
			}
		}

		ctrl.Update(status)
	}
}
