// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package link

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/spectran/packetmode/pkg/aprs"
	"github.com/spectran/packetmode/pkg/rxtx"
)

// FrontEnd drives a packet-radio front-end over a link connection. It
// satisfies the transceiver and gain interfaces consumed by the mode
// controller, caching the latest CHANNEL_REPORT so RSSI, digital
// squelch and PTT reads never block on the wire.
type FrontEnd struct {
	conn    io.ReadWriteCloser
	logger  *log.Logger
	onFrame func(*aprs.Record)

	writeMu sync.Mutex

	mu          sync.Mutex
	rssi        int
	digitalOpen bool
	ptt         bool

	done   chan struct{}
	closed sync.Once
}

// FrontEndOption configures a FrontEnd.
type FrontEndOption func(*FrontEnd)

// WithFrontEndLogger sets the logger for link events.
func WithFrontEndLogger(l *log.Logger) FrontEndOption {
	return func(f *FrontEnd) { f.logger = l }
}

// WithFrameHandler registers a callback for decoded AX.25 frames. The
// callback runs on the reader goroutine.
func WithFrameHandler(fn func(*aprs.Record)) FrontEndOption {
	return func(f *FrontEnd) { f.onFrame = fn }
}

// NewFrontEnd wraps a connection to a front-end. Call Start to begin
// processing reports.
func NewFrontEnd(conn io.ReadWriteCloser, opts ...FrontEndOption) *FrontEnd {
	f := &FrontEnd{
		conn:   conn,
		logger: log.New(io.Discard),
		rssi:   -127,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start launches the report reader. It returns immediately; the reader
// runs until the connection yields an error or Close is called.
func (f *FrontEnd) Start() {
	go f.readLoop()
}

// Close shuts the front-end down and closes the underlying connection.
func (f *FrontEnd) Close() error {
	var err error
	f.closed.Do(func() {
		close(f.done)
		err = f.conn.Close()
	})
	return err
}

func (f *FrontEnd) readLoop() {
	decoder := NewDecoder()
	buf := make([]byte, 256)

	for {
		select {
		case <-f.done:
			return
		default:
		}

		n, err := f.conn.Read(buf)
		if err != nil {
			select {
			case <-f.done:
			default:
				f.logger.Error("link read failed", "error", err)
			}
			return
		}

		for _, b := range buf[:n] {
			packet, err := decoder.DecodeByte(b)
			if err != nil {
				f.logger.Warn("link decode error", "error", err)
				continue
			}
			if packet != nil {
				f.handlePacket(packet)
			}
		}
	}
}

func (f *FrontEnd) handlePacket(p *Packet) {
	if err := p.ParseError(); err != nil {
		f.logger.Warn("bad report payload", "error", err)
		return
	}

	switch p.Type() {
	case MsgChannelReport:
		m := p.PayloadMap()
		f.mu.Lock()
		if rssi, ok := GetMapInt(m, KeyRSSI); ok {
			f.rssi = int(rssi)
		}
		if open, ok := GetMapBool(m, KeyDigitalSquelch); ok {
			f.digitalOpen = open
		}
		if ptt, ok := GetMapBool(m, KeyPTT); ok {
			f.ptt = ptt
		}
		f.mu.Unlock()

	case MsgFrameReport:
		frame, ok := GetMapBytes(p.PayloadMap(), KeyFrame)
		if !ok {
			f.logger.Warn("frame report without frame bytes")
			return
		}
		rec, err := aprs.DecodeFrame(frame, p.Timestamp())
		if err != nil {
			f.logger.Debug("undecodable frame", "error", err, "bytes", len(frame))
			return
		}
		if f.onFrame != nil {
			f.onFrame(rec)
		}

	case MsgPingResponse:
		if uptime, ok := GetMapUint(p.PayloadMap(), KeyUptimeMs); ok {
			f.logger.Debug("ping response", "uptime_ms", uptime)
		}

	case MsgErrorInvalidCmd:
		f.logger.Error("front-end rejected command")

	default:
		f.logger.Debug("unhandled report", "type", FormatMessageType(p.Type()))
	}
}

func (f *FrontEnd) send(p *Packet) {
	data, err := EncodePacketFromValues(p.Type(), p.PayloadMap())
	if err != nil {
		f.logger.Error("command encode failed", "type", FormatMessageType(p.Type()), "error", err)
		return
	}

	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	if _, err := f.conn.Write(data); err != nil {
		f.logger.Error("command write failed", "type", FormatMessageType(p.Type()), "error", err)
	}
}

// EnableReceive opens the front-end's receive chain.
func (f *FrontEnd) EnableReceive() {
	f.send(NewReceiveCommand())
}

// EnableTransmit keys the front-end's transmitter.
func (f *FrontEnd) EnableTransmit() {
	f.send(NewTransmitCommand())
}

// Disable unkeys and closes both chains.
func (f *FrontEnd) Disable() {
	f.send(NewShutdownCommand())
}

// RSSI returns the last reported signal strength in dBm.
func (f *FrontEnd) RSSI() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rssi
}

// DigitalSquelchOpen returns the last reported digital squelch state.
func (f *FrontEnd) DigitalSquelchOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.digitalOpen
}

// PTTAsserted returns the last reported push-to-talk state.
func (f *FrontEnd) PTTAsserted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ptt
}

// SetRxAudioGain writes the front-end's output gain step.
func (f *FrontEnd) SetRxAudioGain(level uint8) {
	f.send(NewGainCommand(level))
}

// SetIndicator drives one of the front-end's panel indicators.
func (f *FrontEnd) SetIndicator(ch rxtx.IndicatorChannel, on bool) {
	f.send(NewIndicatorCommand(uint8(ch), on))
}

// Ping asks the front-end for a liveness response.
func (f *FrontEnd) Ping() {
	f.send(NewPingRequest())
}
