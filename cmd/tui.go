// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Spectran Radio

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/spectran/packetmode/pkg/aprs"
	"github.com/spectran/packetmode/pkg/audiopath"
	"github.com/spectran/packetmode/pkg/radio/link"
	"github.com/spectran/packetmode/pkg/radio/sim"
	"github.com/spectran/packetmode/pkg/rxtx"
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// packetItem wraps a received record for the packet list widget
type packetItem struct {
	rec aprs.Record
}

// Implement list.Item interface
func (p packetItem) Title() string {
	src, ok := p.rec.Source()
	if !ok {
		return "(unknown)"
	}
	return fmt.Sprintf("%s>%s", src.String(), p.rec.Addresses[0].String())
}
func (p packetItem) Description() string { return string(p.rec.Payload) }
func (p packetItem) FilterValue() string {
	src, _ := p.rec.Source()
	return src.String()
}

// Event log entry
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// simControls is non-nil when the TUI drives the simulator, allowing
// keyboard control of the signal environment.
type simControls struct {
	radio *sim.Radio
	board *sim.Board

	ptt     bool
	carrier bool
	digital bool
}

// tuiModel is the Bubble Tea model for the mode monitor
type tuiModel struct {
	connInfo string
	sim      *simControls

	// Last controller snapshot
	state       rxtx.ModeState
	rssi        int
	threshold   int
	squelchOpen bool
	indicators  rxtx.IndicatorPattern
	received    int
	saved       int

	packetList    list.Model
	eventLog      []eventLogEntry
	maxLogEntries int

	width    int
	height   int
	quitting bool
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type snapshotMsg struct {
	state       rxtx.ModeState
	rssi        int
	threshold   int
	squelchOpen bool
	indicators  rxtx.IndicatorPattern
	received    int
	saved       int
}

type packetMsg struct {
	rec aprs.Record
}

//////////////////////////////////////////////////////////////
// Model
//////////////////////////////////////////////////////////////

func initialTUIModel(connInfo string, controls *simControls, threshold int) tuiModel {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.SetHeight(2)
	packetList := list.New([]list.Item{}, delegate, 40, 12)
	packetList.Title = "Packets"
	packetList.SetShowStatusBar(false)
	packetList.SetShowHelp(false)
	packetList.SetFilteringEnabled(false)

	return tuiModel{
		connInfo:      connInfo,
		sim:           controls,
		state:         rxtx.Idle,
		rssi:          -127,
		threshold:     threshold,
		packetList:    packetList,
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m *tuiModel) addLogEntry(message string, isError bool) {
	m.eventLog = append(m.eventLog, eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "t":
			if m.sim != nil {
				m.sim.ptt = !m.sim.ptt
				m.sim.board.SetPTT(m.sim.ptt)
				m.addLogEntry(fmt.Sprintf("PTT %v", m.sim.ptt), false)
			}

		case "s":
			if m.sim != nil {
				m.sim.carrier = !m.sim.carrier
				if m.sim.carrier {
					m.sim.radio.SetRSSI(-60)
				} else {
					m.sim.radio.SetRSSI(-127)
				}
				m.addLogEntry(fmt.Sprintf("carrier %v", m.sim.carrier), false)
			}

		case "d":
			if m.sim != nil {
				m.sim.digital = !m.sim.digital
				m.sim.radio.SetDigitalSquelch(m.sim.digital)
				m.addLogEntry(fmt.Sprintf("digital squelch %v", m.sim.digital), false)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.packetList.SetSize(m.width/2-4, m.height-12)

	case snapshotMsg:
		m.state = msg.state
		m.rssi = msg.rssi
		m.threshold = msg.threshold
		m.squelchOpen = msg.squelchOpen
		m.indicators = msg.indicators
		m.received = msg.received
		m.saved = msg.saved

	case packetMsg:
		m.packetList.InsertItem(len(m.packetList.Items()), packetItem{rec: msg.rec})
		src, _ := msg.rec.Source()
		m.addLogEntry(fmt.Sprintf("packet from %s", src.String()), false)
	}

	var cmd tea.Cmd
	m.packetList, cmd = m.packetList.Update(msg)
	return m, cmd
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m tuiModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	txStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("PACKETMODE - APRS MONITOR"))
	s.WriteString("\n")

	help := "Press 'q' to quit"
	if m.sim != nil {
		help = "Keys: t=PTT s=carrier d=digital squelch q=quit"
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("Connection: %s | %s", m.connInfo, help)))
	s.WriteString("\n\n")

	// Mode status
	stateStr := valueStyle.Render(m.state.String())
	if m.state == rxtx.Transmitting {
		stateStr = txStyle.Render(m.state.String())
	}

	squelchStr := headerStyle.Render("closed")
	if m.squelchOpen {
		squelchStr = valueStyle.Render("OPEN")
	}

	indicatorStr := headerStyle.Render("dark")
	switch {
	case m.indicators.Green && m.indicators.Red:
		indicatorStr = infoStyle.Render("green+red")
	case m.indicators.Green:
		indicatorStr = valueStyle.Render("green")
	case m.indicators.Red:
		indicatorStr = txStyle.Render("red")
	}

	statusContent := strings.Builder{}
	statusContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("State:"), stateStr,
		labelStyle.Render("Squelch:"), squelchStr,
		labelStyle.Render("Indicators:"), indicatorStr,
	))
	statusContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		labelStyle.Render("RSSI:"), valueStyle.Render(fmt.Sprintf("%d dBm", m.rssi)),
		labelStyle.Render("Threshold:"), headerStyle.Render(fmt.Sprintf("%d dBm", m.threshold)),
	))
	statusContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Received:"), valueStyle.Render(fmt.Sprintf("%d", m.received)),
		labelStyle.Render("Saved:"), valueStyle.Render(fmt.Sprintf("%d", m.saved)),
	))

	s.WriteString(boxStyle.Render(statusContent.String()))
	s.WriteString("\n\n")

	// Packet list and event log side by side
	logHeight := m.height - 14
	if logHeight < 5 {
		logHeight = 5
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}
	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					infoStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(m.packetList.View()),
		boxStyle.Width(m.width/2-4).Render(logContent.String()),
	))

	return s.String()
}

//////////////////////////////////////////////////////////////
// Command
//////////////////////////////////////////////////////////////

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the operating mode with a live monitor",
	Long: `Run the APRS operating mode with a full-screen monitor showing mode
state, squelch, indicators, and the received packet list.

With --sim, the signal environment is driven from the keyboard.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
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
		controls *simControls
		connInfo string
		fe       *link.FrontEnd
	)

	if useSimulator {
		radio := sim.NewRadio()
		board := sim.NewBoard()
		if cfg.Volume >= 0 {
			board.SetVolume(uint8(cfg.Volume))
		}
		trx, platform = radio, board
		controls = &simControls{radio: radio, board: board}
		connInfo = "simulator"
	} else {
		conn, info, err := OpenConnection(cfg)
		if err != nil {
			return err
		}

		fe = link.NewFrontEnd(conn,
			link.WithFrontEndLogger(logger),
			link.WithFrameHandler(func(rec *aprs.Record) {
				select {
				case frames <- rec:
				default:
				}
			}),
		)
		fe.Start()
		defer fe.Close()

		trx = fe
		platform = &hostPlatform{fe: fe, volume: cfg.Volume}
		connInfo = info
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

	threshold := rxtx.SquelchThreshold(cfg.Squelch.Level)
	p := tea.NewProgram(initialTUIModel(connInfo, controls, threshold))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Controller loop; the TUI only renders snapshots.
	done := make(chan struct{})
	go func() {
		defer close(done)
		runControllerLoop(ctx, ctrl, status, trx, frames, threshold, p.Send)
	}()

	_, runErr := p.Run()

	// The controller must run its teardown (shutdown command, indicator
	// blanking) before the connection is closed.
	cancel()
	<-done

	if runErr != nil {
		return fmt.Errorf("TUI failed: %w", runErr)
	}
	return nil
}

// runControllerLoop paces the controller until ctx is cancelled and
// tears it down before returning, reporting state to the TUI via send.
func runControllerLoop(ctx context.Context, ctrl *rxtx.Controller, status *rxtx.OperatingStatus,
	trx rxtx.Transceiver, frames <-chan *aprs.Record, threshold int, send func(tea.Msg)) {

	ctrl.Enable()
	defer ctrl.Disable()

	// Surface packets already generated by the diagnostic pass.
	lastSaved := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

	drain:
		for {
			select {
			case rec := <-frames:
				status.Packets.Insert(*rec)
				status.Received++
				status.Saved = status.Packets.Len()
			default:
				break drain
			}
		}

		ctrl.Update(status)

		if status.Saved > lastSaved {
			shown := 0
			status.Packets.Each(func(h aprs.Handle, rec *aprs.Record) bool {
				shown++
				if shown > lastSaved {
					send(packetMsg{rec: *rec})
				}
				return true
			})
			lastSaved = status.Saved
		}

		send(snapshotMsg{
			state:       status.State,
			rssi:        trx.RSSI(),
			threshold:   threshold,
			squelchOpen: ctrl.RxSquelchOpen(),
			indicators:  ctrl.Indicators(),
			received:    status.Received,
			saved:       status.Saved,
		})
	}
}
