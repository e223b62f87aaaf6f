// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hearthworks/hearth/pkg/gateway"
	"github.com/hearthworks/hearth/pkg/homelink"
	"github.com/hearthworks/hearth/pkg/nvram"
	"github.com/hearthworks/hearth/pkg/panel"
)

var panelDemo bool

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Interactive front panel (emulated display and buttons)",
	Long: `Drive the gateway through an emulated front panel: the 2x24 character
display is rendered in the terminal and the four controller buttons map
to keys.

With --demo the gateway runs against an in-memory transport with a
simulated sensor array, so the panel can be explored without hardware.
With --port it drives the real shared line while you edit.`,
	RunE: runPanel,
}

func init() {
	rootCmd.AddCommand(panelCmd)
	panelCmd.Flags().BoolVar(&panelDemo, "demo", false, "Use an in-memory transport with a simulated sensor array")
}

//////////////////////////////////////////////////////////////
// Button and display plumbing
//////////////////////////////////////////////////////////////

// buttonLatch adapts key presses to the debounced-edge button contract:
// a key event is already one edge per physical press, so each press is
// latched until the edit machine consumes it.
type buttonLatch struct {
	mu      sync.Mutex
	pressed [4]bool
}

func (b *buttonLatch) press(btn panel.Button) {
	b.mu.Lock()
	b.pressed[btn] = true
	b.mu.Unlock()
}

// Pressed implements panel.ButtonSource.
func (b *buttonLatch) Pressed(btn panel.Button) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pressed[btn] {
		b.pressed[btn] = false
		return true
	}
	return false
}

// screenBuf holds the last rendered display lines for the view.
type screenBuf struct {
	mu           sync.Mutex
	line0, line1 string
}

// Render implements panel.Display.
func (s *screenBuf) Render(line0, line1 string) {
	s.mu.Lock()
	s.line0, s.line1 = line0, line1
	s.mu.Unlock()
}

func (s *screenBuf) lines() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line0, s.line1
}

//////////////////////////////////////////////////////////////
// Key bindings
//////////////////////////////////////////////////////////////

type panelKeyMap struct {
	Panel key.Binding
	Phase key.Binding
	Up    key.Binding
	Down  key.Binding
	Quit  key.Binding
}

func defaultPanelKeyMap() panelKeyMap {
	return panelKeyMap{
		Panel: key.NewBinding(
			key.WithKeys("tab", "m"),
			key.WithHelp("tab", "next panel"),
		),
		Phase: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter", "edit phase"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "+", "k"),
			key.WithHelp("↑", "increment"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "-", "j"),
			key.WithHelp("↓", "decrement"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

//////////////////////////////////////////////////////////////
// Bubble Tea model
//////////////////////////////////////////////////////////////

type panelTickMsg struct{}

type panelModel struct {
	ctrl     *gateway.Controller
	buttons  *buttonLatch
	screen   *screenBuf
	keys     panelKeyMap
	connInfo string
	interval time.Duration
	quitting bool
}

func (m panelModel) Init() tea.Cmd {
	return m.tickCmd()
}

// tickCmd runs one controller tick off the UI goroutine, then reports
// back so the next tick gets scheduled.
func (m panelModel) tickCmd() tea.Cmd {
	return func() tea.Msg {
		time.Sleep(m.interval)
		m.ctrl.Tick()
		return panelTickMsg{}
	}
}

func (m panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Panel):
			m.buttons.press(panel.BtnPanel)
		case key.Matches(msg, m.keys.Phase):
			m.buttons.press(panel.BtnPhase)
		case key.Matches(msg, m.keys.Up):
			m.buttons.press(panel.BtnUp)
		case key.Matches(msg, m.keys.Down):
			m.buttons.press(panel.BtnDown)
		}
		return m, nil

	case panelTickMsg:
		return m, m.tickCmd()
	}
	return m, nil
}

var (
	lcdStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("22"))

	panelTitleStyle = lipgloss.NewStyle().Bold(true)
	panelHelpStyle  = lipgloss.NewStyle().Faint(true)
)

func (m panelModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	line0, line1 := m.screen.lines()
	snap := m.ctrl.Snapshot()

	var s strings.Builder
	s.WriteString(panelTitleStyle.Render("Hearth Front Panel"))
	s.WriteString("  " + panelHelpStyle.Render(m.connInfo) + "\n\n")
	s.WriteString(lcdStyle.Render(line0+"\n"+line1) + "\n\n")

	s.WriteString(fmt.Sprintf("  target %d°F %s   humidity %d%% (%s)   light %s\n",
		snap.Settings.TempTarget(),
		strings.TrimSpace(snap.Settings.TempMode.String()),
		snap.Settings.HumidTarget(),
		onOff(snap.Settings.HumidEnabled),
		strings.TrimSpace(snap.Settings.Light.String())))
	s.WriteString(fmt.Sprintf("  sensed %d°F / %d%%\n\n",
		snap.Sensed.Temperature, snap.Sensed.Humidity))

	s.WriteString(panelHelpStyle.Render(
		"  tab: next panel • enter: edit phase • ↑/↓: adjust • q: quit\n"))
	return s.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

//////////////////////////////////////////////////////////////
// Command
//////////////////////////////////////////////////////////////

func runPanel(cmd *cobra.Command, args []string) error {
	mem, err := nvram.OpenFileStorage(storePath)
	if err != nil {
		return err
	}
	defer mem.Close()

	var (
		tr       gateway.Transport
		connInfo string
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch {
	case panelDemo || portName == "":
		loop := gateway.NewLoopback()
		go simulateSensorArray(ctx, loop.Peer(gateway.PeerXbee))
		go drainImpLine(ctx, loop.Peer(gateway.PeerImp))
		tr = loop
		connInfo = "demo transport"
	default:
		st, err := openSerialTransport(portName, baudRate)
		if err != nil {
			return err
		}
		defer st.Close()
		tr = st
		connInfo = fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate)
	}

	buttons := &buttonLatch{}
	screen := &screenBuf{}
	ctrl := gateway.New(gateway.Config{
		Store:     nvram.NewStore(mem),
		Transport: tr,
		Buttons:   buttons,
		Display:   screen,
		Log:       zap.NewNop().Sugar(),

		// Keep the UI responsive: peer budgets shrink because a silent
		// loopback would otherwise spend the whole tick waiting.
		ImpTimeout:  5 * time.Millisecond,
		XbeeTimeout: 5 * time.Millisecond,
	})
	if err := ctrl.Bootstrap(); err != nil {
		return err
	}

	m := panelModel{
		ctrl:     ctrl,
		buttons:  buttons,
		screen:   screen,
		keys:     defaultPanelKeyMap(),
		connInfo: connInfo,
		interval: 50 * time.Millisecond,
	}

	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

// simulateSensorArray plays the Xbee sensor peer: a report roughly every
// second with readings that wander around room conditions.
func simulateSensorArray(ctx context.Context, end *gateway.PeerEnd) {
	temp, humid := uint8(71), uint8(43)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			temp = wander(temp, 60, 85)
			humid = wander(humid, 30, 60)
			end.Send(homelink.XbeeHeader, temp, humid)
			end.Drain() // discard acks and relayed set commands
		}
	}
}

// drainImpLine keeps the demo Imp line from backing up with status
// traffic the simulator never reads.
func drainImpLine(ctx context.Context, end *gateway.PeerEnd) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			end.Drain()
		}
	}
}

func wander(v, lo, hi uint8) uint8 {
	switch rand.Intn(3) {
	case 0:
		if v > lo {
			v--
		}
	case 1:
		if v < hi {
			v++
		}
	}
	return v
}
