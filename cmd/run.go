// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hearthworks/hearth/pkg/gateway"
	"github.com/hearthworks/hearth/pkg/nvram"
	"github.com/hearthworks/hearth/pkg/panel"
)

var (
	runListenAddr string
	runLogLevel   string
)

// selectSettle is how long the shared line is given to settle after the
// peer-select pin flips.
const selectSettle = 5 * time.Millisecond

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the gateway controller against a serial transport",
	Long: `Run the Hearth control loop: load the persisted settings, then service
the Imp and Xbee peers over the shared serial line on every tick.

The two peers hang off one UART behind a one-bit select line driven via
RTS. There are no physical buttons in this mode; state changes arrive
from the Imp (use 'hearth panel' for interactive editing).

With --listen, a WebSocket endpoint at /state streams CBOR-encoded
snapshots of the canonical settings and sensed readings.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runListenAddr, "listen", "", "Address for the WebSocket state bridge (e.g. :8900)")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runRun(cmd *cobra.Command, args []string) error {
	log, err := newLogger(runLogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	if portName == "" {
		return fmt.Errorf("--port is required (the gateway drives a real shared line)")
	}

	mem, err := nvram.OpenFileStorage(storePath)
	if err != nil {
		return err
	}
	defer mem.Close()

	tr, err := openSerialTransport(portName, baudRate)
	if err != nil {
		return err
	}
	defer tr.Close()

	ctrl := gateway.New(gateway.Config{
		Store:     nvram.NewStore(mem),
		Transport: tr,
		Buttons:   noButtons{},
		Display:   &logDisplay{log: log},
		Log:       log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Infow("shutting down")
		cancel()
	}()

	if runListenAddr != "" {
		bridge := &stateBridge{
			snapshot: ctrl.Snapshot,
			log:      log,
		}
		go func() {
			if err := bridge.ListenAndServe(ctx, runListenAddr); err != nil {
				log.Errorw("state bridge stopped", "err", err)
			}
		}()
	}

	log.Infow("gateway starting", "port", portName, "baud", baudRate, "store", storePath)
	if err := ctrl.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// newLogger builds a console zap logger at the given level.
func newLogger(level string) (*zap.SugaredLogger, error) {
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stdout),
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core).Sugar(), nil
}

// noButtons is the button source of a headless gateway.
type noButtons struct{}

func (noButtons) Pressed(panel.Button) bool { return false }

// logDisplay stands in for the character display on a headless gateway,
// logging each change of the rendered lines.
type logDisplay struct {
	log          *zap.SugaredLogger
	line0, line1 string
}

func (d *logDisplay) Render(line0, line1 string) {
	if line0 == d.line0 && line1 == d.line1 {
		return
	}
	d.line0, d.line1 = line0, line1
	d.log.Infow("display", "line0", line0, "line1", line1)
}

// serialTransport drives both peers over one serial port, using RTS as
// the peer-select line: low selects the Imp, high the Xbee, matching
// the hardware mux.
type serialTransport struct {
	port     serial.Port
	selected gateway.Peer
	hasSel   bool
}

func openSerialTransport(portName string, baudRate int) (*serialTransport, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	return &serialTransport{port: port}, nil
}

// SelectPeer implements gateway.Transport.
func (t *serialTransport) SelectPeer(p gateway.Peer) error {
	if t.hasSel && t.selected == p {
		return nil
	}
	if err := t.port.SetRTS(p == gateway.PeerXbee); err != nil {
		return fmt.Errorf("failed to drive select line: %w", err)
	}
	t.selected = p
	t.hasSel = true
	time.Sleep(selectSettle)
	return nil
}

// SendByte implements gateway.Transport.
func (t *serialTransport) SendByte(p gateway.Peer, b byte) error {
	if err := t.SelectPeer(p); err != nil {
		return err
	}
	if _, err := t.port.Write([]byte{b}); err != nil {
		return fmt.Errorf("failed to send byte: %w", err)
	}
	return nil
}

// ReceiveByte implements gateway.Transport.
func (t *serialTransport) ReceiveByte(p gateway.Peer, timeout time.Duration) (byte, error) {
	if err := t.SelectPeer(p); err != nil {
		return 0, err
	}
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return 0, fmt.Errorf("failed to set read timeout: %w", err)
	}
	var buf [1]byte
	n, err := t.port.Read(buf[:])
	if err != nil {
		return 0, fmt.Errorf("serial read: %w", err)
	}
	if n == 0 {
		return 0, gateway.ErrTimeout
	}
	return buf[0], nil
}

// Close releases the port.
func (t *serialTransport) Close() error {
	return t.port.Close()
}
