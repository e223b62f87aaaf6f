// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearthworks/hearth/pkg/homelink"
)

var (
	simRole     string
	simInterval time.Duration
	simCount    int

	// Imp role: set-command payload
	simSetTemp  int
	simSetHumid int
	simTempMode string
	simHumidOn  bool
	simLight    string
	simStatus   bool

	// Xbee role: sensor readings
	simSensedTemp  int
	simSensedHumid int
)

var peersimCmd = &cobra.Command{
	Use:   "peersim",
	Short: "Emulate a HomeLink peer for bench testing",
	Long: `Act as one of the gateway's peers on the far end of a serial or
WebSocket connection.

As the Imp (--role imp), sends a status request per interval, or a
single set command when --set-temp is given, and prints the gateway's
replies. As the Xbee (--role xbee), sends a sensor report per interval
and prints the acknowledgements.`,
	RunE: runPeersim,
}

func init() {
	rootCmd.AddCommand(peersimCmd)
	peersimCmd.Flags().StringVar(&simRole, "role", "imp", "Peer to emulate: imp or xbee")
	peersimCmd.Flags().DurationVar(&simInterval, "interval", time.Second, "Delay between frames")
	peersimCmd.Flags().IntVar(&simCount, "count", 0, "Stop after this many frames (0 = forever)")

	peersimCmd.Flags().BoolVar(&simStatus, "status", true, "Imp role: send status requests")
	peersimCmd.Flags().IntVar(&simSetTemp, "set-temp", -1, "Imp role: send one set command with this temperature target")
	peersimCmd.Flags().IntVar(&simSetHumid, "set-humid", 40, "Imp role: humidity target for the set command")
	peersimCmd.Flags().StringVar(&simTempMode, "temp-mode", "auto", "Imp role: climate mode (auto, fan, heat, cool)")
	peersimCmd.Flags().BoolVar(&simHumidOn, "humid-on", false, "Imp role: enable the humidifier in the set command")
	peersimCmd.Flags().StringVar(&simLight, "light", "auto", "Imp role: light mode (auto, off, on)")

	peersimCmd.Flags().IntVar(&simSensedTemp, "sensed-temp", 72, "Xbee role: sensed temperature")
	peersimCmd.Flags().IntVar(&simSensedHumid, "sensed-humid", 45, "Xbee role: sensed humidity")
}

func runPeersim(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Hearth - Peer Simulator (%s role)\n", simRole)
	fmt.Printf("Connection: %s\n\n", connInfo)

	switch simRole {
	case "imp":
		return simImp(conn)
	case "xbee":
		return simXbee(conn)
	default:
		return fmt.Errorf("unknown role %q (use imp or xbee)", simRole)
	}
}

// simImp plays the cloud bridge: either one set command or a stream of
// status requests.
func simImp(conn Connection) error {
	if simSetTemp >= 0 {
		p, err := buildSetPacket()
		if err != nil {
			return err
		}
		frame := []byte{homelink.ImpHeader0, homelink.ImpHeader1, p.Flags, p.Temperature, p.Humidity}
		if _, err := conn.Write(frame); err != nil {
			return fmt.Errorf("failed to send set command: %w", err)
		}
		fmt.Printf("sent SET %s\n", homelink.FormatPacket(p))
		return nil
	}

	if !simStatus {
		return fmt.Errorf("imp role needs --status or --set-temp")
	}

	sent := 0
	for simCount == 0 || sent < simCount {
		frame := []byte{homelink.ImpHeader0, homelink.ImpHeader1, 0x00, homelink.StatusRequestBit, 0x00}
		if _, err := conn.Write(frame); err != nil {
			return fmt.Errorf("failed to send status request: %w", err)
		}
		sent++

		reply := make([]byte, homelink.PacketSize)
		if err := readFull(conn, reply); err != nil {
			fmt.Printf("no reply: %v\n", err)
		} else {
			p := homelink.PacketFromBytes(reply[0], reply[1], reply[2])
			fmt.Printf("status: %s\n", homelink.FormatPacket(p))
		}
		time.Sleep(simInterval)
	}
	return nil
}

// simXbee plays the sensor array: periodic reports, printing each ack.
func simXbee(conn Connection) error {
	decoder := homelink.NewXbeeDecoder()
	sent := 0
	buf := make([]byte, 64)

	for simCount == 0 || sent < simCount {
		frame := []byte{homelink.XbeeHeader, byte(simSensedTemp) & homelink.ValueMask, byte(simSensedHumid) & homelink.ValueMask}
		if _, err := conn.Write(frame); err != nil {
			return fmt.Errorf("failed to send sensor report: %w", err)
		}
		sent++

		n, err := conn.Read(buf)
		if err != nil {
			fmt.Printf("no ack: %v\n", err)
		} else {
			for i := 0; i < n; i++ {
				f, err := decoder.DecodeByte(buf[i])
				if err != nil || f == nil {
					continue
				}
				if f.Kind == homelink.FrameAck {
					fmt.Printf("ack: %s\n", homelink.FormatPacket(f.Packet))
				}
			}
		}
		time.Sleep(simInterval)
	}
	return nil
}

// buildSetPacket assembles the Imp set-command packet from flags.
func buildSetPacket() (homelink.Packet, error) {
	var set homelink.Settings

	switch strings.ToLower(simTempMode) {
	case "auto":
		set.TempMode = homelink.TempAuto
	case "fan":
		set.TempMode = homelink.TempFan
	case "heat":
		set.TempMode = homelink.TempHeat
	case "cool":
		set.TempMode = homelink.TempCool
	default:
		return homelink.Packet{}, fmt.Errorf("unknown temp mode %q", simTempMode)
	}

	switch strings.ToLower(simLight) {
	case "auto":
		set.Light = homelink.LightAuto
	case "off":
		set.Light = homelink.LightOff
	case "on":
		set.Light = homelink.LightOn
	default:
		return homelink.Packet{}, fmt.Errorf("unknown light mode %q", simLight)
	}

	if simSetTemp > 99 || simSetHumid > 99 || simSetHumid < 0 {
		return homelink.Packet{}, fmt.Errorf("targets must be 0-99")
	}
	set.SetTempTarget(uint8(simSetTemp))
	set.SetHumidTarget(uint8(simSetHumid))
	set.HumidEnabled = simHumidOn

	return homelink.Encode(set), nil
}

// readFull fills buf from the connection, tolerating short reads.
func readFull(conn Connection, buf []byte) error {
	got := 0
	for got < len(buf) {
		n, err := conn.Read(buf[got:])
		if err != nil {
			return err
		}
		got += n
	}
	return nil
}
