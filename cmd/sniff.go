// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/hearthworks/hearth/pkg/homelink"
)

var (
	sniffChannel  string
	sniffValidate bool
)

var sniffCmd = &cobra.Command{
	Use:   "sniff",
	Short: "Display decoded HomeLink frames in human-readable format",
	Long: `Continuously decode and display HomeLink frames as they arrive on a
serial or WebSocket connection.

The Imp and Xbee channels carry different framing, so the channel being
tapped must be named with --channel. With --anomalies each decoded
settings packet is also checked for bit patterns a well-behaved peer
never produces.`,
	RunE: runSniff,
}

func init() {
	rootCmd.AddCommand(sniffCmd)
	sniffCmd.Flags().StringVar(&sniffChannel, "channel", "imp", "Channel being tapped: imp or xbee")
	sniffCmd.Flags().BoolVar(&sniffValidate, "anomalies", false, "Report packet anomalies")
}

// channelDecoder is the byte-fed decoder shape shared by both channels.
type channelDecoder interface {
	DecodeByte(b byte) (*homelink.Frame, error)
}

func runSniff(cmd *cobra.Command, args []string) error {
	var decoder channelDecoder
	switch sniffChannel {
	case "imp":
		decoder = homelink.NewImpDecoder()
	case "xbee":
		decoder = homelink.NewXbeeDecoder()
	default:
		return fmt.Errorf("unknown channel %q (use imp or xbee)", sniffChannel)
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Hearth - HomeLink Frame Log\n")
	fmt.Printf("Connection: %s (%s channel)\n", connInfo, sniffChannel)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	buf := make([]byte, 128)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			// A closed WebSocket means the tap is gone for good
			if err == ErrConnectionClosed {
				log.Printf("Connection closed")
				return nil
			}
			log.Printf("Read error: %v", err)
			continue
		}

		for i := 0; i < n; i++ {
			frame, err := decoder.DecodeByte(buf[i])
			if err != nil {
				fmt.Printf("[ERROR] %v\n", err)
				continue
			}
			if frame == nil {
				continue
			}
			fmt.Print(homelink.FormatFrame(frame, time.Now()))
			if sniffValidate && frame.Kind != homelink.FrameSensor {
				for _, v := range homelink.ValidatePacket(frame.Packet) {
					fmt.Printf("  [ANOMALY] %s\n", v.Message)
				}
			}
		}
	}
}
