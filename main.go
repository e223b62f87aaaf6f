// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks
//
// Hearth - Home Environment Gateway
//
// Firmware core of the Hearthworks home-environment controller: keeps the
// persisted environment targets synchronized with the cloud radio bridge
// (Imp) and the sensor/actuator radio (Xbee) over a shared serial line,
// and drives the operator front panel.

package main

import (
	"fmt"
	"os"

	"github.com/hearthworks/hearth/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
