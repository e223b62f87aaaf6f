// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package homelink

import (
	"fmt"
	"strings"
	"time"
)

// FormatFrame formats a decoded frame into a human-readable string for
// the sniffer log.
func FormatFrame(f *Frame, ts time.Time) string {
	stamp := ts.Format("15:04:05.000")

	switch f.Kind {
	case FrameSensor:
		return fmt.Sprintf("[%s] SENSOR temp=%d humid=%d\n",
			stamp, f.SensedTemperature, f.SensedHumidity)

	case FrameImp:
		label := "IMP_SET"
		if f.Packet.IsStatusRequest() {
			label = "IMP_STATUS_REQ"
		}
		return fmt.Sprintf("[%s] %s %s\n", stamp, label, FormatPacket(f.Packet))

	case FrameAck:
		return fmt.Sprintf("[%s] ACK %s\n", stamp, FormatPacket(f.Packet))
	}

	return fmt.Sprintf("[%s] UNKNOWN frame\n", stamp)
}

// FormatPacket formats the 3-byte settings packet on a single line.
func FormatPacket(p Packet) string {
	s := p.Decode()

	var b strings.Builder
	fmt.Fprintf(&b, "flags=0x%02X [%s]", p.Flags, FormatFlags(p.Flags))
	fmt.Fprintf(&b, " temp=%d/%s", p.Temperature&ValueMask, strings.TrimSpace(s.TempMode.String()))
	if p.IsStatusRequest() {
		b.WriteString(" (status request)")
	}
	fmt.Fprintf(&b, " humid=%d", p.Humidity&ValueMask)
	if s.HumidEnabled {
		b.WriteString("/on")
	} else {
		b.WriteString("/off")
	}
	fmt.Fprintf(&b, " light=%s", strings.TrimSpace(s.Light.String()))

	return b.String()
}

// FormatFlags lists the set flag bits by name.
func FormatFlags(flags uint8) string {
	names := []struct {
		mask uint8
		name string
	}{
		{FlagLightAuto, "LIGHT_AUTO"},
		{FlagLightOn, "LIGHT_ON"},
		{FlagCooler, "COOLER"},
		{FlagHeater, "HEATER"},
		{FlagFan, "FAN"},
		{FlagACAuto, "AC_AUTO"},
	}

	set := []string{}
	for _, n := range names {
		if flags&n.mask != 0 {
			set = append(set, n.name)
		}
	}
	if flags&FlagReserved != 0 {
		set = append(set, "RESERVED?")
	}
	if len(set) == 0 {
		return "none"
	}
	return strings.Join(set, "|")
}
