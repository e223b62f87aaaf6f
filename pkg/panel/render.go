// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package panel

import (
	"fmt"
	"strings"

	"github.com/hearthworks/hearth/pkg/homelink"
)

// LineWidth is the character capacity of one display line.
const LineWidth = 24

// RenderLines produces the two display lines for the current panel. The
// text layout reproduces the shipped firmware, including blink hiding of
// the field under edit.
func RenderLines(set homelink.Settings, sensed homelink.SensedReadings, e *Editor) (string, string) {
	switch e.panel {
	case PanelHumidity:
		return humidityLines(set, sensed, e)
	case PanelLight:
		return lightLines(set, e)
	default:
		return temperatureLines(set, sensed, e)
	}
}

// temperatureLines renders, for example:
//
//	T        Type: Cold
//	   Actual/Set: 70/75 F
func temperatureLines(set homelink.Settings, sensed homelink.SensedReadings, e *Editor) (string, string) {
	modeDisp := set.TempMode.String()
	if e.phase == PhaseMode && !e.blinkOn {
		modeDisp = "   "
	}
	line0 := "T        Type: " + modeDisp + "     "

	hideValue := e.phase == PhaseValue && !e.blinkOn
	line1 := "   Actual/Set: " +
		sensedDigits(sensed.Temperature) + "/" +
		digit(set.TempTens, hideValue) + digit(set.TempOnes, hideValue) + " F  "

	return pad(line0), pad(line1)
}

// humidityLines renders, for example:
//
//	H      Humidifer: Off
//	 Hum Actual/Set: 40/40%
func humidityLines(set homelink.Settings, sensed homelink.SensedReadings, e *Editor) (string, string) {
	humDisp := "Off"
	if set.HumidEnabled {
		humDisp = " On"
	}
	if e.phase == PhaseMode && !e.blinkOn {
		humDisp = "   "
	}
	line0 := "H      Humidifer: " + humDisp + "   "

	hideValue := e.phase == PhaseValue && !e.blinkOn
	line1 := " Hum Actual/Set: " +
		sensedDigits(sensed.Humidity) + "/" +
		digit(set.HumidTens, hideValue) + digit(set.HumidOnes, hideValue) + "%"

	return pad(line0), pad(line1)
}

// lightLines renders, for example:
//
//	L
//	    Lighting: Auto
func lightLines(set homelink.Settings, e *Editor) (string, string) {
	lightDisp := set.Light.String()
	if e.phase != PhaseIdle && !e.blinkOn {
		lightDisp = "      "
	}
	line0 := "L"
	line1 := "    Lighting: " + lightDisp + "      "

	return pad(line0), pad(line1)
}

// FaultLines renders the corruption diagnostic shown when the store
// decodes out-of-range digits.
func FaultLines(field string, slot uint8) (string, string) {
	line0 := "Data corruption during"
	line1 := fmt.Sprintf("read! %s 0x%02X", field, slot)
	return pad(line0), pad(line1)
}

// sensedDigits prints a sensed reading as two decimal digits, the way
// the firmware split it, so values over 99 show their raw digit pair.
func sensedDigits(v uint8) string {
	return fmt.Sprintf("%d%d", v/10, v%10)
}

// digit prints a single target digit, blanked while blink-hidden.
func digit(d uint8, hide bool) string {
	if hide {
		return " "
	}
	return fmt.Sprintf("%d", d)
}

// pad fits a line to exactly LineWidth characters.
func pad(line string) string {
	if len(line) > LineWidth {
		return line[:LineWidth]
	}
	return line + strings.Repeat(" ", LineWidth-len(line))
}
