// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

// Package panel implements the gateway's operator interface: the
// button-driven edit state machine over the canonical settings and the
// 2x24 character display rendering.
package panel

import (
	"github.com/hearthworks/hearth/pkg/homelink"
)

// Button identifies one of the four front-panel buttons.
type Button uint8

const (
	// BtnPanel cycles the displayed panel while nothing is being edited.
	BtnPanel Button = iota
	// BtnPhase advances the edit phase of the current panel.
	BtnPhase
	// BtnUp increments the value under edit.
	BtnUp
	// BtnDown decrements the value under edit.
	BtnDown
)

// ButtonSource delivers debounced button edges. Pressed reports true at
// most once per physical press; the implementation must wait for release
// before the same button can produce another edge.
type ButtonSource interface {
	Pressed(Button) bool
}

// Display is the external character-matrix display contract. Each line
// is at most 24 characters and is overwritten whole.
type Display interface {
	Render(line0, line1 string)
}

// Committer persists settings when an edit session ends.
type Committer interface {
	Commit(homelink.Settings) error
}

// Panel selects which settings group the display shows.
type Panel uint8

const (
	PanelTemperature Panel = iota
	PanelHumidity
	PanelLight
)

// Phase is the edit phase within a panel. The light panel has a single
// field and only toggles between PhaseIdle and PhaseMode.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseMode
	PhaseValue
)

// blinkPeriod is the tick count of the blink clock.
const blinkPeriod = 4

// Editor is the button-driven edit state machine. It owns no settings;
// the canonical Settings is passed in by the control loop each tick.
type Editor struct {
	panel   Panel
	phase   Phase
	pending bool

	blinkCounter uint8
	blinkOn      bool
}

// NewEditor returns an editor showing the temperature panel, idle.
func NewEditor() *Editor {
	return &Editor{blinkCounter: blinkPeriod}
}

// Panel returns the currently displayed panel.
func (e *Editor) Panel() Panel { return e.panel }

// Phase returns the current edit phase.
func (e *Editor) Phase() Phase { return e.phase }

// BlinkOn reports the blink phase consulted by rendering; the edited
// field is hidden while it is false.
func (e *Editor) BlinkOn() bool { return e.blinkOn }

// Pending reports whether edits await persistence.
func (e *Editor) Pending() bool { return e.pending }

// TickBlink advances the blink clock one control-loop tick.
func (e *Editor) TickBlink() {
	e.blinkCounter--
	if e.blinkCounter == 0 {
		e.blinkCounter = blinkPeriod
		e.blinkOn = false
	} else if e.blinkCounter == blinkPeriod/2 {
		e.blinkOn = true
	}
}

// Handle runs one tick of the edit state machine: panel selection, phase
// advance, and value mutation. Accepted mutations mark the session
// pending; the session commits exactly once, when the phase returns to
// idle.
func (e *Editor) Handle(btns ButtonSource, set *homelink.Settings, store Committer) error {
	// Panel selection is only live outside an edit session, and consumes
	// the whole tick.
	if e.phase == PhaseIdle && btns.Pressed(BtnPanel) {
		e.panel++
		if e.panel > PanelLight {
			e.panel = PanelTemperature
		}
		return nil
	}

	if btns.Pressed(BtnPhase) {
		if e.advancePhase() && e.pending {
			e.pending = false
			if err := store.Commit(*set); err != nil {
				return err
			}
		}
	}

	if e.phase == PhaseIdle {
		return nil
	}

	dir := buttonDirection(btns)
	if dir == dirNone {
		return nil
	}
	e.pending = true

	switch e.panel {
	case PanelTemperature:
		if e.phase == PhaseMode {
			set.TempMode = set.TempMode.Next()
		} else if dir == dirUp {
			tempIncrement(set)
		} else {
			tempDecrement(set)
		}

	case PanelHumidity:
		if e.phase == PhaseMode {
			set.HumidEnabled = !set.HumidEnabled
		} else if dir == dirUp {
			humidIncrement(set)
		} else {
			humidDecrement(set)
		}

	case PanelLight:
		set.Light = set.Light.Next()
	}

	return nil
}

// advancePhase moves to the next edit phase and reports whether the
// session just returned to idle.
func (e *Editor) advancePhase() bool {
	if e.panel == PanelLight {
		if e.phase == PhaseIdle {
			e.phase = PhaseMode
			return false
		}
		e.phase = PhaseIdle
		return true
	}

	e.phase++
	if e.phase > PhaseValue {
		e.phase = PhaseIdle
		return true
	}
	return false
}

type direction uint8

const (
	dirNone direction = iota
	dirUp
	dirDown
)

// buttonDirection polls the value buttons, up first, matching the
// hardware button scan order.
func buttonDirection(btns ButtonSource) direction {
	if btns.Pressed(BtnUp) {
		return dirUp
	}
	if btns.Pressed(BtnDown) {
		return dirDown
	}
	return dirNone
}

// Digit arithmetic below reproduces the deployed firmware byte for byte,
// including its quirks: carries and borrows act on the digits, and the
// wrap checks fire on the digit values, not the combined target.

func tempIncrement(set *homelink.Settings) {
	set.TempOnes++
	if set.TempOnes > 9 {
		set.TempOnes = 0
		set.TempTens++
	}
	// Past 90 the target wraps to 60.
	if set.TempTens == 9 && set.TempOnes > 0 {
		set.TempTens = 6
		set.TempOnes = 0
	}
}

func tempDecrement(set *homelink.Settings) {
	set.TempOnes--
	if set.TempOnes > 9 { // uint8 borrow
		set.TempOnes = 9
		set.TempTens--
	}
	// Below 60 the target wraps to 90.
	if set.TempTens == 5 {
		set.TempTens = 9
		set.TempOnes = 0
	}
}

func humidIncrement(set *homelink.Settings) {
	set.HumidOnes += 5
	if set.HumidOnes > 9 {
		set.HumidOnes = 0
		set.HumidTens++
	}
	if set.HumidTens == 10 {
		set.HumidTens = 0
	}
}

func humidDecrement(set *homelink.Settings) {
	set.HumidOnes -= 5
	if set.HumidOnes > 9 { // uint8 borrow
		set.HumidOnes = 5
		set.HumidTens--
	}
	if set.HumidTens > 9 { // uint8 borrow
		set.HumidTens = 9
	}
}
