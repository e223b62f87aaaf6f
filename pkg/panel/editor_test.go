// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package panel

import (
	"testing"

	"github.com/hearthworks/hearth/pkg/homelink"
)

// tickButtons is a ButtonSource holding the edges for a single tick.
type tickButtons map[Button]bool

func (b tickButtons) Pressed(btn Button) bool { return b[btn] }

// press runs one Handle tick with the given buttons down.
func press(t *testing.T, e *Editor, set *homelink.Settings, store Committer, btns ...Button) {
	t.Helper()
	edges := tickButtons{}
	for _, b := range btns {
		edges[b] = true
	}
	if store == nil {
		store = nullCommitter{}
	}
	if err := e.Handle(edges, set, store); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
}

type nullCommitter struct{}

func (nullCommitter) Commit(homelink.Settings) error { return nil }

// recordingCommitter tallies commits for the commit-once tests.
type recordingCommitter struct {
	commits []homelink.Settings
}

func (r *recordingCommitter) Commit(set homelink.Settings) error {
	r.commits = append(r.commits, set)
	return nil
}

// ============================================================
// Panel / Phase Navigation Tests
// ============================================================

func TestHandle_PanelCycles(t *testing.T) {
	e := NewEditor()
	set := homelink.DefaultSettings()

	order := []Panel{PanelHumidity, PanelLight, PanelTemperature}
	for _, want := range order {
		press(t, e, &set, nil, BtnPanel)
		if e.Panel() != want {
			t.Fatalf("Panel() = %v, want %v", e.Panel(), want)
		}
	}
}

func TestHandle_PanelButtonIgnoredMidEdit(t *testing.T) {
	e := NewEditor()
	set := homelink.DefaultSettings()

	press(t, e, &set, nil, BtnPhase)
	press(t, e, &set, nil, BtnPanel)
	if e.Panel() != PanelTemperature {
		t.Errorf("Panel() = %v, want PanelTemperature", e.Panel())
	}
	if e.Phase() != PhaseMode {
		t.Errorf("Phase() = %v, want PhaseMode", e.Phase())
	}
}

func TestHandle_PhaseCycles(t *testing.T) {
	e := NewEditor()
	set := homelink.DefaultSettings()

	order := []Phase{PhaseMode, PhaseValue, PhaseIdle}
	for _, want := range order {
		press(t, e, &set, nil, BtnPhase)
		if e.Phase() != want {
			t.Fatalf("Phase() = %v, want %v", e.Phase(), want)
		}
	}
}

func TestHandle_LightPanelHasSinglePhase(t *testing.T) {
	e := NewEditor()
	set := homelink.DefaultSettings()
	press(t, e, &set, nil, BtnPanel)
	press(t, e, &set, nil, BtnPanel) // PanelLight

	press(t, e, &set, nil, BtnPhase)
	if e.Phase() != PhaseMode {
		t.Fatalf("Phase() = %v, want PhaseMode", e.Phase())
	}
	press(t, e, &set, nil, BtnPhase)
	if e.Phase() != PhaseIdle {
		t.Fatalf("Phase() = %v, want PhaseIdle", e.Phase())
	}
}

// ============================================================
// Commit Semantics Tests
// ============================================================

func TestHandle_CommitsOnceOnReturnToIdle(t *testing.T) {
	e := NewEditor()
	set := homelink.DefaultSettings()
	store := &recordingCommitter{}

	press(t, e, &set, store, BtnPhase) // mode
	press(t, e, &set, store, BtnUp)    // Auto -> Fan
	press(t, e, &set, store, BtnPhase) // value
	press(t, e, &set, store, BtnUp)    // 75 -> 76
	press(t, e, &set, store, BtnPhase) // idle, commit

	if len(store.commits) != 1 {
		t.Fatalf("got %d commits, want 1", len(store.commits))
	}
	got := store.commits[0]
	if got.TempMode != homelink.TempFan || got.TempTarget() != 76 {
		t.Errorf("committed %+v, want Fan/76", got)
	}
	if e.Pending() {
		t.Error("Pending() = true after commit")
	}

	// A second full pass without edits must not commit again.
	press(t, e, &set, store, BtnPhase)
	press(t, e, &set, store, BtnPhase)
	press(t, e, &set, store, BtnPhase)
	if len(store.commits) != 1 {
		t.Errorf("got %d commits after no-edit session, want 1", len(store.commits))
	}
}

func TestHandle_NoCommitWithoutEdits(t *testing.T) {
	e := NewEditor()
	set := homelink.DefaultSettings()
	store := &recordingCommitter{}

	press(t, e, &set, store, BtnPhase)
	press(t, e, &set, store, BtnPhase)
	press(t, e, &set, store, BtnPhase)
	if len(store.commits) != 0 {
		t.Errorf("got %d commits, want 0", len(store.commits))
	}
}

func TestHandle_LightCommitsOnToggleBack(t *testing.T) {
	e := NewEditor()
	set := homelink.DefaultSettings()
	store := &recordingCommitter{}
	press(t, e, &set, store, BtnPanel)
	press(t, e, &set, store, BtnPanel) // PanelLight

	press(t, e, &set, store, BtnPhase)
	press(t, e, &set, store, BtnUp) // Auto -> Off
	press(t, e, &set, store, BtnPhase)

	if len(store.commits) != 1 {
		t.Fatalf("got %d commits, want 1", len(store.commits))
	}
	if store.commits[0].Light != homelink.LightOff {
		t.Errorf("committed light %v, want LightOff", store.commits[0].Light)
	}
}

// ============================================================
// Value Mutation Tests
// ============================================================

func TestHandle_ModeEditAcceptsEitherButton(t *testing.T) {
	e := NewEditor()
	set := homelink.DefaultSettings()
	press(t, e, &set, nil, BtnPhase)

	press(t, e, &set, nil, BtnUp)
	if set.TempMode != homelink.TempFan {
		t.Errorf("TempMode = %v, want TempFan", set.TempMode)
	}
	press(t, e, &set, nil, BtnDown)
	if set.TempMode != homelink.TempHeat {
		t.Errorf("TempMode = %v, want TempHeat", set.TempMode)
	}
}

func TestHandle_HumidityEnableToggles(t *testing.T) {
	e := NewEditor()
	set := homelink.DefaultSettings()
	press(t, e, &set, nil, BtnPanel) // PanelHumidity
	press(t, e, &set, nil, BtnPhase)

	press(t, e, &set, nil, BtnUp)
	if !set.HumidEnabled {
		t.Error("HumidEnabled = false after toggle")
	}
	press(t, e, &set, nil, BtnDown)
	if set.HumidEnabled {
		t.Error("HumidEnabled = true after second toggle")
	}
}

func TestTemperatureSteps(t *testing.T) {
	tests := []struct {
		name string
		from uint8
		dir  Button
		want uint8
	}{
		{"simple increment", 75, BtnUp, 76},
		{"increment with carry", 79, BtnUp, 80},
		{"89 carries to 90", 89, BtnUp, 90},
		{"past 90 wraps to 60", 90, BtnUp, 60},
		{"simple decrement", 75, BtnDown, 74},
		{"decrement with borrow", 80, BtnDown, 79},
		{"below 60 wraps to 90", 60, BtnDown, 90},
		{"61 steps to 60", 61, BtnDown, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEditor()
			set := homelink.DefaultSettings()
			set.SetTempTarget(tt.from)
			press(t, e, &set, nil, BtnPhase)
			press(t, e, &set, nil, BtnPhase) // PhaseValue

			press(t, e, &set, nil, tt.dir)
			if got := set.TempTarget(); got != tt.want {
				t.Errorf("%d %v -> %d, want %d", tt.from, tt.dir, got, tt.want)
			}
		})
	}
}

func TestHumiditySteps(t *testing.T) {
	tests := []struct {
		name string
		from uint8
		dir  Button
		want uint8
	}{
		{"simple increment", 40, BtnUp, 45},
		{"increment with carry", 45, BtnUp, 50},
		{"95 wraps to 0", 95, BtnUp, 0},
		{"odd ones digit rounds up on carry", 47, BtnUp, 50},
		{"0 steps to 5", 0, BtnUp, 5},
		{"simple decrement", 45, BtnDown, 40},
		{"5 steps to 0", 5, BtnDown, 0},
		{"decrement with borrow", 50, BtnDown, 45},
		{"0 wraps to 95", 0, BtnDown, 95},
		{"odd ones digit steps down cleanly", 47, BtnDown, 42},
		{"odd borrow lands on 5", 42, BtnDown, 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEditor()
			set := homelink.DefaultSettings()
			set.SetHumidTarget(tt.from)
			press(t, e, &set, nil, BtnPanel) // PanelHumidity
			press(t, e, &set, nil, BtnPhase)
			press(t, e, &set, nil, BtnPhase) // PhaseValue

			press(t, e, &set, nil, tt.dir)
			if got := set.HumidTarget(); got != tt.want {
				t.Errorf("%d %v -> %d, want %d", tt.from, tt.dir, got, tt.want)
			}
		})
	}
}

func TestHandle_UpWinsWhenBothValueButtonsDown(t *testing.T) {
	e := NewEditor()
	set := homelink.DefaultSettings()
	press(t, e, &set, nil, BtnPhase)
	press(t, e, &set, nil, BtnPhase)

	press(t, e, &set, nil, BtnUp, BtnDown)
	if got := set.TempTarget(); got != 76 {
		t.Errorf("TempTarget = %d, want 76", got)
	}
}

func TestHandle_ValueButtonsIgnoredWhileIdle(t *testing.T) {
	e := NewEditor()
	set := homelink.DefaultSettings()

	press(t, e, &set, nil, BtnUp)
	press(t, e, &set, nil, BtnDown)
	if set != homelink.DefaultSettings() {
		t.Errorf("settings mutated while idle: %+v", set)
	}
	if e.Pending() {
		t.Error("Pending() = true while idle")
	}
}

// ============================================================
// Blink Clock Tests
// ============================================================

func TestTickBlink_Waveform(t *testing.T) {
	e := NewEditor()

	// Counter starts at the full period; the output goes high at the
	// half-way tick and low when the period elapses.
	want := []bool{false, true, true, false, false, true, true, false}
	for i, w := range want {
		e.TickBlink()
		if e.BlinkOn() != w {
			t.Fatalf("tick %d: BlinkOn() = %v, want %v", i+1, e.BlinkOn(), w)
		}
	}
}
