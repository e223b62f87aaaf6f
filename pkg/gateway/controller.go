// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hearthworks/hearth/pkg/homelink"
	"github.com/hearthworks/hearth/pkg/nvram"
	"github.com/hearthworks/hearth/pkg/panel"
)

// Default tick pacing.
const (
	DefaultInterval   = 50 * time.Millisecond
	DefaultFaultPause = 2 * time.Second
)

// Config assembles a Controller.
type Config struct {
	Store     *nvram.Store
	Transport Transport
	Buttons   panel.ButtonSource
	Display   panel.Display

	// Interval is the sleep between ticks; FaultPause is how long the
	// corruption diagnostic stays on screen before the loop resumes.
	Interval   time.Duration
	FaultPause time.Duration

	ImpTimeout  time.Duration
	XbeeTimeout time.Duration

	Log *zap.SugaredLogger
}

// Snapshot is a point-in-time copy of the controller state, safe to hand
// to other goroutines (the WebSocket bridge, the panel TUI).
type Snapshot struct {
	Settings homelink.Settings       `cbor:"1,keyasint"`
	Sensed   homelink.SensedReadings `cbor:"2,keyasint"`
}

// Controller owns the canonical settings and runs the tick loop:
// buttons, edit machine, display, blink clock, Imp exchange, Xbee
// exchange, sleep. One logical thread; each phase runs to completion
// before the next, which is the discipline that replaces locking.
type Controller struct {
	store   *nvram.Store
	engine  *Engine
	editor  *panel.Editor
	buttons panel.ButtonSource
	display panel.Display

	interval   time.Duration
	faultPause time.Duration
	log        *zap.SugaredLogger

	mu       sync.Mutex
	settings homelink.Settings
}

// New builds a controller from the config, filling in defaults.
func New(cfg Config) *Controller {
	c := &Controller{
		store:      cfg.Store,
		engine:     NewEngine(cfg.Transport, cfg.Store),
		editor:     panel.NewEditor(),
		buttons:    cfg.Buttons,
		display:    cfg.Display,
		interval:   cfg.Interval,
		faultPause: cfg.FaultPause,
		log:        cfg.Log,
	}
	if c.interval == 0 {
		c.interval = DefaultInterval
	}
	if c.faultPause == 0 {
		c.faultPause = DefaultFaultPause
	}
	if cfg.ImpTimeout != 0 {
		c.engine.ImpTimeout = cfg.ImpTimeout
	}
	if cfg.XbeeTimeout != 0 {
		c.engine.XbeeTimeout = cfg.XbeeTimeout
	}
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	return c
}

// Editor exposes the edit state machine for front-end rendering.
func (c *Controller) Editor() *panel.Editor {
	return c.editor
}

// Snapshot returns a copy of the current settings and sensed readings.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Settings: c.settings, Sensed: c.engine.Sensed()}
}

// Bootstrap loads the persisted settings. A corruption fault is reported
// on the display and logged, the loop pauses for the configured
// interval, and operation resumes with the decoded values; keeping an
// unattended controller live beats halting it.
func (c *Controller) Bootstrap() error {
	set, err := c.store.Load()
	if err != nil {
		var ce *nvram.CorruptionError
		if !errors.As(err, &ce) {
			return err
		}
		line0, line1 := panel.FaultLines(ce.Field, ce.Slot)
		c.display.Render(line0, line1)
		c.log.Warnw("persisted data corrupt, resuming after pause",
			"field", ce.Field, "slot", ce.Slot)
		time.Sleep(c.faultPause)
	}

	c.mu.Lock()
	c.settings = set
	c.mu.Unlock()
	return nil
}

// Tick runs one control-loop iteration.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.editor.Handle(c.buttons, &c.settings, c.store); err != nil {
		c.log.Errorw("edit commit failed", "err", err)
	}

	line0, line1 := panel.RenderLines(c.settings, c.engine.Sensed(), c.editor)
	c.display.Render(line0, line1)
	c.editor.TickBlink()

	outcome, err := c.engine.ExchangeImp(&c.settings)
	switch {
	case err == nil && outcome == ImpSetApplied:
		c.log.Infow("imp set applied", "settings", c.settings)
	case err == nil && outcome == ImpStatusServed:
		c.log.Debugw("imp status served")
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrFraming):
		c.log.Debugw("imp exchange idle", "err", err)
	case err != nil:
		c.log.Warnw("imp exchange failed", "err", err)
	}

	if err := c.engine.ExchangeXbee(); err != nil {
		if errors.Is(err, ErrTimeout) || errors.Is(err, ErrFraming) {
			c.log.Debugw("xbee exchange idle", "err", err)
		} else {
			c.log.Warnw("xbee exchange failed", "err", err)
		}
	} else {
		c.log.Debugw("sensor readings updated", "sensed", c.engine.Sensed())
	}
}

// Run bootstraps the store and ticks until the context is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Bootstrap(); err != nil {
		return err
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		}
	}
}
