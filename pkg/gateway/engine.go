// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package gateway

import (
	"fmt"
	"time"

	"github.com/hearthworks/hearth/pkg/homelink"
	"github.com/hearthworks/hearth/pkg/nvram"
)

// Default per-peer read budgets. The sensor array is slower and
// optional, so the Xbee gets the larger budget.
const (
	DefaultImpTimeout  = 50 * time.Millisecond
	DefaultXbeeTimeout = 200 * time.Millisecond
)

// ImpOutcome reports what an Imp exchange did.
type ImpOutcome uint8

const (
	// ImpNone: the exchange aborted without side effects.
	ImpNone ImpOutcome = iota
	// ImpStatusServed: the peer asked for state and got the current
	// packet; settings untouched.
	ImpStatusServed
	// ImpSetApplied: the peer set new state, which was persisted and
	// relayed to the Xbee.
	ImpSetApplied
)

// Engine runs the framed request/response exchange with each peer. It
// owns the sensed readings; the canonical settings stay with the control
// loop and are passed in per exchange.
type Engine struct {
	tr    Transport
	store *nvram.Store

	ImpTimeout  time.Duration
	XbeeTimeout time.Duration

	sensed homelink.SensedReadings
}

// NewEngine wraps a transport and store with the default budgets.
func NewEngine(tr Transport, store *nvram.Store) *Engine {
	return &Engine{
		tr:          tr,
		store:       store,
		ImpTimeout:  DefaultImpTimeout,
		XbeeTimeout: DefaultXbeeTimeout,
	}
}

// Sensed returns the latest sensor-array readings.
func (e *Engine) Sensed() homelink.SensedReadings {
	return e.sensed
}

// ExchangeImp serves one Imp request. A status request answers with the
// persisted packet and leaves settings alone; a set command persists the
// received packet, applies it to the in-memory settings, and relays the
// same three raw bytes to the Xbee. Timeouts, framing mismatches, and
// the disconnect sentinel abort with no state change.
func (e *Engine) ExchangeImp(set *homelink.Settings) (ImpOutcome, error) {
	if err := e.tr.SelectPeer(PeerImp); err != nil {
		return ImpNone, fmt.Errorf("imp select: %w", err)
	}

	b, err := e.tr.ReceiveByte(PeerImp, e.ImpTimeout)
	if err != nil {
		return ImpNone, fmt.Errorf("imp header: %w", err)
	}
	if b != homelink.ImpHeader0 {
		return ImpNone, fmt.Errorf("imp header byte 0x%02X: %w", b, ErrFraming)
	}
	if b, err = e.tr.ReceiveByte(PeerImp, e.ImpTimeout); err != nil {
		return ImpNone, fmt.Errorf("imp header: %w", err)
	}
	if b != homelink.ImpHeader1 {
		return ImpNone, fmt.Errorf("imp header byte 0x%02X: %w", b, ErrFraming)
	}

	var payload [homelink.PacketSize]byte
	for i := range payload {
		if payload[i], err = e.receivePayload(PeerImp, e.ImpTimeout); err != nil {
			return ImpNone, err
		}
	}
	p := homelink.PacketFromBytes(payload[0], payload[1], payload[2])

	if p.IsStatusRequest() {
		reply, err := e.store.CachedPacket()
		if err != nil {
			return ImpNone, fmt.Errorf("imp status: %w", err)
		}
		for _, b := range reply.Bytes() {
			if err := e.tr.SendByte(PeerImp, b); err != nil {
				return ImpNone, fmt.Errorf("imp reply: %w", err)
			}
		}
		return ImpStatusServed, nil
	}

	// Set command: persist the raw packet first, then reinterpret.
	if err := e.store.StorePacket(p); err != nil {
		return ImpNone, fmt.Errorf("imp set: %w", err)
	}
	*set = p.Decode()

	// Relay the received bytes to the Xbee verbatim, not re-encoded.
	for _, b := range payload {
		if err := e.tr.SendByte(PeerXbee, b); err != nil {
			return ImpSetApplied, fmt.Errorf("xbee relay: %w", err)
		}
	}
	return ImpSetApplied, nil
}

// ExchangeXbee polls the sensor array. On a complete frame the sensed
// readings are stored (top bit masked off) and the gateway acknowledges
// with the current flags plus the received sensor bytes echoed back.
func (e *Engine) ExchangeXbee() error {
	if err := e.tr.SelectPeer(PeerXbee); err != nil {
		return fmt.Errorf("xbee select: %w", err)
	}

	b, err := e.tr.ReceiveByte(PeerXbee, e.XbeeTimeout)
	if err != nil {
		return fmt.Errorf("xbee header: %w", err)
	}
	if b != homelink.XbeeHeader {
		return fmt.Errorf("xbee header byte 0x%02X: %w", b, ErrFraming)
	}

	rawTemp, err := e.receivePayload(PeerXbee, e.XbeeTimeout)
	if err != nil {
		return err
	}
	rawHumid, err := e.receivePayload(PeerXbee, e.XbeeTimeout)
	if err != nil {
		return err
	}

	e.sensed = homelink.SensedReadings{
		Temperature: rawTemp & homelink.ValueMask,
		Humidity:    rawHumid & homelink.ValueMask,
	}

	ack, err := e.store.CachedPacket()
	if err != nil {
		return fmt.Errorf("xbee ack: %w", err)
	}
	for _, b := range []byte{homelink.AckByte, ack.Flags, rawTemp, rawHumid} {
		if err := e.tr.SendByte(PeerXbee, b); err != nil {
			return fmt.Errorf("xbee ack: %w", err)
		}
	}
	return nil
}

// receivePayload reads one payload byte, translating the disconnect
// sentinel into an abort.
func (e *Engine) receivePayload(p Peer, timeout time.Duration) (byte, error) {
	b, err := e.tr.ReceiveByte(p, timeout)
	if err != nil {
		return 0, fmt.Errorf("%s payload: %w", p, err)
	}
	if b == homelink.DisconnectByte {
		return 0, fmt.Errorf("%s payload: %w", p, ErrDisconnect)
	}
	return b, nil
}
