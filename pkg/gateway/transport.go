// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

// Package gateway contains the peer protocol engine and the control loop
// that tie the settings store, the wire codec, and the front panel
// together. Both serial peers share one UART behind a one-bit select
// line; the engine serves them strictly in sequence, never concurrently.
package gateway

import (
	"errors"
	"time"
)

// Peer identifies one of the two endpoints on the shared serial line.
type Peer uint8

const (
	// PeerImp is the cloud radio bridge.
	PeerImp Peer = iota
	// PeerXbee is the local sensor/actuator radio.
	PeerXbee
)

// String returns the peer's short name.
func (p Peer) String() string {
	if p == PeerXbee {
		return "xbee"
	}
	return "imp"
}

// Errors returned by peer exchanges. All of them are fail-soft: the
// exchange aborts with no state change and the next tick retries.
var (
	// ErrTimeout means the peer produced no byte within its budget.
	ErrTimeout = errors.New("peer read timed out")
	// ErrFraming means the received bytes did not match the expected
	// frame header.
	ErrFraming = errors.New("frame header mismatch")
	// ErrDisconnect means the peer sent the disconnect sentinel mid
	// frame.
	ErrDisconnect = errors.New("peer disconnected")
)

// Transport is the shared-line serial contract. SelectPeer switches the
// select line and allows it to settle; SendByte and ReceiveByte carry
// the peer so the implementation can assert the right selection before
// every byte, the way the hardware mux works.
type Transport interface {
	SelectPeer(p Peer) error
	SendByte(p Peer, b byte) error
	// ReceiveByte returns the next byte from the peer, or ErrTimeout
	// once the budget expires.
	ReceiveByte(p Peer, timeout time.Duration) (byte, error)
}
