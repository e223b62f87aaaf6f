// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package gateway

import (
	"fmt"
	"time"
)

// lineDepth bounds how many bytes a line buffers in each direction.
const lineDepth = 64

// Loopback is an in-memory Transport used by tests, the panel demo, and
// peersim's loop mode. Each peer line is a pair of buffered byte
// channels; PeerEnd exposes the far side so a simulated peer can talk to
// the gateway.
type Loopback struct {
	toGateway [2]chan byte
	toPeer    [2]chan byte
}

// NewLoopback creates a loopback transport with both peer lines open.
func NewLoopback() *Loopback {
	l := &Loopback{}
	for i := range l.toGateway {
		l.toGateway[i] = make(chan byte, lineDepth)
		l.toPeer[i] = make(chan byte, lineDepth)
	}
	return l
}

// SelectPeer implements Transport. The loopback has no shared line to
// settle, so selection is a no-op.
func (l *Loopback) SelectPeer(Peer) error { return nil }

// SendByte implements Transport.
func (l *Loopback) SendByte(p Peer, b byte) error {
	select {
	case l.toPeer[p] <- b:
		return nil
	default:
		return fmt.Errorf("%s line full", p)
	}
}

// ReceiveByte implements Transport.
func (l *Loopback) ReceiveByte(p Peer, timeout time.Duration) (byte, error) {
	select {
	case b := <-l.toGateway[p]:
		return b, nil
	case <-time.After(timeout):
		return 0, ErrTimeout
	}
}

// PeerEnd is the far side of one peer line.
type PeerEnd struct {
	l *Loopback
	p Peer
}

// Peer returns the far end of the given peer's line.
func (l *Loopback) Peer(p Peer) *PeerEnd {
	return &PeerEnd{l: l, p: p}
}

// Send queues bytes for the gateway to receive from this peer.
func (e *PeerEnd) Send(bytes ...byte) error {
	for _, b := range bytes {
		select {
		case e.l.toGateway[e.p] <- b:
		default:
			return fmt.Errorf("%s line full", e.p)
		}
	}
	return nil
}

// Recv returns the next byte the gateway sent to this peer.
func (e *PeerEnd) Recv(timeout time.Duration) (byte, error) {
	select {
	case b := <-e.l.toPeer[e.p]:
		return b, nil
	case <-time.After(timeout):
		return 0, ErrTimeout
	}
}

// Drain discards anything queued toward this peer and returns it.
func (e *PeerEnd) Drain() []byte {
	var out []byte
	for {
		select {
		case b := <-e.l.toPeer[e.p]:
			out = append(out, b)
		default:
			return out
		}
	}
}
