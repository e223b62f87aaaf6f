// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package homelink

import "fmt"

// FrameKind identifies a decoded HomeLink frame.
type FrameKind uint8

// Frame kinds.
const (
	// FrameImp is a 5-byte Imp frame: header pair plus a settings packet.
	// Whether it is a set command or a status request is carried in the
	// packet's temperature byte.
	FrameImp FrameKind = iota
	// FrameSensor is a 3-byte Xbee sensor report.
	FrameSensor
	// FrameAck is the 4-byte gateway acknowledgement sent to the Xbee.
	FrameAck
)

// String returns a short label for the frame kind.
func (k FrameKind) String() string {
	switch k {
	case FrameImp:
		return "IMP"
	case FrameSensor:
		return "SENSOR"
	case FrameAck:
		return "ACK"
	}
	return "UNKNOWN"
}

// Frame is a fully decoded HomeLink frame.
type Frame struct {
	Kind   FrameKind
	Packet Packet // Imp and ack frames

	// Sensor frames only; top bit already masked off.
	SensedTemperature uint8
	SensedHumidity    uint8
}

// ImpDecoder is a byte-fed framing decoder for the Imp channel. Bytes
// that do not advance the two-byte header match are discarded, so the
// decoder resynchronizes on the next header without external help.
type ImpDecoder struct {
	state  int
	packet Packet
}

// NewImpDecoder creates a decoder for Imp channel traffic.
func NewImpDecoder() *ImpDecoder {
	return &ImpDecoder{state: stateIdle}
}

// Reset returns the decoder to the header hunt.
func (d *ImpDecoder) Reset() {
	d.state = stateIdle
	d.packet = Packet{}
}

// DecodeByte processes a single byte through the decoder state machine.
// Returns a completed frame, or nil while the frame is incomplete.
// A disconnect sentinel in any payload position aborts the frame.
func (d *ImpDecoder) DecodeByte(b byte) (*Frame, error) {
	switch d.state {
	case stateIdle:
		if b == ImpHeader0 {
			d.state = stateHeader1
		}
		return nil, nil

	case stateHeader1:
		if b != ImpHeader1 {
			d.Reset()
			// The first header byte may itself start a new frame.
			if b == ImpHeader0 {
				d.state = stateHeader1
			}
			return nil, nil
		}
		d.state = stateFlags
		return nil, nil

	case stateFlags:
		if b == DisconnectByte {
			d.Reset()
			return nil, fmt.Errorf("peer disconnect sentinel in flags byte")
		}
		d.packet.Flags = b
		d.state = stateTemperature
		return nil, nil

	case stateTemperature:
		if b == DisconnectByte {
			d.Reset()
			return nil, fmt.Errorf("peer disconnect sentinel in temperature byte")
		}
		d.packet.Temperature = b
		d.state = stateHumidity
		return nil, nil

	case stateHumidity:
		if b == DisconnectByte {
			d.Reset()
			return nil, fmt.Errorf("peer disconnect sentinel in humidity byte")
		}
		d.packet.Humidity = b
		frame := &Frame{Kind: FrameImp, Packet: d.packet}
		d.Reset()
		return frame, nil

	default:
		d.Reset()
		return nil, fmt.Errorf("invalid decoder state: %d", d.state)
	}
}

// XbeeDecoder is a byte-fed framing decoder for the Xbee channel. It
// recognizes both sensor reports from the array and the gateway's own
// acknowledgements, so a sniffer on the shared line can decode either
// direction.
type XbeeDecoder struct {
	state   int
	kind    FrameKind
	payload [PacketSize]byte
	count   int
}

// NewXbeeDecoder creates a decoder for Xbee channel traffic.
func NewXbeeDecoder() *XbeeDecoder {
	return &XbeeDecoder{state: stateIdle}
}

// Reset returns the decoder to the header hunt.
func (d *XbeeDecoder) Reset() {
	d.state = stateIdle
	d.count = 0
}

// DecodeByte processes a single byte through the decoder state machine.
// Returns a completed frame, or nil while the frame is incomplete.
func (d *XbeeDecoder) DecodeByte(b byte) (*Frame, error) {
	switch d.state {
	case stateIdle:
		switch b {
		case XbeeHeader:
			d.kind = FrameSensor
			d.state = stateTemperature
		case AckByte:
			d.kind = FrameAck
			d.state = stateFlags
		}
		return nil, nil

	case stateFlags, stateTemperature, stateHumidity:
		if b == DisconnectByte {
			d.Reset()
			return nil, fmt.Errorf("peer disconnect sentinel in %s frame", d.kind)
		}
		d.payload[d.count] = b
		d.count++

		want := SensorFrameSize - 1
		if d.kind == FrameAck {
			want = AckFrameSize - 1
		}
		if d.count < want {
			d.state++
			return nil, nil
		}

		frame := &Frame{Kind: d.kind}
		if d.kind == FrameAck {
			frame.Packet = PacketFromBytes(d.payload[0], d.payload[1], d.payload[2])
		} else {
			frame.SensedTemperature = d.payload[0] & ValueMask
			frame.SensedHumidity = d.payload[1] & ValueMask
		}
		d.Reset()
		return frame, nil

	default:
		d.Reset()
		return nil, fmt.Errorf("invalid decoder state: %d", d.state)
	}
}
