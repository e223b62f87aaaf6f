// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

// Package homelink provides the reference Go implementation of the HomeLink
// serial protocol.
//
// HomeLink is the byte-level protocol spoken between the Hearth gateway and
// its two serial peers: the Imp cloud radio bridge and the Xbee sensor
// array. Both peers exchange the same 3-byte settings packet; only the
// framing differs per channel. This package provides the packet codec,
// per-channel framing decoders, anomaly validation, and human-readable
// formatting.
package homelink

// Frame headers and control bytes
const (
	ImpHeader0 = 0xA9 // First Imp frame header byte
	ImpHeader1 = 0x65 // Second Imp frame header byte
	XbeeHeader = 0xE3 // Xbee sensor frame header byte
	AckByte    = 0xD4 // Gateway acknowledgement header sent to the Xbee

	// DisconnectByte on any payload position signals that the peer timed
	// out or dropped the link; the exchange is abandoned without side
	// effects.
	DisconnectByte = 0xFF
)

// Flags byte bit layout (bit 7 = MSB)
const (
	FlagLightAuto = 1 << 6 // Lighting follows the ambient sensor
	FlagLightOn   = 1 << 5 // Lighting forced on
	FlagCooler    = 1 << 4 // Cooler active
	FlagHeater    = 1 << 3 // Heater active
	FlagFan       = 1 << 2 // Fan active (unimplemented in sensor array)
	FlagACAuto    = 1 << 1 // Thermostat in automatic mode

	// FlagReserved bits must be zero in packets produced by this gateway.
	FlagReserved = 1<<7 | 1<<0
)

// Value byte bit layout
const (
	// StatusRequestBit set in the temperature byte of an Imp frame marks
	// the frame as a status request rather than a set command.
	StatusRequestBit = 0x80

	// HumidityEnableBit in the humidity byte carries the humidifier
	// enable flag.
	HumidityEnableBit = 0x80

	// ValueMask extracts the 7-bit binary target or sensed value.
	ValueMask = 0x7F
)

// Frame sizes
const (
	PacketSize      = 3 // flags + temperature + humidity
	ImpFrameSize    = 5 // 2 header bytes + packet
	SensorFrameSize = 3 // header + sensed temperature + sensed humidity
	AckFrameSize    = 4 // ack byte + packet
)

// Framing decoder states (internal)
const (
	stateIdle = iota
	stateHeader1
	stateFlags
	stateTemperature
	stateHumidity
)

// TemperatureMode selects how the thermostat drives the climate units.
type TemperatureMode uint8

// Temperature mode values. The wire encoding packs these into the
// mutually-exclusive flag bits; the order here matches the front-panel
// cycle order.
const (
	TempAuto TemperatureMode = iota
	TempFan
	TempHeat
	TempCool
)

// String returns the front-panel display label for the mode.
func (m TemperatureMode) String() string {
	switch m {
	case TempAuto:
		return "Auto"
	case TempFan:
		return " Fan"
	case TempHeat:
		return " Hot"
	case TempCool:
		return "Cold"
	}
	return "????"
}

// Next returns the next mode in the front-panel cycle order.
func (m TemperatureMode) Next() TemperatureMode {
	switch m {
	case TempAuto:
		return TempFan
	case TempFan:
		return TempHeat
	case TempHeat:
		return TempCool
	}
	return TempAuto
}

// LightMode selects how the lighting circuit is driven.
type LightMode uint8

// Light mode values, in front-panel cycle order.
const (
	LightAuto LightMode = iota
	LightOff
	LightOn
)

// String returns the front-panel display label for the mode.
func (m LightMode) String() string {
	switch m {
	case LightAuto:
		return "Auto"
	case LightOff:
		return " Off"
	case LightOn:
		return " On "
	}
	return "????"
}

// Next returns the next mode in the front-panel cycle order.
func (m LightMode) Next() LightMode {
	switch m {
	case LightAuto:
		return LightOff
	case LightOff:
		return LightOn
	}
	return LightAuto
}
