// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package homelink

// Packet is the 3-byte settings packet exchanged with both peers. The
// same bit layout is used by the Imp frame payload, the Xbee
// acknowledgement, and the persisted packet cache; this type is the
// single codec for all of them.
//
// Flags bit layout (bit 7 = MSB):
//
//	bit 6  light auto
//	bit 5  light on
//	bit 4  cooler active
//	bit 3  heater active
//	bit 2  fan active
//	bit 1  thermostat auto
//	bits 7, 0 reserved (zero)
//
// Temperature carries the 7-bit binary target; its top bit marks an Imp
// status request. Humidity carries the 7-bit binary target plus the
// humidifier enable in the top bit.
type Packet struct {
	Flags       uint8
	Temperature uint8
	Humidity    uint8
}

// Encode produces the wire packet for the given settings. Exactly one of
// the four climate-mode bits is set; the reserved bits are always zero.
func Encode(s Settings) Packet {
	var flags uint8
	switch s.TempMode {
	case TempAuto:
		flags |= FlagACAuto
	case TempFan:
		flags |= FlagFan
	case TempHeat:
		flags |= FlagHeater
	case TempCool:
		flags |= FlagCooler
	}
	switch s.Light {
	case LightAuto:
		flags |= FlagLightAuto
	case LightOn:
		flags |= FlagLightOn
	}

	p := Packet{
		Flags:       flags,
		Temperature: s.TempTarget() & ValueMask,
		Humidity:    s.HumidTarget() & ValueMask,
	}
	if s.HumidEnabled {
		p.Humidity |= HumidityEnableBit
	}
	return p
}

// Decode recovers settings from a wire packet. The climate mode is
// priority-encoded: auto wins over fan, fan over heat, and cool is the
// fallthrough when no higher-priority bit is set. The cooler bit is never
// inspected on its own. Light decodes the same way: auto, then on, then
// off as the fallthrough.
func (p Packet) Decode() Settings {
	var s Settings

	switch {
	case p.Flags&FlagACAuto != 0:
		s.TempMode = TempAuto
	case p.Flags&FlagFan != 0:
		s.TempMode = TempFan
	case p.Flags&FlagHeater != 0:
		s.TempMode = TempHeat
	default:
		s.TempMode = TempCool
	}

	switch {
	case p.Flags&FlagLightAuto != 0:
		s.Light = LightAuto
	case p.Flags&FlagLightOn != 0:
		s.Light = LightOn
	default:
		s.Light = LightOff
	}

	s.SetTempTarget(p.Temperature & ValueMask)
	s.SetHumidTarget(p.Humidity & ValueMask)
	s.HumidEnabled = p.Humidity&HumidityEnableBit != 0

	return s
}

// IsStatusRequest reports whether the packet, received as an Imp frame
// payload, asks for the gateway's current state instead of setting it.
func (p Packet) IsStatusRequest() bool {
	return p.Temperature&StatusRequestBit != 0
}

// Bytes returns the packet in wire order.
func (p Packet) Bytes() [PacketSize]byte {
	return [PacketSize]byte{p.Flags, p.Temperature, p.Humidity}
}

// PacketFromBytes assembles a packet from wire-order bytes.
func PacketFromBytes(flags, temperature, humidity byte) Packet {
	return Packet{Flags: flags, Temperature: temperature, Humidity: humidity}
}
