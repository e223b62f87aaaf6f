// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package homelink

// Settings is the canonical environment configuration persisted by the
// gateway. Temperature and humidity targets are held as two independent
// decimal digits because the front panel edits and the persisted image
// both operate digit-wise; the binary wire value is derived on demand.
type Settings struct {
	TempTens uint8
	TempOnes uint8
	TempMode TemperatureMode

	HumidTens    uint8
	HumidOnes    uint8
	HumidEnabled bool

	Light LightMode
}

// DefaultSettings is the configuration seeded into an erased store:
// 75°F automatic climate, 40% humidity with the humidifier off, and
// automatic lighting.
func DefaultSettings() Settings {
	return Settings{
		TempTens:  7,
		TempOnes:  5,
		TempMode:  TempAuto,
		HumidTens: 4,
		HumidOnes: 0,
		Light:     LightAuto,
	}
}

// TempTarget returns the temperature target in °F.
func (s Settings) TempTarget() uint8 {
	return s.TempTens*10 + s.TempOnes
}

// HumidTarget returns the humidity target in percent.
func (s Settings) HumidTarget() uint8 {
	return s.HumidTens*10 + s.HumidOnes
}

// SetTempTarget splits a binary temperature value into digits. Values
// above 99 produce an out-of-range tens digit, which the store flags as
// corruption on the next load.
func (s *Settings) SetTempTarget(v uint8) {
	s.TempTens = v / 10
	s.TempOnes = v % 10
}

// SetHumidTarget splits a binary humidity value into digits. No range
// check is applied, matching the historical firmware behavior.
func (s *Settings) SetHumidTarget(v uint8) {
	s.HumidTens = v / 10
	s.HumidOnes = v % 10
}

// SensedReadings holds the latest values reported by the sensor array.
// They are runtime only, refreshed by the Xbee exchange, and never
// range-checked.
type SensedReadings struct {
	Temperature uint8
	Humidity    uint8
}
