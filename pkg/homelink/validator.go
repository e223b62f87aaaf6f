// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package homelink

import "fmt"

// AnomalyType classifies packet anomalies found during validation.
type AnomalyType int

const (
	AnomalyReservedBits AnomalyType = iota
	AnomalyModeConflict
	AnomalyNoMode
	AnomalyTempOutOfRange
	AnomalyHumidOutOfRange
	AnomalyBadDigits
)

// ValidationError describes a single packet anomaly.
type ValidationError struct {
	Type    AnomalyType
	Message string
	Details map[string]interface{}
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidatePacket checks a packet for anomalies that a well-behaved peer
// never produces. The gateway itself treats decode as total (the
// priority fallthroughs cover every bit pattern); validation exists for
// the sniffer and bench tools to call out suspicious traffic.
// Returns a slice of validation errors (empty if the packet is clean).
func ValidatePacket(p Packet) []ValidationError {
	errors := []ValidationError{}

	if p.Flags&FlagReserved != 0 {
		errors = append(errors, ValidationError{
			Type:    AnomalyReservedBits,
			Message: fmt.Sprintf("Reserved flag bits set (flags=0x%02X)", p.Flags),
			Details: map[string]interface{}{"flags": p.Flags},
		})
	}

	modeBits := 0
	for _, mask := range []uint8{FlagACAuto, FlagFan, FlagHeater, FlagCooler} {
		if p.Flags&mask != 0 {
			modeBits++
		}
	}
	switch {
	case modeBits == 0:
		errors = append(errors, ValidationError{
			Type:    AnomalyNoMode,
			Message: "No climate-mode bit set (decodes as Cool by fallthrough)",
			Details: map[string]interface{}{"flags": p.Flags},
		})
	case modeBits > 1:
		errors = append(errors, ValidationError{
			Type:    AnomalyModeConflict,
			Message: fmt.Sprintf("Multiple climate-mode bits set (flags=0x%02X)", p.Flags),
			Details: map[string]interface{}{"flags": p.Flags, "count": modeBits},
		})
	}

	if p.Flags&FlagLightAuto != 0 && p.Flags&FlagLightOn != 0 {
		errors = append(errors, ValidationError{
			Type:    AnomalyModeConflict,
			Message: "Both light-mode bits set (auto wins on decode)",
			Details: map[string]interface{}{"flags": p.Flags},
		})
	}

	if t := p.Temperature & ValueMask; t > 99 {
		errors = append(errors, ValidationError{
			Type:    AnomalyTempOutOfRange,
			Message: fmt.Sprintf("Temperature target %d exceeds two digits (corrupts the BCD store)", t),
			Details: map[string]interface{}{"temperature": t},
		})
	}

	if h := p.Humidity & ValueMask; h > 99 {
		errors = append(errors, ValidationError{
			Type:    AnomalyHumidOutOfRange,
			Message: fmt.Sprintf("Humidity target %d exceeds two digits", h),
			Details: map[string]interface{}{"humidity": h},
		})
	}

	return errors
}

// ValidateBCD checks a persisted BCD byte for out-of-decimal nibbles.
// Returns a validation error for each bad digit.
func ValidateBCD(b byte) []ValidationError {
	errors := []ValidationError{}

	if high := b >> 4; high > 9 {
		errors = append(errors, ValidationError{
			Type:    AnomalyBadDigits,
			Message: fmt.Sprintf("High BCD nibble out of range: 0x%X", high),
			Details: map[string]interface{}{"nibble": high},
		})
	}
	if low := b & 0x0F; low > 9 {
		errors = append(errors, ValidationError{
			Type:    AnomalyBadDigits,
			Message: fmt.Sprintf("Low BCD nibble out of range: 0x%X", low),
			Details: map[string]interface{}{"nibble": low},
		})
	}

	return errors
}
