// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package nvram

import (
	"errors"
	"fmt"

	"github.com/hearthworks/hearth/pkg/homelink"
)

// CorruptionError reports out-of-decimal BCD digits found while loading
// the persisted temperature target. The equivalent humidity check is
// deliberately absent, matching the deployed firmware.
type CorruptionError struct {
	Slot  uint8
	Field string
}

// Error implements the error interface.
func (e *CorruptionError) Error() string {
	return fmt.Sprintf("data corruption reading %s (slot 0x%02X)", e.Field, e.Slot)
}

// IsCorruption reports whether err is a store corruption fault.
func IsCorruption(err error) bool {
	var ce *CorruptionError
	return errors.As(err, &ce)
}

// Store reads and writes the canonical Settings in the persisted image.
type Store struct {
	mem Storage
}

// NewStore wraps a Storage medium.
func NewStore(mem Storage) *Store {
	return &Store{mem: mem}
}

// Load reads the persisted settings. A fully erased image is seeded with
// the defaults first. If the temperature digits are out of decimal range
// a CorruptionError is returned alongside the decoded settings; the
// caller decides whether to keep running with them.
func (s *Store) Load() (homelink.Settings, error) {
	probe, err := s.mem.ReadByte(SlotTempDigits)
	if err != nil {
		return homelink.Settings{}, fmt.Errorf("failed to probe store: %w", err)
	}
	if probe == ErasedByte {
		defaults := homelink.DefaultSettings()
		if err := s.seed(defaults); err != nil {
			return homelink.Settings{}, fmt.Errorf("failed to seed defaults: %w", err)
		}
		return defaults, nil
	}

	var slots [SlotCount]byte
	for slot := uint8(0); slot < SlotLightSpare; slot++ {
		if slots[slot], err = s.mem.ReadByte(slot); err != nil {
			return homelink.Settings{}, fmt.Errorf("failed to read slot %d: %w", slot, err)
		}
	}

	set := homelink.Settings{
		TempTens:     slots[SlotTempDigits] >> 4,
		TempOnes:     slots[SlotTempDigits] & 0x0F,
		TempMode:     homelink.TemperatureMode(slots[SlotTempMode] >> 6),
		HumidTens:    slots[SlotHumidDigits] >> 4,
		HumidOnes:    slots[SlotHumidDigits] & 0x0F,
		HumidEnabled: slots[SlotHumidFlags]&0x80 != 0,
		Light:        homelink.LightMode(slots[SlotLightMode] >> 6),
	}

	if set.TempTens > 9 || set.TempOnes > 9 {
		return set, &CorruptionError{Slot: SlotTempDigits, Field: "temperature"}
	}
	// if set.HumidTens > 9 || set.HumidOnes > 9 { ... } — not enforced,
	// see the humidity-validation note in DESIGN.md.

	return set, nil
}

// Commit writes back every slot whose persisted value differs from the
// given settings, then refreshes the cached wire packet. Related slots
// for one field are written together so a power cut between fields still
// leaves a decodable image.
func (s *Store) Commit(set homelink.Settings) error {
	writes := []struct {
		slot uint8
		b    byte
	}{
		{SlotTempDigits, set.TempTens<<4 | set.TempOnes&0x0F},
		{SlotTempMode, byte(set.TempMode) << 6},
		{SlotHumidDigits, set.HumidTens<<4 | set.HumidOnes&0x0F},
		{SlotHumidFlags, humidFlagByte(set.HumidEnabled)},
		{SlotLightMode, byte(set.Light) << 6},
	}
	for _, w := range writes {
		if err := s.update(w.slot, w.b); err != nil {
			return err
		}
	}

	return s.cachePacket(homelink.Encode(set))
}

// CachedPacket returns the wire packet cached by the last commit or
// StorePacket, so a status reply needs no recomputation.
func (s *Store) CachedPacket() (homelink.Packet, error) {
	flags, err := s.mem.ReadByte(SlotPacketFlags)
	if err != nil {
		return homelink.Packet{}, fmt.Errorf("failed to read packet cache: %w", err)
	}
	temp, err := s.mem.ReadByte(SlotPacketTemp)
	if err != nil {
		return homelink.Packet{}, fmt.Errorf("failed to read packet cache: %w", err)
	}
	humid, err := s.mem.ReadByte(SlotPacketHumid)
	if err != nil {
		return homelink.Packet{}, fmt.Errorf("failed to read packet cache: %w", err)
	}
	return homelink.PacketFromBytes(flags, temp, humid), nil
}

// StorePacket persists a packet received from the Imp exactly as sent,
// then re-derives the settings slots from it. The raw bytes land in the
// cache before reinterpretation so a downstream forward always matches
// what was received.
func (s *Store) StorePacket(p homelink.Packet) error {
	if err := s.cachePacket(p); err != nil {
		return err
	}

	set := p.Decode()
	writes := []struct {
		slot uint8
		b    byte
	}{
		{SlotTempDigits, set.TempTens<<4 | set.TempOnes&0x0F},
		{SlotTempMode, byte(set.TempMode) << 6},
		{SlotHumidDigits, set.HumidTens<<4 | set.HumidOnes&0x0F},
		{SlotHumidFlags, humidFlagByte(set.HumidEnabled)},
		{SlotLightMode, byte(set.Light) << 6},
	}
	for _, w := range writes {
		if err := s.update(w.slot, w.b); err != nil {
			return err
		}
	}
	return nil
}

// seed writes the full image for a fresh store, including the spare slot
// and an encoded packet cache coherent with the defaults.
func (s *Store) seed(set homelink.Settings) error {
	if err := s.Commit(set); err != nil {
		return err
	}
	return s.update(SlotLightSpare, 0)
}

func (s *Store) cachePacket(p homelink.Packet) error {
	writes := []struct {
		slot uint8
		b    byte
	}{
		{SlotPacketFlags, p.Flags},
		{SlotPacketTemp, p.Temperature},
		{SlotPacketHumid, p.Humidity},
	}
	for _, w := range writes {
		if err := s.update(w.slot, w.b); err != nil {
			return err
		}
	}
	return nil
}

// update writes a slot only when its stored value differs.
func (s *Store) update(slot uint8, b byte) error {
	cur, err := s.mem.ReadByte(slot)
	if err == nil && cur == b {
		return nil
	}
	if err := s.mem.WriteByte(slot, b); err != nil {
		return fmt.Errorf("failed to update slot %d: %w", slot, err)
	}
	return nil
}

func humidFlagByte(enabled bool) byte {
	if enabled {
		return 0x80
	}
	return 0
}
