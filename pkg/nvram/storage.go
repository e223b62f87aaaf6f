// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

// Package nvram persists the gateway's canonical settings in a small
// byte-addressable non-volatile image, mirroring the EEPROM map of the
// deployed controller hardware. Writes are per-byte and only issued when
// the stored value actually changes, to bound wear.
package nvram

import (
	"fmt"
	"os"
)

// Slot addresses within the persisted image. The layout is fixed; the
// spare lighting slot is kept for image compatibility.
const (
	SlotTempDigits uint8 = iota // BCD temperature target
	SlotTempMode                // climate mode in bits 7:6
	SlotHumidDigits             // BCD humidity target
	SlotHumidFlags              // humidifier enable in bit 7
	SlotLightMode               // light mode in bits 7:6
	SlotLightSpare              // unused

	// Cached wire packet, refreshed on every commit so a status reply
	// costs no recomputation.
	SlotPacketFlags
	SlotPacketTemp
	SlotPacketHumid

	SlotCount
)

// ErasedByte is the value every slot holds after a bulk erase. A fresh
// image is detected by the temperature slot carrying it.
const ErasedByte = 0xFF

// Storage is the persisted byte medium. Single-byte writes are assumed
// atomic.
type Storage interface {
	ReadByte(slot uint8) (byte, error)
	WriteByte(slot uint8, b byte) error
}

// MemStorage is an in-memory Storage for tests and the panel demo. A new
// instance starts fully erased.
type MemStorage struct {
	slots [SlotCount]byte
}

// NewMemStorage returns an erased in-memory image.
func NewMemStorage() *MemStorage {
	m := &MemStorage{}
	for i := range m.slots {
		m.slots[i] = ErasedByte
	}
	return m
}

// ReadByte implements Storage.
func (m *MemStorage) ReadByte(slot uint8) (byte, error) {
	if slot >= SlotCount {
		return 0, fmt.Errorf("slot %d out of range", slot)
	}
	return m.slots[slot], nil
}

// WriteByte implements Storage.
func (m *MemStorage) WriteByte(slot uint8, b byte) error {
	if slot >= SlotCount {
		return fmt.Errorf("slot %d out of range", slot)
	}
	m.slots[slot] = b
	return nil
}

// FileStorage backs the image with a file on disk, one byte per slot. A
// missing file is created fully erased, so first boot follows the same
// default-seeding path as fresh hardware.
type FileStorage struct {
	f *os.File
}

// OpenFileStorage opens or creates the image file at path.
func OpenFileStorage(path string) (*FileStorage, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open store image %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat store image: %w", err)
	}
	if info.Size() < int64(SlotCount) {
		erased := make([]byte, SlotCount)
		for i := range erased {
			erased[i] = ErasedByte
		}
		if _, err := f.WriteAt(erased, 0); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to initialize store image: %w", err)
		}
	}

	return &FileStorage{f: f}, nil
}

// ReadByte implements Storage.
func (s *FileStorage) ReadByte(slot uint8) (byte, error) {
	if slot >= SlotCount {
		return 0, fmt.Errorf("slot %d out of range", slot)
	}
	var buf [1]byte
	if _, err := s.f.ReadAt(buf[:], int64(slot)); err != nil {
		return 0, fmt.Errorf("failed to read slot %d: %w", slot, err)
	}
	return buf[0], nil
}

// WriteByte implements Storage. Each write is synced so the image stays
// consistent across power loss; per-byte atomicity is the medium's
// contract.
func (s *FileStorage) WriteByte(slot uint8, b byte) error {
	if slot >= SlotCount {
		return fmt.Errorf("slot %d out of range", slot)
	}
	if _, err := s.f.WriteAt([]byte{b}, int64(slot)); err != nil {
		return fmt.Errorf("failed to write slot %d: %w", slot, err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync store image: %w", err)
	}
	return nil
}

// Close releases the backing file.
func (s *FileStorage) Close() error {
	return s.f.Close()
}
