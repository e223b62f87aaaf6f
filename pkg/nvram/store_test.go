// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package nvram

import (
	"errors"
	"testing"

	"github.com/hearthworks/hearth/pkg/homelink"
)

// countingStorage wraps a Storage and tallies physical writes, so wear
// behavior is observable.
type countingStorage struct {
	Storage
	writes int
}

func (c *countingStorage) WriteByte(slot uint8, b byte) error {
	c.writes++
	return c.Storage.WriteByte(slot, b)
}

// ============================================================
// Seeding Tests
// ============================================================

func TestLoad_ErasedStoreSeedsDefaults(t *testing.T) {
	mem := NewMemStorage()
	store := NewStore(mem)

	set, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if set != homelink.DefaultSettings() {
		t.Errorf("Load() = %+v, want defaults %+v", set, homelink.DefaultSettings())
	}

	// The seeded image must carry the exact slot bytes, including the
	// spare slot and a packet cache coherent with the defaults.
	wantSlots := map[uint8]byte{
		SlotTempDigits:  0x75,
		SlotTempMode:    byte(homelink.TempAuto) << 6,
		SlotHumidDigits: 0x40,
		SlotHumidFlags:  0x00,
		SlotLightMode:   byte(homelink.LightAuto) << 6,
		SlotLightSpare:  0x00,
		SlotPacketFlags: homelink.FlagACAuto | homelink.FlagLightAuto,
		SlotPacketTemp:  75,
		SlotPacketHumid: 40,
	}
	for slot, want := range wantSlots {
		got, err := mem.ReadByte(slot)
		if err != nil {
			t.Fatalf("ReadByte(%d) error: %v", slot, err)
		}
		if got != want {
			t.Errorf("slot %d = 0x%02X, want 0x%02X", slot, got, want)
		}
	}
}

func TestLoad_SecondLoadDoesNotReseed(t *testing.T) {
	mem := NewMemStorage()
	store := NewStore(mem)
	if _, err := store.Load(); err != nil {
		t.Fatalf("first Load() error: %v", err)
	}

	changed := homelink.DefaultSettings()
	changed.TempTens, changed.TempOnes = 8, 2
	changed.Light = homelink.LightOn
	if err := store.Commit(changed); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	set, err := store.Load()
	if err != nil {
		t.Fatalf("second Load() error: %v", err)
	}
	if set != changed {
		t.Errorf("Load() = %+v, want committed %+v", set, changed)
	}
}

// ============================================================
// Commit / Load Tests
// ============================================================

func TestCommitLoad_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		set  homelink.Settings
	}{
		{"heat with humidifier", homelink.Settings{
			TempTens: 6, TempOnes: 8, TempMode: homelink.TempHeat,
			HumidTens: 5, HumidOnes: 5, HumidEnabled: true, Light: homelink.LightOn,
		}},
		{"cool light off", homelink.Settings{
			TempTens: 9, TempOnes: 0, TempMode: homelink.TempCool,
			HumidTens: 0, HumidOnes: 0, Light: homelink.LightOff,
		}},
		{"fan auto light", homelink.Settings{
			TempTens: 7, TempOnes: 2, TempMode: homelink.TempFan,
			HumidTens: 9, HumidOnes: 5, Light: homelink.LightAuto,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(NewMemStorage())
			if _, err := store.Load(); err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if err := store.Commit(tt.set); err != nil {
				t.Fatalf("Commit() error: %v", err)
			}
			got, err := store.Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if got != tt.set {
				t.Errorf("Load() = %+v, want %+v", got, tt.set)
			}
		})
	}
}

func TestCommit_SkipsUnchangedSlots(t *testing.T) {
	counting := &countingStorage{Storage: NewMemStorage()}
	store := NewStore(counting)
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Re-committing identical settings must not touch the medium.
	counting.writes = 0
	if err := store.Commit(homelink.DefaultSettings()); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if counting.writes != 0 {
		t.Errorf("identical commit wrote %d slots, want 0", counting.writes)
	}

	// Changing one digit touches only its slot, its packet-cache byte,
	// and nothing else.
	set := homelink.DefaultSettings()
	set.TempOnes = 6
	if err := store.Commit(set); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if counting.writes != 2 {
		t.Errorf("single-digit commit wrote %d slots, want 2", counting.writes)
	}
}

func TestCachedPacket_TracksCommit(t *testing.T) {
	store := NewStore(NewMemStorage())
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	set := homelink.Settings{
		TempTens: 8, TempOnes: 0, TempMode: homelink.TempCool,
		HumidTens: 6, HumidOnes: 5, HumidEnabled: true, Light: homelink.LightOn,
	}
	if err := store.Commit(set); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	p, err := store.CachedPacket()
	if err != nil {
		t.Fatalf("CachedPacket() error: %v", err)
	}
	if want := homelink.Encode(set); p != want {
		t.Errorf("CachedPacket() = %+v, want %+v", p, want)
	}
}

// ============================================================
// StorePacket Tests
// ============================================================

func TestStorePacket_CachesRawBytes(t *testing.T) {
	mem := NewMemStorage()
	store := NewStore(mem)
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Redundant mode bits: re-encoding the decoded settings would not
	// reproduce these flags, so the cache must hold the bytes verbatim.
	p := homelink.PacketFromBytes(homelink.FlagACAuto|homelink.FlagFan, 0x4B, 0x28)
	if err := store.StorePacket(p); err != nil {
		t.Fatalf("StorePacket() error: %v", err)
	}

	cached, err := store.CachedPacket()
	if err != nil {
		t.Fatalf("CachedPacket() error: %v", err)
	}
	if cached != p {
		t.Errorf("CachedPacket() = %+v, want verbatim %+v", cached, p)
	}
}

func TestStorePacket_DerivesSettingsSlots(t *testing.T) {
	mem := NewMemStorage()
	store := NewStore(mem)
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	p := homelink.PacketFromBytes(homelink.FlagHeater|homelink.FlagLightOn, 68, 0x80|55)
	if err := store.StorePacket(p); err != nil {
		t.Fatalf("StorePacket() error: %v", err)
	}

	set, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := homelink.Settings{
		TempTens: 6, TempOnes: 8, TempMode: homelink.TempHeat,
		HumidTens: 5, HumidOnes: 5, HumidEnabled: true, Light: homelink.LightOn,
	}
	if set != want {
		t.Errorf("Load() = %+v, want %+v", set, want)
	}
}

// ============================================================
// Corruption Tests
// ============================================================

func TestLoad_CorruptTemperatureDigits(t *testing.T) {
	mem := NewMemStorage()
	store := NewStore(mem)
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := mem.WriteByte(SlotTempDigits, 0xC3); err != nil {
		t.Fatalf("WriteByte() error: %v", err)
	}

	set, err := store.Load()
	if err == nil {
		t.Fatal("Load() returned nil error for corrupt digits")
	}
	if !IsCorruption(err) {
		t.Fatalf("Load() error %v is not a CorruptionError", err)
	}
	var ce *CorruptionError
	if !errors.As(err, &ce) || ce.Slot != SlotTempDigits || ce.Field != "temperature" {
		t.Errorf("CorruptionError = %+v, want slot %d field temperature", ce, SlotTempDigits)
	}

	// The decoded settings come back anyway so the caller can resume.
	if set.TempTens != 0xC || set.TempOnes != 3 {
		t.Errorf("decoded digits = %d,%d, want 12,3", set.TempTens, set.TempOnes)
	}
}

func TestLoad_HumidityDigitsNotValidated(t *testing.T) {
	mem := NewMemStorage()
	store := NewStore(mem)
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := mem.WriteByte(SlotHumidDigits, 0xEE); err != nil {
		t.Fatalf("WriteByte() error: %v", err)
	}

	if _, err := store.Load(); err != nil {
		t.Errorf("Load() error for humidity digits: %v, want nil", err)
	}
}
