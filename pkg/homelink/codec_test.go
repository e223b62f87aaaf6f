// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Hearthworks

package homelink

import "testing"

// ============================================================
// Codec Tests
// ============================================================

func TestEncode_KnownVectors(t *testing.T) {
	tests := []struct {
		name string
		set  Settings
		want Packet
	}{
		{
			name: "defaults: 75F auto, 40% off, light auto",
			set:  DefaultSettings(),
			want: Packet{Flags: FlagACAuto | FlagLightAuto, Temperature: 75, Humidity: 40},
		},
		{
			name: "75F auto, 40% off, light off",
			set: Settings{
				TempTens: 7, TempOnes: 5, TempMode: TempAuto,
				HumidTens: 4, HumidOnes: 0, Light: LightOff,
			},
			want: Packet{Flags: 0x02, Temperature: 0x4B, Humidity: 0x28},
		},
		{
			name: "75F fan, light on",
			set: Settings{
				TempTens: 7, TempOnes: 5, TempMode: TempFan,
				HumidTens: 4, HumidOnes: 0, Light: LightOn,
			},
			want: Packet{Flags: FlagFan | FlagLightOn, Temperature: 75, Humidity: 40},
		},
		{
			name: "60F cool, 95% humidifier on",
			set: Settings{
				TempTens: 6, TempOnes: 0, TempMode: TempCool,
				HumidTens: 9, HumidOnes: 5, HumidEnabled: true, Light: LightAuto,
			},
			want: Packet{Flags: FlagCooler | FlagLightAuto, Temperature: 60, Humidity: 0x80 | 95},
		},
		{
			name: "90F heat",
			set: Settings{
				TempTens: 9, TempOnes: 0, TempMode: TempHeat,
				HumidTens: 3, HumidOnes: 0, Light: LightOff,
			},
			want: Packet{Flags: FlagHeater, Temperature: 90, Humidity: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.set)
			if got != tt.want {
				t.Errorf("Encode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEncode_ExactlyOneModeBit(t *testing.T) {
	modeBits := uint8(FlagACAuto | FlagFan | FlagHeater | FlagCooler)
	for _, mode := range []TemperatureMode{TempAuto, TempFan, TempHeat, TempCool} {
		set := DefaultSettings()
		set.TempMode = mode
		p := Encode(set)
		count := 0
		for mask := uint8(1); mask != 0; mask <<= 1 {
			if p.Flags&modeBits&mask != 0 {
				count++
			}
		}
		if count != 1 {
			t.Errorf("mode %v: %d mode bits set (flags=0x%02X), want exactly 1", mode, count, p.Flags)
		}
	}
}

func TestEncode_ReservedBitsClear(t *testing.T) {
	for _, mode := range []TemperatureMode{TempAuto, TempFan, TempHeat, TempCool} {
		for _, light := range []LightMode{LightAuto, LightOff, LightOn} {
			set := DefaultSettings()
			set.TempMode = mode
			set.Light = light
			if p := Encode(set); p.Flags&FlagReserved != 0 {
				t.Errorf("mode=%v light=%v: reserved bits set in flags 0x%02X", mode, light, p.Flags)
			}
		}
	}
}

func TestRoundTrip_AllValidSettings(t *testing.T) {
	for _, mode := range []TemperatureMode{TempAuto, TempFan, TempHeat, TempCool} {
		for _, light := range []LightMode{LightAuto, LightOff, LightOn} {
			for _, enabled := range []bool{false, true} {
				for target := uint8(0); target <= 99; target += 7 {
					humid := 99 - target
					set := Settings{
						TempTens:     target / 10,
						TempOnes:     target % 10,
						TempMode:     mode,
						HumidTens:    humid / 10,
						HumidOnes:    humid % 10,
						HumidEnabled: enabled,
						Light:        light,
					}
					got := Encode(set).Decode()
					if got != set {
						t.Fatalf("round trip: got %+v, want %+v", got, set)
					}
				}
			}
		}
	}
}

// ============================================================
// Priority Decode Tests
// ============================================================

func TestDecode_ModePriority(t *testing.T) {
	tests := []struct {
		name  string
		flags uint8
		want  TemperatureMode
	}{
		{"auto alone", FlagACAuto, TempAuto},
		{"fan alone", FlagFan, TempFan},
		{"heat alone", FlagHeater, TempHeat},
		{"cool alone", FlagCooler, TempCool},
		{"no bits falls through to cool", 0x00, TempCool},
		{"auto wins over fan", FlagACAuto | FlagFan, TempAuto},
		{"auto wins over everything", FlagACAuto | FlagFan | FlagHeater | FlagCooler, TempAuto},
		{"fan wins over heat", FlagFan | FlagHeater, TempFan},
		{"heat wins over cool", FlagHeater | FlagCooler, TempHeat},
		{"cooler bit itself is never inspected", FlagCooler, TempCool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Packet{Flags: tt.flags}
			if got := p.Decode().TempMode; got != tt.want {
				t.Errorf("Decode().TempMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecode_LightPriority(t *testing.T) {
	tests := []struct {
		name  string
		flags uint8
		want  LightMode
	}{
		{"auto alone", FlagLightAuto, LightAuto},
		{"on alone", FlagLightOn, LightOn},
		{"neither means off", 0x00, LightOff},
		{"auto wins over on", FlagLightAuto | FlagLightOn, LightAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Packet{Flags: tt.flags}
			if got := p.Decode().Light; got != tt.want {
				t.Errorf("Decode().Light = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecode_ValueFields(t *testing.T) {
	p := Packet{Flags: FlagACAuto, Temperature: 0x4B, Humidity: 0x80 | 0x28}
	set := p.Decode()
	if set.TempTarget() != 75 {
		t.Errorf("TempTarget = %d, want 75", set.TempTarget())
	}
	if set.TempTens != 7 || set.TempOnes != 5 {
		t.Errorf("temperature digits = %d,%d, want 7,5", set.TempTens, set.TempOnes)
	}
	if set.HumidTarget() != 40 {
		t.Errorf("HumidTarget = %d, want 40", set.HumidTarget())
	}
	if !set.HumidEnabled {
		t.Error("HumidEnabled = false, want true")
	}
}

func TestDecode_SevenBitValueOverflowsDigits(t *testing.T) {
	// 127 splits into digits 12 and 7; the tens digit leaves decimal
	// range and the BCD store flags it as corruption on the next load.
	p := Packet{Temperature: 127}
	set := p.Decode()
	if set.TempTens != 12 || set.TempOnes != 7 {
		t.Errorf("digits = %d,%d, want 12,7", set.TempTens, set.TempOnes)
	}
}

func TestIsStatusRequest(t *testing.T) {
	if (Packet{Temperature: 0x4B}).IsStatusRequest() {
		t.Error("plain target flagged as status request")
	}
	if !(Packet{Temperature: 0x80}).IsStatusRequest() {
		t.Error("top bit not recognized as status request")
	}
	if !(Packet{Temperature: 0x80 | 0x4B}).IsStatusRequest() {
		t.Error("top bit plus target not recognized as status request")
	}
}

// ============================================================
// Mode Cycle Tests
// ============================================================

func TestTemperatureMode_Cycle(t *testing.T) {
	order := []TemperatureMode{TempAuto, TempFan, TempHeat, TempCool, TempAuto}
	for i := 0; i < len(order)-1; i++ {
		if got := order[i].Next(); got != order[i+1] {
			t.Errorf("%v.Next() = %v, want %v", order[i], got, order[i+1])
		}
	}
}

func TestLightMode_Cycle(t *testing.T) {
	order := []LightMode{LightAuto, LightOff, LightOn, LightAuto}
	for i := 0; i < len(order)-1; i++ {
		if got := order[i].Next(); got != order[i+1] {
			t.Errorf("%v.Next() = %v, want %v", order[i], got, order[i+1])
		}
	}
}
