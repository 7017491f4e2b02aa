package color

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"inside", 0.25, -0.5, 0.5, 0.25},
		{"below", -5, -0.5, 0.5, -0.5},
		{"above", 10, -2, 2, 2},
		{"at bound", 2, -2, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestToU8(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-10, 0},
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{127.5, 128},
		{254.6, 255},
		{256, 255},
		{1e9, 255},
	}

	for _, tt := range tests {
		if got := ToU8(tt.in); got != tt.want {
			t.Errorf("ToU8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestUnitRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		v := uint8(i)
		if got := UnitToU8(U8ToUnit(v)); got != v {
			t.Errorf("UnitToU8(U8ToUnit(%d)) = %d", v, got)
		}
	}
}

func TestKelvinReference(t *testing.T) {
	r, g, b := Kelvin(ReferenceTemperature)
	if r != 255 {
		t.Errorf("Kelvin(6500) red = %v, want 255", r)
	}
	if g < 250 || g > 255 {
		t.Errorf("Kelvin(6500) green = %v, want ~254", g)
	}
	if b < 245 || b > 255 {
		t.Errorf("Kelvin(6500) blue = %v, want ~250", b)
	}
}

func TestKelvinClampsAndStaysPositive(t *testing.T) {
	for _, temp := range []float64{-100, 0, 500, 1000, 1900, 3000, 6600, 12000, 40000, 1e6} {
		r, g, b := Kelvin(temp)
		for _, c := range []float64{r, g, b} {
			if c < 1 || c > 255 || math.IsNaN(c) {
				t.Errorf("Kelvin(%v) = (%v, %v, %v), component out of [1,255]", temp, r, g, b)
			}
		}
	}

	lr, lg, lb := Kelvin(1)
	mr, mg, mb := Kelvin(MinTemperature)
	if lr != mr || lg != mg || lb != mb {
		t.Error("temperatures below the minimum should clamp to the minimum")
	}
}

func TestWhiteBalanceGainsIdentity(t *testing.T) {
	for _, tc := range [][2]float64{{6500, 0}, {3200, 20}, {9000, -40}} {
		r, g, b := WhiteBalanceGains(tc[0], tc[1], tc[0], tc[1])
		if r != 1 || g != 1 || b != 1 {
			t.Errorf("WhiteBalanceGains(%v -> same) = (%v, %v, %v), want 1,1,1", tc, r, g, b)
		}
	}
}

func TestWhiteBalanceGainsDirection(t *testing.T) {
	r, _, b := WhiteBalanceGains(6500, 0, 7000, 0)
	if r <= 1 || b >= 1 {
		t.Errorf("warming gains = r %v b %v, want r > 1 and b < 1", r, b)
	}

	r, _, b = WhiteBalanceGains(6500, 0, 4000, 0)
	if r >= b {
		t.Errorf("cooling gains = r %v b %v, want r < b", r, b)
	}

	_, g, _ := WhiteBalanceGains(6500, 0, 6500, 10)
	if g >= 1 {
		t.Errorf("magenta tint green gain = %v, want < 1", g)
	}
}
