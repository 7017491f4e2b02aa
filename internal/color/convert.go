package color

import "math"

// Temperature limits accepted by Kelvin. Values outside are clamped.
const (
	MinTemperature = 1000.0
	MaxTemperature = 40000.0

	// ReferenceTemperature is the neutral white point (D65).
	ReferenceTemperature = 6500.0

	// MaxTint is the largest accepted green-magenta offset in either direction.
	MaxTint = 150.0

	// tintScale converts a tint offset into a relative green gain.
	tintScale = 500.0
)

// Kelvin approximates the RGB color of a black body at temp Kelvin.
// Components are in [1,255]; the lower bound keeps gain ratios finite.
//
// The fit is Tanner Helland's piecewise approximation, accurate to a few
// units between 1000K and 40000K.
func Kelvin(temp float64) (r, g, b float64) {
	t := Clamp(temp, MinTemperature, MaxTemperature) / 100

	if t <= 66 {
		r = 255
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}

	switch {
	case t >= 66:
		b = 255
	case t <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}

	return Clamp(r, 1, 255), Clamp(g, 1, 255), Clamp(b, 1, 255)
}

// WhiteBalanceGains returns per-channel multipliers that move pixels whose
// white point is (fromTemp, fromTint) to (toTemp, toTint).
//
// Raising the target temperature warms the image; raising the target tint
// shifts it toward magenta. Equal endpoints yield gains of exactly 1.
func WhiteBalanceGains(fromTemp, fromTint, toTemp, toTint float64) (r, g, b float64) {
	fr, fg, fb := Kelvin(fromTemp)
	tr, tg, tb := Kelvin(toTemp)

	fromT := 1 + Clamp(fromTint, -MaxTint, MaxTint)/tintScale
	toT := 1 + Clamp(toTint, -MaxTint, MaxTint)/tintScale

	return fr / tr, (fg / tg) * (fromT / toT), fb / tb
}
