// Package color provides the channel arithmetic shared by the CPU kernels
// and the GPU shaders: clamping, 8-bit quantization and color temperature.
package color

// Channel range of an 8-bit raster.
const (
	ChannelMin = 0.0
	ChannelMax = 255.0
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToU8 clamps a channel value in [0,255] and rounds it to the nearest uint8.
func ToU8(v float64) uint8 {
	if v <= ChannelMin {
		return 0
	}
	if v >= ChannelMax {
		return 255
	}
	return uint8(v + 0.5)
}

// UnitToU8 maps a [0,1] component to [0,255] with rounding.
func UnitToU8(v float64) uint8 {
	return ToU8(v * ChannelMax)
}

// U8ToUnit maps a [0,255] component to [0,1].
func U8ToUnit(v uint8) float64 {
	return float64(v) / ChannelMax
}
