package kernel

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/darkroom/internal/color"
	"github.com/gogpu/darkroom/internal/parallel"
)

// Parameter limits. Requests outside are clamped, so +10 EV renders exactly
// like +2 EV.
const (
	MaxExposure   = 2.0
	MaxSaturation = 0.5
	MaxContrast   = 0.5
)

// pointFunc maps one pixel's color channels, each in [0,255].
type pointFunc func(r, g, b float64) (float64, float64, float64)

// mapPixels applies fn to every pixel of src and returns the result.
func mapPixels(p *parallel.WorkerPool, src *image.NRGBA, fn pointFunc) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	parallel.Rows(p, h, func(y int) {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for i := 0; i < len(s); i += 4 {
			r, g, b := fn(float64(s[i]), float64(s[i+1]), float64(s[i+2]))
			d[i] = color.ToU8(r)
			d[i+1] = color.ToU8(g)
			d[i+2] = color.ToU8(b)
			d[i+3] = s[i+3]
		}
	})
	return dst
}

// Exposure scales every channel by 2^ev with ev clamped to [-2,2].
func Exposure(p *parallel.WorkerPool, src *image.NRGBA, ev float64) *image.NRGBA {
	gain := math.Exp2(color.Clamp(ev, -MaxExposure, MaxExposure))
	return mapPixels(p, src, func(r, g, b float64) (float64, float64, float64) {
		return r * gain, g * gain, b * gain
	})
}

// Saturation adds amount, clamped to [-0.5,0.5], to the HSL saturation of
// every chromatic pixel. Grays have no hue and are left as they are.
func Saturation(p *parallel.WorkerPool, src *image.NRGBA, amount float64) *image.NRGBA {
	amount = color.Clamp(amount, -MaxSaturation, MaxSaturation)
	return mapPixels(p, src, func(r, g, b float64) (float64, float64, float64) {
		if r == g && g == b {
			return r, g, b
		}
		c := colorful.Color{R: r / color.ChannelMax, G: g / color.ChannelMax, B: b / color.ChannelMax}
		hue, s, l := c.Hsl()
		out := colorful.Hsl(hue, color.Clamp(s+amount, 0, 1), l)
		return out.R * color.ChannelMax, out.G * color.ChannelMax, out.B * color.ChannelMax
	})
}

// WhiteBalance re-targets the white point of src from (fromTemp, fromTint)
// to (toTemp, toTint). Equal endpoints return an unmodified copy.
func WhiteBalance(p *parallel.WorkerPool, src *image.NRGBA, fromTemp, fromTint, toTemp, toTint float64) *image.NRGBA {
	gr, gg, gb := color.WhiteBalanceGains(fromTemp, fromTint, toTemp, toTint)
	return mapPixels(p, src, func(r, g, b float64) (float64, float64, float64) {
		return r * gr, g * gg, b * gb
	})
}
