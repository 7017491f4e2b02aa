package kernel

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/darkroom/internal/color"
	"github.com/gogpu/darkroom/internal/parallel"
)

// Contrast stretches HSL lightness around the image mean.
//
// The multiplier is 1+amount with amount clamped to [-0.5,0.5]. Lightness is
// scaled on a [0,255] axis, clamped, then recombined with each pixel's
// original hue and saturation.
func Contrast(p *parallel.WorkerPool, src *image.NRGBA, amount float64) *image.NRGBA {
	mult := 1 + color.Clamp(amount, -MaxContrast, MaxContrast)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(src.Rect)
	if w == 0 || h == 0 {
		return dst
	}

	hue := make([]float64, w*h)
	sat := make([]float64, w*h)
	light := make([]float64, w*h)
	rowSum := make([]float64, h)

	parallel.Rows(p, h, func(y int) {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		var sum float64
		for x := range w {
			i := x * 4
			c := colorful.Color{
				R: color.U8ToUnit(s[i]),
				G: color.U8ToUnit(s[i+1]),
				B: color.U8ToUnit(s[i+2]),
			}
			hh, ss, ll := c.Hsl()
			k := y*w + x
			hue[k], sat[k], light[k] = hh, ss, ll*color.ChannelMax
			sum += light[k]
		}
		rowSum[y] = sum
	})

	var total float64
	for _, v := range rowSum {
		total += v
	}
	mean := total / float64(w*h)

	parallel.Rows(p, h, func(y int) {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := range w {
			k := y*w + x
			l := color.Clamp((light[k]-mean)*mult+mean, color.ChannelMin, color.ChannelMax)
			out := colorful.Hsl(hue[k], sat[k], l/color.ChannelMax)
			i := x * 4
			d[i] = color.UnitToU8(out.R)
			d[i+1] = color.UnitToU8(out.G)
			d[i+2] = color.UnitToU8(out.B)
			d[i+3] = s[i+3]
		}
	})
	return dst
}
