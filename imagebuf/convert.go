package imagebuf

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/darkroom/internal/color"
	"github.com/gogpu/darkroom/internal/parallel"
)

// Every conversion writes row y of the destination at offset y*width*4, so
// rows run in parallel without locking and keep their order.

func rgbToHSL(p *parallel.WorkerPool, src *image.NRGBA) *HSLA {
	dst := NewHSLA(src.Rect)
	w := src.Rect.Dx()
	parallel.Rows(p, src.Rect.Dy(), func(y int) {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for i := 0; i < len(s); i += 4 {
			h, sat, l := unitRGB(s[i:i+3]).Hsl()
			d[i], d[i+1], d[i+2], d[i+3] = float32(h), float32(sat), float32(l), float32(color.U8ToUnit(s[i+3]))
		}
	})
	return dst
}

func hslToRGB(p *parallel.WorkerPool, src *HSLA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	w := src.Rect.Dx()
	parallel.Rows(p, src.Rect.Dy(), func(y int) {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for i := 0; i < len(s); i += 4 {
			c := colorful.Hsl(float64(s[i]), float64(s[i+1]), float64(s[i+2]))
			putRGB(d[i:i+4], c, s[i+3])
		}
	})
	return dst
}

func rgbToOkLab(p *parallel.WorkerPool, src *image.NRGBA) *OkLabA {
	dst := NewOkLabA(src.Rect)
	w := src.Rect.Dx()
	parallel.Rows(p, src.Rect.Dy(), func(y int) {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for i := 0; i < len(s); i += 4 {
			l, a, b := toOkLab(unitRGB(s[i : i+3]))
			d[i], d[i+1], d[i+2], d[i+3] = float32(l), float32(a), float32(b), float32(color.U8ToUnit(s[i+3]))
		}
	})
	return dst
}

func okLabToRGB(p *parallel.WorkerPool, src *OkLabA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	w := src.Rect.Dx()
	parallel.Rows(p, src.Rect.Dy(), func(y int) {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for i := 0; i < len(s); i += 4 {
			c := fromOkLab(float64(s[i]), float64(s[i+1]), float64(s[i+2]))
			putRGB(d[i:i+4], c.Clamped(), s[i+3])
		}
	})
	return dst
}

func unitRGB(px []uint8) colorful.Color {
	return colorful.Color{
		R: color.U8ToUnit(px[0]),
		G: color.U8ToUnit(px[1]),
		B: color.U8ToUnit(px[2]),
	}
}

func putRGB(d []uint8, c colorful.Color, alpha float32) {
	d[0] = color.UnitToU8(c.R)
	d[1] = color.UnitToU8(c.G)
	d[2] = color.UnitToU8(c.B)
	d[3] = color.UnitToU8(float64(alpha))
}
