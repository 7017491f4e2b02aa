package kernel

import (
	"image"

	"github.com/gogpu/darkroom/internal/parallel"
)

// BoxBlur averages each pixel with its neighbors within radius, horizontally
// then vertically. Radius 0 returns an unmodified copy. The radius is
// limited to the larger image dimension.
func BoxBlur(p *parallel.WorkerPool, src *image.NRGBA, radius uint) *image.NRGBA {
	k := BoxKernel(int(min(radius, uint(radiusLimit(src)))))
	return separable(p, src, k, k)
}

// GaussianBlur convolves src with a Gaussian of the given sigma.
// kernelSize fixes the number of taps; 0 derives it from sigma, limited to
// the larger image dimension on either side of the center.
// Sigma <= 0 returns an unmodified copy.
func GaussianBlur(p *parallel.WorkerPool, src *image.NRGBA, sigma float64, kernelSize uint8) *image.NRGBA {
	size := int(kernelSize)
	if size == 0 {
		size = min(OptimalKernelSize(sigma), 2*radiusLimit(src)+1)
	}
	k := CachedGaussianKernel(sigma, size)
	return separable(p, src, k, k)
}

// radiusLimit is the widest useful kernel radius for src. Taps further out
// only sample the clamped edge again.
func radiusLimit(src *image.NRGBA) int {
	return max(src.Rect.Dx(), src.Rect.Dy())
}

// separable runs a horizontal pass of kx into a float buffer and a vertical
// pass of ky into the result. Samples outside the image repeat the edge.
func separable(p *parallel.WorkerPool, src *image.NRGBA, kx, ky []float32) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(src.Rect)
	if w == 0 || h == 0 {
		return dst
	}
	if len(kx) == 1 && len(ky) == 1 {
		return clone(src)
	}

	temp := make([]float32, w*h*4)

	parallel.Rows(p, h, func(y int) {
		blurRow(src.Pix[y*src.Stride:y*src.Stride+w*4], temp[y*w*4:(y+1)*w*4], kx)
	})
	parallel.Rows(p, h, func(y int) {
		blurColumn(temp, dst.Pix[y*dst.Stride:y*dst.Stride+w*4], y, w, h, ky)
	})
	return dst
}

// blurRow convolves one row of 8-bit pixels into out.
func blurRow(row []uint8, out []float32, kernel []float32) {
	width := len(row) / 4
	half := len(kernel) / 2

	for x := range width {
		var r, g, b, a float32
		for k, weight := range kernel {
			kx := clampInt(x+k-half, 0, width-1)
			i := kx * 4
			r += float32(row[i+0]) * weight
			g += float32(row[i+1]) * weight
			b += float32(row[i+2]) * weight
			a += float32(row[i+3]) * weight
		}
		o := x * 4
		out[o+0] = r
		out[o+1] = g
		out[o+2] = b
		out[o+3] = a
	}
}

// blurColumn produces output row y by convolving temp vertically.
func blurColumn(temp []float32, out []uint8, y, width, height int, kernel []float32) {
	half := len(kernel) / 2

	for x := range width {
		var r, g, b, a float32
		for k, weight := range kernel {
			ky := clampInt(y+k-half, 0, height-1)
			i := (ky*width + x) * 4
			r += temp[i+0] * weight
			g += temp[i+1] * weight
			b += temp[i+2] * weight
			a += temp[i+3] * weight
		}
		o := x * 4
		out[o+0] = clampUint8(r)
		out[o+1] = clampUint8(g)
		out[o+2] = clampUint8(b)
		out[o+3] = clampUint8(a)
	}
}

// clone copies src into a freshly allocated image with the same bounds.
func clone(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	w := src.Rect.Dx() * 4
	for y := range src.Rect.Dy() {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
	return dst
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampUint8 clamps a float32 to [0, 255] and rounds to nearest.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
