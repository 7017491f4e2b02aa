package kernel

import (
	"image"

	"github.com/disintegration/gift"
)

// Sharpen applies an unsharp mask: the difference between src and a
// Gaussian-blurred copy of radius pixels is added back scaled by amount.
// A zero radius uses one pixel; the radius is limited to the larger image
// dimension.
func Sharpen(src *image.NRGBA, amount float64, radius uint) *image.NRGBA {
	if amount == 0 {
		return clone(src)
	}

	sigma := float32(max(min(radius, uint(radiusLimit(src))), 1))
	g := gift.New(gift.UnsharpMask(sigma, float32(amount), 0))

	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	if dst.Rect != src.Rect {
		// gift draws at the origin; keep the source coordinate space.
		dst.Rect = src.Rect
	}
	return dst
}
