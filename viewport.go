package darkroom

import (
	"image"
	"math"
)

// zoomStep is the fraction of the visible area removed per zoom click,
// split evenly between both sides.
const zoomStep = 0.1

// Viewport describes the visible part of an image. X and Y locate the top
// left corner as fractions of the image size; Scale is the visible fraction
// of each dimension, 1 meaning the whole image.
type Viewport struct {
	X, Y  float64
	Scale float64
}

// FullView returns a viewport showing the whole image.
func FullView() Viewport { return Viewport{Scale: 1} }

// Rect returns the visible rectangle for an image of the given size.
// The rectangle is at least one pixel wide and high for a non-empty image.
func (v Viewport) Rect(size image.Point) image.Rectangle {
	if size.X <= 0 || size.Y <= 0 {
		return image.Rectangle{}
	}
	scale := v.Scale
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	w := max(1, int(math.Round(scale*float64(size.X))))
	h := max(1, int(math.Round(scale*float64(size.Y))))
	x0 := min(max(0, int(math.Round(v.X*float64(size.X)))), size.X-w)
	y0 := min(max(0, int(math.Round(v.Y*float64(size.Y)))), size.Y-h)
	return image.Rect(x0, y0, x0+w, y0+h)
}

// ZoomAt zooms in around a click on a view of viewW×viewH pixels that shows
// the current visible rectangle letterboxed to fit. The visible rectangle
// shrinks by 5% per side pair and is centered on the clicked image point,
// then clamped so it stays inside the previously visible rectangle.
// A view with no area zooms around the center.
func (v Viewport) ZoomAt(size image.Point, viewW, viewH, clickX, clickY float64) Viewport {
	if size.X <= 0 || size.Y <= 0 {
		return v
	}
	if v.Scale <= 0 || v.Scale > 1 {
		v = FullView()
	}

	imgW, imgH := float64(size.X), float64(size.Y)
	curW, curH := imgW*v.Scale, imgH*v.Scale

	next := v.Scale - zoomStep*v.Scale/2
	newW, newH := imgW*next, imgH*next

	px, py := curW/2, curH/2
	if viewW > 0 && viewH > 0 {
		f := math.Min(viewW/curW, viewH/curH)
		offX := (viewW - curW*f) / 2
		offY := (viewH - curH*f) / 2
		px = clampf((clickX-offX)/f, 0, curW)
		py = clampf((clickY-offY)/f, 0, curH)
	}

	left := clampf(px-newW/2, 0, curW-newW)
	top := clampf(py-newH/2, 0, curH-newH)

	return Viewport{
		X:     v.X + left/imgW,
		Y:     v.Y + top/imgH,
		Scale: next,
	}
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
