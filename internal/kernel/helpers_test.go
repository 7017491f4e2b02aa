package kernel

import (
	"image"
	stdcolor "image/color"
	"testing"
)

// Test helper functions shared across kernel tests.

// uniform creates an image filled with c.
func uniform(w, h int, c stdcolor.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// gray returns an opaque gray color.
func gray(v uint8) stdcolor.NRGBA {
	return stdcolor.NRGBA{R: v, G: v, B: v, A: 255}
}

// assertAll fails unless every pixel of img equals want.
func assertAll(t *testing.T, name string, img *image.NRGBA, want stdcolor.NRGBA) {
	t.Helper()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if got := img.NRGBAAt(x, y); got != want {
				t.Fatalf("%s: pixel (%d,%d) = %v, want %v", name, x, y, got, want)
			}
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
