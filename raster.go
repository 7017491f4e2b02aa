package darkroom

import (
	"bytes"
	"image"

	"golang.org/x/image/draw"
)

// ToNRGBA returns a copy of img as non-premultiplied RGBA with its bounds
// moved to the origin.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return dst
}

// Clone returns a deep copy of img with the same bounds.
func Clone(img *image.NRGBA) *image.NRGBA {
	if img == nil {
		return nil
	}
	dst := image.NewNRGBA(img.Rect)
	w := img.Rect.Dx() * 4
	for y := range img.Rect.Dy() {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], img.Pix[y*img.Stride:y*img.Stride+w])
	}
	return dst
}

// Equal reports whether a and b have the same bounds and pixels.
func Equal(a, b *image.NRGBA) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Rect != b.Rect {
		return false
	}
	w := a.Rect.Dx() * 4
	for y := range a.Rect.Dy() {
		if !bytes.Equal(a.Pix[y*a.Stride:y*a.Stride+w], b.Pix[y*b.Stride:y*b.Stride+w]) {
			return false
		}
	}
	return true
}

// Crop returns a copy of the part of img inside r, moved to the origin.
// r is clipped to the image bounds.
func Crop(img *image.NRGBA, r image.Rectangle) *image.NRGBA {
	return ToNRGBA(img.SubImage(r.Intersect(img.Rect)))
}
