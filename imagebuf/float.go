package imagebuf

import "image"

// HSLA is an in-memory image of hue, saturation, lightness and alpha.
// Hue is in degrees [0,360); the other components are in [0,1].
type HSLA struct {
	// Pix holds four float32 per pixel: H, S, L, A.
	Pix    []float32
	Stride int
	Rect   image.Rectangle
}

// NewHSLA returns an HSLA image with the given bounds.
func NewHSLA(r image.Rectangle) *HSLA {
	return &HSLA{
		Pix:    make([]float32, 4*r.Dx()*r.Dy()),
		Stride: 4 * r.Dx(),
		Rect:   r,
	}
}

// Bounds returns the image bounds.
func (p *HSLA) Bounds() image.Rectangle { return p.Rect }

// PixOffset returns the index of the first component of pixel (x, y).
func (p *HSLA) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

// At returns the components of pixel (x, y), or zeros outside the bounds.
func (p *HSLA) At(x, y int) [4]float32 {
	if !(image.Point{x, y}.In(p.Rect)) {
		return [4]float32{}
	}
	i := p.PixOffset(x, y)
	return [4]float32(p.Pix[i : i+4])
}

// Set stores the components of pixel (x, y). Points outside are ignored.
func (p *HSLA) Set(x, y int, c [4]float32) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	copy(p.Pix[i:i+4], c[:])
}

// OkLabA is an in-memory image in the OkLab perceptual space plus alpha.
// L is in [0,1]; a and b are roughly in [-0.4,0.4].
type OkLabA struct {
	// Pix holds four float32 per pixel: L, a, b, alpha.
	Pix    []float32
	Stride int
	Rect   image.Rectangle
}

// NewOkLabA returns an OkLabA image with the given bounds.
func NewOkLabA(r image.Rectangle) *OkLabA {
	return &OkLabA{
		Pix:    make([]float32, 4*r.Dx()*r.Dy()),
		Stride: 4 * r.Dx(),
		Rect:   r,
	}
}

// Bounds returns the image bounds.
func (p *OkLabA) Bounds() image.Rectangle { return p.Rect }

// PixOffset returns the index of the first component of pixel (x, y).
func (p *OkLabA) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

// At returns the components of pixel (x, y), or zeros outside the bounds.
func (p *OkLabA) At(x, y int) [4]float32 {
	if !(image.Point{x, y}.In(p.Rect)) {
		return [4]float32{}
	}
	i := p.PixOffset(x, y)
	return [4]float32(p.Pix[i : i+4])
}

// Set stores the components of pixel (x, y). Points outside are ignored.
func (p *OkLabA) Set(x, y int, c [4]float32) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	copy(p.Pix[i:i+4], c[:])
}
