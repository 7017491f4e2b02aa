// Package imagebuf caches one image in several color representations.
//
// One representation is authoritative at a time. The others are derived
// from it on demand by Update, which converts rows in parallel on a worker
// pool.
package imagebuf

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/darkroom/internal/parallel"
)

var (
	// ErrNoAuthority is returned by Update when no representation has been
	// set since construction or Reset.
	ErrNoAuthority = errors.New("imagebuf: no authoritative representation")

	// ErrUnsupported is returned for a Representation outside the defined set.
	ErrUnsupported = errors.New("imagebuf: unsupported representation")
)

// Representation names one color representation.
type Representation int

const (
	RGB Representation = iota
	HSL
	OkLab

	numRepresentations

	// None is reported by Authority when nothing is authoritative.
	None Representation = -1
)

// String returns the representation name.
func (r Representation) String() string {
	switch r {
	case RGB:
		return "rgb"
	case HSL:
		return "hsl"
	case OkLab:
		return "oklab"
	case None:
		return "none"
	default:
		return fmt.Sprintf("Representation(%d)", int(r))
	}
}

func (r Representation) valid() bool {
	return r >= 0 && r < numRepresentations
}

// Option configures Buffers.
type Option func(*Buffers)

// WithPool sets the worker pool used for conversions. The default is
// parallel.Default.
func WithPool(p *parallel.WorkerPool) Option {
	return func(b *Buffers) {
		b.pool = p
	}
}

// Buffers holds RGB, HSL and OkLab versions of one image.
//
// Buffers is not safe for concurrent use.
type Buffers struct {
	rgb   *image.NRGBA
	hsl   *HSLA
	oklab *OkLabA

	authority Representation
	dirty     [numRepresentations]bool
	tracked   [numRepresentations]bool

	pool *parallel.WorkerPool
}

// New returns empty Buffers with no authority. Every representation is
// tracked.
func New(opts ...Option) *Buffers {
	b := &Buffers{
		pool:    parallel.Default(),
		tracked: [numRepresentations]bool{true, true, true},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.Reset()
	return b
}

// FromRGB returns Buffers with img as the authoritative representation.
func FromRGB(img *image.NRGBA, opts ...Option) *Buffers {
	b := New(opts...)
	b.UpdateRGB(img)
	return b
}

// FromHSL returns Buffers with img as the authoritative representation.
func FromHSL(img *HSLA, opts ...Option) *Buffers {
	b := New(opts...)
	b.UpdateHSL(img)
	return b
}

// FromOkLab returns Buffers with img as the authoritative representation.
func FromOkLab(img *OkLabA, opts ...Option) *Buffers {
	b := New(opts...)
	b.UpdateOkLab(img)
	return b
}

// UpdateRGB makes img the authoritative representation and marks every
// representation dirty until the next Update. The image is not copied.
func (b *Buffers) UpdateRGB(img *image.NRGBA) {
	b.rgb = img
	b.setAuthority(RGB)
}

// UpdateHSL makes img the authoritative representation.
func (b *Buffers) UpdateHSL(img *HSLA) {
	b.hsl = img
	b.setAuthority(HSL)
}

// UpdateOkLab makes img the authoritative representation.
func (b *Buffers) UpdateOkLab(img *OkLabA) {
	b.oklab = img
	b.setAuthority(OkLab)
}

func (b *Buffers) setAuthority(r Representation) {
	b.authority = r
	for i := range b.dirty {
		b.dirty[i] = true
	}
}

// SetTracked selects which derived representations Update maintains.
// The authoritative representation is always kept.
func (b *Buffers) SetTracked(rgb, hsl, oklab bool) {
	b.tracked = [numRepresentations]bool{rgb, hsl, oklab}
}

// Tracked reports whether Update maintains r.
func (b *Buffers) Tracked(r Representation) bool {
	return r.valid() && b.tracked[r]
}

// Update recomputes every dirty, tracked representation from the
// authoritative one.
func (b *Buffers) Update() error {
	if !b.authority.valid() {
		return ErrNoAuthority
	}
	for r := range numRepresentations {
		if r == b.authority || !b.tracked[r] || !b.dirty[r] {
			continue
		}
		if err := b.Refresh(r); err != nil {
			return err
		}
	}
	b.dirty[b.authority] = false
	return nil
}

// Refresh recomputes r from the authoritative representation, whether or
// not it is tracked or dirty.
func (b *Buffers) Refresh(r Representation) error {
	if !r.valid() {
		return fmt.Errorf("%w: %v", ErrUnsupported, r)
	}
	if !b.authority.valid() {
		return ErrNoAuthority
	}
	if r == b.authority {
		return nil
	}

	switch r {
	case RGB:
		b.rgb = b.authoritativeRGB()
	case HSL:
		b.hsl = rgbToHSL(b.pool, b.authoritativeRGB())
	case OkLab:
		b.oklab = rgbToOkLab(b.pool, b.authoritativeRGB())
	}
	b.dirty[r] = false
	return nil
}

// authoritativeRGB returns an RGB image of the authoritative data. A clean
// RGB buffer is reused.
func (b *Buffers) authoritativeRGB() *image.NRGBA {
	if b.authority == RGB || !b.dirty[RGB] {
		return b.rgb
	}
	switch b.authority {
	case HSL:
		return hslToRGB(b.pool, b.hsl)
	default:
		return okLabToRGB(b.pool, b.oklab)
	}
}

// RGB returns the RGB representation. It may be stale; see Dirty.
func (b *Buffers) RGB() *image.NRGBA { return b.rgb }

// HSL returns the HSL representation. It may be stale; see Dirty.
func (b *Buffers) HSL() *HSLA { return b.hsl }

// OkLab returns the OkLab representation. It may be stale; see Dirty.
func (b *Buffers) OkLab() *OkLabA { return b.oklab }

// Dirty reports whether r has not been brought up to date since the
// authoritative data last changed. Invalid representations report true.
func (b *Buffers) Dirty(r Representation) bool {
	if !r.valid() {
		return true
	}
	return b.dirty[r]
}

// Authority returns the authoritative representation, or None.
func (b *Buffers) Authority() Representation { return b.authority }

// Reset empties every representation, marks all dirty and clears the
// authority. Tracking and the pool are kept.
func (b *Buffers) Reset() {
	b.rgb = image.NewNRGBA(image.Rectangle{})
	b.hsl = NewHSLA(image.Rectangle{})
	b.oklab = NewOkLabA(image.Rectangle{})
	b.authority = None
	for i := range b.dirty {
		b.dirty[i] = true
	}
}
