// Package filter holds the adjustable filter set of an edit and the algebra
// used to render edits incrementally.
//
// An Array always contains one Filter per Tag. Additive filters carry a
// relative amount in their leading parameter, so the amount still to be
// rendered on top of an already rendered state is a subtraction:
//
//	delta := target.Sub(applied)
//	applied = applied.Add(delta)
//
// Sub works on the amounts a slot actually renders: a disabled filter
// counts as zero, so disabling a filter that is already applied yields a
// delta that takes it back out.
//
// White balance is absolute: its parameters name the target temperature and
// tint. Each Array also records the white point the pixels it is applied to
// already have (the white balance base), and the renderer moves pixels from
// that base to the target.
package filter

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/gogpu/darkroom/internal/color"
)

// Reference white balance of an unedited image.
const (
	ReferenceTemperature = color.ReferenceTemperature
	ReferenceTint        = 0.0
)

// Filter is one slot of an Array.
type Filter struct {
	Tag    Tag
	Params []float64

	// Enabled filters are rendered. Update, Sub and Add set it with the
	// neutral policy; SetEnabled overrides it, and a slot disabled with
	// SetEnabled stays disabled until it is enabled again.
	Enabled bool
}

// Leading returns the first parameter, or 0 if there is none.
func (f Filter) Leading() float64 {
	if len(f.Params) == 0 {
		return 0
	}
	return f.Params[0]
}

// Array is the complete filter set of an edit, keyed by Tag.
//
// The zero value is equivalent to Baseline. Arrays share storage when copied
// by assignment; use Clone before mutating a copy.
type Array struct {
	slots  map[Tag]Filter
	wbBase [2]float64
	off    [numTags]bool
}

// baselineParams returns the neutral parameters of tag.
func baselineParams(tag Tag) []float64 {
	if tag == WhiteBalance {
		return []float64{ReferenceTemperature, ReferenceTint}
	}
	return make([]float64, tag.Arity())
}

// Baseline returns an Array with every additive filter at zero and white
// balance at the reference target. Nothing in it is enabled.
func Baseline() Array {
	a := Array{
		slots:  make(map[Tag]Filter, numTags),
		wbBase: [2]float64{ReferenceTemperature, ReferenceTint},
	}
	for _, tag := range Tags() {
		a.slots[tag] = Filter{Tag: tag, Params: baselineParams(tag)}
	}
	return a
}

// New returns Baseline with overrides applied in order. Enabled is derived
// from the override parameters; the Enabled field of an override is ignored.
func New(overrides ...Filter) (Array, error) {
	a := Baseline()
	for _, f := range overrides {
		if err := a.Update(f.Tag, f.Params); err != nil {
			return Array{}, err
		}
	}
	return a, nil
}

// init makes a zero Array usable.
func (a *Array) init() {
	if a.slots == nil {
		*a = Baseline()
	}
}

// slot returns the filter for tag, falling back to the baseline for a zero
// Array.
func (a Array) slot(tag Tag) Filter {
	if f, ok := a.slots[tag]; ok {
		return f
	}
	return Filter{Tag: tag, Params: baselineParams(tag)}
}

func (a Array) base() [2]float64 {
	if a.slots == nil {
		return [2]float64{ReferenceTemperature, ReferenceTint}
	}
	return a.wbBase
}

// Update replaces the parameters of tag and re-derives its Enabled flag.
// A slot disabled with SetEnabled stays disabled.
func (a *Array) Update(tag Tag, params []float64) error {
	if !tag.Valid() {
		return fmt.Errorf("%w: %v", ErrUnknownTag, tag)
	}
	if len(params) != tag.Arity() {
		return fmt.Errorf("%w: %v takes %d, got %d", ErrArity, tag, tag.Arity(), len(params))
	}

	a.init()
	a.slots[tag] = a.derive(Filter{Tag: tag, Params: slices.Clone(params)})
	return nil
}

// SetEnabled overrides whether tag is rendered, regardless of its parameters.
func (a *Array) SetEnabled(tag Tag, enabled bool) error {
	if !tag.Valid() {
		return fmt.Errorf("%w: %v", ErrUnknownTag, tag)
	}

	a.init()
	f := a.slots[tag]
	f.Enabled = enabled
	a.slots[tag] = f
	a.off[tag] = !enabled
	return nil
}

// Get returns a copy of the parameters of tag, or nil for an invalid tag.
func (a Array) Get(tag Tag) []float64 {
	if !tag.Valid() {
		return nil
	}
	return slices.Clone(a.slot(tag).Params)
}

// Filter returns a copy of the slot for tag.
func (a Array) Filter(tag Tag) Filter {
	f := a.slot(tag)
	f.Params = slices.Clone(f.Params)
	return f
}

// Filters returns copies of every slot in render order.
func (a Array) Filters() []Filter {
	out := make([]Filter, 0, numTags)
	for _, tag := range Tags() {
		out = append(out, a.Filter(tag))
	}
	return out
}

// Enabled returns copies of the slots that will be rendered, in render order.
func (a Array) Enabled() []Filter {
	var out []Filter
	for _, f := range a.Filters() {
		if f.Enabled {
			out = append(out, f)
		}
	}
	return out
}

// IsNeutral reports whether rendering a leaves an image unchanged.
func (a Array) IsNeutral() bool {
	for _, tag := range Tags() {
		if a.slot(tag).Enabled {
			return false
		}
	}
	return true
}

// WhiteBalanceBase returns the white point the array assumes the input
// pixels already have.
func (a Array) WhiteBalanceBase() (temp, tint float64) {
	b := a.base()
	return b[0], b[1]
}

// WithWhiteBalanceBase returns a copy of a whose input white point is
// (temp, tint). The white balance slot is re-derived against it unless it
// was disabled with SetEnabled.
func (a Array) WithWhiteBalanceBase(temp, tint float64) Array {
	out := a.Clone()
	out.wbBase = [2]float64{temp, tint}
	out.slots[WhiteBalance] = out.derive(out.slots[WhiteBalance])
	return out
}

// Sub returns the amounts still to render to go from b to a. The leading
// parameters of additive filters are subtracted, each side counting zero
// when its slot is disabled. Trailing parameters and the white balance
// target are taken from a; a disabled white balance targets a's base. The
// white balance base is a's. The result carries no SetEnabled overrides.
func (a Array) Sub(b Array) Array {
	out := a.Clone()
	out.off = [numTags]bool{}
	for _, tag := range Tags() {
		f := out.slots[tag]
		if tag.Additive() {
			f.Params[0] = a.amount(tag) - b.amount(tag)
		} else {
			f.Params = a.whiteBalanceTarget()
		}
		out.slots[tag] = out.derive(f)
	}
	return out
}

// Add accumulates b onto a: leading parameters of additive filters are
// added and every other parameter, including the white balance target, is
// taken from b. The base and SetEnabled overrides stay a's.
//
// For a rendered state s and a target t, s.Add(t.Sub(s)) equals t as long as
// t has no disabled slots.
func (a Array) Add(b Array) Array {
	out := a.Clone()
	for _, tag := range Tags() {
		f := b.Filter(tag)
		if tag.Additive() {
			f.Params[0] += a.slot(tag).Params[0]
		}
		out.slots[tag] = out.derive(f)
	}
	return out
}

// amount returns the leading parameter of tag as rendered: zero when the
// slot is disabled.
func (a Array) amount(tag Tag) float64 {
	f := a.slot(tag)
	if !f.Enabled {
		return 0
	}
	return f.Leading()
}

// whiteBalanceTarget returns the white point a renders to.
func (a Array) whiteBalanceTarget() []float64 {
	if a.off[WhiteBalance] {
		b := a.base()
		return []float64{b[0], b[1]}
	}
	return a.Get(WhiteBalance)
}

// derive sets f.Enabled with the neutral policy: additive filters are
// enabled when their leading parameter is non-zero, white balance when its
// target differs from the base. Slots disabled with SetEnabled stay off.
func (a Array) derive(f Filter) Filter {
	switch {
	case a.off[f.Tag]:
		f.Enabled = false
	case f.Tag == WhiteBalance:
		b := a.base()
		f.Enabled = f.Params[0] != b[0] || f.Params[1] != b[1]
	default:
		f.Enabled = f.Leading() != 0
	}
	return f
}

// Clone returns a deep copy of a.
func (a Array) Clone() Array {
	out := Array{
		slots:  make(map[Tag]Filter, numTags),
		wbBase: a.base(),
		off:    a.off,
	}
	for _, tag := range Tags() {
		out.slots[tag] = a.Filter(tag)
	}
	return out
}

// Equal reports whether a and b hold the same parameters, flags and base.
func (a Array) Equal(b Array) bool {
	if a.base() != b.base() || a.off != b.off {
		return false
	}
	for _, tag := range Tags() {
		x, y := a.slot(tag), b.slot(tag)
		if x.Enabled != y.Enabled || !slices.Equal(x.Params, y.Params) {
			return false
		}
	}
	return true
}

// LogValue renders the enabled filters for structured logs.
func (a Array) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, numTags+1)
	for _, f := range a.Enabled() {
		attrs = append(attrs, slog.Any(f.Tag.String(), f.Params))
	}
	b := a.base()
	attrs = append(attrs, slog.Any("wb_base", b[:]))
	return slog.GroupValue(attrs...)
}
