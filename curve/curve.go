// Package curve implements the editable tone curve: a set of control points
// on the [0,100]x[0,100] square joined by piecewise cubic polynomials.
//
// The two corner points (0,0) and (100,100) are created with every new curve
// and cannot be removed. Control point x values are kept strictly increasing,
// and the polynomial table is rebuilt on every mutation. A failed mutation
// leaves the curve exactly as it was.
package curve

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Domain of control point coordinates.
const (
	Min = 0.0
	Max = 100.0
)

// ErrOutOfRange is returned for coordinates outside [Min, Max], indices that
// do not name a removable point, and point sets that cannot form a curve.
var ErrOutOfRange = errors.New("curve: out of range")

// Kind selects how control points are interpolated.
type Kind int

const (
	// Monotone never overshoots between control points
	// (Fritsch-Butland slopes).
	Monotone Kind = iota

	// Smooth is a C2 cubic spline with zero slope at both ends.
	Smooth
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Monotone:
		return "monotone"
	case Smooth:
		return "smooth"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Curve is a tone curve. The zero value is not usable; create curves with
// New or FromPoints.
//
// Curve is not safe for concurrent mutation.
type Curve struct {
	kind   Kind
	xs, ys []float64

	// coeffs[i] holds a, b, c, d of segment i, evaluated as
	// a + b*t + c*t^2 + d*t^3 with t = x - xs[i].
	coeffs [][4]float64
}

// New returns a curve through (0,0) and (100,100). Unknown kinds are
// treated as Monotone.
func New(kind Kind) *Curve {
	if kind != Smooth {
		kind = Monotone
	}
	c := &Curve{
		kind: kind,
		xs:   []float64{Min, Max},
		ys:   []float64{Min, Max},
	}
	c.coeffs, _ = build(kind, c.xs, c.ys)
	return c
}

// FromPoints builds a curve through the given points. The pairs are sorted
// by x; see UpdateCurve for the accepted inputs.
func FromPoints(xs, ys []float64, kind Kind) (*Curve, error) {
	c := &Curve{kind: kind}
	if err := c.UpdateCurve(xs, ys); err != nil {
		return nil, err
	}
	return c, nil
}

// AddPoint inserts (x, y) and returns its index in x order.
// A point whose x is already present is rejected.
func (c *Curve) AddPoint(x, y float64) (int, error) {
	if !inDomain(x) || !inDomain(y) {
		return 0, fmt.Errorf("%w: point (%g, %g)", ErrOutOfRange, x, y)
	}

	i, found := slices.BinarySearch(c.xs, x)
	if found {
		return 0, fmt.Errorf("%w: x = %g already has a point", ErrOutOfRange, x)
	}

	xs := slices.Insert(slices.Clone(c.xs), i, x)
	ys := slices.Insert(slices.Clone(c.ys), i, y)
	if err := c.commit(c.kind, xs, ys); err != nil {
		return 0, err
	}
	return i, nil
}

// RemovePoint deletes the point at index i. The first and last points are
// fixed and cannot be removed.
func (c *Curve) RemovePoint(i int) error {
	if i <= 0 || i >= len(c.xs)-1 {
		return fmt.Errorf("%w: cannot remove point %d of %d", ErrOutOfRange, i, len(c.xs))
	}

	xs := slices.Delete(slices.Clone(c.xs), i, i+1)
	ys := slices.Delete(slices.Clone(c.ys), i, i+1)
	return c.commit(c.kind, xs, ys)
}

// UpdateCurve replaces every control point. xs[i] is paired with ys[i] and
// the pairs are sorted by x together.
//
// Mismatched lengths, fewer than two points, coordinates outside the domain
// and repeated x values are rejected with ErrOutOfRange.
func (c *Curve) UpdateCurve(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %d x values for %d y values", ErrOutOfRange, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrOutOfRange, len(xs))
	}

	pts := make([][2]float64, len(xs))
	for i := range xs {
		if !inDomain(xs[i]) || !inDomain(ys[i]) {
			return fmt.Errorf("%w: point (%g, %g)", ErrOutOfRange, xs[i], ys[i])
		}
		pts[i] = [2]float64{xs[i], ys[i]}
	}
	sort.SliceStable(pts, func(a, b int) bool { return pts[a][0] < pts[b][0] })

	sx := make([]float64, len(pts))
	sy := make([]float64, len(pts))
	for i, p := range pts {
		if i > 0 && p[0] == pts[i-1][0] {
			return fmt.Errorf("%w: duplicate x = %g", ErrOutOfRange, p[0])
		}
		sx[i], sy[i] = p[0], p[1]
	}
	return c.commit(c.kind, sx, sy)
}

// SetKind switches the interpolation and rebuilds the curve.
func (c *Curve) SetKind(kind Kind) error {
	return c.commit(kind, c.xs, c.ys)
}

// Kind returns the interpolation kind.
func (c *Curve) Kind() Kind { return c.kind }

// Points returns a copy of the control points in x order.
func (c *Curve) Points() [][2]float64 {
	pts := make([][2]float64, len(c.xs))
	for i := range c.xs {
		pts[i] = [2]float64{c.xs[i], c.ys[i]}
	}
	return pts
}

// Coefficients returns a copy of the per-segment polynomial table.
func (c *Curve) Coefficients() [][4]float64 {
	return slices.Clone(c.coeffs)
}

// Apply evaluates the curve at v. Values outside the control point range are
// extrapolated with the nearest segment's polynomial and are not clamped.
func (c *Curve) Apply(v float64) float64 {
	// Index of the last knot <= v, limited to a valid segment.
	i := sort.SearchFloat64s(c.xs, v)
	if i < len(c.xs) && c.xs[i] == v {
		i++
	}
	i = min(max(i-1, 0), len(c.coeffs)-1)

	k := c.coeffs[i]
	t := v - c.xs[i]
	return k[0] + t*(k[1]+t*(k[2]+t*k[3]))
}

// commit builds the coefficient table for the new state and swaps it in only
// when the build succeeds.
func (c *Curve) commit(kind Kind, xs, ys []float64) error {
	coeffs, err := build(kind, xs, ys)
	if err != nil {
		return err
	}
	c.kind, c.xs, c.ys, c.coeffs = kind, xs, ys, coeffs
	return nil
}

func inDomain(v float64) bool {
	return v >= Min && v <= Max
}

// predictor yields the slope of a fitted interpolant at a knot.
type predictor interface {
	interp.FittablePredictor
	PredictDerivative(x float64) float64
}

// build returns cubic Hermite coefficients for each segment. Knot slopes
// come from the gonum interpolant matching kind.
func build(kind Kind, xs, ys []float64) ([][4]float64, error) {
	n := len(xs)
	slopes := make([]float64, n)

	switch {
	case n == 2 && kind == Monotone:
		s := (ys[1] - ys[0]) / (xs[1] - xs[0])
		slopes[0], slopes[1] = s, s
	case n == 2 && kind == Smooth:
		// Clamped ends: both slopes stay zero.
	default:
		var p predictor
		switch kind {
		case Monotone:
			p = &interp.FritschButland{}
		case Smooth:
			p = &interp.ClampedCubic{}
		default:
			return nil, fmt.Errorf("curve: unknown kind %v", kind)
		}
		if err := p.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("curve: fit %v: %w", kind, err)
		}
		for i, x := range xs {
			slopes[i] = p.PredictDerivative(x)
		}
	}

	coeffs := make([][4]float64, n-1)
	for i := range n - 1 {
		h := xs[i+1] - xs[i]
		delta := (ys[i+1] - ys[i]) / h
		m0, m1 := slopes[i], slopes[i+1]
		coeffs[i] = [4]float64{
			ys[i],
			m0,
			(3*delta - 2*m0 - m1) / h,
			(m0 + m1 - 2*delta) / (h * h),
		}
	}
	return coeffs, nil
}
