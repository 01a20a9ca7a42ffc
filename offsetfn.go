package waypath

import (
	"fmt"
	"iter"
	"math"
	"sort"
)

// Knot is one entry of a piecewise-linear offset function: the lateral offset
// at a fractional arc-length position.
type Knot struct {
	T      float64
	Offset float64
}

// PiecewiseLinearOffset maps fractional arc-length positions in [0, 1] to
// lateral offsets, interpolating linearly between its knots and clamping to
// the boundary values outside its domain. Positive offsets displace to the
// left of the direction of travel.
//
// The function is continuous everywhere but generally not differentiable at
// its knots; offset flattening therefore pins a polyline vertex at every
// interior knot.
type PiecewiseLinearOffset struct {
	knots []Knot
}

// NewPiecewiseLinearOffset returns the piecewise-linear offset function
// through the given knots.
//
// At least one knot is required. Knot positions must be finite values in
// [0, 1] with no duplicates, offsets must be finite, and the literal negative
// zero position is rejected: it compares equal to 0.0 but does not round-trip
// as a map key in the systems this data tends to come from. Violations are
// reported as [ErrInvalidArgument].
func NewPiecewiseLinearOffset(knots ...Knot) (*PiecewiseLinearOffset, error) {
	if len(knots) == 0 {
		return nil, fmt.Errorf("%w: offset function needs at least one knot", ErrInvalidArgument)
	}
	sorted := make([]Knot, len(knots))
	copy(sorted, knots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })
	for i, k := range sorted {
		if !isFinite(k.T) || k.T < 0.0 || k.T > 1.0 {
			return nil, fmt.Errorf("%w: knot position %g outside [0, 1]", ErrInvalidArgument, k.T)
		}
		if k.T == 0.0 && math.Signbit(k.T) {
			return nil, fmt.Errorf("%w: knot position is negative zero", ErrInvalidArgument)
		}
		if !isFinite(k.Offset) {
			return nil, fmt.Errorf("%w: non-finite offset at position %g", ErrInvalidArgument, k.T)
		}
		if i > 0 && sorted[i-1].T == k.T {
			return nil, fmt.Errorf("%w: duplicate knot position %g", ErrInvalidArgument, k.T)
		}
	}
	return &PiecewiseLinearOffset{knots: sorted}, nil
}

// NumKnots returns the number of knots.
func (off *PiecewiseLinearOffset) NumKnots() int {
	return len(off.knots)
}

// Knots returns an iterator over the knots in ascending position order. The
// iterator can be ranged over any number of times.
func (off *PiecewiseLinearOffset) Knots() iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for _, k := range off.knots {
			if !yield(k.T, k.Offset) {
				return
			}
		}
	}
}

// Get returns the offset at fractional position t: the stored value at a
// knot, the linear interpolation between the neighboring knots inside the
// domain, and the nearest boundary value outside it. NaN is treated like a
// position below the domain, consistent with how curve evaluation clamps NaN
// fractions to 0.
func (off *PiecewiseLinearOffset) Get(t float64) float64 {
	if math.IsNaN(t) {
		return off.knots[0].Offset
	}
	first := off.knots[0]
	last := off.knots[len(off.knots)-1]
	if t <= first.T {
		return first.Offset
	}
	if t >= last.T {
		return last.Offset
	}
	i := sort.Search(len(off.knots), func(i int) bool { return off.knots[i].T >= t })
	hi := off.knots[i]
	if hi.T == t {
		return hi.Offset
	}
	lo := off.knots[i-1]
	return lo.Offset + (hi.Offset-lo.Offset)*(t-lo.T)/(hi.T-lo.T)
}

// Derivative returns the slope of the offset function at fractional position
// t. Outside the domain the function is flat and the derivative is 0, as it
// is for NaN. At the lower domain boundary the slope of the first interior
// segment applies; at any other stored position, the slope of the segment
// ending there.
func (off *PiecewiseLinearOffset) Derivative(t float64) float64 {
	if math.IsNaN(t) {
		return 0.0
	}
	first := off.knots[0]
	last := off.knots[len(off.knots)-1]
	if t < first.T || t > last.T || len(off.knots) == 1 {
		return 0.0
	}
	if t == first.T {
		lo, hi := off.knots[0], off.knots[1]
		return (hi.Offset - lo.Offset) / (hi.T - lo.T)
	}
	i := sort.Search(len(off.knots), func(i int) bool { return off.knots[i].T >= t })
	lo, hi := off.knots[i-1], off.knots[i]
	return (hi.Offset - lo.Offset) / (hi.T - lo.T)
}

// interiorKnots returns the positions of the knots strictly inside (0, 1),
// ascending.
func (off *PiecewiseLinearOffset) interiorKnots() []float64 {
	var out []float64
	for _, k := range off.knots {
		if k.T > 0.0 && k.T < 1.0 {
			out = append(out, k.T)
		}
	}
	return out
}
