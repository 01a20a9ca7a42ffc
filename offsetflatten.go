package waypath

import (
	"fmt"
	"math"
	"sort"
)

// offsetTangentEps is the parameter step for the central-difference tangent
// of the offset curve. The offset curve has no closed-form derivative when
// the offset function varies, so the angle criterion differentiates it
// numerically.
const offsetTangentEps = 1e-6

// arcFraction returns the fraction of the curve's arc length covered by the
// parameter interval [0, t]. For curves parameterized by arc length this is
// t itself; a cubic is re-based through its exact subsegment.
func arcFraction(c Curve, t float64) float64 {
	b, ok := c.(BezierCubic)
	if !ok {
		return clampFraction(t)
	}
	t = clampFraction(t)
	total := b.Length()
	if total == 0.0 {
		return 0.0
	}
	return clampFraction(b.subsegment(0.0, t).Length() / total)
}

// offsetSampler returns a function evaluating the offset curve of c: the
// point at fraction t displaced along the left normal by the offset value at
// the corresponding arc-length fraction.
func offsetSampler(c Curve, off *PiecewiseLinearOffset) func(float64) Point {
	return func(t float64) Point {
		n := c.Direction(t).Turn90()
		return c.Eval(t).Translate(n.Mul(off.Get(arcFraction(c, t))))
	}
}

// offsetTangentAfter differentiates the sampled offset curve just after t by
// forward difference. The offset curve is not differentiable at the offset
// function's knots, so span-end tangents are taken one-sidedly into the span;
// a difference straddling a knot would smear the kink.
func offsetTangentAfter(sample func(float64) Point, t float64) Vec2 {
	hi := math.Min(1.0, t+offsetTangentEps)
	if hi <= t {
		return Vec2{}
	}
	return sample(hi).Sub(sample(t))
}

// offsetTangentBefore differentiates the sampled offset curve just before t
// by backward difference.
func offsetTangentBefore(sample func(float64) Point, t float64) Vec2 {
	lo := math.Max(0.0, t-offsetTangentEps)
	if lo >= t {
		return Vec2{}
	}
	return sample(t).Sub(sample(lo))
}

// offsetForcedParams returns the ascending curve parameters that the offset
// flatteners must hit exactly: the endpoints plus the parameter of every
// interior knot of the offset function, located on the curve by arc length.
func offsetForcedParams(c Curve, off *PiecewiseLinearOffset) []float64 {
	forced := []float64{0.0}
	total := c.Length()
	for _, f := range off.interiorKnots() {
		t := c.ParamAtLength(f * total)
		if t > 0.0 && t < 1.0 {
			forced = append(forced, t)
		}
	}
	forced = append(forced, 1.0)
	sort.Float64s(forced)
	return dedupeAscending(forced)
}

// dedupeAscending removes near-coincident parameters from a sorted slice,
// keeping the first of each run. Coincident spans would never terminate the
// bisection otherwise.
func dedupeAscending(ts []float64) []float64 {
	out := ts[:1]
	for _, t := range ts[1:] {
		if t-out[len(out)-1] > 1e-12 {
			out = append(out, t)
		}
	}
	if last := out[len(out)-1]; last != 1.0 {
		out[len(out)-1] = 1.0
	}
	return out
}

// checkOffsetArgs validates the shared preconditions of the offset
// flatteners.
func checkOffsetArgs(c Curve, off *PiecewiseLinearOffset) error {
	if c == nil {
		return fmt.Errorf("%w: curve", ErrNilArgument)
	}
	if off == nil {
		return fmt.Errorf("%w: offset function", ErrNilArgument)
	}
	return nil
}

// ToOffsetPolyLine flattens the offset curve of c with the given flattener.
// It is a convenience wrapper that adds nil checks to
// [OffsetFlattener.FlattenOffset].
func ToOffsetPolyLine(c Curve, off *PiecewiseLinearOffset, fl OffsetFlattener) (PolyLine, error) {
	if fl == nil {
		return PolyLine{}, fmt.Errorf("%w: flattener", ErrNilArgument)
	}
	return fl.FlattenOffset(c, off)
}

// FlattenOffset samples the offset curve at n uniform fractions merged with
// the offset function's interior knots. The knots add vertices, so the
// polyline may have more than n+1 points.
func (f NumSegments) FlattenOffset(c Curve, off *PiecewiseLinearOffset) (PolyLine, error) {
	if err := checkOffsetArgs(c, off); err != nil {
		return PolyLine{}, err
	}
	ts := make([]float64, 0, f.n+1+off.NumKnots())
	for i := 0; i <= f.n; i++ {
		ts = append(ts, float64(i)/float64(f.n))
	}
	total := c.Length()
	for _, fr := range off.interiorKnots() {
		ts = append(ts, c.ParamAtLength(fr*total))
	}
	sort.Float64s(ts)
	ts = dedupeAscending(ts)
	sample := offsetSampler(c, off)
	pts := make([]Point, len(ts))
	for i, t := range ts {
		pts[i] = sample(t)
	}
	return NewPolyLine(pts...)
}

// FlattenOffset bisects until no chord's midpoint deviation from the offset
// curve exceeds the bound, with the offset function's interior knots as
// forced vertices.
func (f MaxDeviation) FlattenOffset(c Curve, off *PiecewiseLinearOffset) (PolyLine, error) {
	if err := checkOffsetArgs(c, off); err != nil {
		return PolyLine{}, err
	}
	sample := offsetSampler(c, off)
	pts := flattenAdaptive(sample, func(sp span, tm float64, pm Point) bool {
		return chordDeviation(sp.p0, sp.p1, pm) > f.d
	}, offsetForcedParams(c, off))
	return NewPolyLine(pts...)
}

// FlattenOffset bisects until no chord deviates from the offset curve's
// numerically differentiated tangent by more than the bound, with the offset
// function's interior knots as forced vertices.
func (f MaxAngle) FlattenOffset(c Curve, off *PiecewiseLinearOffset) (PolyLine, error) {
	if err := checkOffsetArgs(c, off); err != nil {
		return PolyLine{}, err
	}
	sample := offsetSampler(c, off)
	pts := flattenAdaptive(sample, func(sp span, tm float64, pm Point) bool {
		return exceedsAngle(sp.p0, sp.p1,
			offsetTangentAfter(sample, sp.t0), offsetTangentBefore(sample, sp.t1), f.a)
	}, offsetForcedParams(c, off))
	return NewPolyLine(pts...)
}

// FlattenOffset bisects until every chord of the offset curve satisfies both
// the deviation bound and the angle bound, with the offset function's
// interior knots as forced vertices.
func (f MaxDeviationAndAngle) FlattenOffset(c Curve, off *PiecewiseLinearOffset) (PolyLine, error) {
	if err := checkOffsetArgs(c, off); err != nil {
		return PolyLine{}, err
	}
	sample := offsetSampler(c, off)
	pts := flattenAdaptive(sample, func(sp span, tm float64, pm Point) bool {
		return chordDeviation(sp.p0, sp.p1, pm) > f.d ||
			exceedsAngle(sp.p0, sp.p1,
				offsetTangentAfter(sample, sp.t0), offsetTangentBefore(sample, sp.t1), f.a)
	}, offsetForcedParams(c, off))
	return NewPolyLine(pts...)
}
