package waypath

import (
	"fmt"
	"math"
)

// Flattener converts a curve into a polyline approximation. The concrete
// flatteners ([NumSegments], [MaxDeviation], [MaxAngle], and
// [MaxDeviationAndAngle]) are stateless values; each also implements
// [OffsetFlattener].
type Flattener interface {
	Flatten(c Curve) (PolyLine, error)
}

// OffsetFlattener converts a curve into a polyline approximation of its
// offset curve: every vertex is displaced perpendicular to the local tangent
// by the offset function's value at the vertex's fractional arc-length
// position, positive offsets to the left of the direction of travel.
//
// Interior knots of the offset function always appear as exact vertices: the
// offset curve is continuous but not differentiable there, so a chord
// smoothing across a knot could violate the error bound unnoticed.
type OffsetFlattener interface {
	FlattenOffset(c Curve, off *PiecewiseLinearOffset) (PolyLine, error)
}

// Adaptive refinement budgets. Tolerances below floating-point resolution
// terminate with a best-effort polyline once a budget is reached.
const (
	maxFlattenDepth  = 24
	maxFlattenPoints = 1 << 14
)

// span is a fraction interval of the curve whose chord still awaits the
// split decision.
type span struct {
	t0, t1 float64
	p0, p1 Point
	depth  int
}

// flattenAdaptive bisects the fraction intervals between consecutive forced
// parameters until needsSplit clears every chord or the refinement budget is
// exhausted. It works on an explicit worklist rather than recursion, keeping
// memory bounded and the budget trivially enforceable. The forced parameters
// must be ascending and include 0 and 1; each becomes an exact vertex.
func flattenAdaptive(
	sample func(float64) Point,
	needsSplit func(sp span, tm float64, pm Point) bool,
	forced []float64,
) []Point {
	pts := make([]Point, 0, 16)
	pts = append(pts, sample(forced[0]))
	stack := make([]span, 0, len(forced)-1+maxFlattenDepth)
	for i := len(forced) - 1; i >= 1; i-- {
		stack = append(stack, span{
			t0: forced[i-1],
			t1: forced[i],
			p0: sample(forced[i-1]),
			p1: sample(forced[i]),
		})
	}
	for len(stack) > 0 {
		sp := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		tm := 0.5 * (sp.t0 + sp.t1)
		pm := sample(tm)
		withinBudget := sp.depth < maxFlattenDepth &&
			len(pts)+len(stack) < maxFlattenPoints &&
			tm > sp.t0 && tm < sp.t1
		if withinBudget && needsSplit(sp, tm, pm) {
			stack = append(stack,
				span{t0: tm, t1: sp.t1, p0: pm, p1: sp.p1, depth: sp.depth + 1},
				span{t0: sp.t0, t1: tm, p0: sp.p0, p1: pm, depth: sp.depth + 1},
			)
		} else {
			pts = append(pts, sp.p1)
		}
	}
	return pts
}

// chordDeviation returns the distance from pt to the chord from p0 to p1.
func chordDeviation(p0, p1, pt Point) float64 {
	d := p1.Sub(p0)
	dotp := d.Dot(pt.Sub(p0))
	dSquared := d.Dot(d)
	if dotp <= 0.0 || dSquared == 0.0 {
		return pt.Distance(p0)
	}
	if dotp >= dSquared {
		return pt.Distance(p1)
	}
	return pt.Distance(p0.Lerp(p1, dotp/dSquared))
}

// chordAngle returns the absolute angle between the chord from p0 to p1 and
// the tangent direction dir.
func chordAngle(p0, p1 Point, dir Vec2) float64 {
	chord := p1.Sub(p0)
	if chord.Hypot2() == 0.0 {
		return 0.0
	}
	return math.Abs(math.Atan2(chord.Cross(dir), chord.Dot(dir)))
}

// exceedsAngle reports whether the chord from p0 to p1 deviates from either
// span-end tangent by more than bound. The tangents are sampled at the span
// ends rather than its midpoint: on constant-curvature spans the chord is
// exactly parallel to the midpoint tangent, which would never trigger a
// split.
func exceedsAngle(p0, p1 Point, d0, d1 Vec2, bound float64) bool {
	return chordAngle(p0, p1, d0) > bound || chordAngle(p0, p1, d1) > bound
}

// shortCircuit returns the 2-point polyline for curves that need no
// refinement: zero-length curves, whose interior has no defined direction,
// and straight spans, whose chords deviate nowhere.
func shortCircuit(c Curve) (PolyLine, bool) {
	if c.Length() == 0.0 || isStraightSpan(c) {
		pl, err := NewPolyLine(c.Eval(0.0), c.Eval(1.0))
		if err != nil {
			return PolyLine{}, false
		}
		return pl, true
	}
	return PolyLine{}, false
}

// ToPolyLine flattens a curve with the given flattener. It is a convenience
// wrapper that adds nil checks to [Flattener.Flatten].
func ToPolyLine(c Curve, fl Flattener) (PolyLine, error) {
	if fl == nil {
		return PolyLine{}, fmt.Errorf("%w: flattener", ErrNilArgument)
	}
	return fl.Flatten(c)
}

// NumSegments flattens a curve into a fixed number of uniform-fraction
// segments.
type NumSegments struct {
	n int
}

var _ Flattener = NumSegments{}
var _ OffsetFlattener = NumSegments{}

// NewNumSegments returns a flattener producing exactly n segments, that is
// n+1 points. n < 1 is rejected with [ErrInvalidArgument].
func NewNumSegments(n int) (NumSegments, error) {
	if n < 1 {
		return NumSegments{}, fmt.Errorf("%w: %d segments, need at least 1", ErrInvalidArgument, n)
	}
	return NumSegments{n: n}, nil
}

func (f NumSegments) Flatten(c Curve) (PolyLine, error) {
	if c == nil {
		return PolyLine{}, fmt.Errorf("%w: curve", ErrNilArgument)
	}
	pts := make([]Point, f.n+1)
	for i := range pts {
		pts[i] = c.Eval(float64(i) / float64(f.n))
	}
	return NewPolyLine(pts...)
}

// MaxDeviation flattens a curve by recursive bisection until no chord's
// midpoint deviation from the curve exceeds the bound.
type MaxDeviation struct {
	d float64
}

var _ Flattener = MaxDeviation{}
var _ OffsetFlattener = MaxDeviation{}

// NewMaxDeviation returns a flattener bounding the perpendicular deviation
// between curve and chords by d. Non-positive or non-finite d is rejected
// with [ErrInvalidArgument].
func NewMaxDeviation(d float64) (MaxDeviation, error) {
	if !isFinite(d) || d <= 0.0 {
		return MaxDeviation{}, fmt.Errorf("%w: max deviation %g, must be positive", ErrInvalidArgument, d)
	}
	return MaxDeviation{d: d}, nil
}

func (f MaxDeviation) Flatten(c Curve) (PolyLine, error) {
	if c == nil {
		return PolyLine{}, fmt.Errorf("%w: curve", ErrNilArgument)
	}
	if pl, ok := shortCircuit(c); ok {
		return pl, nil
	}
	pts := flattenAdaptive(c.Eval, func(sp span, tm float64, pm Point) bool {
		return chordDeviation(sp.p0, sp.p1, pm) > f.d
	}, []float64{0.0, 1.0})
	return NewPolyLine(pts...)
}

// MaxAngle flattens a curve by recursive bisection until no chord's direction
// deviates from the tangents sampled at its span ends by more than the bound.
type MaxAngle struct {
	a float64
}

var _ Flattener = MaxAngle{}
var _ OffsetFlattener = MaxAngle{}

// NewMaxAngle returns a flattener bounding the angle between chords and the
// tangents sampled at the chord ends by a radians. Non-positive or non-finite
// a is rejected with [ErrInvalidArgument].
func NewMaxAngle(a float64) (MaxAngle, error) {
	if !isFinite(a) || a <= 0.0 {
		return MaxAngle{}, fmt.Errorf("%w: max angle %g, must be positive", ErrInvalidArgument, a)
	}
	return MaxAngle{a: a}, nil
}

func (f MaxAngle) Flatten(c Curve) (PolyLine, error) {
	if c == nil {
		return PolyLine{}, fmt.Errorf("%w: curve", ErrNilArgument)
	}
	if pl, ok := shortCircuit(c); ok {
		return pl, nil
	}
	pts := flattenAdaptive(c.Eval, func(sp span, tm float64, pm Point) bool {
		return exceedsAngle(sp.p0, sp.p1, c.Direction(sp.t0), c.Direction(sp.t1), f.a)
	}, []float64{0.0, 1.0})
	return NewPolyLine(pts...)
}

// MaxDeviationAndAngle flattens a curve by recursive bisection until every
// chord satisfies both a deviation bound and an angle bound.
type MaxDeviationAndAngle struct {
	d float64
	a float64
}

var _ Flattener = MaxDeviationAndAngle{}
var _ OffsetFlattener = MaxDeviationAndAngle{}

// NewMaxDeviationAndAngle returns a flattener that splits chords violating
// either the deviation bound d or the angle bound a. Non-positive or
// non-finite bounds are rejected with [ErrInvalidArgument].
func NewMaxDeviationAndAngle(d, a float64) (MaxDeviationAndAngle, error) {
	if !isFinite(d) || d <= 0.0 {
		return MaxDeviationAndAngle{}, fmt.Errorf("%w: max deviation %g, must be positive", ErrInvalidArgument, d)
	}
	if !isFinite(a) || a <= 0.0 {
		return MaxDeviationAndAngle{}, fmt.Errorf("%w: max angle %g, must be positive", ErrInvalidArgument, a)
	}
	return MaxDeviationAndAngle{d: d, a: a}, nil
}

func (f MaxDeviationAndAngle) Flatten(c Curve) (PolyLine, error) {
	if c == nil {
		return PolyLine{}, fmt.Errorf("%w: curve", ErrNilArgument)
	}
	if pl, ok := shortCircuit(c); ok {
		return pl, nil
	}
	pts := flattenAdaptive(c.Eval, func(sp span, tm float64, pm Point) bool {
		return chordDeviation(sp.p0, sp.p1, pm) > f.d ||
			exceedsAngle(sp.p0, sp.p1, c.Direction(sp.t0), c.Direction(sp.t1), f.a)
	}, []float64{0.0, 1.0})
	return NewPolyLine(pts...)
}
