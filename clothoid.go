package waypath

import (
	"fmt"
	"math"
)

// Shape reports which geometry a clothoid fit actually applied. Fitting two
// directed waypoints degenerates to a straight segment or a circular arc when
// one satisfies both endpoint constraints; only the general case carries a
// true spiral.
type Shape int

const (
	ShapeStraight Shape = iota + 1
	ShapeArc
	ShapeClothoid
)

func (s Shape) String() string {
	switch s {
	case ShapeStraight:
		return "Straight"
	case ShapeArc:
		return "Arc"
	case ShapeClothoid:
		return "Clothoid"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Clothoid is an Euler spiral segment: a curve whose curvature varies
// linearly with arc length. Straight segments (zero curvature) and circular
// arcs (constant curvature) are contained as degenerate cases, and
// [FitClothoid] produces them when they satisfy the waypoint constraints; the
// applied geometry is recorded for introspection.
//
// Positions on the spiral have no closed form. They are evaluated by
// Legendre-Gauss quadrature of the Fresnel-type integral of
// (cos θ(s), sin θ(s)), with the integration span subdivided by swept heading
// so the fixed-order rule stays accurate.
type Clothoid struct {
	start  DirectedPoint
	k0     float64
	k1     float64
	length float64
	shape  Shape
}

var _ Curve = (*Clothoid)(nil)

// ClothoidLength returns the clothoid that starts at the position and heading
// of start, has the given arc length, and interpolates curvature linearly
// from k0 at the start to k1 at the end.
//
// Zero or negative length, or non-finite parameters, are rejected with
// [ErrInvalidArgument].
func ClothoidLength(start DirectedPoint, length, k0, k1 float64) (*Clothoid, error) {
	if !start.IsFinite() || !isFinite(length) || !isFinite(k0) || !isFinite(k1) {
		return nil, fmt.Errorf("%w: non-finite clothoid parameters", ErrInvalidArgument)
	}
	if length <= 0.0 {
		return nil, fmt.Errorf("%w: clothoid length %g, must be positive", ErrInvalidArgument, length)
	}
	return &Clothoid{
		start:  start,
		k0:     k0,
		k1:     k1,
		length: length,
		shape:  classifyShape(k0, k1),
	}, nil
}

// ClothoidA returns the clothoid that starts at the position and heading of
// start, has the given spiral scale a, and interpolates curvature linearly
// from k0 to k1. The arc length follows from the scale: L = a²·|k1−k0|.
//
// Zero or negative a is rejected with [ErrInvalidArgument], as is k0 == k1,
// for which the scale does not determine a length.
func ClothoidA(start DirectedPoint, a, k0, k1 float64) (*Clothoid, error) {
	if !start.IsFinite() || !isFinite(a) || !isFinite(k0) || !isFinite(k1) {
		return nil, fmt.Errorf("%w: non-finite clothoid parameters", ErrInvalidArgument)
	}
	if a <= 0.0 {
		return nil, fmt.Errorf("%w: clothoid scale %g, must be positive", ErrInvalidArgument, a)
	}
	if k0 == k1 {
		return nil, fmt.Errorf("%w: equal curvatures leave the length undetermined", ErrInvalidArgument)
	}
	return &Clothoid{
		start:  start,
		k0:     k0,
		k1:     k1,
		length: a * a * math.Abs(k1-k0),
		shape:  ShapeClothoid,
	}, nil
}

func classifyShape(k0, k1 float64) Shape {
	switch {
	case k0 == 0.0 && k1 == 0.0:
		return ShapeStraight
	case k0 == k1:
		return ShapeArc
	default:
		return ShapeClothoid
	}
}

// AppliedShape reports which geometry the clothoid actually carries:
// "Straight", "Arc", or "Clothoid".
func (c *Clothoid) AppliedShape() Shape {
	return c.shape
}

// A returns the spiral scale √(L / |k1−k0|). For the constant-curvature
// degenerate shapes the scale is infinite.
func (c *Clothoid) A() float64 {
	dk := math.Abs(c.k1 - c.k0)
	if dk == 0.0 {
		return math.Inf(1)
	}
	return math.Sqrt(c.length / dk)
}

func (c *Clothoid) StartCurvature() float64 { return c.k0 }
func (c *Clothoid) EndCurvature() float64   { return c.k1 }

// StartRadius returns the signed radius 1/k0 at the start of the curve;
// infinite at zero curvature.
func (c *Clothoid) StartRadius() float64 { return 1.0 / c.k0 }

// EndRadius returns the signed radius 1/k1 at the end of the curve; infinite
// at zero curvature.
func (c *Clothoid) EndRadius() float64 { return 1.0 / c.k1 }

func (c *Clothoid) Length() float64 { return c.length }

// curvatureSlope returns dκ/ds, the linear rate of curvature change.
func (c *Clothoid) curvatureSlope() float64 {
	if c.length == 0.0 {
		return 0.0
	}
	return (c.k1 - c.k0) / c.length
}

// heading returns the absolute heading at arc length s from the start.
func (c *Clothoid) heading(s float64) float64 {
	return c.start.Dir + c.k0*s + 0.5*c.curvatureSlope()*s*s
}

func (c *Clothoid) Eval(t float64) Point {
	s := clampFraction(t) * c.length
	return c.start.Point.Translate(c.integrate(s))
}

func (c *Clothoid) Direction(t float64) Vec2 {
	return VecFromAngle(c.heading(clampFraction(t) * c.length))
}

func (c *Clothoid) Start() DirectedPoint {
	return c.start
}

func (c *Clothoid) End() DirectedPoint {
	return DirectedPoint{
		Point: c.Eval(1.0),
		Dir:   c.heading(c.length),
	}
}

func (c *Clothoid) ParamAtLength(arclen float64) float64 {
	return clampFraction(arclen / c.length)
}

// quadrature subdivision granularity: one 16-point interval per this much
// swept heading keeps the rule far below coordinate tolerance.
const integrateAnglePerInterval = 0.25

// maxIntegrateIntervals bounds the work per evaluation; tighter spirals lose
// precision rather than looping.
const maxIntegrateIntervals = 256

// integrate returns the displacement from the start after arc length s,
// evaluating ∫(cos θ, sin θ) by subdivided 16-point Legendre-Gauss
// quadrature.
func (c *Clothoid) integrate(s float64) Vec2 {
	if s == 0.0 {
		return Vec2{}
	}
	dk := c.curvatureSlope()
	sweep := math.Abs(c.k0)*s + 0.5*math.Abs(dk)*s*s
	n := min(1+int(sweep*(1.0/integrateAnglePerInterval)), maxIntegrateIntervals)
	h := s / float64(n)
	var sum Vec2
	for i := range n {
		mid := (float64(i) + 0.5) * h
		for _, coeff := range gaussLegendreCoeffs16 {
			wi, xi := coeff[0], coeff[1]
			sin, cos := math.Sincos(c.heading(mid + 0.5*h*xi))
			sum = sum.Add(Vec2{X: cos, Y: sin}.Mul(wi))
		}
	}
	return sum.Mul(0.5 * h)
}
