package waypath

import "fmt"

// Arc is a circular arc starting at a directed waypoint, described by a
// radius, a turn side, and a swept angle.
type Arc struct {
	start  DirectedPoint
	radius float64
	left   bool
	sweep  float64
}

var _ Curve = Arc{}

// NewArc returns the circular arc that starts at the position and heading of
// start and turns by the swept angle sweep over a circle of the given radius.
// A left turn bends towards positive curvature.
//
// Negative radius or negative sweep are rejected with [ErrInvalidArgument].
// Zero radius and zero sweep are accepted as zero-length degenerate arcs.
func NewArc(start DirectedPoint, radius float64, left bool, sweep float64) (Arc, error) {
	if !start.IsFinite() || !isFinite(radius) || !isFinite(sweep) {
		return Arc{}, fmt.Errorf("%w: non-finite arc parameters", ErrInvalidArgument)
	}
	if radius < 0.0 {
		return Arc{}, fmt.Errorf("%w: arc radius %g, must not be negative", ErrInvalidArgument, radius)
	}
	if sweep < 0.0 {
		return Arc{}, fmt.Errorf("%w: arc sweep %g, must not be negative", ErrInvalidArgument, sweep)
	}
	return Arc{start: start, radius: radius, left: left, sweep: sweep}, nil
}

// Radius returns the arc's radius.
func (a Arc) Radius() float64 { return a.radius }

// IsLeft reports whether the arc turns to the left of the direction of
// travel.
func (a Arc) IsLeft() bool { return a.left }

// SweepAngle returns the swept angle in radians.
func (a Arc) SweepAngle() float64 { return a.sweep }

// signedSweep returns the swept angle with positive sign for left turns.
func (a Arc) signedSweep() float64 {
	if a.left {
		return a.sweep
	}
	return -a.sweep
}

// center returns the center of the arc's circle.
func (a Arc) center() Point {
	n := a.start.DirVec().Turn90()
	if !a.left {
		n = n.Negate()
	}
	return a.start.Point.Translate(n.Mul(a.radius))
}

func (a Arc) Eval(t float64) Point {
	if a.radius == 0.0 || a.sweep == 0.0 {
		return a.start.Point
	}
	t = clampFraction(t)
	c := a.center()
	return c.Translate(Rotate(t * a.signedSweep()).ApplyVec(a.start.Point.Sub(c)))
}

func (a Arc) Direction(t float64) Vec2 {
	return VecFromAngle(a.start.Dir + clampFraction(t)*a.signedSweep())
}

func (a Arc) StartCurvature() float64 {
	if a.left {
		return 1.0 / a.radius
	}
	return -1.0 / a.radius
}

func (a Arc) EndCurvature() float64 {
	return a.StartCurvature()
}

func (a Arc) Length() float64 {
	return a.radius * a.sweep
}

func (a Arc) Start() DirectedPoint {
	return a.start
}

func (a Arc) End() DirectedPoint {
	return DirectedPoint{
		Point: a.Eval(1.0),
		Dir:   a.start.Dir + a.signedSweep(),
	}
}

func (a Arc) ParamAtLength(arclen float64) float64 {
	return clampFraction(arclen / a.Length())
}
