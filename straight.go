package waypath

import "fmt"

// Straight is a line segment between two waypoints. Its heading is constant
// and its curvature is zero everywhere.
type Straight struct {
	p0 Point
	p1 Point
}

var _ Curve = Straight{}

// NewStraight returns the straight segment from p0 to p1.
//
// Coincident or non-finite endpoints are rejected with [ErrInvalidArgument],
// as a zero-length segment has no defined direction.
func NewStraight(p0, p1 Point) (Straight, error) {
	if !p0.IsFinite() || !p1.IsFinite() {
		return Straight{}, fmt.Errorf("%w: non-finite endpoint", ErrInvalidArgument)
	}
	if p0 == p1 {
		return Straight{}, fmt.Errorf("%w: zero-length straight", ErrInvalidArgument)
	}
	return Straight{p0: p0, p1: p1}, nil
}

// StraightPose returns the straight segment of the given length starting at
// the position and heading of start.
//
// Zero or negative length is rejected with [ErrInvalidArgument].
func StraightPose(start DirectedPoint, length float64) (Straight, error) {
	if !start.IsFinite() || !isFinite(length) {
		return Straight{}, fmt.Errorf("%w: non-finite straight parameters", ErrInvalidArgument)
	}
	if length <= 0.0 {
		return Straight{}, fmt.Errorf("%w: straight length %g, must be positive", ErrInvalidArgument, length)
	}
	return Straight{
		p0: start.Point,
		p1: start.Point.Translate(start.DirVec().Mul(length)),
	}, nil
}

func (s Straight) Eval(t float64) Point {
	return s.p0.Lerp(s.p1, clampFraction(t))
}

func (s Straight) Direction(t float64) Vec2 {
	return s.p1.Sub(s.p0).Normalize()
}

func (s Straight) StartCurvature() float64 { return 0.0 }
func (s Straight) EndCurvature() float64   { return 0.0 }

func (s Straight) Length() float64 {
	return s.p1.Sub(s.p0).Hypot()
}

func (s Straight) Start() DirectedPoint {
	return DirectedPoint{Point: s.p0, Dir: s.p1.Sub(s.p0).Angle()}
}

func (s Straight) End() DirectedPoint {
	return DirectedPoint{Point: s.p1, Dir: s.p1.Sub(s.p0).Angle()}
}

func (s Straight) ParamAtLength(arclen float64) float64 {
	return clampFraction(arclen / s.Length())
}
