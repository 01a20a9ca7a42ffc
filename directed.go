package waypath

import (
	"fmt"
	"math"
)

// DirectedPoint is a position in the plane together with a heading in radians.
//
// The heading is stored as given; it is not normalized at construction. Two
// headings that differ by a multiple of 2π describe the same direction of
// travel, and all operations in this package treat them as equal.
type DirectedPoint struct {
	Point Point
	Dir   float64
}

// DirectedPt returns the directed point at (x, y) heading dir radians.
func DirectedPt(x, y, dir float64) DirectedPoint {
	return DirectedPoint{Point: Pt(x, y), Dir: dir}
}

func (dp DirectedPoint) String() string {
	return fmt.Sprintf("(%g, %g; %g rad)", dp.Point.X, dp.Point.Y, dp.Dir)
}

// DirVec returns the unit vector of the heading.
func (dp DirectedPoint) DirVec() Vec2 {
	return VecFromAngle(dp.Dir)
}

// Distance returns the euclidean distance between the positions of two
// directed points. Headings do not contribute.
func (dp DirectedPoint) Distance(o DirectedPoint) float64 {
	return dp.Point.Distance(o.Point)
}

// Interpolate linearly interpolates position and heading between dp and o.
// The heading is interpolated along the shorter of the two arcs between the
// headings.
func (dp DirectedPoint) Interpolate(o DirectedPoint, t float64) DirectedPoint {
	return DirectedPoint{
		Point: dp.Point.Lerp(o.Point, t),
		Dir:   dp.Dir + normalizeAngle(o.Dir-dp.Dir)*t,
	}
}

// IsFinite reports whether position and heading are all finite.
func (dp DirectedPoint) IsFinite() bool {
	return dp.Point.IsFinite() && isFinite(dp.Dir)
}

// normalizeAngle maps an angle to an equivalent one in [−π, π].
func normalizeAngle(th float64) float64 {
	thScaled := th * (1.0 / math.Pi) * 0.5
	return math.Pi * 2.0 * (thScaled - math.Round(thScaled))
}
