package waypath

import (
	"fmt"
	"iter"
)

// PolyLine is an immutable ordered sequence of at least two points, the
// result of flattening a curve.
type PolyLine struct {
	pts []Point
}

// NewPolyLine returns a polyline over a copy of the given points. Fewer than
// two points, or non-finite points, are rejected with [ErrInvalidArgument].
func NewPolyLine(pts ...Point) (PolyLine, error) {
	if len(pts) < 2 {
		return PolyLine{}, fmt.Errorf("%w: polyline needs at least 2 points, got %d", ErrInvalidArgument, len(pts))
	}
	for _, pt := range pts {
		if !pt.IsFinite() {
			return PolyLine{}, fmt.Errorf("%w: non-finite polyline point %v", ErrInvalidArgument, pt)
		}
	}
	out := make([]Point, len(pts))
	copy(out, pts)
	return PolyLine{pts: out}, nil
}

// NumPoints returns the number of points.
func (pl PolyLine) NumPoints() int {
	return len(pl.pts)
}

// PointAt returns the i-th point.
func (pl PolyLine) PointAt(i int) Point {
	return pl.pts[i]
}

// Points returns an iterator over the points in order.
func (pl PolyLine) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, pt := range pl.pts {
			if !yield(pt) {
				return
			}
		}
	}
}

// Length returns the total length of the polyline's chords.
func (pl PolyLine) Length() float64 {
	var sum float64
	for i := 1; i < len(pl.pts); i++ {
		sum += pl.pts[i].Distance(pl.pts[i-1])
	}
	return sum
}

// Transform returns a copy of the polyline with aff applied to every point.
func (pl PolyLine) Transform(aff Affine) PolyLine {
	out := make([]Point, len(pl.pts))
	for i, pt := range pl.pts {
		out[i] = pt.Transform(aff)
	}
	return PolyLine{pts: out}
}

// BoundingBox returns the smallest axis-aligned rectangle that encloses all
// points.
func (pl PolyLine) BoundingBox() Rect {
	bbox := NewRectFromPoints(pl.pts[0], pl.pts[1])
	for _, pt := range pl.pts[2:] {
		bbox = bbox.UnionPoint(pt)
	}
	return bbox
}

func (pl PolyLine) String() string {
	return fmt.Sprintf("PolyLine(%d points, length %g)", len(pl.pts), pl.Length())
}
