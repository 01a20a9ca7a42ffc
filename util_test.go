package waypath

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// polyLinePoints collects a polyline's vertices into a slice for comparison.
func polyLinePoints(pl PolyLine) []Point {
	out := make([]Point, 0, pl.NumPoints())
	for p := range pl.Points() {
		out = append(out, p)
	}
	return out
}

// distanceToPolyLine returns the distance from p to the nearest segment of
// pl.
func distanceToPolyLine(pl PolyLine, p Point) float64 {
	best := p.Distance(pl.PointAt(0))
	for i := 1; i < pl.NumPoints(); i++ {
		if d := chordDeviation(pl.PointAt(i-1), pl.PointAt(i), p); d < best {
			best = d
		}
	}
	return best
}
