package waypath

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestNewPolyLine(t *testing.T) {
	_, err := NewPolyLine(Pt(0.0, 0.0))
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewPolyLine(Pt(0.0, 0.0), Pt(math.NaN(), 1.0))
	require.ErrorIs(t, err, ErrInvalidArgument)

	pl, err := NewPolyLine(Pt(0.0, 0.0), Pt(1.0, 0.0), Pt(1.0, 1.0))
	require.NoError(t, err)
	if got := pl.NumPoints(); got != 3 {
		t.Fatalf("got %d points, want 3", got)
	}
	diff(t, Pt(1.0, 0.0), pl.PointAt(1))
}

func TestPolyLineLength(t *testing.T) {
	pl, err := NewPolyLine(Pt(0.0, 0.0), Pt(3.0, 4.0), Pt(3.0, 10.0))
	require.NoError(t, err)
	if got, want := pl.Length(), 11.0; got != want {
		t.Errorf("got length %g, want %g", got, want)
	}
}

func TestPolyLineBoundingBox(t *testing.T) {
	pl, err := NewPolyLine(Pt(0.0, 0.0), Pt(2.0, 1.0), Pt(1.0, -3.0))
	require.NoError(t, err)
	bbox := pl.BoundingBox()
	diff(t, Rect{X0: 0.0, Y0: -3.0, X1: 2.0, Y1: 1.0}, bbox)
	if got, want := bbox.Width(), 2.0; got != want {
		t.Errorf("got width %g, want %g", got, want)
	}
	if got, want := bbox.Height(), 4.0; got != want {
		t.Errorf("got height %g, want %g", got, want)
	}
	diff(t, Pt(1.0, -1.0), bbox.Center())
}

func TestPolyLineTransform(t *testing.T) {
	pl, err := NewPolyLine(Pt(1.0, 0.0), Pt(2.0, 0.0), Pt(2.0, 1.0))
	require.NoError(t, err)
	// Rotate a quarter turn, then shift right by 3.
	aff := Translate(Vec(3.0, 0.0)).Mul(Rotate(math.Pi / 2.0))
	got := pl.Transform(aff)
	diff(t, []Point{Pt(3.0, 1.0), Pt(3.0, 2.0), Pt(2.0, 2.0)}, polyLinePoints(got), cmpopts.EquateApprox(0, 1e-12))
	// The original is untouched.
	diff(t, Pt(1.0, 0.0), pl.PointAt(0))
}

func TestPolyLinePoints(t *testing.T) {
	want := []Point{Pt(0.0, 0.0), Pt(1.0, 2.0), Pt(3.0, 4.0)}
	pl, err := NewPolyLine(want...)
	require.NoError(t, err)
	diff(t, want, polyLinePoints(pl))
	// Again, the iterator is restartable.
	diff(t, want, polyLinePoints(pl))
}
