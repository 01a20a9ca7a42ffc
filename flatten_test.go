package waypath

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestNumSegmentsFlatten(t *testing.T) {
	a, err := NewArc(DirectedPt(0.0, 0.0, 0.0), 10.0, true, math.Pi/2.0)
	require.NoError(t, err)
	fl, err := NewNumSegments(4)
	require.NoError(t, err)

	pl, err := fl.Flatten(a)
	require.NoError(t, err)
	if got := pl.NumPoints(); got != 5 {
		t.Fatalf("got %d points, want 5", got)
	}
	diff(t, a.Eval(0.0), pl.PointAt(0))
	diff(t, a.Eval(1.0), pl.PointAt(4))
	diff(t, a.Eval(0.5), pl.PointAt(2), cmpopts.EquateApprox(0, 1e-12))

	_, err = NewNumSegments(0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMaxDeviationFlattenStraight(t *testing.T) {
	c, err := FitClothoid(DirectedPt(0.0, 0.0, 0.0), DirectedPt(20.0, 0.0, 0.0), FitTolerances{})
	require.NoError(t, err)
	fl, err := NewMaxDeviation(0.1)
	require.NoError(t, err)

	pl, err := fl.Flatten(c)
	require.NoError(t, err)
	diff(t, []Point{Pt(0.0, 0.0), Pt(20.0, 0.0)}, polyLinePoints(pl), cmpopts.EquateApprox(0, 1e-9))
}

func TestMaxDeviationFlattenArc(t *testing.T) {
	a, err := NewArc(DirectedPt(0.0, 0.0, 0.0), 10.0, true, math.Pi/2.0)
	require.NoError(t, err)
	fl, err := NewMaxDeviation(0.01)
	require.NoError(t, err)

	pl, err := fl.Flatten(a)
	require.NoError(t, err)
	if n := pl.NumPoints(); n < 5 || n > 200 {
		t.Fatalf("got %d points", n)
	}
	diff(t, Pt(0.0, 0.0), pl.PointAt(0))
	diff(t, Pt(10.0, 10.0), pl.PointAt(pl.NumPoints()-1), cmpopts.EquateApprox(0, 1e-9))

	// The curve stays within the deviation bound of the polyline.
	const fudge = 1.5
	for i := range 1000 {
		p := a.Eval(float64(i) / 999.0)
		if d := distanceToPolyLine(pl, p); d > 0.01*fudge {
			t.Fatalf("point %v deviates %g from the polyline", p, d)
		}
	}
}

func TestMaxDeviationFlattenClothoid(t *testing.T) {
	c, err := FitClothoid(DirectedPt(0.0, 0.0, 0.0), DirectedPt(100.0, 30.0, math.Pi/6.0), FitTolerances{})
	require.NoError(t, err)
	fl, err := NewMaxDeviation(0.05)
	require.NoError(t, err)

	pl, err := fl.Flatten(c)
	require.NoError(t, err)
	const fudge = 1.5
	for i := range 1000 {
		p := c.Eval(float64(i) / 999.0)
		if d := distanceToPolyLine(pl, p); d > 0.05*fudge {
			t.Fatalf("point %v deviates %g from the polyline", p, d)
		}
	}
}

func TestMaxAngleFlattenArc(t *testing.T) {
	a, err := NewArc(DirectedPt(0.0, 0.0, 0.0), 10.0, true, math.Pi/2.0)
	require.NoError(t, err)
	fl, err := NewMaxAngle(0.1)
	require.NoError(t, err)

	pl, err := fl.Flatten(a)
	require.NoError(t, err)
	// On an arc each chord subtends at most twice the angle bound, so the
	// turn between consecutive chords is bounded by it too.
	for i := 2; i < pl.NumPoints(); i++ {
		prev := pl.PointAt(i - 1).Sub(pl.PointAt(i - 2))
		next := pl.PointAt(i).Sub(pl.PointAt(i - 1))
		turn := math.Abs(math.Atan2(prev.Cross(next), prev.Dot(next)))
		if turn > 2.0*0.1+1e-9 {
			t.Fatalf("got chord turn %g between segments %d and %d", turn, i-2, i-1)
		}
	}
}

func TestMaxDeviationAndAngleFlatten(t *testing.T) {
	a, err := NewArc(DirectedPt(0.0, 0.0, 0.0), 10.0, true, math.Pi/2.0)
	require.NoError(t, err)
	fl, err := NewMaxDeviationAndAngle(0.05, 0.2)
	require.NoError(t, err)
	flDev, err := NewMaxDeviation(0.05)
	require.NoError(t, err)
	flAng, err := NewMaxAngle(0.2)
	require.NoError(t, err)

	pl, err := fl.Flatten(a)
	require.NoError(t, err)
	plDev, err := flDev.Flatten(a)
	require.NoError(t, err)
	plAng, err := flAng.Flatten(a)
	require.NoError(t, err)
	// The combined criterion refines at least as much as each single one.
	if pl.NumPoints() < plDev.NumPoints() || pl.NumPoints() < plAng.NumPoints() {
		t.Errorf("combined criterion produced %d points, singles %d and %d",
			pl.NumPoints(), plDev.NumPoints(), plAng.NumPoints())
	}
}

func TestFlattenerValidation(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
	}{
		{"deviation zero", func() error { _, err := NewMaxDeviation(0.0); return err }()},
		{"deviation negative", func() error { _, err := NewMaxDeviation(-1.0); return err }()},
		{"deviation NaN", func() error { _, err := NewMaxDeviation(math.NaN()); return err }()},
		{"angle zero", func() error { _, err := NewMaxAngle(0.0); return err }()},
		{"angle inf", func() error { _, err := NewMaxAngle(math.Inf(1)); return err }()},
		{"combined bad deviation", func() error { _, err := NewMaxDeviationAndAngle(0.0, 0.1); return err }()},
		{"combined bad angle", func() error { _, err := NewMaxDeviationAndAngle(0.1, 0.0); return err }()},
	} {
		require.ErrorIs(t, tc.err, ErrInvalidArgument, tc.name)
	}
}

func TestFlattenNilCurve(t *testing.T) {
	fl, err := NewMaxDeviation(0.1)
	require.NoError(t, err)
	_, err = fl.Flatten(nil)
	require.ErrorIs(t, err, ErrNilArgument)

	_, err = ToPolyLine(nil, fl)
	require.ErrorIs(t, err, ErrNilArgument)
	s, err := NewStraight(Pt(0.0, 0.0), Pt(1.0, 0.0))
	require.NoError(t, err)
	_, err = ToPolyLine(s, nil)
	require.ErrorIs(t, err, ErrNilArgument)
}

func TestToPolyLine(t *testing.T) {
	s, err := NewStraight(Pt(0.0, 0.0), Pt(10.0, 0.0))
	require.NoError(t, err)
	fl, err := NewNumSegments(2)
	require.NoError(t, err)
	pl, err := ToPolyLine(s, fl)
	require.NoError(t, err)
	diff(t, []Point{Pt(0.0, 0.0), Pt(5.0, 0.0), Pt(10.0, 0.0)}, polyLinePoints(pl))
}

func TestChordDeviation(t *testing.T) {
	p0, p1 := Pt(0.0, 0.0), Pt(10.0, 0.0)
	if got := chordDeviation(p0, p1, Pt(5.0, 2.0)); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("got %g, want 2", got)
	}
	// Beyond the segment ends the nearest endpoint counts.
	if got := chordDeviation(p0, p1, Pt(-3.0, 4.0)); math.Abs(got-5.0) > 1e-12 {
		t.Errorf("got %g, want 5", got)
	}
	if got := chordDeviation(p0, p1, Pt(13.0, 4.0)); math.Abs(got-5.0) > 1e-12 {
		t.Errorf("got %g, want 5", got)
	}
	// Degenerate chord.
	if got := chordDeviation(p0, p0, Pt(3.0, 4.0)); math.Abs(got-5.0) > 1e-12 {
		t.Errorf("got %g, want 5", got)
	}
}
