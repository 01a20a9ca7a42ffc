package waypath

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestFitClothoidStraight(t *testing.T) {
	c, err := FitClothoid(DirectedPt(0.0, 0.0, 0.0), DirectedPt(20.0, 0.0, 0.0), FitTolerances{})
	require.NoError(t, err)

	if got, want := c.AppliedShape(), ShapeStraight; got != want {
		t.Errorf("got shape %v, want %v", got, want)
	}
	if got := c.Length(); got != 20.0 {
		t.Errorf("got length %g, want 20", got)
	}
	diff(t, Pt(20.0, 0.0), c.End().Point, cmpopts.EquateApprox(0, 1e-9))

	// Same along a diagonal.
	c, err = FitClothoid(DirectedPt(0.0, 0.0, math.Pi/4.0), DirectedPt(10.0, 10.0, math.Pi/4.0), FitTolerances{})
	require.NoError(t, err)
	if got, want := c.AppliedShape(), ShapeStraight; got != want {
		t.Errorf("got shape %v, want %v", got, want)
	}
}

func TestFitClothoidArc(t *testing.T) {
	// Opposite tangent deviations from the chord close on a circle: a
	// quarter turn to the right over a circle of radius 10.
	start := DirectedPt(0.0, 0.0, math.Pi/2.0)
	end := DirectedPt(10.0, 10.0, 0.0)
	c, err := FitClothoid(start, end, FitTolerances{})
	require.NoError(t, err)

	if got, want := c.AppliedShape(), ShapeArc; got != want {
		t.Errorf("got shape %v, want %v", got, want)
	}
	if got, want := c.StartCurvature(), -0.1; math.Abs(got-want) > 1e-12 {
		t.Errorf("got curvature %g, want %g", got, want)
	}
	diff(t, end.Point, c.End().Point, cmpopts.EquateApprox(0, 1e-6))
	if got := math.Abs(normalizeAngle(c.End().Dir - end.Dir)); got > 1e-9 {
		t.Errorf("got end heading error %g", got)
	}
	if got, want := c.Length(), 5.0*math.Pi; math.Abs(got-want) > 1e-9 {
		t.Errorf("got length %g, want %g", got, want)
	}
}

func TestFitClothoidSpiral(t *testing.T) {
	start := DirectedPt(0.0, 0.0, 0.0)
	end := DirectedPt(100.0, 30.0, math.Pi/6.0)
	c, err := FitClothoid(start, end, FitTolerances{})
	require.NoError(t, err)

	if got, want := c.AppliedShape(), ShapeClothoid; got != want {
		t.Errorf("got shape %v, want %v", got, want)
	}
	d := start.Distance(end)
	if got := c.End().Point.Distance(end.Point); got > 1e-6*d*10.0 {
		t.Errorf("got end position error %g", got)
	}
	if got := math.Abs(normalizeAngle(c.End().Dir - end.Dir)); got > 1e-9 {
		t.Errorf("got end heading error %g", got)
	}
	diff(t, start.Point, c.Start().Point)
}

func TestFitClothoidRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	tol := FitTolerances{}.withDefaults()
	for range 200 {
		ang := -math.Pi + 2.0*math.Pi*rng.Float64()
		d := 10.0 + 90.0*rng.Float64()
		phi0 := -1.0 + 2.0*rng.Float64()
		phi1 := -1.0 + 2.0*rng.Float64()

		start := DirectedPoint{Point: Pt(-50.0+100.0*rng.Float64(), -50.0+100.0*rng.Float64()), Dir: ang + phi0}
		end := DirectedPoint{
			Point: start.Point.Translate(VecFromAngle(ang).Mul(d)),
			Dir:   ang + phi1,
		}

		c, err := FitClothoid(start, end, tol)
		require.NoError(t, err)
		if got := c.End().Point.Distance(end.Point); got > tol.Position*d*10.0 {
			t.Fatalf("phi0=%g phi1=%g d=%g: end position error %g", phi0, phi1, d, got)
		}
		if got := math.Abs(normalizeAngle(c.End().Dir - end.Dir)); got > 1e-9 {
			t.Fatalf("phi0=%g phi1=%g d=%g: end heading error %g", phi0, phi1, d, got)
		}
	}
}

func TestFitClothoidExhaustedBudget(t *testing.T) {
	// A position tolerance below floating-point resolution exhausts the
	// Newton budget. The best-effort spiral must still be self-consistent:
	// its length and curvatures describe one iterate, so the end pose lands
	// on the target to ordinary accuracy.
	start := DirectedPt(0.0, 0.0, 0.0)
	end := DirectedPt(100.0, 30.0, math.Pi/6.0)
	c, err := FitClothoid(start, end, FitTolerances{Position: 1e-300, Angle: 1e-300})
	require.NoError(t, err)

	if got, want := c.AppliedShape(), ShapeClothoid; got != want {
		t.Errorf("got shape %v, want %v", got, want)
	}
	d := start.Distance(end)
	if got := c.End().Point.Distance(end.Point); got > 1e-9*d {
		t.Errorf("got end position error %g", got)
	}
	if got := math.Abs(normalizeAngle(c.End().Dir - end.Dir)); got > 1e-9 {
		t.Errorf("got end heading error %g", got)
	}
}

func TestFitClothoidCoincident(t *testing.T) {
	c, err := FitClothoid(DirectedPt(3.0, 4.0, 1.0), DirectedPt(3.0, 4.0, 1.0), FitTolerances{})
	require.NoError(t, err)
	if got, want := c.AppliedShape(), ShapeStraight; got != want {
		t.Errorf("got shape %v, want %v", got, want)
	}
	if got := c.Length(); got != 0.0 {
		t.Errorf("got length %g, want 0", got)
	}
	diff(t, Pt(3.0, 4.0), c.Eval(0.5))

	_, err = FitClothoid(DirectedPt(3.0, 4.0, 1.0), DirectedPt(3.0, 4.0, 2.0), FitTolerances{})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFitClothoidRejectsNonFinite(t *testing.T) {
	_, err := FitClothoid(DirectedPt(math.NaN(), 0.0, 0.0), DirectedPt(1.0, 0.0, 0.0), FitTolerances{})
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = FitClothoid(DirectedPt(0.0, 0.0, 0.0), DirectedPt(1.0, 0.0, math.Inf(1)), FitTolerances{})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFitClothoidThrough(t *testing.T) {
	start := DirectedPt(0.0, 0.0, 0.0)
	through := Pt(10.0, 5.0)
	end := DirectedPt(20.0, 0.0, 0.0)
	first, second, err := FitClothoidThrough(start, through, end, FitTolerances{})
	require.NoError(t, err)

	diff(t, start.Point, first.Start().Point)
	diff(t, through, first.End().Point, cmpopts.EquateApprox(0, 1e-4))
	diff(t, through, second.Start().Point)
	diff(t, end.Point, second.End().Point, cmpopts.EquateApprox(0, 1e-4))
	// Heading is continuous across the through point.
	if got := math.Abs(normalizeAngle(first.End().Dir - second.Start().Dir)); got > 1e-9 {
		t.Errorf("got heading discontinuity %g at the through point", got)
	}
	// The through heading bisects the legs; symmetric legs give a level
	// heading there.
	if got := math.Abs(normalizeAngle(second.Start().Dir)); got > 1e-12 {
		t.Errorf("got through heading %g, want 0", got)
	}
}

func TestFitClothoidThroughRejectsDegenerate(t *testing.T) {
	start := DirectedPt(0.0, 0.0, 0.0)
	end := DirectedPt(20.0, 0.0, 0.0)
	_, _, err := FitClothoidThrough(start, start.Point, end, FitTolerances{})
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, _, err = FitClothoidThrough(start, end.Point, end, FitTolerances{})
	require.ErrorIs(t, err, ErrInvalidArgument)
	// Legs that exactly reverse leave no bisector.
	_, _, err = FitClothoidThrough(start, Pt(30.0, 0.0), end, FitTolerances{})
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, _, err = FitClothoidThrough(start, Pt(10.0, math.NaN()), end, FitTolerances{})
	require.ErrorIs(t, err, ErrInvalidArgument)
}
