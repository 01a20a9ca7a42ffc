package waypath

import (
	"fmt"
	"math"
)

// FitTolerances carries the two tolerances the clothoid fitter works to.
// The zero value selects [DefaultFitTolerances].
type FitTolerances struct {
	// Position is the admissible endpoint position error, relative to the
	// chord length between the waypoints.
	Position float64
	// Angle is the admissible heading error in radians. It also controls
	// when the fit degenerates: straight-line and circular-arc geometry
	// within this tolerance of the waypoint headings is applied instead of a
	// spiral.
	Angle float64
}

// DefaultFitTolerances is the tolerance pair used for a zero-valued
// [FitTolerances].
var DefaultFitTolerances = FitTolerances{
	Position: 1e-6,
	Angle:    1e-6,
}

func (tol FitTolerances) withDefaults() FitTolerances {
	if tol.Position <= 0.0 {
		tol.Position = DefaultFitTolerances.Position
	}
	if tol.Angle <= 0.0 {
		tol.Angle = DefaultFitTolerances.Angle
	}
	return tol
}

// maxFitIterations bounds the Newton search for the spiral's curvature slope.
// When the budget runs out, the best iterate so far is applied; see the
// package documentation on termination policy.
const maxFitIterations = 32

// FitClothoid fits a clothoid that interpolates two directed waypoints: it
// starts at the position and heading of start and ends at the position and
// heading of end.
//
// The fit degenerates where simpler geometry suffices, in this order: a
// straight segment when the chord heading already matches both waypoint
// headings within tol.Angle, else a circular arc when one satisfies both
// endpoint constraints, else the general spiral, whose curvature parameters
// are found by Newton iteration on the integrated end pose. The applied
// geometry is reported by [Clothoid.AppliedShape].
//
// Coincident waypoints are accepted only with matching headings (a
// zero-length straight); otherwise no direction is determinable and
// [ErrInvalidArgument] is returned. [ErrNonconvergence] is returned when the
// spiral search degrades into non-finite parameters.
func FitClothoid(start, end DirectedPoint, tol FitTolerances) (*Clothoid, error) {
	if !start.IsFinite() || !end.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite waypoint", ErrInvalidArgument)
	}
	tol = tol.withDefaults()

	chord := end.Point.Sub(start.Point)
	d := chord.Hypot()
	if d == 0.0 {
		if math.Abs(normalizeAngle(end.Dir-start.Dir)) <= tol.Angle {
			return &Clothoid{start: start, shape: ShapeStraight}, nil
		}
		return nil, fmt.Errorf("%w: coincident waypoints with differing headings", ErrInvalidArgument)
	}

	chordAng := chord.Angle()
	// Waypoint headings as deviations from the chord.
	phi0 := normalizeAngle(start.Dir - chordAng)
	phi1 := normalizeAngle(end.Dir - chordAng)

	if math.Abs(phi0) <= tol.Angle && math.Abs(phi1) <= tol.Angle {
		// The chord itself satisfies both headings.
		return &Clothoid{
			start:  DirectedPoint{Point: start.Point, Dir: chordAng},
			length: d,
			shape:  ShapeStraight,
		}, nil
	}

	if math.Abs(normalizeAngle(phi0+phi1)) <= tol.Angle {
		// Tangent deviations are opposite: a single circular arc hits both
		// endpoint poses. The arc's half sweep is the (averaged) deviation.
		phi := 0.5 * (phi1 - phi0)
		k := 2.0 * math.Sin(phi) / d
		return &Clothoid{
			start:  DirectedPoint{Point: start.Point, Dir: chordAng - phi},
			k0:     k,
			k1:     k,
			length: phi * d / math.Sin(phi),
			shape:  ShapeArc,
		}, nil
	}

	return fitSpiral(start, d, phi0, phi1, tol)
}

// fitSpiral solves the general two-point spiral.
//
// In the chord frame the spiral is normalized to arc length 1 with heading
// h(σ) = φ0 + xσ + yσ². The end heading fixes y = φ1 − φ0 − x, leaving the
// single unknown x, the normalized start curvature. The end point lands on
// the chord exactly when the transverse Fresnel integral Y(x) = ∫sin h dσ
// vanishes, so the fit reduces to one-dimensional Newton iteration on Y,
// seeded with the Euler-spiral series expansion of the curvature slope.
func fitSpiral(start DirectedPoint, d, phi0, phi1 float64, tol FitTolerances) (*Clothoid, error) {
	dphi := phi1 - phi0
	x := spiralSeedCurvature(phi0, phi1)
	// The integrals are re-evaluated after every update so that, when the
	// iteration budget runs out, length and curvatures all describe the same
	// iterate.
	sinInt, cosInt, deriv := spiralIntegrals(phi0, dphi, x)
	for range maxFitIterations {
		if math.Abs(sinInt) <= tol.Position*math.Abs(cosInt) || deriv == 0.0 {
			break
		}
		x -= sinInt / deriv
		if !isFinite(x) {
			return nil, fmt.Errorf("%w: spiral fit diverged for deviations (%g, %g)", ErrNonconvergence, phi0, phi1)
		}
		sinInt, cosInt, deriv = spiralIntegrals(phi0, dphi, x)
	}
	if !(cosInt > 0.0) {
		return nil, fmt.Errorf("%w: spiral fit left the chord frame for deviations (%g, %g)", ErrNonconvergence, phi0, phi1)
	}
	length := d / cosInt
	y := dphi - x
	return &Clothoid{
		start:  start,
		k0:     x / length,
		k1:     (x + 2.0*y) / length,
		length: length,
		shape:  ShapeClothoid,
	}, nil
}

// spiralSeedCurvature returns a series-expansion estimate of the normalized
// start curvature for tangent deviations φ0 and φ1, used to seed the Newton
// search. The polynomial is the Euler-spiral curvature fit from the stroke
// expansion literature; it is accurate to well under a percent for
// deviations up to about a radian, which covers everything but near-cusp
// fits.
func spiralSeedCurvature(phi0, phi1 float64) float64 {
	th0 := phi0
	th1 := -phi1
	k0 := th0 + th1
	dth := th1 - th0
	d2 := dth * dth
	k2 := k0 * k0
	a := 6.0
	a -= d2 * (1.0 / 70.0)
	a -= (d2 * d2) * (1.0 / 10780.0)
	a += (d2 * d2 * d2) * 2.769178184818219e-07
	b := -0.1 + d2*(1.0/4200.0) + d2*d2*1.6959677820260655e-05
	c := -1.0/1400.0 + d2*6.84915970574303e-05 - k2*7.936475029053326e-06
	a += (b + c*k2) * k2
	k1 := dth * a
	return 0.5*k1 - k0
}

// spiralIntegrals evaluates the normalized spiral's Fresnel integrals
// ∫sin h dσ and ∫cos h dσ for h(σ) = φ0 + xσ + (dphi−x)σ², together with
// d/dx ∫sin h dσ, by subdivided 16-point Legendre-Gauss quadrature.
func spiralIntegrals(phi0, dphi, x float64) (sinInt, cosInt, deriv float64) {
	y := dphi - x
	// |h′| ≤ |x| + 2|y| bounds the swept heading.
	n := min(1+int((math.Abs(x)+2.0*math.Abs(y))*(1.0/integrateAnglePerInterval)), maxIntegrateIntervals)
	h := 1.0 / float64(n)
	for i := range n {
		mid := (float64(i) + 0.5) * h
		for _, coeff := range gaussLegendreCoeffs16 {
			wi, xi := coeff[0], coeff[1]
			sigma := mid + 0.5*h*xi
			sin, cos := math.Sincos(phi0 + (x+y*sigma)*sigma)
			sinInt += wi * sin
			cosInt += wi * cos
			// ∂h/∂x = σ − σ², as y absorbs −x.
			deriv += wi * cos * (sigma - sigma*sigma)
		}
	}
	scale := 0.5 * h
	return sinInt * scale, cosInt * scale, deriv * scale
}

// FitClothoidThrough fits a pair of clothoids from start to end that passes
// through an intermediate point. The heading at the through point bisects the
// incoming and outgoing leg directions; each leg is then fit with
// [FitClothoid].
//
// A through point coincident with either anchor leaves its heading
// undeterminable and is rejected with [ErrInvalidArgument], as is a through
// point at which the legs exactly reverse.
func FitClothoidThrough(start DirectedPoint, through Point, end DirectedPoint, tol FitTolerances) (*Clothoid, *Clothoid, error) {
	if !through.IsFinite() {
		return nil, nil, fmt.Errorf("%w: non-finite through point", ErrInvalidArgument)
	}
	if through == start.Point || through == end.Point {
		return nil, nil, fmt.Errorf("%w: through point coincides with an anchor", ErrInvalidArgument)
	}
	in := through.Sub(start.Point).Normalize()
	out := end.Point.Sub(through).Normalize()
	bisector := in.Add(out)
	if bisector.Hypot2() < 1e-12 {
		return nil, nil, fmt.Errorf("%w: legs reverse at the through point", ErrInvalidArgument)
	}
	mid := DirectedPoint{Point: through, Dir: bisector.Angle()}
	first, err := FitClothoid(start, mid, tol)
	if err != nil {
		return nil, nil, err
	}
	second, err := FitClothoid(mid, end, tol)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}
