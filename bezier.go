package waypath

import (
	"fmt"
	"math"
)

// BezierCubic is a cubic Bézier curve through four control points.
type BezierCubic struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

var _ Curve = BezierCubic{}

// bezierLengthAccuracy is the accuracy to which [BezierCubic.Length] measures
// arc length. The other curve kinds know their length exactly; the Bézier is
// the only kind that needs quadrature.
const bezierLengthAccuracy = 1e-9

// NewBezierCubic returns the cubic Bézier through the four control points.
//
// Non-finite control points, or four coincident control points (which leave
// the direction of travel undefined), are rejected with [ErrInvalidArgument].
func NewBezierCubic(p0, p1, p2, p3 Point) (BezierCubic, error) {
	for _, p := range []Point{p0, p1, p2, p3} {
		if !p.IsFinite() {
			return BezierCubic{}, fmt.Errorf("%w: non-finite control point", ErrInvalidArgument)
		}
	}
	if p0 == p1 && p1 == p2 && p2 == p3 {
		return BezierCubic{}, fmt.Errorf("%w: all control points coincide", ErrInvalidArgument)
	}
	return BezierCubic{p0, p1, p2, p3}, nil
}

// BezierFromPoses returns a cubic Bézier between two directed waypoints whose
// end tangents match the waypoint headings. The control arms extend one third
// of the chord length along each heading.
func BezierFromPoses(start, end DirectedPoint) (BezierCubic, error) {
	if !start.IsFinite() || !end.IsFinite() {
		return BezierCubic{}, fmt.Errorf("%w: non-finite waypoint", ErrInvalidArgument)
	}
	chord := start.Distance(end)
	if chord == 0.0 {
		return BezierCubic{}, fmt.Errorf("%w: coincident waypoints", ErrInvalidArgument)
	}
	arm := chord * (1.0 / 3.0)
	return BezierCubic{
		P0: start.Point,
		P1: start.Point.Translate(start.DirVec().Mul(arm)),
		P2: end.Point.Translate(end.DirVec().Mul(arm).Negate()),
		P3: end.Point,
	}, nil
}

func (b BezierCubic) Eval(t float64) Point {
	t = clampFraction(t)
	mt := 1.0 - t
	a := Vec2(b.P0).Mul(mt * mt * mt)
	d := Vec2(b.P1).Mul(mt * mt * 3.0)
	c := Vec2(b.P2).Mul(mt * 3.0)
	v := a.Add(d.Add(c.Add(Vec2(b.P3).Mul(t)).Mul(t)).Mul(t))
	return Point(v)
}

// deriv returns the first parametric derivative at t.
func (b BezierCubic) deriv(t float64) Vec2 {
	mt := 1.0 - t
	d0 := b.P1.Sub(b.P0).Mul(3.0 * mt * mt)
	d1 := b.P2.Sub(b.P1).Mul(6.0 * mt * t)
	d2 := b.P3.Sub(b.P2).Mul(3.0 * t * t)
	return d0.Add(d1).Add(d2)
}

// deriv2 returns the second parametric derivative at t.
func (b BezierCubic) deriv2(t float64) Vec2 {
	mt := 1.0 - t
	dd1 := b.P2.Sub(b.P1).Sub(b.P1.Sub(b.P0))
	dd2 := b.P3.Sub(b.P2).Sub(b.P2.Sub(b.P1))
	return dd1.Mul(6.0 * mt).Add(dd2.Mul(6.0 * t))
}

func (b BezierCubic) Direction(t float64) Vec2 {
	t = clampFraction(t)
	const epsilon = 1e-12
	d := b.deriv(t)
	if d.Hypot2() > epsilon {
		return d.Normalize()
	}
	// Degenerate derivative; fall back to neighboring control points, the
	// same order a chord-based tangent would use.
	switch t {
	case 0.0:
		d0, _ := b.tangents()
		return d0.Normalize()
	case 1.0:
		_, d1 := b.tangents()
		return d1.Normalize()
	default:
		return b.P3.Sub(b.P0).Normalize()
	}
}

// tangents returns non-normalized start and end tangents, falling back to
// further control points when control arms collapse.
func (b BezierCubic) tangents() (Vec2, Vec2) {
	const epsilon = 1e-12
	d01 := b.P1.Sub(b.P0)
	var d0, d1 Vec2
	if d01.Hypot2() > epsilon {
		d0 = d01
	} else {
		d02 := b.P2.Sub(b.P0)
		if d02.Hypot2() > epsilon {
			d0 = d02
		} else {
			d0 = b.P3.Sub(b.P0)
		}
	}
	d23 := b.P3.Sub(b.P2)
	if d23.Hypot2() > epsilon {
		d1 = d23
	} else {
		d13 := b.P3.Sub(b.P1)
		if d13.Hypot2() > epsilon {
			d1 = d13
		} else {
			d1 = b.P3.Sub(b.P0)
		}
	}
	return d0, d1
}

// curvature returns the signed curvature at t, from the first and second
// parametric derivatives.
func (b BezierCubic) curvature(t float64) float64 {
	d1 := b.deriv(t)
	d2 := b.deriv2(t)
	h := d1.Hypot()
	return d1.Cross(d2) / (h * h * h)
}

func (b BezierCubic) StartCurvature() float64 { return b.curvature(0.0) }
func (b BezierCubic) EndCurvature() float64   { return b.curvature(1.0) }

func (b BezierCubic) Start() DirectedPoint {
	d0, _ := b.tangents()
	return DirectedPoint{Point: b.P0, Dir: d0.Angle()}
}

func (b BezierCubic) End() DirectedPoint {
	_, d1 := b.tangents()
	return DirectedPoint{Point: b.P3, Dir: d1.Angle()}
}

// Length returns the arc length of the Bézier, measured by adaptive
// Legendre-Gauss quadrature.
func (b BezierCubic) Length() float64 {
	return b.arclen(bezierLengthAccuracy, 0)
}

func (b BezierCubic) arclen(accuracy float64, depth int) float64 {
	d03 := b.P3.Sub(b.P0)
	d01 := b.P1.Sub(b.P0)
	d12 := b.P2.Sub(b.P1)
	d23 := b.P3.Sub(b.P2)
	lplc := d01.Hypot() + d12.Hypot() + d23.Hypot() - d03.Hypot()
	dd1 := d12.Sub(d01)
	dd2 := d23.Sub(d12)
	// The following values don't have the factor of 3 for the first deriv.
	dm := d01.Add(d23).Mul(0.25).Add(d12.Mul(0.5)) // first derivative at midpoint
	dm1 := dd2.Add(dd1).Mul(0.5)                   // second derivative at midpoint
	dm2 := dd2.Sub(dd1).Mul(0.25)                  // 0.5 * (third derivative at midpoint)

	var est float64
	for _, coeff := range gaussLegendreCoeffs8 {
		wi, xi := coeff[0], coeff[1]
		dNorm2 := dm.Add(dm1.Mul(xi)).Add(dm2.Mul(xi * xi)).Hypot2()
		ddNorm2 := dm1.Add(dm2.Mul(2.0 * xi)).Hypot2()
		f := ddNorm2 / dNorm2
		est += wi * f
	}
	if math.IsNaN(est) {
		// dNorm2 will be 0 as the curve approaches a singularity
		est = 0
	}

	estGauss8Error := min(math.Pow(est, 3)*2.5e-6, 3e-2) * lplc
	if estGauss8Error < accuracy {
		return arclenQuadratureCore(gaussLegendreCoeffs8Half[:], dm, dm1, dm2)
	}
	estGauss16Error := min(math.Pow(est, 6)*1.5e-11, 9e-3) * lplc
	if estGauss16Error < accuracy {
		return arclenQuadratureCore(gaussLegendreCoeffs16Half[:], dm, dm1, dm2)
	}
	estGauss24Error := min(math.Pow(est, 9)*3.5e-16, 3.5e-3) * lplc
	if estGauss24Error < accuracy || depth >= 20 {
		return arclenQuadratureCore(gaussLegendreCoeffs24Half[:], dm, dm1, dm2)
	}
	b0, b1 := b.subdivide()
	return b0.arclen(accuracy*0.5, depth+1) + b1.arclen(accuracy*0.5, depth+1)
}

func arclenQuadratureCore(coeffs [][2]float64, dm Vec2, dm1 Vec2, dm2 Vec2) float64 {
	var sum float64
	for _, coeff := range coeffs {
		wi, xi := coeff[0], coeff[1]
		d := dm.Add(dm2.Mul(xi * xi))
		dpx := d.Add(dm1.Mul(xi)).Hypot()
		dmx := d.Sub(dm1.Mul(xi)).Hypot()
		sum += math.Sqrt(2.25) * wi * (dpx + dmx)
	}
	return sum
}

// subdivide splits the Bézier into halves, using de Casteljau.
func (b BezierCubic) subdivide() (BezierCubic, BezierCubic) {
	pm := b.Eval(0.5)
	return BezierCubic{
			b.P0,
			b.P0.Midpoint(b.P1),
			Point(Vec2(b.P0).Add(Vec2(b.P1).Mul(2.0)).Add(Vec2(b.P2)).Mul(0.25)),
			pm,
		},
		BezierCubic{
			pm,
			Point(Vec2(b.P1).Add(Vec2(b.P2).Mul(2.0)).Add(Vec2(b.P3)).Mul(0.25)),
			b.P2.Midpoint(b.P3),
			b.P3,
		}
}

// Split splits the Bézier at fraction t, using de Casteljau, and returns the
// two sub-curves. A fraction outside [0, 1] is rejected with [ErrIndexDomain].
func (b BezierCubic) Split(t float64) (BezierCubic, BezierCubic, error) {
	if math.IsNaN(t) || t < 0.0 || t > 1.0 {
		return BezierCubic{}, BezierCubic{}, fmt.Errorf("%w: split at %g", ErrIndexDomain, t)
	}
	p01 := b.P0.Lerp(b.P1, t)
	p12 := b.P1.Lerp(b.P2, t)
	p23 := b.P2.Lerp(b.P3, t)
	p012 := p01.Lerp(p12, t)
	p123 := p12.Lerp(p23, t)
	pm := p012.Lerp(p123, t)
	return BezierCubic{b.P0, p01, p012, pm}, BezierCubic{pm, p123, p23, b.P3}, nil
}

// subsegment returns the sub-curve for the fraction range [t0, t1].
func (b BezierCubic) subsegment(t0, t1 float64) BezierCubic {
	p0 := b.Eval(t0)
	p3 := b.Eval(t1)
	scale := (t1 - t0) * (1.0 / 3.0)
	p1 := p0.Translate(b.deriv(t0).Mul(scale))
	p2 := p3.Translate(b.deriv(t1).Mul(scale).Negate())
	return BezierCubic{p0, p1, p2, p3}
}

// ParamAtLength solves for the fraction that has the given arc length from
// the start of the curve.
//
// This uses [SolveITP], which is as robust as bisection but typically
// converges faster. Arc lengths of increasingly smaller segments of the curve
// are computed incrementally, as that is faster than repeatedly measuring the
// segment starting at t=0.
func (b BezierCubic) ParamAtLength(arclen float64) float64 {
	if arclen <= 0.0 {
		return 0.0
	}
	total := b.Length()
	if arclen >= total {
		return 1.0
	}
	const accuracy = bezierLengthAccuracy
	tLast := 0.0
	arclenLast := 0.0
	epsilon := max(accuracy/total, 1e-12)
	n := 1.0 - min(math.Ceil(math.Log2(epsilon)), 0.0)
	innerAccuracy := accuracy / n
	f := func(t float64) float64 {
		var rangeStart, rangeEnd, dir float64
		if t > tLast {
			rangeStart = tLast
			rangeEnd = t
			dir = 1.0
		} else {
			rangeStart = t
			rangeEnd = tLast
			dir = -1.0
		}
		arc := b.subsegment(rangeStart, rangeEnd).arclen(innerAccuracy, 0)
		arclenLast += arc * dir
		tLast = t
		return arclenLast - arclen
	}
	return SolveITP(f, 0.0, 1.0, epsilon, 1, 0.2, -arclen, total-arclen)
}
