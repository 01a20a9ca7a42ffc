// Package waypath builds smooth planar transition curves between directed
// waypoints and flattens them into polylines with controllable error bounds.
// It was designed to serve the needs of road and rail network design, where
// link center lines connect nodes with prescribed positions and headings, but
// it is intended to be general enough for other path-planning applications.
//
// # Curves
//
// [Curve] describes parametric curves. These curves can be evaluated at
// t ∈ [0, 1] and return points in a 2D Cartesian coordinate system, together
// with tangent directions and curvatures at both ends. All curves except the
// cubic Bézier are parameterized proportionally to arc length.
//
// This package includes the following curves:
//   - [Straight]
//   - [Arc]
//   - [BezierCubic]
//   - [Clothoid]
//
// The clothoid, also known as the Euler spiral, varies its curvature linearly
// with arc length and is the standard transition curve between tangent runs
// and circular arcs. [FitClothoid] constructs the unique curve connecting two
// directed waypoints, degenerating to a straight line or a circular arc when
// the waypoint headings permit; the applied shape is reported by
// [Clothoid.AppliedShape]. [FitClothoidThrough] splits the construction at an
// intermediate point.
//
// # Flattening
//
// [Flattener] converts curves into [PolyLine] approximations. [NumSegments]
// produces a fixed segment count; [MaxDeviation], [MaxAngle], and
// [MaxDeviationAndAngle] refine adaptively until every chord satisfies the
// configured bound.
//
// All iterative numeric searches in this package (the clothoid fit and
// adaptive flattening) run under fixed iteration bounds. When a requested
// tolerance is numerically unreachable, they return their best available
// approximation instead of failing; [ErrNonconvergence] is reported only when
// a search degrades into non-finite values.
//
// [OffsetFlattener] flattens the offset curve instead: each vertex is
// displaced perpendicular to the local tangent by a [PiecewiseLinearOffset]
// evaluated at the vertex's fractional arc-length position. Positive offsets
// displace to the left of the direction of travel. This serves lane and
// shoulder generation, where a lane runs parallel to the design line at a
// possibly varying distance.
package waypath
