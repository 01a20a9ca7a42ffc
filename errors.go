package waypath

import "errors"

var (
	// ErrInvalidArgument reports a constructor or operation argument outside
	// its admissible range: negative lengths, radii, or scales, non-finite
	// numbers, malformed offset-function data, or degenerate waypoint
	// configurations.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNilArgument reports a missing required reference, such as a nil
	// curve, offset function, or flattener.
	ErrNilArgument = errors.New("nil argument")

	// ErrNonconvergence reports that an iterative numeric search degraded
	// into non-finite intermediate values. Searches that merely exhaust
	// their iteration budget return their best approximation instead.
	ErrNonconvergence = errors.New("numeric search did not converge")

	// ErrIndexDomain reports a fraction argument outside [0, 1] where the
	// operation cannot clamp it meaningfully, such as splitting a curve.
	ErrIndexDomain = errors.New("fraction outside [0, 1]")
)
