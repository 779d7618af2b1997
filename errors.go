package numbench

import "errors"

// Sentinel errors returned by the package. All are matched via errors.Is;
// callers may see them wrapped with additional context.
var (
	// ErrUnknownScheme is returned when a finite-difference scheme is not
	// one of Forward, Central or ComplexStep.
	ErrUnknownScheme = errors.New("numbench: unknown finite-difference scheme")

	// ErrUnknownKernel is returned when a kernel name does not match any
	// of the modeled dense linear-algebra operations.
	ErrUnknownKernel = errors.New("numbench: unknown kernel")

	// ErrUnparsableComplexity is returned when an expected-complexity
	// descriptor matches none of the recognized patterns (n, n^2, n^3).
	ErrUnparsableComplexity = errors.New("numbench: cannot parse complexity descriptor")

	// ErrInsufficientSamples is returned when a complexity fit is requested
	// with fewer than two usable size/time pairs.
	ErrInsufficientSamples = errors.New("numbench: need at least two samples to fit")

	// ErrNonPositiveTime is returned when a measured time is zero or
	// negative; its logarithm is undefined and the fit cannot proceed.
	ErrNonPositiveTime = errors.New("numbench: non-positive measured time")

	// ErrDegenerateSweep is returned when all problem sizes in a sweep are
	// equal, leaving the regression with a zero-variance regressor.
	ErrDegenerateSweep = errors.New("numbench: all sweep sizes are equal")

	// ErrDimensionMismatch is returned when two vectors or matrices that
	// must share a shape do not.
	ErrDimensionMismatch = errors.New("numbench: dimension mismatch")

	// ErrUnknownDType is returned by the memory model for an unrecognized
	// element type name.
	ErrUnknownDType = errors.New("numbench: unknown dtype")
)
