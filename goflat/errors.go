package goflat

import "errors"

// Errors
var (
	// ErrInvalidArgument denotes that the caller violated a documented
	// precondition.  The surface is unchanged.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvariantViolated denotes that an internal consistency check failed
	// after a mutation.  The surface is left in an unspecified state and must
	// be discarded.
	ErrInvariantViolated = errors.New("invariant violated")

	// ErrOutOfDomain denotes that an operation cannot be performed exactly in
	// the coordinate ring.  Such checks happen before any mutation.
	ErrOutOfDomain = errors.New("operation is not exact in this coordinate ring")

	ErrZeroVector       = errors.New("zero vector has no direction")
	ErrFaceNotClosed    = errors.New("face does not close up")
	ErrNotAPermutation  = errors.New("not a permutation")
	ErrEmptyVertexCycle = errors.New("empty vertex cycle")
	ErrNotTriangular    = errors.New("face is not a triangle")
	ErrCollapsedFace    = errors.New("edge is incident to a collapsed face")
	ErrNotLarge         = errors.New("edge is not large with respect to the vertical")
	ErrNotVertical      = errors.New("edge is not parallel to the vertical")
	ErrNonPositiveArea  = errors.New("surface area is not positive")
)
