package libflat

import "github.com/flat-structures/flat.SDK/goflat"

// Vertical is a distinguished direction in the plane.  It decomposes vectors
// into a component along itself and one perpendicular to it; both are exact
// ring values up to the fixed scaling by the vertical's length.
type Vertical[T goflat.Elem[T]] struct {
	direction Vector[T]
}

func NewVertical[T goflat.Elem[T]](direction Vector[T]) Vertical[T] {
	return Vertical[T]{direction}
}

func (v Vertical[T]) Direction() Vector[T] { return v.direction }

// Parallel is the (scaled) component of w along the vertical.
func (v Vertical[T]) Parallel(w Vector[T]) T { return v.direction.Dot(w) }

// Perpendicular is the (scaled) component of w across the vertical.
func (v Vertical[T]) Perpendicular(w Vector[T]) T { return v.direction.Cross(w) }

// IsParallel reports whether w spans the same line as the vertical.
func (v Vertical[T]) IsParallel(w Vector[T]) bool {
	return v.direction.Ccw(w) == Collinear
}

// IsLarge reports whether w has a non-degenerate vertical extent, i.e. the
// component of w or -w along the vertical is strictly positive while w is
// not itself vertical.
func (v Vertical[T]) IsLarge(w Vector[T]) bool {
	return v.Parallel(w).Sign() != 0 && !v.IsParallel(w)
}

func (v Vertical[T]) String() string { return v.direction.String() }
