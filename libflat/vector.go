package libflat

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/flat-structures/flat.SDK/goflat"
)

// CCW is the orientation of an ordered pair of vectors.
type CCW int8

const (
	Clockwise        CCW = -1
	Collinear        CCW = 0
	CounterClockwise CCW = 1
)

// Orientation relates two vectors by the sign of their scalar product.
type Orientation int8

const (
	Opposite   Orientation = -1
	Orthogonal Orientation = 0
	Same       Orientation = 1
)

// Vector is a planar vector with exact coordinates in the ring T.
type Vector[T goflat.Elem[T]] struct {
	X, Y T
}

func (v Vector[T]) Add(w Vector[T]) Vector[T] { return Vector[T]{v.X.Add(w.X), v.Y.Add(w.Y)} }
func (v Vector[T]) Sub(w Vector[T]) Vector[T] { return Vector[T]{v.X.Sub(w.X), v.Y.Sub(w.Y)} }
func (v Vector[T]) Neg() Vector[T] { return Vector[T]{v.X.Neg(), v.Y.Neg()} }

func (v Vector[T]) Dot(w Vector[T]) T { return v.X.Mul(w.X).Add(v.Y.Mul(w.Y)) }
func (v Vector[T]) Cross(w Vector[T]) T { return v.X.Mul(w.Y).Sub(v.Y.Mul(w.X)) }

func (v Vector[T]) IsZero() bool { return v.X.Sign() == 0 && v.Y.Sign() == 0 }

func (v Vector[T]) Equal(w Vector[T]) bool {
	return v.X.Cmp(w.X) == 0 && v.Y.Cmp(w.Y) == 0
}

// NormSq is the squared Euclidean length.  Lengths themselves are usually
// irrational, so all comparisons in the core are between squared lengths.
func (v Vector[T]) NormSq() T { return v.Dot(v) }

// Ccw returns the orientation of w relative to v.
func (v Vector[T]) Ccw(w Vector[T]) CCW {
	return CCW(v.Cross(w).Sign())
}

// Orientation returns whether w points along v, against v, or orthogonally.
func (v Vector[T]) Orientation(w Vector[T]) Orientation {
	return Orientation(v.Dot(w).Sign())
}

// inCone reports whether v is weakly counterclockwise of b, i.e. strictly
// counterclockwise or pointing the same way.
func (v Vector[T]) inCone(b Vector[T]) bool {
	switch b.Ccw(v) {
	case CounterClockwise:
		return true
	case Collinear:
		return b.Orientation(v) == Same
	}
	return false
}

// InSector reports whether v lies in the half open angular interval
// [begin, end) swept counterclockwise from begin.  When begin and end point
// the same way the interval is a full turn and contains everything.
//
// All three vectors must be non-zero; a zero vector panics with
// ErrZeroVector since a zero vector has no direction to compare.
func (v Vector[T]) InSector(begin, end Vector[T]) bool {
	if v.IsZero() || begin.IsZero() || end.IsZero() {
		panic(errors.Wrap(goflat.ErrZeroVector, "InSector"))
	}
	switch begin.Ccw(end) {
	case CounterClockwise:
		return v.inCone(begin) && end.Ccw(v) == Clockwise
	case Clockwise:
		return v.inCone(begin) || end.Ccw(v) == Clockwise
	default:
		if begin.Orientation(end) == Same {
			// Full turn.
			return true
		}
		// Half turn [begin, -begin).
		return v.inCone(begin)
	}
}

// slopeClass buckets a non-zero vector by the line through it: 0 for the
// downward vertical, 1 for any non-vertical line, 2 for the upward vertical.
func slopeClass[T goflat.Elem[T]](v Vector[T]) int {
	if v.X.Sign() == 0 {
		if v.Y.Sign() < 0 {
			return 0
		}
		return 2
	}
	return 1
}

// CompareSlope is a strict weak order on non-zero vectors by the slope of the
// line they span: downward vertical, then finite slopes increasing, then
// upward vertical.  Opposite non-vertical vectors compare equal, so the order
// can key a set of slopes.
func CompareSlope[T goflat.Elem[T]](u, v Vector[T]) int {
	if u.IsZero() || v.IsZero() {
		panic(errors.Wrap(goflat.ErrZeroVector, "CompareSlope"))
	}
	cu, cv := slopeClass(u), slopeClass(v)
	if cu != cv {
		if cu < cv {
			return -1
		}
		return 1
	}
	if cu != 1 {
		return 0
	}
	if u.X.Sign() < 0 {
		u = u.Neg()
	}
	if v.X.Sign() < 0 {
		v = v.Neg()
	}
	// With both x > 0, slope(u) < slope(v) iff cross(u, v) > 0.
	return -u.Cross(v).Sign()
}

func (v Vector[T]) String() string {
	return fmt.Sprintf("(%s, %s)", v.X, v.Y)
}
