package goflat

import (
	"fmt"
	"math/big"
)

// Elem is the contract a coordinate ring element must satisfy.  A ring only
// needs addition, subtraction, multiplication and an exact total order; no
// division is ever required by the core.
//
// All operations are value semantics: an element is never mutated in place.
type Elem[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Neg() T

	// Sign returns -1, 0 or 1.
	Sign() int

	// Cmp returns -1, 0 or 1 as the receiver is less than, equal to or
	// greater than the argument.
	Cmp(T) int

	// One returns the multiplicative unit of the ring.
	One() T

	String() string
}

// Int64 is the fast integer coordinate ring.  The caller is responsible for
// staying clear of overflow; there is no silent promotion.
type Int64 int64

func (a Int64) Add(b Int64) Int64 { return a + b }
func (a Int64) Sub(b Int64) Int64 { return a - b }
func (a Int64) Mul(b Int64) Int64 { return a * b }
func (a Int64) Neg() Int64 { return -a }
func (a Int64) One() Int64 { return 1 }

func (a Int64) Sign() int {
	switch {
	case a < 0:
		return -1
	case a > 0:
		return 1
	}
	return 0
}

func (a Int64) Cmp(b Int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (a Int64) String() string {
	return fmt.Sprintf("%d", int64(a))
}

// Rat is an exact rational coordinate ring backed by math/big.
//
// The zero value is the ring zero.  Every operation returns a fresh value, so
// Rat can be copied and compared freely.
type Rat struct {
	r *big.Rat
}

func NewRat(num, den int64) Rat {
	return Rat{big.NewRat(num, den)}
}

func (a Rat) rat() *big.Rat {
	if a.r == nil {
		return new(big.Rat)
	}
	return a.r
}

func (a Rat) Add(b Rat) Rat { return Rat{new(big.Rat).Add(a.rat(), b.rat())} }
func (a Rat) Sub(b Rat) Rat { return Rat{new(big.Rat).Sub(a.rat(), b.rat())} }
func (a Rat) Mul(b Rat) Rat { return Rat{new(big.Rat).Mul(a.rat(), b.rat())} }
func (a Rat) Neg() Rat { return Rat{new(big.Rat).Neg(a.rat())} }
func (a Rat) One() Rat { return NewRat(1, 1) }

func (a Rat) Sign() int { return a.rat().Sign() }
func (a Rat) Cmp(b Rat) int { return a.rat().Cmp(b.rat()) }
func (a Rat) String() string { return a.rat().RatString() }
