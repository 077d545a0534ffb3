package libflat

import "fmt"

// HalfEdge is one of the two oriented sides of an edge.  Half edges are
// numbered 1..n; the negation denotes the opposite side, 0 is invalid.
type HalfEdge int32

func (e HalfEdge) Pair() HalfEdge { return -e }

func (e HalfEdge) IsPositive() bool { return e > 0 }

// Edge returns the unoriented edge, i.e. the canonical positive side.
func (e HalfEdge) Edge() Edge {
	if e < 0 {
		return Edge(-e)
	}
	return Edge(e)
}

// Index maps 1, -1, 2, -2, ... onto 0, 1, 2, 3, ... so half edge attributes
// can live in dense arrays with a parity bit for the sign.
func (e HalfEdge) Index() int {
	if e < 0 {
		return 2*int(-e) - 1
	}
	return 2 * int(e-1)
}

func halfEdgeFromIndex(i int) HalfEdge {
	if i%2 == 1 {
		return HalfEdge(-(i + 1) / 2)
	}
	return HalfEdge(i/2 + 1)
}

func (e HalfEdge) String() string {
	return fmt.Sprintf("%d", int32(e))
}

// Edge is an unoriented edge, identified with its positive half edge.
type Edge int32

func (E Edge) Positive() HalfEdge { return HalfEdge(E) }
func (E Edge) Negative() HalfEdge { return -HalfEdge(E) }

// Index maps 1, 2, 3, ... onto 0, 1, 2, ...
func (E Edge) Index() int { return int(E) - 1 }

func (E Edge) String() string {
	return fmt.Sprintf("%d", int32(E))
}
