package libflat

import (
	"fmt"

	"github.com/flat-structures/flat.SDK/goflat"
)

// SaddleConnection is a straight segment between singularities of a flat
// triangulation whose interior meets none.  The source and target half edges
// identify the outgoing angular sector at each endpoint; the chain records
// the segment as a formal sum of edges, so its vector stays exact.
//
// A connection is immutable once emitted.
type SaddleConnection[T goflat.Elem[T]] struct {
	source HalfEdge
	target HalfEdge
	chain  *Chain[T]
	vector Vector[T]
}

// NewSaddleConnection seals a chain into a connection.
func NewSaddleConnection[T goflat.Elem[T]](source, target HalfEdge, chain *Chain[T]) *SaddleConnection[T] {
	return &SaddleConnection[T]{
		source: source,
		target: target,
		chain:  chain,
		vector: chain.Vector(),
	}
}

// ConnectionFromEdge is the saddle connection of length one along e.
func ConnectionFromEdge[T goflat.Elem[T]](s *FlatTriangulation[T], e HalfEdge) *SaddleConnection[T] {
	return NewSaddleConnection(e, -e, NewChain(s).AddHalfEdge(e))
}

func (c *SaddleConnection[T]) Source() HalfEdge { return c.source }
func (c *SaddleConnection[T]) Target() HalfEdge { return c.target }
func (c *SaddleConnection[T]) Chain() *Chain[T] { return c.chain }
func (c *SaddleConnection[T]) Vector() Vector[T] { return c.vector }
func (c *SaddleConnection[T]) NormSq() T { return c.vector.NormSq() }
func (c *SaddleConnection[T]) Surface() *FlatTriangulation[T] { return c.chain.Surface() }

// Reversed returns the same segment walked the other way.
func (c *SaddleConnection[T]) Reversed() *SaddleConnection[T] {
	return NewSaddleConnection(c.target, c.source, c.chain.Neg())
}

// Equal compares connections: two connections are the same iff their vectors
// agree and their source and target sectors coincide.
func (c *SaddleConnection[T]) Equal(d *SaddleConnection[T]) bool {
	return c.source == d.source && c.target == d.target && c.vector.Equal(d.vector)
}

// Extend glues d onto the end of c, keeping c's source and d's target.  The
// two segments must meet head to tail; the chain arithmetic keeps the
// combined vector exact.
func (c *SaddleConnection[T]) Extend(d *SaddleConnection[T]) *SaddleConnection[T] {
	return NewSaddleConnection(c.source, d.target, c.chain.Clone().AddChain(d.chain))
}

// key serialises the connection for dedup sets.
func (c *SaddleConnection[T]) key() []byte {
	return []byte(fmt.Sprintf("%d|%d|%s", c.source, c.target, c.vector))
}

func (c *SaddleConnection[T]) String() string {
	return c.vector.String()
}
