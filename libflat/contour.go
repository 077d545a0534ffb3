package libflat

import (
	"github.com/pkg/errors"

	"github.com/flat-structures/flat.SDK/goflat"
)

// Contour / flow decomposition scaffolding.  The decomposition algorithm
// itself sits on top of the collapsed surface; the core's obligation is that
// after any flip or collapse the contour below stays reconstructible by
// re-walking the hidden lists.

// ContourConnection is a non-vertical saddle connection on the boundary of a
// flow component, together with the vertical connections hanging off its two
// sides.
type ContourConnection[T goflat.Elem[T]] struct {
	Connection *SaddleConnection[T]
	Left       []*SaddleConnection[T]
	Right      []*SaddleConnection[T]
}

// FlowComponent is a piece of the surface invariant under the vertical flow,
// bounded by a cyclic contour.  Whether the component is a cylinder or
// minimal is decided by the decomposition algorithm above the core.
type FlowComponent[T goflat.Elem[T]] struct {
	Perimeter []ContourConnection[T]
	Cylinder  bool
}

// FlowDecomposer partitions a collapsed surface into flow components.
type FlowDecomposer[T goflat.Elem[T]] interface {
	Decompose(c *CollapsedTriangulation[T]) ([]FlowComponent[T], error)
}

// ContourOf re-walks the hidden lists of the collapsed surface into the
// cyclic sequences of contour connections, one cycle per face.  It is the
// reconstruction a decomposer relies on after every flip or collapse.
func ContourOf[T goflat.Elem[T]](c *CollapsedTriangulation[T]) ([][]ContourConnection[T], error) {
	var out [][]ContourConnection[T]
	for _, cycle := range c.FaceCycles() {
		var contour []ContourConnection[T]
		for _, e := range cycle {
			conn := c.FromEdge(e)
			if c.Vertical().IsParallel(conn.Vector()) {
				return nil, errors.Wrapf(goflat.ErrInvariantViolated, "collapsed surface still carries the vertical edge %s", e)
			}
			contour = append(contour, ContourConnection[T]{
				Connection: conn,
				Left:       c.Hidden(e),
				Right:      c.Hidden(-e),
			})
		}
		out = append(out, contour)
	}
	return out, nil
}
