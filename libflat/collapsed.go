package libflat

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/flat-structures/flat.SDK/goflat"
)

// CollapsedTriangulation is a flat triangulation in which every edge parallel
// to a distinguished vertical direction has been contracted.  The geometry of
// a contracted edge is not lost: each remaining edge carries, besides its own
// vector (always a saddle connection of the original surface), the ordered
// list of vertical connections a crossing of the edge sweeps over.
//
// The collapsed surface owns its combinatorial triangulation and its stores;
// it shares the original, uncollapsed surface read-only with its creator.
type CollapsedTriangulation[T goflat.Elem[T]] struct {
	*Triangulation
	original *FlatTriangulation[T]
	vertical Vertical[T]

	// vectors[e] is the saddle connection of the original surface that runs
	// from the tail of e to the head of e.
	vectors *TrackingMap[*SaddleConnection[T]]

	// hidden stores each edge's swept connections canonically for the
	// positive half edge; the view for -e is the reversed, negated list, so
	// the mirror invariant holds by construction.
	hidden *EdgeMap[[]*SaddleConnection[T]]
}

// NewCollapsed builds the collapsed surface: it clones the flat surface's
// combinatorics and then contracts vertical edges until none remain.  The
// input surface is retained by reference and never mutated.
func NewCollapsed[T goflat.Elem[T]](flat *FlatTriangulation[T], vertical Vector[T]) (*CollapsedTriangulation[T], error) {
	if vertical.IsZero() {
		return nil, errors.Wrap(goflat.ErrZeroVector, "vertical")
	}
	c := &CollapsedTriangulation[T]{
		Triangulation: flat.Triangulation.clone(),
		original:      flat,
		vertical:      NewVertical(vertical),
	}
	c.hidden = NewEdgeMap(c.Triangulation,
		func(Edge) []*SaddleConnection[T] { return nil },
		nil, nil)
	c.vectors = NewTrackingMap(c.Triangulation,
		func(e HalfEdge) *SaddleConnection[T] { return ConnectionFromEdge(flat, e) },
		c.updateAfterFlip,
		c.updateBeforeCollapse)

	for {
		collapsed := false
		for _, e := range c.HalfEdges() {
			if !e.IsPositive() {
				continue
			}
			if c.vertical.IsParallel(c.FromEdge(e).Vector()) {
				if _, _, err := c.Collapse(e); err != nil {
					return nil, err
				}
				collapsed = true
				break
			}
		}
		if !collapsed {
			break
		}
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

// Uncollapsed returns the original flat surface, shared read-only.
func (c *CollapsedTriangulation[T]) Uncollapsed() *FlatTriangulation[T] { return c.original }

func (c *CollapsedTriangulation[T]) Vertical() Vertical[T] { return c.vertical }

// FromEdge returns the saddle connection of the original surface running
// along the half edge.
func (c *CollapsedTriangulation[T]) FromEdge(e HalfEdge) *SaddleConnection[T] {
	return c.vectors.Get(e)
}

// Hidden returns the ordered vertical connections a crossing of e sweeps
// over.  The list for -e is the reverse of the negated list for e.
func (c *CollapsedTriangulation[T]) Hidden(e HalfEdge) []*SaddleConnection[T] {
	canonical := c.hidden.Get(e.Edge())
	if e.IsPositive() {
		return canonical
	}
	return reverseNegated(canonical)
}

func reverseNegated[T goflat.Elem[T]](list []*SaddleConnection[T]) []*SaddleConnection[T] {
	out := make([]*SaddleConnection[T], len(list))
	for i, conn := range list {
		out[len(list)-1-i] = conn.Reversed()
	}
	return out
}

// setHidden writes the oriented view of e's hidden list.
func (c *CollapsedTriangulation[T]) setHidden(e HalfEdge, list []*SaddleConnection[T]) {
	if e.IsPositive() {
		c.hidden.Set(e.Edge(), list)
	} else {
		c.hidden.Set(e.Edge(), reverseNegated(list))
	}
}

// Cross returns the connections swept when crossing e.
func (c *CollapsedTriangulation[T]) Cross(e HalfEdge) []*SaddleConnection[T] {
	return c.Hidden(e)
}

// Turn collects the connections swept when turning clockwise at a vertex
// from the sector of one outgoing half edge to another.
func (c *CollapsedTriangulation[T]) Turn(from, to HalfEdge) ([]*SaddleConnection[T], error) {
	if c.SourceVertex(from) != c.SourceVertex(to) {
		return nil, errors.Wrapf(goflat.ErrInvalidArgument, "%s and %s do not start at the same vertex", from, to)
	}
	var out []*SaddleConnection[T]
	for e := from; e != to; e = c.PrevAtVertex(e) {
		out = append(out, c.Cross(e)...)
	}
	return out, nil
}

// Area is the area of the original surface; collapsing preserves it.
func (c *CollapsedTriangulation[T]) Area() T { return c.original.Area() }

// InSectorOf reports whether v points into the sector anchored at the
// outgoing half edge.
func (c *CollapsedTriangulation[T]) InSectorOf(sector HalfEdge, v Vector[T]) bool {
	return c.FromEdge(sector).Vector().Ccw(v) != Clockwise &&
		c.FromEdge(c.PrevInFace(sector)).Vector().Neg().Ccw(v) == Clockwise
}

// IsLargeEdge reports whether the half edge has strictly positive vertical
// extent for one of its orientations.
func (c *CollapsedTriangulation[T]) IsLargeEdge(e HalfEdge) bool {
	return c.vertical.IsLarge(c.FromEdge(e).Vector()) && !c.vertical.IsParallel(c.FromEdge(e).Vector())
}

// Flip flips a large edge not incident to any collapsed face.  If the new
// diagonal comes out vertical it is collapsed immediately, so the surface
// never exposes a vertical edge.
func (c *CollapsedTriangulation[T]) Flip(e HalfEdge) error {
	if !c.IsLargeEdge(e) {
		return errors.Wrapf(goflat.ErrNotLarge, "cannot flip %s", e)
	}
	if c.FaceDegree(e) != 3 || c.FaceDegree(-e) != 3 {
		return errors.Wrapf(goflat.ErrCollapsedFace, "cannot flip %s", e)
	}
	if c.vertical.Perpendicular(c.FromEdge(e).Vector()).Sign() < 0 {
		e = -e
	}
	if err := c.Triangulation.Flip(e); err != nil {
		return err
	}
	if c.vertical.IsParallel(c.FromEdge(e).Vector()) {
		if _, _, err := c.Collapse(e); err != nil {
			return err
		}
	}
	if err := c.check(); err != nil {
		return err
	}
	return nil
}

// Collapse contracts a vertical edge, absorbing its connection into the
// hidden lists of the surrounding edges.
func (c *CollapsedTriangulation[T]) Collapse(e HalfEdge) (HalfEdge, HalfEdge, error) {
	if !c.vertical.IsParallel(c.FromEdge(e).Vector()) {
		return 0, 0, errors.Wrapf(goflat.ErrNotVertical, "cannot collapse %s", e)
	}
	return c.Triangulation.Collapse(e.Edge())
}

// updateAfterFlip rewires the vectors and hidden lists after a flip.  The
// flip turned the faces (a b flip)(c d -flip) into (a -flip d)(c flip b):
// the connections hidden in the flipped edge are pulled over b and pushed
// over d, and the new diagonal is derived from the now regular faces.
func (c *CollapsedTriangulation[T]) updateAfterFlip(m *TrackingMap[*SaddleConnection[T]], flip HalfEdge) error {
	a := c.PrevInFace(-flip)
	b := c.NextInFace(flip)
	d := c.NextInFace(-flip)

	// Pull b down over the connections hidden in flip ...
	for _, conn := range c.Hidden(flip) {
		m.Set(b, m.Get(b).Extend(conn))
		m.Set(-b, m.Get(b).Reversed())
	}
	// ... and push d up over the connections hidden in -flip.
	for _, conn := range c.Hidden(-flip) {
		m.Set(d, m.Get(d).Extend(conn))
		m.Set(-d, m.Get(d).Reversed())
	}

	// The connections stored at flip now belong into -b, those at -flip
	// into -d.
	if b.Edge() != flip.Edge() {
		c.setHidden(-b, append(append([]*SaddleConnection[T](nil), c.Hidden(-b)...), c.Hidden(flip)...))
	}
	if d.Edge() != flip.Edge() {
		c.setHidden(-d, append(append([]*SaddleConnection[T](nil), c.Hidden(-d)...), c.Hidden(-flip)...))
	}
	c.setHidden(flip, nil)

	// With nothing hidden inside the flipped edge anymore, both faces are
	// regular and determine the diagonal.
	diag := m.Get(d).Extend(m.Get(a))
	m.Set(flip, diag)
	m.Set(-flip, diag.Reversed())

	bc := m.Get(b).Extend(m.Get(c.PrevInFace(flip)))
	if !m.Get(-flip).Vector().Equal(bc.Vector()) {
		return errors.Wrap(goflat.ErrFaceNotClosed, "face not closed after flip")
	}
	return nil
}

// updateBeforeCollapse runs before the combinatorial contraction of the
// vertical edge.  With the faces written (c collapse b) and (a -collapse d),
// the outer edges of the gadget take their values from the edge across the
// contracted sliver, and the sliver's vertical connection is recorded in the
// hidden lists.  All reads snapshot the pre-collapse state, which makes one
// rule cover every identification pattern of the outer edges; the handful of
// special cases below only decide which writes apply.
func (cs *CollapsedTriangulation[T]) updateBeforeCollapse(m *TrackingMap[*SaddleConnection[T]], E Edge) error {
	collapse := E.Positive()
	if cs.vertical.Parallel(cs.FromEdge(collapse).Vector()).Sign() < 0 {
		collapse = -collapse
	}

	a := cs.PrevInFace(-collapse)
	b := cs.NextInFace(collapse)
	c := cs.PrevInFace(collapse)
	d := cs.NextInFace(-collapse)

	conn := m.Get(collapse)
	if !m.Get(-collapse).Vector().Equal(conn.Vector().Neg()) {
		return errors.Wrap(goflat.ErrInvariantViolated, "vertical edge asymmetric before collapse")
	}

	// Snapshot every value the rewires read; writes below never read the
	// mutated state, which keeps the rule well defined for every
	// identification pattern of the outer edges.
	vA, vB, vC, vD := m.Get(a), m.Get(b), m.Get(c), m.Get(d)
	vNegA, vNegB, vNegC, vNegD := m.Get(-a), m.Get(-b), m.Get(-c), m.Get(-d)
	hA := append([]*SaddleConnection[T](nil), cs.Hidden(a)...)
	hB := append([]*SaddleConnection[T](nil), cs.Hidden(b)...)
	hC := append([]*SaddleConnection[T](nil), cs.Hidden(c)...)
	hD := append([]*SaddleConnection[T](nil), cs.Hidden(d)...)
	hNegA := append([]*SaddleConnection[T](nil), cs.Hidden(-a)...)
	hNegB := append([]*SaddleConnection[T](nil), cs.Hidden(-b)...)
	hNegC := append([]*SaddleConnection[T](nil), cs.Hidden(-c)...)

	cat := func(lists ...[]*SaddleConnection[T]) []*SaddleConnection[T] {
		var out []*SaddleConnection[T]
		for _, l := range lists {
			out = append(out, l...)
		}
		return out
	}
	one := func(c *SaddleConnection[T]) []*SaddleConnection[T] { return []*SaddleConnection[T]{c} }

	switch {
	case a == -c && b == -d:
		// Opposite sides are identified; the whole gadget reduces to the
		// single edge pair of a, and b becomes a copy of it.
		m.Set(-a, vA.Reversed())
		cs.setHidden(a, cat(hA, one(conn), hB))
		m.Set(b, m.Get(a))
		m.Set(-b, m.Get(-a))
		cs.setHidden(b, cs.Hidden(a))

	case a == -c:
		// The inner pair shared by the two faces collapses; values flow
		// through the whole gadget, so b faces -d and d faces -b.
		m.Set(b, vNegD)
		m.Set(-b, vD)
		m.Set(a, vNegD)
		m.Set(-a, vD)
		m.Set(d, vNegB)
		m.Set(-d, vB)
		cs.setHidden(b, cat(cs.Hidden(-d), hA, one(conn), hB))
		cs.setHidden(a, cs.Hidden(b))
		cs.setHidden(d, cat(hNegB, hC, one(conn.Reversed()), hD))

	case b == -d:
		// Dual of the previous case.
		m.Set(b, vNegC)
		m.Set(-b, vC)
		m.Set(a, vNegC)
		m.Set(-a, vC)
		m.Set(c, vNegA)
		m.Set(-c, vA)
		cs.setHidden(b, cat(hNegC, one(conn), hB, hA))
		cs.setHidden(a, cs.Hidden(b))
		cs.setHidden(c, cat(hNegA, one(conn.Reversed()), hD, hC))

	default:
		// The two sides rewire independently.  A side whose outer edges
		// are identified pinches onto a single pair; otherwise the outer
		// edges exchange roles across the flattened sliver.  Identified
		// pairs between the two sides (as on a one-vertex torus) resolve
		// by the later write, which the snapshots keep consistent.
		if b == -c || b == c {
			m.Set(-b, vB.Reversed())
			cs.setHidden(b, cat(one(conn), hB))
		} else {
			m.Set(b, vNegC)
			m.Set(-b, vC)
			m.Set(c, vNegB)
			m.Set(-c, vB)
			cs.setHidden(b, cat(hNegC, one(conn), hB))
			if c.Edge() != d.Edge() && c.Edge() != a.Edge() && c.Edge() != b.Edge() {
				cs.setHidden(c, nil)
			}
		}
		if a == -d || a == d {
			m.Set(-d, vD.Reversed())
			cs.setHidden(d, cat(one(conn.Reversed()), hD))
		} else {
			m.Set(d, vNegA)
			m.Set(-d, vA)
			m.Set(a, vNegD)
			m.Set(-a, vD)
			cs.setHidden(d, cat(hNegA, one(conn.Reversed()), hD))
			if a.Edge() != b.Edge() && a.Edge() != d.Edge() && a.Edge() != c.Edge() {
				cs.setHidden(a, nil)
			}
		}
	}
	return nil
}

// check verifies the collapsed surface's invariants: every non-collapsed
// face closes in the component perpendicular to the vertical, the vectors of
// e and -e are opposite, the hidden mirror property holds, and every hidden
// connection is vertical.  It does not verify that a stored vector is a
// saddle connection of the original surface.
func (c *CollapsedTriangulation[T]) check() error {
	for _, e := range c.HalfEdges() {
		if c.IsCollapsedFace(e) {
			continue
		}
		perp := c.vertical.Perpendicular(c.FromEdge(e).Vector()).
			Add(c.vertical.Perpendicular(c.FromEdge(c.NextInFace(e)).Vector())).
			Add(c.vertical.Perpendicular(c.FromEdge(c.PrevInFace(e)).Vector()))
		if perp.Sign() != 0 {
			return errors.Wrapf(goflat.ErrFaceNotClosed, "face of %s does not close across the vertical", e)
		}
	}
	for _, e := range c.HalfEdges() {
		if !c.FromEdge(-e).Vector().Equal(c.FromEdge(e).Vector().Neg()) {
			return errors.Wrapf(goflat.ErrInvariantViolated, "vectors of %s and %s are not opposite", e, -e)
		}
		mirror := reverseNegated(c.Hidden(e))
		other := c.Hidden(-e)
		if len(mirror) != len(other) {
			return errors.Wrapf(goflat.ErrInvariantViolated, "hidden lists of %s and %s do not mirror", e, -e)
		}
		for i := range mirror {
			if !mirror[i].Vector().Equal(other[i].Vector()) {
				return errors.Wrapf(goflat.ErrInvariantViolated, "hidden lists of %s and %s do not mirror", e, -e)
			}
		}
		for _, conn := range c.Hidden(e) {
			if !c.vertical.IsParallel(conn.Vector()) {
				return errors.Wrapf(goflat.ErrInvariantViolated, "hidden connection %s of %s is not vertical", conn, e)
			}
		}
	}
	return nil
}

func (c *CollapsedTriangulation[T]) String() string {
	var b strings.Builder
	b.WriteString(c.Triangulation.String())
	b.WriteString(" with vectors {")
	edges := c.Edges()
	sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
	for i, E := range edges {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(E.String())
		b.WriteString(": ")
		b.WriteString(c.FromEdge(E.Positive()).String())
	}
	b.WriteString("}")

	var hiddenParts []string
	for _, e := range c.HalfEdges() {
		if list := c.Hidden(e); len(list) > 0 {
			var lb strings.Builder
			lb.WriteString(e.String())
			lb.WriteString(": [")
			for i, conn := range list {
				if i > 0 {
					lb.WriteString(", ")
				}
				lb.WriteString(conn.String())
			}
			lb.WriteString("]")
			hiddenParts = append(hiddenParts, lb.String())
		}
	}
	if len(hiddenParts) > 0 {
		b.WriteString(", collapsed half edges {")
		b.WriteString(strings.Join(hiddenParts, ", "))
		b.WriteString("}")
	}
	b.WriteString(" with respect to ")
	b.WriteString(c.vertical.String())
	return b.String()
}
