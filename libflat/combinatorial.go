package libflat

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/flat-structures/flat.SDK/goflat"
)

// Observer receives change notifications from a Triangulation.  Observers run
// synchronously in registration order before the mutating call returns; an
// observer that fails aborts the mutation with ErrInvariantViolated.  An
// observer must not mutate the triangulation during dispatch.
type Observer interface {
	AfterFlip(e HalfEdge) error
	BeforeCollapse(E Edge) error
	BeforeSwap(a, b HalfEdge) error
	BeforeErase(edges []Edge) error
}

// Triangulation is the combinatorial structure of a half edge surface: the
// face permutation (next half edge along the boundary of the face to the
// left) and the vertex permutation (next half edge counterclockwise around
// the source vertex).  The two are kept in sync through the identity
//
//	vertices(e) = -prevInFace(e)
//
// In a plain triangulation every face cycle has length exactly three.  After
// collapses, cycles of length one or two denote collapsed faces.
type Triangulation struct {
	faces     *Permutation
	vertices  *Permutation
	collapsed bool // collapsed faces permitted
	observers []Observer
}

// NewTriangulationFromVertices builds a triangulation from the cycle
// decomposition of its vertex permutation, the way surfaces are usually
// written down.  The face permutation is derived as faces(e) =
// vertices^-1(-e) and every face must be a triangle.
func NewTriangulationFromVertices(edgeCount int, vertexCycles [][]HalfEdge) (*Triangulation, error) {
	vertices, err := NewPermutationFromCycles(edgeCount, vertexCycles)
	if err != nil {
		return nil, err
	}
	faces := newIdentityPermutation(edgeCount)
	for _, e := range faces.domain() {
		faces.set(e, vertices.Preimage(-e))
	}
	t := &Triangulation{faces: faces, vertices: vertices}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewTriangulationFromFaces builds a triangulation from the cycle
// decomposition of its face permutation.
func NewTriangulationFromFaces(edgeCount int, faceCycles [][]HalfEdge) (*Triangulation, error) {
	faces, err := NewPermutationFromCycles(edgeCount, faceCycles)
	if err != nil {
		return nil, err
	}
	t := &Triangulation{faces: faces}
	t.rebuildVertices()
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Triangulation) validate() error {
	if err := t.faces.validate(); err != nil {
		return err
	}
	if err := t.vertices.validate(); err != nil {
		return err
	}
	for _, e := range t.faces.domain() {
		n := t.faces.cycleLength(e)
		if n != 3 && !(t.collapsed && n <= 2) {
			return errors.Wrapf(goflat.ErrNotTriangular, "face of %s has %d sides", e, n)
		}
		if t.vertices.cycleLength(e) == 0 {
			return errors.Wrapf(goflat.ErrEmptyVertexCycle, "vertex of %s", e)
		}
	}
	return nil
}

func (t *Triangulation) rebuildVertices() {
	vertices := newIdentityPermutation(t.faces.Size())
	for _, e := range t.faces.domain() {
		vertices.set(e, -t.faces.Preimage(e))
	}
	t.vertices = vertices
}

// Attach registers an observer.  Observers form a fixed catalogue attached at
// construction of the attribute stores; registration order is dispatch order.
func (t *Triangulation) Attach(obs Observer) {
	t.observers = append(t.observers, obs)
}

// Detach unregisters an observer.
func (t *Triangulation) Detach(obs Observer) {
	for i, o := range t.observers {
		if o == obs {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// EdgeCount returns the number of edges.
func (t *Triangulation) EdgeCount() int { return t.faces.Size() }

// HalfEdges lists all half edges in the fixed order 1, -1, 2, -2, ...
func (t *Triangulation) HalfEdges() []HalfEdge { return t.faces.domain() }

// Edges lists all edges 1..n.
func (t *Triangulation) Edges() []Edge {
	out := make([]Edge, t.EdgeCount())
	for i := range out {
		out[i] = Edge(i + 1)
	}
	return out
}

func (t *Triangulation) NextInFace(e HalfEdge) HalfEdge { return t.faces.Image(e) }
func (t *Triangulation) PrevInFace(e HalfEdge) HalfEdge { return t.faces.Preimage(e) }

func (t *Triangulation) NextAtVertex(e HalfEdge) HalfEdge { return t.vertices.Image(e) }
func (t *Triangulation) PrevAtVertex(e HalfEdge) HalfEdge { return t.vertices.Preimage(e) }

// FaceDegree returns the length of the face cycle through e.
func (t *Triangulation) FaceDegree(e HalfEdge) int { return t.faces.cycleLength(e) }

// IsCollapsedFace reports whether the face of e is a collapsed remnant, i.e.
// a cycle of length one or two left behind by a collapse.
func (t *Triangulation) IsCollapsedFace(e HalfEdge) bool { return t.FaceDegree(e) <= 2 }

// Vertex identifies a vertex of the triangulation by the least indexed half
// edge pointing out of it.  Vertex values are invalidated by mutations.
type Vertex struct {
	rep HalfEdge
}

// SourceVertex returns the vertex the half edge points out of.
func (t *Triangulation) SourceVertex(e HalfEdge) Vertex {
	rep := e
	for f := t.NextAtVertex(e); f != e; f = t.NextAtVertex(f) {
		if f.Index() < rep.Index() {
			rep = f
		}
	}
	return Vertex{rep}
}

// Vertices lists all vertices.
func (t *Triangulation) Vertices() []Vertex {
	var out []Vertex
	seen := make(map[Vertex]bool)
	for _, e := range t.HalfEdges() {
		v := t.SourceVertex(e)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Outgoing lists the half edges out of v in counterclockwise order starting
// at the representative.
func (t *Triangulation) Outgoing(v Vertex) []HalfEdge {
	out := []HalfEdge{v.rep}
	for e := t.NextAtVertex(v.rep); e != v.rep; e = t.NextAtVertex(e) {
		out = append(out, e)
	}
	return out
}

func (t *Triangulation) notifyAfterFlip(e HalfEdge) error {
	for _, obs := range t.observers {
		if err := obs.AfterFlip(e); err != nil {
			return errors.Wrap(goflat.ErrInvariantViolated, err.Error())
		}
	}
	return nil
}

func (t *Triangulation) notifyBeforeCollapse(E Edge) error {
	for _, obs := range t.observers {
		if err := obs.BeforeCollapse(E); err != nil {
			return errors.Wrap(goflat.ErrInvariantViolated, err.Error())
		}
	}
	return nil
}

func (t *Triangulation) notifyBeforeSwap(a, b HalfEdge) error {
	for _, obs := range t.observers {
		if err := obs.BeforeSwap(a, b); err != nil {
			return errors.Wrap(goflat.ErrInvariantViolated, err.Error())
		}
	}
	return nil
}

func (t *Triangulation) notifyBeforeErase(edges []Edge) error {
	for _, obs := range t.observers {
		if err := obs.BeforeErase(edges); err != nil {
			return errors.Wrap(goflat.ErrInvariantViolated, err.Error())
		}
	}
	return nil
}

// Flip replaces the diagonal e of the quadrilateral formed by the two
// triangles adjacent to e with the other diagonal.  With the faces written as
// (a, b, e) and (c, d, -e) before the flip, the faces afterwards are
// (a, -e, d) and (c, e, b).  Both faces must be triangles.
func (t *Triangulation) Flip(e HalfEdge) error {
	if t.FaceDegree(e) != 3 || t.FaceDegree(-e) != 3 {
		return errors.Wrapf(goflat.ErrNotTriangular, "cannot flip %s", e)
	}
	// (a, b, e): faces(e) = a, faces(a) = b, faces(b) = e.
	a := t.faces.Image(e)
	b := t.faces.Image(a)
	// (c, d, -e): faces(-e) = c, faces(c) = d.
	c := t.faces.Image(-e)
	d := t.faces.Image(c)

	// (a, -e, d) and (c, e, b).
	t.faces.set(a, -e)
	t.faces.set(-e, d)
	t.faces.set(d, a)
	t.faces.set(c, e)
	t.faces.set(e, b)
	t.faces.set(b, c)

	// The vertex permutation follows from vertices(x) = -prevInFace(x) at
	// the six entries whose face predecessor changed.
	for _, x := range []HalfEdge{a, -e, d, c, e, b} {
		t.vertices.set(x, -t.faces.Preimage(x))
	}

	return t.notifyAfterFlip(e)
}

// Collapse identifies the two endpoints of the edge, removing it from its two
// faces.  Each adjacent face loses one side: a triangle becomes a collapsed
// digon, a digon a monogon; a monogon face disappears with the edge.  The
// caller asserts that the edge is contractible under the associated geometric
// policy.  Returns the two half edges following the collapsed pair in its two
// faces, which take over its role.
func (t *Triangulation) Collapse(E Edge) (HalfEdge, HalfEdge, error) {
	e := E.Positive()
	if t.NextInFace(e) == -e || t.NextInFace(-e) == e {
		return 0, 0, errors.Wrapf(goflat.ErrInvalidArgument, "cannot collapse the degenerate edge %s", E)
	}

	if err := t.notifyBeforeCollapse(E); err != nil {
		return 0, 0, err
	}

	b := t.NextInFace(e)
	d := t.NextInFace(-e)

	t.spliceOut(e)
	t.spliceOut(-e)
	t.collapsed = true
	t.rebuildVertices()

	if err := t.eraseTop([]Edge{E}); err != nil {
		return 0, 0, err
	}
	return b, d, nil
}

// spliceOut removes e from its face cycle, leaving e on a self loop.
func (t *Triangulation) spliceOut(e HalfEdge) {
	prev := t.faces.Preimage(e)
	next := t.faces.Image(e)
	if prev == e {
		// Monogon face; it disappears with the edge.
		return
	}
	t.faces.set(prev, next)
	t.faces.set(e, e)
}

// Swap renames half edge a to b and vice versa without changing the
// combinatorics.
func (t *Triangulation) Swap(a, b HalfEdge) error {
	if err := t.notifyBeforeSwap(a, b); err != nil {
		return err
	}
	t.faces.swap(a, b)
	t.vertices.swap(a, b)
	return nil
}

// Erase removes a set of edges.  Every edge must sit in collapsed or
// degenerate faces only, since erasing an edge of a proper triangle would
// tear the surface open.
func (t *Triangulation) Erase(edges []Edge) error {
	for _, E := range edges {
		if t.FaceDegree(E.Positive()) > 2 || t.FaceDegree(E.Negative()) > 2 {
			return errors.Wrapf(goflat.ErrInvalidArgument, "cannot erase %s from a proper face", E)
		}
	}
	for _, E := range edges {
		t.spliceOut(E.Positive())
		t.spliceOut(E.Negative())
	}
	t.rebuildVertices()
	return t.eraseTop(edges)
}

// eraseTop moves the given edges onto the top indexes (firing swap events so
// attribute stores follow along), announces the erase, and shrinks the
// domain.  The edges must already be spliced out of all face cycles.
func (t *Triangulation) eraseTop(edges []Edge) error {
	doomed := make(map[Edge]bool, len(edges))
	for _, E := range edges {
		doomed[E] = true
	}
	slot := Edge(t.EdgeCount())
	for len(doomed) > 0 {
		if doomed[slot] {
			delete(doomed, slot)
			slot--
			continue
		}
		var low Edge
		for E := range doomed {
			if low == 0 || E < low {
				low = E
			}
		}
		if err := t.Swap(low.Positive(), slot.Positive()); err != nil {
			return err
		}
		if err := t.Swap(low.Negative(), slot.Negative()); err != nil {
			return err
		}
		delete(doomed, low)
		slot--
	}
	top := make([]Edge, len(edges))
	m := Edge(t.EdgeCount())
	for i := range top {
		top[i] = m - Edge(i)
	}
	if err := t.notifyBeforeErase(top); err != nil {
		return err
	}
	t.faces.shrink(len(edges))
	t.vertices.shrink(len(edges))
	return nil
}

// FaceCycles returns the canonical cycle decomposition of the face
// permutation.
func (t *Triangulation) FaceCycles() [][]HalfEdge { return t.faces.Cycles() }

// VertexCycles returns the canonical cycle decomposition of the vertex
// permutation.
func (t *Triangulation) VertexCycles() [][]HalfEdge { return t.vertices.Cycles() }

func (t *Triangulation) clone() *Triangulation {
	return &Triangulation{
		faces:     t.faces.clone(),
		vertices:  t.vertices.clone(),
		collapsed: t.collapsed,
	}
}

func (t *Triangulation) String() string {
	var b strings.Builder
	for _, cycle := range t.FaceCycles() {
		b.WriteByte('(')
		for i, e := range cycle {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(e.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}
