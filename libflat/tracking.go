package libflat

// Per edge attribute stores.  A store subscribes to its parent triangulation
// at construction and keeps its values consistent through every flip,
// collapse, swap and erase.  Swaps and erases are handled generically by the
// store itself; flips and collapses run the user supplied handlers, which
// must restore whatever invariant ties the values to the surface.

// FlipHandler restores a store's invariants after a combinatorial flip.
type FlipHandler[V any] func(m *TrackingMap[V], flip HalfEdge) error

// CollapseHandler runs before a collapse mutates the triangulation, so it may
// still read the values of all half edges of the collapsed gadget.
type CollapseHandler[V any] func(m *TrackingMap[V], collapse Edge) error

// TrackingMap maps every half edge to a value of type V.
type TrackingMap[V any] struct {
	parent         *Triangulation
	data           []V
	afterFlip      FlipHandler[V]
	beforeCollapse CollapseHandler[V]
}

// NewTrackingMap initialises a value per half edge and registers the store
// with the parent's change channels.
func NewTrackingMap[V any](parent *Triangulation, init func(HalfEdge) V, afterFlip FlipHandler[V], beforeCollapse CollapseHandler[V]) *TrackingMap[V] {
	m := &TrackingMap[V]{
		parent:         parent,
		data:           make([]V, 2*parent.EdgeCount()),
		afterFlip:      afterFlip,
		beforeCollapse: beforeCollapse,
	}
	for i := range m.data {
		m.data[i] = init(halfEdgeFromIndex(i))
	}
	parent.Attach(m)
	return m
}

// Detach unregisters the store from the parent's change channels.
func (m *TrackingMap[V]) Detach() { m.parent.Detach(m) }

func (m *TrackingMap[V]) Parent() *Triangulation { return m.parent }

func (m *TrackingMap[V]) Get(e HalfEdge) V { return m.data[e.Index()] }
func (m *TrackingMap[V]) Set(e HalfEdge, v V) { m.data[e.Index()] = v }

// Swap exchanges the values stored at a and b.
func (m *TrackingMap[V]) Swap(a, b HalfEdge) {
	m.data[a.Index()], m.data[b.Index()] = m.data[b.Index()], m.data[a.Index()]
}

// Rekey moves the value of every half edge matched by search to the half
// edge it rewrites to.  Values at rewritten-over keys are dropped.
func (m *TrackingMap[V]) Rekey(search func(HalfEdge) bool, rewrite func(HalfEdge) HalfEdge) {
	out := make([]V, len(m.data))
	copy(out, m.data)
	for i := range m.data {
		e := halfEdgeFromIndex(i)
		if search(e) {
			out[rewrite(e).Index()] = m.data[i]
		}
	}
	m.data = out
}

// Keys lists the half edges of the parent in its iteration order.
func (m *TrackingMap[V]) Keys() []HalfEdge { return m.parent.HalfEdges() }

func (m *TrackingMap[V]) AfterFlip(e HalfEdge) error {
	if m.afterFlip == nil {
		return nil
	}
	return m.afterFlip(m, e)
}

func (m *TrackingMap[V]) BeforeCollapse(E Edge) error {
	if m.beforeCollapse == nil {
		return nil
	}
	return m.beforeCollapse(m, E)
}

func (m *TrackingMap[V]) BeforeSwap(a, b HalfEdge) error {
	m.Swap(a, b)
	return nil
}

func (m *TrackingMap[V]) BeforeErase(edges []Edge) error {
	m.data = m.data[:len(m.data)-2*len(edges)]
	return nil
}

// EdgeFlipHandler and EdgeCollapseHandler are the update hooks of an EdgeMap.
type EdgeFlipHandler[V any] func(m *EdgeMap[V], flip HalfEdge) error
type EdgeCollapseHandler[V any] func(m *EdgeMap[V], collapse Edge) error

// EdgeMap maps every edge to a value of type V.  It is the store for even
// attributes, i.e. those invariant under e -> -e, keyed by the canonical
// positive half edge.
type EdgeMap[V any] struct {
	parent         *Triangulation
	data           []V
	afterFlip      EdgeFlipHandler[V]
	beforeCollapse EdgeCollapseHandler[V]
}

func NewEdgeMap[V any](parent *Triangulation, init func(Edge) V, afterFlip EdgeFlipHandler[V], beforeCollapse EdgeCollapseHandler[V]) *EdgeMap[V] {
	m := &EdgeMap[V]{
		parent:         parent,
		data:           make([]V, parent.EdgeCount()),
		afterFlip:      afterFlip,
		beforeCollapse: beforeCollapse,
	}
	for i := range m.data {
		m.data[i] = init(Edge(i + 1))
	}
	parent.Attach(m)
	return m
}

func (m *EdgeMap[V]) Detach() { m.parent.Detach(m) }

func (m *EdgeMap[V]) Get(E Edge) V { return m.data[E.Index()] }
func (m *EdgeMap[V]) Set(E Edge, v V) { m.data[E.Index()] = v }

func (m *EdgeMap[V]) Keys() []Edge { return m.parent.Edges() }

func (m *EdgeMap[V]) AfterFlip(e HalfEdge) error {
	if m.afterFlip == nil {
		return nil
	}
	return m.afterFlip(m, e)
}

func (m *EdgeMap[V]) BeforeCollapse(E Edge) error {
	if m.beforeCollapse == nil {
		return nil
	}
	return m.beforeCollapse(m, E)
}

func (m *EdgeMap[V]) BeforeSwap(a, b HalfEdge) error {
	// Edge renames arrive as a swap of the positive sides followed by a swap
	// of the negative sides.  An even attribute moves exactly once, on the
	// former; the negative-side echo must not swap it back.
	if !a.IsPositive() && !b.IsPositive() {
		return nil
	}
	ea, eb := a.Edge(), b.Edge()
	if ea != eb {
		m.data[ea.Index()], m.data[eb.Index()] = m.data[eb.Index()], m.data[ea.Index()]
	}
	return nil
}

func (m *EdgeMap[V]) BeforeErase(edges []Edge) error {
	m.data = m.data[:len(m.data)-len(edges)]
	return nil
}
