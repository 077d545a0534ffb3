package libflat

import (
	"github.com/flat-structures/flat.SDK/goflat"
)

// sector is one angular search cone of a connection query, anchored at the
// outgoing half edge source.  An unrefined sector is the full cone between
// source and the next outgoing edge at the same vertex; a refined sector
// additionally clips to the half open interval [begin, end).
type sector[T goflat.Elem[T]] struct {
	source  HalfEdge
	refined bool
	begin   Vector[T]
	end     Vector[T]
}

func (sec sector[T]) bounds(s *FlatTriangulation[T]) (Vector[T], Vector[T]) {
	if sec.refined {
		return sec.begin, sec.end
	}
	return s.FromEdge(sec.source), s.FromEdge(s.NextAtVertex(sec.source))
}

// contains applies the half open sector semantics: the begin ray belongs to
// the sector, the end ray does not, and a vector collinear with begin but
// pointing the other way is outside.
func (sec sector[T]) contains(s *FlatTriangulation[T], v Vector[T]) bool {
	begin, end := sec.bounds(s)
	return v.InSector(begin, end)
}

// SaddleConnections is a query for saddle connections of a flat surface.  It
// starts out as the set of all connections and is narrowed, without
// mutation, by Bound, Source and the Sector refinements.  Queries are value
// types: every narrowing returns a new query.
type SaddleConnections[T goflat.Elem[T]] struct {
	surface *FlatTriangulation[T]
	bounded bool
	boundSq T
	sectors []sector[T]
}

// Connections starts a query over all saddle connections of the surface.
func (s *FlatTriangulation[T]) Connections() *SaddleConnections[T] {
	sectors := make([]sector[T], 0, 2*s.EdgeCount())
	for _, e := range s.HalfEdges() {
		sectors = append(sectors, sector[T]{source: e})
	}
	return &SaddleConnections[T]{surface: s, sectors: sectors}
}

func (sc *SaddleConnections[T]) Surface() *FlatTriangulation[T] { return sc.surface }

func (sc *SaddleConnections[T]) shallow() *SaddleConnections[T] {
	out := *sc
	out.sectors = append([]sector[T](nil), sc.sectors...)
	return &out
}

// Bound intersects the query with |v| <= r.
func (sc *SaddleConnections[T]) Bound(r T) *SaddleConnections[T] {
	out := sc.shallow()
	rSq := r.Mul(r)
	if !out.bounded || rSq.Cmp(out.boundSq) < 0 {
		out.bounded = true
		out.boundSq = rSq
	}
	return out
}

// BoundSq intersects the query with |v|^2 <= rSq, for radii that are not
// themselves ring elements.
func (sc *SaddleConnections[T]) BoundSq(rSq T) *SaddleConnections[T] {
	out := sc.shallow()
	if !out.bounded || rSq.Cmp(out.boundSq) < 0 {
		out.bounded = true
		out.boundSq = rSq
	}
	return out
}

// Source keeps only connections emanating from the given vertex.
func (sc *SaddleConnections[T]) Source(v Vertex) *SaddleConnections[T] {
	out := sc.shallow()
	kept := out.sectors[:0]
	for _, sec := range out.sectors {
		if sc.surface.SourceVertex(sec.source) == v {
			kept = append(kept, sec)
		}
	}
	out.sectors = kept
	return out
}

// Sector keeps only the one sector anchored at the outgoing half edge.
func (sc *SaddleConnections[T]) Sector(source HalfEdge) *SaddleConnections[T] {
	out := sc.shallow()
	kept := out.sectors[:0]
	for _, sec := range out.sectors {
		if sec.source == source {
			kept = append(kept, sec)
		}
	}
	out.sectors = kept
	return out
}

// SectorBetween intersects every selected sector with the half open angular
// interval [begin, end).  A sector that straddles the interval boundary in
// the clockwise sense splits into two refined sub sectors.
func (sc *SaddleConnections[T]) SectorBetween(begin, end Vector[T]) *SaddleConnections[T] {
	out := sc.shallow()
	var refined []sector[T]
	for _, sec := range out.sectors {
		refined = append(refined, sec.refine(sc.surface, begin, end)...)
	}
	out.sectors = refined
	return out
}

// SectorBetweenConnections narrows like SectorBetween with the sector
// boundaries given by saddle connections; additionally only sectors at the
// source vertex of both connections survive, so when the two connections
// start at different vertices no sector survives.
func (sc *SaddleConnections[T]) SectorBetweenConnections(begin, end *SaddleConnection[T]) *SaddleConnections[T] {
	out := sc.Source(sc.surface.SourceVertex(begin.Source()))
	if sc.surface.SourceVertex(begin.Source()) != sc.surface.SourceVertex(end.Source()) {
		out = out.Source(sc.surface.SourceVertex(end.Source()))
	}
	return out.SectorBetween(begin.Vector(), end.Vector())
}

// refine clips the sector to [begin, end), producing zero, one or two sub
// sectors.  The tie breaks follow the enumeration contract: a boundary
// exactly on begin stays included, one exactly on end is excluded, and a
// vector collinear with begin but opposite is outside.
func (sec sector[T]) refine(s *FlatTriangulation[T], begin, end Vector[T]) []sector[T] {
	lo, hi := sec.bounds(s)

	refinedTo := func(b, e Vector[T]) sector[T] {
		return sector[T]{source: sec.source, refined: true, begin: b, end: e}
	}

	inSector := func(v, b, e Vector[T]) bool { return v.InSector(b, e) }
	inSectorExclusive := func(v, b, e Vector[T]) bool {
		return v.InSector(b, e) && !(v.Ccw(b) == Collinear && v.Orientation(b) == Same)
	}

	if inSector(begin, lo, hi) {
		if begin.Ccw(end) == Clockwise {
			// The clipping interval wraps across this sector's end; it
			// meets the sector in up to two pieces.
			fromBegin := refinedTo(begin, hi)
			toEnd := refinedTo(lo, end)
			if lo.Ccw(end) == CounterClockwise {
				return []sector[T]{fromBegin, toEnd}
			}
			return []sector[T]{fromBegin}
		} else if inSector(end, lo, hi) {
			return []sector[T]{refinedTo(begin, end)}
		}
		return []sector[T]{refinedTo(begin, hi)}
	} else if inSectorExclusive(end, lo, hi) {
		return []sector[T]{refinedTo(lo, end)}
	} else if inSector(lo, begin, end) {
		return []sector[T]{sec}
	}
	return nil
}

// All collects the query eagerly.  The query must be bounded.
func (sc *SaddleConnections[T]) All() []*SaddleConnection[T] {
	var out []*SaddleConnection[T]
	it := sc.Iterate()
	for {
		c, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}

// ByLength reorders the query's stream by increasing |v|.
func (sc *SaddleConnections[T]) ByLength() *SaddleConnectionsByLength[T] {
	return newByLength(sc)
}

// Iterator walks the query lazily.  Sectors are visited in builder order;
// within one sector the depth first unfolding fixes a deterministic order,
// and each connection comes out exactly once.
type Iterator[T goflat.Elem[T]] struct {
	sc     *SaddleConnections[T]
	sector int
	// pending base connection of the current sector, if not yet emitted.
	base *SaddleConnection[T]
	// explicit DFS stack across the triangles of the current sector.
	stack []crossing[T]
}

// crossing is one DFS frame: the ray bundle of directions in (lo, hi) about
// to cross the half edge at whose tail the chain a ends and at whose head
// the chain b ends.
type crossing[T goflat.Elem[T]] struct {
	edge   HalfEdge
	a, b   *Chain[T]
	aV, bV Vector[T]
	lo, hi Vector[T]
	// loIncl marks whether a connection exactly along lo is still possible;
	// once a singularity was passed on the lo ray, it no longer is.
	loIncl bool
}

// Iterate starts a fresh lazy walk of the query.
func (sc *SaddleConnections[T]) Iterate() *Iterator[T] {
	return &Iterator[T]{sc: sc}
}

func (it *Iterator[T]) withinBound(v Vector[T]) bool {
	if !it.sc.bounded {
		return true
	}
	return v.NormSq().Cmp(it.sc.boundSq) <= 0
}

// enterSector primes the iterator for the sector at index it.sector.
func (it *Iterator[T]) enterSector() {
	s := it.sc.surface
	sec := it.sc.sectors[it.sector]
	source := sec.source

	base := s.Connection(source)
	if sec.contains(s, base.Vector()) && it.withinBound(base.Vector()) {
		it.base = base
	}

	lo, hi := sec.bounds(s)

	// The first crossing: the side of the source's face opposite the source
	// vertex, from the head of source to the head of the next side.
	x := s.NextInFace(source)
	a := NewChain(s).AddHalfEdge(source)
	b := a.Clone().AddHalfEdge(x)
	it.stack = append(it.stack[:0], crossing[T]{
		edge: x,
		a:    a, b: b,
		aV: a.Vector(), bV: b.Vector(),
		lo: lo, hi: hi,
		// The base ray is blocked beyond the head of source, except when a
		// refined sector starts strictly inside the cone.
		loIncl: sec.refined && !(lo.Ccw(s.FromEdge(source)) == Collinear && lo.Orientation(s.FromEdge(source)) == Same),
	})
}

// beyond reports whether the whole segment from a to b lies outside the
// search radius.  The test is exact: it compares the squared distance from
// the origin to the segment against the squared bound.
func (it *Iterator[T]) beyond(a, b Vector[T]) bool {
	if !it.sc.bounded {
		return false
	}
	rSq := it.sc.boundSq
	ab := b.Sub(a)
	if a.Dot(ab).Sign() >= 0 {
		return a.NormSq().Cmp(rSq) > 0
	}
	if b.Dot(ab).Sign() <= 0 {
		return b.NormSq().Cmp(rSq) > 0
	}
	c := a.Cross(b)
	return c.Mul(c).Cmp(rSq.Mul(ab.NormSq())) > 0
}

// inCone tests a candidate direction against a DFS frame's cone.
func (fr crossing[T]) inCone(v Vector[T]) bool {
	if fr.loIncl {
		if !v.inCone(fr.lo) {
			return false
		}
	} else if fr.lo.Ccw(v) != CounterClockwise {
		return false
	}
	return fr.hi.Ccw(v) == Clockwise
}

// Next returns the next connection of the query, advancing the DFS.
func (it *Iterator[T]) Next() (*SaddleConnection[T], bool) {
	s := it.sc.surface
	for {
		if it.base != nil {
			c := it.base
			it.base = nil
			return c, true
		}
		if len(it.stack) == 0 {
			if it.sector >= len(it.sc.sectors) {
				return nil, false
			}
			it.enterSector()
			it.sector++
			continue
		}

		fr := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]

		if it.beyond(fr.aV, fr.bV) {
			continue
		}
		if !fr.loIncl && fr.lo.Ccw(fr.hi) == Collinear && fr.lo.Orientation(fr.hi) == Same {
			// The cone has narrowed to an excluded single ray.
			continue
		}

		// Cross fr.edge into the neighbouring face (-edge, u, w).
		u := s.NextInFace(-fr.edge)
		w := s.NextInFace(u)
		cChain := fr.a.Clone().AddHalfEdge(u)
		cV := cChain.Vector()

		var hit *SaddleConnection[T]
		if fr.inCone(cV) && it.withinBound(cV) {
			hit = NewSaddleConnection(it.sc.sectors[it.sector-1].source, w, cChain.Clone())
		}

		// Push the upper sub-segment first so the lower one, closer to the
		// sector's clockwise boundary, pops first; the emitted order within
		// a sector is the clockwise to counterclockwise sweep.
		switch {
		case fr.lo.Ccw(cV) != CounterClockwise && !(fr.loIncl && fr.lo.Ccw(cV) == Collinear && fr.lo.Orientation(cV) == Same):
			// The new corner hangs at or below the cone: only the upper
			// segment can carry directions of the cone.
			it.stack = append(it.stack, crossing[T]{
				edge: w, a: cChain, b: fr.b, aV: cV, bV: fr.bV,
				lo: fr.lo, hi: fr.hi, loIncl: fr.loIncl,
			})
		case fr.hi.Ccw(cV) != Clockwise:
			// At or above the cone: only the lower segment matters.
			it.stack = append(it.stack, crossing[T]{
				edge: u, a: fr.a, b: cChain, aV: fr.aV, bV: cV,
				lo: fr.lo, hi: fr.hi, loIncl: fr.loIncl,
			})
		default:
			// The corner splits the cone.  Beyond it, its exact direction
			// is blocked by the singularity.
			it.stack = append(it.stack, crossing[T]{
				edge: w, a: cChain.Clone(), b: fr.b, aV: cV, bV: fr.bV,
				lo: cV, hi: fr.hi, loIncl: false,
			})
			it.stack = append(it.stack, crossing[T]{
				edge: u, a: fr.a, b: cChain.Clone(), aV: fr.aV, bV: cV,
				lo: fr.lo, hi: cV, loIncl: fr.loIncl,
			})
		}

		if hit != nil {
			return hit, true
		}
	}
}
