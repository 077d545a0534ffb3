package libflat

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/flat-structures/flat.SDK/goflat"
)

// FlatTriangulation is a combinatorial triangulation together with a vector
// per half edge.  Every face closes up to zero and the total area is
// positive; both are preserved by every mutation.
type FlatTriangulation[T goflat.Elem[T]] struct {
	*Triangulation
	vectors *TrackingMap[Vector[T]]
}

// NewFlatTriangulation glues the given vectors, indexed by the positive half
// edges 1..n, onto the triangulation.  Construction fails unless every face
// closes and the total area is positive.
func NewFlatTriangulation[T goflat.Elem[T]](tri *Triangulation, vectors []Vector[T]) (*FlatTriangulation[T], error) {
	if len(vectors) != tri.EdgeCount() {
		return nil, errors.Wrapf(goflat.ErrInvalidArgument, "need %d vectors, got %d", tri.EdgeCount(), len(vectors))
	}
	s := &FlatTriangulation[T]{Triangulation: tri}
	s.vectors = NewTrackingMap(tri,
		func(e HalfEdge) Vector[T] {
			if e.IsPositive() {
				return vectors[e.Edge().Index()]
			}
			return vectors[e.Edge().Index()].Neg()
		},
		s.updateAfterFlip,
		func(*TrackingMap[Vector[T]], Edge) error {
			return errors.Wrap(goflat.ErrInvalidArgument, "a flat triangulation cannot collapse an edge without losing its metric")
		})
	if err := s.checkClosed(); err != nil {
		s.vectors.Detach()
		return nil, err
	}
	if s.Area().Sign() <= 0 {
		s.vectors.Detach()
		return nil, errors.WithStack(goflat.ErrNonPositiveArea)
	}
	return s, nil
}

func (s *FlatTriangulation[T]) checkClosed() error {
	for _, cycle := range s.FaceCycles() {
		var sum Vector[T]
		for _, e := range cycle {
			sum = sum.Add(s.FromEdge(e))
		}
		if !sum.IsZero() {
			return errors.Wrapf(goflat.ErrFaceNotClosed, "face %v sums to %s", cycle, sum)
		}
	}
	return nil
}

// FromEdge returns the vector along the half edge.
func (s *FlatTriangulation[T]) FromEdge(e HalfEdge) Vector[T] {
	return s.vectors.Get(e)
}

// Connection returns the saddle connection of length one along e, with
// source e and target -e.
func (s *FlatTriangulation[T]) Connection(e HalfEdge) *SaddleConnection[T] {
	return ConnectionFromEdge(s, e)
}

// Area returns the doubled total area, i.e. the sum over the faces of the
// cross product of two of their sides.
func (s *FlatTriangulation[T]) Area() T {
	var total T
	first := true
	for _, cycle := range s.FaceCycles() {
		if len(cycle) < 3 {
			continue
		}
		a := s.FromEdge(cycle[0])
		b := s.FromEdge(cycle[1])
		if first {
			total = a.Cross(b)
			first = false
		} else {
			total = total.Add(a.Cross(b))
		}
	}
	return total
}

// Flip replaces the diagonal e by the other diagonal of its quadrilateral.
// The new diagonal's vector is derived inside the update hook; area and face
// closure are asserted afterwards.
func (s *FlatTriangulation[T]) Flip(e HalfEdge) error {
	for _, side := range []HalfEdge{e, -e} {
		if s.FaceDegree(side) != 3 {
			return errors.Wrapf(goflat.ErrNotTriangular, "cannot flip %s", side)
		}
		sum := s.FromEdge(side).Add(s.FromEdge(s.NextInFace(side))).Add(s.FromEdge(s.PrevInFace(side)))
		if !sum.IsZero() {
			return errors.Wrapf(goflat.ErrFaceNotClosed, "face of %s before flipping", side)
		}
	}
	area := s.Area()
	if err := s.Triangulation.Flip(e); err != nil {
		return err
	}
	if err := s.checkClosed(); err != nil {
		return errors.Wrap(goflat.ErrInvariantViolated, err.Error())
	}
	if s.Area().Cmp(area) != 0 {
		return errors.Wrap(goflat.ErrInvariantViolated, "area changed by flip")
	}
	return nil
}

// updateAfterFlip recomputes the flipped diagonal from the new permutations:
// the new diagonal runs along the two sides of the quadrilateral it now
// subtends.
func (s *FlatTriangulation[T]) updateAfterFlip(m *TrackingMap[Vector[T]], flip HalfEdge) error {
	v := m.Get(-s.NextInFace(flip)).Add(m.Get(s.NextAtVertex(flip)))
	m.Set(flip, v)
	m.Set(-flip, v.Neg())
	return nil
}

// Collapse is disallowed on a plain flat triangulation: only a zero edge
// could collapse without destroying metric data, and the plain surface keeps
// no record of collapsed history.
func (s *FlatTriangulation[T]) Collapse(E Edge) (HalfEdge, HalfEdge, error) {
	return 0, 0, errors.Wrap(goflat.ErrInvalidArgument, "collapse is only supported on a collapsed flat triangulation")
}

// Clone copies the surface; the copy shares nothing with the original.
func (s *FlatTriangulation[T]) Clone() (*FlatTriangulation[T], error) {
	tri := s.Triangulation.clone()
	vectors := make([]Vector[T], s.EdgeCount())
	for i := range vectors {
		vectors[i] = s.FromEdge(Edge(i + 1).Positive())
	}
	return NewFlatTriangulation(tri, vectors)
}

// InSectorOf reports whether v points into the sector anchored at the
// outgoing half edge sector, i.e. counterclockwise from sector's vector and
// strictly before the next outgoing edge.
func (s *FlatTriangulation[T]) InSectorOf(sector HalfEdge, v Vector[T]) bool {
	return s.FromEdge(sector).Ccw(v) != Clockwise &&
		s.FromEdge(s.PrevInFace(sector)).Neg().Ccw(v) == Clockwise
}

// AngleOverPi returns the cone angle at the vertex as a multiple of pi,
// counted exactly by how many sectors contain each horizontal direction.
func (s *FlatTriangulation[T]) AngleOverPi(v Vertex) int {
	var one T
	one = one.One()
	var zero T
	east := Vector[T]{one, zero}
	west := east.Neg()
	n := 0
	for _, e := range s.Outgoing(v) {
		if s.InSectorOf(e, east) {
			n++
		}
		if s.InSectorOf(e, west) {
			n++
		}
	}
	return n
}

// MaxEdgeNormSq returns the largest squared edge length.
func (s *FlatTriangulation[T]) MaxEdgeNormSq() T {
	max := s.FromEdge(HalfEdge(1)).NormSq()
	for _, E := range s.Edges() {
		if n := s.FromEdge(E.Positive()).NormSq(); n.Cmp(max) > 0 {
			max = n
		}
	}
	return max
}

func (s *FlatTriangulation[T]) String() string {
	var b strings.Builder
	b.WriteString(s.Triangulation.String())
	b.WriteString(" with vectors {")
	edges := s.Edges()
	sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
	for i, E := range edges {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(E.String())
		b.WriteString(": ")
		b.WriteString(s.FromEdge(E.Positive()).String())
	}
	b.WriteString("}")
	return b.String()
}
