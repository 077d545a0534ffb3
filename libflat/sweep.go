package libflat

import (
	"github.com/arcspace/go-arc-sdk/stdlib/symbol"
	"github.com/arcspace/go-arc-sdk/stdlib/symbol/memory_table"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/flat-structures/flat.SDK/goflat"
)

// Dir is a direction followed out of a vertex: a vector anchored in the
// angular sector of the outgoing half edge At.
type Dir[T goflat.Elem[T]] struct {
	At  HalfEdge
	Vec Vector[T]
}

// NewDir anchors vec at the sector of the outgoing half edge at.
func (s *FlatTriangulation[T]) NewDir(at HalfEdge, vec Vector[T]) (Dir[T], error) {
	if vec.IsZero() {
		return Dir[T]{}, errors.Wrap(goflat.ErrZeroVector, "direction")
	}
	if !s.InSectorOf(at, vec) {
		return Dir[T]{}, errors.Wrapf(goflat.ErrInvalidArgument, "%s does not point out of the sector at %s", vec, at)
	}
	return Dir[T]{At: at, Vec: vec}, nil
}

// RotateToVec re-anchors the direction at the same vertex to the target
// vector, walking the sectors until the one containing it is found.
func (s *FlatTriangulation[T]) RotateToVec(d Dir[T], vec Vector[T]) (Dir[T], error) {
	at := d.At
	for {
		if s.InSectorOf(at, vec) {
			return Dir[T]{At: at, Vec: vec}, nil
		}
		at = s.NextAtVertex(at)
		if at == d.At {
			return Dir[T]{}, errors.Wrapf(goflat.ErrInvalidArgument, "no sector at the vertex of %s contains %s", d.At, vec)
		}
	}
}

// sectorSteps counts how many sector advances separate from and to around
// their common vertex.
func (s *FlatTriangulation[T]) sectorSteps(from, to HalfEdge) int {
	n := 0
	for e := from; e != to; e = s.NextAtVertex(e) {
		n++
	}
	return n
}

// DevelopingMap unfolds the surface along a straight ray into the plane
// whose origin is the base of the ray.  The state is the edge the ray is
// about to cross, held as the plane positions of its tail (clockwise of the
// ray) and head (counterclockwise); faceOffset translates the local
// coordinates of the face just entered into the plane.
type DevelopingMap[T goflat.Elem[T]] struct {
	surface *FlatTriangulation[T]
	start   Dir[T]

	crossed    HalfEdge // the edge the ray crosses next, bounding the current face
	tailPos    Vector[T]
	headPos    Vector[T]
	faceOffset Vector[T]

	willHit   bool
	hitAnchor HalfEdge
	candPos   Vector[T] // position of the most recently unfolded vertex
	candDir   HalfEdge  // outgoing half edge anchoring the sector back towards the base
}

// NewDevelopingMap starts unfolding along the given direction.  The first
// edge crossed is the side of start's face opposite the source vertex.
func NewDevelopingMap[T goflat.Elem[T]](s *FlatTriangulation[T], start Dir[T]) (*DevelopingMap[T], error) {
	if !s.InSectorOf(start.At, start.Vec) {
		return nil, errors.Wrapf(goflat.ErrInvalidArgument, "%s is not anchored at %s", start.Vec, start.At)
	}
	d := &DevelopingMap[T]{surface: s, start: start}
	x := s.NextInFace(start.At)
	d.crossed = x
	d.tailPos = s.FromEdge(start.At)
	d.headPos = d.tailPos.Add(s.FromEdge(x))
	d.faceOffset = d.tailPos.Sub(d.tailOffsetLocal(start.At)).Sub(s.FromEdge(start.At))

	// When the ray runs along the sector's lower boundary it hits the head
	// of the starting half edge, which is then the first candidate;
	// otherwise the first candidate is the head of the first crossed side.
	d.candPos = d.tailPos
	d.candDir = -start.At
	if d.start.Vec.Ccw(d.tailPos) == Collinear && d.start.Vec.Orientation(d.tailPos) == Same {
		d.willHit = true
		d.hitAnchor = -start.At
	} else {
		d.candPos = d.headPos
		d.candDir = s.PrevInFace(start.At)
	}
	return d, nil
}

// faceAnchorLocal fixes face-local coordinates: the tail of the least
// indexed half edge of the face cycle is the local origin.
func (d *DevelopingMap[T]) faceAnchorLocal(e HalfEdge) HalfEdge {
	min := e
	for f := d.surface.NextInFace(e); f != e; f = d.surface.NextInFace(f) {
		if f.Index() < min.Index() {
			min = f
		}
	}
	return min
}

// tailOffsetLocal is the face-local position of the tail of e.
func (d *DevelopingMap[T]) tailOffsetLocal(e HalfEdge) Vector[T] {
	var pos Vector[T]
	for f := d.faceAnchorLocal(e); f != e; f = d.surface.NextInFace(f) {
		pos = pos.Add(d.surface.FromEdge(f))
	}
	return pos
}

// Advance crosses into the face on the far side of the crossed edge.  The
// far corner of that face becomes the new candidate; the ray then aims at
// one of the two new sides.
func (d *DevelopingMap[T]) Advance() {
	s := d.surface
	x := d.crossed
	u := s.NextInFace(-x)
	w := s.NextInFace(u)

	a, b := d.tailPos, d.headPos
	c := a.Add(s.FromEdge(u))

	// faceOffset now maps the coordinates of the face of -x: the tail of u
	// sits at a.
	d.faceOffset = a.Sub(d.tailOffsetLocal(u))

	d.willHit = false
	d.candPos = c
	d.candDir = w

	switch d.start.Vec.Ccw(c) {
	case Collinear:
		if d.start.Vec.Orientation(c) == Same {
			d.willHit = true
			d.hitAnchor = w
		}
		// Past the singularity the sweep passes on its left.
		d.crossed = w
		d.tailPos = c
		d.headPos = b
	case CounterClockwise:
		// The corner hangs left of the ray; the ray exits right of it.
		d.crossed = u
		d.tailPos = a
		d.headPos = c
	default:
		d.crossed = w
		d.tailPos = c
		d.headPos = b
	}
}

// CurrentEdge is the side through which the ray entered the current face,
// oriented with that face on its left.
func (d *DevelopingMap[T]) CurrentEdge() HalfEdge { return -d.crossed }

// NextEdge is the side the ray crosses next.
func (d *DevelopingMap[T]) NextEdge() HalfEdge { return d.crossed }

// FaceOffset translates the current face's local coordinates into the plane
// whose origin is the base of the ray.
func (d *DevelopingMap[T]) FaceOffset() Vector[T] { return d.faceOffset }

// WillHitVertex reports whether the ray passes exactly through the most
// recently unfolded vertex.
func (d *DevelopingMap[T]) WillHitVertex() bool { return d.willHit }

// HitVertex is the direction back from the hit vertex towards the base of
// the ray; its vector is the negated hit position.
func (d *DevelopingMap[T]) HitVertex() (Dir[T], error) {
	anchor := Dir[T]{At: d.hitAnchor, Vec: d.surface.FromEdge(d.hitAnchor)}
	return d.surface.RotateToVec(anchor, d.candPos.Neg())
}

// CurrentVertexPos is the unfolded position of the most recently revealed
// vertex, the sweep's next candidate.
func (d *DevelopingMap[T]) CurrentVertexPos() Vector[T] { return d.candPos }

// CurrentVertexDir is the direction from the candidate vertex back towards
// the base of the ray.
func (d *DevelopingMap[T]) CurrentVertexDir() (Dir[T], error) {
	anchor := Dir[T]{At: d.candDir, Vec: d.surface.FromEdge(d.candDir)}
	return d.surface.RotateToVec(anchor, d.candPos.Neg())
}

// drift is the squared distance of the crossed segment's nearer endpoint,
// the exact stand-in for the norm of the face offset in the termination
// bound.
func (d *DevelopingMap[T]) drift() T {
	ta, tb := d.tailPos.NormSq(), d.headPos.NormSq()
	if ta.Cmp(tb) < 0 {
		return ta
	}
	return tb
}

// Sweeper enumerates saddle connections by rotating a direction through the
// sectors of a vertex, unfolding the surface in each sector up to a depth.
// The termination slack is a parameter: the classical bound
// 2*(2*depth*maxEdge + maxEdge^2 + 1) comes without a proof of sufficiency,
// so DefaultSlackSq overestimates it ring-exactly and callers may widen it.
type Sweeper[T goflat.Elem[T]] struct {
	Surface *FlatTriangulation[T]
	DepthSq T
	SlackSq T

	emitted symbol.Table
}

// DefaultSlackSq overestimates (depth+slack)^2 with ring operations only,
// substituting L <= 1 + L^2 for the square roots.
func DefaultSlackSq[T goflat.Elem[T]](s *FlatTriangulation[T], depthSq T) T {
	one := depthSq.One()
	two := one.Add(one)
	maxSq := s.MaxEdgeNormSq()
	depthBound := one.Add(depthSq) // >= depth
	edgeBound := one.Add(maxSq)    // >= maxEdge
	slack := two.Mul(two.Mul(depthBound).Mul(edgeBound).Add(maxSq).Add(one))
	// (depth + slack)^2 <= 2*depthSq + 2*slack^2
	return two.Mul(depthSq).Add(two.Mul(slack).Mul(slack))
}

// NewSweeper prepares a sweep with the default slack and an interning table
// for already investigated directions.
func NewSweeper[T goflat.Elem[T]](s *FlatTriangulation[T], depthSq T) (*Sweeper[T], error) {
	tableOpts := memory_table.DefaultOpts()
	emitted, err := tableOpts.CreateTable()
	if err != nil {
		return nil, err
	}
	return &Sweeper[T]{
		Surface: s,
		DepthSq: depthSq,
		SlackSq: DefaultSlackSq(s, depthSq),
		emitted: emitted,
	}, nil
}

// SweepNextLeft follows the direction, reporting the vertex hit exactly on
// the ray within depth (if any) and the nearest candidate counterclockwise
// of the ray, which becomes the next direction of the sweep.
func (sw *Sweeper[T]) SweepNextLeft(start Dir[T]) (hit *Dir[T], end Dir[T], err error) {
	D, err := NewDevelopingMap(sw.Surface, start)
	if err != nil {
		return nil, Dir[T]{}, err
	}

	record := func() error {
		if D.WillHitVertex() && D.CurrentVertexPos().NormSq().Cmp(sw.DepthSq) < 0 {
			h, err := D.HitVertex()
			if err != nil {
				return err
			}
			hit = &h
		}
		return nil
	}
	if err = record(); err != nil {
		return nil, Dir[T]{}, err
	}

	end, err = D.CurrentVertexDir()
	if err != nil {
		return nil, Dir[T]{}, err
	}
	endPos := D.CurrentVertexPos()
	if start.Vec.Ccw(endPos) != CounterClockwise {
		// The initial candidate sits on the ray itself.  The head of the
		// first crossed side, reached back along the third side of the
		// start face, is the first candidate counterclockwise of the ray.
		back := sw.Surface.PrevInFace(start.At)
		end = Dir[T]{At: back, Vec: sw.Surface.FromEdge(back)}
		endPos = end.Vec.Neg()
	}

	count := 0
	bound := sw.DepthSq.Add(sw.SlackSq)
	for {
		D.Advance()
		count++
		klog.V(4).Infof("sweep: crossing %s, count %d, candidate %s", D.NextEdge(), count, D.CurrentVertexPos())

		if err = record(); err != nil {
			return nil, Dir[T]{}, err
		}

		pos := D.CurrentVertexPos()
		if start.Vec.Ccw(pos) == CounterClockwise &&
			pos.Ccw(endPos) == CounterClockwise &&
			pos.NormSq().Cmp(sw.DepthSq) < 0 {
			endPos = pos
			end, err = D.CurrentVertexDir()
			if err != nil {
				return nil, Dir[T]{}, err
			}
		}

		if D.drift().Cmp(bound) > 0 {
			break
		}
	}
	return hit, end, nil
}

// FollowDir walks straight along the direction and reports the direction
// back from the first singularity hit within depth, or nil when the ray
// escapes the search radius unhit.
func (sw *Sweeper[T]) FollowDir(start Dir[T]) (*Dir[T], error) {
	D, err := NewDevelopingMap(sw.Surface, start)
	if err != nil {
		return nil, err
	}
	bound := sw.DepthSq.Add(sw.SlackSq)
	for {
		if D.WillHitVertex() {
			if D.CurrentVertexPos().NormSq().Cmp(sw.DepthSq) < 0 {
				h, err := D.HitVertex()
				if err != nil {
					return nil, err
				}
				return &h, nil
			}
			return nil, nil
		}
		if D.drift().Cmp(bound) > 0 {
			return nil, nil
		}
		D.Advance()
	}
}

// Investigated interns the direction key and reports whether it had been
// seen before; directions already swept over are skipped by the caller.
func (sw *Sweeper[T]) Investigated(v Vector[T]) bool {
	key := []byte(v.String())
	seen := sw.emitted.GetSymbolID(key, false) != 0
	if !seen {
		sw.emitted.GetSymbolID(key, true)
	}
	return seen
}

// Sweep rotates counterclockwise from start through every sector of the
// source vertex once, calling emit for each hit within depth.  The turn is
// counted combinatorially by sector advances rather than by accumulating
// inexact angles.
func (sw *Sweeper[T]) Sweep(start Dir[T], emit func(Dir[T])) error {
	degree := len(sw.Surface.Outgoing(sw.Surface.SourceVertex(start.At)))
	old := start
	turned := 0
	stalls := 0
	for turned < degree {
		hit, end, err := sw.SweepNextLeft(old)
		if err != nil {
			return err
		}
		if hit != nil && !sw.Investigated(hit.Vec) {
			emit(*hit)
		}
		next, err := sw.Surface.RotateToVec(old, end.Vec.Neg())
		if err != nil {
			return err
		}
		steps := sw.Surface.sectorSteps(old.At, next.At)
		turned += steps
		if steps == 0 && next.Vec.Equal(old.Vec) {
			if stalls++; stalls > degree {
				return errors.Wrap(goflat.ErrInvariantViolated, "sweep stalled")
			}
		} else {
			stalls = 0
		}
		old = next
	}
	return nil
}
