package libflat

import (
	"github.com/pkg/errors"

	"github.com/flat-structures/flat.SDK/goflat"
)

// Permutation is a bijection on the half edges ±1..±n, stored densely by
// HalfEdge.Index together with its inverse.
type Permutation struct {
	image    []HalfEdge
	preimage []HalfEdge
}

func newIdentityPermutation(edgeCount int) *Permutation {
	p := &Permutation{
		image:    make([]HalfEdge, 2*edgeCount),
		preimage: make([]HalfEdge, 2*edgeCount),
	}
	for i := range p.image {
		p.image[i] = halfEdgeFromIndex(i)
		p.preimage[i] = halfEdgeFromIndex(i)
	}
	return p
}

// NewPermutationFromCycles builds a permutation on ±1..±edgeCount from its
// cycle decomposition.  Every half edge must appear exactly once.
func NewPermutationFromCycles(edgeCount int, cycles [][]HalfEdge) (*Permutation, error) {
	p := &Permutation{
		image:    make([]HalfEdge, 2*edgeCount),
		preimage: make([]HalfEdge, 2*edgeCount),
	}
	seen := make([]bool, 2*edgeCount)
	total := 0
	for _, cycle := range cycles {
		if len(cycle) == 0 {
			return nil, errors.Wrap(goflat.ErrNotAPermutation, "empty cycle")
		}
		for i, e := range cycle {
			if e == 0 || e.Index() >= len(p.image) || -e == 0 {
				return nil, errors.Wrapf(goflat.ErrNotAPermutation, "half edge %s out of range", e)
			}
			if seen[e.Index()] {
				return nil, errors.Wrapf(goflat.ErrNotAPermutation, "half edge %s appears twice", e)
			}
			seen[e.Index()] = true
			total++
			to := cycle[(i+1)%len(cycle)]
			p.image[e.Index()] = to
		}
	}
	if total != 2*edgeCount {
		return nil, errors.Wrapf(goflat.ErrNotAPermutation, "%d of %d half edges assigned", total, 2*edgeCount)
	}
	for i, to := range p.image {
		p.preimage[to.Index()] = halfEdgeFromIndex(i)
	}
	return p, nil
}

// Size returns the number of edges, i.e. half the domain size.
func (p *Permutation) Size() int { return len(p.image) / 2 }

func (p *Permutation) Image(e HalfEdge) HalfEdge { return p.image[e.Index()] }
func (p *Permutation) Preimage(e HalfEdge) HalfEdge { return p.preimage[e.Index()] }

func (p *Permutation) set(from, to HalfEdge) {
	p.image[from.Index()] = to
	p.preimage[to.Index()] = from
}

func (p *Permutation) clone() *Permutation {
	q := &Permutation{
		image:    append([]HalfEdge(nil), p.image...),
		preimage: append([]HalfEdge(nil), p.preimage...),
	}
	return q
}

// domain lists all half edges in the fixed order 1, -1, 2, -2, ...
func (p *Permutation) domain() []HalfEdge {
	out := make([]HalfEdge, len(p.image))
	for i := range out {
		out[i] = halfEdgeFromIndex(i)
	}
	return out
}

// Cycles returns the cycle decomposition.  Each cycle starts at its half edge
// of least index and cycles are ordered by that least index, so the output is
// canonical.
func (p *Permutation) Cycles() [][]HalfEdge {
	var cycles [][]HalfEdge
	visited := make([]bool, len(p.image))
	for i := range p.image {
		if visited[i] {
			continue
		}
		start := halfEdgeFromIndex(i)
		cycle := []HalfEdge{}
		for e := start; ; e = p.Image(e) {
			if visited[e.Index()] {
				break
			}
			visited[e.Index()] = true
			cycle = append(cycle, e)
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}

// cycleLength walks the cycle through e.
func (p *Permutation) cycleLength(e HalfEdge) int {
	n := 1
	for f := p.Image(e); f != e; f = p.Image(f) {
		n++
	}
	return n
}

// swap renames a and b, conjugating the permutation by the transposition.
func (p *Permutation) swap(a, b HalfEdge) {
	if a == b {
		return
	}
	ia, ib := p.Image(a), p.Image(b)
	pa, pb := p.Preimage(a), p.Preimage(b)
	rename := func(e HalfEdge) HalfEdge {
		switch e {
		case a:
			return b
		case b:
			return a
		}
		return e
	}
	p.set(rename(pa), b)
	p.set(rename(pb), a)
	p.set(b, rename(ia))
	p.set(a, rename(ib))
}

// shrink drops the top `edges` edges from the domain.  The caller must already
// have moved the edges to be deleted onto the top indexes and detached them
// from all remaining cycles.
func (p *Permutation) shrink(edges int) {
	n := len(p.image) - 2*edges
	p.image = p.image[:n]
	p.preimage = p.preimage[:n]
}

func (p *Permutation) validate() error {
	seen := make([]bool, len(p.image))
	for i := range p.image {
		to := p.image[i]
		if to == 0 || to.Index() >= len(p.image) {
			return errors.Wrapf(goflat.ErrNotAPermutation, "image of %s out of range", halfEdgeFromIndex(i))
		}
		if seen[to.Index()] {
			return errors.Wrapf(goflat.ErrNotAPermutation, "%s has two preimages", to)
		}
		seen[to.Index()] = true
		if p.preimage[to.Index()] != halfEdgeFromIndex(i) {
			return errors.Wrap(goflat.ErrNotAPermutation, "inverse out of sync")
		}
	}
	return nil
}
