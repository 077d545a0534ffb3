package libflat

import (
	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/flat-structures/flat.SDK/goflat"
)

// SaddleConnectionsByLength reorders a connection query by increasing |v|.
// It is a lazy, restartable sequence: the iterator enumerates within a
// growing search radius, buffering one radius window at a time in a tree
// ordered by squared length; ties resolve by the underlying sector order.
type SaddleConnectionsByLength[T goflat.Elem[T]] struct {
	base *SaddleConnections[T]
}

func newByLength[T goflat.Elem[T]](base *SaddleConnections[T]) *SaddleConnectionsByLength[T] {
	return &SaddleConnectionsByLength[T]{base: base}
}

// LengthIterator walks the reordered sequence.  Close releases the seen set
// when the caller stops early.
type LengthIterator[T goflat.Elem[T]] struct {
	by       *SaddleConnectionsByLength[T]
	radiusSq T
	done     bool
	seen     connSet
	window   []*SaddleConnection[T]
	next     int
	rank     map[*SaddleConnection[T]]int
}

func (by *SaddleConnectionsByLength[T]) Iterate() *LengthIterator[T] {
	return &LengthIterator[T]{by: by}
}

// All collects the ordered sequence eagerly; the base query must be bounded.
func (by *SaddleConnectionsByLength[T]) All() []*SaddleConnection[T] {
	it := by.Iterate()
	defer it.Close()
	var out []*SaddleConnection[T]
	for {
		c, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}

func (it *LengthIterator[T]) Close() { it.seen.Close() }

func (it *LengthIterator[T]) compare(a, b interface{}) int {
	ca := a.(*SaddleConnection[T])
	cb := b.(*SaddleConnection[T])
	if n := ca.NormSq().Cmp(cb.NormSq()); n != 0 {
		return n
	}
	// Equal lengths keep the sector order of the underlying query.
	return it.rank[ca] - it.rank[cb]
}

// fillWindow enumerates one radius window into the sorted buffer.
func (it *LengthIterator[T]) fillWindow() bool {
	if it.done {
		return false
	}
	base := it.by.base
	surface := base.surface

	final := false
	if it.radiusSq.Sign() == 0 {
		it.radiusSq = surface.MaxEdgeNormSq()
	} else {
		// Double the radius: quadruple its square.
		r := it.radiusSq
		it.radiusSq = r.Add(r).Add(r).Add(r)
	}
	if base.bounded && it.radiusSq.Cmp(base.boundSq) >= 0 {
		it.radiusSq = base.boundSq
		final = true
	}

	tree := redblacktree.NewWith(it.compare)
	it.rank = make(map[*SaddleConnection[T]]int)
	iter := base.BoundSq(it.radiusSq).Iterate()
	n := 0
	for {
		c, ok := iter.Next()
		if !ok {
			break
		}
		if !it.seen.TryAdd(c.key()) {
			continue
		}
		it.rank[c] = n
		n++
		tree.Put(c, nil)
	}

	it.window = it.window[:0]
	tit := tree.Iterator()
	for tit.Next() {
		it.window = append(it.window, tit.Key().(*SaddleConnection[T]))
	}
	it.next = 0
	it.done = final
	return len(it.window) > 0 || !final
}

// Next returns the shortest not yet emitted connection.  The sequence ends
// only when the base query is bounded; an unbounded query keeps growing its
// radius forever and the caller controls progress by dropping the iterator.
func (it *LengthIterator[T]) Next() (*SaddleConnection[T], bool) {
	for {
		if it.next < len(it.window) {
			c := it.window[it.next]
			it.next++
			return c, true
		}
		if !it.fillWindow() {
			it.Close()
			return nil, false
		}
	}
}
