package libflat

import (
	"sort"
	"strconv"
	"strings"

	"github.com/flat-structures/flat.SDK/goflat"
)

// Chain is a formal integer combination of edges of a flat triangulation.
// The weighted sum of the edge vectors is the geometric vector the chain
// represents.
type Chain[T goflat.Elem[T]] struct {
	surface *FlatTriangulation[T]
	coeffs  map[Edge]int
}

func NewChain[T goflat.Elem[T]](surface *FlatTriangulation[T]) *Chain[T] {
	return &Chain[T]{surface: surface, coeffs: map[Edge]int{}}
}

func (c *Chain[T]) Surface() *FlatTriangulation[T] { return c.surface }

// AddHalfEdge adds one step along the half edge: +1 on the edge for the
// positive side, -1 for the negative side.
func (c *Chain[T]) AddHalfEdge(e HalfEdge) *Chain[T] {
	if e.IsPositive() {
		c.coeffs[e.Edge()]++
	} else {
		c.coeffs[e.Edge()]--
	}
	if c.coeffs[e.Edge()] == 0 {
		delete(c.coeffs, e.Edge())
	}
	return c
}

func (c *Chain[T]) AddChain(d *Chain[T]) *Chain[T] {
	for E, n := range d.coeffs {
		c.coeffs[E] += n
		if c.coeffs[E] == 0 {
			delete(c.coeffs, E)
		}
	}
	return c
}

func (c *Chain[T]) Neg() *Chain[T] {
	out := NewChain(c.surface)
	for E, n := range c.coeffs {
		out.coeffs[E] = -n
	}
	return out
}

func (c *Chain[T]) Clone() *Chain[T] {
	out := NewChain(c.surface)
	for E, n := range c.coeffs {
		out.coeffs[E] = n
	}
	return out
}

func (c *Chain[T]) Coefficient(E Edge) int { return c.coeffs[E] }

func (c *Chain[T]) IsZero() bool { return len(c.coeffs) == 0 }

// Vector evaluates the chain against the surface's edge vectors.
func (c *Chain[T]) Vector() Vector[T] {
	var sum Vector[T]
	for E, n := range c.coeffs {
		v := c.surface.FromEdge(E.Positive())
		for ; n > 0; n-- {
			sum = sum.Add(v)
		}
		for ; n < 0; n++ {
			sum = sum.Sub(v)
		}
	}
	return sum
}

func (c *Chain[T]) String() string {
	if len(c.coeffs) == 0 {
		return "0"
	}
	edges := make([]Edge, 0, len(c.coeffs))
	for E := range c.coeffs {
		edges = append(edges, E)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
	var b strings.Builder
	for i, E := range edges {
		if i > 0 {
			b.WriteString(" + ")
		}
		n := c.coeffs[E]
		if n != 1 {
			b.WriteString(strconv.Itoa(n))
			b.WriteByte('*')
		}
		b.WriteString("B[" + E.String() + "]")
	}
	return b.String()
}
