// Package surfparse parses the textual surface format, the same shape the
// surfaces print themselves in:
//
//	(1 2 3)(-1 -2 -3) with vectors {1: (1, 0), 2: (0, 1), 3: (-1, -1)}
//
// The cycles are the face cycles; vectors are listed for the positive half
// edges.
package surfparse

import (
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"

	"github.com/flat-structures/flat.SDK/goflat"
	"github.com/flat-structures/flat.SDK/libflat"
)

type SurfaceExpr struct {
	Cycles  []*CycleExpr  `@@+`
	Vectors []*VectorExpr `"with" "vectors" "{" (@@ ("," @@)*)? "}"`
}

type CycleExpr struct {
	HalfEdges []*IntExpr `"(" @@+ ")"`
}

type VectorExpr struct {
	Edge *IntExpr `@@ ":"`
	X    *IntExpr `"(" @@ ","`
	Y    *IntExpr `@@ ")"`
}

type IntExpr struct {
	Neg bool  `@"-"?`
	Abs int64 `@Int`
}

func (n *IntExpr) Value() int64 {
	if n.Neg {
		return -n.Abs
	}
	return n.Abs
}

var parseSurfaceExpr = participle.MustBuild[SurfaceExpr]()

// ParseSurface builds a flat triangulation over the integer ring from its
// textual form.
func ParseSurface(text string) (*libflat.FlatTriangulation[goflat.Int64], error) {
	expr, err := parseSurfaceExpr.ParseString("", text)
	if err != nil {
		return nil, err
	}

	var cycles [][]libflat.HalfEdge
	edgeCount := 0
	for _, cycle := range expr.Cycles {
		var halfEdges []libflat.HalfEdge
		for _, n := range cycle.HalfEdges {
			e := libflat.HalfEdge(n.Value())
			if e == 0 {
				return nil, errors.Wrap(goflat.ErrInvalidArgument, "half edge 0")
			}
			if int(e.Edge()) > edgeCount {
				edgeCount = int(e.Edge())
			}
			halfEdges = append(halfEdges, e)
		}
		cycles = append(cycles, halfEdges)
	}

	tri, err := libflat.NewTriangulationFromFaces(edgeCount, cycles)
	if err != nil {
		return nil, err
	}

	vectors := make([]libflat.Vector[goflat.Int64], edgeCount)
	assigned := make([]bool, edgeCount)
	for _, v := range expr.Vectors {
		e := libflat.HalfEdge(v.Edge.Value())
		if e == 0 || int(e.Edge()) > edgeCount {
			return nil, errors.Wrapf(goflat.ErrInvalidArgument, "vector for unknown half edge %d", v.Edge.Value())
		}
		vec := libflat.Vector[goflat.Int64]{
			X: goflat.Int64(v.X.Value()),
			Y: goflat.Int64(v.Y.Value()),
		}
		if !e.IsPositive() {
			vec = vec.Neg()
		}
		vectors[e.Edge().Index()] = vec
		assigned[e.Edge().Index()] = true
	}
	for i, ok := range assigned {
		if !ok {
			return nil, errors.Wrapf(goflat.ErrInvalidArgument, "no vector for edge %d", i+1)
		}
	}

	return libflat.NewFlatTriangulation(tri, vectors)
}
