package libflat

import "github.com/flat-structures/flat.SDK/goflat"

// Named surfaces over the integer ring, used by the command line tool and as
// test fixtures.

func v64(x, y int64) Vector[goflat.Int64] {
	return Vector[goflat.Int64]{goflat.Int64(x), goflat.Int64(y)}
}

// SquareTorus is the torus glued from a unit square, triangulated along one
// diagonal: faces (1 2 3)(-1 -2 -3) with 1 = (1,0), 2 = (0,1), 3 = (-1,-1).
func SquareTorus() (*FlatTriangulation[goflat.Int64], error) {
	tri, err := NewTriangulationFromVertices(3, [][]HalfEdge{{1, -3, 2, -1, 3, -2}})
	if err != nil {
		return nil, err
	}
	return NewFlatTriangulation(tri, []Vector[goflat.Int64]{
		v64(1, 0), v64(0, 1), v64(-1, -1),
	})
}

// CenteredSquareTorus is the torus glued from a square of side two with an
// extra vertex at the centre, cut into four triangles by the spokes.  Edge 1
// is the bottom side, edge 2 the left side, edges 3..6 the spokes from the
// centre to the four corner copies.
func CenteredSquareTorus() (*FlatTriangulation[goflat.Int64], error) {
	tri, err := NewTriangulationFromFaces(6, [][]HalfEdge{
		{1, -4, 3},
		{2, -5, 4},
		{-1, -6, 5},
		{-2, -3, 6},
	})
	if err != nil {
		return nil, err
	}
	return NewFlatTriangulation(tri, []Vector[goflat.Int64]{
		v64(2, 0),
		v64(0, 2),
		v64(-1, -1),
		v64(1, -1),
		v64(1, 1),
		v64(-1, 1),
	})
}
