package libflat_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flat-structures/flat.SDK/goflat"
	"github.com/flat-structures/flat.SDK/libflat"
)

func squareTorus(t *testing.T) *libflat.FlatTriangulation[goflat.Int64] {
	s, err := libflat.SquareTorus()
	require.NoError(t, err)
	return s
}

func TestSquareTorusConstruction(t *testing.T) {
	s := squareTorus(t)
	assert.Equal(t, v(1, 0), s.FromEdge(1))
	assert.Equal(t, v(0, -1), s.FromEdge(-2))
	assert.Equal(t, goflat.Int64(2), s.Area())
	assert.Equal(t,
		"(1 2 3)(-1 -2 -3) with vectors {1: (1, 0), 2: (0, 1), 3: (-1, -1)}",
		s.String())
}

func TestConstructionRejectsOpenFaces(t *testing.T) {
	tri, err := libflat.NewTriangulationFromVertices(3, [][]libflat.HalfEdge{
		{1, -3, 2, -1, 3, -2},
	})
	require.NoError(t, err)
	_, err = libflat.NewFlatTriangulation(tri, []libflat.Vector[goflat.Int64]{
		v(1, 0), v(0, 1), v(-1, -2),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, goflat.ErrFaceNotClosed))
}

func TestFlipDiagonal(t *testing.T) {
	s := squareTorus(t)
	area := s.Area()
	require.NoError(t, s.Flip(3))

	// The flipped diagonal of the unit square runs along (1, -1).
	assert.Equal(t, v(1, -1), s.FromEdge(3))
	assert.Equal(t, v(-1, 1), s.FromEdge(-3))
	assert.Equal(t, area, s.Area())

	for _, cycle := range s.FaceCycles() {
		var sum libflat.Vector[goflat.Int64]
		for _, e := range cycle {
			sum = sum.Add(s.FromEdge(e))
		}
		assert.True(t, sum.IsZero(), "face %v not closed", cycle)
	}
}

func TestFlipFlipRelabelsPair(t *testing.T) {
	s := squareTorus(t)
	require.NoError(t, s.Flip(3))
	require.NoError(t, s.Flip(3))

	// Two flips restore the quadrilateral with the diagonal's orientation
	// label reversed.
	assert.Equal(t, v(1, 1), s.FromEdge(3))
	assert.Equal(t, "(1 2 -3)(-1 -2 3) with vectors {1: (1, 0), 2: (0, 1), 3: (1, 1)}", s.String())
}

func TestFlipLoopRestoresVectors(t *testing.T) {
	s := squareTorus(t)
	before := s.String()
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Flip(3))
	}
	assert.Equal(t, before, s.String())
}

func TestCollapseIsDisallowed(t *testing.T) {
	s := squareTorus(t)
	_, _, err := s.Collapse(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, goflat.ErrInvalidArgument))
}

func TestCloneIsIndependent(t *testing.T) {
	s := squareTorus(t)
	clone, err := s.Clone()
	require.NoError(t, err)
	require.NoError(t, clone.Flip(3))
	assert.Equal(t, v(-1, -1), s.FromEdge(3))
	assert.Equal(t, v(1, -1), clone.FromEdge(3))
}

func TestAngleOverPi(t *testing.T) {
	s := squareTorus(t)
	assert.Equal(t, 2, s.AngleOverPi(s.SourceVertex(1)))

	c, err := libflat.CenteredSquareTorus()
	require.NoError(t, err)
	assert.Equal(t, 2, c.AngleOverPi(c.SourceVertex(3)))
	assert.Equal(t, 2, c.AngleOverPi(c.SourceVertex(1)))
}

func TestConnectionFromEdge(t *testing.T) {
	s := squareTorus(t)
	conn := s.Connection(1)
	assert.Equal(t, libflat.HalfEdge(1), conn.Source())
	assert.Equal(t, libflat.HalfEdge(-1), conn.Target())
	assert.Equal(t, v(1, 0), conn.Vector())
	assert.True(t, conn.Reversed().Reversed().Equal(conn))
}
