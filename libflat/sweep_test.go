package libflat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flat-structures/flat.SDK/goflat"
	"github.com/flat-structures/flat.SDK/libflat"
)

func TestNewDirValidatesSector(t *testing.T) {
	s := squareTorus(t)

	d, err := s.NewDir(1, v(2, 1))
	require.NoError(t, err)
	assert.Equal(t, libflat.HalfEdge(1), d.At)

	// (1, 2) points out of the diagonal's sector, not edge 1's.
	_, err = s.NewDir(1, v(1, 2))
	require.Error(t, err)

	d, err = s.NewDir(-3, v(1, 2))
	require.NoError(t, err)
	assert.Equal(t, libflat.HalfEdge(-3), d.At)
}

func TestRotateToVec(t *testing.T) {
	s := squareTorus(t)
	d, err := s.NewDir(1, v(2, 1))
	require.NoError(t, err)

	rotated, err := s.RotateToVec(d, v(-1, 2))
	require.NoError(t, err)
	assert.Equal(t, libflat.HalfEdge(2), rotated.At)
	assert.Equal(t, v(-1, 2), rotated.Vec)
}

func TestFollowDirHitsSingularity(t *testing.T) {
	s := squareTorus(t)
	sw, err := libflat.NewSweeper(s, goflat.Int64(6))
	require.NoError(t, err)

	start, err := s.NewDir(-3, v(1, 2))
	require.NoError(t, err)

	hit, err := sw.FollowDir(start)
	require.NoError(t, err)
	require.NotNil(t, hit)

	// The ray along (1, 2) reaches the singularity after unfolding one
	// face; the reported direction points back towards the base.
	assert.Equal(t, v(-1, -2), hit.Vec)
	assert.Equal(t, libflat.HalfEdge(3), hit.At)
}

func TestFollowDirEscapesWithinBound(t *testing.T) {
	s := squareTorus(t)
	// A squared depth of 2 is too small to reach the vertex at (1, 2),
	// whose squared distance is 5.
	sw, err := libflat.NewSweeper(s, goflat.Int64(2))
	require.NoError(t, err)
	sw.SlackSq = goflat.Int64(4)

	start, err := s.NewDir(-3, v(1, 2))
	require.NoError(t, err)

	hit, err := sw.FollowDir(start)
	require.NoError(t, err)
	assert.Nil(t, hit)
}

func TestDevelopingMapAdvance(t *testing.T) {
	s := squareTorus(t)
	start, err := s.NewDir(-3, v(1, 2))
	require.NoError(t, err)

	D, err := libflat.NewDevelopingMap(s, start)
	require.NoError(t, err)
	assert.Equal(t, libflat.HalfEdge(-1), D.NextEdge())
	assert.False(t, D.WillHitVertex())
	assert.Equal(t, v(0, 1), D.CurrentVertexPos())

	D.Advance()
	assert.True(t, D.WillHitVertex())
	assert.Equal(t, v(1, 2), D.CurrentVertexPos())
}

func TestSweepEmitsWithinDepth(t *testing.T) {
	s := squareTorus(t)
	sw, err := libflat.NewSweeper(s, goflat.Int64(3))
	require.NoError(t, err)

	start, err := s.NewDir(1, v(2, 1))
	require.NoError(t, err)

	var hits []libflat.Vector[goflat.Int64]
	err = sw.Sweep(start, func(d libflat.Dir[goflat.Int64]) {
		hits = append(hits, d.Vec)
	})
	require.NoError(t, err)

	for _, h := range hits {
		assert.True(t, h.NormSq().Cmp(goflat.Int64(3)) < 0)
	}
}

func TestInvestigatedInternsDirections(t *testing.T) {
	s := squareTorus(t)
	sw, err := libflat.NewSweeper(s, goflat.Int64(3))
	require.NoError(t, err)

	assert.False(t, sw.Investigated(v(1, 1)))
	assert.True(t, sw.Investigated(v(1, 1)))
	assert.False(t, sw.Investigated(v(1, -1)))
}
