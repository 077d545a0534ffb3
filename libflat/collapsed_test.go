package libflat_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flat-structures/flat.SDK/goflat"
	"github.com/flat-structures/flat.SDK/libflat"
)

func hiddenVectors(c *libflat.CollapsedTriangulation[goflat.Int64], e libflat.HalfEdge) []libflat.Vector[goflat.Int64] {
	var out []libflat.Vector[goflat.Int64]
	for _, conn := range c.Hidden(e) {
		out = append(out, conn.Vector())
	}
	return out
}

func TestCollapseSquareTorus(t *testing.T) {
	s := squareTorus(t)
	c, err := libflat.NewCollapsed(s, v(0, 1))
	require.NoError(t, err)

	// The vertical side collapses; the erased pair frees identifier 2, onto
	// which the surviving diagonal is renamed.  Both remaining edges run
	// horizontally once their vertical excursion is hidden.
	assert.Equal(t, 2, c.EdgeCount())
	assert.Equal(t, v(1, 0), c.FromEdge(1).Vector())
	assert.Equal(t, v(-1, 0), c.FromEdge(2).Vector())

	// The collapsed vertical is recorded on the crossings of both edges.
	assert.Equal(t, []libflat.Vector[goflat.Int64]{v(0, 1)}, hiddenVectors(c, -1))
	assert.Equal(t, []libflat.Vector[goflat.Int64]{v(0, -1)}, hiddenVectors(c, 1))
	assert.Equal(t, []libflat.Vector[goflat.Int64]{v(0, 1)}, hiddenVectors(c, 2))

	// Area is preserved against the uncollapsed surface.
	assert.Equal(t, s.Area(), c.Area())
	assert.Same(t, s, c.Uncollapsed())

	// The original surface is untouched.
	assert.Equal(t, 3, s.EdgeCount())
	assert.Equal(t, v(0, 1), s.FromEdge(2))
}

func TestCollapsedMirrorInvariant(t *testing.T) {
	s := squareTorus(t)
	c, err := libflat.NewCollapsed(s, v(0, 1))
	require.NoError(t, err)

	for _, e := range c.HalfEdges() {
		mirror := c.Hidden(-e)
		list := c.Hidden(e)
		require.Equal(t, len(list), len(mirror))
		for i := range list {
			assert.Equal(t, list[len(list)-1-i].Vector().Neg(), mirror[i].Vector())
		}
	}
}

func TestCollapseCenteredSquareTorus(t *testing.T) {
	s, err := libflat.CenteredSquareTorus()
	require.NoError(t, err)
	c, err := libflat.NewCollapsed(s, v(0, 1))
	require.NoError(t, err)

	// Only the left side is vertical.  Its collapse leaves five edges; the
	// erased pair 2 is refilled by renaming the topmost spoke.
	assert.Equal(t, 5, c.EdgeCount())

	assert.Equal(t, v(2, 0), c.FromEdge(1).Vector())
	assert.Equal(t, v(-1, -1), c.FromEdge(2).Vector())
	assert.Equal(t, v(-1, 1), c.FromEdge(3).Vector())
	assert.Equal(t, v(1, 1), c.FromEdge(4).Vector())
	assert.Equal(t, v(1, -1), c.FromEdge(5).Vector())

	// The two faces flanking the collapsed side became slivers carrying the
	// vertical; the two other triangles still close exactly.
	assert.Equal(t, []libflat.Vector[goflat.Int64]{v(0, -2)}, hiddenVectors(c, 5))
	assert.Equal(t, []libflat.Vector[goflat.Int64]{v(0, 2)}, hiddenVectors(c, 3))
	assert.Empty(t, c.Hidden(1))
	assert.Empty(t, c.Hidden(2))
	assert.Empty(t, c.Hidden(4))

	for _, cycle := range c.FaceCycles() {
		if len(cycle) != 3 {
			continue
		}
		var sum libflat.Vector[goflat.Int64]
		for _, e := range cycle {
			sum = sum.Add(c.FromEdge(e).Vector())
		}
		assert.True(t, sum.IsZero(), "face %v not closed", cycle)
	}

	assert.Equal(t, s.Area(), c.Area())
}

func TestCollapseAlongDiagonal(t *testing.T) {
	s := squareTorus(t)
	c, err := libflat.NewCollapsed(s, v(1, 1))
	require.NoError(t, err)

	// The diagonal is the only vertical edge; opposite sides of its gadget
	// are identified, so the whole gadget squashes onto a single pair.
	assert.Equal(t, 2, c.EdgeCount())
	assert.Equal(t, s.Area(), c.Area())

	found := false
	for _, e := range c.HalfEdges() {
		for _, conn := range c.Hidden(e) {
			assert.True(t, c.Vertical().IsParallel(conn.Vector()))
			found = true
		}
	}
	assert.True(t, found, "the collapsed diagonal must be recorded")
}

func TestCollapsedFlipWithoutVerticalEdges(t *testing.T) {
	s := squareTorus(t)
	c, err := libflat.NewCollapsed(s, v(2, 1))
	require.NoError(t, err)
	require.Equal(t, 3, c.EdgeCount())

	require.NoError(t, c.Flip(3))
	assert.Equal(t, v(1, -1), c.FromEdge(3).Vector())

	for _, cycle := range c.FaceCycles() {
		var sum libflat.Vector[goflat.Int64]
		for _, e := range cycle {
			sum = sum.Add(c.FromEdge(e).Vector())
		}
		assert.True(t, sum.IsZero())
	}
}

func TestCollapsedFlipRejectsSmallEdges(t *testing.T) {
	s := squareTorus(t)
	c, err := libflat.NewCollapsed(s, v(1, -1))
	require.NoError(t, err)

	// Edge 3 runs perpendicular to this vertical, so it is not large.
	err = c.Flip(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, goflat.ErrNotLarge))
}

func TestCollapsedFlipCollapsesNewVertical(t *testing.T) {
	s := squareTorus(t)
	c, err := libflat.NewCollapsed(s, v(1, 2))
	require.NoError(t, err)
	require.Equal(t, 3, c.EdgeCount())

	// Flipping the bottom edge produces the diagonal (1, 2), which is
	// vertical and collapses on the spot.
	require.NoError(t, c.Flip(1))
	assert.Equal(t, 2, c.EdgeCount())
	assert.Equal(t, []libflat.Vector[goflat.Int64]{v(1, 2)}, hiddenVectors(c, 2))
	assert.Equal(t, v(0, 1), c.FromEdge(1).Vector())
	assert.Equal(t, v(0, 1), c.FromEdge(2).Vector())
	assert.Equal(t, s.Area(), c.Area())
}

func TestCollapsedFlipRejectsCollapsedFaces(t *testing.T) {
	s, err := libflat.CenteredSquareTorus()
	require.NoError(t, err)
	c, err := libflat.NewCollapsed(s, v(0, 1))
	require.NoError(t, err)

	// Edge 5 is large but borders a collapsed sliver.
	err = c.Flip(5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, goflat.ErrCollapsedFace))
}

func TestCollapsedTurnCollectsCrossings(t *testing.T) {
	s := squareTorus(t)
	c, err := libflat.NewCollapsed(s, v(0, 1))
	require.NoError(t, err)

	// Turning from a half edge to itself sweeps nothing; turning one sector
	// clockwise sweeps exactly the crossings of the starting half edge.
	none, err := c.Turn(-1, -1)
	require.NoError(t, err)
	assert.Empty(t, none)

	swept, err := c.Turn(-1, c.PrevAtVertex(-1))
	require.NoError(t, err)
	require.Len(t, swept, len(c.Cross(-1)))
	for i, conn := range c.Cross(-1) {
		assert.True(t, swept[i].Vector().Equal(conn.Vector()))
	}

	// Half edges at different vertices cannot be turned between.
	_, err = c.Turn(1, -1)
	if c.SourceVertex(1) != c.SourceVertex(-1) {
		require.Error(t, err)
	}
}

func TestCollapsedString(t *testing.T) {
	s := squareTorus(t)
	c, err := libflat.NewCollapsed(s, v(0, 1))
	require.NoError(t, err)

	assert.Equal(t,
		"(1 2)(-1 -2) with vectors {1: (1, 0), 2: (-1, 0)}, "+
			"collapsed half edges {1: [(0, -1)], -1: [(0, 1)], 2: [(0, 1)], -2: [(0, -1)]} "+
			"with respect to (0, 1)",
		c.String())
}
