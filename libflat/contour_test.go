package libflat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flat-structures/flat.SDK/libflat"
)

func TestContourReconstruction(t *testing.T) {
	s := squareTorus(t)
	c, err := libflat.NewCollapsed(s, v(0, 1))
	require.NoError(t, err)

	contours, err := libflat.ContourOf(c)
	require.NoError(t, err)
	require.Len(t, contours, 2)

	// Every contour connection is non-vertical.
	for _, contour := range contours {
		for _, cc := range contour {
			assert.False(t, c.Vertical().IsParallel(cc.Connection.Vector()))
		}
	}

	// The collapsed vertical appears on some side of the contour.
	found := false
	for _, contour := range contours {
		for _, cc := range contour {
			if len(cc.Left) > 0 || len(cc.Right) > 0 {
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestContourSurvivesFlip(t *testing.T) {
	s := squareTorus(t)
	c, err := libflat.NewCollapsed(s, v(2, 1))
	require.NoError(t, err)

	before, err := libflat.ContourOf(c)
	require.NoError(t, err)
	require.NotEmpty(t, before)

	require.NoError(t, c.Flip(3))

	after, err := libflat.ContourOf(c)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}
