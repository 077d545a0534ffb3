package surfparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flat-structures/flat.SDK/goflat"
	"github.com/flat-structures/flat.SDK/libflat"
	"github.com/flat-structures/flat.SDK/libflat/surfparse"
)

func TestParseSquareTorus(t *testing.T) {
	s, err := surfparse.ParseSurface(
		"(1 2 3)(-1 -2 -3) with vectors {1: (1, 0), 2: (0, 1), 3: (-1, -1)}")
	require.NoError(t, err)

	assert.Equal(t, 3, s.EdgeCount())
	assert.Equal(t, libflat.Vector[goflat.Int64]{X: 1, Y: 0}, s.FromEdge(1))
	assert.Equal(t, libflat.Vector[goflat.Int64]{X: 1, Y: 1}, s.FromEdge(-3))
}

func TestParseRoundTrip(t *testing.T) {
	reference, err := libflat.SquareTorus()
	require.NoError(t, err)

	parsed, err := surfparse.ParseSurface(reference.String())
	require.NoError(t, err)
	assert.Equal(t, reference.String(), parsed.String())
}

func TestParseRejectsOpenFace(t *testing.T) {
	_, err := surfparse.ParseSurface(
		"(1 2 3)(-1 -2 -3) with vectors {1: (1, 0), 2: (0, 1), 3: (-1, -2)}")
	require.Error(t, err)
}

func TestParseRejectsMissingVector(t *testing.T) {
	_, err := surfparse.ParseSurface(
		"(1 2 3)(-1 -2 -3) with vectors {1: (1, 0), 2: (0, 1)}")
	require.Error(t, err)
}
