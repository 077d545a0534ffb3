package libflat_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flat-structures/flat.SDK/goflat"
	"github.com/flat-structures/flat.SDK/libflat"
)

func torusTriangulation(t *testing.T) *libflat.Triangulation {
	tri, err := libflat.NewTriangulationFromVertices(3, [][]libflat.HalfEdge{
		{1, -3, 2, -1, 3, -2},
	})
	require.NoError(t, err)
	return tri
}

func TestDerivedFaces(t *testing.T) {
	tri := torusTriangulation(t)
	assert.Equal(t, "(1 2 3)(-1 -2 -3)", tri.String())
	assert.Equal(t, libflat.HalfEdge(2), tri.NextInFace(1))
	assert.Equal(t, libflat.HalfEdge(3), tri.PrevInFace(1))
	assert.Equal(t, libflat.HalfEdge(-3), tri.NextAtVertex(1))
	assert.Equal(t, 3, tri.FaceDegree(2))
	assert.Len(t, tri.Vertices(), 1)
	assert.Len(t, tri.Outgoing(tri.SourceVertex(1)), 6)
}

func TestFlipPostcondition(t *testing.T) {
	tri := torusTriangulation(t)
	// (1 2 3)(-1 -2 -3) with e = 3 reads (a b e) = (1 2 3) and
	// (c d -e) = (-1 -2 -3); the flip must produce (a -e d) and (c e b).
	require.NoError(t, tri.Flip(3))
	assert.Equal(t, "(1 -3 -2)(-1 3 2)", tri.String())

	// The vertex permutation stays consistent with the faces.
	for _, e := range tri.HalfEdges() {
		assert.Equal(t, -tri.PrevInFace(e), tri.NextAtVertex(e))
	}
}

func TestFlipFourTimesRestores(t *testing.T) {
	tri := torusTriangulation(t)
	before := tri.String()
	for i := 0; i < 4; i++ {
		require.NoError(t, tri.Flip(3))
	}
	assert.Equal(t, before, tri.String())
}

func TestCollapseReducesToDigons(t *testing.T) {
	tri := torusTriangulation(t)
	b, d, err := tri.Collapse(2)
	require.NoError(t, err)
	assert.Equal(t, libflat.HalfEdge(3), b)
	assert.Equal(t, libflat.HalfEdge(-3), d)

	// The collapsed pair is erased; the surviving diagonal is renamed onto
	// the freed identifier 2.
	assert.Equal(t, 2, tri.EdgeCount())
	assert.Equal(t, "(1 2)(-1 -2)", tri.String())
	assert.True(t, tri.IsCollapsedFace(1))
	assert.Len(t, tri.Vertices(), 2)
}

func TestEraseRejectsProperFaces(t *testing.T) {
	tri := torusTriangulation(t)
	err := tri.Erase([]libflat.Edge{2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, goflat.ErrInvalidArgument))
}

type recordingObserver struct {
	name   string
	events *[]string
}

func (r *recordingObserver) AfterFlip(e libflat.HalfEdge) error {
	*r.events = append(*r.events, r.name+":flip")
	return nil
}

func (r *recordingObserver) BeforeCollapse(E libflat.Edge) error {
	*r.events = append(*r.events, r.name+":collapse")
	return nil
}

func (r *recordingObserver) BeforeSwap(a, b libflat.HalfEdge) error {
	*r.events = append(*r.events, r.name+":swap")
	return nil
}

func (r *recordingObserver) BeforeErase(edges []libflat.Edge) error {
	*r.events = append(*r.events, r.name+":erase")
	return nil
}

func TestObserversRunInRegistrationOrder(t *testing.T) {
	tri := torusTriangulation(t)
	var events []string
	tri.Attach(&recordingObserver{name: "first", events: &events})
	tri.Attach(&recordingObserver{name: "second", events: &events})

	require.NoError(t, tri.Flip(1))
	require.Equal(t, []string{"first:flip", "second:flip"}, events)

	events = events[:0]
	_, _, err := tri.Collapse(2)
	require.NoError(t, err)
	// The collapse announces itself, then renames the doomed pair to the
	// top by two swaps, then erases it.
	require.Greater(t, len(events), 2)
	assert.Equal(t, "first:collapse", events[0])
	assert.Equal(t, "second:collapse", events[1])
	assert.Equal(t, "first:erase", events[len(events)-2])
	assert.Equal(t, "second:erase", events[len(events)-1])
}

type failingObserver struct{}

func (failingObserver) AfterFlip(libflat.HalfEdge) error {
	return errors.New("store out of sync")
}
func (failingObserver) BeforeCollapse(libflat.Edge) error   { return nil }
func (failingObserver) BeforeSwap(a, b libflat.HalfEdge) error { return nil }
func (failingObserver) BeforeErase([]libflat.Edge) error    { return nil }

func TestFailingObserverAbortsWithInvariantViolated(t *testing.T) {
	tri := torusTriangulation(t)
	tri.Attach(failingObserver{})
	err := tri.Flip(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, goflat.ErrInvariantViolated))
}
