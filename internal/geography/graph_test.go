package geography_test

import (
	"testing"

	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/stretchr/testify/require"
)

func TestNewGraph_RejectsBadDistanceMatrix(t *testing.T) {
	_, err := geography.NewGraph(3, nil, []float64{1, 2, 3})
	require.Error(t, err)
}

func TestNewGraph_DedupesAndSymmetrizesEdges(t *testing.T) {
	g, err := geography.NewGraph(3, [][2]int{{0, 1}, {1, 0}, {1, 2}, {1, 1}}, nil)
	require.NoError(t, err)

	occupied := make([]bool, 3)
	neighbours := g.Neighbours([]bool{true, false, false}, occupied)
	require.Equal(t, []bool{false, true, false}, neighbours)
}

func TestGraph_Neighbours_ExcludesOccupied(t *testing.T) {
	// Line graph 0-1-2-3.
	g, err := geography.NewGraph(4, [][2]int{{0, 1}, {1, 2}, {2, 3}}, nil)
	require.NoError(t, err)

	zoneRow := []bool{false, true, false, false}
	occupied := []bool{false, true, true, false} // site 2 already claimed elsewhere
	got := g.Neighbours(zoneRow, occupied)

	require.Equal(t, []bool{true, false, false, false}, got)
}

func TestGraph_Connected(t *testing.T) {
	// Line graph 0-1-2-3.
	g, err := geography.NewGraph(4, [][2]int{{0, 1}, {1, 2}, {2, 3}}, nil)
	require.NoError(t, err)

	require.True(t, g.Connected([]bool{true, true, false, false}))
	require.False(t, g.Connected([]bool{true, false, true, false}))
	require.True(t, g.Connected([]bool{false, false, false, false}))
	require.True(t, g.Connected([]bool{false, true, false, false}))
}

func TestGraph_Distance(t *testing.T) {
	g, err := geography.NewGraph(2, [][2]int{{0, 1}}, []float64{0, 5, 5, 0})
	require.NoError(t, err)

	require.Equal(t, 5.0, g.Distance(0, 1))
	require.Equal(t, 0.0, g.Distance(1, 1))
}
