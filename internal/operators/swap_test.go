package operators_test

import (
	"testing"

	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/operators"
	"github.com/derpetermann/contact-zones/internal/sample"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// TestSwapArea_SingleMemberSingleCandidate pins both the member-to-remove
// and the candidate-to-add to a single choice each (a singleton area on a
// 3-site path graph, with only one unoccupied neighbour), so the outcome
// is forced regardless of the RNG draw.
func TestSwapArea_SingleMemberSingleCandidate(t *testing.T) {
	geo, err := geography.NewGraph(3, [][2]int{{0, 1}, {1, 2}}, nil)
	require.NoError(t, err)

	areas := sample.NewMatrix(1, 3)
	areas.Row(0)[0] = true
	current := &sample.Sample{Areas: areas, Dirty: sample.NewDirtySet()}

	params := operators.Params{}
	rng := rand.New(rand.NewSource(7))

	res, err := operators.SwapArea{}.Propose(current, geo, nil, params, rng)
	require.NoError(t, err)
	require.False(t, res.Blocked)
	require.False(t, res.Proposed.Areas.Row(0)[0])
	require.True(t, res.Proposed.Areas.Row(0)[1])
	require.False(t, res.Proposed.Areas.Row(0)[2])
	require.Equal(t, 1.0, res.Q)
	require.Equal(t, res.Q, res.QBack)
}

func TestSwapArea_BlockedWithNoCandidates(t *testing.T) {
	// 2-site graph with no edge: the lone area member has no neighbour to
	// swap in.
	geo, err := geography.NewGraph(2, nil, nil)
	require.NoError(t, err)

	areas := sample.NewMatrix(1, 2)
	areas.Row(0)[0] = true
	current := &sample.Sample{Areas: areas, Dirty: sample.NewDirtySet()}

	rng := rand.New(rand.NewSource(1))
	res, err := operators.SwapArea{}.Propose(current, geo, nil, operators.Params{}, rng)
	require.NoError(t, err)
	require.True(t, res.Blocked)
}
