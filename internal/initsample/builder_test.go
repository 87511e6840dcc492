package initsample_test

import (
	"testing"

	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/initsample"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func applicableStates(nFeatures, nStates int) [][]bool {
	out := make([][]bool, nFeatures)
	for f := range out {
		mask := make([]bool, nStates)
		for i := range mask {
			mask[i] = true
		}
		out[f] = mask
	}
	return out
}

func TestBuild_HappyPath(t *testing.T) {
	// Line graph 0-1-2-3-4: plenty of room for 2 disjoint size-2 areas.
	geo, err := geography.NewGraph(5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}}, nil)
	require.NoError(t, err)

	p := initsample.Params{
		NZones:           2,
		InitialSize:      2,
		NFeatures:        1,
		NComponents:      2,
		ApplicableStates: applicableStates(1, 2),
	}
	rng := rand.New(rand.NewSource(1))

	s, err := initsample.Build(geo, p, rng)
	require.NoError(t, err)
	require.Equal(t, 2, s.Areas.Rows)

	for a := 0; a < 2; a++ {
		size := 0
		for _, v := range s.Areas.Row(a) {
			if v {
				size++
			}
		}
		require.Equal(t, 2, size)
	}

	// No site is claimed by both areas.
	counts := make([]int, 5)
	for a := 0; a < 2; a++ {
		for i, v := range s.Areas.Row(a) {
			if v {
				counts[i]++
			}
		}
	}
	for _, c := range counts {
		require.LessOrEqual(t, c, 1)
	}
}

// TestBuild_FailsWhenGeographyCannotFitEveryZone uses a star graph (center
// 0, leaves 1-4): any size-2 area must contain the center, since leaves
// have no edges between themselves. Once the first area claims the
// center, every remaining leaf is isolated and no second size-2 area can
// ever be grown, regardless of which seeds the RNG picks.
func TestBuild_FailsWhenGeographyCannotFitEveryZone(t *testing.T) {
	geo, err := geography.NewGraph(5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}}, nil)
	require.NoError(t, err)

	p := initsample.Params{
		NZones:           3,
		InitialSize:      2,
		NFeatures:        1,
		NComponents:      2,
		ApplicableStates: applicableStates(1, 2),
	}
	rng := rand.New(rand.NewSource(1))

	_, err = initsample.Build(geo, p, rng)
	require.Error(t, err)
	require.IsType(t, initsample.ErrGrowthStuck{}, err)
}
