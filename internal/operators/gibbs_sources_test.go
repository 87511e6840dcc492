package operators_test

import (
	"testing"

	"github.com/derpetermann/contact-zones/internal/operators"
	"github.com/derpetermann/contact-zones/internal/sample"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// fakeOracle supplies fixed ComponentWeights/ComponentLikelihoods so
// gibbs_sources' conditional posterior is pinned regardless of the RNG
// draw. The remaining Oracle methods are no-ops; this test never reads
// log-likelihood or log-prior.
type fakeOracle struct {
	weights     []float64
	likelihoods []float64
}

func (f fakeOracle) UpdateComponentLikelihoods(*sample.Sample) error { return nil }
func (f fakeOracle) UpdateWeights(*sample.Sample) error              { return nil }
func (f fakeOracle) LogLikelihood(*sample.Sample) (float64, error)   { return 0, nil }
func (f fakeOracle) LogPrior(*sample.Sample) (float64, error)        { return 0, nil }
func (f fakeOracle) ClearDirty(*sample.Sample)                       {}
func (f fakeOracle) ComponentWeights(*sample.Sample, int, int) ([]float64, error) {
	return f.weights, nil
}
func (f fakeOracle) ComponentLikelihoods(*sample.Sample, int, int) ([]float64, error) {
	return f.likelihoods, nil
}
func (f fakeOracle) ApplicableStates(int) []bool { return nil }
func (f fakeOracle) SourceCounts(*sample.Sample, int) ([]float64, error) {
	return nil, nil
}
func (f fakeOracle) AttributedCounts(*sample.Sample, int, int, int) ([]float64, error) {
	return nil, nil
}

// TestGibbsSources_OnlyGlobalComponentHasWeight pins the conditional
// posterior to a single component (weight 0 on the area component, as a
// site with Z=0 for this feature would have) so the resampled source is
// forced to component 0 regardless of the RNG draw, and checks the
// one-hot encoding lands there for every site.
func TestGibbsSources_OnlyGlobalComponentHasWeight(t *testing.T) {
	nSites, nComponents := 3, 2
	sources := sample.NewMatrix(nSites, nComponents) // 1 feature
	current := &sample.Sample{Sources: sources, Dirty: sample.NewDirtySet()}

	o := fakeOracle{weights: []float64{1, 0}, likelihoods: []float64{1, 1}}
	params := operators.Params{NFeatures: 1}
	rng := rand.New(rand.NewSource(42))

	res, err := operators.GibbsSources{}.Propose(current, nil, o, params, rng)
	require.NoError(t, err)
	require.Equal(t, 0.0, res.Q)
	require.Equal(t, 1.0, res.QBack)

	for site := 0; site < nSites; site++ {
		row := res.Proposed.Sources.Row(site)
		require.True(t, row[0])
		require.False(t, row[1])
	}
}

func TestGibbsSources_RequiresOracle(t *testing.T) {
	current := &sample.Sample{Sources: sample.NewMatrix(1, 2), Dirty: sample.NewDirtySet()}
	params := operators.Params{NFeatures: 1}
	rng := rand.New(rand.NewSource(1))

	_, err := operators.GibbsSources{}.Propose(current, nil, nil, params, rng)
	require.Error(t, err)
}
