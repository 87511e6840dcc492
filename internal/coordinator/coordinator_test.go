package coordinator

import (
	"testing"

	"github.com/derpetermann/contact-zones/internal/chain"
	"github.com/derpetermann/contact-zones/internal/invariants"
	"github.com/derpetermann/contact-zones/internal/operators"
	"github.com/derpetermann/contact-zones/internal/sample"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// stubOracle reports a fixed log-likelihood/log-prior; enough to drive
// chain.NewDriver without a real posterior model.
type stubOracle struct{ logL, logP float64 }

func (o *stubOracle) UpdateComponentLikelihoods(*sample.Sample) error { return nil }
func (o *stubOracle) UpdateWeights(*sample.Sample) error              { return nil }
func (o *stubOracle) LogLikelihood(*sample.Sample) (float64, error)   { return o.logL, nil }
func (o *stubOracle) LogPrior(*sample.Sample) (float64, error)        { return o.logP, nil }
func (o *stubOracle) ClearDirty(*sample.Sample)                       {}
func (o *stubOracle) ComponentWeights(*sample.Sample, int, int) ([]float64, error) {
	return nil, nil
}
func (o *stubOracle) ComponentLikelihoods(*sample.Sample, int, int) ([]float64, error) {
	return nil, nil
}
func (o *stubOracle) ApplicableStates(int) []bool { return nil }
func (o *stubOracle) SourceCounts(*sample.Sample, int) ([]float64, error) {
	return nil, nil
}
func (o *stubOracle) AttributedCounts(*sample.Sample, int, int, int) ([]float64, error) {
	return nil, nil
}

func newChainDriver(t *testing.T, idx int, logL, logP float64) (*chain.Driver, *sample.Sample) {
	t.Helper()
	initial := &sample.Sample{
		Areas:   sample.NewMatrix(1, 2),
		Weights: sample.NewFloatMatrix(1, 2),
		Dirty:   sample.NewDirtySet(),
	}
	table := operators.NewTable(map[operators.Operator]float64{operators.GrowArea{}: 1})
	d, err := chain.NewDriver(idx, initial, table, &stubOracle{logL: logL, logP: logP}, nil, invariants.Checker{}, nil, nil)
	require.NoError(t, err)
	return d, initial
}

// TestProposeSwaps_IdenticalChainsAlwaysAccept pins logAlpha to exactly 0
// (two chains with identical log-likelihood and log-prior), which
// proposeSwaps' acceptance rule treats as an automatic accept regardless of the
// RNG draw, and checks the two chains' current samples are exchanged.
func TestProposeSwaps_IdenticalChainsAlwaysAccept(t *testing.T) {
	d0, s0 := newChainDriver(t, 0, -42, -7)
	d1, s1 := newChainDriver(t, 1, -42, -7)

	co := &Coordinator{
		drivers: []*chain.Driver{d0, d1},
		betas:   []float64{1.0, 0.5},
		rng:     rand.New(rand.NewSource(123)),
	}

	co.proposeSwaps()

	require.Same(t, s1, d0.Current())
	require.Same(t, s0, d1.Current())
	require.Equal(t, -42.0, d0.LogLikelihood())
	require.Equal(t, -42.0, d1.LogLikelihood())
}

func TestState_String(t *testing.T) {
	require.Equal(t, "warmup", StateWarmup.String())
	require.Equal(t, "completed", StateCompleted.String())
	require.Equal(t, "unknown", State(99).String())
}
