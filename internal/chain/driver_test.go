package chain_test

import (
	"testing"

	"github.com/derpetermann/contact-zones/internal/chain"
	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/invariants"
	"github.com/derpetermann/contact-zones/internal/operators"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// stubOracle reports a fixed log-likelihood/log-prior and otherwise does
// nothing; enough for the driver's bookkeeping without a real model.
type stubOracle struct {
	logL, logP float64
}

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

func newInitial() *sample.Sample {
	return &sample.Sample{
		Areas:   sample.NewMatrix(1, 2),
		Weights: sample.NewFloatMatrix(1, 2),
		Dirty:   sample.NewDirtySet(),
	}
}

func TestDriver_GibbsConventionAlwaysAccepts(t *testing.T) {
	initial := newInitial()
	proposed := initial.Copy()
	proposed.Areas.Row(0)[1] = true

	op := gibbsStub{proposed: proposed}
	table := operators.NewTable(map[operators.Operator]float64{op: 1})

	o := &stubOracle{logL: -10, logP: -5}
	d, err := chain.NewDriver(0, initial, table, o, nil, invariants.Checker{}, nil, nil)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	outcome, err := d.Step(0, chain.Params{Beta: 1}, operators.Params{}, rng)
	require.NoError(t, err)
	require.True(t, outcome.Accepted)
	require.Same(t, proposed, d.Current())
}

func TestDriver_ZeroQBackRejectsImmediately(t *testing.T) {
	initial := newInitial()
	proposed := initial.Copy()
	proposed.Areas.Row(0)[1] = true

	op := blockedBackStub{proposed: proposed}
	table := operators.NewTable(map[operators.Operator]float64{op: 1})

	o := &stubOracle{logL: -10, logP: -5}
	d, err := chain.NewDriver(0, initial, table, o, nil, invariants.Checker{}, nil, nil)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	outcome, err := d.Step(0, chain.Params{Beta: 1}, operators.Params{}, rng)
	require.NoError(t, err)
	require.False(t, outcome.Accepted)
	require.Same(t, initial, d.Current())
}

// gibbsStub mimics a Gibbs move: Q=0, QBack=1, always accepted.
type gibbsStub struct{ proposed *sample.Sample }

func (gibbsStub) Name() string { return "fixed_move" }
func (g gibbsStub) Propose(current *sample.Sample, geo *geography.Graph, o oracle.Oracle, params operators.Params, rng *rand.Rand) (operators.Result, error) {
	return operators.Result{Proposed: g.proposed, Q: 0, QBack: 1}, nil
}

// blockedBackStub proposes a move whose reverse is structurally
// impossible (QBack=0), which the driver must reject without evaluating
// the oracle on the proposed sample.
type blockedBackStub struct{ proposed *sample.Sample }

func (blockedBackStub) Name() string { return "fixed_move" }
func (b blockedBackStub) Propose(current *sample.Sample, geo *geography.Graph, o oracle.Oracle, params operators.Params, rng *rand.Rand) (operators.Result, error) {
	return operators.Result{Proposed: b.proposed, Q: 1, QBack: 0}, nil
}
