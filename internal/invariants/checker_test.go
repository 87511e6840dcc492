package invariants_test

import (
	"testing"

	"github.com/derpetermann/contact-zones/internal/invariants"
	"github.com/derpetermann/contact-zones/internal/sample"
	"github.com/stretchr/testify/require"
)

func validSample() *sample.Sample {
	areas := sample.NewMatrix(1, 3)
	areas.Row(0)[0] = true
	areas.Row(0)[1] = true

	weights := sample.NewFloatMatrix(1, 2)
	weights.SetRow(0, []float64{0.5, 0.5})

	sources := sample.NewMatrix(3, 2) // 1 feature * 2 components per site
	for site := 0; site < 3; site++ {
		sources.Row(site)[0] = true
	}

	return &sample.Sample{
		Areas:   areas,
		Weights: weights,
		PGlobal: weights,
		PArea:   weights,
		PFamily: sample.FloatMatrix{},
		Sources: sources,
	}
}

func TestChecker_AcceptsValidSample(t *testing.T) {
	c := invariants.Checker{MinSize: 1, MaxSize: 3, NFeatures: 1, NComponents: 2}
	require.Empty(t, c.CheckAll(validSample()))
}

func TestChecker_DetectsOverlap(t *testing.T) {
	s := validSample()
	s.Areas = sample.NewMatrix(2, 3)
	s.Areas.Row(0)[0] = true
	s.Areas.Row(1)[0] = true // site 0 in both areas

	c := invariants.Checker{MinSize: 0, MaxSize: 3, NFeatures: 1, NComponents: 2}
	violations := c.CheckAll(s)
	require.NotEmpty(t, violations)
	require.Equal(t, invariants.KindInvariantViolation, violations[0].Kind)
}

func TestChecker_DetectsSizeBoundViolation(t *testing.T) {
	s := validSample()
	c := invariants.Checker{MinSize: 3, MaxSize: 5, NFeatures: 1, NComponents: 2} // area has size 2 < MinSize
	violations := c.CheckAll(s)
	require.NotEmpty(t, violations)
}

func TestChecker_DetectsBadSimplex(t *testing.T) {
	s := validSample()
	s.Weights.SetRow(0, []float64{0.9, 0.9}) // sums to 1.8

	c := invariants.Checker{MinSize: 1, MaxSize: 3, NFeatures: 1, NComponents: 2}
	violations := c.CheckAll(s)
	require.NotEmpty(t, violations)
}

func TestChecker_DetectsNonOneHotSources(t *testing.T) {
	s := validSample()
	s.Sources.Row(0)[1] = true // site 0 now has two active components for feature 0

	c := invariants.Checker{MinSize: 1, MaxSize: 3, NFeatures: 1, NComponents: 2}
	violations := c.CheckAll(s)
	require.NotEmpty(t, violations)
}
