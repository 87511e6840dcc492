package sample_test

import (
	"testing"

	"github.com/derpetermann/contact-zones/internal/sample"
	"github.com/stretchr/testify/require"
)

func newTestSample() *sample.Sample {
	areas := sample.NewMatrix(1, 3)
	areas.Row(0)[1] = true

	weights := sample.NewFloatMatrix(1, 2)
	weights.SetRow(0, []float64{0.5, 0.5})

	return &sample.Sample{
		Areas:   areas,
		Weights: weights,
		PGlobal: sample.NewFloatMatrix(1, 2),
		Sources: sample.NewMatrix(3, 2),
		Dirty:   sample.NewDirtySet(),
	}
}

func TestSample_Copy_SharesRowsUntilMutated(t *testing.T) {
	s := newTestSample()
	s.MarkEverythingChanged()
	gen := s.Generation

	cp := s.Copy()
	require.Equal(t, gen, cp.Generation)

	// Mutating the copy's weight row via SetRow must not affect the original.
	cp.Weights.SetRow(0, []float64{0.1, 0.9})
	require.Equal(t, []float64{0.5, 0.5}, s.Weights.Row(0))
	require.Equal(t, []float64{0.1, 0.9}, cp.Weights.Row(0))

	// Areas are deep-cloned, not shared.
	cp.Areas.Row(0)[2] = true
	require.False(t, s.Areas.Row(0)[2])
}

func TestSample_MarkMutators_BumpGeneration(t *testing.T) {
	s := newTestSample()
	before := s.Generation

	s.MarkArea(0)
	require.Greater(t, s.Generation, before)
	require.True(t, s.Dirty.Get(sample.FieldAreas).Has(0))

	gen2 := s.Generation
	s.MarkWeights(0)
	require.Greater(t, s.Generation, gen2)
	require.True(t, s.Dirty.Get(sample.FieldWeights).Has(0))
}

func TestFloatMatrix_ShallowCloneSharesUntilSetRow(t *testing.T) {
	m := sample.NewFloatMatrix(2, 2)
	m.SetRow(0, []float64{1, 2})

	clone := m.ShallowClone()
	require.Equal(t, m.Row(0), clone.Row(0))

	clone.SetRow(0, []float64{9, 9})
	require.Equal(t, []float64{1, 2}, m.Row(0))
	require.Equal(t, []float64{9, 9}, clone.Row(0))
}
