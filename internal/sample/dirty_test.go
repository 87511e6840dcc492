package sample_test

import (
	"testing"

	"github.com/derpetermann/contact-zones/internal/sample"
	"github.com/stretchr/testify/require"
)

func TestDirty_MarkAndAll(t *testing.T) {
	d := sample.NewDirty()
	require.True(t, d.Empty())
	require.False(t, d.IsAll())

	d.Mark(3)
	require.False(t, d.Empty())
	require.True(t, d.Has(3))
	require.False(t, d.Has(4))

	d.MarkAll()
	require.True(t, d.IsAll())
	require.True(t, d.Has(999)) // "all" subsumes every index
}

func TestDirty_Clone_IsIndependent(t *testing.T) {
	d := sample.NewDirty()
	d.Mark(1)

	clone := d.Clone()
	clone.Mark(2)

	require.True(t, d.Has(1))
	require.False(t, d.Has(2))
	require.True(t, clone.Has(1))
	require.True(t, clone.Has(2))
}

func TestDirtySet_PerFieldIndependence(t *testing.T) {
	ds := sample.NewDirtySet()
	ds.Mark(sample.FieldAreas, 0)

	require.True(t, ds.Get(sample.FieldAreas).Has(0))
	require.True(t, ds.Get(sample.FieldWeights).Empty())

	ds.MarkEverythingChanged()
	require.True(t, ds.Get(sample.FieldWeights).IsAll())
	require.True(t, ds.Get(sample.FieldPFamily).IsAll())

	ds.Clear(sample.FieldWeights)
	require.True(t, ds.Get(sample.FieldWeights).Empty())
	require.True(t, ds.Get(sample.FieldPFamily).IsAll())
}

func TestDirtySet_Clone_IsIndependent(t *testing.T) {
	ds := sample.NewDirtySet()
	ds.Mark(sample.FieldAreas, 5)

	clone := ds.Clone()
	clone.Mark(sample.FieldAreas, 6)

	require.False(t, ds.Get(sample.FieldAreas).Has(6))
	require.True(t, clone.Get(sample.FieldAreas).Has(6))
}
