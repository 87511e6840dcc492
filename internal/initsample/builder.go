// Package initsample constructs the starting Sample for a chain: areas
// grown under connectivity from random seeds, uniform-simplex weights,
// probability tables uniform over each feature's applicable states, and
// every source assigned to the global component.
package initsample

import (
	"fmt"

	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

const maxGrowAttempts = 1000

// ErrGrowthStuck is returned when no area of the requested size could be
// grown after maxGrowAttempts tries — the input geography doesn't have
// enough contiguous free space for NZones areas of InitialSize.
type ErrGrowthStuck struct {
	Area int
	Size int
}

func (e ErrGrowthStuck) Error() string {
	return fmt.Sprintf("initsample: could not grow area %d to size %d after %d attempts", e.Area, e.Size, maxGrowAttempts)
}

// Params configures initial-state construction.
type Params struct {
	NZones      int
	InitialSize int
	NFeatures   int
	NStates     int // max over features; rows are trimmed to ApplicableStates
	NFamilies   int
	NComponents int // 2 (global+area) or 3 (+family)

	ApplicableStates [][]bool // per feature
}

// Build constructs a fresh initial Sample: NZones areas grown to
// InitialSize, uniform mixture weights, probability tables uniform over
// each feature's applicable states, and every (site, feature) source set
// to the global component. No observations are counted and no
// gibbs_sources pass is run here.
func Build(geo *geography.Graph, p Params, rng *rand.Rand) (*sample.Sample, error) {
	n := geo.NSites()

	areas := sample.NewMatrix(p.NZones, n)
	occupied := make([]bool, n)

	for a := 0; a < p.NZones; a++ {
		if err := growAreaOfSize(geo, areas.Row(a), occupied, p.InitialSize, rng); err != nil {
			if stuck, ok := err.(ErrGrowthStuck); ok {
				stuck.Area = a
				return nil, stuck
			}
			return nil, err
		}
		for i, v := range areas.Row(a) {
			if v {
				occupied[i] = true
			}
		}
	}

	families := sample.NewMatrix(p.NFamilies, n)

	weights := sample.NewFloatMatrix(p.NFeatures, p.NComponents)
	for f := 0; f < p.NFeatures; f++ {
		row := make([]float64, p.NComponents)
		for i := range row {
			row[i] = 1.0 / float64(p.NComponents)
		}
		weights.SetRow(f, row)
	}

	pGlobal := initProbabilityTable(p.NFeatures, p.ApplicableStates)
	pArea := initProbabilityTable(p.NZones*p.NFeatures, repeatMask(p.ApplicableStates, p.NZones))
	pFamily := initProbabilityTable(p.NFamilies*p.NFeatures, repeatMask(p.ApplicableStates, p.NFamilies))

	sources := sample.NewMatrix(n, p.NFeatures*p.NComponents)
	for site := 0; site < n; site++ {
		row := sources.Row(site)
		for f := 0; f < p.NFeatures; f++ {
			row[f*p.NComponents] = true // default every site to the global component
		}
	}

	s := &sample.Sample{
		Areas:    areas,
		Families: families,
		Weights:  weights,
		PGlobal:  pGlobal,
		PArea:    pArea,
		PFamily:  pFamily,
		Sources:  sources,
		Dirty:    sample.NewDirtySet(),
	}
	s.MarkEverythingChanged()
	return s, nil
}

// growAreaOfSize seeds a random unoccupied site and grows it to size via
// uniform-random connected neighbour picks, retrying from a new seed up to
// maxGrowAttempts times if growth stalls (no free neighbours left).
func growAreaOfSize(geo *geography.Graph, row []bool, globalOccupied []bool, size int, rng *rand.Rand) error {
	n := len(row)

	for attempt := 0; attempt < maxGrowAttempts; attempt++ {
		for i := range row {
			row[i] = false
		}

		free := make([]int, 0, n)
		for i, occ := range globalOccupied {
			if !occ {
				free = append(free, i)
			}
		}
		if len(free) == 0 {
			break
		}
		seed := free[rng.Intn(len(free))]
		row[seed] = true

		ok := true
		for grown := 1; grown < size; grown++ {
			candidates := geo.Neighbours(row, globalOccupied)
			idx := maskIndices(candidates)
			if len(idx) == 0 {
				ok = false
				break
			}
			row[idx[rng.Intn(len(idx))]] = true
		}
		if ok {
			return nil
		}
	}
	return ErrGrowthStuck{Size: size}
}

func maskIndices(mask []bool) []int {
	out := make([]int, 0)
	for i, v := range mask {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// initProbabilityTable builds rows uniform over each row's applicable
// states; observations are not counted.
func initProbabilityTable(nRows int, applicable [][]bool) sample.FloatMatrix {
	m := sample.FloatMatrix{Rows: nRows, Data: make([][]float64, nRows)}
	for r := 0; r < nRows; r++ {
		var mask []bool
		if r < len(applicable) {
			mask = applicable[r]
		}
		nStates := countApplicable(mask)
		if nStates == 0 {
			nStates = 1
		}
		row := make([]float64, nStates)
		for i := range row {
			row[i] = 1.0 / float64(nStates)
		}
		m.Data[r] = row
	}
	return m
}

func countApplicable(mask []bool) int {
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return n
}

// repeatMask tiles the per-feature applicable-states mask once per group
// (area or family), matching the area-major/family-major row addressing
// PArea/PFamily use.
func repeatMask(mask [][]bool, groups int) [][]bool {
	out := make([][]bool, 0, groups*len(mask))
	for g := 0; g < groups; g++ {
		out = append(out, mask...)
	}
	return out
}
