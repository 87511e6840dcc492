package oracle

import (
	"fmt"
	"math"

	"github.com/derpetermann/contact-zones/internal/loader"
	"github.com/derpetermann/contact-zones/internal/sample"
)

// CategoricalOracle is the reference Oracle: a plain categorical mixture
// likelihood, Σ_c W[f,c]·P_comp(f)[x], with a constant (uninformative)
// prior. It recomputes the full per-site, per-feature component
// likelihood on every UpdateComponentLikelihoods call rather than
// exploiting the sample's dirty-set — callers who need incremental
// re-evaluation at scale should supply their own Oracle; this one favors
// being a small, obviously-correct default over being fast.
//
// Component index convention: 0 = global, 1 = area (the area containing
// the site, if any), 2 = family (the family containing the site, if
// NFamilies > 0).
type CategoricalOracle struct {
	data        *loader.Data
	nComponents int
	nFeatures   int

	generation     int
	weights        [][]float64
	compLikelihood [][][]float64 // [site][feature][component]
}

// NewCategoricalOracle builds an oracle over data with nComponents mixture
// components (2 without family inheritance, 3 with).
func NewCategoricalOracle(data *loader.Data, nComponents int) *CategoricalOracle {
	return &CategoricalOracle{
		data:        data,
		nComponents: nComponents,
		nFeatures:   len(data.FeatureNames),
	}
}

// ApplicableStates returns which states of feature f are modeled.
func (o *CategoricalOracle) ApplicableStates(feature int) []bool {
	return o.data.ApplicableStates[feature]
}

// UpdateWeights copies the sample's current mixture weights into the
// oracle's cache.
func (o *CategoricalOracle) UpdateWeights(s *sample.Sample) error {
	o.weights = make([][]float64, o.nFeatures)
	for f := 0; f < o.nFeatures; f++ {
		row := s.Weights.Row(f)
		cp := make([]float64, len(row))
		copy(cp, row)
		o.weights[f] = cp
	}
	return nil
}

// UpdateComponentLikelihoods recomputes L[site][feature][component] from
// the sample's current probability tables and area/family membership.
func (o *CategoricalOracle) UpdateComponentLikelihoods(s *sample.Sample) error {
	n := len(o.data.SiteNames)
	o.compLikelihood = make([][][]float64, n)

	areaOf := make([]int, n)
	familyOf := make([]int, n)
	for site := 0; site < n; site++ {
		areaOf[site] = firstRowContaining(s.Areas, site)
		familyOf[site] = firstRowContaining(s.Families, site)
	}

	for site := 0; site < n; site++ {
		o.compLikelihood[site] = make([][]float64, o.nFeatures)
		for f := 0; f < o.nFeatures; f++ {
			likes := make([]float64, o.nComponents)
			mask := o.data.ApplicableStates[f]
			globalIdx := oneHotIndex(o.data.Features[site][f])

			if globalIdx < 0 {
				// Missing observation: contribute uniformly so the mixture
				// product is neutral and a Gibbs draw falls back to W alone.
				for c := range likes {
					likes[c] = 1
				}
				o.compLikelihood[site][f] = likes
				continue
			}

			ci := compactIndex(mask, globalIdx)
			if ci >= 0 {
				likes[0] = s.PGlobal.Row(f)[ci]
			}
			if o.nComponents > 1 && areaOf[site] >= 0 && ci >= 0 {
				likes[1] = s.PArea.Row(areaOf[site]*o.nFeatures+f)[ci]
			}
			if o.nComponents > 2 && familyOf[site] >= 0 && ci >= 0 {
				likes[2] = s.PFamily.Row(familyOf[site]*o.nFeatures+f)[ci]
			}
			o.compLikelihood[site][f] = likes
		}
	}

	o.generation = s.Generation
	return nil
}

// LogLikelihood sums log(Σ_c W[f,c]·L[site,f,c]) over every observed cell.
func (o *CategoricalOracle) LogLikelihood(s *sample.Sample) (float64, error) {
	if err := o.checkFresh(s); err != nil {
		return 0, err
	}
	total := 0.0
	n := len(o.data.SiteNames)
	for site := 0; site < n; site++ {
		for f := 0; f < o.nFeatures; f++ {
			if oneHotIndex(o.data.Features[site][f]) < 0 {
				continue
			}
			likes := o.compLikelihood[site][f]
			w := o.weights[f]
			mix := 0.0
			for c := 0; c < o.nComponents; c++ {
				mix += w[c] * likes[c]
			}
			if mix <= 0 {
				return math.Inf(-1), nil
			}
			total += math.Log(mix)
		}
	}
	return total, nil
}

// LogPrior returns a constant (uninformative) prior. A caller wanting an
// informative prior over area size, weights, or probability tables should
// supply its own Oracle.
func (o *CategoricalOracle) LogPrior(s *sample.Sample) (float64, error) {
	return 0, nil
}

// ClearDirty discards s's dirty-set after its likelihood/prior have been
// folded into whatever cache a more elaborate Oracle keeps; this reference
// oracle keeps none, so this only resets s itself.
func (o *CategoricalOracle) ClearDirty(s *sample.Sample) {
	s.Dirty.ClearAll()
}

// ComponentWeights returns feature f's cached mixture weights.
func (o *CategoricalOracle) ComponentWeights(s *sample.Sample, site, feature int) ([]float64, error) {
	if err := o.checkFresh(s); err != nil {
		return nil, err
	}
	return o.weights[feature], nil
}

// ComponentLikelihoods returns the cached per-component likelihood at
// (site, feature).
func (o *CategoricalOracle) ComponentLikelihoods(s *sample.Sample, site, feature int) ([]float64, error) {
	if err := o.checkFresh(s); err != nil {
		return nil, err
	}
	return o.compLikelihood[site][feature], nil
}

// SourceCounts returns, for feature f, the number of sites currently
// attributed to each component.
func (o *CategoricalOracle) SourceCounts(s *sample.Sample, feature int) ([]float64, error) {
	counts := make([]float64, o.nComponents)
	for site := 0; site < s.Sources.Rows; site++ {
		row := s.Sources.Row(site)
		for c := 0; c < o.nComponents; c++ {
			if row[feature*o.nComponents+c] {
				counts[c]++
			}
		}
	}
	return counts, nil
}

// AttributedCounts returns, for feature f and component comp restricted to
// group (an area or family index; ignored for the global component), the
// observation counts over the feature's applicable states.
func (o *CategoricalOracle) AttributedCounts(s *sample.Sample, feature, comp, group int) ([]float64, error) {
	mask := o.data.ApplicableStates[feature]
	counts := make([]float64, countApplicable(mask))

	for site := 0; site < s.Sources.Rows; site++ {
		if !s.Sources.Row(site)[feature*o.nComponents+comp] {
			continue
		}
		switch comp {
		case 1:
			if group >= s.Areas.Rows || !s.Areas.Row(group)[site] {
				continue
			}
		case 2:
			if group >= s.Families.Rows || !s.Families.Row(group)[site] {
				continue
			}
		}

		globalIdx := oneHotIndex(o.data.Features[site][feature])
		if globalIdx < 0 {
			continue
		}
		ci := compactIndex(mask, globalIdx)
		if ci < 0 {
			continue
		}
		counts[ci]++
	}
	return counts, nil
}

func (o *CategoricalOracle) checkFresh(s *sample.Sample) error {
	if o.weights == nil || o.compLikelihood == nil {
		return fmt.Errorf("categorical oracle: no cache, call UpdateWeights/UpdateComponentLikelihoods first")
	}
	if s.Generation != o.generation {
		return fmt.Errorf("categorical oracle: stale cache (have generation %d, sample is %d)", o.generation, s.Generation)
	}
	return nil
}

func firstRowContaining(m sample.Matrix, site int) int {
	for r := 0; r < m.Rows; r++ {
		if m.Row(r)[site] {
			return r
		}
	}
	return -1
}

func oneHotIndex(row []bool) int {
	for i, v := range row {
		if v {
			return i
		}
	}
	return -1
}

// compactIndex maps a global state index into its position within mask's
// applicable-only compacted row, or -1 if that state isn't applicable.
func compactIndex(mask []bool, globalIdx int) int {
	if globalIdx < 0 || globalIdx >= len(mask) || !mask[globalIdx] {
		return -1
	}
	idx := 0
	for i := 0; i < globalIdx; i++ {
		if mask[i] {
			idx++
		}
	}
	return idx
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
