// Package oracle declares the posterior-evaluation contract that operators
// and the chain driver depend on, plus CategoricalOracle, a small reference
// implementation. Any other numeric likelihood/prior model plugs in as its
// own Oracle.
package oracle

import "github.com/derpetermann/contact-zones/internal/sample"

// Oracle incrementally evaluates a Sample's log-likelihood and log-prior,
// using the Sample's DirtySet to avoid recomputing components a proposal
// left untouched. Implementations own their cache; a chain must use one
// Oracle instance exclusively, never sharing it across chains.
type Oracle interface {
	// UpdateComponentLikelihoods refreshes any cached per-site, per-feature
	// likelihood contributions affected by s.Dirty, then clears the fields
	// it consumed.
	UpdateComponentLikelihoods(s *sample.Sample) error

	// UpdateWeights refreshes the effective per-site mixture weighting used
	// to combine global/area/family likelihood components, consuming
	// FieldWeights and FieldAreas from s.Dirty.
	UpdateWeights(s *sample.Sample) error

	// LogLikelihood returns the total log-likelihood of s given the most
	// recent UpdateComponentLikelihoods/UpdateWeights calls.
	LogLikelihood(s *sample.Sample) (float64, error)

	// LogPrior returns the total log-prior of s.
	LogPrior(s *sample.Sample) (float64, error)

	// ClearDirty drops any remaining cached invalidation state for s,
	// called once a step is accepted or rejected and s will not be
	// evaluated again.
	ClearDirty(s *sample.Sample)

	// ComponentWeights returns the effective mixture weight of each source
	// component (global, area, family) at site i for feature f, after
	// UpdateWeights. Used by gibbs_sources to form the conditional
	// posterior over which component generated the observation.
	ComponentWeights(s *sample.Sample, site, feature int) ([]float64, error)

	// ComponentLikelihoods returns the observation likelihood of feature f
	// at site i under each source component, given the current
	// probability tables. Used by gibbs_sources together with
	// ComponentWeights.
	ComponentLikelihoods(s *sample.Sample, site, feature int) ([]float64, error)

	// ApplicableStates returns the mask of states feature f is modeled
	// over.
	ApplicableStates(feature int) []bool

	// SourceCounts returns, for feature f, the total number of sites
	// currently attributed to each source component — the sufficient
	// statistic gibbs_weights resamples the mixture-weight row from.
	SourceCounts(s *sample.Sample, feature int) ([]float64, error)

	// AttributedCounts returns, for feature f and source component comp,
	// the per-state observation counts attributed to that component across
	// every site currently assigned to it — the sufficient statistic for
	// the Dirichlet posterior draw in gibbs_p_global/p_area/p_family.
	AttributedCounts(s *sample.Sample, feature, comp, group int) ([]float64, error)
}
