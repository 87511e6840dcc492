// Package operators implements the eleven (twelve, with gibbs_weights)
// named MCMC moves over a Sample: the grow/shrink/swap area moves, the
// Dirichlet random-walk moves over weights and probability tables, and
// their Gibbs counterparts.
package operators

import (
	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

// Params bundles the configuration every operator needs to propose a move:
// area size bounds, proposal scale, and the growth-connectivity bias.
type Params struct {
	MinSize        int
	MaxSize        int
	PGrowConnected float64

	TauWeights     float64
	TauUniversal   float64
	TauContact     float64
	TauInheritance float64

	NFamilies int // 0 disables family-conditioned terms
	NFeatures int
}

// Result is the outcome of proposing a move: the proposed Sample plus the
// forward/backward proposal densities the chain driver needs for the M-H
// acceptance ratio. A Gibbs move returns Q=0, QBack=1, the convention that
// tells the driver to always accept while still refreshing oracle caches.
// A move that found no legal candidate returns Blocked=true.
type Result struct {
	Proposed *sample.Sample
	Q        float64
	QBack    float64
	Blocked  bool
}

// Operator proposes one MCMC move from current, given geography for
// connectivity-aware moves, the oracle for Gibbs moves that need attributed
// counts or component likelihoods, and rng for all randomness. Non-Gibbs
// operators ignore o.
type Operator interface {
	Name() string
	Propose(current *sample.Sample, geo *geography.Graph, o oracle.Oracle, params Params, rng *rand.Rand) (Result, error)
}
