package operators

import (
	"fmt"

	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

// GibbsWeights resamples every feature's mixture-weight row from
// Dirichlet(1 + sum_i U[i,f,:]). This is the move the original
// implementation left as an unimplemented TODO; the remaining ambiguity —
// what to do with sites where no area/family applies — is resolved by
// SourceCounts simply not counting a site against a component it wasn't
// assigned to, consistent with the masking update_weights already applies.
// Registered with selection weight 0 by default.
type GibbsWeights struct{}

func (GibbsWeights) Name() string { return "gibbs_weights" }

func (GibbsWeights) Propose(current *sample.Sample, _ *geography.Graph, o oracle.Oracle, params Params, rng *rand.Rand) (Result, error) {
	if o == nil {
		return Result{}, fmt.Errorf("gibbs_weights: requires an oracle")
	}

	proposed := current.Copy()

	for f := 0; f < params.NFeatures; f++ {
		counts, err := o.SourceCounts(current, f)
		if err != nil {
			return Result{}, err
		}
		proposed.Weights.SetRow(f, dirichletPosteriorDraw(counts, rng))
		proposed.MarkWeights(f)
	}

	return Result{Proposed: proposed, Q: 0, QBack: 1}, nil
}
