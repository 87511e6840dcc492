package operators

import (
	"fmt"

	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

const componentGlobal = 0

// GibbsPGlobal resamples every feature's global probability row from its
// Dirichlet(1 + counts) posterior, where counts are the per-state
// observation counts attributed to the global component. Always accepted.
type GibbsPGlobal struct{}

func (GibbsPGlobal) Name() string { return "gibbs_p_global" }

func (GibbsPGlobal) Propose(current *sample.Sample, _ *geography.Graph, o oracle.Oracle, params Params, rng *rand.Rand) (Result, error) {
	if o == nil {
		return Result{}, fmt.Errorf("gibbs_p_global: requires an oracle")
	}

	proposed := current.Copy()

	for f := 0; f < params.NFeatures; f++ {
		counts, err := o.AttributedCounts(current, f, componentGlobal, 0)
		if err != nil {
			return Result{}, err
		}
		proposed.PGlobal.SetRow(f, dirichletPosteriorDraw(counts, rng))
	}
	proposed.MarkPGlobal()

	return Result{Proposed: proposed, Q: 0, QBack: 1}, nil
}
