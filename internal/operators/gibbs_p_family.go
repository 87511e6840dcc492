package operators

import (
	"fmt"

	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

const componentFamily = 2

// GibbsPFamily resamples every (family, feature) probability row from its
// Dirichlet(1 + counts) posterior. Blocked when the model carries no
// families.
type GibbsPFamily struct{}

func (GibbsPFamily) Name() string { return "gibbs_p_family" }

func (GibbsPFamily) Propose(current *sample.Sample, _ *geography.Graph, o oracle.Oracle, params Params, rng *rand.Rand) (Result, error) {
	if params.NFamilies == 0 {
		return Result{Blocked: true}, nil
	}
	if o == nil {
		return Result{}, fmt.Errorf("gibbs_p_family: requires an oracle")
	}

	proposed := current.Copy()

	for family := 0; family < params.NFamilies; family++ {
		for f := 0; f < params.NFeatures; f++ {
			counts, err := o.AttributedCounts(current, f, componentFamily, family)
			if err != nil {
				return Result{}, err
			}
			r := family*params.NFeatures + f
			proposed.PFamily.SetRow(r, dirichletPosteriorDraw(counts, rng))
		}
		proposed.MarkPFamily(family)
	}

	return Result{Proposed: proposed, Q: 0, QBack: 1}, nil
}
