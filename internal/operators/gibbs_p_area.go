package operators

import (
	"fmt"

	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

const componentArea = 1

// GibbsPArea resamples every (area, feature) probability row from its
// Dirichlet(1 + counts) posterior, counts being the per-state observation
// counts attributed to that area's component. Always accepted.
type GibbsPArea struct{}

func (GibbsPArea) Name() string { return "gibbs_p_area" }

func (GibbsPArea) Propose(current *sample.Sample, _ *geography.Graph, o oracle.Oracle, params Params, rng *rand.Rand) (Result, error) {
	if o == nil {
		return Result{}, fmt.Errorf("gibbs_p_area: requires an oracle")
	}

	proposed := current.Copy()
	nAreas := current.Areas.Rows

	for area := 0; area < nAreas; area++ {
		for f := 0; f < params.NFeatures; f++ {
			counts, err := o.AttributedCounts(current, f, componentArea, area)
			if err != nil {
				return Result{}, err
			}
			r := area*params.NFeatures + f
			proposed.PArea.SetRow(r, dirichletPosteriorDraw(counts, rng))
		}
		proposed.MarkPArea(area)
	}

	return Result{Proposed: proposed, Q: 0, QBack: 1}, nil
}
