package operators

import (
	"fmt"

	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

// GibbsSources resamples every site's source assignment for one randomly
// chosen feature from its exact conditional posterior: component weight
// times component likelihood, normalized. Always accepted (Q=0, QBack=1),
// but still refreshes the oracle's component caches first.
type GibbsSources struct{}

func (GibbsSources) Name() string { return "gibbs_sources" }

func (GibbsSources) Propose(current *sample.Sample, _ *geography.Graph, o oracle.Oracle, params Params, rng *rand.Rand) (Result, error) {
	if o == nil {
		return Result{}, fmt.Errorf("gibbs_sources: requires an oracle")
	}

	if err := o.UpdateComponentLikelihoods(current); err != nil {
		return Result{}, err
	}
	if err := o.UpdateWeights(current); err != nil {
		return Result{}, err
	}

	feature := rng.Intn(params.NFeatures)
	nSites := current.Sources.Rows
	nComponents := current.Sources.Cols / params.NFeatures

	proposed := current.Copy()

	for site := 0; site < nSites; site++ {
		weights, err := o.ComponentWeights(current, site, feature)
		if err != nil {
			return Result{}, err
		}
		likelihoods, err := o.ComponentLikelihoods(current, site, feature)
		if err != nil {
			return Result{}, err
		}

		posterior := make([]float64, len(weights))
		for c := range posterior {
			posterior[c] = weights[c] * likelihoods[c]
		}

		chosen := categoricalDraw(posterior, rng)

		base := feature * nComponents
		row := proposed.Sources.Row(site)
		for c := 0; c < nComponents; c++ {
			row[base+c] = c == chosen
		}
	}

	return Result{Proposed: proposed, Q: 0, QBack: 1}, nil
}
