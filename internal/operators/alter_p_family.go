package operators

import (
	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

// AlterPFamily proposes a Dirichlet random-walk step on one (family,
// feature) probability row. Blocked when the model carries no families
// (NFamilies == 0), which is the common case when inheritance is disabled.
type AlterPFamily struct{}

func (AlterPFamily) Name() string { return "alter_p_family" }

func (AlterPFamily) Propose(current *sample.Sample, _ *geography.Graph, _ oracle.Oracle, params Params, rng *rand.Rand) (Result, error) {
	if params.NFamilies == 0 {
		return Result{Blocked: true}, nil
	}

	family := rng.Intn(params.NFamilies)
	feature := rng.Intn(params.NFeatures)
	r := family*params.NFeatures + feature

	row := current.PFamily.Row(r)
	proposedRow, q, qBack := dirichletStep(row, params.TauInheritance, rng)

	proposed := current.Copy()
	proposed.PFamily.SetRow(r, proposedRow)
	proposed.MarkPFamily(family)

	return Result{Proposed: proposed, Q: q, QBack: qBack}, nil
}
