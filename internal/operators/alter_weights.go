package operators

import (
	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

// AlterWeights proposes a Dirichlet random-walk step on one feature's
// mixture-weight row. Unlike some published implementations, it marks only
// the proposed sample dirty, not the input sample — the oracle keys its
// cache on Sample.Generation, so there is nothing on the input sample that
// needs invalidating.
type AlterWeights struct{}

func (AlterWeights) Name() string { return "alter_weights" }

func (AlterWeights) Propose(current *sample.Sample, _ *geography.Graph, _ oracle.Oracle, params Params, rng *rand.Rand) (Result, error) {
	f := rng.Intn(current.Weights.Rows)
	row := current.Weights.Row(f)

	proposedRow, q, qBack := dirichletStep(row, params.TauWeights, rng)

	proposed := current.Copy()
	proposed.Weights.SetRow(f, proposedRow)
	proposed.MarkWeights(f)

	return Result{Proposed: proposed, Q: q, QBack: qBack}, nil
}
