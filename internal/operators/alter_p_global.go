package operators

import (
	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

// AlterPGlobal proposes a Dirichlet random-walk step on one feature's
// global probability row.
type AlterPGlobal struct{}

func (AlterPGlobal) Name() string { return "alter_p_global" }

func (AlterPGlobal) Propose(current *sample.Sample, _ *geography.Graph, _ oracle.Oracle, params Params, rng *rand.Rand) (Result, error) {
	f := rng.Intn(current.PGlobal.Rows)
	row := current.PGlobal.Row(f)

	proposedRow, q, qBack := dirichletStep(row, params.TauUniversal, rng)

	proposed := current.Copy()
	proposed.PGlobal.SetRow(f, proposedRow)
	proposed.MarkPGlobal()

	return Result{Proposed: proposed, Q: q, QBack: qBack}, nil
}
