package operators

import (
	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

// AlterPArea proposes a Dirichlet random-walk step on one (area, feature)
// probability row. Rows are addressed area-major: row = area*NFeatures+feature.
type AlterPArea struct{}

func (AlterPArea) Name() string { return "alter_p_area" }

func (AlterPArea) Propose(current *sample.Sample, _ *geography.Graph, _ oracle.Oracle, params Params, rng *rand.Rand) (Result, error) {
	nAreas := current.Areas.Rows
	area := rng.Intn(nAreas)
	feature := rng.Intn(params.NFeatures)
	r := area*params.NFeatures + feature

	row := current.PArea.Row(r)
	proposedRow, q, qBack := dirichletStep(row, params.TauContact, rng)

	proposed := current.Copy()
	proposed.PArea.SetRow(r, proposedRow)
	proposed.MarkPArea(area)

	return Result{Proposed: proposed, Q: q, QBack: qBack}, nil
}
