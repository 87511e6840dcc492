package operators

import (
	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

// ShrinkArea proposes removing one site from a randomly chosen area.
// Blocked if the area is already at MinSize.
//
// The backward move's density (q_back, the density grow_area would have
// assigned to adding this site back) keeps the full connected/free mixture
// form rather than collapsing to 1/(size+1): that mixture form is what
// makes this operator a valid Metropolis-Hastings partner to grow_area,
// and the warmup-only shortcut some implementations apply here is a
// known source of a biased acceptance ratio, not a deliberate design choice.
type ShrinkArea struct{}

func (ShrinkArea) Name() string { return "shrink_area" }

func (ShrinkArea) Propose(current *sample.Sample, geo *geography.Graph, _ oracle.Oracle, params Params, rng *rand.Rand) (Result, error) {
	k := current.Areas.Rows
	if k == 0 {
		return Result{Blocked: true}, nil
	}
	area := rng.Intn(k)
	row := current.Areas.Row(area)

	members := maskToIndices(row)
	if len(members) <= params.MinSize {
		return Result{Blocked: true}, nil
	}

	removed := members[rng.Intn(len(members))]

	proposed := current.Copy()
	proposed.Areas.Row(area)[removed] = false
	proposed.MarkArea(area)

	// Forward density: uniform pick among the current size's removal
	// candidates.
	q := 1.0 / float64(len(members))

	// Backward density: grow_area re-adding `removed`, evaluated against
	// the shrunk area's own connected-neighbour mixture.
	occupiedAfter := occupiedMask(proposed.Areas)
	connectedAfter := geo.Neighbours(proposed.Areas.Row(area), occupiedAfter)
	nConnected := countTrue(connectedAfter)
	nFree := countFalse(occupiedAfter)

	qBack := mixtureDensity(connectedAfter[removed], params.PGrowConnected, nConnected, nFree)

	return Result{Proposed: proposed, Q: q, QBack: qBack}, nil
}
