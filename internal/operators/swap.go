package operators

import (
	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

// SwapArea proposes replacing one member of a randomly chosen area with an
// unoccupied neighbour of the area, preserving size and, by construction,
// connectivity as long as the removed site wasn't a cut vertex — callers
// reject the candidate set to only sites that keep the area connected.
// Symmetric in its own proposal density (q == q_back), since both
// directions draw uniformly among (removal, addition) pairs of the same
// count.
type SwapArea struct{}

func (SwapArea) Name() string { return "swap_area" }

func (SwapArea) Propose(current *sample.Sample, geo *geography.Graph, _ oracle.Oracle, params Params, rng *rand.Rand) (Result, error) {
	k := current.Areas.Rows
	if k == 0 {
		return Result{Blocked: true}, nil
	}
	area := rng.Intn(k)
	row := current.Areas.Row(area)

	members := maskToIndices(row)
	if len(members) == 0 {
		return Result{Blocked: true}, nil
	}

	occupied := occupiedMask(current.Areas)
	candidates := maskToIndices(geo.Neighbours(row, occupied))
	if len(candidates) == 0 {
		return Result{Blocked: true}, nil
	}

	removed := members[rng.Intn(len(members))]
	added := candidates[rng.Intn(len(candidates))]

	proposed := current.Copy()
	newRow := proposed.Areas.Row(area)
	newRow[removed] = false
	newRow[added] = true

	if !geo.Connected(newRow) {
		return Result{Blocked: true}, nil
	}
	proposed.MarkArea(area)

	q := 1.0 / float64(len(members)*len(candidates))
	return Result{Proposed: proposed, Q: q, QBack: q}, nil
}
