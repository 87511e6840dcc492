package operators

import (
	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

// GrowArea proposes adding one site to a randomly chosen area. With
// probability PGrowConnected the candidate is drawn from sites adjacent to
// the area (keeping it connected); otherwise it is drawn uniformly from
// every unoccupied site. Blocked if the area is already at MaxSize or no
// candidate exists.
type GrowArea struct{}

func (GrowArea) Name() string { return "grow_area" }

func (GrowArea) Propose(current *sample.Sample, geo *geography.Graph, _ oracle.Oracle, params Params, rng *rand.Rand) (Result, error) {
	k := current.Areas.Rows
	if k == 0 {
		return Result{Blocked: true}, nil
	}
	area := rng.Intn(k)
	row := current.Areas.Row(area)

	size := 0
	for _, v := range row {
		if v {
			size++
		}
	}
	if size >= params.MaxSize {
		return Result{Blocked: true}, nil
	}

	occupied := occupiedMask(current.Areas)
	connected := geo.Neighbours(row, occupied)

	candidates, _ := pickCandidatePool(connected, occupied, params.PGrowConnected, rng)
	if len(candidates) == 0 {
		return Result{Blocked: true}, nil
	}

	chosen := candidates[rng.Intn(len(candidates))]

	proposed := current.Copy()
	proposed.Areas.Row(area)[chosen] = true
	proposed.MarkArea(area)

	nConnected := countTrue(connected)
	nFree := countFalse(occupied)
	// chosen may be reachable by both modes (a free, connected neighbour),
	// so its true proposal probability is the sum over both, not whichever
	// mode happened to produce it this draw.
	q := mixtureDensity(connected[chosen], params.PGrowConnected, nConnected, nFree)

	// Backward move is shrink_area removing `chosen` from an area of size+1.
	qBack := 1.0 / float64(size+1)

	return Result{Proposed: proposed, Q: q, QBack: qBack}, nil
}

func occupiedMask(areas sample.Matrix) []bool {
	occ := make([]bool, areas.Cols)
	for r := 0; r < areas.Rows; r++ {
		row := areas.Row(r)
		for i, v := range row {
			if v {
				occ[i] = true
			}
		}
	}
	return occ
}

func countTrue(mask []bool) int {
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return n
}

func countFalse(mask []bool) int {
	return len(mask) - countTrue(mask)
}

// pickCandidatePool chooses whether to draw from the connected neighbour
// set or the full unoccupied set, per the PGrowConnected mixture, and
// returns the chosen pool as an index slice.
func pickCandidatePool(connected, occupied []bool, pConnected float64, rng *rand.Rand) ([]int, bool) {
	nConnected := countTrue(connected)
	useConnected := nConnected > 0 && rng.Float64() < pConnected

	if useConnected {
		return maskToIndices(connected), true
	}

	free := make([]bool, len(occupied))
	for i, occ := range occupied {
		free[i] = !occ
	}
	return maskToIndices(free), false
}

func maskToIndices(mask []bool) []int {
	out := make([]int, 0, countTrue(mask))
	for i, v := range mask {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// mixtureDensity is the marginal proposal density for a site under the
// connected/free mixture. A site reachable only from the free pool gets
// just the free term; a free, connected neighbour gets both terms summed,
// since either mode could have produced it.
func mixtureDensity(connected bool, pConnected float64, nConnected, nFree int) float64 {
	freeWeight := 1.0
	if nConnected > 0 {
		freeWeight = 1 - pConnected
	}
	var q float64
	if nFree > 0 {
		q = freeWeight / float64(nFree)
	}
	if connected && nConnected > 0 {
		q += pConnected / float64(nConnected)
	}
	return q
}
