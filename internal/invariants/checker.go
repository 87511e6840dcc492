// Package invariants checks a Sample against the structural properties the
// MCMC kernel must never violate, classifying any breach for the error
// handling table: disjointness, size bounds, simplex laws and one-hot
// sources. Source applicability and dirty-set conservativeness are not
// checked.
package invariants

import (
	"fmt"
	"math"

	"github.com/derpetermann/contact-zones/internal/sample"
)

// Kind names one of the error-handling table's classifications.
type Kind string

const (
	KindInvariantViolation Kind = "invariant_violation"
	KindOracleFailure      Kind = "oracle_failure"
	KindDegenerateDirichlet Kind = "degenerate_dirichlet"
)

// Violation is one failed check.
type Violation struct {
	Kind    Kind
	Message string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Kind, v.Message)
}

const simplexTolerance = 1e-6

// Checker holds the area-size bounds and source-layout parameters checks
// depend on.
type Checker struct {
	MinSize     int
	MaxSize     int
	NFeatures   int
	NComponents int // 2 or 3: global+area[+family]
}

// CheckAll runs every structural check and returns every violation found,
// nil if s is fully consistent.
func (c Checker) CheckAll(s *sample.Sample) []Violation {
	var out []Violation
	out = append(out, c.checkDisjoint(s)...)
	out = append(out, c.checkSizeBounds(s)...)
	out = append(out, checkSimplexRows(s.Weights, "weights")...)
	out = append(out, checkSimplexRows(s.PGlobal, "p_global")...)
	out = append(out, checkSimplexRows(s.PArea, "p_area")...)
	out = append(out, checkSimplexRows(s.PFamily, "p_family")...)
	out = append(out, c.checkSourcesOneHot(s)...)
	return out
}

// checkDisjoint verifies no site belongs to two areas at once (I1).
func (c Checker) checkDisjoint(s *sample.Sample) []Violation {
	if s.Areas.Rows == 0 {
		return nil
	}
	counts := make([]int, s.Areas.Cols)
	for r := 0; r < s.Areas.Rows; r++ {
		for i, v := range s.Areas.Row(r) {
			if v {
				counts[i]++
			}
		}
	}
	for i, n := range counts {
		if n > 1 {
			return []Violation{{Kind: KindInvariantViolation, Message: fmt.Sprintf("site %d belongs to %d areas, want at most 1", i, n)}}
		}
	}
	return nil
}

// checkSizeBounds verifies every area's size lies within [MinSize, MaxSize] (I2).
func (c Checker) checkSizeBounds(s *sample.Sample) []Violation {
	var out []Violation
	for r := 0; r < s.Areas.Rows; r++ {
		size := 0
		for _, v := range s.Areas.Row(r) {
			if v {
				size++
			}
		}
		if size < c.MinSize || size > c.MaxSize {
			out = append(out, Violation{
				Kind:    KindInvariantViolation,
				Message: fmt.Sprintf("area %d has size %d, want within [%d, %d]", r, size, c.MinSize, c.MaxSize),
			})
		}
	}
	return out
}

// checkSimplexRows verifies every row of m sums to 1 within tolerance and
// has no negative entry.
func checkSimplexRows(m sample.FloatMatrix, label string) []Violation {
	var out []Violation
	for r, row := range m.Data {
		sum := 0.0
		for _, v := range row {
			if v < 0 {
				out = append(out, Violation{
					Kind:    KindDegenerateDirichlet,
					Message: fmt.Sprintf("%s row %d has negative entry %v", label, r, v),
				})
			}
			sum += v
		}
		if len(row) > 0 && math.Abs(sum-1) > simplexTolerance {
			out = append(out, Violation{
				Kind:    KindInvariantViolation,
				Message: fmt.Sprintf("%s row %d sums to %v, want 1", label, r, sum),
			})
		}
	}
	return out
}

// checkSourcesOneHot verifies every (site, feature) source row has exactly
// one true entry among its NComponents slots (I: source one-hot).
func (c Checker) checkSourcesOneHot(s *sample.Sample) []Violation {
	if s.Sources.Rows == 0 || c.NFeatures == 0 || c.NComponents == 0 {
		return nil
	}
	var out []Violation
	for site := 0; site < s.Sources.Rows; site++ {
		row := s.Sources.Row(site)
		for f := 0; f < c.NFeatures; f++ {
			base := f * c.NComponents
			count := 0
			for comp := 0; comp < c.NComponents; comp++ {
				if row[base+comp] {
					count++
				}
			}
			if count != 1 {
				out = append(out, Violation{
					Kind:    KindInvariantViolation,
					Message: fmt.Sprintf("site %d feature %d has %d active source components, want exactly 1", site, f, count),
				})
			}
		}
	}
	return out
}
