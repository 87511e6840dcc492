package operators

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
)

// Table maps each operator name to a concrete Operator and a selection
// weight. Names is kept sorted so Sample's cumulative draw is
// deterministic for a given rng stream, regardless of map iteration order.
type Table struct {
	weights   map[string]float64
	operators map[string]Operator
	names     []string
}

// NewTable builds a Table from operators paired with selection weights. A
// weight of 0 keeps the operator registered but never selected — the way
// gibbs_weights ships disabled by default.
func NewTable(entries map[Operator]float64) *Table {
	t := &Table{
		weights:   make(map[string]float64, len(entries)),
		operators: make(map[string]Operator, len(entries)),
	}
	for op, w := range entries {
		name := op.Name()
		t.weights[name] = w
		t.operators[name] = op
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)
	return t
}

// Sample picks one operator name by cumulative weight, the same
// subtract-until-negative draw used for picking among weighted discrete
// alternatives elsewhere in this codebase. Operators with weight 0 are
// present in the table but can never be drawn.
func (t *Table) Sample(rng *rand.Rand) (string, error) {
	total := 0.0
	for _, name := range t.names {
		total += t.weights[name]
	}
	if total <= 0 {
		return "", fmt.Errorf("operators: table has no positive weight to sample from")
	}

	r := rng.Float64() * total
	for _, name := range t.names {
		w := t.weights[name]
		if r < w {
			return name, nil
		}
		r -= w
	}
	return t.names[len(t.names)-1], nil
}

// Get returns the Operator registered under name.
func (t *Table) Get(name string) (Operator, bool) {
	op, ok := t.operators[name]
	return op, ok
}

// Names returns every registered operator name, sorted.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
