package reporting

import "time"

// StepRecord is one emitted sample, written once per accepted step per
// chain. Fields mirror the state carried by a Sample: area membership,
// weights and the per-component probability tables. The chain driver
// leaves Sources and Timestamp unset.
type StepRecord struct {
	Chain         int         `json:"chain"`
	Step          int         `json:"step"`
	Operator      string      `json:"operator"`
	LogLikelihood float64     `json:"log_likelihood"`
	LogPrior      float64     `json:"log_prior"`
	Areas         [][]bool    `json:"areas,omitempty"`
	Weights       [][]float64 `json:"weights"`
	PGlobal       [][]float64 `json:"p_global"`
	PArea         [][]float64 `json:"p_area,omitempty"`
	PFamily       [][]float64 `json:"p_family,omitempty"`
	Sources       [][][]bool  `json:"sources,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
}

// RunSummary describes one completed or aborted sampling run, the unit
// that ListRuns returns. ListRuns fills only RunID, StartTime and Path.
type RunSummary struct {
	RunID     string    `json:"run_id"`
	StartTime time.Time `json:"start_time"`
	NChains   int       `json:"n_chains"`
	NSteps    int       `json:"n_steps"`
	Aborted   bool      `json:"aborted"`
	Reason    string    `json:"reason,omitempty"`
	Path      string    `json:"path"`
}
