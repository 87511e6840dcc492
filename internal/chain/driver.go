package chain

import (
	"fmt"
	"math"

	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/invariants"
	"github.com/derpetermann/contact-zones/internal/logging"
	"github.com/derpetermann/contact-zones/internal/operators"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/reporting"
	"github.com/derpetermann/contact-zones/internal/sample"
	"golang.org/x/exp/rand"
)

// StepOutcome records what happened on one driver step, for logging and
// the emitted sample stream.
type StepOutcome struct {
	Operator      string
	Accepted      bool
	Blocked       bool
	LogLikelihood float64
	LogPrior      float64
	Violations    []invariants.Violation
}

// Driver runs the per-step loop for one chain: select an operator, propose
// a move, decide accept/reject by the Metropolis-Hastings ratio (skipping
// straight to "always accept" for Gibbs moves), and check invariants on
// whatever the chain now holds.
type Driver struct {
	Index    int
	Table    *operators.Table
	Oracle   oracle.Oracle
	Geo      *geography.Graph
	Checker  invariants.Checker
	Logger   *logging.Logger
	Stream   *reporting.Stream // nil disables emission

	current       *sample.Sample
	logLikelihood float64
	logPrior      float64
}

// NewDriver wraps initial as the chain's starting sample, evaluating its
// initial log-likelihood/log-prior eagerly.
func NewDriver(index int, initial *sample.Sample, table *operators.Table, o oracle.Oracle, geo *geography.Graph, checker invariants.Checker, logger *logging.Logger, stream *reporting.Stream) (*Driver, error) {
	if err := o.UpdateComponentLikelihoods(initial); err != nil {
		return nil, fmt.Errorf("chain %d: initial likelihood update: %w", index, err)
	}
	if err := o.UpdateWeights(initial); err != nil {
		return nil, fmt.Errorf("chain %d: initial weight update: %w", index, err)
	}
	logL, err := o.LogLikelihood(initial)
	if err != nil {
		return nil, fmt.Errorf("chain %d: initial log-likelihood: %w", index, err)
	}
	logP, err := o.LogPrior(initial)
	if err != nil {
		return nil, fmt.Errorf("chain %d: initial log-prior: %w", index, err)
	}
	o.ClearDirty(initial)

	return &Driver{
		Index:         index,
		Table:         table,
		Oracle:        o,
		Geo:           geo,
		Checker:       checker,
		Logger:        logger,
		Stream:        stream,
		current:       initial,
		logLikelihood: logL,
		logPrior:      logP,
	}, nil
}

// Current returns the chain's current sample.
func (d *Driver) Current() *sample.Sample { return d.current }

// LogPosterior returns beta * (logLikelihood + logPrior) for the chain's
// current sample, the quantity MC3 swaps compare.
func (d *Driver) LogPosterior(beta float64) float64 {
	return beta * (d.logLikelihood + d.logPrior)
}

// Step performs one operator selection, proposal, and accept/reject
// decision.
func (d *Driver) Step(step int, params Params, opParams operators.Params, rng *rand.Rand) (StepOutcome, error) {
	name, err := d.Table.Sample(rng)
	if err != nil {
		return StepOutcome{}, err
	}
	op, ok := d.Table.Get(name)
	if !ok {
		return StepOutcome{}, fmt.Errorf("chain %d: operator %q not registered", d.Index, name)
	}

	result, err := op.Propose(d.current, d.Geo, d.Oracle, opParams, rng)
	if err != nil {
		return StepOutcome{}, fmt.Errorf("chain %d step %d (%s): %w", d.Index, step, name, err)
	}
	if result.Blocked {
		return StepOutcome{Operator: name, Blocked: true, LogLikelihood: d.logLikelihood, LogPrior: d.logPrior}, nil
	}

	// q_back == 0 means the reverse move is structurally impossible: reject
	// immediately without touching the oracle's likelihood cache.
	if result.QBack == 0 {
		d.Oracle.ClearDirty(result.Proposed)
		return StepOutcome{Operator: name, Accepted: false, LogLikelihood: d.logLikelihood, LogPrior: d.logPrior}, nil
	}

	if err := d.Oracle.UpdateComponentLikelihoods(result.Proposed); err != nil {
		return StepOutcome{}, fmt.Errorf("chain %d step %d (%s): update likelihoods: %w", d.Index, step, name, err)
	}
	if err := d.Oracle.UpdateWeights(result.Proposed); err != nil {
		return StepOutcome{}, fmt.Errorf("chain %d step %d (%s): update weights: %w", d.Index, step, name, err)
	}
	newLogL, err := d.Oracle.LogLikelihood(result.Proposed)
	if err != nil {
		return StepOutcome{}, fmt.Errorf("chain %d step %d (%s): log-likelihood: %w", d.Index, step, name, err)
	}
	newLogP, err := d.Oracle.LogPrior(result.Proposed)
	if err != nil {
		return StepOutcome{}, fmt.Errorf("chain %d step %d (%s): log-prior: %w", d.Index, step, name, err)
	}

	accept := result.Q == 0 // Gibbs convention: always accept
	if !accept {
		logAlpha := params.Beta*((newLogL+newLogP)-(d.logLikelihood+d.logPrior)) + math.Log(result.QBack) - math.Log(result.Q)
		accept = math.Log(rng.Float64()) < logAlpha
	}

	outcome := StepOutcome{Operator: name, Accepted: accept}

	if accept {
		d.Oracle.ClearDirty(d.current)
		d.current = result.Proposed
		d.logLikelihood = newLogL
		d.logPrior = newLogP
		outcome.Violations = d.Checker.CheckAll(d.current)
	} else {
		d.Oracle.ClearDirty(result.Proposed)
	}
	outcome.LogLikelihood = d.logLikelihood
	outcome.LogPrior = d.logPrior

	if d.Logger != nil {
		d.Logger.Debug("step", logging.StepFields(d.Index, step, name, accept, d.logLikelihood+d.logPrior)...)
	}
	if d.Stream != nil && accept {
		areas := make([][]bool, d.current.Areas.Rows)
		for z := range areas {
			areas[z] = d.current.Areas.Row(z)
		}
		rec := reporting.StepRecord{
			Chain:         d.Index,
			Step:          step,
			Operator:      name,
			LogLikelihood: d.logLikelihood,
			LogPrior:      d.logPrior,
			Areas:         areas,
			Weights:       d.current.Weights.Data,
			PGlobal:       d.current.PGlobal.Data,
			PArea:         d.current.PArea.Data,
			PFamily:       d.current.PFamily.Data,
		}
		if err := d.Stream.Append(rec); err != nil && d.Logger != nil {
			d.Logger.Warn("failed to append step record", "chain", d.Index, "step", step, "error", err)
		}
	}

	return outcome, nil
}

// ReplaceCurrent swaps in a new current sample and its cached
// log-likelihood/log-prior, used by the MC3 swap move to exchange state
// between two chains without either holding the other's Sample pointer.
func (d *Driver) ReplaceCurrent(s *sample.Sample, logL, logP float64) {
	d.current = s
	d.logLikelihood = logL
	d.logPrior = logP
}

// LogLikelihood returns the chain's cached log-likelihood.
func (d *Driver) LogLikelihood() float64 { return d.logLikelihood }

// LogPrior returns the chain's cached log-prior.
func (d *Driver) LogPrior() float64 { return d.logPrior }
