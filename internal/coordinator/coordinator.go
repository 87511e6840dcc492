// Package coordinator drives a Metropolis-coupled multi-chain (MC3) run:
// one Driver per chain, periodic neighbour-pair swap proposals, an
// optional warmup phase that seeds production sampling, and the run-level
// state machine (Init -> Warmup -> Sample -> Swap -> Report -> Completed
// / Failed) that the CLI reports progress against.
package coordinator

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/derpetermann/contact-zones/internal/cancel"
	"github.com/derpetermann/contact-zones/internal/chain"
	"github.com/derpetermann/contact-zones/internal/diagnostics"
	"github.com/derpetermann/contact-zones/internal/geography"
	"github.com/derpetermann/contact-zones/internal/invariants"
	"github.com/derpetermann/contact-zones/internal/logging"
	"github.com/derpetermann/contact-zones/internal/metrics"
	"github.com/derpetermann/contact-zones/internal/operators"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/reporting"
	"github.com/derpetermann/contact-zones/internal/sample"
	"github.com/derpetermann/contact-zones/pkg/config"
	"golang.org/x/exp/rand"
)

// State names one stage of a run's lifecycle.
type State int

const (
	StateInit State = iota
	StateWarmup
	StateSampling
	StateSwap
	StateReport
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateWarmup:
		return "warmup"
	case StateSampling:
		return "sampling"
	case StateSwap:
		return "swap"
	case StateReport:
		return "report"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AuditEntry records one notable event in the run's lifecycle, the same
// shape cleanup bookkeeping uses elsewhere in this codebase: every abort
// or phase transition gets one entry with a reason, before anything is
// torn down.
type AuditEntry struct {
	Time   time.Time
	State  State
	Chain  int
	Reason string
}

// Coordinator owns one Driver per chain and runs the MC3 step/swap loop.
type Coordinator struct {
	cfg     *config.Config
	drivers []*chain.Driver
	betas   []float64
	token   *cancel.Token
	logger  *logging.Logger
	stream  *reporting.Stream
	metrics *metrics.Metrics
	rng     *rand.Rand

	state State
	audit []AuditEntry

	Diagnostics *diagnostics.Collector
}

// chainPosteriorSource adapts a Coordinator's drivers into a
// diagnostics.Source snapshotting each chain's current log-posterior.
type chainPosteriorSource struct {
	co *Coordinator
}

func (s chainPosteriorSource) Snapshot() map[string]diagnostics.SourceValue {
	out := make(map[string]diagnostics.SourceValue, len(s.co.drivers))
	for c, d := range s.co.drivers {
		out[fmt.Sprintf("log_posterior.%d", c)] = diagnostics.SourceValue{
			Value:  d.LogPosterior(s.co.betas[c]),
			Labels: map[string]string{"chain": fmt.Sprintf("%d", c)},
		}
	}
	return out
}

// New builds a Coordinator. oracles must have one entry per chain, each
// owned exclusively by that chain (never shared).
func New(cfg *config.Config, geo *geography.Graph, oracles []oracle.Oracle, initial []*sample.Sample, checker invariants.Checker, logger *logging.Logger, stream *reporting.Stream, m *metrics.Metrics, token *cancel.Token, rng *rand.Rand) (*Coordinator, error) {
	n := cfg.MC3.NChains
	if len(oracles) != n || len(initial) != n {
		return nil, fmt.Errorf("coordinator: need %d oracles and initial samples, got %d and %d", n, len(oracles), len(initial))
	}

	betas := cfg.MC3.Betas
	if len(betas) == 0 {
		betas = make([]float64, n)
		for i := range betas {
			betas[i] = 1.0
		}
	}

	table := operators.NewDefaultTable(cfg.Operators)

	drivers := make([]*chain.Driver, n)
	for c := 0; c < n; c++ {
		d, err := chain.NewDriver(c, initial[c], table, oracles[c], geo, checker, logger, stream)
		if err != nil {
			return nil, fmt.Errorf("coordinator: chain %d: %w", c, err)
		}
		drivers[c] = d
	}

	co := &Coordinator{
		cfg:     cfg,
		drivers: drivers,
		betas:   betas,
		token:   token,
		logger:  logger,
		stream:  stream,
		metrics: m,
		rng:     rng,
		state:   StateInit,
	}
	co.Diagnostics = diagnostics.New(diagnostics.Config{
		Source:   chainPosteriorSource{co: co},
		Interval: 10 * time.Second,
	})
	return co, nil
}

// State returns the coordinator's current lifecycle state.
func (co *Coordinator) State() State { return co.state }

// Audit returns every recorded audit entry, in order.
func (co *Coordinator) Audit() []AuditEntry {
	out := make([]AuditEntry, len(co.audit))
	copy(out, co.audit)
	return out
}

func (co *Coordinator) record(state State, chainIdx int, reason string) {
	co.audit = append(co.audit, AuditEntry{Time: time.Now(), State: state, Chain: chainIdx, Reason: reason})
	co.state = state
}

// Run executes the warmup phase (if enabled) followed by production
// sampling for nSteps, proposing an MC3 swap every SwapInterval steps.
// The run stops with an error, recorded as StateFailed, at the first step
// on which a chain's step fails (e.g. an oracle failure) or leaves an
// invariant violation, or once the run is cancelled. Records already
// appended to the sample stream stay in place.
func (co *Coordinator) Run(ctx context.Context, opParams operators.Params, nSteps int) error {
	co.Diagnostics.Start()
	defer co.Diagnostics.Stop()

	if co.cfg.Warmup.Enabled {
		co.record(StateWarmup, -1, "")
		if err := co.runPhase(ctx, opParams, co.cfg.Warmup.NSteps, true); err != nil {
			co.record(StateFailed, -1, err.Error())
			return err
		}
	}

	co.record(StateSampling, -1, "")
	if err := co.runPhase(ctx, opParams, nSteps, false); err != nil {
		co.record(StateFailed, -1, err.Error())
		return err
	}

	co.record(StateReport, -1, "")
	co.record(StateCompleted, -1, "")
	return nil
}

func (co *Coordinator) runPhase(ctx context.Context, baseParams operators.Params, nSteps int, warmup bool) error {
	var schedule *WarmupSchedule
	if warmup {
		schedule = NewWarmupSchedule(len(co.drivers), co.cfg.Sampler.InitialSize, co.cfg.Sampler.MaxSize, co.cfg.Sampler.PGrowConnected, co.rng)
	}

	for step := 0; step < nSteps; step++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("run cancelled: %w", ctx.Err())
		case <-co.token.Done():
			return fmt.Errorf("run cancelled: %s", co.token.Reason())
		default:
		}

		if err := co.stepAllChains(step, baseParams, schedule); err != nil {
			return err
		}

		if co.cfg.MC3.SwapInterval > 0 && step > 0 && step%co.cfg.MC3.SwapInterval == 0 {
			co.record(StateSwap, -1, "")
			co.proposeSwaps()
			if warmup {
				co.record(StateWarmup, -1, "")
			} else {
				co.record(StateSampling, -1, "")
			}
		}
	}
	return nil
}

func (co *Coordinator) stepAllChains(step int, baseParams operators.Params, schedule *WarmupSchedule) error {
	var wg sync.WaitGroup
	errs := make([]error, len(co.drivers))

	for c, d := range co.drivers {
		wg.Add(1)
		go func(c int, d *chain.Driver) {
			defer wg.Done()

			p := chain.Params{Beta: co.betas[c], MinSize: co.cfg.Sampler.MinSize}
			op := baseParams
			if schedule != nil {
				op.MaxSize = schedule.MaxSize(c)
				op.PGrowConnected = schedule.PConnected(c)
			}

			rng := rand.New(rand.NewSource(uint64(co.rng.Int63())))
			outcome, err := d.Step(step, p, op, rng)
			if err != nil {
				errs[c] = err
				return
			}
			if len(outcome.Violations) > 0 {
				errs[c] = fmt.Errorf("chain %d step %d: %w", c, step, outcome.Violations[0])
				return
			}
			if co.metrics != nil {
				chainLabel := fmt.Sprintf("%d", c)
				co.metrics.StepsTotal.WithLabelValues(chainLabel).Inc()
				if outcome.Accepted {
					co.metrics.AcceptedTotal.WithLabelValues(chainLabel, outcome.Operator).Inc()
				}
				co.metrics.LogPosterior.WithLabelValues(chainLabel).Set(d.LogPosterior(co.betas[c]))
			}
		}(c, d)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// proposeSwaps visits chain pairs (0,1), (2,3), ... in fixed lowest-index-
// first order — the run's only synchronization point beyond the implicit
// WaitGroup barrier in stepAllChains.
func (co *Coordinator) proposeSwaps() {
	for i := 0; i+1 < len(co.drivers); i += 2 {
		j := i + 1
		di, dj := co.drivers[i], co.drivers[j]

		logAlpha := (co.betas[i] - co.betas[j]) * (dj.LogLikelihood() + dj.LogPrior() - di.LogLikelihood() - di.LogPrior())
		accept := logAlpha >= 0 || math.Log(co.rng.Float64()) < logAlpha

		if accept {
			si, logLi, logPi := di.Current(), di.LogLikelihood(), di.LogPrior()
			sj, logLj, logPj := dj.Current(), dj.LogLikelihood(), dj.LogPrior()
			di.ReplaceCurrent(sj, logLj, logPj)
			dj.ReplaceCurrent(si, logLi, logPi)

			if co.metrics != nil {
				pairLabel := fmt.Sprintf("%d-%d", i, j)
				co.metrics.SwapAcceptedTotal.WithLabelValues(pairLabel).Inc()
			}
		}
	}
}
