package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/derpetermann/contact-zones/internal/cancel"
	"github.com/derpetermann/contact-zones/internal/coordinator"
	"github.com/derpetermann/contact-zones/internal/initsample"
	"github.com/derpetermann/contact-zones/internal/invariants"
	"github.com/derpetermann/contact-zones/internal/loader"
	"github.com/derpetermann/contact-zones/internal/logging"
	"github.com/derpetermann/contact-zones/internal/metrics"
	"github.com/derpetermann/contact-zones/internal/operators"
	"github.com/derpetermann/contact-zones/internal/oracle"
	"github.com/derpetermann/contact-zones/internal/reporting"
	"github.com/derpetermann/contact-zones/internal/sample"
	"github.com/derpetermann/contact-zones/pkg/config"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Args:  cobra.NoArgs,
	Short: "Run the sampler",
	Long:  `Loads input data and configuration, then runs the warmup and production sampling phases.`,
	RunE:  runSampler,
}

func init() {
	runCmd.Flags().String("data", "", "path to input data JSON file")
	runCmd.Flags().Int("steps", 100000, "number of production sampling steps")
	runCmd.Flags().Int64("seed", 1, "top-level RNG seed")
}

func runSampler(cmd *cobra.Command, args []string) error {
	dataPath, _ := cmd.Flags().GetString("data")
	if dataPath == "" {
		return fmt.Errorf("--data flag is required")
	}
	nSteps, _ := cmd.Flags().GetInt("steps")
	seed, _ := cmd.Flags().GetInt64("seed")

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logLevel := logging.LogLevel(cfg.Logging.Level)
	if verbose {
		logLevel = logging.LogLevelDebug
	}
	logger := logging.NewLogger(logging.LoggerConfig{
		Level:  logLevel,
		Format: logging.LogFormat(cfg.Logging.Format),
	})
	logger.Info("zonesampler starting", "version", version)

	data, err := loader.NewJSONLoader(dataPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load input data: %w", err)
	}
	logger.Info("input data loaded", "sites", len(data.SiteNames), "features", len(data.FeatureNames))

	nComponents := 2
	nFamilies := len(data.Families)
	if cfg.Sampler.Inheritance && nFamilies > 0 {
		nComponents = 3
	} else {
		nFamilies = 0
	}

	rng := rand.New(rand.NewSource(uint64(seed)))

	initParams := initsample.Params{
		NZones:           cfg.Sampler.NZones,
		InitialSize:      cfg.Sampler.InitialSize,
		NFeatures:        len(data.FeatureNames),
		NFamilies:        nFamilies,
		NComponents:      nComponents,
		ApplicableStates: data.ApplicableStates,
	}

	oracles := make([]oracle.Oracle, cfg.MC3.NChains)
	initial := make([]*sample.Sample, cfg.MC3.NChains)
	for c := 0; c < cfg.MC3.NChains; c++ {
		chainRNG := rand.New(rand.NewSource(uint64(seed) + uint64(c) + 1))
		s, err := initsample.Build(data.Network, initParams, chainRNG)
		if err != nil {
			return fmt.Errorf("failed to build initial state for chain %d: %w", c, err)
		}
		initial[c] = s
		oracles[c] = oracle.NewCategoricalOracle(data, nComponents)
	}

	checker := invariants.Checker{
		MinSize:     cfg.Sampler.MinSize,
		MaxSize:     cfg.Sampler.MaxSize,
		NFeatures:   len(data.FeatureNames),
		NComponents: nComponents,
	}

	runID := reporting.RunTimestamp(time.Now())
	stream, err := reporting.NewStream(cfg.Reporting.OutputDir, runID, cfg.Reporting.KeepLastN, logger)
	if err != nil {
		return fmt.Errorf("failed to open sample stream: %w", err)
	}
	defer stream.Close()

	var m *metrics.Metrics
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		m = metrics.New()
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.ListenAddr); err != nil {
				logger.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	token := cancel.New(cancel.Config{
		StopFile:             cfg.Cancellation.StopFile,
		PollInterval:         cfg.Cancellation.PollInterval,
		EnableSignalHandlers: cfg.Cancellation.SignalHandlers,
	})
	token.Start(ctx)

	co, err := coordinator.New(cfg, data.Network, oracles, initial, checker, logger, stream, m, token, rng)
	if err != nil {
		return fmt.Errorf("failed to build coordinator: %w", err)
	}

	opParams := operators.Params{
		MinSize:        cfg.Sampler.MinSize,
		MaxSize:        cfg.Sampler.MaxSize,
		PGrowConnected: cfg.Sampler.PGrowConnected,
		TauWeights:     cfg.VarProposal.Weights,
		TauUniversal:   cfg.VarProposal.Universal,
		TauContact:     cfg.VarProposal.Contact,
		TauInheritance: cfg.VarProposal.Inheritance,
		NFamilies:      nFamilies,
		NFeatures:      len(data.FeatureNames),
	}

	if err := co.Run(ctx, opParams, nSteps); err != nil {
		logger.Error("run aborted", "state", co.State().String(), "error", err)
		return fmt.Errorf("sampling run failed: %w", err)
	}

	logger.Info("zonesampler completed", "state", co.State().String())
	return nil
}
