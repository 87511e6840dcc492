package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the full sampler configuration.
type Config struct {
	Sampler      SamplerConfig      `yaml:"sampler"`
	VarProposal  VarProposalConfig  `yaml:"var_proposal"`
	Operators    OperatorConfig     `yaml:"operators"`
	MC3          MC3Config          `yaml:"mc3"`
	Warmup       WarmupConfig       `yaml:"warmup"`
	Logging      LoggingConfig      `yaml:"logging"`
	Reporting    ReportingConfig    `yaml:"reporting"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Cancellation CancellationConfig `yaml:"cancellation"`
}

// SamplerConfig contains the area-model dimensions and growth parameters.
type SamplerConfig struct {
	NChains         int     `yaml:"n_chains"`
	NZones          int     `yaml:"n_zones"`
	MinSize         int     `yaml:"min_size"`
	MaxSize         int     `yaml:"max_size"`
	InitialSize     int     `yaml:"initial_size"`
	PGrowConnected  float64 `yaml:"p_grow_connected"`
	Inheritance     bool    `yaml:"inheritance"`
	SampleSource    bool    `yaml:"sample_source"`
}

// VarProposalConfig holds the Dirichlet concentration scale (tau) used by
// each random-walk proposal family.
type VarProposalConfig struct {
	Weights     float64 `yaml:"weights"`
	Universal   float64 `yaml:"universal"`
	Contact     float64 `yaml:"contact"`
	Inheritance float64 `yaml:"inheritance"`
}

// OperatorConfig maps each named operator to its selection weight.
type OperatorConfig struct {
	GrowArea      float64 `yaml:"grow_area"`
	ShrinkArea    float64 `yaml:"shrink_area"`
	SwapArea      float64 `yaml:"swap_area"`
	AlterWeights  float64 `yaml:"alter_weights"`
	AlterPGlobal  float64 `yaml:"alter_p_global"`
	AlterPArea    float64 `yaml:"alter_p_area"`
	AlterPFamily  float64 `yaml:"alter_p_family"`
	GibbsSources  float64 `yaml:"gibbs_sources"`
	GibbsPGlobal  float64 `yaml:"gibbs_p_global"`
	GibbsPArea    float64 `yaml:"gibbs_p_area"`
	GibbsPFamily  float64 `yaml:"gibbs_p_family"`
	GibbsWeights  float64 `yaml:"gibbs_weights"`
}

// MC3Config contains Metropolis-coupled multi-chain tempering settings.
type MC3Config struct {
	NChains      int       `yaml:"n_chains"`
	SwapInterval int       `yaml:"swap_interval"`
	Betas        []float64 `yaml:"betas"`
}

// WarmupConfig contains the warmup regime settings.
type WarmupConfig struct {
	Enabled bool `yaml:"enabled"`
	NSteps  int  `yaml:"n_steps"`
}

// LoggingConfig contains structured-logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ReportingConfig contains sample-stream output settings.
type ReportingConfig struct {
	OutputDir string `yaml:"output_dir"`
	KeepLastN int    `yaml:"keep_last_n"`
}

// MetricsConfig contains the Prometheus exporter settings.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// CancellationConfig contains cooperative cancellation settings.
type CancellationConfig struct {
	StopFile       string        `yaml:"stop_file"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	SignalHandlers bool          `yaml:"signal_handlers"`
}

// DefaultConfig returns a configuration with conservative defaults.
func DefaultConfig() *Config {
	return &Config{
		Sampler: SamplerConfig{
			NChains:        1,
			NZones:         1,
			MinSize:        2,
			MaxSize:        10,
			InitialSize:    4,
			PGrowConnected: 0.8,
			Inheritance:    false,
			SampleSource:   true,
		},
		VarProposal: VarProposalConfig{
			Weights:     30,
			Universal:   30,
			Contact:     30,
			Inheritance: 30,
		},
		Operators: OperatorConfig{
			GrowArea:     2,
			ShrinkArea:   2,
			SwapArea:     1,
			AlterWeights: 1,
			AlterPGlobal: 1,
			AlterPArea:   1,
			AlterPFamily: 1,
			GibbsSources: 5,
			GibbsPGlobal: 1,
			GibbsPArea:   1,
			GibbsPFamily: 1,
			GibbsWeights: 0,
		},
		MC3: MC3Config{
			NChains:      4,
			SwapInterval: 1000,
			Betas:        []float64{1.0, 0.75, 0.5, 0.25},
		},
		Warmup: WarmupConfig{
			Enabled: true,
			NSteps:  5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Reporting: ReportingConfig{
			OutputDir: "./samples",
			KeepLastN: 10,
		},
		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: ":9090",
		},
		Cancellation: CancellationConfig{
			StopFile:       "/tmp/zonesampler-stop",
			PollInterval:   1 * time.Second,
			SignalHandlers: true,
		},
	}
}

// Load reads configuration from a YAML file, expanding ${VAR}-style
// environment references before parsing. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = "config.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for internally-inconsistent values.
func (c *Config) Validate() error {
	if c.Sampler.NChains < 1 {
		return fmt.Errorf("sampler.n_chains must be at least 1")
	}
	if c.Sampler.NZones < 1 {
		return fmt.Errorf("sampler.n_zones must be at least 1")
	}
	if c.Sampler.MinSize < 1 {
		return fmt.Errorf("sampler.min_size must be at least 1")
	}
	if c.Sampler.MaxSize < c.Sampler.MinSize {
		return fmt.Errorf("sampler.max_size must be >= sampler.min_size")
	}
	if c.Sampler.InitialSize < c.Sampler.MinSize || c.Sampler.InitialSize > c.Sampler.MaxSize {
		return fmt.Errorf("sampler.initial_size must lie within [min_size, max_size]")
	}
	if c.Sampler.PGrowConnected < 0 || c.Sampler.PGrowConnected > 1 {
		return fmt.Errorf("sampler.p_grow_connected must lie within [0, 1]")
	}
	if c.Reporting.OutputDir == "" {
		return fmt.Errorf("reporting.output_dir is required")
	}
	if len(c.MC3.Betas) != 0 && len(c.MC3.Betas) != c.MC3.NChains {
		return fmt.Errorf("mc3.betas must have mc3.n_chains entries when set")
	}
	return nil
}
