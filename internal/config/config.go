// Package config provides configuration loading and validation for the
// fbas-analyzer CLIs.
//
// Configuration file: ./fbas-analyzer.yaml (default)
// Schema version: 1
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version, GitCommit, BuildTime can be injected at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Config is the root configuration structure for fbas-analyzer.
// All fields have defaults; see Defaults() for values.
type Config struct {
	// SchemaVersion must be "1".
	SchemaVersion string `yaml:"schema_version"`

	// Simulation configures growth simulation behaviour.
	Simulation SimulationConfig `yaml:"simulation"`

	// Graph configures the synthetic topology a simulation grows on top of.
	Graph GraphConfig `yaml:"graph"`

	// Storage configures the BoltDB run/snapshot cache.
	Storage StorageConfig `yaml:"storage"`

	// Observability configures metrics and logging.
	Observability ObservabilityConfig `yaml:"observability"`
}

// SimulationConfig holds parameters for SimpleRandomQsc-driven growth.
type SimulationConfig struct {
	// DesiredQuorumSetSize is the target validator-set size a configurator
	// grows each node towards. Default: 4.
	DesiredQuorumSetSize int `yaml:"desired_quorum_set_size"`

	// DesiredThreshold is the target threshold; Validate rejects a value
	// larger than DesiredQuorumSetSize. Default: 3.
	DesiredThreshold int `yaml:"desired_threshold"`

	// AdaptUntilSatisfied controls whether a node keeps growing its quorum
	// set as the network grows, or freezes once first configured.
	// Default: true.
	AdaptUntilSatisfied bool `yaml:"adapt_until_satisfied"`

	// MaxStabilizePasses caps the number of fixpoint passes per node
	// addition before a NonConvergenceError is raised. Default: 10000.
	MaxStabilizePasses int `yaml:"max_stabilize_passes"`

	// Seed is the PRNG seed for deterministic, reproducible growth.
	// Default: 1.
	Seed int64 `yaml:"seed"`
}

// GraphConfig configures an optional synthetic topology that a
// graph-backed configurator (graphqsc) derives quorum sets from.
type GraphConfig struct {
	// Topology selects the generator: "none", "full_mesh", "scale_free",
	// or "small_world". Default: "none" (no topology; SimpleRandomQsc only).
	Topology string `yaml:"topology"`

	// M0 is the scale-free generator's initial clique size. Default: 5.
	M0 int `yaml:"m0"`

	// M is the scale-free generator's edges-per-new-node. Default: 2.
	M int `yaml:"m"`

	// K is the small-world generator's ring-lattice degree (must be even).
	// Default: 4.
	K int `yaml:"k"`

	// Beta is the small-world generator's rewiring probability.
	// Range: [0.0, 1.0]. Default: 0.1.
	Beta float64 `yaml:"beta"`
}

// StorageConfig holds BoltDB parameters.
type StorageConfig struct {
	// DBPath is the path to the BoltDB file. Default: ./fbas-analyzer.db.
	DBPath string `yaml:"db_path"`

	// RetentionRuns is the number of run records retained by
	// PruneOldRuns. Default: 100.
	RetentionRuns int `yaml:"retention_runs"`
}

// ObservabilityConfig holds metrics and logging parameters.
type ObservabilityConfig struct {
	// MetricsAddr is the Prometheus metrics HTTP bind address. Empty
	// disables the metrics server. Default: "" (disabled).
	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel controls the minimum log level (debug, info, warn, error).
	// Default: info.
	LogLevel string `yaml:"log_level"`

	// LogFormat controls the log output format (json, console).
	// Default: json.
	LogFormat string `yaml:"log_format"`
}

// Defaults returns a Config populated with all default values.
func Defaults() Config {
	return Config{
		SchemaVersion: "1",
		Simulation: SimulationConfig{
			DesiredQuorumSetSize: 4,
			DesiredThreshold:     3,
			AdaptUntilSatisfied:  true,
			MaxStabilizePasses:   10000,
			Seed:                 1,
		},
		Graph: GraphConfig{
			Topology: "none",
			M0:       5,
			M:        2,
			K:        4,
			Beta:     0.1,
		},
		Storage: StorageConfig{
			DBPath:        DefaultDBPath,
			RetentionRuns: 100,
		},
		Observability: ObservabilityConfig{
			MetricsAddr: "",
			LogLevel:    "info",
			LogFormat:   "json",
		},
	}
}

// DefaultDBPath mirrors the store package constant for use in config
// defaults.
const DefaultDBPath = "./fbas-analyzer.db"

// Load reads and validates a config file from the given path.
// Returns the merged config (defaults overridden by file values).
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse %q: %w", path, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks all config fields for correctness.
// Returns a descriptive error listing all violations found.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.SchemaVersion != "1" {
		errs = append(errs, fmt.Sprintf("schema_version must be \"1\", got %q", cfg.SchemaVersion))
	}

	if cfg.Simulation.DesiredQuorumSetSize < 1 {
		errs = append(errs, fmt.Sprintf("simulation.desired_quorum_set_size must be >= 1, got %d", cfg.Simulation.DesiredQuorumSetSize))
	}
	if cfg.Simulation.DesiredThreshold < 0 {
		errs = append(errs, fmt.Sprintf("simulation.desired_threshold must be >= 0, got %d", cfg.Simulation.DesiredThreshold))
	}
	if cfg.Simulation.DesiredThreshold > cfg.Simulation.DesiredQuorumSetSize {
		errs = append(errs, fmt.Sprintf(
			"simulation.desired_threshold (%d) must not exceed desired_quorum_set_size (%d)",
			cfg.Simulation.DesiredThreshold, cfg.Simulation.DesiredQuorumSetSize))
	}
	if cfg.Simulation.MaxStabilizePasses < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_stabilize_passes must be >= 1, got %d", cfg.Simulation.MaxStabilizePasses))
	}

	switch cfg.Graph.Topology {
	case "none", "full_mesh", "scale_free", "small_world":
	default:
		errs = append(errs, fmt.Sprintf(
			"graph.topology must be one of none, full_mesh, scale_free, small_world; got %q", cfg.Graph.Topology))
	}
	if cfg.Graph.Topology == "scale_free" {
		if cfg.Graph.M0 < 1 {
			errs = append(errs, fmt.Sprintf("graph.m0 must be >= 1, got %d", cfg.Graph.M0))
		}
		if cfg.Graph.M < 1 || cfg.Graph.M > cfg.Graph.M0 {
			errs = append(errs, fmt.Sprintf("graph.m must be in [1, m0=%d], got %d", cfg.Graph.M0, cfg.Graph.M))
		}
	}
	if cfg.Graph.Topology == "small_world" {
		if cfg.Graph.K < 2 || cfg.Graph.K%2 != 0 {
			errs = append(errs, fmt.Sprintf("graph.k must be a positive even number, got %d", cfg.Graph.K))
		}
		if cfg.Graph.Beta < 0.0 || cfg.Graph.Beta > 1.0 {
			errs = append(errs, fmt.Sprintf("graph.beta must be in [0.0, 1.0], got %f", cfg.Graph.Beta))
		}
	}

	if cfg.Storage.DBPath == "" {
		errs = append(errs, "storage.db_path must not be empty")
	} else if !filepath.IsAbs(cfg.Storage.DBPath) && cfg.Storage.DBPath != DefaultDBPath {
		errs = append(errs, fmt.Sprintf("storage.db_path must be absolute, got %q", cfg.Storage.DBPath))
	}
	if cfg.Storage.RetentionRuns < 1 {
		errs = append(errs, fmt.Sprintf("storage.retention_runs must be >= 1, got %d", cfg.Storage.RetentionRuns))
	}

	switch cfg.Observability.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("observability.log_level must be one of debug, info, warn, error; got %q", cfg.Observability.LogLevel))
	}
	switch cfg.Observability.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("observability.log_format must be json or console, got %q", cfg.Observability.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", joinStrings(errs, "\n  - "))
	}
	return nil
}

// joinStrings joins a slice of strings with a separator.
func joinStrings(ss []string, sep string) string {
	if len(ss) == 0 {
		return ""
	}
	result := ss[0]
	for _, s := range ss[1:] {
		result += sep + s
	}
	return result
}
