package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/octoreflex/fbas-analyzer/internal/config"
)

func TestDefaults_PassValidation(t *testing.T) {
	cfg := config.Defaults()
	if err := config.Validate(&cfg); err != nil {
		t.Fatalf("Defaults() failed validation: %v", err)
	}
}

func TestValidate_RejectsBadSchemaVersion(t *testing.T) {
	cfg := config.Defaults()
	cfg.SchemaVersion = "2"
	if err := config.Validate(&cfg); err == nil {
		t.Error("expected an error for an unsupported schema version")
	}
}

func TestValidate_RejectsThresholdExceedingSize(t *testing.T) {
	cfg := config.Defaults()
	cfg.Simulation.DesiredThreshold = cfg.Simulation.DesiredQuorumSetSize + 1
	if err := config.Validate(&cfg); err == nil {
		t.Error("expected an error when desired_threshold exceeds desired_quorum_set_size")
	}
}

func TestValidate_RejectsUnknownTopology(t *testing.T) {
	cfg := config.Defaults()
	cfg.Graph.Topology = "mesh-of-meshes"
	if err := config.Validate(&cfg); err == nil {
		t.Error("expected an error for an unknown topology")
	}
}

func TestValidate_ScaleFreeRequiresMWithinM0(t *testing.T) {
	cfg := config.Defaults()
	cfg.Graph.Topology = "scale_free"
	cfg.Graph.M0 = 3
	cfg.Graph.M = 5
	if err := config.Validate(&cfg); err == nil {
		t.Error("expected an error when m > m0")
	}
}

func TestValidate_SmallWorldRequiresEvenK(t *testing.T) {
	cfg := config.Defaults()
	cfg.Graph.Topology = "small_world"
	cfg.Graph.K = 3
	if err := config.Validate(&cfg); err == nil {
		t.Error("expected an error for an odd k")
	}
}

func TestValidate_SmallWorldRequiresBetaInRange(t *testing.T) {
	cfg := config.Defaults()
	cfg.Graph.Topology = "small_world"
	cfg.Graph.Beta = 1.5
	if err := config.Validate(&cfg); err == nil {
		t.Error("expected an error for beta outside [0,1]")
	}
}

func TestValidate_RejectsRelativeNonDefaultDBPath(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.DBPath = "relative/path.db"
	if err := config.Validate(&cfg); err == nil {
		t.Error("expected an error for a relative, non-default db_path")
	}
}

func TestValidate_RejectsUnknownLogLevel(t *testing.T) {
	cfg := config.Defaults()
	cfg.Observability.LogLevel = "verbose"
	if err := config.Validate(&cfg); err == nil {
		t.Error("expected an error for an unknown log level")
	}
}

func TestLoad_MergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	const doc = `
schema_version: "1"
simulation:
  desired_quorum_set_size: 7
  desired_threshold: 5
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.DesiredQuorumSetSize != 7 || cfg.Simulation.DesiredThreshold != 5 {
		t.Errorf("expected file values to override defaults, got %+v", cfg.Simulation)
	}
	if cfg.Graph.Topology != "none" {
		t.Errorf("expected untouched fields to keep their defaults, got topology %q", cfg.Graph.Topology)
	}
}

func TestLoad_RejectsInvalidMergedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	const doc = `
schema_version: "1"
graph:
  topology: not-a-real-topology
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, err := config.Load(path); err == nil {
		t.Error("expected Load to reject an invalid merged config")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
