// Package main — cmd/fbas-simulate/main.go
//
// FBAS growth simulator.
//
// Grows a synthetic network node-by-node under a quorum-set configurator,
// stabilizing to a fixpoint after each addition, then runs the same
// analysis pipeline as cmd/fbas-analyze on the resulting network.
//
// Configurators:
//   - "random" (default): SimpleRandomQsc, independent uniform sampling.
//   - "graph-simple"/"graph-quality": derive validators from a node's
//     neighborhood in a pre-generated synthetic topology (-topology).
//
// Growth is observed by a multiMonitor fanning out to a metricsMonitor
// (zap + Prometheus) and a snapshotMonitor, which persists an
// internal/store.Snapshot every -snapshot-interval nodes.
//
// Usage:
//
//	fbas-simulate -nodes 50 -qset-size 4 -qset-threshold 3 -seed 1
//	fbas-simulate -nodes 50 -topology scale_free -m0 5 -m 2 -configurator graph-quality
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/octoreflex/fbas-analyzer/internal/config"
	"github.com/octoreflex/fbas-analyzer/internal/configurator"
	"github.com/octoreflex/fbas-analyzer/internal/configurator/graphqsc"
	"github.com/octoreflex/fbas-analyzer/internal/fbas"
	"github.com/octoreflex/fbas-analyzer/internal/graphgen"
	"github.com/octoreflex/fbas-analyzer/internal/obs"
	"github.com/octoreflex/fbas-analyzer/internal/report"
	"github.com/octoreflex/fbas-analyzer/internal/simulator"
	"github.com/octoreflex/fbas-analyzer/internal/store"
)

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	configPath := flag.String("config", "./fbas-analyzer.yaml", "Path to config file")
	nodes := flag.Int("nodes", 0, "Number of nodes to grow")
	qsetSize := flag.Int("qset-size", 0, "Desired quorum set size (overrides config if > 0)")
	qsetThreshold := flag.Int("qset-threshold", 0, "Desired quorum set threshold (overrides config if > 0)")
	adapt := flag.Bool("adapt", true, "Keep growing quorum sets as the network grows")
	topology := flag.String("topology", "", "Graph topology: none, full_mesh, scale_free, small_world (overrides config)")
	configuratorName := flag.String("configurator", "random", "Configurator: random, graph-simple, graph-quality")
	topK := flag.Int("top-k", 4, "graph-quality: number of highest-degree neighbors to select")
	m0 := flag.Int("m0", 0, "scale_free: initial clique size (overrides config if > 0)")
	m := flag.Int("m", 0, "scale_free: attachment edges per new node (overrides config if > 0)")
	k := flag.Int("k", 0, "small_world: ring-lattice degree (overrides config if > 0)")
	beta := flag.Float64("beta", -1, "small_world: rewiring probability (overrides config if >= 0)")
	seed := flag.Int64("seed", 0, "PRNG seed (overrides config if != 0)")
	snapshotInterval := flag.Int("snapshot-interval", 25, "Persist a growth snapshot every N nodes added (0 disables)")
	flag.Parse()

	// ── Step 1: Load config ──────────────────────────────────────────────
	cfg := config.Defaults()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: config load failed: %v\n", err)
			os.Exit(1)
		}
		cfg = *loaded
	}
	applyFlagOverrides(&cfg, *qsetSize, *qsetThreshold, *adapt, *topology, *m0, *m, *k, *beta, *seed)

	// ── Step 2: Initialise logger ────────────────────────────────────────
	log, err := obs.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("fbas-simulate starting",
		zap.Int64("seed", cfg.Simulation.Seed),
		zap.String("configurator", *configuratorName),
		zap.String("topology", cfg.Graph.Topology),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := obs.NewMetrics()
	if cfg.Observability.MetricsAddr != "" {
		go func() {
			if err := metrics.ServeMetrics(ctx, cfg.Observability.MetricsAddr); err != nil {
				log.Error("metrics server error", zap.Error(err))
			}
		}()
		log.Info("metrics server started", zap.String("addr", cfg.Observability.MetricsAddr))
	}

	db, err := store.Open(cfg.Storage.DBPath, cfg.Storage.RetentionRuns)
	if err != nil {
		log.Fatal("BoltDB open failed", zap.Error(err), zap.String("path", cfg.Storage.DBPath))
	}
	defer db.Close() //nolint:errcheck

	net := fbas.New()
	cfgtor, err := buildConfigurator(*configuratorName, &cfg, *topK, *nodes)
	if err != nil {
		log.Fatal("failed to build configurator", zap.Error(err))
	}

	mon := multiMonitor{
		newMetricsMonitor(log, metrics),
		newSnapshotMonitor(db, log, *snapshotInterval),
	}
	sim := simulator.New(net, cfgtor, mon)
	sim.MaxStabilizePasses = cfg.Simulation.MaxStabilizePasses

	start := time.Now()
	if err := sim.SimulateGrowth(ctx, *nodes); err != nil {
		metrics.SimulationNonConvergenceTotal.Inc()
		log.Fatal("simulation failed to converge", zap.Error(err))
	}
	log.Info("simulation complete", zap.Int("nodes", net.Len()), zap.Duration("duration", time.Since(start)))

	// ── Analyze the grown network ────────────────────────────────────────
	enumStart := time.Now()
	quorums, qstats := fbas.GetMinimalQuorumsWithStats(net)
	metrics.MinimalQuorumsFound.Set(float64(len(quorums)))
	metrics.EnumerationDuration.Observe(time.Since(enumStart).Seconds())

	metrics.QuorumChecksTotal.Add(float64(qstats.QuorumChecks))
	for _, d := range qstats.CheckDurations {
		metrics.QuorumCheckDuration.Observe(d.Seconds())
	}

	hasIntersection := fbas.AllNodeSetsIntersect(quorums)
	if hasIntersection {
		metrics.IntersectionResult.Set(1)
	} else {
		metrics.IntersectionResult.Set(0)
	}

	report.PrintSummary(report.Result{
		NodeCount:       net.Len(),
		MinimalQuorums:  quorums,
		HasIntersection: hasIntersection,
	})

	if hasIntersection {
		os.Exit(0)
	}
	os.Exit(2)
}

func applyFlagOverrides(cfg *config.Config, qsetSize, qsetThreshold int, adapt bool, topology string, m0, m, k int, beta float64, seed int64) {
	if qsetSize > 0 {
		cfg.Simulation.DesiredQuorumSetSize = qsetSize
	}
	if qsetThreshold > 0 {
		cfg.Simulation.DesiredThreshold = qsetThreshold
	}
	cfg.Simulation.AdaptUntilSatisfied = adapt
	if topology != "" {
		cfg.Graph.Topology = topology
	}
	if m0 > 0 {
		cfg.Graph.M0 = m0
	}
	if m > 0 {
		cfg.Graph.M = m
	}
	if k > 0 {
		cfg.Graph.K = k
	}
	if beta >= 0 {
		cfg.Graph.Beta = beta
	}
	if seed != 0 {
		cfg.Simulation.Seed = seed
	}
}

// buildConfigurator constructs the requested QuorumSetConfigurator.
// Graph-backed configurators need a synthetic topology sized to the
// simulation's final node count, generated up front from cfg.Graph and
// finalNodes; the simulator only ever looks up existing neighbors, so
// pre-sizing the graph is safe even though nodes are added one at a time.
func buildConfigurator(name string, cfg *config.Config, topK, finalNodes int) (configurator.QuorumSetConfigurator, error) {
	switch name {
	case "random":
		return configurator.NewSimpleRandomQsc(
			cfg.Simulation.DesiredQuorumSetSize,
			cfg.Simulation.DesiredThreshold,
			graphgen.NewRand(cfg.Simulation.Seed),
		).WithAdaptUntilSatisfied(cfg.Simulation.AdaptUntilSatisfied), nil

	case "graph-simple", "graph-quality":
		graph, err := buildGraph(cfg, finalNodes)
		if err != nil {
			return nil, err
		}
		if name == "graph-simple" {
			return graphqsc.NewSimple(graph), nil
		}
		return graphqsc.NewQuality(graph, topK), nil

	default:
		return nil, fmt.Errorf("unknown configurator %q", name)
	}
}

func buildGraph(cfg *config.Config, n int) (*graphgen.Graph, error) {
	rng := graphgen.NewRand(cfg.Simulation.Seed)
	switch cfg.Graph.Topology {
	case "full_mesh":
		return graphgen.FullMesh(n), nil
	case "scale_free":
		return graphgen.ScaleFreeBA(n, cfg.Graph.M0, cfg.Graph.M, rng)
	case "small_world":
		return graphgen.SmallWorldWS(n, cfg.Graph.K, cfg.Graph.Beta, rng)
	default:
		return nil, fmt.Errorf("topology %q is required for graph-backed configurators", cfg.Graph.Topology)
	}
}
