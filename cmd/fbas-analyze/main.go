// Package main — cmd/fbas-analyze/main.go
//
// FBAS quorum-intersection analyzer.
//
// Startup sequence:
//  1. Load and validate config from ./fbas-analyzer.yaml (or -config).
//  2. Initialise structured logger (zap).
//  3. Open BoltDB run cache. If -history is set, print stored
//     AnalysisRecords (via DB.ReadRuns) and exit here.
//  4. Load the network: either from a JSON file (-network), or by
//     replaying a stored growth snapshot (-snapshot-at/-snapshot-nodes).
//  5. Optionally start the Prometheus metrics server.
//  6. Run IsQuorum-backed analysis: enumerate minimal quorums, decide
//     quorum intersection.
//  7. Render a terminal summary (pterm).
//  8. Persist an AnalysisRecord and prune stale run records.
//
// Exit codes: 0 = intersects, 1 = fatal error, 2 = does not intersect.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/octoreflex/fbas-analyzer/internal/config"
	"github.com/octoreflex/fbas-analyzer/internal/fbas"
	"github.com/octoreflex/fbas-analyzer/internal/loader"
	"github.com/octoreflex/fbas-analyzer/internal/obs"
	"github.com/octoreflex/fbas-analyzer/internal/report"
	"github.com/octoreflex/fbas-analyzer/internal/store"
)

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	configPath := flag.String("config", "./fbas-analyzer.yaml", "Path to config file")
	networkPath := flag.String("network", "", "Path to the network JSON file")
	history := flag.Bool("history", false, "Print past analysis runs from the run cache and exit")
	snapshotAt := flag.String("snapshot-at", "", "Replay analysis against a stored growth snapshot: its RFC3339Nano taken-at timestamp")
	snapshotNodes := flag.Int("snapshot-nodes", 0, "Replay analysis against a stored growth snapshot: its node count")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("fbas-analyze %s (commit=%s built=%s)\n",
			config.Version, config.GitCommit, config.BuildTime)
		os.Exit(0)
	}
	replayingSnapshot := *snapshotAt != "" || *snapshotNodes != 0
	if !*history && !replayingSnapshot && *networkPath == "" {
		fmt.Fprintln(os.Stderr, "FATAL: -network is required (unless -history or -snapshot-at/-snapshot-nodes is set)")
		os.Exit(1)
	}
	if replayingSnapshot && (*snapshotAt == "" || *snapshotNodes == 0) {
		fmt.Fprintln(os.Stderr, "FATAL: -snapshot-at and -snapshot-nodes must be set together")
		os.Exit(1)
	}

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

	// ── Step 2: Initialise logger ────────────────────────────────────────
	log, err := obs.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("fbas-analyze starting",
		zap.String("version", config.Version),
		zap.String("network", *networkPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Step 3: Open BoltDB ──────────────────────────────────────────────
	db, err := store.Open(cfg.Storage.DBPath, cfg.Storage.RetentionRuns)
	if err != nil {
		log.Fatal("BoltDB open failed", zap.Error(err), zap.String("path", cfg.Storage.DBPath))
	}
	defer db.Close() //nolint:errcheck

	if *history {
		runs, err := db.ReadRuns()
		if err != nil {
			log.Fatal("failed to read run history", zap.Error(err))
		}
		report.PrintHistory(runs)
		os.Exit(0)
	}

	// ── Step 4: Load network ─────────────────────────────────────────────
	var net *fbas.Network
	var networkData []byte
	recordID := ""

	if replayingSnapshot {
		takenAt, err := time.Parse(time.RFC3339Nano, *snapshotAt)
		if err != nil {
			log.Fatal("invalid -snapshot-at", zap.Error(err))
		}
		snap, err := db.GetSnapshot(takenAt, *snapshotNodes)
		if err != nil {
			log.Fatal("snapshot lookup failed", zap.Error(err))
		}
		if snap == nil {
			log.Fatal("no matching growth snapshot found",
				zap.String("taken_at", *snapshotAt), zap.Int("node_count", *snapshotNodes))
		}
		net = &fbas.Network{Nodes: snap.Nodes}
		recordID = fmt.Sprintf("snapshot:%s:%d", *snapshotAt, *snapshotNodes)
		log.Info("network loaded from snapshot", zap.Int("nodes", net.Len()), zap.Time("taken_at", snap.TakenAt))
	} else {
		data, err := os.ReadFile(*networkPath)
		if err != nil {
			log.Fatal("network file read failed", zap.Error(err))
		}
		networkData = data
		net, err = loader.LoadNetwork(networkData)
		if err != nil {
			log.Fatal("network load failed", zap.Error(err))
		}
		recordID = networkHash(networkData)
		log.Info("network loaded", zap.Int("nodes", net.Len()))
	}

	// ── Step 5: Optional metrics server ──────────────────────────────────
	metrics := obs.NewMetrics()
	if cfg.Observability.MetricsAddr != "" {
		go func() {
			if err := metrics.ServeMetrics(ctx, cfg.Observability.MetricsAddr); err != nil {
				log.Error("metrics server error", zap.Error(err))
			}
		}()
		log.Info("metrics server started", zap.String("addr", cfg.Observability.MetricsAddr))
	}

	// ── Step 6: Analysis ──────────────────────────────────────────────────
	start := time.Now()
	quorums, qstats := fbas.GetMinimalQuorumsWithStats(net)
	metrics.MinimalQuorumsFound.Set(float64(len(quorums)))
	metrics.EnumerationDuration.Observe(time.Since(start).Seconds())

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

	duration := time.Since(start)
	log.Info("analysis complete",
		zap.Int("minimal_quorums", len(quorums)),
		zap.Bool("has_intersection", hasIntersection),
		zap.Duration("duration", duration),
	)

	// ── Step 7: Report ────────────────────────────────────────────────────
	report.PrintSummary(report.Result{
		NodeCount:       net.Len(),
		MinimalQuorums:  quorums,
		HasIntersection: hasIntersection,
	})

	// ── Step 8: Persist + prune ──────────────────────────────────────────
	rec := store.AnalysisRecord{
		NetworkHash:        recordID,
		NodeCount:          net.Len(),
		MinimalQuorumCount: len(quorums),
		HasIntersection:    hasIntersection,
		Duration:           duration,
		RunAt:              time.Now().UTC(),
	}
	if err := db.PutRun(rec); err != nil {
		log.Warn("failed to persist run record", zap.Error(err))
	}
	if deleted, err := db.PruneOldRuns(cfg.Storage.RetentionRuns); err != nil {
		log.Warn("failed to prune old run records", zap.Error(err))
	} else if deleted > 0 {
		log.Info("pruned stale run records", zap.Int("deleted", deleted))
	}

	if hasIntersection {
		os.Exit(0)
	}
	os.Exit(2)
}

// networkHash returns a short, stable identifier for a network document,
// used to correlate repeated analysis runs of the same input.
func networkHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
