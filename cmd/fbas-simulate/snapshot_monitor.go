package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/octoreflex/fbas-analyzer/internal/fbas"
	"github.com/octoreflex/fbas-analyzer/internal/simulator"
	"github.com/octoreflex/fbas-analyzer/internal/store"
)

// snapshotMonitor persists an internal/store.Snapshot of the growing
// network every interval nodes added.
type snapshotMonitor struct {
	db       *store.DB
	log      *zap.Logger
	interval int
}

func newSnapshotMonitor(db *store.DB, log *zap.Logger, interval int) *snapshotMonitor {
	return &snapshotMonitor{db: db, log: log, interval: interval}
}

var _ simulator.Monitor = (*snapshotMonitor)(nil)

func (m *snapshotMonitor) NodeAdded(_ fbas.NodeId, net *fbas.Network) {
	if m.interval <= 0 || net.Len()%m.interval != 0 {
		return
	}

	nodes := make([]fbas.Node, net.Len())
	copy(nodes, net.Nodes)

	snap := store.Snapshot{
		NodeCount: net.Len(),
		Nodes:     nodes,
		TakenAt:   time.Now().UTC(),
	}
	if err := m.db.PutSnapshot(snap); err != nil {
		m.log.Warn("failed to persist growth snapshot", zap.Error(err), zap.Int("node_count", net.Len()))
		return
	}
	m.log.Debug("growth snapshot persisted", zap.Int("node_count", net.Len()))
}

func (m *snapshotMonitor) PassCompleted(int, *fbas.Network) {}

func (m *snapshotMonitor) Stabilized(net *fbas.Network) {
	snap := store.Snapshot{
		NodeCount: net.Len(),
		Nodes:     append([]fbas.Node(nil), net.Nodes...),
		TakenAt:   time.Now().UTC(),
	}
	if err := m.db.PutSnapshot(snap); err != nil {
		m.log.Warn("failed to persist final growth snapshot", zap.Error(err))
	}
}

// multiMonitor fans a single Monitor call out to every wrapped monitor, in
// order.
type multiMonitor []simulator.Monitor

var _ simulator.Monitor = multiMonitor(nil)

func (m multiMonitor) NodeAdded(id fbas.NodeId, net *fbas.Network) {
	for _, mon := range m {
		mon.NodeAdded(id, net)
	}
}

func (m multiMonitor) PassCompleted(pass int, net *fbas.Network) {
	for _, mon := range m {
		mon.PassCompleted(pass, net)
	}
}

func (m multiMonitor) Stabilized(net *fbas.Network) {
	for _, mon := range m {
		mon.Stabilized(net)
	}
}
