package main

import (
	"go.uber.org/zap"

	"github.com/octoreflex/fbas-analyzer/internal/fbas"
	"github.com/octoreflex/fbas-analyzer/internal/obs"
	"github.com/octoreflex/fbas-analyzer/internal/simulator"
)

// metricsMonitor logs growth events via zap and records stabilization
// pass counts to Prometheus.
type metricsMonitor struct {
	log        *zap.Logger
	metrics    *obs.Metrics
	passesThis int
}

var _ simulator.Monitor = (*metricsMonitor)(nil)

func newMetricsMonitor(log *zap.Logger, metrics *obs.Metrics) *metricsMonitor {
	return &metricsMonitor{log: log, metrics: metrics}
}

func (m *metricsMonitor) NodeAdded(id fbas.NodeId, net *fbas.Network) {
	if m.passesThis > 0 {
		// The previous addition has stabilized; record its pass count.
		m.metrics.SimulationStabilizePasses.Observe(float64(m.passesThis))
	}
	m.passesThis = 0
	m.metrics.SimulationNodesAddedTotal.Inc()
	m.log.Debug("node added", zap.Int("node_id", int(id)), zap.Int("network_size", net.Len()))
}

func (m *metricsMonitor) PassCompleted(pass int, net *fbas.Network) {
	m.passesThis = pass + 1
}

func (m *metricsMonitor) Stabilized(net *fbas.Network) {
	m.metrics.SimulationStabilizePasses.Observe(float64(m.passesThis))
	m.log.Debug("stabilized", zap.Int("network_size", net.Len()), zap.Int("passes", m.passesThis))
	m.passesThis = 0
}
