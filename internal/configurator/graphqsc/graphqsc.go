// Package graphqsc provides quorum-set configurators that derive a node's
// validators from its neighborhood in an accompanying synthetic topology
// (see internal/graphgen), rather than from an independent random draw.
package graphqsc

import (
	"sort"

	"github.com/octoreflex/fbas-analyzer/internal/configurator"
	"github.com/octoreflex/fbas-analyzer/internal/fbas"
	"github.com/octoreflex/fbas-analyzer/internal/graphgen"
)

// Simple assigns each node its full graph neighborhood as validators, with
// a simple majority threshold.
type Simple struct {
	graph *graphgen.Graph
}

// NewSimple builds a Simple configurator over graph. graph must have at
// least as many nodes as the Fbas it will be applied to.
func NewSimple(graph *graphgen.Graph) *Simple {
	return &Simple{graph: graph}
}

// Configure implements configurator.QuorumSetConfigurator.
func (s *Simple) Configure(nodeID fbas.NodeId, net *fbas.Network) configurator.ChangeEffect {
	neighbors := s.graph.Outlinks(int(nodeID))
	existing := &net.Nodes[nodeID].QuorumSet

	if len(existing.Validators) == len(neighbors) && existing.Threshold == majority(len(neighbors)) {
		return configurator.NoChange
	}

	validators := make([]fbas.NodeId, len(neighbors))
	for i, j := range neighbors {
		validators[i] = fbas.NodeId(j)
	}
	*existing = fbas.QuorumSet{Threshold: majority(len(neighbors)), Validators: validators}
	return configurator.Change
}

// Quality assigns each node the topK highest-degree neighbors from its
// graph neighborhood as validators — a proxy for preferring well-connected
// peers — with a simple majority threshold over the selected set.
type Quality struct {
	graph *graphgen.Graph
	topK  int
}

// NewQuality builds a Quality configurator over graph, selecting at most
// topK of each node's highest-degree neighbors as validators.
func NewQuality(graph *graphgen.Graph, topK int) *Quality {
	return &Quality{graph: graph, topK: topK}
}

// Configure implements configurator.QuorumSetConfigurator.
func (q *Quality) Configure(nodeID fbas.NodeId, net *fbas.Network) configurator.ChangeEffect {
	neighbors := append([]int(nil), q.graph.Outlinks(int(nodeID))...)
	degree := q.graph.OutDegrees()
	sort.SliceStable(neighbors, func(i, j int) bool {
		return degree[neighbors[i]] > degree[neighbors[j]]
	})

	k := q.topK
	if k > len(neighbors) {
		k = len(neighbors)
	}
	selected := neighbors[:k]

	existing := &net.Nodes[nodeID].QuorumSet
	if len(existing.Validators) == len(selected) && existing.Threshold == majority(len(selected)) {
		return configurator.NoChange
	}

	validators := make([]fbas.NodeId, len(selected))
	for i, j := range selected {
		validators[i] = fbas.NodeId(j)
	}
	*existing = fbas.QuorumSet{Threshold: majority(len(selected)), Validators: validators}
	return configurator.Change
}

// majority returns a simple-majority threshold for n validators: more than
// half must agree. n == 0 yields 0 (an unconfigured, never-satisfied set).
func majority(n int) int {
	if n == 0 {
		return 0
	}
	return n/2 + 1
}

var (
	_ configurator.QuorumSetConfigurator = (*Simple)(nil)
	_ configurator.QuorumSetConfigurator = (*Quality)(nil)
)
