// Package configurator provides pluggable quorum-set assignment policies
// that the simulator applies to a growing Fbas, one node at a time.
package configurator

import "github.com/octoreflex/fbas-analyzer/internal/fbas"

// ChangeEffect reports whether Configure mutated a node's quorum set.
type ChangeEffect bool

const (
	// NoChange indicates Configure left the node's quorum set untouched.
	NoChange ChangeEffect = false
	// Change indicates Configure mutated the node's quorum set.
	Change ChangeEffect = true
)

// QuorumSetConfigurator assigns or adjusts the quorum set of a single node
// in net. Called repeatedly by the simulator, once per node per
// stabilization pass, until every node reports NoChange.
type QuorumSetConfigurator interface {
	Configure(nodeID fbas.NodeId, net *fbas.Network) ChangeEffect
}
