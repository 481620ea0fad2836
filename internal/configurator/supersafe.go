package configurator

import "github.com/octoreflex/fbas-analyzer/internal/fbas"

// SuperSafeQsc assigns every node the same maximally conservative quorum
// set: all current nodes as validators, threshold equal to the node count.
// Quorum intersection trivially holds (the only quorum is the full node
// set), at the cost of requiring unanimous participation.
type SuperSafeQsc struct{}

// NewSuperSafeQsc builds a SuperSafeQsc.
func NewSuperSafeQsc() *SuperSafeQsc {
	return &SuperSafeQsc{}
}

// Configure implements QuorumSetConfigurator.
func (SuperSafeQsc) Configure(nodeID fbas.NodeId, net *fbas.Network) ChangeEffect {
	n := net.Len()
	existing := &net.Nodes[nodeID].QuorumSet

	if existing.Threshold == n && len(existing.Validators) == n {
		return NoChange
	}

	validators := make([]fbas.NodeId, n)
	for i := 0; i < n; i++ {
		validators[i] = fbas.NodeId(i)
	}
	*existing = fbas.QuorumSet{Threshold: n, Validators: validators}
	return Change
}

var _ QuorumSetConfigurator = SuperSafeQsc{}
