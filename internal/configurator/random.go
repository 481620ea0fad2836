package configurator

import (
	"fmt"
	"math/rand"

	"github.com/octoreflex/fbas-analyzer/internal/fbas"
)

// SimpleRandomQsc assigns each node a quorum set drawn uniformly at random
// from the nodes in the network (the node itself included), growing it
// across stabilization passes until it reaches the desired size (unless
// WithAdaptUntilSatisfied(false) is set).
type SimpleRandomQsc struct {
	desiredQuorumSetSize int
	desiredThreshold     int
	adaptUntilSatisfied  bool
	rng                  *rand.Rand
}

// NewSimpleRandomQsc builds a SimpleRandomQsc targeting desiredQuorumSetSize
// validators with desiredThreshold required signatures, drawing from rng.
// If desiredThreshold exceeds desiredQuorumSetSize, Configure clamps the
// threshold down to whatever quorum set size is actually achievable.
func NewSimpleRandomQsc(desiredQuorumSetSize, desiredThreshold int, rng *rand.Rand) *SimpleRandomQsc {
	return &SimpleRandomQsc{
		desiredQuorumSetSize: desiredQuorumSetSize,
		desiredThreshold:     desiredThreshold,
		adaptUntilSatisfied:  true,
		rng:                  rng,
	}
}

// WithAdaptUntilSatisfied controls whether Configure keeps growing a node's
// quorum set across successive passes (true, the default) or only ever
// configures a node once, on its first unconfigured pass (false).
func (q *SimpleRandomQsc) WithAdaptUntilSatisfied(adapt bool) *SimpleRandomQsc {
	q.adaptUntilSatisfied = adapt
	return q
}

// Configure implements QuorumSetConfigurator.
func (q *SimpleRandomQsc) Configure(nodeID fbas.NodeId, net *fbas.Network) ChangeEffect {
	n := net.Len()
	existing := &net.Nodes[nodeID].QuorumSet

	needsGrowth := q.adaptUntilSatisfied && len(existing.Validators) < q.desiredQuorumSetSize
	if !needsGrowth && !existing.Empty() {
		return NoChange
	}

	quorumSetSize := min(q.desiredQuorumSetSize, n)
	threshold := min(quorumSetSize, q.desiredThreshold)

	var used fbas.NodeSet
	for _, v := range existing.Validators {
		used.Insert(v)
	}
	available := make([]fbas.NodeId, 0, n)
	for i := 0; i < n; i++ {
		id := fbas.NodeId(i)
		if !used.Contains(id) {
			available = append(available, id)
		}
	}

	newValidators := chooseMultiple(q.rng, available, quorumSetSize)

	// A node stuck below its desired size with no available validators left
	// to add (the network is simply too small, or every other node is
	// already a validator) must report NoChange once its threshold is
	// already set correctly — otherwise stabilization never reaches a
	// fixpoint. Only a genuine mutation is reported as Change.
	if len(newValidators) == 0 && existing.Threshold == threshold {
		return NoChange
	}

	existing.Validators = append(existing.Validators, newValidators...)
	existing.Threshold = threshold

	return Change
}

// chooseMultiple samples min(k, len(items)) elements from items without
// replacement, via a partial Fisher-Yates shuffle. items is not mutated.
func chooseMultiple(rng *rand.Rand, items []fbas.NodeId, k int) []fbas.NodeId {
	if k > len(items) {
		k = len(items)
	}
	pool := make([]fbas.NodeId, len(items))
	copy(pool, items)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

var _ QuorumSetConfigurator = (*SimpleRandomQsc)(nil)

// String renders the configurator's parameters for logging.
func (q *SimpleRandomQsc) String() string {
	return fmt.Sprintf("SimpleRandomQsc(size=%d, threshold=%d, adapt=%v)",
		q.desiredQuorumSetSize, q.desiredThreshold, q.adaptUntilSatisfied)
}
