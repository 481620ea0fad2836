// Package fbas implements the core data model and algorithms for analyzing
// Federated Byzantine Agreement Systems (FBAS) of the kind used by the
// Stellar Consensus Protocol: the quorum predicate, minimal-quorum
// enumeration, and quorum-intersection decision.
//
// The package is pure and synchronous: no I/O, no goroutines, no locks.
// Networks, quorum sets and node sets are values; once handed to an
// analysis function they are read-only except where a method is
// documented to mutate (the simulator owns the one exception, elsewhere
// in this module tree).
package fbas

// NodeId is a dense, non-negative index into a Network's node list. Stable
// for the lifetime of one Network value; reassigned on shuffling.
type NodeId int

// QuorumSet is a threshold formula over validators and nested quorum sets:
// it is satisfied by a NodeSet S iff at least Threshold of its validators
// lie in S, counting a satisfied inner QuorumSet as one more match.
//
// The zero value (Threshold: 0, both slices nil) is the distinguished
// "unconfigured" quorum set. Counting alone would make threshold 0
// trivially satisfied by any set, so IsSatisfiedBy special-cases it: the
// empty QuorumSet is never satisfied, by any set. This is what lets a
// freshly grown, not-yet-configured node sit in a Network without silently
// acting as a quorum witness for everything.
type QuorumSet struct {
	Threshold        int
	Validators       []NodeId
	InnerQuorumSets  []QuorumSet
}

// Empty reports whether q is the distinguished "unconfigured" quorum set:
// threshold zero, no validators, no inner quorum sets.
func (q QuorumSet) Empty() bool {
	return q.Threshold == 0 && len(q.Validators) == 0 && len(q.InnerQuorumSets) == 0
}

// Node pairs an opaque public key with the node's local quorum set. The
// core never interprets PublicKey; it exists purely for external loaders
// to resolve cross-references and for callers to identify nodes.
type Node struct {
	PublicKey []byte
	QuorumSet QuorumSet
}

// Network is an ordered sequence of Nodes; a Node's NodeId equals its
// position. Every NodeId referenced inside any QuorumSet in the network
// must be a valid index — this is an invariant maintained by constructors
// and the loader, never checked on the hot path.
type Network struct {
	Nodes []Node
}

// New returns an empty Network, ready to be grown by a Simulator or
// populated directly by a loader.
func New() *Network {
	return &Network{}
}

// Len returns the number of nodes in the network.
func (n *Network) Len() int {
	return len(n.Nodes)
}

// AddNode appends a node with an empty (unconfigured) quorum set and
// returns its freshly assigned NodeId.
func (n *Network) AddNode(publicKey []byte) NodeId {
	id := NodeId(len(n.Nodes))
	n.Nodes = append(n.Nodes, Node{PublicKey: publicKey})
	return id
}

// Clone returns a deep copy of the network, safe to mutate independently.
func (n *Network) Clone() *Network {
	out := &Network{Nodes: make([]Node, len(n.Nodes))}
	for i, node := range n.Nodes {
		out.Nodes[i] = Node{
			PublicKey: append([]byte(nil), node.PublicKey...),
			QuorumSet: cloneQuorumSet(node.QuorumSet),
		}
	}
	return out
}

func cloneQuorumSet(q QuorumSet) QuorumSet {
	out := QuorumSet{Threshold: q.Threshold}
	if q.Validators != nil {
		out.Validators = append([]NodeId(nil), q.Validators...)
	}
	if q.InnerQuorumSets != nil {
		out.InnerQuorumSets = make([]QuorumSet, len(q.InnerQuorumSets))
		for i, inner := range q.InnerQuorumSets {
			out.InnerQuorumSets[i] = cloneQuorumSet(inner)
		}
	}
	return out
}
