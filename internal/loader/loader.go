// Package loader parses the external JSON network format (a JSON array of
// nodes, each with a "publicKey" string and a "quorumSet" object holding
// "threshold", "validators" given as publicKeys, and "innerQuorumSets")
// into an *fbas.Network. The core package never parses
// JSON itself; this is the one place publicKey strings get resolved to
// NodeIds.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/octoreflex/fbas-analyzer/internal/fbas"
)

// jsonQuorumSet mirrors the wire format of a quorum set: validators are
// referenced by publicKey, resolved against the whole document after
// every node's publicKey is known.
type jsonQuorumSet struct {
	Threshold       int             `json:"threshold"`
	Validators      []string        `json:"validators"`
	InnerQuorumSets []jsonQuorumSet `json:"innerQuorumSets"`
}

type jsonNode struct {
	PublicKey string        `json:"publicKey"`
	QuorumSet jsonQuorumSet `json:"quorumSet"`
}

// LoadNetworkFile reads and parses a network JSON file from path.
func LoadNetworkFile(path string) (*fbas.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %q: %w", path, err)
	}
	net, err := LoadNetwork(data)
	if err != nil {
		return nil, fmt.Errorf("loader: %q: %w", path, err)
	}
	return net, nil
}

// LoadNetwork parses a network JSON document (a JSON array of nodes) into
// an *fbas.Network. NodeIds are assigned by array position. Validator
// references inside quorum sets are resolved by publicKey lookup; an
// unresolved reference is a load-time error, as is any quorum set whose
// threshold is negative or exceeds the number of things it could count.
func LoadNetwork(data []byte) (*fbas.Network, error) {
	var nodes []jsonNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("loader: invalid JSON: %w", err)
	}

	keyToID := make(map[string]fbas.NodeId, len(nodes))
	for i, n := range nodes {
		if _, dup := keyToID[n.PublicKey]; dup {
			return nil, fmt.Errorf("loader: duplicate publicKey %q", n.PublicKey)
		}
		keyToID[n.PublicKey] = fbas.NodeId(i)
	}

	net := fbas.New()
	for _, n := range nodes {
		net.AddNode([]byte(n.PublicKey))
	}

	for i, n := range nodes {
		qs, err := resolveQuorumSet(n.QuorumSet, keyToID)
		if err != nil {
			return nil, fmt.Errorf("loader: node %d (%q): %w", i, n.PublicKey, err)
		}
		net.Nodes[i].QuorumSet = qs
	}

	return net, nil
}

func resolveQuorumSet(q jsonQuorumSet, keyToID map[string]fbas.NodeId) (fbas.QuorumSet, error) {
	if q.Threshold < 0 {
		return fbas.QuorumSet{}, fmt.Errorf("negative threshold %d", q.Threshold)
	}

	validators := make([]fbas.NodeId, len(q.Validators))
	for i, key := range q.Validators {
		id, ok := keyToID[key]
		if !ok {
			return fbas.QuorumSet{}, fmt.Errorf("unresolved publicKey %q", key)
		}
		validators[i] = id
	}

	inner := make([]fbas.QuorumSet, len(q.InnerQuorumSets))
	for i, iq := range q.InnerQuorumSets {
		resolved, err := resolveQuorumSet(iq, keyToID)
		if err != nil {
			return fbas.QuorumSet{}, err
		}
		inner[i] = resolved
	}

	if q.Threshold > len(validators)+len(inner) {
		return fbas.QuorumSet{}, fmt.Errorf(
			"threshold %d exceeds %d validators + %d inner quorum sets",
			q.Threshold, len(validators), len(inner))
	}

	return fbas.QuorumSet{
		Threshold:       q.Threshold,
		Validators:      validators,
		InnerQuorumSets: inner,
	}, nil
}
