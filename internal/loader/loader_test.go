package loader_test

import (
	"strings"
	"testing"

	"github.com/octoreflex/fbas-analyzer/internal/loader"
)

func TestLoadNetwork_CorrectTrivial(t *testing.T) {
	const doc = `[
		{"publicKey": "A", "quorumSet": {"threshold": 2, "validators": ["A", "B", "C"]}},
		{"publicKey": "B", "quorumSet": {"threshold": 2, "validators": ["A", "B", "C"]}},
		{"publicKey": "C", "quorumSet": {"threshold": 2, "validators": ["A", "B", "C"]}}
	]`

	net, err := loader.LoadNetwork([]byte(doc))
	if err != nil {
		t.Fatalf("LoadNetwork: %v", err)
	}
	if net.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", net.Len())
	}
	for i, node := range net.Nodes {
		if node.QuorumSet.Threshold != 2 {
			t.Errorf("node %d: expected threshold 2, got %d", i, node.QuorumSet.Threshold)
		}
		if len(node.QuorumSet.Validators) != 3 {
			t.Errorf("node %d: expected 3 validators, got %d", i, len(node.QuorumSet.Validators))
		}
	}
}

func TestLoadNetwork_ResolvesPublicKeysByArrayPosition(t *testing.T) {
	const doc = `[
		{"publicKey": "X", "quorumSet": {"threshold": 1, "validators": ["Y"]}},
		{"publicKey": "Y", "quorumSet": {"threshold": 1, "validators": ["X"]}}
	]`

	net, err := loader.LoadNetwork([]byte(doc))
	if err != nil {
		t.Fatalf("LoadNetwork: %v", err)
	}
	if net.Nodes[0].QuorumSet.Validators[0] != 1 {
		t.Errorf("expected node 0's validator to resolve to NodeId 1, got %d", net.Nodes[0].QuorumSet.Validators[0])
	}
	if net.Nodes[1].QuorumSet.Validators[0] != 0 {
		t.Errorf("expected node 1's validator to resolve to NodeId 0, got %d", net.Nodes[1].QuorumSet.Validators[0])
	}
}

func TestLoadNetwork_InnerQuorumSets(t *testing.T) {
	const doc = `[
		{"publicKey": "0", "quorumSet": {"threshold": 1, "validators": ["0"]}},
		{"publicKey": "1", "quorumSet": {"threshold": 1, "validators": ["1"]}},
		{"publicKey": "2", "quorumSet": {"threshold": 1, "validators": ["2"]}},
		{"publicKey": "3", "quorumSet": {"threshold": 1, "validators": ["3"]}},
		{"publicKey": "4", "quorumSet": {"threshold": 1, "validators": ["4"]}},
		{"publicKey": "5", "quorumSet": {"threshold": 1, "validators": ["5"]}},
		{"publicKey": "6", "quorumSet": {
			"threshold": 3,
			"validators": ["0", "1"],
			"innerQuorumSets": [
				{"threshold": 2, "validators": ["2", "3", "4"]},
				{"threshold": 2, "validators": ["4", "5", "6"]}
			]
		}}
	]`

	net, err := loader.LoadNetwork([]byte(doc))
	if err != nil {
		t.Fatalf("LoadNetwork: %v", err)
	}
	q := net.Nodes[6].QuorumSet
	if q.Threshold != 3 || len(q.Validators) != 2 || len(q.InnerQuorumSets) != 2 {
		t.Fatalf("unexpected quorum set shape: %+v", q)
	}
}

func TestLoadNetwork_RejectsUnresolvedPublicKey(t *testing.T) {
	const doc = `[
		{"publicKey": "A", "quorumSet": {"threshold": 1, "validators": ["does-not-exist"]}}
	]`
	_, err := loader.LoadNetwork([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "unresolved publicKey") {
		t.Fatalf("expected an unresolved publicKey error, got %v", err)
	}
}

func TestLoadNetwork_RejectsNegativeThreshold(t *testing.T) {
	const doc = `[
		{"publicKey": "A", "quorumSet": {"threshold": -1, "validators": []}}
	]`
	_, err := loader.LoadNetwork([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "negative threshold") {
		t.Fatalf("expected a negative threshold error, got %v", err)
	}
}

func TestLoadNetwork_RejectsThresholdExceedingCapacity(t *testing.T) {
	const doc = `[
		{"publicKey": "A", "quorumSet": {"threshold": 5, "validators": ["A"]}}
	]`
	_, err := loader.LoadNetwork([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("expected a threshold-exceeds-capacity error, got %v", err)
	}
}

func TestLoadNetwork_RejectsDuplicatePublicKey(t *testing.T) {
	const doc = `[
		{"publicKey": "A", "quorumSet": {"threshold": 1, "validators": ["A"]}},
		{"publicKey": "A", "quorumSet": {"threshold": 1, "validators": ["A"]}}
	]`
	_, err := loader.LoadNetwork([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "duplicate publicKey") {
		t.Fatalf("expected a duplicate publicKey error, got %v", err)
	}
}

func TestLoadNetwork_RejectsMalformedJSON(t *testing.T) {
	_, err := loader.LoadNetwork([]byte(`not json`))
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestLoadNetworkFile_MissingFile(t *testing.T) {
	_, err := loader.LoadNetworkFile("/nonexistent/path/network.json")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
