package graphgen_test

import (
	"testing"

	"github.com/octoreflex/fbas-analyzer/internal/graphgen"
)

func TestFullMesh_EveryPairConnected(t *testing.T) {
	g := graphgen.FullMesh(5)
	if g.N() != 5 {
		t.Fatalf("expected 5 nodes, got %d", g.N())
	}
	for i := 0; i < 5; i++ {
		if len(g.Outlinks(i)) != 4 {
			t.Errorf("node %d: expected degree 4, got %d", i, len(g.Outlinks(i)))
		}
	}
	if !g.IsUndirected() {
		t.Error("expected full mesh to be undirected")
	}
}

func TestScaleFreeBA_RejectsInvalidParameters(t *testing.T) {
	rng := graphgen.NewRand(1)
	if _, err := graphgen.ScaleFreeBA(10, 3, 4, rng); err == nil {
		t.Error("expected error when m > m0")
	}
	if _, err := graphgen.ScaleFreeBA(3, 5, 1, rng); err == nil {
		t.Error("expected error when m0 > n")
	}
	if _, err := graphgen.ScaleFreeBA(10, 3, 0, rng); err == nil {
		t.Error("expected error when m == 0")
	}
}

func TestScaleFreeBA_DegreeAndSymmetryInvariants(t *testing.T) {
	rng := graphgen.NewRand(42)
	g, err := graphgen.ScaleFreeBA(50, 5, 3, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.N() != 50 {
		t.Fatalf("expected 50 nodes, got %d", g.N())
	}
	if !g.IsUndirected() {
		t.Error("expected scale-free graph to be undirected")
	}

	in, err := g.InDegrees()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := g.OutDegrees()
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("node %d: expected in-degree == out-degree for undirected graph, got %d vs %d", i, in[i], out[i])
		}
	}

	// Every node added after m0 contributes exactly m new edges.
	totalEdges := 0
	for _, d := range out {
		totalEdges += d
	}
	totalEdges /= 2
	m0Edges := 5 * 4 / 2
	wantEdges := m0Edges + (50-5)*3
	if totalEdges != wantEdges {
		t.Errorf("expected %d total edges, got %d", wantEdges, totalEdges)
	}
}

func TestSmallWorldWS_RejectsInvalidParameters(t *testing.T) {
	rng := graphgen.NewRand(1)
	if _, err := graphgen.SmallWorldWS(10, 3, 0.1, rng); err == nil {
		t.Error("expected error for odd k")
	}
	if _, err := graphgen.SmallWorldWS(10, 10, 0.1, rng); err == nil {
		t.Error("expected error when k >= n")
	}
}

func TestSmallWorldWS_PreservesEdgeCountAndSymmetry(t *testing.T) {
	rng := graphgen.NewRand(7)
	g, err := graphgen.SmallWorldWS(20, 4, 0.3, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.IsUndirected() {
		t.Error("expected small-world graph to be undirected")
	}
	// Rewiring moves one endpoint of an edge, so individual degrees change,
	// but the total edge count stays n*k/2.
	totalEdges := 0
	for i := 0; i < g.N(); i++ {
		totalEdges += len(g.Outlinks(i))
	}
	totalEdges /= 2
	if totalEdges != 20*4/2 {
		t.Errorf("expected %d edges to be preserved by rewiring, got %d", 20*4/2, totalEdges)
	}
}

func TestSmallWorldWS_ZeroBetaIsRingLattice(t *testing.T) {
	rng := graphgen.NewRand(1)
	g, err := graphgen.SmallWorldWS(10, 4, 0.0, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < g.N(); i++ {
		want := map[int]bool{(i + 1) % 10: true, (i + 2) % 10: true, (i + 9) % 10: true, (i + 8) % 10: true}
		for _, j := range g.Outlinks(i) {
			if !want[j] {
				t.Errorf("node %d: unexpected neighbor %d at beta=0", i, j)
			}
		}
	}
}

func TestShuffled_PreservesDegreeSequence(t *testing.T) {
	rng := graphgen.NewRand(3)
	g, err := graphgen.ScaleFreeBA(30, 4, 2, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	shuffled := g.Shuffled(rng)

	degrees := func(d []int) map[int]int {
		counts := make(map[int]int)
		for _, x := range d {
			counts[x]++
		}
		return counts
	}

	origCounts := degrees(g.OutDegrees())
	shuffledCounts := degrees(shuffled.OutDegrees())
	if len(origCounts) != len(shuffledCounts) {
		t.Fatalf("degree distributions differ in shape")
	}
	for d, c := range origCounts {
		if shuffledCounts[d] != c {
			t.Errorf("degree %d: expected count %d, got %d", d, c, shuffledCounts[d])
		}
	}
	if !shuffled.IsUndirected() {
		t.Error("expected shuffled graph to remain undirected")
	}
}

func TestIsUndirected_DetectsAsymmetry(t *testing.T) {
	g := graphgen.New([][]int{{1}, {}})
	if g.IsUndirected() {
		t.Error("expected asymmetric outlinks to fail IsUndirected")
	}
}
