// Package graphgen generates synthetic network topologies (full mesh,
// Barabási–Albert scale-free, Watts–Strogatz small-world) used by
// graph-backed quorum-set configurators to assign validators from a
// node's neighborhood.
//
// Every generator takes an explicit *rand.Rand rather than reaching for a
// package-level default, so simulation runs are reproducible given a seed
// (see NewRand for a convenience constructor when the caller doesn't care).
package graphgen

import (
	"errors"
	"fmt"
	"math/bits"
	"math/rand"
)

// Graph is an outgoing-neighbor-list representation over NodeId 0..n-1.
// Undirected graphs maintain the symmetry invariant (j in outlinks[i] iff
// i in outlinks[j]); this package only ever produces undirected graphs.
// No self-loops.
type Graph struct {
	outlinks [][]int
}

// NewRand returns a *rand.Rand seeded with seed, for callers that want
// reproducibility without managing their own source.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// New builds a Graph directly from an outlink representation. The caller
// is responsible for any invariants (undirectedness, no self-loops) it
// wants to hold.
func New(outlinks [][]int) *Graph {
	return &Graph{outlinks: outlinks}
}

// N returns the number of nodes in the graph.
func (g *Graph) N() int { return len(g.outlinks) }

// Outlinks returns the outgoing neighbors of node i, in insertion order.
// The returned slice must not be mutated by the caller.
func (g *Graph) Outlinks(i int) []int { return g.outlinks[i] }

// FullMesh builds a graph where every node is connected to every other.
func FullMesh(n int) *Graph {
	outlinks := make([][]int, n)
	for i := 0; i < n; i++ {
		links := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				links = append(links, j)
			}
		}
		outlinks[i] = links
	}
	return New(outlinks)
}

// ScaleFreeBA builds a scale-free graph using the Barabási–Albert model:
// a complete graph on the first m0 nodes, then each subsequent node makes
// m preferential-attachment picks (weighted by current degree, without
// replacement) to existing nodes. Requires 0 < m <= m0 <= n.
func ScaleFreeBA(n, m0, m int, rng *rand.Rand) (*Graph, error) {
	if !(0 < m && m <= m0 && m0 <= n) {
		return nil, errors.New("graphgen: ScaleFreeBA requires 0 < m <= m0 <= n")
	}

	outlinks := make([][]int, n)
	connect := func(a, b int) {
		outlinks[a] = append(outlinks[a], b)
		outlinks[b] = append(outlinks[b], a)
	}

	for i := 0; i < m0; i++ {
		for j := i + 1; j < m0; j++ {
			connect(i, j)
		}
	}

	for i := m0; i < n; i++ {
		possible := make([]int, i)
		for j := 0; j < i; j++ {
			possible[j] = j
		}
		for k := 0; k < m; k++ {
			idx := chooseWeightedIndex(rng, possible, func(x int) int { return len(outlinks[x]) })
			j := possible[idx]
			connect(i, j)
			possible = append(possible[:idx], possible[idx+1:]...)
		}
	}

	return New(outlinks), nil
}

// chooseWeightedIndex samples an index into items with probability
// proportional to weight(items[idx]), mirroring the reference
// implementation's choose_weighted. All weights must be non-negative; if
// every weight is zero, sampling falls back to uniform.
func chooseWeightedIndex(rng *rand.Rand, items []int, weight func(int) int) int {
	total := 0
	for _, it := range items {
		total += weight(it)
	}
	if total == 0 {
		return rng.Intn(len(items))
	}
	target := rng.Intn(total)
	cum := 0
	for idx, it := range items {
		cum += weight(it)
		if target < cum {
			return idx
		}
	}
	return len(items) - 1
}

// SmallWorldWS builds a small-world graph using the Watts–Strogatz model:
// a ring lattice with k/2 nearest neighbors on each side, then each
// forward-half edge is rewired with probability beta to a uniformly
// chosen non-adjacent target. Requires k even and k < n.
func SmallWorldWS(n, k int, beta float64, rng *rand.Rand) (*Graph, error) {
	if k%2 != 0 {
		return nil, errors.New("graphgen: SmallWorldWS requires an even k")
	}
	if k >= n {
		return nil, errors.New("graphgen: SmallWorldWS requires k < n")
	}

	adjacent := make([][]bool, n)
	for i := range adjacent {
		adjacent[i] = make([]bool, n)
	}

	for i := 0; i < n; i++ {
		for d := 1; d <= k/2; d++ {
			j := (i + d) % n
			adjacent[i][j] = true
			adjacent[j][i] = true
		}
	}

	possibleTargets := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && !adjacent[i][j] {
				possibleTargets[i] = append(possibleTargets[i], j)
			}
		}
	}

	for i := 0; i < n; i++ {
		var toRewire []int
		for d := 1; d <= k/2; d++ {
			j := (i + d) % n
			if adjacent[i][j] && rng.Float64() < beta {
				toRewire = append(toRewire, j)
			}
		}
		for _, j := range toRewire {
			targets := possibleTargets[i]
			if len(targets) == 0 {
				continue
			}
			newj := targets[rng.Intn(len(targets))]

			adjacent[i][j] = false
			adjacent[j][i] = false
			adjacent[i][newj] = true
			adjacent[newj][i] = true

			possibleTargets[i] = append(removeValue(possibleTargets[i], newj), j)
			possibleTargets[j] = append(possibleTargets[j], i)
			possibleTargets[newj] = removeValue(possibleTargets[newj], i)
		}
	}

	outlinks := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if adjacent[i][j] {
				outlinks[i] = append(outlinks[i], j)
			}
		}
	}
	return New(outlinks), nil
}

func removeValue(xs []int, v int) []int {
	out := xs[:0]
	for _, x := range xs {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// Shuffled returns an isomorphic graph under a uniformly random NodeId
// permutation.
func (g *Graph) Shuffled(rng *rand.Rand) *Graph {
	n := g.N()
	oldToNew := rng.Perm(n)
	newToOld := make([]int, n)
	for old, nw := range oldToNew {
		newToOld[nw] = old
	}

	newOutlinks := make([][]int, n)
	for nw, old := range newToOld {
		links := make([]int, len(g.outlinks[old]))
		for i, oj := range g.outlinks[old] {
			links[i] = oldToNew[oj]
		}
		newOutlinks[nw] = links
	}
	return New(newOutlinks)
}

// IsUndirected reports whether every edge in g is symmetric.
func (g *Graph) IsUndirected() bool {
	for i, links := range g.outlinks {
		for _, j := range links {
			found := false
			for _, x := range g.outlinks[j] {
				if x == i {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// InDegrees returns, for each node, the number of edges pointing to it.
// Mirrors the reference implementation's checked_add: an overflowing
// count returns an error rather than wrapping silently.
func (g *Graph) InDegrees() ([]int, error) {
	result := make([]int, g.N())
	for _, links := range g.outlinks {
		for _, j := range links {
			sum, carry := bits.Add(uint(result[j]), 1, 0)
			if carry != 0 {
				return nil, fmt.Errorf("graphgen: in-degree overflow at node %d", j)
			}
			result[j] = int(sum)
		}
	}
	return result, nil
}

// OutDegrees returns, for each node, the number of outgoing edges.
func (g *Graph) OutDegrees() []int {
	result := make([]int, g.N())
	for i, links := range g.outlinks {
		result[i] = len(links)
	}
	return result
}
