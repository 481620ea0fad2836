package fbas

import (
	"sort"
	"time"
)

// Stats records instrumentation counters gathered while enumerating
// minimal quorums: how many times the quorum predicate was evaluated, and
// how long each evaluation took. Populated by GetMinimalQuorumsWithStats
// for callers that need to feed a metrics system; GetMinimalQuorums
// discards it.
type Stats struct {
	QuorumChecks   int
	CheckDurations []time.Duration
}

// GetMinimalQuorums returns every subset-minimal quorum in net: a quorum
// with no proper subset that is itself a quorum. The result is ordered by
// ascending cardinality, ties broken by ascending lexicographic order of
// members.
//
// The search is a depth-first binary exploration over node inclusion,
// processing candidates LIFO (highest NodeId first), matching the
// reference algorithm's candidate-stack order. Once a selection is found
// to be a quorum, the search returns from that frame without exploring
// either branch: every selection below it contains the quorum just found,
// so none of them can be a minimal quorum. The minimality filter below is
// still applied afterward as a safety net.
func GetMinimalQuorums(net *Network) []NodeSet {
	quorums, _ := GetMinimalQuorumsWithStats(net)
	return quorums
}

// GetMinimalQuorumsWithStats behaves like GetMinimalQuorums but also
// returns Stats describing every IsQuorum evaluation performed during the
// search, for callers that report quorum-check metrics.
func GetMinimalQuorumsWithStats(net *Network) ([]NodeSet, Stats) {
	n := net.Len()
	candidates := make([]NodeId, n)
	for i := 0; i < n; i++ {
		candidates[i] = NodeId(i)
	}

	var found []NodeSet
	var selection NodeSet
	var stats Stats
	enumerateStep(net, candidates, &selection, &found, &stats)

	return filterMinimal(found), stats
}

// enumerateStep explores the binary include/exclude tree over the
// remaining candidates (processed as a LIFO stack: the last candidate is
// tried first), accumulating quorums it finds into found.
func enumerateStep(net *Network, candidates []NodeId, selection *NodeSet, found *[]NodeSet, stats *Stats) {
	checkStart := time.Now()
	isQuorum := net.IsQuorum(*selection)
	stats.QuorumChecks++
	stats.CheckDurations = append(stats.CheckDurations, time.Since(checkStart))

	if isQuorum {
		*found = append(*found, selection.Clone())
		return
	}
	if len(candidates) == 0 {
		return
	}

	last := len(candidates) - 1
	c := candidates[last]
	rest := candidates[:last]

	selection.Insert(c)
	enumerateStep(net, rest, selection, found, stats)
	selection.Remove(c)

	enumerateStep(net, rest, selection, found, stats)
}

// filterMinimal sorts quorums by ascending cardinality and keeps only
// those with no previously-kept quorum as a proper or equal subset.
func filterMinimal(quorums []NodeSet) []NodeSet {
	sort.Slice(quorums, func(i, j int) bool {
		return lessNodeSet(quorums[i], quorums[j])
	})

	var minimal []NodeSet
	for _, q := range quorums {
		isMinimal := true
		for _, kept := range minimal {
			if kept.IsSubset(q) {
				isMinimal = false
				break
			}
		}
		if isMinimal {
			minimal = append(minimal, q)
		}
	}
	return minimal
}

// lessNodeSet orders by ascending cardinality, then ascending
// lexicographic order of members (ascending iteration order).
func lessNodeSet(a, b NodeSet) bool {
	al, bl := a.Len(), b.Len()
	if al != bl {
		return al < bl
	}
	ai, bi := a.Iter(), b.Iter()
	for i := 0; i < len(ai) && i < len(bi); i++ {
		if ai[i] != bi[i] {
			return ai[i] < bi[i]
		}
	}
	return len(ai) < len(bi)
}
