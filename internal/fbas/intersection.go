package fbas

// AllNodeSetsIntersect reports whether every unordered pair of distinct
// sets in sets shares at least one member. A list of length <= 1 trivially
// satisfies this. The result does not depend on the order of sets.
func AllNodeSetsIntersect(sets []NodeSet) bool {
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			if sets[i].IsDisjoint(sets[j]) {
				return false
			}
		}
	}
	return true
}

// HasQuorumIntersection reports whether every pair of distinct minimal
// quorums in net shares at least one node — the structural safety
// property of the FBAS.
func HasQuorumIntersection(net *Network) bool {
	return AllNodeSetsIntersect(GetMinimalQuorums(net))
}
