package fbas_test

import (
	"testing"

	"github.com/octoreflex/fbas-analyzer/internal/fbas"
)

func TestNodeSet_InsertContainsRemove(t *testing.T) {
	var s fbas.NodeSet
	if !s.IsEmpty() {
		t.Fatal("zero value should be empty")
	}
	s.Insert(3)
	s.Insert(130)
	if s.Len() != 2 {
		t.Fatalf("expected len 2, got %d", s.Len())
	}
	if !s.Contains(3) || !s.Contains(130) {
		t.Fatal("expected both inserted ids to be contained")
	}
	if s.Contains(4) {
		t.Fatal("did not expect 4 to be contained")
	}
	s.Remove(3)
	if s.Contains(3) {
		t.Fatal("expected 3 to be removed")
	}
	if s.Len() != 1 {
		t.Fatalf("expected len 1 after remove, got %d", s.Len())
	}
}

func TestNodeSet_IterAscending(t *testing.T) {
	s := fbas.NodeSetOf(5, 1, 200, 3)
	got := s.Iter()
	want := []fbas.NodeId{1, 3, 5, 200}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestNodeSet_SubsetAndDisjoint(t *testing.T) {
	a := fbas.NodeSetOf(1, 2)
	b := fbas.NodeSetOf(1, 2, 3)
	c := fbas.NodeSetOf(4, 5)

	if !a.IsSubset(b) {
		t.Error("expected {1,2} subset of {1,2,3}")
	}
	if b.IsSubset(a) {
		t.Error("did not expect {1,2,3} subset of {1,2}")
	}
	if !a.IsDisjoint(c) {
		t.Error("expected {1,2} disjoint from {4,5}")
	}
	if a.IsDisjoint(b) {
		t.Error("did not expect {1,2} disjoint from {1,2,3}")
	}
}

func TestNodeSet_Equals(t *testing.T) {
	a := fbas.NodeSetOf(1, 200)
	b := fbas.NewNodeSet(300)
	b.Insert(1)
	b.Insert(200)
	if !a.Equals(b) {
		t.Error("expected extensional equality regardless of bitmap capacity")
	}
	b.Insert(201)
	if a.Equals(b) {
		t.Error("expected inequality after inserting an extra member")
	}
}

func TestNodeSet_CloneIsIndependent(t *testing.T) {
	a := fbas.NodeSetOf(1, 2)
	b := a.Clone()
	b.Insert(3)
	if a.Contains(3) {
		t.Error("expected clone to be independent of original")
	}
}
