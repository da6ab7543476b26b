package shell

import (
	"errors"
	"slices"
	"testing"
)

func TestSceneOrdering(t *testing.T) {
	s := NewScene()
	a, _ := s.CreateNode(s.Root(), 1)
	b, _ := s.CreateNode(s.Root(), 2)
	c, _ := s.CreateNode(s.Root(), 3)

	s.PlaceBelow(c, a)
	if got := s.Children(s.Root()); !slices.Equal(got, []NodeID{c, a, b}) {
		t.Fatalf("after PlaceBelow: %v", got)
	}
	s.PlaceAbove(c, b)
	if got := s.Children(s.Root()); !slices.Equal(got, []NodeID{a, b, c}) {
		t.Fatalf("after PlaceAbove: %v", got)
	}
	if !s.Below(a, c) || s.Below(c, a) {
		t.Fatalf("Below disagrees with child order")
	}
}

func TestSceneIgnoresCrossParentPlacement(t *testing.T) {
	s := NewScene()
	p1, _ := s.CreateNode(s.Root(), 0)
	p2, _ := s.CreateNode(s.Root(), 0)
	a, _ := s.CreateNode(p1, 1)
	b, _ := s.CreateNode(p2, 2)
	v := s.Version()
	s.PlaceAbove(a, b)
	if s.Version() != v {
		t.Fatalf("cross-parent placement mutated the scene")
	}
}

func TestSceneDestroyRemovesSubtree(t *testing.T) {
	s := NewScene()
	p, _ := s.CreateNode(s.Root(), 0)
	child, _ := s.CreateNode(p, 7)
	grand, _ := s.CreateNode(child, 8)
	s.DestroyNode(p)
	for _, n := range []NodeID{p, child, grand} {
		if s.Exists(n) {
			t.Fatalf("node %d survived destroy of its ancestor", n)
		}
	}
	if len(s.Children(s.Root())) != 0 {
		t.Fatalf("root still lists destroyed child")
	}
}

func TestSceneFlattenVisibility(t *testing.T) {
	s := NewScene()
	hidden, _ := s.CreateNode(s.Root(), 0)
	s.CreateNode(hidden, 1)
	shown, _ := s.CreateNode(s.Root(), 0)
	s.CreateNode(shown, 2)
	s.SetEnabled(hidden, false)

	want := []SceneEntry{{Payload: 1, Visible: false}, {Payload: 2, Visible: true}}
	if got := s.Flatten(); !slices.Equal(got, want) {
		t.Fatalf("Flatten = %+v, want %+v", got, want)
	}
}

func TestSceneLimit(t *testing.T) {
	s := NewScene()
	s.SetLimit(2)
	if _, err := s.CreateNode(s.Root(), 0); err != nil {
		t.Fatalf("CreateNode under limit: %v", err)
	}
	if _, err := s.CreateNode(s.Root(), 0); !errors.Is(err, ErrAllocationFailure) {
		t.Fatalf("CreateNode over limit: got %v", err)
	}
}
