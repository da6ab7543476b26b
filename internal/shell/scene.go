package shell

import (
	"fmt"
	"slices"
)

// NodeID is an opaque stacking handle.
type NodeID uint32

// Stacker is the display stacking-order service. The shell never draws; it
// only creates, orders and toggles opaque nodes. Siblings are ordered bottom
// to top.
type Stacker interface {
	CreateNode(parent NodeID, payload uint32) (NodeID, error)
	DestroyNode(node NodeID)
	PlaceAbove(node, sibling NodeID)
	PlaceBelow(node, sibling NodeID)
	SetEnabled(node NodeID, enabled bool)
}

type sceneNode struct {
	id       NodeID
	parent   NodeID
	children []NodeID
	payload  uint32
	enabled  bool
}

// Scene is an in-memory Stacker. Nodes carry an optional payload (a window
// id for the X11 backend) and are realized by flattening the tree.
type Scene struct {
	nodes   map[NodeID]*sceneNode
	root    NodeID
	last    NodeID
	version uint64
	limit   int
}

var _ Stacker = (*Scene)(nil)

// NewScene creates a scene holding only its root node.
func NewScene() *Scene {
	s := &Scene{nodes: make(map[NodeID]*sceneNode)}
	s.last++
	s.root = s.last
	s.nodes[s.root] = &sceneNode{id: s.root, enabled: true}
	return s
}

// SetLimit caps the number of nodes the scene will hold. 0 disables the cap.
func (s *Scene) SetLimit(n int) {
	s.limit = n
}

// Root returns the root node every output tree hangs from.
func (s *Scene) Root() NodeID {
	return s.root
}

// Version increments on every mutation, so callers can skip redundant flushes.
func (s *Scene) Version() uint64 {
	return s.version
}

// CreateNode adds an enabled node on top of parent's children.
func (s *Scene) CreateNode(parent NodeID, payload uint32) (NodeID, error) {
	p, ok := s.nodes[parent]
	if !ok {
		return 0, fmt.Errorf("parent node %d: %w", parent, ErrAllocationFailure)
	}
	if s.limit > 0 && len(s.nodes) >= s.limit {
		return 0, fmt.Errorf("scene holds %d nodes: %w", len(s.nodes), ErrAllocationFailure)
	}
	s.last++
	n := &sceneNode{id: s.last, parent: parent, payload: payload, enabled: true}
	s.nodes[n.id] = n
	p.children = append(p.children, n.id)
	s.version++
	return n.id, nil
}

// DestroyNode removes node and its whole subtree.
func (s *Scene) DestroyNode(node NodeID) {
	n, ok := s.nodes[node]
	if !ok || node == s.root {
		return
	}
	if p, ok := s.nodes[n.parent]; ok {
		p.children = slices.DeleteFunc(p.children, func(c NodeID) bool { return c == node })
	}
	s.destroySubtree(n)
	s.version++
}

func (s *Scene) destroySubtree(n *sceneNode) {
	for _, c := range n.children {
		if child, ok := s.nodes[c]; ok {
			s.destroySubtree(child)
		}
	}
	delete(s.nodes, n.id)
}

// PlaceAbove moves node directly above sibling. Nodes with different parents
// are left alone.
func (s *Scene) PlaceAbove(node, sibling NodeID) {
	s.place(node, sibling, 1)
}

// PlaceBelow moves node directly below sibling.
func (s *Scene) PlaceBelow(node, sibling NodeID) {
	s.place(node, sibling, 0)
}

func (s *Scene) place(node, sibling NodeID, offset int) {
	if node == sibling {
		return
	}
	n, ok := s.nodes[node]
	if !ok {
		return
	}
	sib, ok := s.nodes[sibling]
	if !ok || sib.parent != n.parent {
		return
	}
	p := s.nodes[n.parent]
	p.children = slices.DeleteFunc(p.children, func(c NodeID) bool { return c == node })
	at := slices.Index(p.children, sibling) + offset
	p.children = slices.Insert(p.children, at, node)
	s.version++
}

// SetEnabled toggles whether node (and its subtree) is shown.
func (s *Scene) SetEnabled(node NodeID, enabled bool) {
	n, ok := s.nodes[node]
	if !ok || n.enabled == enabled {
		return
	}
	n.enabled = enabled
	s.version++
}

// Enabled reports whether node itself is enabled.
func (s *Scene) Enabled(node NodeID) bool {
	n, ok := s.nodes[node]
	return ok && n.enabled
}

// Exists reports whether node is alive.
func (s *Scene) Exists(node NodeID) bool {
	_, ok := s.nodes[node]
	return ok
}

// Children returns parent's children bottom to top.
func (s *Scene) Children(parent NodeID) []NodeID {
	p, ok := s.nodes[parent]
	if !ok {
		return nil
	}
	return slices.Clone(p.children)
}

// Below reports whether a is stacked below b. Both must share a parent.
func (s *Scene) Below(a, b NodeID) bool {
	na, ok := s.nodes[a]
	if !ok {
		return false
	}
	nb, ok := s.nodes[b]
	if !ok || na.parent != nb.parent {
		return false
	}
	siblings := s.nodes[na.parent].children
	return slices.Index(siblings, a) < slices.Index(siblings, b)
}

// SceneEntry is one payload-carrying node in flattened order.
type SceneEntry struct {
	Payload uint32
	Visible bool
}

// Flatten walks the tree depth first and returns payload nodes bottom to
// top. A node is visible when it and every ancestor are enabled.
func (s *Scene) Flatten() []SceneEntry {
	var out []SceneEntry
	var walk func(id NodeID, visible bool)
	walk = func(id NodeID, visible bool) {
		n := s.nodes[id]
		visible = visible && n.enabled
		if n.payload != 0 {
			out = append(out, SceneEntry{Payload: n.payload, Visible: visible})
		}
		for _, c := range n.children {
			walk(c, visible)
		}
	}
	walk(s.root, true)
	return out
}
