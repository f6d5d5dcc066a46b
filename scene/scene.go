// Package scene is an editable cuboid model: a tree of groups (bones) and
// cubes in editor space, the texture size and keyframe animations.
//
// Nodes are stored in an arena. A node refers to its parent by NodeID, and a
// group lists its children in order. Children lists are only trusted for
// ordering: a node belongs to a group iff its Parent is that group.
package scene

import (
	"fmt"

	"github.com/binzume/emjconv/geom"
	"github.com/pkg/errors"
)

type NodeID int

// NoParent is the Parent of root nodes.
const NoParent NodeID = -1

type NodeKind int

const (
	KindGroup NodeKind = iota
	KindCube
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindCube:
		return "cube"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

type Node struct {
	ID       NodeID
	Kind     NodeKind
	Name     string
	Parent   NodeID
	Children []NodeID

	// Exactly one is set, according to Kind.
	Group *Group
	Cube  *Cube
}

// Group is a bone. Origin is absolute; Rotation is in degrees.
type Group struct {
	Origin   geom.Vector3
	Rotation geom.Vector3
}

// Cube corners are absolute.
type Cube struct {
	From     geom.Vector3
	To       geom.Vector3
	Inflate  float64
	MirrorUV bool
	UVOffset geom.Vector2

	// TexScale multiplies the texture size for this cube. nil is {1, 1}.
	TexScale *geom.Vector2
}

func (c *Cube) Size() *geom.Vector3 {
	return c.To.Sub(&c.From)
}

// TextureSize returns the texture size scaled by TexScale.
func (c *Cube) TextureSize(tex TextureSize) (float64, float64) {
	w, h := float64(tex.Width), float64(tex.Height)
	if c.TexScale != nil {
		w *= c.TexScale.X
		h *= c.TexScale.Y
	}
	return w, h
}

type TextureSize struct {
	Width  int
	Height int
}

// MeshOptions are layer settings that have no meaning in the editor but are
// kept so an imported model exports with them.
type MeshOptions struct {
	Parent                   *string
	UniversalCubeDeformation *float64
	Overwrite                *bool
	FixVanillaOffset         *bool
}

type Scene struct {
	Name       string
	Nodes      []*Node
	Roots      []NodeID
	Texture    TextureSize
	Mesh       MeshOptions
	Animations []*Animation
}

func NewScene() *Scene {
	return &Scene{Texture: TextureSize{Width: 64, Height: 32}}
}

// Node returns the node with the given id, or nil.
func (s *Scene) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(s.Nodes) {
		return nil
	}
	return s.Nodes[id]
}

func (s *Scene) add(parent NodeID, n *Node) NodeID {
	n.ID = NodeID(len(s.Nodes))
	n.Parent = parent
	if parent == NoParent {
		s.Roots = append(s.Roots, n.ID)
	} else {
		p := s.Node(parent)
		if p == nil || p.Kind != KindGroup {
			panic(fmt.Sprintf("scene: node %d is not a group", parent))
		}
		p.Children = append(p.Children, n.ID)
	}
	s.Nodes = append(s.Nodes, n)
	return n.ID
}

// AddGroup creates a group under parent (NoParent for a root node).
func (s *Scene) AddGroup(parent NodeID, name string, g Group) NodeID {
	return s.add(parent, &Node{Kind: KindGroup, Name: name, Group: &g})
}

// AddCube creates a cube under parent (NoParent for a root node).
func (s *Scene) AddCube(parent NodeID, name string, c Cube) NodeID {
	return s.add(parent, &Node{Kind: KindCube, Name: name, Cube: &c})
}

// ChildrenOf returns the direct children of a group in order. Entries of the
// children list whose Parent is another node are skipped, as are repeats.
func (s *Scene) ChildrenOf(id NodeID) []*Node {
	p := s.Node(id)
	if p == nil {
		return nil
	}
	var children []*Node
	seen := map[NodeID]bool{}
	for _, cid := range p.Children {
		c := s.Node(cid)
		if c == nil || c.Parent != id || seen[cid] {
			continue
		}
		seen[cid] = true
		children = append(children, c)
	}
	return children
}

// RootNodes returns the top-level nodes in order.
func (s *Scene) RootNodes() []*Node {
	var roots []*Node
	for _, id := range s.Roots {
		if n := s.Node(id); n != nil && n.Parent == NoParent {
			roots = append(roots, n)
		}
	}
	return roots
}

// Move reparents a node. The node is appended to the end of the new parent's
// children. Moving a node under itself or one of its descendants is an error.
func (s *Scene) Move(id, parent NodeID) error {
	n := s.Node(id)
	if n == nil {
		return errors.Errorf("move: no node %d", id)
	}
	var p *Node
	if parent != NoParent {
		p = s.Node(parent)
		if p == nil || p.Kind != KindGroup {
			return errors.Errorf("move: node %d is not a group", parent)
		}
		for a := p; a != nil; a = s.Node(a.Parent) {
			if a.ID == id {
				return errors.Errorf("move: node %d is %d or its descendant", parent, id)
			}
		}
	}

	if n.Parent == NoParent {
		s.Roots = removeID(s.Roots, id)
	} else if old := s.Node(n.Parent); old != nil {
		old.Children = removeID(old.Children, id)
	}
	n.Parent = parent
	if p == nil {
		s.Roots = append(s.Roots, id)
	} else {
		p.Children = append(p.Children, id)
	}
	return nil
}

func removeID(ids []NodeID, id NodeID) []NodeID {
	dst := ids[:0]
	for _, v := range ids {
		if v != id {
			dst = append(dst, v)
		}
	}
	return dst
}

// Walk visits the tree depth-first in order. depth is 0 for root nodes.
func (s *Scene) Walk(fn func(n *Node, depth int)) {
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		fn(n, depth)
		if n.Kind == KindGroup {
			for _, c := range s.ChildrenOf(n.ID) {
				walk(c, depth+1)
			}
		}
	}
	for _, n := range s.RootNodes() {
		walk(n, 0)
	}
}

// Attach copies the tree of src into s as new root nodes and adopts its
// texture size and mesh options. It returns the ids of the new roots.
func (s *Scene) Attach(src *Scene) []NodeID {
	var roots []NodeID
	var copyNode func(n *Node, parent NodeID) NodeID
	copyNode = func(n *Node, parent NodeID) NodeID {
		switch n.Kind {
		case KindGroup:
			id := s.AddGroup(parent, n.Name, *n.Group)
			for _, c := range src.ChildrenOf(n.ID) {
				copyNode(c, id)
			}
			return id
		case KindCube:
			c := *n.Cube
			if c.TexScale != nil {
				ts := *c.TexScale
				c.TexScale = &ts
			}
			return s.AddCube(parent, n.Name, c)
		}
		panic(fmt.Sprintf("scene: unknown node kind %v", n.Kind))
	}
	for _, n := range src.RootNodes() {
		roots = append(roots, copyNode(n, NoParent))
	}
	s.Texture = src.Texture
	s.Mesh = src.Mesh
	return roots
}

// FindGroup returns the first group with the given name in walk order.
func (s *Scene) FindGroup(name string) *Node {
	var found *Node
	s.Walk(func(n *Node, depth int) {
		if found == nil && n.Kind == KindGroup && n.Name == name {
			found = n
		}
	})
	return found
}
