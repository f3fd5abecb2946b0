package octree

import (
	"slices"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"

	"go.viam.com/sceneindex/spatialmath"
)

// Node binds a payload to the bounding box the octree places it by, and tracks the cells that
// currently store it.
type Node struct {
	id     uuid.UUID
	object Bounded
	aabb   spatialmath.AABB
	center r3.Vector

	tree *Octree
	// leaves are the cells that store this node and whose bounds were grown to include it.
	leaves []CellID
	// home is the cell a re-insertion after a move starts from.
	home CellID
	// tag is the last query that visited this node.
	tag   QueryID
	dirty bool

	onInserted func(*Node)
}

// NodeOption configures a Node.
type NodeOption func(*Node)

// WithInsertedHook registers a function called every time the node's placement completes,
// on Insert and whenever Adjust re-homes it.
func WithInsertedHook(fn func(*Node)) NodeOption {
	return func(n *Node) {
		n.onInserted = fn
	}
}

// NewNode returns a node for object, placed by aabb.
func NewNode(object Bounded, aabb spatialmath.AABB, opts ...NodeOption) *Node {
	n := &Node{
		id:     uuid.New(),
		object: object,
		aabb:   aabb,
		center: aabb.Center(),
		home:   NoCell,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ID returns the node's unique id.
func (n *Node) ID() uuid.UUID {
	return n.id
}

// Object returns the payload.
func (n *Node) Object() Bounded {
	return n.object
}

// AABB returns the box the node is placed by.
func (n *Node) AABB() spatialmath.AABB {
	return n.aabb
}

// Center returns the center of the node's box as of the last SetAABB.
func (n *Node) Center() r3.Vector {
	return n.center
}

// SetAABB replaces the node's box, recomputes its center and marks it dirty. The node keeps its
// current placement until Adjust is called.
func (n *Node) SetAABB(aabb spatialmath.AABB) {
	n.aabb = aabb
	n.center = aabb.Center()
	n.dirty = true
}

// Dirty reports whether the box changed since the node was last placed.
func (n *Node) Dirty() bool {
	return n.dirty
}

// Inserted reports whether the node currently belongs to a tree.
func (n *Node) Inserted() bool {
	return n.tree != nil
}

// Home returns the cell a re-insertion starts from, or NoCell if the node is not in a tree.
func (n *Node) Home() CellID {
	return n.home
}

// Leaves returns the cells storing the node.
func (n *Node) Leaves() []CellID {
	return slices.Clone(n.leaves)
}

// Adjust moves the node to a new placement if its box has left the one it has. A node stored at
// its home moves once it would no longer be stored there; a node split below its home moves once
// the home cube stops containing it. Otherwise the cells storing it only grow their bounds. It
// does nothing for nodes that are not dirty or not in a tree. The move starts at the node's home,
// or at the nearest ancestor of it that contains the new box.
func (n *Node) Adjust() {
	if !n.dirty {
		return
	}
	n.dirty = false
	if n.tree == nil {
		return
	}
	n.tree.adjust(n)
}

// RemoveSelf detaches the node from every cell that stores it. The node can be inserted again
// later. Calling it on a detached node does nothing.
func (n *Node) RemoveSelf() {
	if n.tree == nil {
		return
	}
	n.tree.detach(n)
	n.tree = nil
	n.home = NoCell
}

func (n *Node) addLeaf(id CellID) {
	if !slices.Contains(n.leaves, id) {
		n.leaves = append(n.leaves, id)
	}
}

func (n *Node) removeLeaf(id CellID) {
	if idx := slices.Index(n.leaves, id); idx >= 0 {
		n.leaves = slices.Delete(n.leaves, idx, idx+1)
	}
}

func (n *Node) inserted(home CellID) {
	if n.onInserted != nil && home != NoCell {
		n.onInserted(n)
	}
}

// payload returns what a query reports for this node: its object, or the node itself when it
// was created without one.
func (n *Node) payload() Bounded {
	if n.object == nil {
		return n
	}
	return n.object
}

func (n *Node) payloadAABB() spatialmath.AABB {
	return n.payload().AABB()
}
