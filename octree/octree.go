// Package octree implements a lazy, dynamic octree over bounding boxes. It answers frustum and
// box queries for a scene whose objects move every frame. Cells are created on demand when a
// node needs them and are only destroyed by an explicit Clean pass.
//
// An Octree is not safe for concurrent use. A single owner is expected to insert, adjust, query
// and clean in sequence.
package octree

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/sceneindex/logging"
	"go.viam.com/sceneindex/spatialmath"
)

// Bounded is implemented by payloads stored in the octree. AABB returns the payload's own tight
// bounding box, which queries test after a cell has been accepted.
type Bounded interface {
	AABB() spatialmath.AABB
}

// Camera is the view a frustum query culls against.
type Camera interface {
	ClassifyBox(spatialmath.AABB) spatialmath.Classification
	Position() r3.Vector
}

// Octree is the root of the index. It owns an arena of cells; cell 0 is the root.
type Octree struct {
	cfg    Config
	logger logging.Logger

	cells []cell
	free  []CellID
	root  CellID
}

// New creates an empty octree covering the configured world cube.
func New(cfg Config, logger logging.Logger) (*Octree, error) {
	if err := cfg.Validate("octree"); err != nil {
		return nil, errors.Wrap(err, "invalid octree config")
	}

	o := &Octree{
		cfg:    cfg,
		logger: logger,
	}
	o.root = o.allocCell(NoCell, cfg.Center, cfg.Size, cfg.Depth)
	logger.Debugw("created octree", "size", cfg.Size, "depth", cfg.Depth, "center", cfg.Center)
	return o, nil
}

// Size returns the edge length of the world cube.
func (o *Octree) Size() float64 {
	return o.cfg.Size
}

// Depth returns the maximum number of subdivision levels.
func (o *Octree) Depth() int {
	return o.cfg.Depth
}

// Bounds returns the world cube.
func (o *Octree) Bounds() spatialmath.AABB {
	return o.cfg.Bounds()
}

// Root returns the id of the root cell.
func (o *Octree) Root() CellID {
	return o.root
}

// Insert places a node in the tree starting from the root. A node that already belongs to a
// tree is detached from it first.
func (o *Octree) Insert(n *Node) {
	if n.tree != nil {
		n.tree.detach(n)
	}
	n.tree = o
	n.home = NoCell
	n.center = n.aabb.Center()
	n.dirty = false

	o.insert(o.root, n)
	n.inserted(n.home)
}

// Remove detaches a node from this tree. Nodes belonging to another tree, or to none, are
// ignored.
func (o *Octree) Remove(n *Node) {
	if n.tree != o {
		return
	}
	n.RemoveSelf()
}

// Clean reclaims every cell that stores no nodes and has no live children, then recomputes the
// bookkeeping bounds of the surviving cells. The root cell is never reclaimed.
func (o *Octree) Clean() {
	before := o.liveCells()
	o.clean(o.root)
	reclaimed := before - o.liveCells()
	if reclaimed > 0 {
		instrumentReclaimed(reclaimed)
	}
	o.logger.Debugw("cleaned octree", "reclaimed", reclaimed, "cells", o.liveCells())
}

// adjust re-homes a dirty node if its placement no longer matches its box.
func (o *Octree) adjust(n *Node) {
	home := n.home
	if !o.isLive(home) {
		home = o.root
	}

	if o.placementHolds(home, n) {
		for _, leaf := range n.leaves {
			o.engulf(leaf, n.aabb)
		}
		return
	}

	start := home
	for start != o.root && !o.cells[start].cube().ContainsAABB(n.aabb) {
		start = o.cells[start].parent
	}

	o.detach(n)
	n.center = n.aabb.Center()
	n.home = NoCell
	o.insert(start, n)
	instrumentReinsert()
	o.logger.Debugw("re-homed node", "node", n.id, "from", home, "start", start, "home", n.home)
	n.inserted(n.home)
}

// placementHolds reports whether a moved node can keep the cells it is stored in. A node stored
// at its home keeps them while it would still be stored there. A node split below its home keeps
// them while the home cube contains it.
func (o *Octree) placementHolds(home CellID, n *Node) bool {
	if len(n.leaves) == 0 {
		return false
	}
	contained := o.cells[home].cube().ContainsAABB(n.aabb)
	if len(n.leaves) == 1 && n.leaves[0] == home {
		return o.storesAt(home, n.aabb) && (home == o.root || contained)
	}
	return contained
}

// detach removes a node from every cell that stores it.
func (o *Octree) detach(n *Node) {
	for len(n.leaves) > 0 {
		leaf := n.leaves[len(n.leaves)-1]
		o.remove(leaf, n)
		n.removeLeaf(leaf)
	}
}
