package octree

import (
	"math/bits"
	"slices"

	"github.com/golang/geo/r3"

	"go.viam.com/sceneindex/spatialmath"
)

// CellID indexes a cell in an octree's arena. Parent and child links are ids rather than
// pointers, so reclaiming a cell never leaves a dangling reference behind.
type CellID int32

// NoCell marks an absent parent, child or home.
const NoCell CellID = -1

// cell is one cubical region of the tree.
type cell struct {
	center r3.Vector
	size   float64
	// depth is the number of subdivision levels remaining below this cell; 0 is terminal.
	depth    int
	parent   CellID
	children [8]CellID
	nodes    []*Node
	// bounds is the cube grown to include every box stored in this cell or below it.
	bounds spatialmath.AABB
	live   bool
}

func (c *cell) cube() spatialmath.AABB {
	half := c.size / 2
	return spatialmath.NewAABBFromCenter(c.center, r3.Vector{X: half, Y: half, Z: half})
}

func (c *cell) numChildren() int {
	count := 0
	for _, child := range c.children {
		if child != NoCell {
			count++
		}
	}
	return count
}

func (o *Octree) allocCell(parent CellID, center r3.Vector, size float64, depth int) CellID {
	c := cell{
		center: center,
		size:   size,
		depth:  depth,
		parent: parent,
		live:   true,
	}
	for i := range c.children {
		c.children[i] = NoCell
	}
	c.bounds = c.cube()

	if n := len(o.free); n > 0 {
		id := o.free[n-1]
		o.free = o.free[:n-1]
		o.cells[id] = c
		return id
	}
	o.cells = append(o.cells, c)
	return CellID(len(o.cells) - 1)
}

func (o *Octree) releaseCell(id CellID) {
	o.cells[id] = cell{parent: NoCell}
	o.free = append(o.free, id)
}

func (o *Octree) isLive(id CellID) bool {
	return id >= 0 && int(id) < len(o.cells) && o.cells[id].live
}

func (o *Octree) liveCells() int {
	return len(o.cells) - len(o.free)
}

// child returns the child cell in the given octant, creating it if needed. Bit 0 of the octant
// selects the +X half, bit 1 +Y and bit 2 +Z.
func (o *Octree) child(id CellID, octant int) CellID {
	if existing := o.cells[id].children[octant]; existing != NoCell {
		return existing
	}
	parent := o.cells[id]
	quarter := parent.size / 4
	center := parent.center
	center.X += signFor(octant&1 != 0) * quarter
	center.Y += signFor(octant&2 != 0) * quarter
	center.Z += signFor(octant&4 != 0) * quarter

	childID := o.allocCell(id, center, parent.size/2, parent.depth-1)
	o.cells[id].children[octant] = childID
	return childID
}

func signFor(positive bool) float64 {
	if positive {
		return 1
	}
	return -1
}

// axisHalves reports which halves of an axis split at c the interval [lo, hi] reaches into.
// The comparisons are strict so that a box touching the split plane from one side stays on that
// side; a box that is flat on the plane goes to the upper half.
func axisHalves(lo, hi, c float64) (lower, upper bool) {
	lower = lo < c
	upper = hi > c
	if !lower && !upper {
		upper = true
	}
	return lower, upper
}

// octantMask returns a bitmask of the octants around center that box overlaps.
func octantMask(center r3.Vector, box spatialmath.AABB) uint8 {
	lowX, highX := axisHalves(box.Min.X, box.Max.X, center.X)
	lowY, highY := axisHalves(box.Min.Y, box.Max.Y, center.Y)
	lowZ, highZ := axisHalves(box.Min.Z, box.Max.Z, center.Z)

	var mask uint8
	for octant := 0; octant < 8; octant++ {
		inX := (octant&1 == 0 && lowX) || (octant&1 != 0 && highX)
		inY := (octant&2 == 0 && lowY) || (octant&2 != 0 && highY)
		inZ := (octant&4 == 0 && lowZ) || (octant&4 != 0 && highZ)
		if inX && inY && inZ {
			mask |= 1 << octant
		}
	}
	return mask
}

// storesAt reports whether an insertion reaching cell id stops there instead of descending:
// the cell is terminal, the box spans all eight octants, or the box pokes out of the root.
func (o *Octree) storesAt(id CellID, box spatialmath.AABB) bool {
	c := &o.cells[id]
	if c.depth == 0 {
		return true
	}
	if id == o.root && !c.cube().ContainsAABB(box) {
		return true
	}
	return octantMask(c.center, box) == 0xFF
}

// insert places n in cell id or below it. The first cell where the node is stored, or where it
// splits across more than one child, becomes its home.
func (o *Octree) insert(id CellID, n *Node) {
	if o.storesAt(id, n.aabb) {
		o.store(id, n)
		if n.home == NoCell {
			n.home = id
		}
		return
	}

	mask := octantMask(o.cells[id].center, n.aabb)
	if n.home == NoCell && bits.OnesCount8(mask) > 1 {
		n.home = id
	}
	for octant := 0; octant < 8; octant++ {
		if mask&(1<<octant) == 0 {
			continue
		}
		// child may grow the arena, so no cell pointers are held across this call.
		o.insert(o.child(id, octant), n)
	}
}

func (o *Octree) store(id CellID, n *Node) {
	o.cells[id].nodes = append(o.cells[id].nodes, n)
	n.addLeaf(id)
	o.engulf(id, n.aabb)
}

// engulf grows the bounds of cell id and its ancestors to include box.
func (o *Octree) engulf(id CellID, box spatialmath.AABB) {
	for cur := id; cur != NoCell; cur = o.cells[cur].parent {
		bounds := &o.cells[cur].bounds
		if bounds.ContainsAABB(box) {
			return
		}
		bounds.EngulfAABB(box)
	}
}

// remove drops n from the node list of cell id. Removing an absent node does nothing.
func (o *Octree) remove(id CellID, n *Node) {
	if !o.isLive(id) {
		return
	}
	c := &o.cells[id]
	if idx := slices.Index(c.nodes, n); idx >= 0 {
		c.nodes = slices.Delete(c.nodes, idx, idx+1)
	}
}

// clean prunes empty descendants of cell id and reports whether the cell itself is reclaimable.
func (o *Octree) clean(id CellID) bool {
	c := &o.cells[id]
	bounds := c.cube()
	liveChildren := 0
	for octant, childID := range c.children {
		if childID == NoCell {
			continue
		}
		if o.clean(childID) {
			c.children[octant] = NoCell
			o.releaseCell(childID)
			continue
		}
		liveChildren++
		bounds.EngulfAABB(o.cells[childID].bounds)
	}
	for _, n := range c.nodes {
		bounds.EngulfAABB(n.aabb)
	}
	c.bounds = bounds

	return id != o.root && len(c.nodes) == 0 && liveChildren == 0
}

// NumChildren returns the number of populated child slots of a cell.
func (o *Octree) NumChildren(id CellID) int {
	if !o.isLive(id) {
		return 0
	}
	return o.cells[id].numChildren()
}
