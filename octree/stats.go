package octree

import (
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/sceneindex/spatialmath"
)

// CellInfo is a read-only view of one live cell.
type CellInfo struct {
	ID          CellID
	Parent      CellID
	Center      r3.Vector
	Size        float64
	Depth       int
	Cube        spatialmath.AABB
	Bounds      spatialmath.AABB
	Nodes       int
	NumChildren int
}

// Walk visits live cells in pre-order, octant 0 first. Returning false from fn skips the
// cell's descendants.
func (o *Octree) Walk(fn func(CellInfo) bool) {
	o.walk(o.root, fn)
}

func (o *Octree) walk(id CellID, fn func(CellInfo) bool) {
	c := o.cells[id]
	info := CellInfo{
		ID:          id,
		Parent:      c.parent,
		Center:      c.center,
		Size:        c.size,
		Depth:       c.depth,
		Cube:        c.cube(),
		Bounds:      c.bounds,
		Nodes:       len(c.nodes),
		NumChildren: c.numChildren(),
	}
	if !fn(info) {
		return
	}
	for _, child := range c.children {
		if child != NoCell {
			o.walk(child, fn)
		}
	}
}

// Stats summarizes the shape of an octree.
type Stats struct {
	// Cells is the number of live cells, root included.
	Cells int
	// StoredRefs counts node references over all cells; a node split across cells counts once
	// per cell.
	StoredRefs int
	// Nodes is the number of distinct nodes stored.
	Nodes int
	// MaxDepthUsed is the deepest level below the root that holds a cell.
	MaxDepthUsed int
	// MeanOccupancy and StdDevOccupancy describe the number of nodes per live cell.
	MeanOccupancy   float64
	StdDevOccupancy float64
}

// Stats walks the tree and summarizes it.
func (o *Octree) Stats() Stats {
	var st Stats
	seen := map[uuid.UUID]struct{}{}
	occupancy := make([]float64, 0, o.liveCells())
	o.Walk(func(info CellInfo) bool {
		st.Cells++
		st.StoredRefs += info.Nodes
		if level := o.cfg.Depth - info.Depth; level > st.MaxDepthUsed {
			st.MaxDepthUsed = level
		}
		for _, n := range o.cells[info.ID].nodes {
			seen[n.id] = struct{}{}
		}
		occupancy = append(occupancy, float64(info.Nodes))
		return true
	})
	st.Nodes = len(seen)

	switch len(occupancy) {
	case 0:
	case 1:
		st.MeanOccupancy = occupancy[0]
	default:
		st.MeanOccupancy, st.StdDevOccupancy = stat.MeanStdDev(occupancy, nil)
	}
	return st
}
