package octree

import (
	"github.com/google/uuid"

	"go.viam.com/sceneindex/spatialmath"
)

// QueryID identifies one query session. Every node a query tests is stamped with its id, so a
// node reachable through several cells is reported at most once per session.
type QueryID uuid.UUID

// NewQueryID returns a fresh query session id.
func NewQueryID() QueryID {
	return QueryID(uuid.New())
}

// IsZero reports whether id is the zero id.
func (id QueryID) IsZero() bool {
	return id == QueryID(uuid.Nil)
}

func (id QueryID) String() string {
	return uuid.UUID(id).String()
}

// FrustumHits returns the payloads whose own bounding box is not outside the camera's frustum,
// in traversal order.
func (o *Octree) FrustumHits(cam Camera) []Bounded {
	return o.FrustumHitsWithID(NewQueryID(), cam)
}

// FrustumHitsWithID is FrustumHits under a caller supplied session id. A zero id is replaced
// with a fresh one.
func (o *Octree) FrustumHitsWithID(id QueryID, cam Camera) []Bounded {
	position := cam.Position()
	hits := o.traverse(id,
		func(bounds spatialmath.AABB) bool {
			return cam.ClassifyBox(bounds) != spatialmath.Outside || bounds.ContainsPoint(position)
		},
		func(box spatialmath.AABB) bool {
			return cam.ClassifyBox(box) != spatialmath.Outside
		},
	)
	instrumentQuery(queryKindFrustum, len(hits))
	return hits
}

// AABBHits returns the payloads whose own bounding box overlaps box, in traversal order.
func (o *Octree) AABBHits(box spatialmath.AABB) []Bounded {
	return o.AABBHitsWithID(NewQueryID(), box)
}

// AABBHitsWithID is AABBHits under a caller supplied session id. A zero id is replaced with a
// fresh one.
func (o *Octree) AABBHitsWithID(id QueryID, box spatialmath.AABB) []Bounded {
	hits := o.traverse(id, box.Overlaps, box.Overlaps)
	instrumentQuery(queryKindAABB, len(hits))
	return hits
}

// traverse walks the tree depth first with an explicit stack. cellTest decides whether a popped
// cell's bounds are visited; nodeTest decides whether an untagged node's payload is a hit.
func (o *Octree) traverse(
	id QueryID,
	cellTest func(spatialmath.AABB) bool,
	nodeTest func(spatialmath.AABB) bool,
) []Bounded {
	if id.IsZero() {
		id = NewQueryID()
	}

	var hits []Bounded
	stack := []CellID{o.root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := &o.cells[cur]
		if !cellTest(c.bounds) {
			continue
		}
		for _, n := range c.nodes {
			if n.tag == id {
				continue
			}
			n.tag = id
			if nodeTest(n.payloadAABB()) {
				hits = append(hits, n.payload())
			}
		}
		// Pushed in reverse so octant 0 is popped first.
		for octant := len(c.children) - 1; octant >= 0; octant-- {
			if child := c.children[octant]; child != NoCell {
				stack = append(stack, child)
			}
		}
	}
	return hits
}
