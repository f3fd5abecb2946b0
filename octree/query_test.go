package octree

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/sceneindex/spatialmath"
)

// boxCamera reports boxes accepted by visible as intersecting and everything else as outside.
type boxCamera struct {
	position r3.Vector
	visible  func(spatialmath.AABB) bool
}

func (c *boxCamera) ClassifyBox(box spatialmath.AABB) spatialmath.Classification {
	if c.visible(box) {
		return spatialmath.Intersecting
	}
	return spatialmath.Outside
}

func (c *boxCamera) Position() r3.Vector {
	return c.position
}

type frustumCamera struct {
	frustum  spatialmath.Frustum
	position r3.Vector
}

func (c *frustumCamera) ClassifyBox(box spatialmath.AABB) spatialmath.Classification {
	return c.frustum.ClassifyBox(box)
}

func (c *frustumCamera) Position() r3.Vector {
	return c.position
}

func newFrustumCamera(eye, target r3.Vector) *frustumCamera {
	proj := mgl64.Perspective(mgl64.DegToRad(60), 1, 1, 500)
	view := mgl64.LookAtV(
		mgl64.Vec3{eye.X, eye.Y, eye.Z},
		mgl64.Vec3{target.X, target.Y, target.Z},
		mgl64.Vec3{0, 1, 0},
	)
	return &frustumCamera{
		frustum:  spatialmath.NewFrustumFromMatrix(proj.Mul4(view)),
		position: eye,
	}
}

func TestFrustumHits(t *testing.T) {
	tree := newTestTree(t)
	ahead, aheadObj := newTestNode("ahead", cubeAt(r3.Vector{Z: -20}, 2))
	behind, _ := newTestNode("behind", cubeAt(r3.Vector{Z: 40}, 2))
	aside, _ := newTestNode("aside", cubeAt(r3.Vector{X: 45, Z: 10}, 2))
	tree.Insert(ahead)
	tree.Insert(behind)
	tree.Insert(aside)

	// Looking down -Z from z = 30.
	cam := newFrustumCamera(r3.Vector{Z: 30}, r3.Vector{})
	test.That(t, tree.FrustumHits(cam), test.ShouldResemble, []Bounded{aheadObj})
}

func TestFrustumHitsCameraInsideCell(t *testing.T) {
	tree := newTestTree(t)
	box := cubeAt(r3.Vector{X: 3, Y: 3, Z: 3}, 0.5)
	n, obj := newTestNode("inside", box)
	tree.Insert(n)

	// The camera rejects every box but the payload's, so cells are only visited because the
	// camera sits inside their bounds.
	onlyPayload := func(b spatialmath.AABB) bool { return b == box }

	cam := &boxCamera{position: r3.Vector{X: 3, Y: 3, Z: 3}, visible: onlyPayload}
	test.That(t, tree.FrustumHits(cam), test.ShouldResemble, []Bounded{obj})

	cam = &boxCamera{position: r3.Vector{X: -30, Y: 3, Z: 3}, visible: onlyPayload}
	test.That(t, tree.FrustumHits(cam), test.ShouldBeEmpty)
}

func TestFrustumTestsPayloadBox(t *testing.T) {
	tree := newTestTree(t)
	// The node is placed by a loose box but the payload's own box is tighter.
	obj := &testObject{name: "tight", box: cubeAt(r3.Vector{X: 10, Y: 10, Z: 10}, 1)}
	n := NewNode(obj, cubeAt(r3.Vector{X: 10, Y: 10, Z: 10}, 4))
	tree.Insert(n)

	loose := cubeAt(r3.Vector{X: 13, Y: 13, Z: 13}, 0.5)
	test.That(t, tree.AABBHits(loose), test.ShouldBeEmpty)
	test.That(t, tree.AABBHits(cubeAt(r3.Vector{X: 10, Y: 10, Z: 10}, 0.5)), test.ShouldResemble, []Bounded{obj})
}

func TestHitOrder(t *testing.T) {
	tree := newTestTree(t)
	var want []Bounded
	// One node per root octant, inserted in reverse octant order.
	for octant := 7; octant >= 0; octant-- {
		center := r3.Vector{
			X: signFor(octant&1 != 0) * 20,
			Y: signFor(octant&2 != 0) * 20,
			Z: signFor(octant&4 != 0) * 20,
		}
		n, obj := newTestNode("octant", cubeAt(center, 1))
		tree.Insert(n)
		want = append([]Bounded{obj}, want...)
	}
	test.That(t, tree.AABBHits(tree.Bounds()), test.ShouldResemble, want)
}
