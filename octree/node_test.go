package octree

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/sceneindex/logging"
	"go.viam.com/sceneindex/spatialmath"
	"go.viam.com/sceneindex/testutils"
)

func TestNodeBasics(t *testing.T) {
	box := cubeAt(r3.Vector{X: 1, Y: 2, Z: 3}, 1)
	n, obj := newTestNode("basic", box)

	test.That(t, n.Object(), test.ShouldEqual, obj)
	test.That(t, n.AABB(), test.ShouldResemble, box)
	test.That(t, n.Center(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, n.Dirty(), test.ShouldBeFalse)
	test.That(t, n.Inserted(), test.ShouldBeFalse)
	test.That(t, n.Home(), test.ShouldEqual, NoCell)

	other, _ := newTestNode("other", box)
	test.That(t, n.ID(), test.ShouldNotEqual, other.ID())

	n.SetAABB(cubeAt(r3.Vector{X: 4, Y: 5, Z: 6}, 1))
	test.That(t, n.Dirty(), test.ShouldBeTrue)
	test.That(t, n.Center(), test.ShouldResemble, r3.Vector{X: 4, Y: 5, Z: 6})

	// Adjusting a node outside any tree only clears the flag.
	n.Adjust()
	test.That(t, n.Dirty(), test.ShouldBeFalse)
	test.That(t, n.Inserted(), test.ShouldBeFalse)
}

func TestAdjustMovesNode(t *testing.T) {
	tree := newTestTree(t)
	oldBox := cubeAt(r3.Vector{X: -40, Y: 10, Z: 10}, 1)
	newBox := cubeAt(r3.Vector{X: 40, Y: 10, Z: 10}, 1)
	n, obj := newTestNode("moving", oldBox)
	tree.Insert(n)

	moveTo(n, obj, newBox)
	// Nothing moves until Adjust.
	test.That(t, tree.AABBHits(newBox), test.ShouldBeEmpty)

	n.Adjust()
	test.That(t, n.Dirty(), test.ShouldBeFalse)
	test.That(t, tree.AABBHits(newBox), test.ShouldResemble, []Bounded{obj})
	test.That(t, tree.AABBHits(oldBox), test.ShouldBeEmpty)
	checkPlacement(t, tree, n)

	tree.Clean()
	test.That(t, tree.AABBHits(newBox), test.ShouldResemble, []Bounded{obj})
	test.That(t, tree.AABBHits(oldBox), test.ShouldBeEmpty)
}

func TestAdjustWithinCell(t *testing.T) {
	tree := newTestTree(t)
	var calls int
	n, obj := newTestNode("local", cubeAt(r3.Vector{X: 3, Y: 3, Z: 3}, 0.5),
		WithInsertedHook(func(*Node) { calls++ }))
	tree.Insert(n)
	test.That(t, calls, test.ShouldEqual, 1)

	home := n.Home()
	leaves := n.Leaves()
	cells := tree.Stats().Cells

	moved := cubeAt(r3.Vector{X: 3.2, Y: 3.2, Z: 3.2}, 0.5)
	moveTo(n, obj, moved)
	n.Adjust()

	test.That(t, n.Home(), test.ShouldEqual, home)
	test.That(t, n.Leaves(), test.ShouldResemble, leaves)
	test.That(t, tree.Stats().Cells, test.ShouldEqual, cells)
	test.That(t, calls, test.ShouldEqual, 1)
	test.That(t, n.Center(), test.ShouldResemble, moved.Center())
	checkPlacement(t, tree, n)

	// Leaving the cell re-homes the node and fires the hook again.
	moveTo(n, obj, cubeAt(r3.Vector{X: -3, Y: 3, Z: 3}, 0.5))
	n.Adjust()
	test.That(t, calls, test.ShouldEqual, 2)
	test.That(t, n.Home(), test.ShouldNotEqual, home)
	checkPlacement(t, tree, n)
}

func TestAdjustSplitNodeWithinHome(t *testing.T) {
	tree := newTestTree(t)
	var calls int
	start := cubeAt(r3.Vector{X: 12.5, Y: 20, Z: 20}, 1)
	n, obj := newTestNode("split", start, WithInsertedHook(func(*Node) { calls++ }))
	tree.Insert(n)

	home := n.Home()
	leaves := n.Leaves()
	test.That(t, leaves, test.ShouldHaveLength, 2)
	test.That(t, cellInfo(t, tree, home).Size, test.ShouldEqual, 25.0)
	cells := tree.Stats().Cells

	box := start
	for i := 0; i < 10; i++ {
		box = box.Translate(r3.Vector{X: 0.001, Y: 0.001})
		moveTo(n, obj, box)
		n.Adjust()
	}
	test.That(t, n.Home(), test.ShouldEqual, home)
	test.That(t, n.Leaves(), test.ShouldResemble, leaves)
	test.That(t, tree.Stats().Cells, test.ShouldEqual, cells)
	test.That(t, calls, test.ShouldEqual, 1)
	test.That(t, tree.AABBHits(box), test.ShouldResemble, []Bounded{obj})
	checkTracked(t, tree, n)

	// Drifting into a single octant of the home cube keeps the placement too.
	inside := cubeAt(r3.Vector{X: 18, Y: 20, Z: 20}, 1)
	moveTo(n, obj, inside)
	n.Adjust()
	test.That(t, n.Leaves(), test.ShouldResemble, leaves)
	test.That(t, calls, test.ShouldEqual, 1)
	test.That(t, tree.AABBHits(inside), test.ShouldResemble, []Bounded{obj})
	test.That(t, tree.AABBHits(start), test.ShouldBeEmpty)
	checkTracked(t, tree, n)

	// Leaving the home cube re-inserts it.
	outside := cubeAt(r3.Vector{X: 30, Y: 20, Z: 20}, 1)
	moveTo(n, obj, outside)
	n.Adjust()
	test.That(t, calls, test.ShouldEqual, 2)
	test.That(t, n.Home(), test.ShouldNotEqual, home)
	test.That(t, tree.AABBHits(outside), test.ShouldResemble, []Bounded{obj})
	test.That(t, tree.AABBHits(inside), test.ShouldBeEmpty)
	checkPlacement(t, tree, n)
}

func TestAdjustGrowsAndShrinks(t *testing.T) {
	tree := newTestTree(t)
	n, obj := newTestNode("growing", cubeAt(r3.Vector{X: 3, Y: 3, Z: 3}, 0.5))
	tree.Insert(n)

	// Growing past every octant boundary of the world pulls the node up to the root.
	moveTo(n, obj, cubeAt(r3.Vector{X: 3, Y: 3, Z: 3}, 10))
	n.Adjust()
	test.That(t, n.Leaves(), test.ShouldResemble, []CellID{tree.Root()})
	checkPlacement(t, tree, n)

	// Shrinking again pushes it back down.
	moveTo(n, obj, cubeAt(r3.Vector{X: 3, Y: 3, Z: 3}, 0.5))
	n.Adjust()
	test.That(t, n.Leaves(), test.ShouldHaveLength, 1)
	test.That(t, cellInfo(t, tree, n.Home()).Depth, test.ShouldEqual, 0)
	checkPlacement(t, tree, n)
}

func TestAdjustOutOfWorld(t *testing.T) {
	tree := newTestTree(t)
	n, obj := newTestNode("escaping", cubeAt(r3.Vector{X: 40, Y: 40, Z: 40}, 1))
	tree.Insert(n)

	far := cubeAt(r3.Vector{X: 80, Y: 40, Z: 40}, 1)
	moveTo(n, obj, far)
	n.Adjust()
	test.That(t, n.Home(), test.ShouldEqual, tree.Root())
	test.That(t, tree.AABBHits(far), test.ShouldResemble, []Bounded{obj})

	back := cubeAt(r3.Vector{X: -40, Y: 40, Z: 40}, 1)
	moveTo(n, obj, back)
	n.Adjust()
	test.That(t, n.Home(), test.ShouldNotEqual, tree.Root())
	test.That(t, tree.AABBHits(back), test.ShouldResemble, []Bounded{obj})
	test.That(t, tree.AABBHits(far), test.ShouldBeEmpty)
	checkPlacement(t, tree, n)
}

func TestAdjustLogsRehome(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	tree, err := New(Config{Size: 100, Depth: 4}, logger)
	test.That(t, err, test.ShouldBeNil)

	n, obj := newTestNode("logged", cubeAt(r3.Vector{X: -40, Y: 10, Z: 10}, 1))
	tree.Insert(n)
	moveTo(n, obj, cubeAt(r3.Vector{X: 40, Y: 10, Z: 10}, 1))
	n.Adjust()

	test.That(t, logs.FilterMessage("re-homed node").Len(), test.ShouldEqual, 1)
}

func TestRandomMovement(t *testing.T) {
	tree := newTestTree(t)
	rng := testutils.NewRand(3)

	type entry struct {
		node *Node
		obj  *testObject
	}
	entries := make([]entry, 0, 100)
	for i := 0; i < 100; i++ {
		n, obj := newTestNode("random", testutils.RandomBoxInside(rng, tree.Bounds(), 5))
		tree.Insert(n)
		entries = append(entries, entry{n, obj})
	}

	for frame := 0; frame < 20; frame++ {
		for _, e := range entries {
			moveTo(e.node, e.obj, e.obj.box.Translate(r3.Vector{
				X: rng.Float64()*6 - 3,
				Y: rng.Float64()*6 - 3,
				Z: rng.Float64()*6 - 3,
			}))
			e.node.Adjust()
		}
		if frame%5 == 4 {
			tree.Clean()
		}
		for _, e := range entries {
			checkTracked(t, tree, e.node)
			var found bool
			for _, hit := range tree.AABBHits(e.obj.box) {
				if hit == e.obj {
					found = true
				}
			}
			test.That(t, found, test.ShouldBeTrue)
		}
	}
	test.That(t, tree.Stats().Nodes, test.ShouldEqual, len(entries))
}

func TestAddRemoveLeaf(t *testing.T) {
	n := NewNode(nil, spatialmath.AABB{})
	n.addLeaf(3)
	n.addLeaf(3)
	n.addLeaf(5)
	test.That(t, n.Leaves(), test.ShouldResemble, []CellID{3, 5})
	n.removeLeaf(3)
	n.removeLeaf(9)
	test.That(t, n.Leaves(), test.ShouldResemble, []CellID{5})
}
