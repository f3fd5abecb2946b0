package spatialmath

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func unitBox() AABB {
	return AABB{Min: r3.Vector{X: -1, Y: -1, Z: -1}, Max: r3.Vector{X: 1, Y: 1, Z: 1}}
}

func TestEngulfAndReset(t *testing.T) {
	box := unitBox()
	box.Engulf(r3.Vector{X: 3, Y: 0, Z: -4})
	test.That(t, box.Min, test.ShouldResemble, r3.Vector{X: -1, Y: -1, Z: -4})
	test.That(t, box.Max, test.ShouldResemble, r3.Vector{X: 3, Y: 1, Z: 1})

	// engulfing an interior point changes nothing
	before := box
	box.Engulf(r3.Vector{})
	test.That(t, box, test.ShouldResemble, before)

	box.EngulfAABB(AABB{Min: r3.Vector{X: -5, Y: 0, Z: 0}, Max: r3.Vector{X: 0, Y: 6, Z: 0}})
	test.That(t, box.Min, test.ShouldResemble, r3.Vector{X: -5, Y: -1, Z: -4})
	test.That(t, box.Max, test.ShouldResemble, r3.Vector{X: 3, Y: 6, Z: 1})

	p := r3.Vector{X: 7, Y: 8, Z: 9}
	box.Reset(p)
	test.That(t, box.Min, test.ShouldResemble, p)
	test.That(t, box.Max, test.ShouldResemble, p)
	test.That(t, box.Size(), test.ShouldResemble, r3.Vector{})
}

func TestSize(t *testing.T) {
	t.Run("ordered corners", func(t *testing.T) {
		box := AABB{Min: r3.Vector{X: 0, Y: 1, Z: 2}, Max: r3.Vector{X: 4, Y: 4, Z: 4}}
		test.That(t, box.Size(), test.ShouldResemble, r3.Vector{X: 4, Y: 3, Z: 2})
	})

	t.Run("reversed corners", func(t *testing.T) {
		box := AABB{Min: r3.Vector{X: 4, Y: 4, Z: 4}, Max: r3.Vector{X: 0, Y: 1, Z: 2}}
		test.That(t, box.Size(), test.ShouldResemble, r3.Vector{X: 4, Y: 3, Z: 2})
	})

	t.Run("NewAABB normalizes", func(t *testing.T) {
		box := NewAABB(r3.Vector{X: 4, Y: 1, Z: 4}, r3.Vector{X: 0, Y: 4, Z: 2})
		test.That(t, box.Min, test.ShouldResemble, r3.Vector{X: 0, Y: 1, Z: 2})
		test.That(t, box.Max, test.ShouldResemble, r3.Vector{X: 4, Y: 4, Z: 4})
		test.That(t, box.Center(), test.ShouldResemble, r3.Vector{X: 2, Y: 2.5, Z: 3})
	})

	t.Run("from center", func(t *testing.T) {
		box := NewAABBFromCenter(r3.Vector{X: 10}, r3.Vector{X: 1, Y: -2, Z: 3})
		test.That(t, box.Min, test.ShouldResemble, r3.Vector{X: 9, Y: -2, Z: -3})
		test.That(t, box.Max, test.ShouldResemble, r3.Vector{X: 11, Y: 2, Z: 3})
	})
}

func TestContainment(t *testing.T) {
	box := unitBox()
	test.That(t, box.ContainsPoint(r3.Vector{}), test.ShouldBeTrue)
	test.That(t, box.ContainsPoint(r3.Vector{X: 1, Y: 1, Z: 1}), test.ShouldBeTrue)
	test.That(t, box.ContainsPoint(r3.Vector{X: -1, Y: 0, Z: 1}), test.ShouldBeTrue)
	test.That(t, box.ContainsPoint(r3.Vector{X: 1.0001}), test.ShouldBeFalse)

	test.That(t, box.ContainsAABB(box), test.ShouldBeTrue)
	test.That(t, box.ContainsAABB(NewAABBFromCenter(r3.Vector{}, r3.Vector{X: .5, Y: .5, Z: .5})), test.ShouldBeTrue)
	test.That(t, box.ContainsAABB(box.Translate(r3.Vector{X: .1})), test.ShouldBeFalse)
}

func TestOverlaps(t *testing.T) {
	box := unitBox()
	for _, tc := range []struct {
		name     string
		other    AABB
		expected bool
	}{
		{"identical", box, true},
		{"touching faces", box.Translate(r3.Vector{X: 2}), true},
		{"touching corners", box.Translate(r3.Vector{X: 2, Y: 2, Z: 2}), true},
		{"partial", box.Translate(r3.Vector{X: 1, Y: -1, Z: .5}), true},
		{"contained", NewAABBFromCenter(r3.Vector{}, r3.Vector{X: .1, Y: .1, Z: .1}), true},
		{"containing", NewAABBFromCenter(r3.Vector{}, r3.Vector{X: 10, Y: 10, Z: 10}), true},
		{"separated x", box.Translate(r3.Vector{X: 2.01}), false},
		{"separated y", box.Translate(r3.Vector{Y: -3}), false},
		{"separated z", box.Translate(r3.Vector{Z: 5}), false},
		{"crossing slabs", AABB{Min: r3.Vector{X: -5, Y: -.5, Z: -.5}, Max: r3.Vector{X: 5, Y: .5, Z: .5}}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, box.Overlaps(tc.other), test.ShouldEqual, tc.expected)
			test.That(t, tc.other.Overlaps(box), test.ShouldEqual, tc.expected)
			test.That(t, box.IntersectsAABB(tc.other), test.ShouldEqual, tc.expected)
		})
	}
}

func TestCorners(t *testing.T) {
	box := AABB{Min: r3.Vector{X: 0, Y: 0, Z: 0}, Max: r3.Vector{X: 1, Y: 2, Z: 3}}
	corners := box.Corners()
	test.That(t, corners[0], test.ShouldResemble, box.Min)
	test.That(t, corners[7], test.ShouldResemble, box.Max)
	test.That(t, corners[1], test.ShouldResemble, r3.Vector{X: 1, Y: 0, Z: 0})
	test.That(t, corners[6], test.ShouldResemble, r3.Vector{X: 0, Y: 2, Z: 3})
	for _, c := range corners {
		test.That(t, box.ContainsPoint(c), test.ShouldBeTrue)
	}
}
