package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// AABB is an axis-aligned bounding box described by its minimum and maximum corners. Most
// operations assume Min <= Max componentwise; NewAABB normalizes its inputs to that form.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// NewAABB returns the box spanned by two opposite corners given in any order.
func NewAABB(a, b r3.Vector) AABB {
	return AABB{
		Min: r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Max: r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// NewAABBFromCenter returns the box centered on center with the given half extents.
func NewAABBFromCenter(center, halfExtents r3.Vector) AABB {
	halfExtents = halfExtents.Abs()
	return AABB{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

// Engulf grows the box in place so that it contains p.
func (a *AABB) Engulf(p r3.Vector) {
	a.Min.X = math.Min(a.Min.X, p.X)
	a.Min.Y = math.Min(a.Min.Y, p.Y)
	a.Min.Z = math.Min(a.Min.Z, p.Z)
	a.Max.X = math.Max(a.Max.X, p.X)
	a.Max.Y = math.Max(a.Max.Y, p.Y)
	a.Max.Z = math.Max(a.Max.Z, p.Z)
}

// EngulfAABB grows the box in place so that it contains b.
func (a *AABB) EngulfAABB(b AABB) {
	a.Engulf(b.Min)
	a.Engulf(b.Max)
}

// Reset collapses the box to the single point p.
func (a *AABB) Reset(p r3.Vector) {
	a.Min = p
	a.Max = p
}

// Size returns the per-axis extents of the box. The result is non-negative even when the
// corners are stored in reverse order.
func (a AABB) Size() r3.Vector {
	return a.Max.Sub(a.Min).Abs()
}

// Center returns the midpoint of the box.
func (a AABB) Center() r3.Vector {
	return a.Min.Add(a.Max).Mul(0.5)
}

// ContainsPoint reports whether p lies within the box, boundary included.
func (a AABB) ContainsPoint(p r3.Vector) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// ContainsAABB reports whether b lies entirely within the box, boundary included.
func (a AABB) ContainsAABB(b AABB) bool {
	return a.ContainsPoint(b.Min) && a.ContainsPoint(b.Max)
}

// Overlaps reports whether the two boxes share at least one point. Boxes that only touch along
// a face, edge or corner overlap.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// IntersectsAABB reports whether the two boxes intersect. For axis-aligned boxes one interval
// test per axis is exact, so this is the same test as Overlaps.
func (a AABB) IntersectsAABB(b AABB) bool {
	return a.Overlaps(b)
}

// Corners returns the 8 corners of the box. Bit 0 of the index selects Max.X, bit 1 Max.Y and
// bit 2 Max.Z.
func (a AABB) Corners() [8]r3.Vector {
	var corners [8]r3.Vector
	for i := range corners {
		c := a.Min
		if i&1 != 0 {
			c.X = a.Max.X
		}
		if i&2 != 0 {
			c.Y = a.Max.Y
		}
		if i&4 != 0 {
			c.Z = a.Max.Z
		}
		corners[i] = c
	}
	return corners
}

// Translate returns the box moved by d.
func (a AABB) Translate(d r3.Vector) AABB {
	return AABB{Min: a.Min.Add(d), Max: a.Max.Add(d)}
}

// String returns a human readable string that represents this box.
func (a AABB) String() string {
	return fmt.Sprintf("[(%g, %g, %g) (%g, %g, %g)]", a.Min.X, a.Min.Y, a.Min.Z, a.Max.X, a.Max.Y, a.Max.Z)
}
