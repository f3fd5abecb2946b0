package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Classification is the result of testing a volume against a frustum.
type Classification int

const (
	// Outside means the volume is entirely outside at least one plane.
	Outside Classification = iota
	// Intersecting means the volume straddles at least one plane.
	Intersecting
	// Inside means the volume is entirely inside every plane.
	Inside
)

func (c Classification) String() string {
	switch c {
	case Outside:
		return "outside"
	case Intersecting:
		return "intersecting"
	case Inside:
		return "inside"
	}
	return "unknown"
}

// Plane is the set of points p with Normal.Dot(p) + D == 0. Points with a positive distance are
// on the inner side.
type Plane struct {
	Normal r3.Vector
	D      float64
}

// Distance returns the signed distance from the plane to p. It is a true distance only when
// Normal is unit length.
func (p Plane) Distance(pt r3.Vector) float64 {
	return p.Normal.Dot(pt) + p.D
}

func (p Plane) normalized() Plane {
	n := p.Normal.Norm()
	if n == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Mul(1 / n), D: p.D / n}
}

// Frustum planes, in the order NewFrustumFromMatrix produces them.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// Frustum is a convex view volume bounded by six inward facing planes.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustumFromMatrix extracts the six clip planes of a combined view-projection matrix
// (OpenGL clip space conventions, as produced by mgl64.Perspective and mgl64.LookAtV).
func NewFrustumFromMatrix(m mgl64.Mat4) Frustum {
	row := func(i int) mgl64.Vec4 { return m.Row(i) }
	r0, r1, r2, r3v := row(0), row(1), row(2), row(3)
	toPlane := func(v mgl64.Vec4) Plane {
		return Plane{Normal: r3.Vector{X: v[0], Y: v[1], Z: v[2]}, D: v[3]}.normalized()
	}

	var f Frustum
	f.Planes[PlaneLeft] = toPlane(r3v.Add(r0))
	f.Planes[PlaneRight] = toPlane(r3v.Sub(r0))
	f.Planes[PlaneBottom] = toPlane(r3v.Add(r1))
	f.Planes[PlaneTop] = toPlane(r3v.Sub(r1))
	f.Planes[PlaneNear] = toPlane(r3v.Add(r2))
	f.Planes[PlaneFar] = toPlane(r3v.Sub(r2))
	return f
}

// ClassifyBox tests a box against every plane using its positive and negative vertices.
func (f Frustum) ClassifyBox(box AABB) Classification {
	result := Inside
	for _, plane := range f.Planes {
		// positive vertex: the corner furthest along the plane normal
		pos, neg := box.Min, box.Max
		if plane.Normal.X >= 0 {
			pos.X, neg.X = box.Max.X, box.Min.X
		}
		if plane.Normal.Y >= 0 {
			pos.Y, neg.Y = box.Max.Y, box.Min.Y
		}
		if plane.Normal.Z >= 0 {
			pos.Z, neg.Z = box.Max.Z, box.Min.Z
		}

		if plane.Distance(pos) < 0 {
			return Outside
		}
		if plane.Distance(neg) < 0 {
			result = Intersecting
		}
	}
	return result
}

// ContainsPoint reports whether p is inside or on every plane.
func (f Frustum) ContainsPoint(p r3.Vector) bool {
	for _, plane := range f.Planes {
		if plane.Distance(p) < 0 {
			return false
		}
	}
	return true
}
