package scene

import (
	"math/rand"
	"strconv"

	"github.com/golang/geo/r3"

	"go.viam.com/sceneindex/spatialmath"
)

// Object is a box shaped scene object moving at constant velocity.
type Object struct {
	Name        string
	Position    r3.Vector
	HalfExtents r3.Vector
	Velocity    r3.Vector
}

// NewObject returns an object centered at position.
func NewObject(name string, position, halfExtents, velocity r3.Vector) *Object {
	return &Object{
		Name:        name,
		Position:    position,
		HalfExtents: halfExtents,
		Velocity:    velocity,
	}
}

// AABB returns the object's current bounding box.
func (o *Object) AABB() spatialmath.AABB {
	return spatialmath.NewAABBFromCenter(o.Position, o.HalfExtents)
}

// Translate moves the object by d.
func (o *Object) Translate(d r3.Vector) {
	o.Position = o.Position.Add(d)
}

// SetPosition moves the object to p.
func (o *Object) SetPosition(p r3.Vector) {
	o.Position = p
}

func (o *Object) String() string {
	return o.Name
}

// Animate advances every object by its velocity over dt seconds. Objects whose box leaves
// bounds along an axis have that velocity component reversed so they head back in.
func Animate(objects []*Object, dt float64, bounds spatialmath.AABB) {
	for _, o := range objects {
		o.Translate(o.Velocity.Mul(dt))
		box := o.AABB()
		o.Velocity.X = bounce(box.Min.X, box.Max.X, bounds.Min.X, bounds.Max.X, o.Velocity.X)
		o.Velocity.Y = bounce(box.Min.Y, box.Max.Y, bounds.Min.Y, bounds.Max.Y, o.Velocity.Y)
		o.Velocity.Z = bounce(box.Min.Z, box.Max.Z, bounds.Min.Z, bounds.Max.Z, o.Velocity.Z)
	}
}

func bounce(lo, hi, minBound, maxBound, v float64) float64 {
	if (lo < minBound && v < 0) || (hi > maxBound && v > 0) {
		return -v
	}
	return v
}

// RandomObjects returns n objects placed inside bounds with random sizes up to maxHalfExtent
// and random speeds up to maxSpeed along each axis.
func RandomObjects(rng *rand.Rand, n int, bounds spatialmath.AABB, maxHalfExtent, maxSpeed float64) []*Object {
	objects := make([]*Object, 0, n)
	for i := 0; i < n; i++ {
		half := spatialmath.RandomHalfExtents(rng, maxHalfExtent)
		position := spatialmath.RandomPoint(rng, bounds)
		velocity := r3.Vector{
			X: maxSpeed * (2*rng.Float64() - 1),
			Y: maxSpeed * (2*rng.Float64() - 1),
			Z: maxSpeed * (2*rng.Float64() - 1),
		}
		objects = append(objects, NewObject(objectName(i), position, half, velocity))
	}
	return objects
}

func objectName(i int) string {
	return "object-" + strconv.Itoa(i)
}
