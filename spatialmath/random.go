package spatialmath

import (
	"math/rand"

	"github.com/golang/geo/r3"
)

// RandomPoint returns a point uniformly distributed inside bounds.
func RandomPoint(rng *rand.Rand, bounds AABB) r3.Vector {
	size := bounds.Size()
	return r3.Vector{
		X: bounds.Min.X + rng.Float64()*size.X,
		Y: bounds.Min.Y + rng.Float64()*size.Y,
		Z: bounds.Min.Z + rng.Float64()*size.Z,
	}
}

// RandomHalfExtents returns half extents with each component in (0, maxHalf].
func RandomHalfExtents(rng *rand.Rand, maxHalf float64) r3.Vector {
	return r3.Vector{
		X: maxHalf * (1 - rng.Float64()),
		Y: maxHalf * (1 - rng.Float64()),
		Z: maxHalf * (1 - rng.Float64()),
	}
}
