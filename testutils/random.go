// Package testutils holds helpers shared by tests across packages.
package testutils

import (
	"math/rand"

	"go.viam.com/sceneindex/spatialmath"
)

// NewRand returns a deterministic source for reproducible tests.
func NewRand(seed int64) *rand.Rand {
	//nolint:gosec
	return rand.New(rand.NewSource(seed))
}

// RandomBox returns a box centered at a random point of bounds with half extents of at most
// maxHalf. The box may poke out of bounds by up to maxHalf.
func RandomBox(rng *rand.Rand, bounds spatialmath.AABB, maxHalf float64) spatialmath.AABB {
	return spatialmath.NewAABBFromCenter(spatialmath.RandomPoint(rng, bounds), spatialmath.RandomHalfExtents(rng, maxHalf))
}

// RandomBoxInside returns a random box contained entirely in bounds. maxHalf is clamped so the
// box always fits.
func RandomBoxInside(rng *rand.Rand, bounds spatialmath.AABB, maxHalf float64) spatialmath.AABB {
	size := bounds.Size()
	limit := min(maxHalf, size.X/2, size.Y/2, size.Z/2)
	half := spatialmath.RandomHalfExtents(rng, limit)
	inner := spatialmath.NewAABB(bounds.Min.Add(half), bounds.Max.Sub(half))
	return spatialmath.NewAABBFromCenter(spatialmath.RandomPoint(rng, inner), half)
}
