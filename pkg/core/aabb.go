package core

import "math"

// Boxes thinner than this along an axis are padded so the slab test never
// degenerates into a zero-width interval.
const aabbPadding = 1e-4

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points, padding any axis
// whose extent is smaller than the padding epsilon
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}.Pad()
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]
	for _, point := range points[1:] {
		min = min.Min(point)
		max = max.Max(point)
	}

	return NewAABB(min, max)
}

// Pad returns a copy of the box where every axis is at least aabbPadding thick.
// Both sides are widened so the box stays centered on the original slab.
func (aabb AABB) Pad() AABB {
	half := aabbPadding / 2
	if aabb.Max.X-aabb.Min.X < aabbPadding {
		aabb.Min.X -= half
		aabb.Max.X += half
	}
	if aabb.Max.Y-aabb.Min.Y < aabbPadding {
		aabb.Min.Y -= half
		aabb.Max.Y += half
	}
	if aabb.Max.Z-aabb.Min.Z < aabbPadding {
		aabb.Min.Z -= half
		aabb.Max.Z += half
	}
	return aabb
}

// Hit tests if a ray intersects with this AABB using the slab method.
// Zero direction components divide to ±Inf, which the interval logic handles.
// A NaN bound (origin exactly on a slab plane) fails both comparisons and
// leaves the interval unchanged.
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		invD := 1.0 / ray.Direction.Axis(axis)
		origin := ray.Origin.Axis(axis)

		t0 := (aabb.Min.Axis(axis) - origin) * invD
		t1 := (aabb.Max.Axis(axis) - origin) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if !(tMax > tMin) {
			return false
		}
	}
	return true
}

// SurroundingBox returns the smallest box containing both boxes
func SurroundingBox(a, b AABB) AABB {
	return a.Union(b)
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: aabb.Min.Min(other.Min), Max: aabb.Max.Max(other.Max)}
}

// Contains reports whether other lies entirely within this box
func (aabb AABB) Contains(other AABB) bool {
	return aabb.Min.X <= other.Min.X && aabb.Min.Y <= other.Min.Y && aabb.Min.Z <= other.Min.Z &&
		aabb.Max.X >= other.Max.X && aabb.Max.Y >= other.Max.Y && aabb.Max.Z >= other.Max.Z
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Area returns the surface area of the AABB
func (aabb AABB) Area() float64 {
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// IsValid reports whether min <= max on every axis
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X && aabb.Min.Y <= aabb.Max.Y && aabb.Min.Z <= aabb.Max.Z &&
		!math.IsNaN(aabb.Min.X+aabb.Min.Y+aabb.Min.Z+aabb.Max.X+aabb.Max.Y+aabb.Max.Z)
}
