package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// List is an unordered collection of shapes tested linearly.
// It grows by Add during scene construction and is read-only afterwards.
type List struct {
	Shapes []Shape
}

// NewList creates a list holding the given shapes
func NewList(shapes ...Shape) *List {
	return &List{Shapes: shapes}
}

// Add appends a shape
func (l *List) Add(shape Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Len returns the number of direct children
func (l *List) Len() int {
	return len(l.Shapes)
}

// Hit returns the nearest hit among all children
func (l *List) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}

// BoundingBox unions the children's boxes. An empty list, or one with an
// unbounded child, has no box.
func (l *List) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	if len(l.Shapes) == 0 {
		return core.AABB{}, false
	}

	var box core.AABB
	for i, shape := range l.Shapes {
		childBox, ok := shape.BoundingBox(time0, time1)
		if !ok {
			return core.AABB{}, false
		}
		if i == 0 {
			box = childBox
		} else {
			box = core.SurroundingBox(box, childBox)
		}
	}
	return box, true
}

// PDFValue averages the children's densities, matching Random's uniform choice
func (l *List) PDFValue(origin, direction core.Vec3, time float64) float64 {
	if len(l.Shapes) == 0 {
		return 0
	}
	sum := 0.0
	for _, shape := range l.Shapes {
		sum += shape.PDFValue(origin, direction, time)
	}
	return sum / float64(len(l.Shapes))
}

// Random picks a child uniformly and samples it
func (l *List) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	if len(l.Shapes) == 0 {
		return core.NewVec3(1, 0, 0)
	}
	i := min(int(sampler.Get1D()*float64(len(l.Shapes))), len(l.Shapes)-1)
	return l.Shapes[i].Random(origin, sampler)
}
