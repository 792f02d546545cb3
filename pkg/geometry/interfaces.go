package geometry

import (
	"errors"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrNoBoundingBox is returned when a shape placed in a BVH cannot be bounded
var ErrNoBoundingBox = errors.New("geometry: shape has no bounding box")

// ErrNoShapes is returned when building an acceleration structure over nothing
var ErrNoShapes = errors.New("geometry: no shapes")

// Shape is anything a ray can hit. Every shape can also act as a light
// for importance sampling through PDFValue and Random.
type Shape interface {
	// Hit returns the nearest intersection with t in (tMin, tMax)
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)

	// BoundingBox bounds the shape over the shutter interval [time0, time1]
	BoundingBox(time0, time1 float64) (core.AABB, bool)

	// PDFValue is the solid-angle density of Random producing direction from origin
	PDFValue(origin, direction core.Vec3, time float64) float64

	// Random returns a direction from origin toward the shape
	Random(origin core.Vec3, sampler core.Sampler) core.Vec3
}

// lightRayMin offsets light-sampling rays from the shading point
const lightRayMin = 0.001

// sphereUV maps a point on the unit sphere to texture coordinates
func sphereUV(p core.Vec3) (u, v float64) {
	phi := math.Atan2(p.Z, p.X)
	theta := math.Asin(max(-1, min(1, p.Y)))
	u = 1 - (phi+math.Pi)/(2*math.Pi)
	v = (theta + math.Pi/2) / math.Pi
	return u, v
}

// boundingSphere samples the cone subtended by a sphere enclosing a shape.
// Shapes without an exact solid-angle sampler use it so that PDFValue and
// Random describe the same distribution.
type boundingSphere struct {
	center core.Vec3
	radius float64
}

// cone returns the cosine of the half angle and the solid angle of the cone
// the sphere subtends from origin. outside is false when origin is inside the sphere.
func (b boundingSphere) cone(origin core.Vec3) (cosThetaMax, solidAngle float64, outside bool) {
	distSquared := b.center.Subtract(origin).LengthSquared()
	r2 := b.radius * b.radius
	if distSquared <= r2 {
		return -1, 4 * math.Pi, false
	}
	cosThetaMax = math.Sqrt(1 - r2/distSquared)
	// 1 - cos written to keep precision for small, distant spheres
	oneMinusCos := (r2 / distSquared) / (1 + cosThetaMax)
	return cosThetaMax, 2 * math.Pi * oneMinusCos, true
}

func (b boundingSphere) pdfValue(origin, direction core.Vec3) float64 {
	cosThetaMax, solidAngle, outside := b.cone(origin)
	if !outside {
		return 1 / solidAngle
	}
	toCenter := b.center.Subtract(origin).Normalize()
	if direction.Normalize().Dot(toCenter) < cosThetaMax {
		return 0
	}
	return 1 / solidAngle
}

func (b boundingSphere) random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	direction := b.center.Subtract(origin)
	distSquared := direction.LengthSquared()
	if distSquared <= b.radius*b.radius {
		return core.SampleOnUnitSphere(sampler.Get2D())
	}
	uvw := core.NewONBFromW(direction)
	return uvw.LocalVec(core.RandomToSphere(b.radius, distSquared, sampler.Get2D()))
}
