package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	return hitSphere(s.Center, s.Radius, s.Material, ray, tMin, tMax)
}

// hitSphere solves the ray-sphere quadratic shared by static and moving spheres
func hitSphere(center core.Vec3, radius float64, mat material.Material, ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	oc := ray.Origin.Subtract(center)

	// at² + 2·halfB·t + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - radius*radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return nil, false
		}
	}

	hit := &material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: mat,
	}

	outwardNormal := hit.Point.Subtract(center).Multiply(1.0 / radius)
	hit.SetFaceNormal(ray, outwardNormal)
	hit.U, hit.V = sphereUV(outwardNormal)

	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return sphereBox(s.Center, s.Radius), true
}

func sphereBox(center core.Vec3, radius float64) core.AABB {
	r := math.Abs(radius)
	extent := core.NewVec3(r, r, r)
	return core.NewAABB(center.Subtract(extent), center.Add(extent))
}

// PDFValue returns 1/(2π(1-cosθmax)) for directions that hit the sphere.
// From inside the sphere every direction hits, so the density is uniform.
func (s *Sphere) PDFValue(origin, direction core.Vec3, time float64) float64 {
	if _, ok := s.Hit(core.NewRayAt(origin, direction, time), lightRayMin, math.Inf(1)); !ok {
		return 0
	}
	_, solidAngle, _ := boundingSphere{center: s.Center, radius: s.Radius}.cone(origin)
	return 1 / solidAngle
}

// Random samples a direction uniformly within the cone the sphere subtends from origin
func (s *Sphere) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return boundingSphere{center: s.Center, radius: s.Radius}.random(origin, sampler)
}

// MovingSphere is a sphere whose center moves linearly from Center0 at Time0
// to Center1 at Time1, producing motion blur
type MovingSphere struct {
	Center0, Center1 core.Vec3
	Time0, Time1     float64
	Radius           float64
	Material         material.Material
}

// NewMovingSphere creates a new moving sphere
func NewMovingSphere(center0, center1 core.Vec3, time0, time1, radius float64, mat material.Material) *MovingSphere {
	return &MovingSphere{
		Center0:  center0,
		Center1:  center1,
		Time0:    time0,
		Time1:    time1,
		Radius:   radius,
		Material: mat,
	}
}

// Center returns the center at the given time
func (s *MovingSphere) Center(time float64) core.Vec3 {
	if s.Time1 == s.Time0 {
		return s.Center0
	}
	f := (time - s.Time0) / (s.Time1 - s.Time0)
	return s.Center0.Add(s.Center1.Subtract(s.Center0).Multiply(f))
}

// Hit intersects the sphere at the ray's time
func (s *MovingSphere) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	return hitSphere(s.Center(ray.Time), s.Radius, s.Material, ray, tMin, tMax)
}

// BoundingBox unions the boxes at both ends of the interval
func (s *MovingSphere) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return core.SurroundingBox(sphereBox(s.Center(time0), s.Radius), sphereBox(s.Center(time1), s.Radius)), true
}

// swept returns a sphere enclosing every position of the moving sphere
func (s *MovingSphere) swept() boundingSphere {
	mid := s.Center0.Add(s.Center1).Multiply(0.5)
	return boundingSphere{center: mid, radius: s.Radius + s.Center1.Subtract(s.Center0).Length()/2}
}

// PDFValue uses the cone of the swept sphere, since Random has no time
func (s *MovingSphere) PDFValue(origin, direction core.Vec3, time float64) float64 {
	return s.swept().pdfValue(origin, direction)
}

// Random samples the cone of the swept sphere
func (s *MovingSphere) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return s.swept().random(origin, sampler)
}
