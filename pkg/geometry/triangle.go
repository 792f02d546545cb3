package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// determinants below this are treated as rays parallel to the triangle plane
const triangleEpsilon = 1e-12

// Triangle represents a flat-shaded triangle
type Triangle struct {
	V0, V1, V2 core.Vec3
	Material   material.Material

	edge1, edge2 core.Vec3
	normal       core.Vec3 // unit geometric normal, counter-clockwise winding
	area         float64
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)
	cross := edge1.Cross(edge2)

	return &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
		edge1:    edge1,
		edge2:    edge2,
		normal:   cross.Normalize(),
		area:     cross.Length() / 2,
	}
}

// Area returns the surface area of the triangle
func (tri *Triangle) Area() float64 {
	return tri.area
}

// intersect solves for (t, β, γ) with the Möller–Trumbore method
func (tri *Triangle) intersect(ray core.Ray, tMin, tMax float64) (t, beta, gamma float64, ok bool) {
	p := ray.Direction.Cross(tri.edge2)
	det := tri.edge1.Dot(p)
	if math.Abs(det) < triangleEpsilon {
		return 0, 0, 0, false
	}
	invDet := 1.0 / det

	tvec := ray.Origin.Subtract(tri.V0)
	beta = tvec.Dot(p) * invDet
	if beta < 0 || beta > 1 {
		return 0, 0, 0, false
	}

	q := tvec.Cross(tri.edge1)
	gamma = ray.Direction.Dot(q) * invDet
	if gamma < 0 || beta+gamma > 1 {
		return 0, 0, 0, false
	}

	t = tri.edge2.Dot(q) * invDet
	if t <= tMin || t >= tMax {
		return 0, 0, 0, false
	}
	return t, beta, gamma, true
}

// Hit tests if a ray intersects with the triangle
func (tri *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	t, _, _, ok := tri.intersect(ray, tMin, tMax)
	if !ok {
		return nil, false
	}

	hit := &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: tri.Material,
	}
	hit.SetFaceNormal(ray, tri.normal)
	hit.U, hit.V = sphereUV(tri.normal)
	return hit, true
}

// BoundingBox returns the padded box around the three vertices
func (tri *Triangle) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return core.NewAABBFromPoints(tri.V0, tri.V1, tri.V2), true
}

// PDFValue converts the uniform area density to solid angle:
// dist² / (|cos θ| · area) at the point the direction hits
func (tri *Triangle) PDFValue(origin, direction core.Vec3, time float64) float64 {
	return triangleSolidAnglePDF(tri, origin, direction, time)
}

// Random samples a point uniformly over the triangle's area
func (tri *Triangle) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	b1, b2 := core.SampleUniformTriangle(sampler.Get2D())
	point := tri.V0.Add(tri.edge1.Multiply(b1)).Add(tri.edge2.Multiply(b2))
	return point.Subtract(origin)
}

func triangleSolidAnglePDF(tri *Triangle, origin, direction core.Vec3, time float64) float64 {
	if tri.area == 0 {
		return 0
	}
	ray := core.NewRayAt(origin, direction, time)
	t, _, _, ok := tri.intersect(ray, lightRayMin, math.Inf(1))
	if !ok {
		return 0
	}

	length := direction.Length()
	cosine := math.Abs(direction.Dot(tri.normal)) / length
	if cosine < 1e-8 {
		return 0
	}
	distSquared := t * t * length * length
	return distSquared / (cosine * tri.area)
}

// MeshTriangle is a triangle with per-vertex normals interpolated across the
// face for smooth shading. Intersection and light sampling match Triangle.
type MeshTriangle struct {
	Triangle
	N0, N1, N2 core.Vec3
}

// NewMeshTriangle creates a smooth-shaded triangle
func NewMeshTriangle(v0, v1, v2, n0, n1, n2 core.Vec3, mat material.Material) *MeshTriangle {
	return &MeshTriangle{
		Triangle: *NewTriangle(v0, v1, v2, mat),
		N0:       n0,
		N1:       n1,
		N2:       n2,
	}
}

// Hit intersects the face and interpolates the shading normal
func (m *MeshTriangle) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	t, beta, gamma, ok := m.intersect(ray, tMin, tMax)
	if !ok {
		return nil, false
	}

	normal := m.N0.Multiply(1 - beta - gamma).
		Add(m.N1.Multiply(beta)).
		Add(m.N2.Multiply(gamma)).
		Normalize()
	if normal == (core.Vec3{}) {
		normal = m.normal
	}

	hit := &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: m.Material,
	}
	hit.SetFaceNormal(ray, normal)
	hit.U, hit.V = sphereUV(normal)
	return hit, true
}
