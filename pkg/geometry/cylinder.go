package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Cylinder is a y-axis aligned cylinder of radius Radius spanning
// heights (0, Height) above Offset. The lateral surface and the top cap at
// y = Height are solid; the bottom is open.
type Cylinder struct {
	Radius   float64
	Height   float64
	Offset   core.Vec3
	Material material.Material
}

// NewCylinder creates a cylinder standing on the origin
func NewCylinder(radius, height float64, mat material.Material) *Cylinder {
	return &Cylinder{Radius: radius, Height: height, Material: mat}
}

// NewCylinderAt creates a cylinder whose base center sits at offset
func NewCylinderAt(offset core.Vec3, radius, height float64, mat material.Material) *Cylinder {
	return &Cylinder{Radius: radius, Height: height, Offset: offset, Material: mat}
}

// Hit returns the nearest hit on the lateral surface or top cap.
// The lateral surface wins when both are at the same distance.
func (c *Cylinder) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	o := ray.Origin.Subtract(c.Offset)
	d := ray.Direction

	bestT := math.Inf(1)
	var outwardNormal core.Vec3
	found := false

	// Lateral surface: (ox + t·dx)² + (oz + t·dz)² = r²
	a := d.X*d.X + d.Z*d.Z
	if a > 0 {
		halfB := d.X*o.X + d.Z*o.Z
		cc := o.X*o.X + o.Z*o.Z - c.Radius*c.Radius
		discriminant := halfB*halfB - a*cc
		if discriminant >= 0 {
			sqrtD := math.Sqrt(discriminant)
			for _, t := range [2]float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a} {
				if t <= tMin || t >= tMax {
					continue
				}
				y := o.Y + t*d.Y
				if y <= 0 || y >= c.Height {
					continue
				}
				p := o.Add(d.Multiply(t))
				bestT = t
				outwardNormal = core.NewVec3(p.X, 0, p.Z).Multiply(1 / c.Radius)
				found = true
				break
			}
		}
	}

	// Top cap: y = Height inside the radius
	if d.Y != 0 {
		t := (c.Height - o.Y) / d.Y
		if t > tMin && t < tMax && t < bestT {
			p := o.Add(d.Multiply(t))
			if p.X*p.X+p.Z*p.Z <= c.Radius*c.Radius {
				bestT = t
				outwardNormal = core.NewVec3(0, 1, 0)
				found = true
			}
		}
	}

	if !found {
		return nil, false
	}

	hit := &material.HitRecord{
		T:        bestT,
		Point:    ray.At(bestT),
		Material: c.Material,
	}
	hit.SetFaceNormal(ray, outwardNormal)
	hit.U, hit.V = sphereUV(outwardNormal)
	return hit, true
}

// BoundingBox returns [-r, 0, -r]..[r, h, r] shifted by the offset
func (c *Cylinder) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	min := core.NewVec3(-c.Radius, 0, -c.Radius).Add(c.Offset)
	max := core.NewVec3(c.Radius, c.Height, c.Radius).Add(c.Offset)
	return core.NewAABB(min, max), true
}

// bound is the smallest sphere enclosing the cylinder
func (c *Cylinder) bound() boundingSphere {
	half := c.Height / 2
	return boundingSphere{
		center: c.Offset.Add(core.NewVec3(0, half, 0)),
		radius: math.Sqrt(c.Radius*c.Radius + half*half),
	}
}

// PDFValue is the density of sampling the cone of the enclosing sphere
func (c *Cylinder) PDFValue(origin, direction core.Vec3, time float64) float64 {
	return c.bound().pdfValue(origin, direction)
}

// Random samples the cone of the enclosing sphere
func (c *Cylinder) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return c.bound().random(origin, sampler)
}
