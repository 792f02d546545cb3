package geometry

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// TriangleMesh is a collection of triangles behind their own BVH
type TriangleMesh struct {
	triangles []Shape
	bvh       *BVHNode
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	VertexNormals []core.Vec3         // Optional per-vertex normals, enables smooth shading
	SmoothNormals bool                // Compute per-vertex normals when none are given
	Materials     []material.Material // Optional per-triangle materials
	Rotation      *core.Vec3          // Optional rotation (radians about X, Y, Z) to apply to vertices
	Center        *core.Vec3          // Optional center point for rotation
	Scale         float64             // Optional uniform scale, applied after rotation
	Translate     core.Vec3           // Applied last
}

// NewTriangleMesh creates a mesh from vertices and face indices, where each
// group of three indices forms a triangle. options may be nil.
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat material.Material, options *TriangleMeshOptions, rng *rand.Rand) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("geometry: face indices must be a multiple of 3, got %d", len(faces))
	}
	if options == nil {
		options = &TriangleMeshOptions{}
	}

	numTriangles := len(faces) / 3
	if options.Materials != nil && len(options.Materials) != numTriangles {
		return nil, fmt.Errorf("geometry: %d materials for %d triangles", len(options.Materials), numTriangles)
	}
	if options.VertexNormals != nil && len(options.VertexNormals) != len(vertices) {
		return nil, fmt.Errorf("geometry: %d normals for %d vertices", len(options.VertexNormals), len(vertices))
	}
	for _, idx := range faces {
		if idx < 0 || idx >= len(vertices) {
			return nil, fmt.Errorf("geometry: face index %d out of bounds for %d vertices", idx, len(vertices))
		}
	}

	workingVertices, normals := transformVertices(vertices, options)
	if normals == nil && options.SmoothNormals {
		normals = computeVertexNormals(workingVertices, faces)
	}

	triangles := make([]Shape, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]

		triangleMaterial := mat
		if options.Materials != nil {
			triangleMaterial = options.Materials[i]
		}

		v0, v1, v2 := workingVertices[i0], workingVertices[i1], workingVertices[i2]
		if normals != nil {
			triangles[i] = NewMeshTriangle(v0, v1, v2, normals[i0], normals[i1], normals[i2], triangleMaterial)
		} else {
			triangles[i] = NewTriangle(v0, v1, v2, triangleMaterial)
		}
	}

	bvh, err := NewBVH(triangles, 0, 0, rng)
	if err != nil {
		return nil, fmt.Errorf("building mesh BVH: %w", err)
	}

	return &TriangleMesh{
		triangles: triangles,
		bvh:       bvh,
	}, nil
}

// transformVertices applies rotation, scale and translation to positions and
// rotates any supplied normals to match
func transformVertices(vertices []core.Vec3, options *TriangleMeshOptions) ([]core.Vec3, []core.Vec3) {
	scale := options.Scale
	if scale == 0 {
		scale = 1
	}

	var rotation eulerRotation
	if options.Rotation != nil {
		rotation = newEulerRotation(*options.Rotation)
	}

	out := make([]core.Vec3, len(vertices))
	for i, vertex := range vertices {
		if options.Rotation != nil {
			// Translate to center, rotate, then translate back
			if options.Center != nil {
				vertex = vertex.Subtract(*options.Center)
			}
			vertex = rotation.apply(vertex)
			if options.Center != nil {
				vertex = vertex.Add(*options.Center)
			}
		}
		out[i] = vertex.Multiply(scale).Add(options.Translate)
	}

	if options.VertexNormals == nil {
		return out, nil
	}
	normals := make([]core.Vec3, len(options.VertexNormals))
	for i, n := range options.VertexNormals {
		if options.Rotation != nil {
			n = rotation.apply(n)
		}
		normals[i] = n.Normalize()
	}
	return out, normals
}

// computeVertexNormals averages the area-weighted face normals around each vertex
func computeVertexNormals(vertices []core.Vec3, faces []int) []core.Vec3 {
	sums := make([]r3.Vec, len(vertices))
	for i := 0; i+2 < len(faces); i += 3 {
		a, b, c := toR3(vertices[faces[i]]), toR3(vertices[faces[i+1]]), toR3(vertices[faces[i+2]])
		// length of the cross product is twice the face area
		faceNormal := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		for _, idx := range faces[i : i+3] {
			sums[idx] = r3.Add(sums[idx], faceNormal)
		}
	}

	normals := make([]core.Vec3, len(vertices))
	for i, sum := range sums {
		if r3.Norm(sum) == 0 {
			continue
		}
		n := r3.Unit(sum)
		normals[i] = core.NewVec3(n.X, n.Y, n.Z)
	}
	return normals
}

func toR3(v core.Vec3) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// Hit tests if a ray intersects with any triangle in the mesh
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	return tm.bvh.Hit(ray, tMin, tMax)
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return tm.bvh.Box, true
}

// PDFValue delegates to the mesh's hierarchy
func (tm *TriangleMesh) PDFValue(origin, direction core.Vec3, time float64) float64 {
	return tm.bvh.PDFValue(origin, direction, time)
}

// Random delegates to the mesh's hierarchy
func (tm *TriangleMesh) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return tm.bvh.Random(origin, sampler)
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}

// Triangles returns the individual triangles
func (tm *TriangleMesh) Triangles() []Shape {
	return tm.triangles
}

// eulerRotation rotates around the X, Y and Z axes, in that order
type eulerRotation []r3.Rotation

func newEulerRotation(angles core.Vec3) eulerRotation {
	var rotation eulerRotation
	axes := [3]r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	for i, angle := range [3]float64{angles.X, angles.Y, angles.Z} {
		if angle != 0 {
			rotation = append(rotation, r3.NewRotation(angle, axes[i]))
		}
	}
	return rotation
}

func (e eulerRotation) apply(v core.Vec3) core.Vec3 {
	p := toR3(v)
	for _, r := range e {
		p = r.Rotate(p)
	}
	return core.NewVec3(p.X, p.Y, p.Z)
}
